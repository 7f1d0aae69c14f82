package recordings

import (
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FuzzyThreshold is the minimum Jaro-Winkler similarity between a query and a
// show title for a fuzzy match.
const FuzzyThreshold = 0.85

// Match is a recording selected by show title.
type Match struct {
	Recording *Recording
	Summary   Summary
	Title     string
	Filename  string
}

// FindByShowTitle returns the most recently aired recording whose title contains
// query, ignoring case and accents. When no title contains the query, show titles
// similar to the query are considered instead.
func FindByShowTitle(recs []*Recording, query string) (*Match, bool) {
	q := foldTitle(query)
	if q == "" {
		return nil, false
	}

	var candidates []*Match
	for _, r := range recs {
		s, err := Summarize(r)
		if err != nil {
			continue
		}
		title, filename, ok := TitleAndFilename(s)
		if !ok {
			continue
		}
		candidates = append(candidates, &Match{Recording: r, Summary: s, Title: title, Filename: filename})
	}

	best := mostRecent(candidates, func(m *Match) bool {
		return strings.Contains(foldTitle(m.Title), q)
	})
	if best == nil {
		best = mostRecent(candidates, func(m *Match) bool {
			return float64(edlib.JaroWinklerSimilarity(foldTitle(m.Summary.ShowTitle), q)) >= FuzzyThreshold
		})
	}
	return best, best != nil
}

func mostRecent(candidates []*Match, keep func(*Match) bool) *Match {
	var best *Match
	for _, m := range candidates {
		if !keep(m) {
			continue
		}
		// ISO timestamps compare lexically.
		if best == nil || m.Summary.ShowTime > best.Summary.ShowTime {
			best = m
		}
	}
	return best
}

// foldTitle lowercases, strips accents, and collapses whitespace.
func foldTitle(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}
	return strings.Join(strings.Fields(folded), " ")
}
