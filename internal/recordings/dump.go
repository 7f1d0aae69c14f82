package recordings

import (
	"fmt"
	"io"
	"sort"
)

// DescriptionWidth is the width descriptions are truncated to in listings.
const DescriptionWidth = 70

// Dump writes a listing of recordings sorted by show title, season, episode and
// air time. Recordings whose category cannot be named are skipped.
func Dump(w io.Writer, recs []*Recording) error {
	type entry struct {
		rec      *Recording
		sum      Summary
		title    string
		filename string
	}

	var entries []entry
	for _, r := range recs {
		s, err := Summarize(r)
		if err != nil {
			return err
		}
		title, filename, ok := TitleAndFilename(s)
		if !ok {
			continue
		}
		entries = append(entries, entry{rec: r, sum: s, title: title, filename: filename})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].sum, entries[j].sum
		if a.ShowTitle != b.ShowTitle {
			return a.ShowTitle < b.ShowTitle
		}
		if sa, sb := intValue(a.EpisodeSeason), intValue(b.EpisodeSeason); sa != sb {
			return sa < sb
		}
		if na, nb := intValue(a.EpisodeNumber), intValue(b.EpisodeNumber); na != nb {
			return na < nb
		}
		return a.ShowTime < b.ShowTime
	})

	for _, e := range entries {
		desc := e.sum.EpisodeDescription
		if desc == "" {
			desc = e.sum.EventDescription
		}
		if _, err := fmt.Fprintf(w, "Filename : %s\nTitle Tag: %s\nDesc:      %s\nPath:      %s (%s)\n\n",
			e.filename, e.title, Truncate(desc, DescriptionWidth), e.rec.Path, e.rec.Device); err != nil {
			return err
		}
	}
	return nil
}

func intValue(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
