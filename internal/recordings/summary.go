package recordings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Summary is the subset of recording metadata used for naming and listing.
type Summary struct {
	Category           string
	Path               string
	ShowTitle          string
	ShowTime           string
	EpisodeTitle       string
	EpisodeDate        string
	EpisodeDescription string
	EpisodeSeason      *int
	EpisodeNumber      *int
	EventTitle         string
	EventDescription   string
	EventSeason        string
	MovieYear          *int
	ExpectedDuration   *float64
}

// flexString accepts either a JSON string or a JSON number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type details struct {
	Path          string `json:"path"`
	AiringDetails struct {
		Datetime  string `json:"datetime"`
		ShowTitle string `json:"show_title"`
	} `json:"airing_details"`
	Episode struct {
		Title        string `json:"title"`
		OrigAirDate  string `json:"orig_air_date"`
		Description  string `json:"description"`
		SeasonNumber *int   `json:"season_number"`
		Number       *int   `json:"number"`
	} `json:"episode"`
	MovieAiring struct {
		ReleaseYear *int `json:"release_year"`
	} `json:"movie_airing"`
	Event struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		Season      flexString `json:"season"`
	} `json:"event"`
	VideoDetails struct {
		Duration *float64 `json:"duration"`
	} `json:"video_details"`
}

// Summarize extracts a Summary from a recording's details.
// Category-specific fields are only filled for their category.
func Summarize(r *Recording) (Summary, error) {
	var d details
	if len(r.Details) > 0 {
		if err := json.Unmarshal(r.Details, &d); err != nil {
			return Summary{}, fmt.Errorf("parse details of %s: %w", r.Path, err)
		}
	}

	s := Summary{
		Category:  r.Category,
		Path:      d.Path,
		ShowTitle: d.AiringDetails.ShowTitle,
		ShowTime:  d.AiringDetails.Datetime,
	}
	if s.Category == "" {
		s.Category = CategoryOf(r.Path)
	}
	if dur := d.VideoDetails.Duration; dur != nil && *dur > 0 {
		s.ExpectedDuration = dur
	}

	switch s.Category {
	case "movies":
		s.MovieYear = d.MovieAiring.ReleaseYear
	case "series":
		s.EpisodeTitle = d.Episode.Title
		s.EpisodeDate = d.Episode.OrigAirDate
		s.EpisodeDescription = d.Episode.Description
		s.EpisodeSeason = d.Episode.SeasonNumber
		s.EpisodeNumber = d.Episode.Number
	case "sports":
		s.EventTitle = d.Event.Title
		s.EventDescription = d.Event.Description
		s.EventSeason = string(d.Event.Season)
	}
	return s, nil
}

// TitleAndFilename builds the title tag and the .mp4 filename for a recording.
// ok is false for categories that cannot be named.
func TitleAndFilename(s Summary) (title, filename string, ok bool) {
	show := s.ShowTitle
	if show == "" {
		show = "UNKNOWN"
	}
	filename, title = show, show

	switch s.Category {
	case "movies":
		if s.MovieYear != nil {
			filename += fmt.Sprintf(" (%d)", *s.MovieYear)
		}

	case "series":
		if s.EpisodeTitle != "" {
			filename += "_-_" + s.EpisodeTitle
			title += " - " + s.EpisodeTitle
		}

		season := ""
		if s.EpisodeSeason != nil && *s.EpisodeSeason > 0 {
			season = fmt.Sprintf("%02d", *s.EpisodeSeason)
		}
		number := ""
		if s.EpisodeNumber != nil && *s.EpisodeNumber > 0 {
			number = fmt.Sprintf("%02d", *s.EpisodeNumber)
			if season == "" {
				season = "00"
			}
		}
		if season != "" {
			code := "S" + season
			if number != "" {
				code += "E" + number
			}
			filename += "_-_" + code
			if s.EpisodeTitle == "" {
				title += " - " + code
			}
		}

		if s.EpisodeTitle == "" && season == "" {
			filename += " " + datePart(s.ShowTime)
		}

	case "sports":
		if s.EventTitle != "" {
			filename += "_-_" + s.EventTitle
			title += " - " + s.EventTitle
		}
		if s.ShowTime != "" {
			filename += "_-_" + datePart(s.ShowTime)
			title += " - " + datePart(s.ShowTime)
		}

	default:
		return "", "", false
	}

	filename = strings.ReplaceAll(SanitizeFilename(filename), " ", "_") + ".mp4"
	return title, filename, true
}

// datePart returns the YYYY-MM-DD prefix of an ISO timestamp.
func datePart(ts string) string {
	if len(ts) > 10 {
		return ts[:10]
	}
	return ts
}

// Truncate shortens s to fit length, cutting on a word boundary and appending " ...".
func Truncate(s string, length int) string {
	if len(s) < length {
		return s
	}
	cut := length - 4
	if cut < 0 {
		cut = 0
	}
	if sp := strings.LastIndex(s[:cut], " "); sp >= 0 {
		cut = sp
	}
	return s[:cut] + " ..."
}
