package site

import (
	"net/url"
	"sort"
	"strings"

	"github.com/colmmasters/teamrecords/internal/record"
)

// Query is the explicit filter and sort state applied to the record table.
// The zero value matches everything and keeps input order.
type Query struct {
	// Exact-match filters, case-insensitive.
	Course   string
	Gender   string
	AgeGroup string
	Year     string

	// Stroke is a substring match on the stroke token derived from the
	// event name (free, back, breast, fly, im, medley).
	Stroke string

	// Search is a free-text substring match across swimmer, event, and meet.
	Search string

	// SortBy names a column: time sorts numerically on timeInSeconds,
	// anything else sorts lexically. Empty means input order.
	SortBy     string
	Descending bool
}

// QueryFromValues builds a Query from URL parameters, the shape the preview
// server and the website share.
func QueryFromValues(v url.Values) Query {
	return Query{
		Course:     v.Get("course"),
		Gender:     v.Get("gender"),
		AgeGroup:   v.Get("ageGroup"),
		Year:       v.Get("year"),
		Stroke:     v.Get("stroke"),
		Search:     v.Get("search"),
		SortBy:     v.Get("sort"),
		Descending: v.Get("desc") == "1" || strings.EqualFold(v.Get("desc"), "true"),
	}
}

// IsEmpty reports whether the query has no active criteria.
func (q Query) IsEmpty() bool {
	return q == Query{}
}

// Apply filters and sorts records. Pure: the input slice is never modified,
// and identical inputs produce identical output order.
func (q Query) Apply(records []record.Record) []record.Record {
	out := make([]record.Record, 0, len(records))
	for _, rec := range records {
		if q.matches(rec) {
			out = append(out, rec)
		}
	}
	q.sortRecords(out)
	return out
}

func (q Query) matches(rec record.Record) bool {
	if q.Course != "" && !strings.EqualFold(q.Course, string(rec.Course)) {
		return false
	}
	if q.Gender != "" && !strings.EqualFold(q.Gender, string(rec.Gender)) {
		return false
	}
	if q.AgeGroup != "" && !strings.EqualFold(q.AgeGroup, rec.AgeGroup) {
		return false
	}
	if q.Year != "" && q.Year != rec.Year {
		return false
	}
	if q.Stroke != "" {
		token := record.StrokeToken(rec.Event)
		if token == "" || !strings.Contains(token, strings.ToLower(q.Stroke)) {
			return false
		}
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		haystack := strings.ToLower(rec.Swimmer + " " + rec.Event + " " + rec.Meet)
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}

func (q Query) sortRecords(records []record.Record) {
	if q.SortBy == "" {
		return
	}

	less := func(a, b record.Record) bool {
		switch q.SortBy {
		case "time", "timeInSeconds":
			return a.TimeInSeconds < b.TimeInSeconds
		case "swimmer":
			return lexLess(a.Swimmer, b.Swimmer)
		case "event":
			return lexLess(a.Event, b.Event)
		case "ageGroup":
			return lexLess(a.AgeGroup, b.AgeGroup)
		case "year":
			return lexLess(a.Year, b.Year)
		case "meet":
			return lexLess(a.Meet, b.Meet)
		case "date":
			return lexLess(a.Date, b.Date)
		case "course":
			return lexLess(string(a.Course), string(b.Course))
		case "gender":
			return lexLess(string(a.Gender), string(b.Gender))
		default:
			return lexLess(a.ID, b.ID)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		if q.Descending {
			return less(records[j], records[i])
		}
		return less(records[i], records[j])
	})
}

func lexLess(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}
