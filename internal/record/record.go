package record

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// RawRow is one un-normalized input row, straight from a CSV line or a
// scraped results table. All fields are strings; rows that fail
// normalization are discarded, nothing else consumes them.
type RawRow struct {
	Team     string
	Event    string
	Course   string
	Gender   string
	AgeGroup string
	Time     string
	Swimmer  string
	Date     string
	Meet     string
	Year     string
	Rank     string
}

// Record is one canonical team record. Values are immutable after
// construction; an updated time for the same slot is a new Record that
// supersedes this one, keyed by ID.
type Record struct {
	ID            string
	Team          string
	Event         string
	Course        Course
	Gender        Gender
	AgeGroup      string
	Time          string
	TimeInSeconds float64
	Swimmer       string
	Date          string
	Meet          string
	Year          string
}

// FromRow normalizes a raw row into a Record. The five identity fields must
// be non-empty after normalization and the time must parse to a positive
// number of seconds; otherwise an error wrapping one of the package
// sentinels is returned and the row should be skipped.
func FromRow(row RawRow) (Record, error) {
	team := strings.ToUpper(strings.TrimSpace(row.Team))
	event := NormalizeEventName(row.Event)
	ageGroup := strings.TrimSpace(row.AgeGroup)
	swimmer := strings.TrimSpace(row.Swimmer)

	if team == "" || event == "" || ageGroup == "" || swimmer == "" {
		return Record{}, fmt.Errorf("%w: missing required field in %+v", ErrInvalidRecord, row)
	}

	course, err := NormalizeCourse(row.Course)
	if err != nil {
		return Record{}, err
	}
	gender, err := NormalizeGender(row.Gender)
	if err != nil {
		return Record{}, err
	}

	displayTime := strings.TrimSpace(row.Time)
	seconds, err := ParseTimeToSeconds(displayTime)
	if err != nil {
		return Record{}, err
	}
	if seconds <= 0 {
		return Record{}, fmt.Errorf("%w: non-positive time %q", ErrUnparsableTime, row.Time)
	}

	date := strings.TrimSpace(row.Date)

	return Record{
		ID:            DeriveID(team, event, course, gender, ageGroup),
		Team:          team,
		Event:         event,
		Course:        course,
		Gender:        gender,
		AgeGroup:      ageGroup,
		Time:          displayTime,
		TimeInSeconds: seconds,
		Swimmer:       swimmer,
		Date:          date,
		Meet:          strings.TrimSpace(row.Meet),
		Year:          deriveYear(date, row.Year),
	}, nil
}

// deriveYear prefers the calendar date's year, then falls back to the
// scrape-context year carried on the row.
func deriveYear(date, fallback string) string {
	if d, err := time.Parse("2006-01-02", date); err == nil {
		return fmt.Sprintf("%d", d.Year())
	}
	return strings.TrimSpace(fallback)
}

// external is the fixed serialized shape shared by all three encodings.
// Optional fields render as null rather than being omitted, so downstream
// consumers always see the full key set.
type external struct {
	ID            string  `json:"id"`
	Team          string  `json:"team"`
	Event         string  `json:"event"`
	Course        string  `json:"course"`
	Gender        string  `json:"gender"`
	AgeGroup      string  `json:"ageGroup"`
	Time          string  `json:"time"`
	TimeInSeconds float64 `json:"timeInSeconds"`
	Swimmer       string  `json:"swimmer"`
	Date          *string `json:"date"`
	Meet          *string `json:"meet"`
	Year          *string `json:"year"`
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// MarshalJSON renders the fixed camelCase key set used by every output
// encoding and by the website.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(external{
		ID:            r.ID,
		Team:          r.Team,
		Event:         r.Event,
		Course:        string(r.Course),
		Gender:        string(r.Gender),
		AgeGroup:      r.AgeGroup,
		Time:          r.Time,
		TimeInSeconds: r.TimeInSeconds,
		Swimmer:       r.Swimmer,
		Date:          nullable(r.Date),
		Meet:          nullable(r.Meet),
		Year:          nullable(r.Year),
	})
}

// UnmarshalJSON is the inverse of MarshalJSON, used when loading persisted
// snapshots and published record files.
func (r *Record) UnmarshalJSON(data []byte) error {
	var e external
	if err := json.Unmarshal(data, &e); err != nil {
		return err
	}
	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	*r = Record{
		ID:            e.ID,
		Team:          e.Team,
		Event:         e.Event,
		Course:        Course(e.Course),
		Gender:        Gender(e.Gender),
		AgeGroup:      e.AgeGroup,
		Time:          e.Time,
		TimeInSeconds: e.TimeInSeconds,
		Swimmer:       e.Swimmer,
		Date:          deref(e.Date),
		Meet:          deref(e.Meet),
		Year:          deref(e.Year),
	}
	return nil
}
