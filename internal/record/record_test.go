package record

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func validRow() RawRow {
	return RawRow{
		Team:     "COLM",
		Event:    "50 Free",
		Course:   "SCY",
		Gender:   "M",
		AgeGroup: "25-29",
		Time:     "22.45",
		Swimmer:  "John Doe",
		Date:     "2024-03-15",
		Meet:     "SC States",
	}
}

func TestFromRow(t *testing.T) {
	rec, err := FromRow(validRow())
	if err != nil {
		t.Fatalf("FromRow returned error: %v", err)
	}

	if rec.ID != "colm_50_free_scy_men_25_29" {
		t.Errorf("ID = %q", rec.ID)
	}
	if rec.Team != "COLM" {
		t.Errorf("Team = %q", rec.Team)
	}
	if rec.Course != CourseSCY || rec.Gender != GenderMen {
		t.Errorf("Course/Gender = %q/%q", rec.Course, rec.Gender)
	}
	if rec.TimeInSeconds != 22.45 {
		t.Errorf("TimeInSeconds = %v", rec.TimeInSeconds)
	}
	if rec.Year != "2024" {
		t.Errorf("Year = %q, want derived from date", rec.Year)
	}
}

func TestFromRowYearFallback(t *testing.T) {
	row := validRow()
	row.Date = ""
	row.Year = "2023"

	rec, err := FromRow(row)
	if err != nil {
		t.Fatalf("FromRow returned error: %v", err)
	}
	if rec.Year != "2023" {
		t.Errorf("Year = %q, want scrape-context fallback", rec.Year)
	}
}

func TestFromRowInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RawRow)
		want   error
	}{
		{"empty team", func(r *RawRow) { r.Team = "  " }, ErrInvalidRecord},
		{"empty event", func(r *RawRow) { r.Event = "" }, ErrInvalidRecord},
		{"empty age group", func(r *RawRow) { r.AgeGroup = "" }, ErrInvalidRecord},
		{"empty swimmer", func(r *RawRow) { r.Swimmer = "" }, ErrInvalidRecord},
		{"bad course", func(r *RawRow) { r.Course = "open water" }, ErrUnknownCourse},
		{"bad gender", func(r *RawRow) { r.Gender = "mixed" }, ErrUnknownGender},
		{"dq time", func(r *RawRow) { r.Time = "DQ" }, ErrUnparsableTime},
		{"zero time", func(r *RawRow) { r.Time = "0.00" }, ErrUnparsableTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := validRow()
			tt.mutate(&row)
			if _, err := FromRow(row); !errors.Is(err, tt.want) {
				t.Errorf("FromRow error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRecordJSONShape(t *testing.T) {
	row := validRow()
	row.Meet = ""
	rec, err := FromRow(row)
	if err != nil {
		t.Fatalf("FromRow returned error: %v", err)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	out := string(data)
	for _, key := range []string{"id", "team", "event", "course", "gender", "ageGroup", "time", "timeInSeconds", "swimmer", "date", "meet", "year"} {
		if !strings.Contains(out, `"`+key+`"`) {
			t.Errorf("serialized record missing key %q: %s", key, out)
		}
	}
	if !strings.Contains(out, `"meet":null`) {
		t.Errorf("empty meet should render as null: %s", out)
	}

	// Round-trip back through UnmarshalJSON.
	var back Record
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if back != rec {
		t.Errorf("round-trip mismatch: %+v vs %+v", back, rec)
	}

	// The serialized id must match DeriveID on the identity fields.
	if back.ID != DeriveID(back.Team, back.Event, back.Course, back.Gender, back.AgeGroup) {
		t.Errorf("serialized id %q does not match derived identity", back.ID)
	}
}
