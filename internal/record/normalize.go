package record

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Course is the pool length standard a time was swum in.
type Course string

const (
	CourseSCY Course = "scy" // short course yards
	CourseSCM Course = "scm" // short course meters
	CourseLCM Course = "lcm" // long course meters
)

// Gender is the record category gender.
type Gender string

const (
	GenderMen   Gender = "men"
	GenderWomen Gender = "women"
)

// courseTokens maps the course spellings seen in USMS pages and exported
// spreadsheets to canonical codes.
var courseTokens = map[string]Course{
	"SCY":                 CourseSCY,
	"SHORT COURSE YARDS":  CourseSCY,
	"YARDS":               CourseSCY,
	"Y":                   CourseSCY,
	"SCM":                 CourseSCM,
	"SHORT COURSE METERS": CourseSCM,
	"LCM":                 CourseLCM,
	"LONG COURSE METERS":  CourseLCM,
	"LONG COURSE":         CourseLCM,
	"LC":                  CourseLCM,
}

// NormalizeCourse maps a raw course token to a canonical Course code.
// Matching is case-insensitive. Unrecognized input returns ErrUnknownCourse.
func NormalizeCourse(raw string) (Course, error) {
	token := strings.ToUpper(strings.TrimSpace(raw))
	if c, ok := courseTokens[token]; ok {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCourse, raw)
}

// NormalizeGender maps a raw gender token to men or women.
// Unrecognized input returns ErrUnknownGender.
func NormalizeGender(raw string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "m", "male", "men", "man":
		return GenderMen, nil
	case "f", "female", "women", "woman", "w":
		return GenderWomen, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGender, raw)
}

// strokeNames maps the stroke spellings that appear in event labels to their
// canonical display form.
var strokeNames = map[string]string{
	"free":         "Free",
	"freestyle":    "Free",
	"back":         "Back",
	"backstroke":   "Back",
	"breast":       "Breast",
	"breaststroke": "Breast",
	"fly":          "Fly",
	"butterfly":    "Fly",
	"im":           "IM",
	"medley":       "Medley",
}

// NormalizeEventName canonicalizes a free-text event label: whitespace is
// collapsed, long stroke names become their short form ("100 Butterfly" ->
// "100 Fly"), and "Individual Medley" becomes "IM". The function is
// idempotent: normalizing an already-canonical name returns it unchanged.
func NormalizeEventName(raw string) string {
	tokens := strings.Fields(strings.ToLower(raw))

	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok == "individual" && i+1 < len(tokens) && tokens[i+1] == "medley" {
			out = append(out, "IM")
			i++
			continue
		}
		if name, ok := strokeNames[tok]; ok {
			out = append(out, name)
			continue
		}
		out = append(out, capitalize(tok))
	}
	return strings.Join(out, " ")
}

// capitalize upper-cases the first byte of an ASCII token. Distances stay
// untouched since digits have no case.
func capitalize(tok string) string {
	if tok == "" {
		return tok
	}
	return strings.ToUpper(tok[:1]) + tok[1:]
}

var strokePattern = regexp.MustCompile(`(?i)\b(free|back|breast|fly|im|medley)\b`)

// StrokeToken extracts the stroke component from an event name, lowercased,
// or "" when the name contains no recognizable stroke. Used by the site
// query layer for stroke filtering.
func StrokeToken(event string) string {
	m := strokePattern.FindString(NormalizeEventName(event))
	return strings.ToLower(m)
}

var (
	timeHMS = regexp.MustCompile(`^(\d+):(\d{1,2}):(\d{1,2}(?:\.\d+)?)$`)
	timeMS  = regexp.MustCompile(`^(\d+):(\d{1,2}(?:\.\d+)?)$`)
	timeS   = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
)

// ParseTimeToSeconds converts a display swim time into total seconds.
// Accepted forms are "SS.hh", "MM:SS.hh", and "H:MM:SS.hh" for distance
// events. Anything else ("DQ", "NT", empty, garbage) returns
// ErrUnparsableTime.
func ParseTimeToSeconds(raw string) (float64, error) {
	s := strings.TrimSpace(raw)

	if m := timeHMS.FindStringSubmatch(s); m != nil {
		hours, _ := strconv.Atoi(m[1])
		minutes, _ := strconv.Atoi(m[2])
		seconds, _ := strconv.ParseFloat(m[3], 64)
		return float64(hours)*3600 + float64(minutes)*60 + seconds, nil
	}
	if m := timeMS.FindStringSubmatch(s); m != nil {
		minutes, _ := strconv.Atoi(m[1])
		seconds, _ := strconv.ParseFloat(m[2], 64)
		return float64(minutes)*60 + seconds, nil
	}
	if timeS.MatchString(s) {
		seconds, _ := strconv.ParseFloat(s, 64)
		return seconds, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnparsableTime, raw)
}

// DeriveID builds the deterministic identity for a record slot from the five
// identity fields. Each field is lowercased and slugified, then joined with
// underscores:
//
//	DeriveID("COLM", "50 Free", CourseSCY, GenderMen, "25-29")
//	  == "colm_50_free_scy_men_25_29"
//
// The result depends only on its inputs.
func DeriveID(team, event string, course Course, gender Gender, ageGroup string) string {
	return strings.Join([]string{
		slugify(team),
		slugify(event),
		slugify(string(course)),
		slugify(string(gender)),
		slugify(ageGroup),
	}, "_")
}

// slugify lowercases a field and flattens separators: whitespace and hyphens
// become underscores, "+" in open-ended age groups ("85+") becomes "plus".
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "+", "plus")
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), "_")
}
