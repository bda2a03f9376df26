package cli

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/colmmasters/teamrecords/internal/record"
)

func TestParseYears(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    []int
		wantErr bool
	}{
		{name: "range", spec: "2022-2025", want: []int{2022, 2023, 2024, 2025}},
		{name: "single year", spec: "2024", want: []int{2024}},
		{name: "comma list", spec: "2020,2022,2024", want: []int{2020, 2022, 2024}},
		{name: "list with spaces", spec: "2020, 2021", want: []int{2020, 2021}},
		{name: "reversed range", spec: "2025-2020", wantErr: true},
		{name: "empty", spec: "", wantErr: true},
		{name: "garbage", spec: "twenty", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseYears(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseYears(%q) expected error, got %v", tt.spec, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseYears(%q) unexpected error: %v", tt.spec, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseYears(%q) = %v, want %v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestSplitCourses(t *testing.T) {
	tests := []struct {
		spec string
		want []string
	}{
		{"SCY,SCM,LCM", []string{"SCY", "SCM", "LCM"}},
		{"scy, lcm", []string{"SCY", "LCM"}},
		{"SCY,,", []string{"SCY"}},
	}

	for _, tt := range tests {
		got := splitCourses(tt.spec)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitCourses(%q) = %v, want %v", tt.spec, got, tt.want)
		}
	}
}

func TestCombinedPath(t *testing.T) {
	got := combinedPath("data/json", "colm")
	if !strings.HasSuffix(got, "colm_all_records.json") {
		t.Errorf("combinedPath = %q, want suffix colm_all_records.json", got)
	}
}

func TestWriteDiffReportText(t *testing.T) {
	diff := &record.UpdateDiff{
		Added: []record.Record{{
			ID:       "colm_50_free_scy_men_25_29",
			Event:    "50 Free",
			Course:   "SCY",
			Gender:   "Men",
			AgeGroup: "25-29",
			Time:     "22.10",
			Swimmer:  "Newer Swimmer",
		}},
		Changed: []record.Change{{
			ID:     "colm_100_free_scy_women_30_34",
			Before: record.Record{Time: "58.12"},
			After: record.Record{
				Event:    "100 Free",
				Course:   "SCY",
				Gender:   "Women",
				AgeGroup: "30-34",
				Time:     "57.80",
				Swimmer:  "Jane Smith",
			},
		}},
	}

	var buf bytes.Buffer
	if err := writeDiffReport(&buf, diff, "text"); err != nil {
		t.Fatalf("writeDiffReport: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"New records (1):",
		"+ Men 25-29 50 Free SCY: 22.10 (Newer Swimmer)",
		"Updated records (1):",
		"~ Women 30-34 100 Free SCY: 58.12 -> 57.80 (Jane Smith)",
		"Total: 1 added, 1 changed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q in:\n%s", want, out)
		}
	}
}

func TestWriteDiffReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := writeDiffReport(&buf, &record.UpdateDiff{}, "text"); err != nil {
		t.Fatalf("writeDiffReport: %v", err)
	}
	if !strings.Contains(buf.String(), "up to date") {
		t.Errorf("empty diff report = %q", buf.String())
	}
}

func TestWriteDiffReportJSON(t *testing.T) {
	diff := &record.UpdateDiff{
		Added: []record.Record{{ID: "colm_50_free_scy_men_25_29"}},
	}

	var buf bytes.Buffer
	if err := writeDiffReport(&buf, diff, "json"); err != nil {
		t.Fatalf("writeDiffReport: %v", err)
	}

	var decoded record.UpdateDiff
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if len(decoded.Added) != 1 || decoded.Added[0].ID != "colm_50_free_scy_men_25_29" {
		t.Errorf("decoded diff = %+v", decoded)
	}
}
