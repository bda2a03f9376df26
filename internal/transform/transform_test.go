package transform

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/colmmasters/teamrecords/internal/record"
)

const fixtureCSV = "../../testdata/fixtures/records.csv"

func TestLoadCSV(t *testing.T) {
	rows, err := LoadCSV(fixtureCSV)
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("loaded %d rows, want 5", len(rows))
	}
	if rows[0].Team != "COLM" || rows[0].Event != "50 Free" || rows[0].Time != "22.45" {
		t.Errorf("first row = %+v", rows[0])
	}
}

func TestReadRowsMissingColumn(t *testing.T) {
	_, err := ReadRows(strings.NewReader("team,event\nCOLM,50 Free\n"))
	if err == nil || !strings.Contains(err.Error(), "missing required column") {
		t.Errorf("want missing-column error, got %v", err)
	}
}

func TestTransformEndToEnd(t *testing.T) {
	rows, err := LoadCSV(fixtureCSV)
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}

	result := Transform(rows)

	// Two invalid rows (unknown course, DQ time) are skipped, and the two
	// 50 Free rows collapse into one slot.
	if result.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", result.Skipped)
	}
	if len(result.Records) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(result.Records), result.Records)
	}

	first := result.Records[0]
	if first.ID != "colm_50_free_scy_men_25_29" {
		t.Errorf("first id = %q", first.ID)
	}
	// Last wins: the later 50 Free row replaces the earlier one in place.
	if first.Swimmer != "Newer Swimmer" || first.TimeInSeconds != 22.10 {
		t.Errorf("last-wins dedup failed: %+v", first)
	}

	second := result.Records[1]
	if second.ID != "colm_100_free_scy_women_30_34" {
		t.Errorf("second id = %q", second.ID)
	}
	if second.TimeInSeconds != 58.12 {
		t.Errorf("second timeInSeconds = %v", second.TimeInSeconds)
	}
}

func TestTransformDeterministic(t *testing.T) {
	rows, err := LoadCSV(fixtureCSV)
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}

	for _, enc := range []Encoding{EncodingArray, EncodingKeyed, EncodingLines} {
		var a, b bytes.Buffer
		if err := Encode(&a, Transform(rows).Records, enc, Options{Pretty: true}); err != nil {
			t.Fatalf("Encode(%s) failed: %v", enc, err)
		}
		if err := Encode(&b, Transform(rows).Records, enc, Options{Pretty: true}); err != nil {
			t.Fatalf("Encode(%s) failed: %v", enc, err)
		}
		if !bytes.Equal(a.Bytes(), b.Bytes()) {
			t.Errorf("%s encoding is not byte-identical across runs", enc)
		}
	}
}

func TestEncodeArray(t *testing.T) {
	records := Transform(mustRows(t)).Records

	var buf bytes.Buffer
	if err := Encode(&buf, records, EncodingArray, Options{}); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("array output is not valid JSON: %v", err)
	}
	if len(decoded) != len(records) {
		t.Fatalf("decoded %d objects, want %d", len(decoded), len(records))
	}
	if decoded[0]["id"] != records[0].ID {
		t.Errorf("decoded id = %v, want %s", decoded[0]["id"], records[0].ID)
	}
	if decoded[0]["timeInSeconds"] != records[0].TimeInSeconds {
		t.Errorf("decoded timeInSeconds = %v", decoded[0]["timeInSeconds"])
	}
}

func TestEncodeKeyed(t *testing.T) {
	records := Transform(mustRows(t)).Records

	var buf bytes.Buffer
	if err := Encode(&buf, records, EncodingKeyed, Options{Pretty: true, Collection: "teamRecords"}); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var decoded map[string]map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("keyed output is not valid JSON: %v", err)
	}
	inner, ok := decoded["teamRecords"]
	if !ok {
		t.Fatalf("keyed output missing collection key: %s", buf.String())
	}
	for _, rec := range records {
		if _, ok := inner[rec.ID]; !ok {
			t.Errorf("keyed output missing id %s", rec.ID)
		}
	}
}

func TestEncodeLines(t *testing.T) {
	records := Transform(mustRows(t)).Records

	var buf bytes.Buffer
	if err := Encode(&buf, records, EncodingLines, Options{}); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != len(records) {
		t.Fatalf("got %d lines, want %d", len(lines), len(records))
	}
	for i, line := range lines {
		var rec record.Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", i, err)
		}
		if rec.ID != records[i].ID {
			t.Errorf("line %d id = %q, want %q", i, rec.ID, records[i].ID)
		}
	}
}

func TestWriteReadRowsRoundTrip(t *testing.T) {
	rows := mustRows(t)

	var buf bytes.Buffer
	if err := WriteRows(&buf, rows); err != nil {
		t.Fatalf("WriteRows failed: %v", err)
	}
	back, err := ReadRows(&buf)
	if err != nil {
		t.Fatalf("ReadRows failed: %v", err)
	}
	if len(back) != len(rows) {
		t.Fatalf("round-trip row count %d, want %d", len(back), len(rows))
	}
	if back[0] != rows[0] {
		t.Errorf("round-trip mismatch: %+v vs %+v", back[0], rows[0])
	}
}

func mustRows(t *testing.T) []record.RawRow {
	t.Helper()
	rows, err := LoadCSV(fixtureCSV)
	if err != nil {
		t.Fatalf("LoadCSV failed: %v", err)
	}
	return rows
}
