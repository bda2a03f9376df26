package record

import "testing"

func mustRecord(t *testing.T, row RawRow) Record {
	t.Helper()
	rec, err := FromRow(row)
	if err != nil {
		t.Fatalf("FromRow(%+v) failed: %v", row, err)
	}
	return rec
}

func TestDiffAddedAndChanged(t *testing.T) {
	stored := mustRecord(t, RawRow{
		Team: "COLM", Event: "50 Free", Course: "SCY", Gender: "M",
		AgeGroup: "25-29", Time: "23.10", Swimmer: "Old Swimmer", Year: "2024",
	})
	untouched := mustRecord(t, RawRow{
		Team: "COLM", Event: "100 Back", Course: "LCM", Gender: "W",
		AgeGroup: "30-34", Time: "1:10.00", Swimmer: "Jane Smith", Year: "2019",
	})
	previous := BuildSnapshot([]Record{stored, untouched}, "2025-01-01T00:00:00Z")

	improved := mustRecord(t, RawRow{
		Team: "COLM", Event: "50 Free", Course: "SCY", Gender: "M",
		AgeGroup: "25-29", Time: "22.45", Swimmer: "John Doe", Year: "2025",
	})
	brandNew := mustRecord(t, RawRow{
		Team: "COLM", Event: "200 Fly", Course: "SCY", Gender: "M",
		AgeGroup: "25-29", Time: "2:10.00", Swimmer: "John Doe", Year: "2025",
	})

	diff := Diff(previous, []Record{improved, brandNew})

	if len(diff.Added) != 1 || diff.Added[0].ID != brandNew.ID {
		t.Errorf("Added = %+v, want only %s", diff.Added, brandNew.ID)
	}
	if len(diff.Changed) != 1 {
		t.Fatalf("Changed = %+v, want one entry", diff.Changed)
	}
	if diff.Changed[0].Before != stored || diff.Changed[0].After != improved {
		t.Errorf("Changed[0] = %+v", diff.Changed[0])
	}
}

func TestDiffAbsenceIsNotRemoval(t *testing.T) {
	stored := mustRecord(t, RawRow{
		Team: "COLM", Event: "100 Back", Course: "SCM", Gender: "W",
		AgeGroup: "30-34", Time: "1:08.00", Swimmer: "Jane Smith", Year: "2018",
	})
	previous := BuildSnapshot([]Record{stored}, "2025-01-01T00:00:00Z")

	diff := Diff(previous, nil)
	if !diff.Empty() {
		t.Errorf("empty fresh scrape must produce an empty diff, got %+v", diff)
	}

	merged := Merge(previous, nil, "2025-01-02T00:00:00Z")
	if _, ok := merged.Records[stored.ID]; !ok {
		t.Error("record absent from fresh scrape must survive the merge")
	}
}

func TestDiffIdempotent(t *testing.T) {
	fresh := []Record{
		mustRecord(t, RawRow{
			Team: "COLM", Event: "50 Free", Course: "SCY", Gender: "M",
			AgeGroup: "25-29", Time: "22.45", Swimmer: "John Doe", Year: "2025",
		}),
		mustRecord(t, RawRow{
			Team: "COLM", Event: "100 Free", Course: "SCY", Gender: "W",
			AgeGroup: "30-34", Time: "58.12", Swimmer: "Jane Smith", Year: "2025",
		}),
	}

	first := Diff(NewSnapshot(), fresh)
	if len(first.Added) != 2 {
		t.Fatalf("first run Added = %d, want 2", len(first.Added))
	}

	merged := Merge(NewSnapshot(), fresh, "2025-06-01T00:00:00Z")
	second := Diff(merged, fresh)
	if !second.Empty() {
		t.Errorf("second run with no external change must be empty, got %+v", second)
	}
}

func TestDiffDuplicateIDsLastWins(t *testing.T) {
	earlier := mustRecord(t, RawRow{
		Team: "COLM", Event: "50 Free", Course: "SCY", Gender: "M",
		AgeGroup: "25-29", Time: "22.45", Swimmer: "John Doe", Year: "2025",
	})
	later := mustRecord(t, RawRow{
		Team: "COLM", Event: "50 Free", Course: "SCY", Gender: "M",
		AgeGroup: "25-29", Time: "22.10", Swimmer: "Newer Swimmer", Year: "2025",
	})
	if earlier.ID != later.ID {
		t.Fatalf("test rows must share an ID: %s vs %s", earlier.ID, later.ID)
	}

	diff := Diff(NewSnapshot(), []Record{earlier, later})
	if len(diff.Added) != 1 {
		t.Fatalf("Added = %+v, want one entry", diff.Added)
	}
	// Same policy as the transformer: the later occurrence supersedes.
	if diff.Added[0].Swimmer != "Newer Swimmer" || diff.Added[0].Time != "22.10" {
		t.Errorf("Added[0] = %+v, want the later payload", diff.Added[0])
	}

	stored := BuildSnapshot([]Record{earlier}, "2025-01-01T00:00:00Z")
	diff = Diff(stored, []Record{earlier, later})
	if len(diff.Changed) != 1 || diff.Changed[0].After != later {
		t.Errorf("Changed = %+v, want the later payload as After", diff.Changed)
	}
}

func TestDiffNilPrevious(t *testing.T) {
	rec := mustRecord(t, RawRow{
		Team: "COLM", Event: "50 Free", Course: "SCY", Gender: "M",
		AgeGroup: "25-29", Time: "22.45", Swimmer: "John Doe", Year: "2025",
	})
	diff := Diff(nil, []Record{rec})
	if len(diff.Added) != 1 {
		t.Errorf("nil previous should behave as empty snapshot, got %+v", diff)
	}
}
