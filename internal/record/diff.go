package record

// Snapshot is the persisted record set from a previous scrape, keyed by
// record ID.
type Snapshot struct {
	Records   map[string]Record `json:"records"`
	UpdatedAt string            `json:"updated_at"` // RFC3339
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{Records: make(map[string]Record)}
}

// BuildSnapshot creates a snapshot from a record sequence. Later entries win
// when IDs collide, mirroring the transformer's dedup policy.
func BuildSnapshot(records []Record, updatedAt string) *Snapshot {
	snap := NewSnapshot()
	snap.UpdatedAt = updatedAt
	for _, rec := range records {
		snap.Records[rec.ID] = rec
	}
	return snap
}

// Change is a superseded record slot: the stored payload and the freshly
// scraped one that replaces it.
type Change struct {
	ID     string `json:"id"`
	Before Record `json:"before"`
	After  Record `json:"after"`
}

// UpdateDiff is the result of comparing a fresh scrape against a previous
// snapshot. Added preserves the fresh input order; Changed holds slots whose
// payload differs.
type UpdateDiff struct {
	Added   []Record `json:"added"`
	Changed []Change `json:"changed"`
}

// Empty reports whether the diff carries no additions or changes.
func (d *UpdateDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Changed) == 0
}

// Diff compares freshly scraped records against a previous snapshot.
//
// added:   IDs present only in fresh.
// changed: IDs present in both whose canonical payload differs.
//
// IDs present in the snapshot but absent from fresh are left untouched: a
// current-period scrape cannot assert deletions for other periods, so
// absence is never evidence of removal. An empty fresh set yields an empty
// diff. Running Diff again after merging the result back into the snapshot
// yields an empty diff, provided the source data has not changed.
func Diff(previous *Snapshot, fresh []Record) *UpdateDiff {
	if previous == nil {
		previous = NewSnapshot()
	}

	// Transformer output is already deduped; guard raw input with the same
	// last-wins policy, keeping the first occurrence's slot order.
	slot := make(map[string]int, len(fresh))
	deduped := make([]Record, 0, len(fresh))
	for _, rec := range fresh {
		if i, ok := slot[rec.ID]; ok {
			deduped[i] = rec
			continue
		}
		slot[rec.ID] = len(deduped)
		deduped = append(deduped, rec)
	}

	diff := &UpdateDiff{}
	for _, rec := range deduped {
		prev, exists := previous.Records[rec.ID]
		if !exists {
			diff.Added = append(diff.Added, rec)
			continue
		}
		if prev != rec {
			diff.Changed = append(diff.Changed, Change{ID: rec.ID, Before: prev, After: rec})
		}
	}
	return diff
}

// Merge applies a fresh scrape on top of a snapshot: fresh records overwrite
// their slots, everything else is carried forward. Returns a new snapshot;
// the input is not mutated.
func Merge(previous *Snapshot, fresh []Record, updatedAt string) *Snapshot {
	merged := NewSnapshot()
	merged.UpdatedAt = updatedAt
	if previous != nil {
		for id, rec := range previous.Records {
			merged.Records[id] = rec
		}
	}
	for _, rec := range fresh {
		merged.Records[rec.ID] = rec
	}
	return merged
}
