// Package record defines the canonical team-record model and the pure
// normalization functions that build it from raw scraped or CSV input.
//
// A record's identity is derived from exactly five fields: team, event,
// course, gender, and age group. Two records with the same identity describe
// the same record slot; time, swimmer, date, and meet are payload that can be
// superseded without changing the slot. Snapshot diffing builds on that
// identity to detect added and changed records between scrapes.
package record
