// Package storage provides JSON-based persistence for record snapshots.
//
// Snapshots track the canonical record set across scrape runs, one file per
// team (snapshot_<team>.json, team lowercased) under the configured data
// directory. The
// incremental updater diffs a fresh scrape against the stored snapshot and
// only rewrites outputs when something actually changed.
package storage
