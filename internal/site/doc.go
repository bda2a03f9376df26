// Package site implements the data contract between the pipeline and the
// team website: loading the published record array plus the optional
// spreadsheet feeds, pure query filtering and sorting over records, and
// sanitized rendering of markdown content fields. A small preview server
// exposes the same data locally.
package site
