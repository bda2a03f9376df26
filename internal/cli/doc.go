// Package cli implements the teamrecords command-line interface.
//
// The Cobra-based CLI wires the scraper, transformer, incremental updater,
// and site packages into the scrape, transform, update, publish, all, and
// serve subcommands. Configuration loads from defaults, an optional YAML
// file, and TEAMRECORDS_ environment variables; command flags override the
// loaded values. Row- and fetch-level failures are logged skips rather than
// fatal errors.
package cli
