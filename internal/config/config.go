// Package config defines pipeline configuration and its loading rules.
//
// Configuration is an explicit value passed into the scraper, transformer,
// and site layers; nothing reads package-level mutable state. Defaults are
// layered under an optional YAML file and TEAMRECORDS_-prefixed environment
// variables, and CLI flags override the loaded values on top.
package config

import "time"

// Feeds holds the spreadsheet CSV export URLs for the four optional site
// feeds. An empty URL disables that feed.
type Feeds struct {
	Events   string `koanf:"events"`
	Schedule string `koanf:"schedule"`
	Board    string `koanf:"board"`
	Content  string `koanf:"content"`
}

// Config contains process configuration for every subcommand.
type Config struct {
	// Team is the USMS club abbreviation the pipeline tracks.
	Team string `koanf:"team"`

	// LMSCID selects the local masters swimming committee in result queries.
	LMSCID string `koanf:"lmsc_id"`

	// BaseURL is the result-listing endpoint template.
	BaseURL string `koanf:"base_url"`

	// CSVDir, JSONDir, and WebDataDir are the scrape, transform, and publish
	// output locations.
	CSVDir     string `koanf:"csv_dir"`
	JSONDir    string `koanf:"json_dir"`
	WebDataDir string `koanf:"web_data_dir"`

	// DataDir holds incremental-update snapshots.
	DataDir string `koanf:"data_dir"`

	// DelayMS is the politeness wait between consecutive fetches. It is a
	// fixed floor, not an adaptive backoff.
	DelayMS int `koanf:"delay_ms"`

	// TimeoutS bounds each HTTP request.
	TimeoutS int `koanf:"timeout_s"`

	// Collection names the top-level key of the keyed JSON encoding.
	Collection string `koanf:"collection"`

	// RecordsURL is where the published record array is fetched from by the
	// site data loader. Empty means read from WebDataDir instead.
	RecordsURL string `koanf:"records_url"`

	// ListenAddr is the preview server bind address.
	ListenAddr string `koanf:"listen_addr"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	Feeds Feeds `koanf:"feeds"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Team:       "COLM",
		LMSCID:     "55",
		BaseURL:    "https://www.usms.org/comp/meets/toptenlocal.php",
		CSVDir:     "./data/csv",
		JSONDir:    "./data/json",
		WebDataDir: "./web/public/data",
		DataDir:    "~/.local/share/teamrecords",
		DelayMS:    2000,
		TimeoutS:   30,
		Collection: "teamRecords",
		ListenAddr: ":8787",
		LogLevel:   "info",
	}
}

// Delay returns the inter-request wait as a duration.
func (c *Config) Delay() time.Duration { return time.Duration(c.DelayMS) * time.Millisecond }

// Timeout returns the per-request timeout as a duration.
func (c *Config) Timeout() time.Duration { return time.Duration(c.TimeoutS) * time.Second }
