package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Team != "COLM" {
		t.Errorf("Team = %q", cfg.Team)
	}
	if cfg.DelayMS != 2000 {
		t.Errorf("DelayMS = %d", cfg.DelayMS)
	}
	if cfg.Collection != "teamRecords" {
		t.Errorf("Collection = %q", cfg.Collection)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TEAMRECORDS_TEAM", "PALM")
	t.Setenv("TEAMRECORDS_DELAY_MS", "500")
	t.Setenv("TEAMRECORDS_FEEDS__EVENTS", "https://example.com/events.csv")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Team != "PALM" {
		t.Errorf("Team = %q, want env override", cfg.Team)
	}
	if cfg.DelayMS != 500 {
		t.Errorf("DelayMS = %d, want env override", cfg.DelayMS)
	}
	if cfg.Feeds.Events != "https://example.com/events.csv" {
		t.Errorf("Feeds.Events = %q", cfg.Feeds.Events)
	}
}

func TestLoadFileThenEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("team: FILE\nlmsc_id: \"12\"\n"), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	t.Setenv(EnvFileVar, path)
	t.Setenv("TEAMRECORDS_TEAM", "ENVT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Team != "ENVT" {
		t.Errorf("Team = %q, env must beat file", cfg.Team)
	}
	if cfg.LMSCID != "12" {
		t.Errorf("LMSCID = %q, file must beat default", cfg.LMSCID)
	}
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("TEAMRECORDS_TIMEOUT_S", "0")
	if _, err := Load(); err == nil {
		t.Error("zero timeout should fail validation")
	}
}
