package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/colmmasters/teamrecords/internal/record"
)

// Storage persists record snapshots as JSON files in a data directory, one
// snapshot per team.
type Storage struct {
	dataDir string
}

// New creates a Storage rooted at dataDir, creating the directory if needed.
// A leading ~/ is expanded to the user's home directory.
func New(dataDir string) (*Storage, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{dataDir: dataDir}, nil
}

func (s *Storage) snapshotPath(team string) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("snapshot_%s.json", strings.ToLower(strings.TrimSpace(team))))
}

// LoadSnapshot loads the stored snapshot for a team. A missing file is not
// an error: the first run simply starts from an empty snapshot.
func (s *Storage) LoadSnapshot(team string) (*record.Snapshot, error) {
	data, err := os.ReadFile(s.snapshotPath(team))
	if err != nil {
		if os.IsNotExist(err) {
			return record.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot record.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if snapshot.Records == nil {
		snapshot.Records = make(map[string]record.Record)
	}
	return &snapshot, nil
}

// SaveSnapshot writes the snapshot for a team, stamping UpdatedAt.
func (s *Storage) SaveSnapshot(snapshot *record.Snapshot, team string) error {
	snapshot.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.WriteFile(s.snapshotPath(team), data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}
