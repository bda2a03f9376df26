package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/colmmasters/teamrecords/internal/config"
	"github.com/colmmasters/teamrecords/internal/logger"
	"github.com/colmmasters/teamrecords/internal/record"
	"github.com/colmmasters/teamrecords/internal/scraper"
	"github.com/colmmasters/teamrecords/internal/storage"
	"github.com/colmmasters/teamrecords/internal/transform"
)

type updateFlags struct {
	team    string
	output  string
	courses string
	lmsc    string
	delay   float64
	format  string
	webData string
}

func newUpdateCmd() *cobra.Command {
	var flags updateFlags
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Re-scrape the current year and apply only the changes",
		Long: `update scrapes only the current year, diffs the result against the
stored snapshot by record identity, and rewrites outputs only when records
were added or changed. Records from other years are never touched: absence
from a current-year scrape is not evidence of removal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.format != "text" && flags.format != "json" {
				return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flags.format)
			}
			cfg, err := loadConfig(cmd, map[string]func(*config.Config){
				"team":     func(c *config.Config) { c.Team = flags.team },
				"output":   func(c *config.Config) { c.CSVDir = flags.output },
				"lmsc":     func(c *config.Config) { c.LMSCID = flags.lmsc },
				"delay":    func(c *config.Config) { c.DelayMS = int(flags.delay * 1000) },
				"web-data": func(c *config.Config) { c.WebDataDir = flags.webData },
			})
			if err != nil {
				return err
			}
			return runUpdate(cmd, cfg, splitCourses(flags.courses), flags.format)
		},
	}

	cmd.Flags().StringVarP(&flags.team, "team", "t", "", "Team code (e.g. COLM)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output directory for CSVs")
	cmd.Flags().StringVar(&flags.courses, "courses", "SCY,SCM,LCM", "Comma-separated courses")
	cmd.Flags().StringVar(&flags.lmsc, "lmsc", "", "LMSC ID")
	cmd.Flags().Float64VarP(&flags.delay, "delay", "d", 0, "Delay between requests in seconds")
	cmd.Flags().StringVar(&flags.format, "format", "text", "Diff report format: text or json")
	cmd.Flags().StringVar(&flags.webData, "web-data", "", "Website data directory")
	return cmd
}

func runUpdate(cmd *cobra.Command, cfg *config.Config, courses []string, format string) error {
	year := time.Now().Year()
	logger.Info("Updating current year", logger.Fields{"team": cfg.Team, "year": year})

	// CSV output waits until the diff confirms changes.
	scrapeCfg := *cfg
	scrapeCfg.CSVDir = ""
	rows, err := runScrape(cmd.Context(), &scrapeCfg, []int{year}, courses, false)
	if err != nil {
		return err
	}
	fresh := transform.Transform(rows).Records

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return err
	}
	previous, err := store.LoadSnapshot(cfg.Team)
	if err != nil {
		return err
	}

	diff := record.Diff(previous, fresh)
	if diff.Empty() {
		logger.Info("No changes detected", logger.Fields{"team": cfg.Team, "year": year})
		return writeDiffReport(os.Stdout, diff, format)
	}

	if err := scraper.WriteCSVs(cfg.CSVDir, rows); err != nil {
		return err
	}
	total, err := applyUpdate(store, cfg, previous, fresh)
	if err != nil {
		return err
	}

	logger.Info("Update applied", logger.Fields{
		"added":   len(diff.Added),
		"changed": len(diff.Changed),
		"total":   total,
	})
	return writeDiffReport(os.Stdout, diff, format)
}

// applyUpdate writes the refreshed record outputs first and persists the
// snapshot last. A failed output write leaves the previous snapshot in
// place, so the next run detects the same changes again instead of
// reporting a clean state over stale files.
func applyUpdate(store *storage.Storage, cfg *config.Config, previous *record.Snapshot, fresh []record.Record) (int, error) {
	merged := record.Merge(previous, fresh, "")
	records := orderedRecords(merged)

	opts := transform.Options{Pretty: true, Collection: cfg.Collection}
	combined := combinedPath(cfg.JSONDir, cfg.Team)
	if err := transform.WriteFile(combined, records, transform.EncodingArray, opts); err != nil {
		return 0, err
	}
	if err := transform.WriteFile(filepath.Join(cfg.WebDataDir, filepath.Base(combined)), records, transform.EncodingArray, opts); err != nil {
		return 0, err
	}

	if err := store.SaveSnapshot(merged, cfg.Team); err != nil {
		return 0, err
	}
	return len(records), nil
}

// orderedRecords flattens a snapshot into an id-sorted sequence so the
// published files stay diffable across runs.
func orderedRecords(snap *record.Snapshot) []record.Record {
	ids := make([]string, 0, len(snap.Records))
	for id := range snap.Records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	records := make([]record.Record, 0, len(ids))
	for _, id := range ids {
		records = append(records, snap.Records[id])
	}
	return records
}

// writeDiffReport renders the update diff for humans (text) or tooling
// (json).
func writeDiffReport(w io.Writer, diff *record.UpdateDiff, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(diff)
	}

	if diff.Empty() {
		fmt.Fprintln(w, "No changes detected. Data is up to date.")
		return nil
	}

	if len(diff.Added) > 0 {
		fmt.Fprintf(w, "New records (%d):\n", len(diff.Added))
		for _, rec := range diff.Added {
			fmt.Fprintf(w, "  + %s %s %s %s: %s (%s)\n",
				rec.Gender, rec.AgeGroup, rec.Event, rec.Course, rec.Time, rec.Swimmer)
		}
	}
	if len(diff.Changed) > 0 {
		fmt.Fprintf(w, "Updated records (%d):\n", len(diff.Changed))
		for _, ch := range diff.Changed {
			fmt.Fprintf(w, "  ~ %s %s %s %s: %s -> %s (%s)\n",
				ch.After.Gender, ch.After.AgeGroup, ch.After.Event, ch.After.Course,
				ch.Before.Time, ch.After.Time, ch.After.Swimmer)
		}
	}
	fmt.Fprintf(w, "Total: %d added, %d changed\n", len(diff.Added), len(diff.Changed))
	return nil
}
