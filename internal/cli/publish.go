package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/colmmasters/teamrecords/internal/config"
	"github.com/colmmasters/teamrecords/internal/logger"
	"github.com/colmmasters/teamrecords/internal/site"
	"github.com/colmmasters/teamrecords/internal/transform"
)

func newPublishCmd() *cobra.Command {
	var (
		csvInput string
		jsonOut  string
		webData  string
		team     string
		keyed    bool
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Transform stored CSVs and refresh the website data directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, map[string]func(*config.Config){
				"csv-input":   func(c *config.Config) { c.CSVDir = csvInput },
				"json-output": func(c *config.Config) { c.JSONDir = jsonOut },
				"web-data":    func(c *config.Config) { c.WebDataDir = webData },
				"team":        func(c *config.Config) { c.Team = team },
			})
			if err != nil {
				return err
			}
			return runPublish(cmd.Context(), cfg, keyed)
		},
	}

	cmd.Flags().StringVar(&csvInput, "csv-input", "", "Directory of scraped CSVs")
	cmd.Flags().StringVar(&jsonOut, "json-output", "", "Output directory for JSON")
	cmd.Flags().StringVar(&webData, "web-data", "", "Website data directory")
	cmd.Flags().StringVarP(&team, "team", "t", "", "Team code for output filenames")
	cmd.Flags().BoolVarP(&keyed, "keyed", "k", false, "Also write a keyed import file")
	return cmd
}

func runPublish(ctx context.Context, cfg *config.Config, keyed bool) error {
	paths, err := transform.FindCSVs(cfg.CSVDir)
	if err != nil {
		return err
	}
	combined, err := transform.TransformFiles(paths)
	if err != nil {
		return err
	}

	opts := transform.Options{Pretty: true, Collection: cfg.Collection}
	out := combinedPath(cfg.JSONDir, cfg.Team)
	if err := transform.WriteFile(out, combined.Records, transform.EncodingArray, opts); err != nil {
		return err
	}
	if keyed {
		importPath := filepath.Join(cfg.JSONDir, fmt.Sprintf("%s_import.json", strings.ToLower(cfg.Team)))
		if err := transform.WriteFile(importPath, combined.Records, transform.EncodingKeyed, opts); err != nil {
			return err
		}
	}

	// The website reads the same array from its data directory.
	webPath := filepath.Join(cfg.WebDataDir, filepath.Base(out))
	if err := transform.WriteFile(webPath, combined.Records, transform.EncodingArray, opts); err != nil {
		return err
	}

	if err := publishFeeds(ctx, cfg); err != nil {
		return err
	}

	fmt.Printf("Published %d records to %s\n", len(combined.Records), cfg.WebDataDir)
	return nil
}

// publishFeeds fetches the spreadsheet feeds and writes each non-empty
// section next to the record array. Feed failures are already logged by the
// site client; an absent feed file simply disables that section.
func publishFeeds(ctx context.Context, cfg *config.Config) error {
	feeds := site.FeedURLs{
		Events:   cfg.Feeds.Events,
		Schedule: cfg.Feeds.Schedule,
		Board:    cfg.Feeds.Board,
		Content:  cfg.Feeds.Content,
	}
	if feeds == (site.FeedURLs{}) {
		logger.Debug("No feeds configured", nil)
		return nil
	}

	data := site.NewClient("", feeds, cfg.Timeout()).Load(ctx)

	sections := map[string][]site.Row{
		"events.json":   data.Events,
		"schedule.json": data.Schedule,
		"board.json":    data.Board,
		"content.json":  data.Content,
	}
	for name, rows := range sections {
		if len(rows) == 0 {
			continue
		}
		if err := writeFeedJSON(filepath.Join(cfg.WebDataDir, name), rows); err != nil {
			return err
		}
	}
	return nil
}

func writeFeedJSON(path string, rows []site.Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating feed directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating feed file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
