package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/colmmasters/teamrecords/internal/config"
	"github.com/colmmasters/teamrecords/internal/logger"
	"github.com/colmmasters/teamrecords/internal/record"
	"github.com/colmmasters/teamrecords/internal/scraper"
)

type scrapeFlags struct {
	team      string
	output    string
	years     string
	courses   string
	lmsc      string
	delay     float64
	debugHTML bool
}

func (f *scrapeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.team, "team", "t", "", "Team code (e.g. COLM)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output directory for CSVs")
	cmd.Flags().StringVarP(&f.years, "years", "y", defaultYearSpec(), "Year range (2015-2025) or comma-separated list")
	cmd.Flags().StringVar(&f.courses, "courses", "SCY,SCM,LCM", "Comma-separated courses")
	cmd.Flags().StringVar(&f.lmsc, "lmsc", "", "LMSC ID")
	cmd.Flags().Float64VarP(&f.delay, "delay", "d", 0, "Delay between requests in seconds")
	cmd.Flags().BoolVar(&f.debugHTML, "debug-html", false, "Save raw HTML pages on parse failures")
}

func (f *scrapeFlags) config(cmd *cobra.Command) (*config.Config, error) {
	return loadConfig(cmd, map[string]func(*config.Config){
		"team":   func(c *config.Config) { c.Team = f.team },
		"output": func(c *config.Config) { c.CSVDir = f.output },
		"lmsc":   func(c *config.Config) { c.LMSCID = f.lmsc },
		"delay":  func(c *config.Config) { c.DelayMS = int(f.delay * 1000) },
	})
}

func newScrapeCmd() *cobra.Command {
	var flags scrapeFlags
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape team records from USMS result listings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.config(cmd)
			if err != nil {
				return err
			}
			years, err := parseYears(flags.years)
			if err != nil {
				return err
			}
			rows, err := runScrape(cmd.Context(), cfg, years, splitCourses(flags.courses), flags.debugHTML)
			if err != nil {
				return err
			}
			fmt.Printf("Scraped %d rows for %s into %s\n", len(rows), cfg.Team, cfg.CSVDir)
			if flagVerbose {
				logger.Debug("Run metrics", logger.MetricsSnapshot())
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

// runScrape runs one scrape pass and returns the raw rows. CSVs are written
// per combination as a side effect.
func runScrape(ctx context.Context, cfg *config.Config, years []int, courses []string, debugHTML bool) ([]record.RawRow, error) {
	debugDir := ""
	if debugHTML {
		debugDir = filepath.Join(cfg.CSVDir, "debug")
	}

	sc := scraper.New(scraper.Config{
		TeamCode: cfg.Team,
		LMSCID:   cfg.LMSCID,
		BaseURL:  cfg.BaseURL,
		Years:    years,
		Courses:  courses,
		Delay:    cfg.Delay(),
		Timeout:  cfg.Timeout(),
		CSVDir:   cfg.CSVDir,
		DebugDir: debugDir,
	})
	return sc.ScrapeAll(ctx)
}
