package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/colmmasters/teamrecords/internal/config"
	"github.com/colmmasters/teamrecords/internal/logger"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var flagVerbose bool

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "teamrecords",
		Short: "Scrape, transform, and publish USMS team records",
		Long: `teamrecords is the data pipeline behind the team website: it scrapes
USMS top-ten listings into CSV, transforms them into canonical JSON records,
detects incremental changes against a stored snapshot, and publishes the
result for the site.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logger.LevelInfo
			if flagVerbose {
				level = logger.LevelDebug
			}
			logger.SetDefault(logger.New(level, os.Stderr))
		},
	}

	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newScrapeCmd(),
		newTransformCmd(),
		newUpdateCmd(),
		newPublishCmd(),
		newAllCmd(),
		newServeCmd(),
	)
	return root
}

// Execute runs the CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}

// loadConfig loads layered configuration and applies flag overrides for
// flags the user actually set.
func loadConfig(cmd *cobra.Command, overrides map[string]func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if !flagVerbose {
		logger.SetDefault(logger.New(logger.ParseLevel(cfg.LogLevel), os.Stderr))
	}
	for name, apply := range overrides {
		if cmd.Flags().Changed(name) {
			apply(cfg)
		}
	}
	return cfg, nil
}

// parseYears expands a year range such as "2015-2025" or a comma-separated
// list such as "2020,2022,2024" into individual years.
func parseYears(spec string) ([]int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("empty year range")
	}

	if strings.Contains(spec, "-") && !strings.Contains(spec, ",") {
		parts := strings.SplitN(spec, "-", 2)
		from, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid year range %q: %w", spec, err)
		}
		to, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid year range %q: %w", spec, err)
		}
		if to < from {
			return nil, fmt.Errorf("invalid year range %q: end before start", spec)
		}
		years := make([]int, 0, to-from+1)
		for y := from; y <= to; y++ {
			years = append(years, y)
		}
		return years, nil
	}

	var years []int
	for _, part := range strings.Split(spec, ",") {
		y, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid year %q: %w", part, err)
		}
		years = append(years, y)
	}
	return years, nil
}

func splitCourses(spec string) []string {
	var courses []string
	for _, c := range strings.Split(spec, ",") {
		if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
			courses = append(courses, c)
		}
	}
	return courses
}

func defaultYearSpec() string {
	return fmt.Sprintf("2015-%d", time.Now().Year())
}
