package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAllCmd() *cobra.Command {
	var (
		scrape  scrapeFlags
		jsonOut string
	)

	cmd := &cobra.Command{
		Use:   "all",
		Short: "Scrape and transform in one pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := scrape.config(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("json-output") {
				cfg.JSONDir = jsonOut
			}
			years, err := parseYears(scrape.years)
			if err != nil {
				return err
			}

			rows, err := runScrape(cmd.Context(), cfg, years, splitCourses(scrape.courses), scrape.debugHTML)
			if err != nil {
				return err
			}
			fmt.Printf("Scraped %d rows for %s\n", len(rows), cfg.Team)

			_, err = runTransform(cfg, transformFlags{input: cfg.CSVDir, combine: true})
			return err
		},
	}

	scrape.register(cmd)
	cmd.Flags().StringVar(&jsonOut, "json-output", "", "Output directory for JSON")
	return cmd
}
