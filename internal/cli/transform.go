package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/colmmasters/teamrecords/internal/config"
	"github.com/colmmasters/teamrecords/internal/record"
	"github.com/colmmasters/teamrecords/internal/transform"
)

type transformFlags struct {
	input   string
	output  string
	team    string
	combine bool
	keyed   bool
	ndjson  bool
	minify  bool
}

func (f *transformFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Input CSV file or directory (required)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output directory for JSON")
	cmd.Flags().StringVarP(&f.team, "team", "t", "", "Team code for output filenames")
	cmd.Flags().BoolVarP(&f.combine, "combine", "c", false, "Write a combined JSON array")
	cmd.Flags().BoolVarP(&f.keyed, "keyed", "k", false, "Write a keyed import file")
	cmd.Flags().BoolVarP(&f.ndjson, "ndjson", "n", false, "Write newline-delimited JSON")
	cmd.Flags().BoolVarP(&f.minify, "minify", "m", false, "Minify JSON output")
	cmd.MarkFlagRequired("input")
}

func newTransformCmd() *cobra.Command {
	var flags transformFlags
	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Transform raw CSVs into canonical JSON records",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, map[string]func(*config.Config){
				"team":   func(c *config.Config) { c.Team = flags.team },
				"output": func(c *config.Config) { c.JSONDir = flags.output },
			})
			if err != nil {
				return err
			}
			_, err = runTransform(cfg, flags)
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

// runTransform transforms the input CSVs, writes per-file and combined
// outputs, and returns the combined deduplicated record sequence.
func runTransform(cfg *config.Config, flags transformFlags) ([]record.Record, error) {
	paths, err := transform.FindCSVs(flags.input)
	if err != nil {
		return nil, err
	}

	opts := transform.Options{Pretty: !flags.minify, Collection: cfg.Collection}

	// Per-file array outputs keep the original file layout browsable.
	for _, path := range paths {
		rows, err := transform.LoadCSV(path)
		if err != nil {
			return nil, err
		}
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		out := filepath.Join(cfg.JSONDir, stem+".json")
		if err := transform.WriteFile(out, transform.Transform(rows).Records, transform.EncodingArray, opts); err != nil {
			return nil, err
		}
	}

	combined, err := transform.TransformFiles(paths)
	if err != nil {
		return nil, err
	}

	if flags.combine {
		out := combinedPath(cfg.JSONDir, cfg.Team)
		if err := transform.WriteFile(out, combined.Records, transform.EncodingArray, opts); err != nil {
			return nil, err
		}
	}
	if flags.keyed {
		out := filepath.Join(cfg.JSONDir, fmt.Sprintf("%s_import.json", strings.ToLower(cfg.Team)))
		if err := transform.WriteFile(out, combined.Records, transform.EncodingKeyed, opts); err != nil {
			return nil, err
		}
	}
	if flags.ndjson {
		out := filepath.Join(cfg.JSONDir, fmt.Sprintf("%s_records.ndjson", strings.ToLower(cfg.Team)))
		if err := transform.WriteFile(out, combined.Records, transform.EncodingLines, opts); err != nil {
			return nil, err
		}
	}

	fmt.Printf("Transformed %d rows into %d records (%d skipped) in %s\n",
		combined.Loaded, len(combined.Records), combined.Skipped, cfg.JSONDir)
	return combined.Records, nil
}

func combinedPath(dir, team string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_all_records.json", strings.ToLower(team)))
}
