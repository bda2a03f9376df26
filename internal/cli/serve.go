package cli

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/colmmasters/teamrecords/internal/config"
	"github.com/colmmasters/teamrecords/internal/logger"
	"github.com/colmmasters/teamrecords/internal/site"
)

func newServeCmd() *cobra.Command {
	var (
		addr string
		dir  string
		team string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview the published site data locally",
		Long: `serve starts a local HTTP server over the web data directory. The
published JSON files are served statically and /api/records answers the
same filter and sort parameters the website uses.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, map[string]func(*config.Config){
				"addr": func(c *config.Config) { c.ListenAddr = addr },
				"dir":  func(c *config.Config) { c.WebDataDir = dir },
				"team": func(c *config.Config) { c.Team = team },
			})
			if err != nil {
				return err
			}

			recordsFile := filepath.Base(combinedPath(cfg.WebDataDir, cfg.Team))
			srv := site.NewServer(cfg.WebDataDir, recordsFile, cfg.RecordsURL)

			logger.Info("Serving site data", logger.Fields{
				"addr": cfg.ListenAddr,
				"dir":  cfg.WebDataDir,
			})
			fmt.Printf("Listening on %s (data from %s)\n", cfg.ListenAddr, cfg.WebDataDir)
			return http.ListenAndServe(cfg.ListenAddr, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (host:port)")
	cmd.Flags().StringVar(&dir, "dir", "", "Web data directory to serve")
	cmd.Flags().StringVarP(&team, "team", "t", "", "Team code (e.g. COLM)")
	return cmd
}
