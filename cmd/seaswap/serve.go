package main

import (
	"github.com/spf13/cobra"
	dbm "github.com/tendermint/tm-db"

	"github.com/kaifufi/seaport-swap-sdk-go/internal/recordstore"
)

func (cli *CLI) newServeCmd() *cobra.Command {
	defaults := recordstore.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the order record store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := recordstore.DefaultConfig()
			cfg.ListenAddr = cli.v.GetString(flagListen)
			cfg.CORSAllowedOrigins = cli.v.GetStringSlice(flagCORSOrigins)
			cfg.MetricsPath = cli.v.GetString(flagMetricsPath)

			var store *recordstore.Store
			if dir := cli.v.GetString(flagDBDir); dir != "" {
				var err error
				store, err = recordstore.OpenStore("records", dir)
				if err != nil {
					return err
				}
			} else {
				cli.logger.Info("no --db-dir given, records are kept in memory")
				store = recordstore.NewStore(dbm.NewMemDB())
			}
			defer store.Close()

			var metrics *recordstore.Metrics
			if cfg.MetricsPath != "" {
				metrics = recordstore.PrometheusMetrics("seaswap")
			}
			srv := recordstore.NewServer(cfg, store, cli.logger.With("module", "recordstore"), metrics)
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().String(flagListen, defaults.ListenAddr, "listen address")
	cmd.Flags().String(flagDBDir, "", "goleveldb directory; empty keeps records in memory")
	cmd.Flags().StringSlice(flagCORSOrigins, defaults.CORSAllowedOrigins, "allowed CORS origins")
	cmd.Flags().String(flagMetricsPath, defaults.MetricsPath, "Prometheus metrics path; empty disables")
	return cmd
}
