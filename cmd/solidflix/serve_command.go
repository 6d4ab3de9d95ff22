package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"solidflix/internal/api"
	"solidflix/internal/logging"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve recommendations over HTTP",
		Long: `Serve recommendations over HTTP.

POST / accepts a JSON array of titles and returns a JSON array of
recommended titles. GET /healthz and GET /metrics are also exposed.
The server stops gracefully on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			if bind == "" {
				bind = cfg.Paths.APIBind
			}

			engine, err := api.OpenEngine(cfg, logger)
			if err != nil {
				return err
			}
			defer engine.Close()

			server := api.NewServer(engine.Aggregator, api.ServerOptions{CORSOrigins: cfg.API.CORSOrigins}, logger)
			logger.Info("serving recommendations",
				logging.String(logging.FieldEventType, "server_start"),
				logging.String("bind", bind),
				logging.String("catalog_source", cfg.Recommend.CatalogSource),
				logging.Bool("title_cache", engine.TitleCache != nil),
			)
			return server.ListenAndServe(cmd.Context(), bind)
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (defaults to paths.api_bind)")
	return cmd
}
