package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"solidflix/internal/api"
	"solidflix/internal/lookup"
	"solidflix/internal/services"
)

func newLookupCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <title>",
		Short: "Fetch TMDB recommendations for a title",
		Long: `Fetch TMDB recommendations for a title.

This runs the same exact-title search and recommendation fetch used for
titles missing from the local catalog, but reports errors instead of
returning an empty list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			svc, _, err := api.OpenMetadataService(cfg, logger)
			if err != nil {
				return err
			}
			fallback := lookup.NewFallback(svc, cfg.TMDBRequestTimeout(), logger)

			titles, err := fallback.Resolve(cmd.Context(), args[0])
			if errors.Is(err, services.ErrUnknownTitle) && !ctx.JSONMode() {
				fmt.Fprintf(cmd.OutOrStdout(), "No exact TMDB match for %q\n", args[0])
				return nil
			}
			if err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, nonNilStrings(titles))
			}
			out := cmd.OutOrStdout()
			if len(titles) == 0 {
				fmt.Fprintf(out, "TMDB has no recommendations for %q\n", args[0])
				return nil
			}
			for i, title := range titles {
				fmt.Fprintf(out, "%d. %s\n", i+1, title)
			}
			return nil
		},
	}
}
