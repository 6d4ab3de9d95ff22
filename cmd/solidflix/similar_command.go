package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"solidflix/internal/api"
	"solidflix/internal/catalog"
	"solidflix/internal/features"
	"solidflix/internal/recommend"
	"solidflix/internal/similarity"
)

type similarEntry struct {
	Rank  int     `json:"rank"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

func newSimilarCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "similar <title>",
		Short: "Show the closest catalog titles by content similarity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}

			loader, closer, err := api.OpenCatalogLoader(cfg, logger)
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer()
			}
			cat, err := loader.Load(cmd.Context())
			if err != nil {
				return err
			}

			title := catalog.NormalizeTitle(strings.TrimSpace(args[0]))
			idx, ok := cat.Lookup(title)
			if !ok {
				return fmt.Errorf("%q is not in the catalog", args[0])
			}
			matrix, err := similarity.NewTransformer(logger).Build(cmd.Context(), features.Combine(cat))
			if err != nil {
				return err
			}
			scores := recommend.Top(matrix.Row(idx), idx, limit)

			entries := make([]similarEntry, 0, len(scores))
			for i, s := range scores {
				entries = append(entries, similarEntry{Rank: i + 1, Title: cat.Title(s.Index), Score: s.Score})
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, entries)
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{strconv.Itoa(e.Rank), e.Title, strconv.FormatFloat(e.Score, 'f', 4, 64)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"#", "Title", "Score"}, rows,
				[]columnAlignment{alignRight, alignLeft, alignRight}))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", recommend.Limit, "Number of titles to show")
	return cmd
}
