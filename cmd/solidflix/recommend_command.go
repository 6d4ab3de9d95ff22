package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"solidflix/internal/aggregate"
	"solidflix/internal/api"
	"solidflix/internal/services"
)

type recommendOutput struct {
	Titles []string    `json:"titles"`
	Pool   *poolOutput `json:"pool,omitempty"`
}

type poolOutput struct {
	Titles   []string         `json:"titles"`
	Local    []candidateEntry `json:"local"`
	External []string         `json:"external"`
	Missing  []string         `json:"missing"`
}

type candidateEntry struct {
	Title     string  `json:"title"`
	Score     float64 `json:"score"`
	Confirmed bool    `json:"confirmed"`
}

func newRecommendCommand(ctx *commandContext) *cobra.Command {
	var seed uint64
	var showPool bool

	cmd := &cobra.Command{
		Use:   "recommend <title>...",
		Short: "Recommend movies similar to the given titles",
		Long: `Recommend movies similar to the given titles.

Titles found in the local catalog are scored by content similarity and
confirmed against TMDB. Titles missing from the catalog fall back to TMDB
recommendations. A random sample of the combined pool is printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			var opts []api.EngineOption
			if cmd.Flags().Changed("seed") {
				opts = append(opts, api.WithRand(rand.New(rand.NewPCG(seed, seed))))
			}
			engine, err := api.OpenEngine(cfg, logger, opts...)
			if err != nil {
				return err
			}
			defer engine.Close()

			runCtx := services.WithRequestID(cmd.Context(), uuid.NewString())
			if showPool {
				return runPool(runCtx, cmd, ctx, engine.Aggregator, args)
			}

			titles, err := engine.Aggregator.Recommend(runCtx, args)
			if err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, recommendOutput{Titles: titles})
			}
			out := cmd.OutOrStdout()
			for i, title := range titles {
				fmt.Fprintf(out, "%d. %s\n", i+1, title)
			}
			return nil
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed the final sample for reproducible output")
	cmd.Flags().BoolVar(&showPool, "pool", false, "Print the candidate pool instead of sampling from it")
	return cmd
}

func runPool(runCtx context.Context, cmd *cobra.Command, ctx *commandContext, agg *aggregate.Aggregator, titles []string) error {
	pool, err := agg.BuildPool(runCtx, titles)
	if err != nil {
		return err
	}
	if ctx.JSONMode() {
		return writeJSON(cmd, recommendOutput{Titles: nonNilStrings(pool.Titles), Pool: toPoolOutput(pool)})
	}

	out := cmd.OutOrStdout()
	if len(pool.Missing) > 0 {
		fmt.Fprintf(out, "Not in catalog: %d\n", len(pool.Missing))
	}
	if len(pool.Local) > 0 {
		rows := make([][]string, 0, len(pool.Local))
		for _, c := range pool.Local {
			rows = append(rows, []string{
				c.Title,
				strconv.FormatFloat(c.Score, 'f', 4, 64),
				yesNo(c.Confirmed),
			})
		}
		fmt.Fprintln(out, renderTable([]string{"Local candidate", "Score", "Confirmed"}, rows,
			[]columnAlignment{alignLeft, alignRight, alignLeft}))
	}
	if len(pool.External) > 0 {
		rows := make([][]string, 0, len(pool.External))
		for _, title := range pool.External {
			rows = append(rows, []string{title})
		}
		fmt.Fprintln(out, renderTable([]string{"TMDB candidate"}, rows, nil))
	}
	fmt.Fprintf(out, "Pool size: %d (sample size %d)\n", len(pool.Titles), agg.Settings().SampleSize)
	return nil
}

func toPoolOutput(pool aggregate.Pool) *poolOutput {
	local := make([]candidateEntry, 0, len(pool.Local))
	for _, c := range pool.Local {
		local = append(local, candidateEntry{Title: c.Title, Score: c.Score, Confirmed: c.Confirmed})
	}
	return &poolOutput{
		Titles:   nonNilStrings(pool.Titles),
		Local:    local,
		External: nonNilStrings(pool.External),
		Missing:  nonNilStrings(pool.Missing),
	}
}
