package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"solidflix/internal/api"
	"solidflix/internal/titlecache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the TMDB title cache",
		Long: `Inspect and manage the TMDB title cache.

The title cache stores exact TMDB search matches so repeated lookups of the
same title skip the search call. Enable it with [title_cache] enabled = true.

Commands:
  list     - List cached titles
  remove   - Remove one cached title
  clear    - Remove all cached titles`,
	}
	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheRemoveCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func openCache(ctx *commandContext) (*titlecache.Cache, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return api.OpenTitleCache(cfg, logger)
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached titles, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := openCache(ctx)
			if err != nil {
				return err
			}
			entries := cache.List()
			if ctx.JSONMode() {
				if entries == nil {
					entries = []titlecache.Entry{}
				}
				return writeJSON(cmd, entries)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "Title cache: empty")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for i, entry := range entries {
				cachedAt := "unknown"
				if !entry.CachedAt.IsZero() {
					cachedAt = entry.CachedAt.Local().Format("2006-01-02")
				}
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					entry.Query,
					strconv.Itoa(len(entry.Results)),
					cachedAt,
				})
			}
			fmt.Fprintln(out, renderTable([]string{"#", "Title", "Results", "Cached"}, rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft}))
			return nil
		},
	}
}

func newCacheRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <title>",
		Short: "Remove one cached title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := openCache(ctx)
			if err != nil {
				return err
			}
			if err := cache.Remove(args[0]); err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{"removed": true, "title": args[0]})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %q from the title cache\n", args[0])
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached titles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := openCache(ctx)
			if err != nil {
				return err
			}
			count := cache.Count()
			if err := cache.Clear(); err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{"cleared": count})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cached titles\n", count)
			return nil
		},
	}
}
