package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"solidflix/internal/catalog"
	"solidflix/internal/config"
)

type catalogInfoOutput struct {
	Database    string     `json:"database"`
	Source      string     `json:"source,omitempty"`
	Rows        int        `json:"rows"`
	Fingerprint string     `json:"fingerprint,omitempty"`
	ImportedAt  *time.Time `json:"imported_at,omitempty"`
}

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the SQLite copy of the movie catalog",
		Long: `Manage the SQLite copy of the movie catalog.

Commands:
  import   - Replace the database contents with a CSV catalog
  info     - Show details of the most recent import

Set recommend.catalog_source = "sqlite" to read recommendations from the
imported copy instead of parsing the CSV on every request.`,
	}
	catalogCmd.AddCommand(newCatalogImportCommand(ctx))
	catalogCmd.AddCommand(newCatalogInfoCommand(ctx))
	return catalogCmd
}

func newCatalogImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import [csv]",
		Short: "Import a CSV catalog into SQLite",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			source := cfg.Paths.CatalogCSV
			if len(args) == 1 {
				if source, err = config.ExpandPath(args[0]); err != nil {
					return fmt.Errorf("resolve csv path: %w", err)
				}
			}
			cat, err := catalog.NewCSVLoader(source, logger).Load(cmd.Context())
			if err != nil {
				return err
			}

			store, err := catalog.OpenStore(cfg.Paths.CatalogDB, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Import(cmd.Context(), source, cat); err != nil {
				if errors.Is(err, catalog.ErrImportInProgress) {
					return fmt.Errorf("%w; retry once the other import finishes", err)
				}
				return err
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, catalogInfoOutput{
					Database:    store.Path(),
					Source:      source,
					Rows:        cat.Len(),
					Fingerprint: cat.Fingerprint(),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d movies from %s into %s\n", cat.Len(), source, store.Path())
			return nil
		},
	}
}

func newCatalogInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the most recent catalog import",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			store, err := catalog.OpenStore(cfg.Paths.CatalogDB, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			info, err := store.LastImport(cmd.Context())
			if err != nil {
				return err
			}
			output := catalogInfoOutput{Database: store.Path()}
			if info != nil {
				imported := info.ImportedAt
				output.Source = info.Source
				output.Rows = info.Rows
				output.Fingerprint = info.Fingerprint
				output.ImportedAt = &imported
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, output)
			}

			out := cmd.OutOrStdout()
			if info == nil {
				fmt.Fprintf(out, "Catalog database %s: no imports yet\n", store.Path())
				return nil
			}
			fingerprint := info.Fingerprint
			if len(fingerprint) > 12 {
				fingerprint = fingerprint[:12]
			}
			rows := [][]string{
				{"Database", store.Path()},
				{"Source", info.Source},
				{"Movies", strconv.Itoa(info.Rows)},
				{"Fingerprint", fingerprint},
				{"Imported", info.ImportedAt.Local().Format("2006-01-02 15:04:05")},
			}
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))
			return nil
		},
	}
}
