package main

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestRecommendPoolCombinesLocalAndRemote(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"recommend", "--pool", "--json", "Alpha", "Unlisted Movie"}, env.configPath)
	if err != nil {
		t.Fatalf("recommend --pool: %v", err)
	}
	var got recommendOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if got.Pool == nil {
		t.Fatal("expected pool in output")
	}
	if len(got.Pool.Local) != 4 {
		t.Fatalf("expected 4 local candidates after dropping the top score, got %d", len(got.Pool.Local))
	}
	for _, c := range got.Pool.Local {
		if c.Title == "alpha" {
			t.Fatal("input title must not recommend itself")
		}
		if !c.Confirmed {
			t.Fatalf("expected %q to be confirmed", c.Title)
		}
	}
	if !slices.Equal(got.Pool.Missing, []string{"unlisted movie"}) {
		t.Fatalf("unexpected missing titles: %v", got.Pool.Missing)
	}
	if !slices.Equal(got.Pool.External, remoteTitles) {
		t.Fatalf("unexpected external titles: %v", got.Pool.External)
	}
	if len(got.Titles) != 10 {
		t.Fatalf("expected 10 pooled titles, got %d: %v", len(got.Titles), got.Titles)
	}
}

func TestRecommendSamplesFromPool(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"recommend", "--seed", "7", "--json", "Unlisted Movie"}, env.configPath)
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	var got recommendOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(got.Titles) != 5 {
		t.Fatalf("expected 5 titles, got %v", got.Titles)
	}
	seen := make(map[string]bool)
	for _, title := range got.Titles {
		if !slices.Contains(remoteTitles, title) {
			t.Fatalf("unexpected title %q", title)
		}
		if seen[title] {
			t.Fatalf("duplicate title %q", title)
		}
		seen[title] = true
	}

	again, _, err := runCLI(t, []string{"recommend", "--seed", "7", "--json", "Unlisted Movie"}, env.configPath)
	if err != nil {
		t.Fatalf("recommend again: %v", err)
	}
	if again != out {
		t.Fatalf("expected identical output for the same seed:\n%s\n%s", out, again)
	}
}

func TestRecommendInsufficientCandidates(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"recommend", "Nothing Known"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for an empty pool")
	}
	requireContains(t, err.Error(), "need 5 unique titles, have 0")
}

func TestRecommendRequiresTitle(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"recommend"}, env.configPath); err == nil {
		t.Fatal("expected error without titles")
	}
}

func TestSimilarCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"similar", "--json", "--limit", "3", "  ALPHA "}, env.configPath)
	if err != nil {
		t.Fatalf("similar: %v", err)
	}
	var entries []similarEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, e := range entries {
		if e.Title == "alpha" {
			t.Fatal("title must not be similar to itself")
		}
		if e.Rank != i+1 {
			t.Fatalf("unexpected rank %d at %d", e.Rank, i)
		}
		if i > 0 && e.Score > entries[i-1].Score {
			t.Fatalf("scores not descending: %v", entries)
		}
	}

	table, _, err := runCLI(t, []string{"similar", "alpha"}, env.configPath)
	if err != nil {
		t.Fatalf("similar table: %v", err)
	}
	requireContains(t, table, "SCORE")

	if _, _, err := runCLI(t, []string{"similar", "missing"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown title")
	}
}

func TestLookupAndCacheCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"lookup", "Unlisted Movie"}, env.configPath)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	requireContains(t, out, "1. Remote One")
	requireContains(t, out, "6. Remote Six")

	out, _, err = runCLI(t, []string{"cache", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("cache list: %v", err)
	}
	requireContains(t, out, "Unlisted Movie")

	calls := env.tmdbCalls.Load()
	if _, _, err := runCLI(t, []string{"lookup", "unlisted movie"}, env.configPath); err != nil {
		t.Fatalf("cached lookup: %v", err)
	}
	if delta := env.tmdbCalls.Load() - calls; delta != 1 {
		t.Fatalf("expected only the recommendations call after caching, got %d calls", delta)
	}

	out, _, err = runCLI(t, []string{"cache", "remove", "UNLISTED MOVIE"}, env.configPath)
	if err != nil {
		t.Fatalf("cache remove: %v", err)
	}
	requireContains(t, out, "Removed")

	if _, _, err := runCLI(t, []string{"cache", "remove", "Unlisted Movie"}, env.configPath); err == nil {
		t.Fatal("expected error removing a missing entry")
	}

	out, _, err = runCLI(t, []string{"cache", "clear"}, env.configPath)
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	requireContains(t, out, "Cleared 0 cached titles")
}

func TestLookupWithoutMatch(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"lookup", "Alpha"}, env.configPath)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	requireContains(t, out, "TMDB has no recommendations")
}

func TestCatalogImportAndInfo(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"catalog", "info"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog info: %v", err)
	}
	requireContains(t, out, "no imports yet")

	out, _, err = runCLI(t, []string{"catalog", "import"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog import: %v", err)
	}
	requireContains(t, out, "Imported 8 movies")

	out, _, err = runCLI(t, []string{"catalog", "info", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog info --json: %v", err)
	}
	var info catalogInfoOutput
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("decode info: %v", err)
	}
	if info.Rows != 8 || info.Source != env.catalogCSV || info.ImportedAt == nil || info.Fingerprint == "" {
		t.Fatalf("unexpected info: %+v", info)
	}

	if _, _, err := runCLI(t, []string{"catalog", "import", filepath.Join(env.root, "absent.csv")}, env.configPath); err == nil {
		t.Fatal("expected error importing a missing file")
	}
}

func TestRecommendFromSQLiteCatalog(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"catalog", "import"}, env.configPath); err != nil {
		t.Fatalf("catalog import: %v", err)
	}

	content, err := os.ReadFile(env.configPath)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	updated := strings.Replace(string(content), `catalog_source = "csv"`, `catalog_source = "sqlite"`, 1)
	if err := os.WriteFile(env.configPath, []byte(updated), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := os.Remove(env.catalogCSV); err != nil {
		t.Fatalf("remove csv: %v", err)
	}

	out, _, err := runCLI(t, []string{"similar", "--json", "beta"}, env.configPath)
	if err != nil {
		t.Fatalf("similar from sqlite: %v", err)
	}
	var entries []similarEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(entries))
	}
}
