package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"solidflix/internal/catalog"
	"solidflix/internal/logging"
	"solidflix/internal/services"
)

const sampleCSV = `movie_id,original_title,plot,cast,genres,year
1,Alpha,"A space war rages.","Ann Actor,Bob Actor","Sci-Fi,Action",2001
2,BETA,"Space station drama.","Ann Actor",Drama,2002
3,Gamma,,,,2003
4,alpha,"Duplicate title.","Cy Actor",Comedy,2004
`

func TestReadCSV(t *testing.T) {
	cat, err := catalog.ReadCSV(context.Background(), strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ReadCSV returned error: %v", err)
	}
	if cat.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", cat.Len())
	}

	wantTitles := []string{"alpha", "beta", "gamma", "alpha"}
	for i, title := range cat.Titles() {
		if title != wantTitles[i] {
			t.Fatalf("Titles() = %v, want %v", cat.Titles(), wantTitles)
		}
	}

	first := cat.Movie(0)
	if first.ID != "1" || len(first.Cast) != 2 || first.Cast[1] != "Bob Actor" || len(first.Genres) != 2 {
		t.Fatalf("unexpected first row: %+v", first)
	}

	gamma := cat.Movie(2)
	if gamma.Plot != "" || gamma.Cast == nil || len(gamma.Cast) != 0 || len(gamma.Genres) != 0 {
		t.Fatalf("missing values should be empty, got %+v", gamma)
	}
}

func TestLookupIsCaseInsensitiveAndKeepsFirstDuplicate(t *testing.T) {
	cat, err := catalog.ReadCSV(context.Background(), strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ReadCSV returned error: %v", err)
	}
	idx, ok := cat.Lookup("ALPHA")
	if !ok || idx != 0 {
		t.Fatalf("Lookup(ALPHA) = %d, %v; want 0, true", idx, ok)
	}
	if !cat.Contains("Beta") {
		t.Fatal("expected Beta to be found")
	}
	if cat.Contains("delta") {
		t.Fatal("delta should not be found")
	}
}

func TestReadCSVMissingColumn(t *testing.T) {
	_, err := catalog.ReadCSV(context.Background(), strings.NewReader("movie_id,original_title\n1,x\n"))
	if err == nil || !strings.Contains(err.Error(), "plot") {
		t.Fatalf("expected missing column error, got %v", err)
	}
}

func TestReadCSVEmpty(t *testing.T) {
	if _, err := catalog.ReadCSV(context.Background(), strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestCSVLoaderMissingFile(t *testing.T) {
	loader := catalog.NewCSVLoader(filepath.Join(t.TempDir(), "missing.csv"), logging.NewNop())
	_, err := loader.Load(context.Background())
	if !errors.Is(err, services.ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestCSVLoaderReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	cat, err := catalog.NewCSVLoader(path, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cat.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", cat.Len())
	}
}

func TestFingerprintStable(t *testing.T) {
	a := catalog.New([]catalog.Movie{{ID: "1", Title: "Alpha"}})
	b := catalog.New([]catalog.Movie{{ID: "1", Title: "alpha"}})
	c := catalog.New([]catalog.Movie{{ID: "2", Title: "alpha"}})
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("fingerprint should ignore title case")
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Fatal("fingerprint should change with content")
	}
}

func TestSplitList(t *testing.T) {
	got := catalog.SplitList(" a , ,b,")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("SplitList = %v", got)
	}
}

func TestSQLiteStoreImportAndLoad(t *testing.T) {
	ctx := context.Background()
	src, err := catalog.ReadCSV(ctx, strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ReadCSV returned error: %v", err)
	}

	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	store, err := catalog.OpenStore(dbPath, logging.NewNop())
	if err != nil {
		t.Fatalf("OpenStore returned error: %v", err)
	}
	defer store.Close()

	if _, err := store.Load(ctx); !errors.Is(err, services.ErrDataUnavailable) {
		t.Fatalf("empty store should be unavailable, got %v", err)
	}
	info, err := store.LastImport(ctx)
	if err != nil || info != nil {
		t.Fatalf("LastImport on empty store = %v, %v", info, err)
	}

	if err := store.Import(ctx, "movies.csv", src); err != nil {
		t.Fatalf("Import returned error: %v", err)
	}
	// A second import replaces rather than appends.
	if err := store.Import(ctx, "movies.csv", src); err != nil {
		t.Fatalf("second Import returned error: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Len() != src.Len() {
		t.Fatalf("Len() = %d, want %d", loaded.Len(), src.Len())
	}
	if loaded.Fingerprint() != src.Fingerprint() {
		t.Fatal("round-tripped catalog differs from source")
	}

	info, err = store.LastImport(ctx)
	if err != nil || info == nil {
		t.Fatalf("LastImport = %v, %v", info, err)
	}
	if info.Rows != 4 || info.Source != "movies.csv" || info.Fingerprint != src.Fingerprint() {
		t.Fatalf("unexpected import info: %+v", info)
	}
}

func TestSQLiteStoreReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	store, err := catalog.OpenStore(dbPath, nil)
	if err != nil {
		t.Fatalf("OpenStore returned error: %v", err)
	}
	store.Close()

	store, err = catalog.OpenStore(dbPath, nil)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	store.Close()
}

func TestOpenStoreEmptyPath(t *testing.T) {
	if _, err := catalog.OpenStore("  ", nil); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}
