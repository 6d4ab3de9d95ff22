package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

const testCatalogCSV = `movie_id,original_title,plot,cast,genres
1,Alpha,"A pilot fights a war among distant stars.","Ann Actor,Bob Actor","Sci-Fi,Action"
2,Beta,"A space station crew faces a war of survival.","Ann Actor","Sci-Fi,Drama"
3,Gamma,"Two chefs open a restaurant in Paris.","Cy Actor","Comedy,Romance"
4,Delta,"A detective hunts a killer through the city.","Dee Actor","Crime,Thriller"
5,Epsilon,"Pilots train for a war in orbit.","Bob Actor","Sci-Fi,Action"
6,Zeta,"A family road trip goes wrong.","Cy Actor","Comedy"
7,Eta,"A lonely robot explores distant stars.","Ann Actor","Sci-Fi,Animation"
8,Theta,"A lawyer defends a killer in court.","Dee Actor","Crime,Drama"
`

var remoteTitles = []string{"Remote One", "Remote Two", "Remote Three", "Remote Four", "Remote Five", "Remote Six"}

type cliTestEnv struct {
	root       string
	configPath string
	catalogCSV string
	catalogDB  string
	tmdbCalls  *atomic.Int64
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("TMDB_API_KEY", "test-key")
	t.Setenv("SOLIDFLIX_CATALOG", "")

	calls := &atomic.Int64{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/search/movie":
			query := r.URL.Query().Get("query")
			id := 7
			if strings.EqualFold(query, "unlisted movie") {
				id = 42
			}
			fmt.Fprintf(w, `{"page":1,"results":[{"id":%d,"title":%q}],"total_results":1}`, id, query)
		case r.URL.Path == "/movie/42/recommendations":
			var b strings.Builder
			b.WriteString(`{"page":1,"results":[`)
			for i, title := range remoteTitles {
				if i > 0 {
					b.WriteString(",")
				}
				fmt.Fprintf(&b, `{"id":%d,"title":%q}`, 100+i, title)
			}
			b.WriteString(`]}`)
			_, _ = w.Write([]byte(b.String()))
		case strings.HasPrefix(r.URL.Path, "/movie/"):
			_, _ = w.Write([]byte(`{"page":1,"results":[]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	env := &cliTestEnv{
		root:       root,
		configPath: filepath.Join(root, "config.toml"),
		catalogCSV: filepath.Join(root, "movie_data.csv"),
		catalogDB:  filepath.Join(root, "data", "catalog.db"),
		tmdbCalls:  calls,
	}
	if err := os.WriteFile(env.catalogCSV, []byte(testCatalogCSV), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	writeTestConfig(t, env, server.URL, "csv")
	return env
}

func writeTestConfig(t *testing.T, env *cliTestEnv, tmdbURL, catalogSource string) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
catalog_csv = %q
catalog_db = %q
log_dir = %q
title_cache = %q
api_bind = "127.0.0.1:0"

[tmdb]
base_url = %q
requests_per_second = 0.0

[recommend]
catalog_source = %q
request_timeout = 30

[title_cache]
enabled = true

[logging]
level = "error"
`,
		env.catalogCSV,
		env.catalogDB,
		filepath.Join(env.root, "logs"),
		filepath.Join(env.root, "cache", "title_cache.json"),
		tmdbURL,
		catalogSource,
	)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
