package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"solidflix/internal/logging"
	"solidflix/internal/services"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// ErrImportInProgress is returned when another process holds the import lock.
var ErrImportInProgress = errors.New("catalog import already in progress")

// ImportInfo describes the most recent import.
type ImportInfo struct {
	Source      string
	Rows        int
	Fingerprint string
	ImportedAt  time.Time
}

// SQLiteStore persists an imported catalog.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	lock   *flock.Flock
	logger *slog.Logger
}

// OpenStore initializes or connects to the catalog database.
func OpenStore(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "catalog", "open store", "database path is empty", nil)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, services.Wrap(services.ErrDataUnavailable, "catalog", "open sqlite db", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &SQLiteStore{
		db:     db,
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logging.NewComponentLogger(logger, "catalog_store"),
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete the database and re-import)",
			ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

func (s *SQLiteStore) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Import replaces the stored catalog with cat in a single transaction.
// Concurrent imports against the same database fail with ErrImportInProgress.
func (s *SQLiteStore) Import(ctx context.Context, source string, cat *Catalog) error {
	if cat == nil {
		return services.Wrap(services.ErrValidation, "catalog", "import", "catalog is nil", nil)
	}
	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire import lock: %w", err)
	}
	if !ok {
		return ErrImportInProgress
	}
	defer func() { _ = s.lock.Unlock() }()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM movies"); err != nil {
		return fmt.Errorf("clear movies: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO movies (row_index, movie_id, title, plot, cast_list, genres) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, m := range cat.movies {
		if _, err := stmt.ExecContext(ctx, i, m.ID, m.Title, m.Plot,
			strings.Join(m.Cast, ","), strings.Join(m.Genres, ",")); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO imports (source, rows, fingerprint, imported_at) VALUES (?, ?, ?, ?)`,
		source, cat.Len(), cat.Fingerprint(), time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("record import: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}

	s.logger.Info("catalog imported",
		logging.String(logging.FieldEventType, "catalog_imported"),
		logging.String("source", source),
		logging.Int("rows", cat.Len()),
	)
	return nil
}

// Load returns the stored catalog ordered by original row position.
func (s *SQLiteStore) Load(ctx context.Context) (*Catalog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT movie_id, title, plot, cast_list, genres FROM movies ORDER BY row_index`)
	if err != nil {
		return nil, services.Wrap(services.ErrDataUnavailable, "catalog", "query movies", s.path, err)
	}
	defer rows.Close()

	var movies []Movie
	for rows.Next() {
		var m Movie
		var castList, genres string
		if err := rows.Scan(&m.ID, &m.Title, &m.Plot, &castList, &genres); err != nil {
			return nil, services.Wrap(services.ErrDataUnavailable, "catalog", "scan movie", s.path, err)
		}
		m.Cast = SplitList(castList)
		m.Genres = SplitList(genres)
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrDataUnavailable, "catalog", "iterate movies", s.path, err)
	}
	if len(movies) == 0 {
		return nil, services.Wrap(services.ErrDataUnavailable, "catalog", "load", "catalog database is empty; run 'solidflix catalog import'", nil)
	}
	return New(movies), nil
}

// LastImport returns details of the most recent import, or nil when none exist.
func (s *SQLiteStore) LastImport(ctx context.Context) (*ImportInfo, error) {
	var info ImportInfo
	var importedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT source, rows, fingerprint, imported_at FROM imports ORDER BY id DESC LIMIT 1`,
	).Scan(&info.Source, &info.Rows, &info.Fingerprint, &importedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read last import: %w", err)
	}
	if ts, parseErr := time.Parse(time.RFC3339Nano, importedAt); parseErr == nil {
		info.ImportedAt = ts
	}
	return &info, nil
}
