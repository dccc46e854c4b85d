// Package catalog records imported datasets and their metadata override logs
// in a SQLite database.
package catalog

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const (
	dirPermissions  = 0750
	filePermissions = 0600
	msPerSecond     = 1000

	connectionTimeout = 5 * time.Second

	// Fixed width so that imported_at sorts lexically.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound is returned when no import has the requested ID.
var ErrNotFound = errors.New("catalog: import not found")

// Config contains the catalog database settings.
type Config struct {
	// Path is the SQLite database file. Its directory is created if needed.
	Path string

	// WALMode enables write-ahead logging.
	WALMode bool

	// BusyTimeout is the lock wait time in seconds.
	BusyTimeout int
}

// Catalog is an open import catalog.
type Catalog struct {
	db   *sql.DB
	path string
}

// Entry is one recorded import.
type Entry struct {
	ID         string
	Path       string
	Format     string
	Points     int
	Dims       int
	ImportedAt time.Time
	Overrides  []string
}

// Open opens or creates the catalog database and applies pending migrations.
func Open(cfg Config) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), dirPermissions); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	connStr := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on",
		cfg.Path, cfg.BusyTimeout*msPerSecond)
	if cfg.WALMode {
		connStr += "&_journal_mode=WAL&_synchronous=NORMAL"
	}

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	// SQLite supports a single writer.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("verifying catalog connection: %w", err)
	}

	c := &Catalog{db: db, path: cfg.Path}
	if err := c.Migrate(ctx); err != nil {
		db.Close() //nolint:errcheck
		return nil, err
	}
	_ = os.Chmod(cfg.Path, filePermissions) //nolint:errcheck
	return c, nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("closing catalog: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (c *Catalog) Path() string {
	return c.path
}

// Migrate applies the embedded migrations that have not run yet, each in its
// own transaction, in file name order.
func (c *Catalog) Migrate(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    TEXT PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("listing migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		version := strings.TrimSuffix(filepath.Base(name), ".sql")

		var n int
		if err := c.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version).Scan(&n); err != nil {
			return fmt.Errorf("checking migration %s: %w", version, err)
		}
		if n > 0 {
			continue
		}

		body, err := migrationsFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", version, err)
		}
		if err := c.inTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, string(body)); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx,
				"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
				version, time.Now().UTC().Format(time.RFC3339))
			return err
		}); err != nil {
			return fmt.Errorf("applying migration %s: %w", version, err)
		}
	}
	return nil
}

// Record stores e and its override log. An empty ID is replaced by a new
// UUID and a zero ImportedAt by the current time. The stored ID is returned.
func (c *Catalog) Record(ctx context.Context, e Entry) (string, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.ImportedAt.IsZero() {
		e.ImportedAt = time.Now()
	}

	err := c.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO imports (id, path, format, points, dims, imported_at) VALUES (?, ?, ?, ?, ?, ?)`,
			e.ID, e.Path, e.Format, e.Points, e.Dims, e.ImportedAt.UTC().Format(timeLayout)); err != nil {
			return err
		}
		for i, entry := range e.Overrides {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO overrides (import_id, seq, entry) VALUES (?, ?, ?)`,
				e.ID, i, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("recording import of %s: %w", e.Path, err)
	}
	return e.ID, nil
}

// List returns the most recent imports, newest first, without their
// override logs. A limit of zero or less returns all imports.
func (c *Catalog) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, path, format, points, dims, imported_at FROM imports ORDER BY imported_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing imports: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Get returns the import with the given ID, including its override log.
func (c *Catalog) Get(ctx context.Context, id string) (*Entry, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT id, path, format, points, dims, imported_at FROM imports WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	if e.Overrides, err = c.Overrides(ctx, id); err != nil {
		return nil, err
	}
	return &e, nil
}

// Overrides returns the override log of an import in recorded order.
func (c *Catalog) Overrides(ctx context.Context, id string) ([]string, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT entry FROM overrides WHERE import_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("reading overrides: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scanning override: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var (
		e  Entry
		at string
	)
	if err := s.Scan(&e.ID, &e.Path, &e.Format, &e.Points, &e.Dims, &at); err != nil {
		return Entry{}, err
	}
	t, err := time.Parse(timeLayout, at)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing import time %q: %w", at, err)
	}
	e.ImportedAt = t
	return e, nil
}

func (c *Catalog) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	return tx.Commit()
}
