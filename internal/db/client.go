// Package db implements the relational storage collaborator on embedded
// SQLite: the job registry, derived chunk tables, and per-job embeddings
// tables.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// DefaultSchema is SQLite's built-in schema name.
const DefaultSchema = "main"

// Config holds storage configuration.
type Config struct {
	// Path is the SQLite database file path.
	Path string
}

// Client wraps the SQLite connection pool.
type Client struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens the database and tunes the connection pool.
// WAL and a busy timeout keep concurrent readers from failing on locks.
func Open(cfg Config, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)", cfg.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(2 * time.Hour)

	return &Client{db: db, log: log}, nil
}

// Close closes the connection pool.
func (c *Client) Close() error {
	return c.db.Close()
}

// Exec runs a raw statement against the database. Intended for test
// seeding and administrative one-offs, not the operation surface.
func (c *Client) Exec(ctx context.Context, query string, args ...any) error {
	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		return wrapSchemaError(err)
	}
	return nil
}

// InitSchema creates the job registry table if it does not exist.
func (c *Client) InitSchema(ctx context.Context) error {
	const schemaSQL = `
	CREATE TABLE IF NOT EXISTS tablerag_jobs (
		id TEXT PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		schema_name TEXT NOT NULL,
		table_name TEXT NOT NULL,
		columns TEXT NOT NULL,
		primary_key TEXT NOT NULL,
		update_col TEXT,
		index_dist TEXT NOT NULL,
		model TEXT NOT NULL,
		table_method TEXT NOT NULL,
		schedule TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);`

	if _, err := c.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("init schema: %w", wrapSchemaError(err))
	}
	c.log.Debug("storage schema initialized")
	return nil
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier checks that name can serve as an unquoted SQL
// identifier fragment. Job names must pass because the per-job
// embeddings table name embeds them.
func ValidIdentifier(name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return nil
}

// quoteIdent validates and double-quotes a single SQL identifier.
// Dynamic table and column names flow through here; everything else is
// bound as a parameter.
func quoteIdent(name string) (string, error) {
	if !identPattern.MatchString(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return `"` + name + `"`, nil
}

// qualify renders a schema-qualified table reference.
func qualify(schema, table string) (string, error) {
	qs, err := quoteIdent(schema)
	if err != nil {
		return "", err
	}
	qt, err := quoteIdent(table)
	if err != nil {
		return "", err
	}
	return qs + "." + qt, nil
}

// quoteIdents quotes a list of column names and joins them with commas.
func quoteIdents(names []string) (string, error) {
	quoted := make([]string, len(names))
	for i, n := range names {
		q, err := quoteIdent(n)
		if err != nil {
			return "", err
		}
		quoted[i] = q
	}
	return strings.Join(quoted, ", "), nil
}
