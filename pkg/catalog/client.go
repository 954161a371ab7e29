// Copyright 2025 Prism Protocol
//
// Package catalog is the read-only persistence layer for compiled
// campaigns: once the compiler writes a CompiledCampaign, ownership of
// every record transfers here and nothing in the module mutates it
// again. Storage is a single-file SQLite database via the pure-Go
// modernc.org/sqlite driver, migrated from embedded SQL on startup.
package catalog

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Client owns the catalog's database handle.
type Client struct {
	db     *sql.DB
	logger *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger attaches a structured logger to the client.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient opens dsn (a modernc.org/sqlite data source) and runs any
// pending migrations.
func NewClient(ctx context.Context, dsn string, opts ...ClientOption) (*Client, error) {
	if dsn == "" {
		return nil, fmt.Errorf("catalog: dsn cannot be empty")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("catalog: open: %w", err)
	}
	db.SetMaxOpenConns(1) // modernc.org/sqlite serializes writers; one conn avoids SQLITE_BUSY churn.

	client := &Client{db: db, logger: slog.Default()}
	for _, opt := range opts {
		opt(client)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: ping: %w", err)
	}

	if err := client.migrateUp(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return client, nil
}

// DB returns the underlying *sql.DB for direct access by repositories.
func (c *Client) DB() *sql.DB {
	return c.db
}

// Close closes the underlying database connection.
func (c *Client) Close() error {
	return c.db.Close()
}

type migration struct {
	version string
	sql     string
}

func (c *Client) migrateUp(ctx context.Context) error {
	migrations, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("catalog: load migrations: %w", err)
	}

	applied, err := c.appliedMigrations(ctx)
	if err != nil {
		applied = map[string]bool{}
	}

	for _, m := range migrations {
		if applied[m.version] {
			continue
		}
		c.logger.Info("applying catalog migration", "version", m.version)
		if err := c.applyMigration(ctx, m); err != nil {
			return fmt.Errorf("catalog: apply migration %s: %w", m.version, err)
		}
	}
	return nil
}

func loadMigrations() ([]migration, error) {
	var migrations []migration
	err := fs.WalkDir(migrationsFS, "migrations", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".sql") {
			return nil
		}
		content, err := migrationsFS.ReadFile(path)
		if err != nil {
			return err
		}
		version := strings.TrimSuffix(d.Name(), ".sql")
		migrations = append(migrations, migration{version: version, sql: string(content)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(migrations, func(i, j int) bool { return migrations[i].version < migrations[j].version })
	return migrations, nil
}

func (c *Client) appliedMigrations(ctx context.Context) (map[string]bool, error) {
	rows, err := c.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func (c *Client) applyMigration(ctx context.Context, m migration) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.sql); err != nil {
		return err
	}
	return tx.Commit()
}
