// Package storage provides database access and persistence for the card catalog.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// DB wraps the database connection.
type DB struct {
	conn *sql.DB
	path string
}

// Config holds database configuration settings.
type Config struct {
	// Path is the file path to the SQLite database.
	// Use ":memory:" for an in-memory database; AutoMigrate then applies the
	// embedded up-migrations directly instead of going through golang-migrate.
	Path string

	// Connection pool limits.
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// BusyTimeout sets how long SQLite waits on a locked database.
	BusyTimeout time.Duration

	// JournalMode and Synchronous are passed through as pragmas.
	JournalMode string
	Synchronous string

	// AutoMigrate runs pending migrations before the pool is opened.
	AutoMigrate bool
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig(path string) *Config {
	return &Config{
		Path:            path,
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
		BusyTimeout:     5 * time.Second,
		JournalMode:     "WAL",
		Synchronous:     "NORMAL",
	}
}

func (c *Config) dsn() string {
	return fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(%s)&_pragma=synchronous(%s)&_pragma=foreign_keys(1)",
		c.Path,
		c.BusyTimeout.Milliseconds(),
		c.JournalMode,
		c.Synchronous,
	)
}

// Open creates a new database connection with the given configuration.
// Migrations, when enabled, run first over their own connection.
func Open(config *Config) (*DB, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	inMemory := config.Path == ":memory:"
	if !inMemory {
		if err := os.MkdirAll(filepath.Dir(config.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	if config.AutoMigrate && !inMemory {
		if err := migrateUp(config.Path); err != nil {
			return nil, err
		}
	}

	conn, err := sql.Open("sqlite", config.dsn())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(config.MaxOpenConns)
	conn.SetMaxIdleConns(config.MaxIdleConns)
	conn.SetConnMaxLifetime(config.ConnMaxLifetime)
	if inMemory {
		// Every new connection would otherwise get its own empty database.
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to close database after ping error: %w (original error: %v)", closeErr, err)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if config.AutoMigrate && inMemory {
		if err := applyEmbeddedSchema(conn); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}

	return &DB{conn: conn, path: config.Path}, nil
}

func migrateUp(path string) error {
	mgr, err := NewMigrationManager(path)
	if err != nil {
		return fmt.Errorf("failed to create migration manager: %w", err)
	}

	if err := mgr.Up(); err != nil {
		if closeErr := mgr.Close(); closeErr != nil {
			return fmt.Errorf("failed to close migration manager after error: %w (original error: %v)", closeErr, err)
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := mgr.Close(); err != nil {
		return fmt.Errorf("failed to close migration manager: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// Conn returns the underlying sql.DB connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Path returns the database file path, or ":memory:".
func (db *DB) Path() string {
	return db.path
}

// Ping verifies the database connection is alive.
func (db *DB) Ping() error {
	return db.conn.Ping()
}
