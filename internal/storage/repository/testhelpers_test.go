package repository

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// setupCatalogTestDB creates an in-memory database with the catalog tables.
func setupCatalogTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE characters (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE cards (
			id INTEGER PRIMARY KEY,
			character_id INTEGER,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			cost INTEGER NOT NULL DEFAULT 0,
			card_type TEXT NOT NULL DEFAULT 'ATTACK',
			rarity TEXT NOT NULL DEFAULT 'COMMON',
			category TEXT NOT NULL DEFAULT '',
			is_glimmer INTEGER NOT NULL DEFAULT 0,
			is_divine_glimmer INTEGER NOT NULL DEFAULT 0,
			is_start_card INTEGER NOT NULL DEFAULT 0,
			is_basic_card INTEGER NOT NULL DEFAULT 0,
			is_neutral INTEGER NOT NULL DEFAULT 0,
			pt_value INTEGER,
			image_url TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (character_id) REFERENCES characters(id) ON DELETE CASCADE
		);
	`

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func int64Ptr(v int64) *int64 { return &v }

func intPtr(v int) *int { return &v }
