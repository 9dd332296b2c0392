package storage

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// SnapshotInfo describes one catalog snapshot file.
type SnapshotInfo struct {
	Path     string
	Name     string
	Size     int64
	ModTime  time.Time
	Checksum string
}

// SnapshotDir returns the default snapshot directory next to the database.
func (db *DB) SnapshotDir() string {
	return filepath.Join(filepath.Dir(db.path), "snapshots")
}

// Snapshot writes a consistent copy of the catalog into dir with VACUUM INTO
// and verifies it before returning its path. An empty dir means SnapshotDir.
func (db *DB) Snapshot(ctx context.Context, dir string) (string, error) {
	if dir == "" {
		dir = db.SnapshotDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("catalog_%s.db", time.Now().UTC().Format("20060102_150405.000")))
	if _, err := db.conn.ExecContext(ctx, "VACUUM INTO ?", path); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}

	if err := VerifySnapshot(ctx, path); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("snapshot verification failed: %w", err)
	}
	return path, nil
}

// VerifySnapshot opens the file at path and checks its integrity and that it
// holds a catalog schema.
func VerifySnapshot(ctx context.Context, path string) error {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer conn.Close()

	var result string
	if err := conn.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check reported: %s", result)
	}

	var tables int
	err = conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('characters', 'cards')").Scan(&tables)
	if err != nil {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}
	if tables != 2 {
		return fmt.Errorf("snapshot has no catalog schema")
	}
	return nil
}

// ListSnapshots returns the snapshots in dir, newest first. A missing
// directory yields an empty list.
func ListSnapshots(dir string) ([]SnapshotInfo, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []SnapshotInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot directory: %w", err)
	}

	snapshots := []SnapshotInfo{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".db" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		checksum, err := fileChecksum(path)
		if err != nil {
			checksum = "unknown"
		}

		snapshots = append(snapshots, SnapshotInfo{
			Path:     path,
			Name:     entry.Name(),
			Size:     info.Size(),
			ModTime:  info.ModTime(),
			Checksum: checksum,
		})
	}

	sort.Slice(snapshots, func(i, j int) bool { return snapshots[i].Name > snapshots[j].Name })
	return snapshots, nil
}

func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
