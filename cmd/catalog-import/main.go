// Package main loads a TOML catalog seed file into the card catalog database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ramonehamilton/chaos-zero-companion/internal/catalog"
	"github.com/ramonehamilton/chaos-zero-companion/internal/config"
	"github.com/ramonehamilton/chaos-zero-companion/internal/storage"
)

var (
	dbPath   = flag.String("db-path", "", "Database path (default: ~/.chaos-zero-companion/catalog.db)")
	seedFile = flag.String("file", "", "Catalog seed file (TOML)")
	snapshot = flag.Bool("snapshot", true, "Snapshot an existing catalog before importing")
)

func main() {
	flag.Parse()

	if *seedFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: catalog-import -file <seed.toml> [-db-path <path>]")
		os.Exit(2)
	}

	if err := run(context.Background()); err != nil {
		log.Fatalf("Catalog import failed: %v", err)
	}
}

func run(ctx context.Context) error {
	seed, err := catalog.LoadSeedFile(*seedFile)
	if err != nil {
		return err
	}

	path := *dbPath
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if path, err = cfg.DatabasePath(); err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
	}

	_, statErr := os.Stat(path)
	existing := statErr == nil

	dbConfig := storage.DefaultConfig(path)
	dbConfig.AutoMigrate = true
	db, err := storage.Open(dbConfig)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	if *snapshot && existing {
		snap, err := db.Snapshot(ctx, "")
		if err != nil {
			return fmt.Errorf("snapshot catalog: %w", err)
		}
		fmt.Printf("Snapshot written to %s\n", snap)
	}

	fmt.Printf("Importing %s into %s\n", *seedFile, path)
	return catalog.NewService(storage.NewService(db)).Import(ctx, seed)
}
