// Package main runs the Chaos Zero companion REST API: the card catalog,
// deck-building sessions and live deck updates over WebSocket.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ramonehamilton/chaos-zero-companion/internal/api"
	"github.com/ramonehamilton/chaos-zero-companion/internal/catalog"
	"github.com/ramonehamilton/chaos-zero-companion/internal/config"
	"github.com/ramonehamilton/chaos-zero-companion/internal/events"
	"github.com/ramonehamilton/chaos-zero-companion/internal/session"
	"github.com/ramonehamilton/chaos-zero-companion/internal/storage"
)

var (
	port       = flag.Int("port", 0, "API server port (overrides config)")
	dbPath     = flag.String("db-path", "", "Database path (default: ~/.chaos-zero-companion/catalog.db)")
	configPath = flag.String("config", "", "Config file (default: ~/.chaos-zero-companion/config.toml)")
	verbose    = flag.Bool("verbose", false, "Log every dispatched event")
	readOnly   = flag.Bool("read-only", false, "Disable the catalog editing routes")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		log.Fatalf("API server failed: %v", err)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Println("Chaos Zero Companion - REST API Server")
	fmt.Println("======================================")
	fmt.Println()

	path, err := cfg.DatabasePath()
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	fmt.Printf("Database: %s\n", path)

	dbConfig := storage.DefaultConfig(path)
	dbConfig.AutoMigrate = cfg.Database.AutoMigrate
	db, err := storage.Open(dbConfig)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Durations were checked by Validate.
	idleTTL, _ := cfg.GetSessionIdleTTL()
	sweepInterval, _ := cfg.GetSweepInterval()
	requestTimeout, _ := cfg.GetRequestTimeout()

	dispatcher := events.NewEventDispatcher()
	dispatcher.Register(events.NewLoggingObserver(*verbose))

	catalogService := catalog.NewService(storage.NewService(db))
	manager := session.NewManager(catalogService, dispatcher, session.Config{
		Rules:       cfg.Rules,
		DefaultTier: cfg.Session.DefaultTier,
		IdleTTL:     idleTTL,
	})

	deps := api.Dependencies{
		Catalog:      catalogService,
		Sessions:     manager,
		DB:           db.Conn(),
		SessionCount: manager.Count,
	}
	if !*readOnly {
		deps.CatalogAdmin = catalogService
	}

	server := api.NewServer(&api.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RequestTimeout: requestTimeout,
		RateLimit:      cfg.Server.RateLimit,
		RateBurst:      cfg.Server.RateBurst,
	}, deps)
	dispatcher.Register(server.NewWebSocketObserver())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if idleTTL > 0 && sweepInterval > 0 {
		go manager.RunSweeper(ctx, sweepInterval)
	}

	if err := server.Start(); err != nil {
		return fmt.Errorf("start API server: %w", err)
	}

	fmt.Println()
	fmt.Printf("API server running at http://localhost:%d\n", server.Port())
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	<-ctx.Done()

	fmt.Println()
	fmt.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Error during shutdown: %v", err)
	}

	fmt.Println("API server stopped.")
	return nil
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
