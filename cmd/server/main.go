/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Almanac calendar engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load YAML configuration (created on first run)
  3. Initialize SQLite store
  4. Preload configured calendars
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  YAML configuration path (default: almanac.yaml)
  -listen  Listen address, overrides the config file
  -db      SQLite database path, overrides the config file
           Use ":memory:" for in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with defaults (writes almanac.yaml on first run)
  ./server

  # Run with in-memory database
  ./server -db=":memory:"

  # Run on a different address
  ./server -listen=":3000"

SEE ALSO:
  - config/config.go: Configuration format
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/almanac/calendar-engine/api"
	"github.com/almanac/calendar-engine/config"
	"github.com/almanac/calendar-engine/factory"
	"github.com/almanac/calendar-engine/store/sqlite"
)

func main() {
	// Flags
	configPath := flag.String("config", "almanac.yaml", "YAML configuration path")
	listen := flag.String("listen", "", "listen address (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}
	if *dbPath != "" {
		cfg.Database = *dbPath
	}

	// Initialize store
	store, err := sqlite.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Preload configured calendars
	if err := preloadCalendars(context.Background(), store, cfg.Preload); err != nil {
		log.Printf("Warning: Failed to preload calendars: %v", err)
	}

	// Initialize handler
	handler := api.NewHandler(store)

	// Parse stored calendars into cache
	if err := handler.LoadCalendars(context.Background()); err != nil {
		log.Printf("Warning: Failed to load calendars: %v", err)
	}

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         cfg.Listen,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Listen)
		log.Printf("API available under %s/api", cfg.Listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// preloadCalendars creates the configured calendars when they do not
// already exist. Existing calendars are never overwritten; their world
// clock is session state.
func preloadCalendars(ctx context.Context, store *sqlite.Store, preload []config.PreloadConfig) error {
	f := factory.NewCalendarFactory()

	for _, p := range preload {
		if _, err := store.GetCalendar(ctx, p.ID); err == nil {
			continue
		} else if !errors.Is(err, sqlite.ErrNotFound) {
			return err
		}

		var doc string
		switch {
		case p.File != "":
			data, err := os.ReadFile(p.File)
			if err != nil {
				return err
			}
			doc = string(data)
		case p.Preset != "":
			found := false
			for _, preset := range factory.Presets() {
				if preset.ID == p.Preset {
					doc = preset.JSON
					found = true
					break
				}
			}
			if !found {
				log.Printf("Warning: unknown preset %q, skipping", p.Preset)
				continue
			}
		default:
			continue
		}

		model, warnings, err := f.ParseCalendar(doc)
		if err != nil {
			return err
		}
		for _, warning := range warnings {
			log.Printf("Calendar %s: %s", p.ID, warning)
		}

		rec := sqlite.CalendarRecord{ID: p.ID, Name: model.Name, ConfigJSON: doc}
		if err := store.SaveCalendar(ctx, rec); err != nil {
			return err
		}
		log.Printf("Preloaded calendar %q (%s)", p.ID, model.Name)
	}
	return nil
}
