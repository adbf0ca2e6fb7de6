/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the payroll calculation server.
  Handles configuration, table seeding, dependency injection, and graceful
  shutdown.

STARTUP SEQUENCE:
  1. Load .env, environment and command-line flags
  2. Configure logging
  3. Open SQLite store and seed missing table sets
  4. Publish stored table sets to the registry
  5. Start the reload scheduler
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS (override the environment):
  -addr    HTTP listen address (MILANA_ADDR, default :8080)
  -db      SQLite database path (MILANA_DB_PATH, default milana.db)
           Use ":memory:" for in-memory database
  -year    Active statutory year (MILANA_TABLE_YEAR, default 2026)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the reload scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection

EXAMPLES:
  ./server -db=":memory:"
  MILANA_TABLES_DIR=./tables MILANA_LOG_FORMAT=json ./server -addr=:3000

SEE ALSO:
  - config/config.go: Environment variables
  - api/server.go: Router configuration
  - factory/tables.go: Embedded table sets
*/
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/milana/payroll-engine/api"
	"github.com/milana/payroll-engine/config"
	"github.com/milana/payroll-engine/factory"
	"github.com/milana/payroll-engine/statutory"
	"github.com/milana/payroll-engine/store/sqlite"
)

var log = logrus.WithField("module", "main")

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("failed to read .env")
	}
	cfg := config.Load()

	// Flags
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	flag.IntVar(&cfg.TableYear, "year", cfg.TableYear, "Active statutory year")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if err := cfg.Logger(); err != nil {
		log.WithError(err).Fatal("invalid log configuration")
	}

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	defer store.Close()

	ctx := context.Background()
	if err := seedTables(ctx, store, cfg.TablesDir); err != nil {
		log.WithError(err).Fatal("failed to seed table sets")
	}

	// Publish tables
	sets, skipped, err := factory.LoadFromStore(ctx, store)
	if err != nil {
		log.WithError(err).Fatal("failed to load table sets")
	}
	registry, err := statutory.NewRegistry(sets, cfg.TableYear)
	if err != nil {
		log.WithError(err).WithField("year", cfg.TableYear).Fatal("active table set unavailable")
	}
	log.WithFields(logrus.Fields{
		"years":   registry.Years(),
		"active":  registry.Active(),
		"skipped": skipped,
	}).Info("table sets published")

	reloader := api.NewReloadScheduler(store, registry)
	reloader.CheckInterval = cfg.ReloadInterval
	reloader.Start()

	handler := api.NewHandler(registry, store, reloader)
	router := api.NewRouter(handler, cfg.CORSOrigins)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.Addr).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	reloader.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}

	log.Info("server stopped")
}

// seedTables writes the embedded years missing from the store, then the
// documents in dir, which replace stored versions of the same year.
func seedTables(ctx context.Context, store statutory.Store, dir string) error {
	embedded, err := factory.EmbeddedRecords()
	if err != nil {
		return err
	}
	if _, err := factory.Seed(ctx, store, embedded, false); err != nil {
		return err
	}
	if dir == "" {
		return nil
	}
	records, err := factory.LoadDir(dir)
	if err != nil {
		return err
	}
	_, err = factory.Seed(ctx, store, records, true)
	return err
}
