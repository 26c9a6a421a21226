/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the finance tracker server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load environment configuration (.env merged in)
  2. Initialize SQLite store
  3. Build the mailer (SMTP when configured, disabled otherwise)
  4. Create job runner, API handler, router, scheduler
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (overrides PORT)
  -db      SQLite database path (overrides DB_PATH)
           Use ":memory:" for an in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the job scheduler (waits for an in-flight run)
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/fintrack.db"

  # Run with in-memory database
  ./server -db=":memory:"

SEE ALSO:
  - config/config.go: Environment variables
  - api/server.go: Router configuration
  - jobs/runner.go: Scheduled work
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fintrack/fintrack/api"
	"github.com/fintrack/fintrack/bankimport"
	"github.com/fintrack/fintrack/config"
	"github.com/fintrack/fintrack/jobs"
	"github.com/fintrack/fintrack/mailer"
	"github.com/fintrack/fintrack/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// Flags win over environment
	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	flag.Parse()

	log := config.NewLogger(cfg.LogLevel)

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer store.Close()

	// Category rules: YAML rules first so they win, built-ins as fallback
	rules := bankimport.DefaultRules
	if cfg.CategoryRules != "" {
		userRules, err := config.LoadCategoryRules(cfg.CategoryRules)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.CategoryRules).Msg("failed to load category rules")
		}
		rules = append(userRules, bankimport.DefaultRules...)
		log.Info().Int("rules", len(userRules)).Str("path", cfg.CategoryRules).Msg("category rules loaded")
	}

	var mail mailer.Mailer = mailer.Disabled{}
	if cfg.MailConfigured() {
		smtp, err := mailer.NewSMTP(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to configure smtp")
		}
		mail = smtp
		log.Info().Str("host", cfg.SMTPHost).Msg("report mail enabled")
	} else {
		log.Warn().Msg("smtp not configured, report mail disabled")
	}

	runner := &jobs.Runner{
		Store:     store,
		Mailer:    mail,
		Log:       log,
		FromEmail: cfg.FromEmail,
	}

	handler := api.NewHandler(store, bankimport.New(rules), runner, log)
	router := api.NewRouter(handler)

	scheduler := api.NewJobScheduler(runner, log)
	scheduler.Start()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", *port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}

	log.Info().Msg("server stopped")
}
