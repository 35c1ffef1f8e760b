package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"guessgame/internal/config"
	"guessgame/internal/database"
	"guessgame/internal/handlers"
	"guessgame/internal/i18n"
	"guessgame/internal/metrics"
	"guessgame/internal/render"
	"guessgame/internal/repository"
	"guessgame/internal/security"
	"guessgame/internal/service"
	"guessgame/migrations"
)

const cleanupInterval = time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	log.Info().Str("type", cfg.DatabaseType).Msg("Database connection established")

	if err := db.RunMigrations(ctx, migrations.FS); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	catalog, err := i18n.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load translations")
	}
	if !catalog.Has(cfg.DefaultLanguage) {
		log.Fatal().Str("language", cfg.DefaultLanguage).Msg("DEFAULT_LANGUAGE has no translation")
	}

	renderer, err := render.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load templates")
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	// Initialize services
	sessionService := service.NewSessionService(repository.NewSessionRepository(db), cfg.SessionDefaults(), cfg.SessionTTL)
	gameService := service.NewGameService(repository.NewGameRepository(db), cfg.GameTTL)
	ledgerService := service.NewLedgerService(db)
	cleanupService := service.NewCleanupService(db)

	// Initialize handlers
	csrf := security.NewCSRFGenerator(cfg.CSRFSecret)
	middleware := handlers.NewMiddleware(sessionService, csrf)
	screenHandler := handlers.NewScreenHandler(sessionService, gameService, ledgerService, catalog, renderer, csrf, m)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handlers.NewRouter(screenHandler, middleware, db, m),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go cleanupService.Run(ctx, cleanupInterval)

	go func() {
		log.Info().Str("addr", addr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

// setupLogging configures the global zerolog logger from LOG_LEVEL and LOG_FORMAT
func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}
