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

	"brinleneuro/internal/clock"
	"brinleneuro/internal/config"
	"brinleneuro/internal/database"
	"brinleneuro/internal/flags"
	"brinleneuro/internal/handlers"
	"brinleneuro/internal/repository"
	"brinleneuro/internal/security"
	"brinleneuro/internal/service"
	"brinleneuro/internal/session"
	"brinleneuro/internal/speech"
	"brinleneuro/internal/speech/gtts"
	"brinleneuro/internal/speech/polly"
	"brinleneuro/internal/tone"
	"brinleneuro/internal/tone/speaker"
	"brinleneuro/internal/voice"
)

const (
	cleanupInterval = 5 * time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogging(cfg)

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	log.Info().Str("type", cfg.DatabaseType).Msg("Database connection established")

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	templates, err := handlers.LoadTemplates(cfg.TemplatesPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load templates")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	synth, voices, err := newSynthesizer(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("engine", cfg.SpeechEngine).Msg("Failed to initialize speech")
	}

	// Speaker mode plays every device through one host engine
	var shared *tone.Engine
	if cfg.AudioOutput == "speaker" {
		shared = tone.NewEngine(cfg.SampleRate)
		out, err := speaker.Open(shared)
		if err != nil {
			log.Warn().Err(err).Msg("Falling back to streamed audio")
			shared = nil
		} else {
			defer out.Close()
		}
	}

	flagRepo := repository.NewFlagRepository(db)
	registry := session.NewRegistry(session.Options{
		Clock:      clock.Real(),
		SampleRate: cfg.SampleRate,
		Shared:     shared,
		Synth:      synth,
		Voices:     voices,
		Flags:      func(deviceID string) flags.Store { return flagRepo.ForDevice(deviceID) },
		StaticDir:  cfg.StaticFilesPath,
		IdleTTL:    cfg.SessionIdleTTL,
	})
	defer registry.Close()
	cleanup := registry.StartCleanup(cleanupInterval)
	defer cleanup.Stop()

	authService, err := service.NewAuthService(cfg.Username, cfg.Passphrase)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize authentication")
	}

	limiter := handlers.NewLoginLimiter()
	defer limiter.Close()

	middleware := handlers.NewMiddleware(
		authService,
		registry,
		security.NewDeviceTokens(cfg.SessionSecret, cfg.DeviceCookieTTL),
		security.NewCSRFGenerator(cfg.SessionSecret),
		limiter,
	)
	h := handlers.NewHandlers(middleware, templates, 0)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handlers.NewRouter(middleware, h, cfg.StaticFilesPath),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Str("audio", cfg.AudioOutput).Str("speech", cfg.SpeechEngine).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown")
	}
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// newSynthesizer returns the configured speech synthesizer and voice source.
// Browser speech needs neither.
func newSynthesizer(ctx context.Context, cfg *config.Config) (speech.Synthesizer, voice.Lister, error) {
	if cfg.SpeechEngine == "browser" {
		return nil, nil, nil
	}
	if err := os.MkdirAll(cfg.SpeechCacheDir, 0o755); err != nil {
		return nil, nil, err
	}
	cache := speech.NewCache(cfg.SpeechCacheDir, "/static/speech")

	switch cfg.SpeechEngine {
	case "polly":
		c, err := polly.New(ctx, cfg.AWSRegion, cfg.PollyEngine, cache)
		if err != nil {
			return nil, nil, err
		}
		return c, c, nil
	default:
		c := gtts.New(cache)
		return c, c, nil
	}
}
