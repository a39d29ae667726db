package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/profile-feed/internal/api"
	"github.com/dom/profile-feed/internal/auth"
	"github.com/dom/profile-feed/internal/config"
	"github.com/dom/profile-feed/internal/logger"
	"github.com/dom/profile-feed/internal/repository/postgres"
	"github.com/dom/profile-feed/internal/service"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	gormLogger "gorm.io/gorm/logger"
)

func main() {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger.Init(cfg.Environment, cfg.LogLevel)

	if cfg.UsingDevSecret() {
		log.Warn().Msg("JWT_SECRET not set, signing sessions with the development secret")
	}

	codec, err := auth.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create token codec")
	}

	// Initialize database
	dbLogLevel := gormLogger.Info
	if cfg.IsProduction() {
		dbLogLevel = gormLogger.Warn
	}
	db, err := postgres.NewConnection(cfg.DatabaseURL, dbLogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() {
		if err := postgres.Close(db); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	repos := postgres.NewRepositories(db)
	services := service.NewServices(repos, codec)
	router := api.NewRouter(services, codec, cfg)

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("environment", cfg.Environment).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		log.Error().Err(err).Msg("server failed")
	}

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server stopped")
}
