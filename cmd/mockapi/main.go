// Command mockapi serves the in-memory mentorship API for local development.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"mentorship/internal/config"
	"mentorship/internal/logger"
	"mentorship/internal/mockapi"
	"mentorship/internal/store"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log := logger.Get()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("mock api failed")
	}
}

func run(cfg config.App) error {
	log := logger.Get()

	sessions := store.Open(cfg.SessionBackend, cfg.RedisAddr)
	defer func() { _ = sessions.Close() }()

	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if !sessions.Healthy(pingCtx) {
		log.Warn().Str("backend", cfg.SessionBackend).Msg("session store not reachable")
	}
	cancel()

	api := mockapi.New(mockapi.OptionsFromConfig(cfg, sessions))
	if cfg.Seed {
		api.Seed(time.Now().In(cfg.Location()))
		log.Info().Str("admin", mockapi.DemoAdminEmail).Str("mentor", mockapi.DemoMentorEmail).
			Str("password", mockapi.DemoPassword).Msg("demo accounts ready")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      api.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting mock api")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	log.Info().Msg("shutting down mock api")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("mock api exited")
	return nil
}
