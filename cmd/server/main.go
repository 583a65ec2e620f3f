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

	"github.com/labplanner/backend/internal/config"
	"github.com/labplanner/backend/internal/db"
	httpapi "github.com/labplanner/backend/internal/http"
	"github.com/labplanner/backend/internal/ics"
	"github.com/labplanner/backend/internal/models"
	"github.com/labplanner/backend/internal/state"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "labplanner-backend").Logger()

	ctx := context.Background()

	var store *db.Store
	snap := models.SeedSnapshot()
	if cfg.DatabaseURL == "" {
		logger.Warn().Msg("DATABASE_URL not set, running with in-memory state only")
	} else {
		store, err = db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect db")
		}
		defer store.Close()

		loaded, err := store.LoadSnapshot(ctx)
		switch {
		case err == nil:
			snap = loaded
		case errors.Is(err, db.ErrNoDocument):
			logger.Info().Msg("no persisted snapshot, starting from seed dataset")
		default:
			// Corrupt persisted state must never prevent startup.
			logger.Warn().Err(err).Msg("persisted snapshot unreadable, starting from seed dataset")
		}
	}

	manager := state.NewManager(snap, persister(store))
	fetcher := &ics.HTTPFetcher{Client: &http.Client{Timeout: cfg.ICSFetchTimeout}}

	router := httpapi.Router(cfg, manager, store, fetcher, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}

// persister keeps the typed-nil pitfall out of the state manager: a nil
// *db.Store must become a nil interface.
func persister(store *db.Store) state.Persister {
	if store == nil {
		return nil
	}
	return store
}
