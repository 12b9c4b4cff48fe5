package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tastematch/backend/config"
	httpDelivery "github.com/tastematch/backend/internal/delivery/http"
	"github.com/tastematch/backend/internal/domain"
	"github.com/tastematch/backend/internal/infrastructure/logging"
	"github.com/tastematch/backend/internal/infrastructure/store"
	"github.com/tastematch/backend/internal/usecase"
)

func main() {
	os.Exit(realMain())
}

// realMain returns the process exit code so deferred flushes run before exit
func realMain() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}

	logger, err := logging.New(cfg.Server.Environment, cfg.Server.LogLevel)
	if err != nil {
		log.Printf("Failed to build logger: %v", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return 1
	}
	return 0
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting tastematch backend",
		zap.String("version", "1.0.0"),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Type),
	)

	repo, closeStore, err := openStore(ctx, cfg.Store, logger.Named("store"))
	if err != nil {
		return err
	}
	defer closeStore()

	profileService := usecase.NewProfileService(repo, logger.Named("profiles"))
	matchService := usecase.NewMatchService(repo, logger.Named("matching"), usecase.MatchServiceConfig{
		DefaultLimit:  cfg.Matching.DefaultLimit,
		MaxLimit:      cfg.Matching.MaxLimit,
		MaxCandidates: cfg.Matching.MaxCandidates,
		Workers:       cfg.Matching.Workers,
	})

	logger.Info("matching configured",
		zap.Int("default_limit", cfg.Matching.DefaultLimit),
		zap.Int("max_limit", cfg.Matching.MaxLimit),
		zap.Int("max_candidates", cfg.Matching.MaxCandidates),
		zap.Int("workers", cfg.Matching.Workers),
	)

	handler := httpDelivery.NewHandler(profileService, matchService, logger)
	router := httpDelivery.SetupRouter(cfg, handler, logger.Named("http"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// openStore builds the profile repository selected by store.type
func openStore(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (domain.ProfileRepository, func(), error) {
	opt := store.WithLogger(logger)

	switch cfg.Type {
	case config.StoreSQLite:
		s, err := store.OpenSQLite(ctx, cfg.SQLitePath, opt)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return s, func() { _ = s.Close() }, nil
	case config.StoreRedis:
		s, err := store.NewRedisStore(ctx, cfg.RedisURL, cfg.KeyPrefix, opt)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis store: %w", err)
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return store.NewMemoryStore(opt), func() {}, nil
	}
}
