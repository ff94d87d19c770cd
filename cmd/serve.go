package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/resicentral/resicentral/internal/adapters/http/api"
	"github.com/resicentral/resicentral/internal/adapters/http/site"
	"github.com/resicentral/resicentral/internal/adapters/http/swagger"
	"github.com/resicentral/resicentral/internal/adapters/repository"
	service "github.com/resicentral/resicentral/internal/app"
	"github.com/resicentral/resicentral/internal/config"
	"github.com/resicentral/resicentral/pkg/logger"
	"github.com/spf13/cobra"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	redisPingTimeout  = 5 * time.Second
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				cfg *config.Config
				err error
			)
			if configPath != "" {
				cfg, err = config.LoadFile(cmd.Context(), configPath)
			} else {
				cfg, err = config.Load(cmd.Context())
			}
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if !cmd.Flags().Changed("log-level") {
				if err := logger.Init(
					logger.WithLevel(cfg.LogLevel),
					logger.WithFormat(cfg.LogFormat),
					logger.WithOutput(cmd.ErrOrStderr()),
				); err != nil {
					return fmt.Errorf("failed to initialize logging: %w", err)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file (default: $"+config.EnvFile+")")
	return cmd
}

// runServe serves the API until ctx is done, then drains in-flight
// requests and pending history writes.
func runServe(ctx context.Context, cfg *config.Config) error {
	log := logger.Get()

	store, closeStore, err := openHistory(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := service.New(
		service.WithLogger(log),
		service.WithHistoryStore(store),
		service.WithMaxHistoryLimit(cfg.MaxHistoryLimit),
		service.WithWriterCount(cfg.RecorderWorkers),
		service.WithQueueSize(cfg.RecorderQueueSize),
		service.WithIdempotency(cfg.IdempotencyKeys, cfg.IdempotencyWindow),
		service.WithShutdownTimeout(cfg.ShutdownTimeout),
	)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	defer svc.Stop()

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	site.Register(ctx, mux)
	api.NewServer(svc, svc).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("history", cfg.HistoryBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// openHistory builds the configured history store and the function that
// releases it.
func openHistory(ctx context.Context, cfg *config.Config) (repository.Store, func(), error) {
	opts := []repository.Option{repository.WithRetention(cfg.HistoryRetention)}

	switch cfg.HistoryBackend {
	case config.BackendRedis:
		client := repository.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		opts = append(opts, repository.WithKeyPrefix(cfg.RedisKeyPrefix), repository.WithTTL(cfg.HistoryTTL))
		store := repository.NewRedisStore(ctx, client, opts...)

		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			_ = store.Close()
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis %s unreachable: %w", cfg.RedisAddr, err)
		}
		return store, func() {
			_ = store.Close()
			if err := client.Close(); err != nil {
				logger.Get().Warn(ctx, "failed to close redis client", logger.Error(err))
			}
		}, nil
	default:
		store := repository.NewMemoryStore(ctx, opts...)
		return store, func() { _ = store.Close() }, nil
	}
}
