package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"pobbin/internal/api"
	"pobbin/internal/config"
	"pobbin/internal/logger"
	"pobbin/internal/metrics"
	"pobbin/internal/session"
	"pobbin/internal/storage"
	"pobbin/internal/web"

	"github.com/google/uuid"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pobbin: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Connect(ctx, storage.RedisConfig{
		Address:  cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() { _ = store.Close() }()

	secret := cfg.SessionSecret
	if secret == "" {
		secret = uuid.NewString()
		log.Warn("POBBIN_SESSION_SECRET is not set, sessions will not survive a restart")
	}
	sessions := session.NewManager(secret, cfg.SessionTTL, strings.HasPrefix(cfg.RootURL, "https://"))

	handler, err := web.NewHandler(cfg, web.Dependencies{
		Store:    store,
		Sessions: sessions,
		API:      api.NewClient(api.Config{BaseURL: cfg.BackendURL(), Timeout: cfg.APITimeout}),
		Logger:   log,
		Metrics:  metrics.New(),
	})
	if err != nil {
		return fmt.Errorf("handler setup: %w", err)
	}

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Info("pobbin listening", logger.String("addr", cfg.ListenAddr))
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
