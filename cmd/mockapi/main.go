package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Spok95/safiro-portal/internal/config"
	"github.com/Spok95/safiro-portal/internal/jobs"
	"github.com/Spok95/safiro-portal/internal/logging"
	"github.com/Spok95/safiro-portal/internal/metrics"
	"github.com/Spok95/safiro-portal/internal/mockapi"
	"github.com/Spok95/safiro-portal/internal/observability"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Не удалось загрузить .env файл, используем переменные окружения")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env, "safiro-mockapi")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer lg.Closer()
	logger := lg.Base

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, cfg.Release)
	if err != nil {
		logger.Warn("sentry init failed", zap.Error(err))
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		observability.CaptureErr(err)
		logger.Error("mockapi failed", zap.Error(err))
		flush()
		lg.Closer()
		os.Exit(1)
	}
}

// run поднимает хранилище и HTTP-сервер и блокируется до отмены ctx.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("store init: %w", err)
	}
	defer closeStore()

	if err := mockapi.Seed(ctx, store, 0); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	srv := mockapi.NewServer(store, logger, mockapi.Options{AutoVerify: cfg.MockAutoVerify})
	hs := mockapi.StartHTTP(ctx, cfg.MockAddr, srv.Router(), logger)
	logger.Info("mockapi started",
		zap.String("addr", cfg.MockAddr),
		zap.Bool("postgres", cfg.DatabaseURL != ""),
		zap.Bool("auto_verify", cfg.MockAutoVerify),
	)

	jobs.New(ctx, logger).Every(30*time.Second, "store_ping", func(ctx context.Context) error {
		t0 := time.Now()
		if err := store.Ping(ctx); err != nil {
			return err
		}
		metrics.ObserveDBPing(time.Since(t0))
		return nil
	})

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		<-hs.Done()
		return nil
	case <-hs.Done():
		return errors.New("mockapi stopped unexpectedly")
	}
}

// openStore: Postgres с миграциями, если задан DATABASE_URL, иначе память.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (mockapi.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Info("using in-memory store")
		return mockapi.NewMemoryStore(), func() {}, nil
	}
	if err := mockapi.MigrateDSN(ctx, cfg.DatabaseURL); err != nil {
		return nil, nil, err
	}
	st, err := mockapi.NewPGStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("using postgres store")
	return st, st.Close, nil
}
