package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"assets-manager/db"
	"assets-manager/internal"
	"assets-manager/internal/config"
	"assets-manager/internal/logger"
	"assets-manager/internal/store"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadAndValidate()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	logg, err := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		log.Fatalf("Logger error: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, logg)
	if err != nil {
		logg.Fatal("open store", zap.Error(err))
	}

	srv := internal.NewServer(st, cfg, logg)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logg.Info("starting assets manager API",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("store", cfg.Store),
			zap.Bool("metrics", cfg.EnableMetrics),
			zap.Bool("swagger", cfg.EnableSwagger),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logg.Error("http shutdown", zap.Error(err))
	}
	if err := srv.Close(shutdownCtx); err != nil {
		logg.Error("close store", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg *config.Config, logg *zap.Logger) (store.Store, error) {
	if cfg.Store == config.StoreMemory {
		logg.Warn("using in-memory store; records are lost on restart")
		return store.NewMemoryStore(), nil
	}

	pg, err := store.OpenPostgres(ctx, cfg.DBDriver, cfg.DBDSN, cfg.DBConnectTimeout, logg)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := db.Up(ctx, pg.DB()); err != nil {
			pg.Close()
			return nil, err
		}
		logg.Info("migrations applied")
	}
	return pg, nil
}
