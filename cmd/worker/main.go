// Package main runs the standalone maintenance worker (link expiry, event
// completion).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/entrada-events/backend/config"
	"github.com/entrada-events/backend/internal/events"
	"github.com/entrada-events/backend/internal/registration"
	"github.com/entrada-events/backend/internal/worker"
	"github.com/entrada-events/backend/pkg/database"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	linksRepo := registration.NewRepository(pool)
	eventsRepo := events.NewRepository(pool)
	sweeper := worker.NewSweeper(linksRepo, eventsRepo,
		time.Duration(cfg.Sweeper.IntervalMinutes)*time.Minute, logger)

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sweeper.Run(workerCtx)
	logger.Info("worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	time.Sleep(2 * time.Second)
	logger.Info("worker stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
