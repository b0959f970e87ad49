package main

import (
	"context"
	"os/signal"
	"syscall"

	"pricerelay-service/internal/bootstrap"
	"pricerelay-service/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	logger := logx.L()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := bootstrap.InitRelayApp(ctx)
	if err != nil {
		logger.Fatal("init relay", zap.Error(err))
	}
	defer cleanup()

	if err := app.Run(ctx); err != nil {
		logger.Error("relay exited", zap.Error(err))
	}
}
