package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/octobees/place-finder/internal/app"
	"github.com/octobees/place-finder/internal/config"
	"github.com/octobees/place-finder/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl := logger.New(cfg.Env)
	defer logger.Sync(zl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialise application", zap.Error(err))
	}

	if err := application.Serve(ctx, ":"+cfg.Port); err != nil {
		zl.Fatal("server error", zap.Error(err))
	}
}
