package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/octobees/place-finder/internal/logger"
)

func loggerFrom(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	return logger.FromContext(ctx, fallback)
}

func withLogger(ctx context.Context, l *zap.Logger) context.Context {
	return logger.WithContext(ctx, l)
}
