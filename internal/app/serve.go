package app

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// Serve runs the HTTP server on addr until ctx is done, then shuts down
// within the configured deadline.
func (a *App) Serve(ctx context.Context, addr string) error {
	e := a.HTTPServer()

	bgCtx, stopBackground := context.WithCancel(ctx)
	defer stopBackground()
	a.RunBackground(bgCtx)

	serverErr := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", zap.String("addr", addr))
		serverErr <- e.Start(addr)
	}()

	select {
	case <-ctx.Done():
		a.Logger.Info("shutting down")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Config.ShutdownDeadline)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warn("graceful shutdown failed", zap.Error(err))
	}
	if err := a.Close(shutdownCtx); err != nil {
		a.Logger.Warn("release resources", zap.Error(err))
	}
	return nil
}
