package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kiran-230202/Otelier-Explorer/internal/app"
	"github.com/Kiran-230202/Otelier-Explorer/internal/config"
)

func main() {
	ctx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	cfg, err := config.Load()
	if err != nil {
		logger := app.NewLogger("info")
		logger.Fatal().Err(err).Msg("load config")
	}

	a, err := app.New(cfg)
	if err != nil {
		logger := app.NewLogger(cfg.LogLevel)
		logger.Fatal().Err(err).Msg("build app")
	}
	defer a.Sessions.Close()

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: a.Router,
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	// graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		sig := <-sigCh
		a.Logger.Info().Str("signal", sig.String()).Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.Logger.Error().Err(err).Msg("server shutdown")
		}
		rootCancel()
		close(idleConnsClosed)
	}()

	a.Logger.Info().Str("addr", cfg.HTTPAddr).Str("mode", string(cfg.Mode)).Msg("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		a.Logger.Fatal().Err(err).Msg("server failed")
	}
	<-idleConnsClosed
}
