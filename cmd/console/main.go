// Command console runs the KMT Discovery admin console gateway.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kmtdiscovery/admin-console/internal/api"
	"github.com/kmtdiscovery/admin-console/internal/app"
	"github.com/kmtdiscovery/admin-console/internal/infrastructure/config"
	"github.com/kmtdiscovery/admin-console/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet.
		fallback := logger.Init(logger.Options{})
		fallback.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "admin-console",
		Env:     cfg.Env,
	})

	console, err := app.New(ctx, cfg, log, app.Options{})
	if err != nil {
		log.Fatal().Err(err).Msg("wire console")
	}
	defer func() {
		if err := console.Close(); err != nil {
			log.Warn().Err(err).Msg("close console")
		}
	}()

	if err := console.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("start console")
	}

	e := api.NewRouter(console, api.Options{GatewayKey: cfg.Gateway.Key}, logger.Component("gateway"))

	go func() {
		log.Info().Str("addr", cfg.Gateway.Addr).Str("api", cfg.API.URL).Msg("gateway listening")
		if err := e.Start(cfg.Gateway.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("gateway stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("gateway shutdown")
	}
}
