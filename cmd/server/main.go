package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rifkyrahmat2006/scorerelay/internal/adapter/httpserver"
	"github.com/rifkyrahmat2006/scorerelay/internal/adapter/metrics"
	"github.com/rifkyrahmat2006/scorerelay/internal/adapter/websocket"
	"github.com/rifkyrahmat2006/scorerelay/internal/platform/config"
	"github.com/rifkyrahmat2006/scorerelay/internal/platform/logging"
	"github.com/rifkyrahmat2006/scorerelay/internal/platform/version"
	"github.com/rifkyrahmat2006/scorerelay/internal/relay"
)

const shutdownTimeout = 10 * time.Second

func runGracefulShutdown(srv *httpserver.Server, rel *websocket.Relay) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		if err := rel.Shutdown(shutdownCtx); err != nil {
			slog.Error("Realtime node shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupRelay(cfg *config.Config, registry *relay.Registry, wsMetrics *metrics.WebSocketMetrics) *websocket.Relay {
	rel, err := websocket.NewRelay(registry, wsMetrics, websocket.Config{
		LogLevel:       cfg.LogLevel,
		MaxConnections: cfg.MaxWebSocketConnections,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		slog.Error("Failed to create realtime node", "error", err)
		os.Exit(1)
	}

	if err := rel.Run(); err != nil {
		slog.Error("Failed to start realtime node", "error", err)
		os.Exit(1)
	}
	return rel
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "version", version.Get().String())

	reg := metrics.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(reg)
	wsMetrics := metrics.NewWebSocketMetrics(reg)
	broadcastMetrics := metrics.NewBroadcastMetrics(reg)

	registry := relay.NewRegistry()
	rel := setupRelay(cfg, registry, wsMetrics)
	broadcaster := relay.NewBroadcaster(rel, registry, clock, broadcastMetrics)

	srv := httpserver.NewServer(cfg, broadcaster, httpserver.Options{
		WebsocketHandler: rel.Handler(),
		MetricsHandler:   metrics.Handler(reg),
		HTTPMetrics:      httpMetrics,
		HealthChecks: []httpserver.HealthCheck{
			{Name: "realtime_node", Check: rel.HealthCheck},
		},
		Clock: clock,
	})

	done := runGracefulShutdown(srv, rel)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
