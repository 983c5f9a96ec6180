package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/centrifugal/centrifuge"
	"github.com/rifkyrahmat2006/scorerelay/internal/adapter/metrics"
	"github.com/rifkyrahmat2006/scorerelay/internal/domain"
)

type Config struct {
	LogLevel       string
	MaxConnections int
	AllowedOrigins []string
}

// Relay owns the centrifuge node. Every connection is subscribed server-side
// to the default groups, and client-initiated subscribe, publish and RPC
// commands are not handled.
type Relay struct {
	node      *centrifuge.Node
	tracker   domain.ConnectionTracker
	wsMetrics *metrics.WebSocketMetrics
	config    Config
	running   atomic.Bool

	mu      sync.RWMutex
	clients map[string]*centrifuge.Client
}

func NewRelay(tracker domain.ConnectionTracker, wsMetrics *metrics.WebSocketMetrics, cfg Config) (*Relay, error) {
	conf := centrifuge.Config{LogLevel: parseCentrifugeLogLevel(cfg.LogLevel), LogHandler: slogHandler}
	node, err := centrifuge.New(conf)
	if err != nil {
		return nil, fmt.Errorf("create centrifuge node: %w", err)
	}

	r := &Relay{
		node:      node,
		tracker:   tracker,
		wsMetrics: wsMetrics,
		config:    cfg,
		clients:   make(map[string]*centrifuge.Client),
	}

	node.OnConnecting(r.onConnecting)
	node.OnConnect(r.onConnect)

	return r, nil
}

func (r *Relay) Run() error {
	if err := r.node.Run(); err != nil {
		return fmt.Errorf("run centrifuge node: %w", err)
	}
	r.running.Store(true)
	return nil
}

func (r *Relay) Shutdown(ctx context.Context) error {
	r.running.Store(false)
	if err := r.node.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown centrifuge node: %w", err)
	}
	return nil
}

// HealthCheck fails unless the node is running and answers Info.
func (r *Relay) HealthCheck(_ context.Context) error {
	if !r.running.Load() {
		return errors.New("centrifuge node not running")
	}
	if _, err := r.node.Info(); err != nil {
		return fmt.Errorf("centrifuge node info: %w", err)
	}
	return nil
}

// Handler returns the WebSocket handshake handler, restricted to the
// configured origins.
func (r *Relay) Handler() http.Handler {
	return centrifuge.NewWebsocketHandler(r.node, centrifuge.WebsocketConfig{
		CheckOrigin: NewCheckOrigin(r.config.AllowedOrigins),
	})
}

// onConnecting admits anonymous clients up to the connection cap. The cap is
// checked before the new client is counted, so a burst may overshoot it slightly.
func (r *Relay) onConnecting(_ context.Context, _ centrifuge.ConnectEvent) (centrifuge.ConnectReply, error) {
	if r.config.MaxConnections > 0 && r.tracker.Count() >= r.config.MaxConnections {
		slog.Warn("Connection limit reached, refusing client", "limit", r.config.MaxConnections)
		if r.wsMetrics != nil {
			r.wsMetrics.RejectedConnections.WithLabelValues("connection_limit").Inc()
		}
		return centrifuge.ConnectReply{}, centrifuge.DisconnectConnectionLimit
	}

	subscriptions := make(map[string]centrifuge.SubscribeOptions, len(domain.DefaultGroups))
	for _, group := range domain.DefaultGroups {
		subscriptions[channelFor(group)] = centrifuge.SubscribeOptions{}
	}

	reply := centrifuge.ConnectReply{
		Credentials:   &centrifuge.Credentials{},
		Subscriptions: subscriptions,
	}
	return reply, nil
}

func (r *Relay) onConnect(client *centrifuge.Client) {
	r.mu.Lock()
	r.clients[client.ID()] = client
	r.mu.Unlock()

	r.tracker.Connect(client.ID())
	if r.wsMetrics != nil {
		r.wsMetrics.ActiveConnections.Inc()
	}

	client.OnDisconnect(func(e centrifuge.DisconnectEvent) {
		slog.Debug("Client disconnect event", "client_id", client.ID(), "reason", e.Reason)

		r.mu.Lock()
		_, known := r.clients[client.ID()]
		delete(r.clients, client.ID())
		r.mu.Unlock()

		r.tracker.Disconnect(client.ID())
		if known && r.wsMetrics != nil {
			r.wsMetrics.ActiveConnections.Dec()
		}
	})
}

func (r *Relay) snapshotClients() []*centrifuge.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients := make([]*centrifuge.Client, 0, len(r.clients))
	for _, client := range r.clients {
		clients = append(clients, client)
	}
	return clients
}

func channelFor(group domain.Group) string {
	return string(group)
}

func slogHandler(entry centrifuge.LogEntry) {
	attrs := make([]any, 0, len(entry.Fields)*2)
	for k, v := range entry.Fields {
		attrs = append(attrs, k, v)
	}
	switch entry.Level {
	case centrifuge.LogLevelDebug, centrifuge.LogLevelTrace:
		slog.Debug(entry.Message, attrs...)
	case centrifuge.LogLevelInfo:
		slog.Info(entry.Message, attrs...)
	case centrifuge.LogLevelWarn:
		slog.Warn(entry.Message, attrs...)
	case centrifuge.LogLevelError:
		slog.Error(entry.Message, attrs...)
	case centrifuge.LogLevelNone:
		// EMPTY
	}
}

func parseCentrifugeLogLevel(level string) centrifuge.LogLevel {
	switch level {
	case "debug":
		return centrifuge.LogLevelDebug
	case "warn":
		return centrifuge.LogLevelWarn
	case "error":
		return centrifuge.LogLevelError
	default:
		return centrifuge.LogLevelInfo
	}
}
