package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/rifkyrahmat2006/scorerelay/internal/domain"
	"github.com/rifkyrahmat2006/scorerelay/internal/platform/config"
)

const testSecret = "test-relay-secret"

// --- Mock implementations ---

type scoreboardCall struct {
	scoreboard json.RawMessage
	updatedAt  string
}

type mockRelayService struct {
	broadcastScoreboardFn func(ctx context.Context, scoreboard json.RawMessage, updatedAt string) (int, error)
	broadcastSubmissionFn func(ctx context.Context, submission json.RawMessage) (int, error)
	connectedClients      int

	scoreboardCalls []scoreboardCall
	submissionCalls []json.RawMessage
}

func (m *mockRelayService) BroadcastScoreboard(ctx context.Context, scoreboard json.RawMessage, updatedAt string) (int, error) {
	m.scoreboardCalls = append(m.scoreboardCalls, scoreboardCall{scoreboard: scoreboard, updatedAt: updatedAt})
	if m.broadcastScoreboardFn != nil {
		return m.broadcastScoreboardFn(ctx, scoreboard, updatedAt)
	}
	if len(scoreboard) == 0 || string(scoreboard) == "null" {
		return 0, domain.ErrMissingPayload
	}
	return m.connectedClients, nil
}

func (m *mockRelayService) BroadcastSubmission(ctx context.Context, submission json.RawMessage) (int, error) {
	m.submissionCalls = append(m.submissionCalls, submission)
	if m.broadcastSubmissionFn != nil {
		return m.broadcastSubmissionFn(ctx, submission)
	}
	if len(submission) == 0 || string(submission) == "null" {
		return 0, domain.ErrMissingPayload
	}
	return m.connectedClients, nil
}

func (m *mockRelayService) ConnectedClients() int {
	return m.connectedClients
}

// --- Test helpers ---

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:             "test",
		Port:               "0",
		AllowedOrigins:     []string{"http://localhost:8000", "http://127.0.0.1:8000"},
		APISecret:          testSecret,
		BroadcastRateLimit: 1000,
		BroadcastRateBurst: 1000,
	}
}

func newTestServer(t *testing.T, relay relayService, opts ...func(*Options, *config.Config)) *Server {
	t.Helper()

	cfg := testConfig()
	options := Options{Clock: clockwork.NewFakeClock()}
	for _, opt := range opts {
		opt(&options, cfg)
	}

	return NewServer(cfg, relay, options)
}

func withHealthChecks(checks ...HealthCheck) func(*Options, *config.Config) {
	return func(o *Options, _ *config.Config) {
		o.HealthChecks = checks
	}
}

func withRateLimit(ratePerSecond float64, burst int) func(*Options, *config.Config) {
	return func(_ *Options, cfg *config.Config) {
		cfg.BroadcastRateLimit = ratePerSecond
		cfg.BroadcastRateBurst = burst
	}
}

func withHandlers(websocketHandler, metricsHandler http.Handler) func(*Options, *config.Config) {
	return func(o *Options, _ *config.Config) {
		o.WebsocketHandler = websocketHandler
		o.MetricsHandler = metricsHandler
	}
}

// doRequest runs a request through the full middleware stack.
func doRequest(srv *Server, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func authHeader() map[string]string {
	return map[string]string{"Authorization": "Bearer " + testSecret}
}
