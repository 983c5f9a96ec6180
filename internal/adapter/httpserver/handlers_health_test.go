package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rifkyrahmat2006/scorerelay/internal/platform/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_ReportsConnectedClients(t *testing.T) {
	relay := &mockRelayService{connectedClients: 3}
	srv := newTestServer(t, relay)

	rec := doRequest(srv, http.MethodGet, "/", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","message":"Scoreboard relay is running","connectedClients":3}`, rec.Body.String())

	relay.connectedClients = 2
	rec = doRequest(srv, http.MethodGet, "/", "", nil)
	assert.JSONEq(t, `{"status":"ok","message":"Scoreboard relay is running","connectedClients":2}`, rec.Body.String())
}

func TestStatus_NoAuthRequired(t *testing.T) {
	srv := newTestServer(t, &mockRelayService{})

	rec := doRequest(srv, http.MethodGet, "/", "", map[string]string{"Authorization": "Bearer wrong"})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLiveness_ReportsUptime(t *testing.T) {
	clock := clockwork.NewFakeClock()
	srv := NewServer(testConfig(), &mockRelayService{}, Options{Clock: clock})

	clock.Advance(90 * time.Second)
	rec := doRequest(srv, http.MethodGet, "/health/live", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.InDelta(t, 90.0, resp["uptime"], 0.001)
}

func TestReadiness_AllChecksPass(t *testing.T) {
	called := 0
	check := HealthCheck{Name: "realtime_node", Check: func(context.Context) error {
		called++
		return nil
	}}
	srv := newTestServer(t, &mockRelayService{}, withHealthChecks(check))

	rec := doRequest(srv, http.MethodGet, "/health/ready", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())
	assert.Equal(t, 1, called)
}

func TestReadiness_FailingCheck(t *testing.T) {
	checks := []HealthCheck{
		{Name: "first", Check: func(context.Context) error { return nil }},
		{Name: "realtime_node", Check: func(context.Context) error { return errors.New("node not running") }},
		{Name: "never", Check: func(context.Context) error {
			t.Error("checks after a failure must not run")
			return nil
		}},
	}
	srv := newTestServer(t, &mockRelayService{}, withHealthChecks(checks...))

	rec := doRequest(srv, http.MethodGet, "/health/ready", "", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unhealthy", resp["status"])
	assert.Equal(t, "realtime_node", resp["failed_check"])
	assert.Equal(t, "node not running", resp["error"])
}

func TestReadiness_ChecksGetDeadline(t *testing.T) {
	var hasDeadline bool
	check := HealthCheck{Name: "deadline", Check: func(ctx context.Context) error {
		_, hasDeadline = ctx.Deadline()
		return nil
	}}
	srv := newTestServer(t, &mockRelayService{}, withHealthChecks(check))

	doRequest(srv, http.MethodGet, "/health/ready", "", nil)

	assert.True(t, hasDeadline)
}

func TestVersion(t *testing.T) {
	srv := newTestServer(t, &mockRelayService{})

	rec := doRequest(srv, http.MethodGet, "/version", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var info version.Info
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, version.Get().Version, info.Version)
}

func TestOptionalRoutes_AbsentWithoutHandlers(t *testing.T) {
	srv := newTestServer(t, &mockRelayService{})

	assert.Equal(t, http.StatusNotFound, doRequest(srv, http.MethodGet, "/metrics", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, doRequest(srv, http.MethodGet, "/connection/websocket", "", nil).Code)
}

func TestOptionalRoutes_Mounted(t *testing.T) {
	ws := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	m := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})
	srv := newTestServer(t, &mockRelayService{}, withHandlers(ws, m))

	assert.Equal(t, http.StatusTeapot, doRequest(srv, http.MethodGet, "/connection/websocket", "", nil).Code)

	rec := doRequest(srv, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "# metrics", rec.Body.String())
}
