package websocket

import (
	"log/slog"
	"net/http"
	"strings"
)

// NewCheckOrigin returns a CheckOrigin function for the Centrifuge WebSocket handler.
// Empty origins (non-browser clients) are allowed; any other origin must match
// one of allowed exactly, ignoring case and a trailing slash.
func NewCheckOrigin(allowed []string) func(r *http.Request) bool {
	origins := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		origins[normalizeOrigin(origin)] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}

		if _, ok := origins[normalizeOrigin(origin)]; ok {
			return true
		}

		slog.Warn("WebSocket origin rejected", "origin", origin, "remote_addr", r.RemoteAddr)
		return false
	}
}

func normalizeOrigin(origin string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(origin)), "/")
}
