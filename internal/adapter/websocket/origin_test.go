package websocket

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCheckOrigin(t *testing.T) {
	allowed := []string{"http://localhost:8000", "http://127.0.0.1:8000", "https://ctf.example.com/"}

	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{"empty origin", "", true},
		{"allowed localhost", "http://localhost:8000", true},
		{"allowed loopback", "http://127.0.0.1:8000", true},
		{"allowed with trailing slash in config", "https://ctf.example.com", true},
		{"case insensitive", "HTTPS://CTF.EXAMPLE.COM", true},

		{"different host", "https://evil.com", false},
		{"different port", "http://localhost:3000", false},
		{"https instead of http", "https://localhost:8000", false},
		{"subdomain", "https://sub.ctf.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewCheckOrigin(allowed)
			r, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "/connection/websocket", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, checker(r))
		})
	}
}

func TestNewCheckOrigin_EmptyAllowList(t *testing.T) {
	checker := NewCheckOrigin(nil)
	r, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, "/connection/websocket", nil)
	r.Header.Set("Origin", "http://localhost:8000")

	assert.False(t, checker(r))
}
