package websocket

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rifkyrahmat2006/scorerelay/internal/domain"
)

// PublishToGroup publishes data on the group's channel. Members receive it
// through their server-side subscription.
func (r *Relay) PublishToGroup(_ context.Context, group domain.Group, data []byte) error {
	channel := channelFor(group)
	if _, err := r.node.Publish(channel, data); err != nil {
		return fmt.Errorf("publish to channel %s: %w", channel, err)
	}

	if r.wsMetrics != nil {
		r.wsMetrics.MessagesPublished.WithLabelValues("group").Inc()
	}
	return nil
}

// SendToAll pushes data as an async message to every connected client and
// returns how many clients accepted it. A failing client is skipped.
func (r *Relay) SendToAll(ctx context.Context, data []byte) (int, error) {
	sent := 0
	for _, client := range r.snapshotClients() {
		if err := ctx.Err(); err != nil {
			return sent, fmt.Errorf("send to all: %w", err)
		}
		if err := client.Send(data); err != nil {
			slog.DebugContext(ctx, "Skipping client on send", "client_id", client.ID(), "error", err)
			continue
		}
		sent++
	}

	if r.wsMetrics != nil {
		r.wsMetrics.MessagesPublished.WithLabelValues("all").Add(float64(sent))
	}
	return sent, nil
}
