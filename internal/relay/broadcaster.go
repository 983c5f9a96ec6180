package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rifkyrahmat2006/scorerelay/internal/domain"
)

const (
	publishTimeout = 2 * time.Second

	// timestampLayout renders UTC times like 2024-05-01T12:30:00.000Z.
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

type broadcastObserver interface {
	Observe(event string, reached int, err error)
}

// Broadcaster fans events out to live connections through a domain.Transport.
type Broadcaster struct {
	transport domain.Transport
	registry  *Registry
	clock     clockwork.Clock
	observer  broadcastObserver
}

// NewBroadcaster creates a Broadcaster. observer may be nil.
func NewBroadcaster(transport domain.Transport, registry *Registry, clock clockwork.Clock, observer broadcastObserver) *Broadcaster {
	return &Broadcaster{
		transport: transport,
		registry:  registry,
		clock:     clock,
		observer:  observer,
	}
}

// ConnectedClients returns the number of live connections.
func (b *Broadcaster) ConnectedClients() int {
	return b.registry.Count()
}

// BroadcastScoreboard pushes a scoreboard.updated event to the scoreboard group.
// An empty updatedAt defaults to the current UTC time.
func (b *Broadcaster) BroadcastScoreboard(ctx context.Context, scoreboard json.RawMessage, updatedAt string) (int, error) {
	if isMissing(scoreboard) {
		return 0, fmt.Errorf("scoreboard: %w", domain.ErrMissingPayload)
	}
	if updatedAt == "" {
		updatedAt = b.clock.Now().UTC().Format(timestampLayout)
	}

	event := domain.ScoreboardUpdate{Scoreboard: scoreboard, UpdatedAt: updatedAt}
	return b.BroadcastToGroup(ctx, domain.GroupScoreboard, event)
}

// BroadcastSubmission pushes a submission.stored event to every connection.
func (b *Broadcaster) BroadcastSubmission(ctx context.Context, submission json.RawMessage) (int, error) {
	if isMissing(submission) {
		return 0, fmt.Errorf("submission: %w", domain.ErrMissingPayload)
	}

	return b.BroadcastToAll(ctx, domain.SubmissionStored{Submission: submission})
}

// BroadcastToGroup pushes event to every connection in group and returns
// the group's size at publish time.
func (b *Broadcaster) BroadcastToGroup(ctx context.Context, group domain.Group, event domain.Event) (int, error) {
	if !group.Valid() {
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownGroup, group)
	}

	data, err := encode(event)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		slog.DebugContext(ctx, "Publishing to group", "group", group, "members", b.registry.Members(group))
	}

	err = b.transport.PublishToGroup(ctx, group, data)
	reached := 0
	if err == nil {
		reached = b.registry.GroupSize(group)
	}
	b.record(ctx, event, reached, err)
	if err != nil {
		return 0, fmt.Errorf("publish %s to group %s: %w", event.EventName(), group, err)
	}
	return reached, nil
}

// BroadcastToAll pushes event to every open connection regardless of group.
func (b *Broadcaster) BroadcastToAll(ctx context.Context, event domain.Event) (int, error) {
	data, err := encode(event)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	reached, err := b.transport.SendToAll(ctx, data)
	b.record(ctx, event, reached, err)
	if err != nil {
		return reached, fmt.Errorf("send %s to all connections: %w", event.EventName(), err)
	}
	return reached, nil
}

func (b *Broadcaster) record(ctx context.Context, event domain.Event, reached int, err error) {
	name := string(event.EventName())
	if b.observer != nil {
		b.observer.Observe(name, reached, err)
	}
	if err != nil {
		slog.ErrorContext(ctx, "Broadcast failed", "event", name, "error", err)
		return
	}
	slog.InfoContext(ctx, "Broadcasted event", "event", name, "clients_reached", reached)
}

func encode(event domain.Event) ([]byte, error) {
	data, err := json.Marshal(domain.NewEnvelope(event))
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", event.EventName(), err)
	}
	return data, nil
}

func isMissing(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
