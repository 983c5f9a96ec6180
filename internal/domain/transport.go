package domain

import "context"

// Transport pushes encoded frames to live real-time connections.
// Delivery is fire-and-forget: a nil error means the frame was handed to
// the transport, not that any client received it.
type Transport interface {
	PublishToGroup(ctx context.Context, group Group, data []byte) error
	SendToAll(ctx context.Context, data []byte) (int, error)
}

// ConnectionTracker is notified of connection lifecycle events by the transport.
type ConnectionTracker interface {
	Connect(id string) Connection
	Disconnect(id string)
	Count() int
}
