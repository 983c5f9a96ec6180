// Package relay holds the connection registry and the fan-out broadcaster.
//
// The registry is fed by the real-time transport's connect and disconnect
// hooks. The broadcaster turns ingress payloads into events, encodes them and
// hands them to a domain.Transport. Nothing is persisted, acknowledged or retried.
package relay
