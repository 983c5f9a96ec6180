// Package domain holds the relay's shared types: groups, connections,
// broadcast events and the transport contracts the adapters implement.
// It has no dependencies on other internal packages.
package domain
