package livehub

import "civictrack/backend/internal/models"

// Client is the interface for one live connection. It abstracts the transport
// so the hub can manage websocket clients and test doubles uniformly.
type Client interface {
	// UserID returns the identity the connection authenticated as.
	UserID() string

	// Deliver queues ev for the connection without blocking. It reports false
	// when the connection is closed or its outbound buffer is full.
	Deliver(ev models.Event) bool

	// Run attaches the connection to the hub and starts its read and write
	// pumps.
	Run()
	// Close shuts down the outbound channel, stopping the write pump. Safe to
	// call more than once.
	Close()
}
