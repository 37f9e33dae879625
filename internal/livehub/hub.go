// Package livehub owns the live push channel: the connected client set, the
// presence registry, and the dispatcher goroutine that fans events out to
// every connected listener.
package livehub

import (
	"github.com/rs/zerolog"

	"civictrack/backend/internal/models"
)

// Registration asks the hub to map a user identity to a connection handle.
type Registration struct {
	UserID string
	Client Client
}

// Hub dispatches live events to connected clients. Broadcasts go to every
// attached connection, whether or not it has announced an identity; the
// registry only backs direct-to-user delivery. All mutations funnel through
// the channels and are applied by the single Run goroutine; the registry
// itself is still lock-guarded because lookups happen from request
// goroutines.
type Hub struct {
	registry *Registry
	clients  map[Client]struct{}

	AttachCh     chan Client
	RegisterCh   chan Registration
	UnregisterCh chan Client
	BroadcastCh  chan models.Event

	log zerolog.Logger
}

// NewHub constructs a hub around the given registry.
func NewHub(registry *Registry, log zerolog.Logger) *Hub {
	return &Hub{
		registry:     registry,
		clients:      make(map[Client]struct{}),
		AttachCh:     make(chan Client),
		RegisterCh:   make(chan Registration),
		UnregisterCh: make(chan Client),
		BroadcastCh:  make(chan models.Event, 64),
		log:          log,
	}
}

// Registry exposes the presence registry for lookups.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// Run is the hub dispatcher. Start it once, as a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.AttachCh:
			h.clients[c] = struct{}{}
			h.log.Debug().Str("user", c.UserID()).Msg("client connected")

		case reg := <-h.RegisterCh:
			h.registry.Register(reg.UserID, reg.Client)
			h.log.Debug().Str("user", reg.UserID).Msg("client registered")

		case c := <-h.UnregisterCh:
			delete(h.clients, c)
			h.registry.UnregisterHandle(c)
			h.log.Debug().Str("user", c.UserID()).Msg("client disconnected")

		case ev := <-h.BroadcastCh:
			h.broadcast(ev)
		}
	}
}

// broadcast delivers ev to every attached connection. A client whose send
// buffer is full is dropped rather than allowed to stall the dispatcher.
func (h *Hub) broadcast(ev models.Event) {
	for c := range h.clients {
		if c.Deliver(ev) {
			continue
		}
		h.log.Warn().Str("user", c.UserID()).Str("event", ev.Name).
			Msg("slow client, dropping connection")
		delete(h.clients, c)
		h.registry.UnregisterHandle(c)
		c.Close()
	}
}

// SendToUser delivers ev directly to one user's registered connection, if
// present. Reports whether the user was connected with room in their send
// buffer.
func (h *Hub) SendToUser(userID string, ev models.Event) bool {
	c, ok := h.registry.Lookup(userID)
	if !ok {
		return false
	}
	return c.Deliver(ev)
}
