package livehub

import (
	"github.com/redis/go-redis/v9"

	"civictrack/backend/internal/storage"
)

// EventSource is the slice of storage the hub needs: a subscription to the
// live event channel.
type EventSource interface {
	SubscribeEvents() *redis.PubSub
}

// ListenEvents subscribes to the event channel and feeds decoded events into
// the dispatcher. Run it as a goroutine alongside Run. Malformed payloads are
// logged and skipped; the write that produced the event has already succeeded
// and stays authoritative.
func (h *Hub) ListenEvents(src EventSource) {
	pubsub := src.SubscribeEvents()
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		ev, err := storage.DecodeEvent([]byte(msg.Payload))
		if err != nil {
			h.log.Error().Err(err).Msg("dropping malformed live event")
			continue
		}
		h.BroadcastCh <- ev
	}
}
