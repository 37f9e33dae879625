package models

import "time"

// Event names pushed over the live channel.
const (
	EventNewComplaint     = "newComplaint"
	EventComplaintUpdated = "complaintUpdated"
)

// Event is one live-channel message. It travels through Redis pub/sub to the
// hub and from there to every connected websocket client.
type Event struct {
	Name    string       `json:"event"`
	Payload EventPayload `json:"payload"`
}

// EventPayload carries the union of fields the two event types use.
type EventPayload struct {
	UserID      string    `json:"userId,omitempty"`
	ComplaintID string    `json:"complaintId,omitempty"`
	Category    string    `json:"category,omitempty"`
	Subcategory string    `json:"subcategory,omitempty"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
}

// RegisterMessage is the single inbound message type the websocket layer
// accepts: a client announcing which user it speaks for.
type RegisterMessage struct {
	Event  string `json:"event"`
	UserID string `json:"userId"`
}
