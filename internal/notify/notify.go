// Package notify fans complaint state changes out to the live channel, the
// owner's email, and the admin alert chat. Everything here runs after the
// authoritative store write and is best-effort: failures are logged and never
// surfaced to the caller.
package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"civictrack/backend/internal/models"
)

const statusMailSubject = "Complaint Status Updated"

// EventPublisher is the slice of storage the fan-out needs.
type EventPublisher interface {
	PublishEvent(ev models.Event) error
}

// Service decouples "a complaint changed state" from "who needs to know and
// how". Broadcasts are published inline (publishing is an enqueue, not a
// delivery); email and admin alerts go through the outbox worker so a slow
// SMTP dial never holds up a response.
type Service struct {
	publisher EventPublisher
	mailer    Mailer
	admin     AdminNotifier
	jobs      chan func()
	log       zerolog.Logger
}

// NewService builds the fan-out. mailer and admin may be nil, disabling the
// corresponding channel.
func NewService(publisher EventPublisher, mailer Mailer, admin AdminNotifier, queueSize int, log zerolog.Logger) *Service {
	return &Service{
		publisher: publisher,
		mailer:    mailer,
		admin:     admin,
		jobs:      make(chan func(), queueSize),
		log:       log,
	}
}

// Run drains the outbox until ctx is cancelled. Start it once, as a goroutine.
func (s *Service) Run(ctx context.Context) {
	for {
		select {
		case job := <-s.jobs:
			job()
		case <-ctx.Done():
			return
		}
	}
}

// enqueue hands a job to the worker. When the outbox is full the job is
// dropped with a log line; notification delivery is not guaranteed.
func (s *Service) enqueue(kind string, job func()) {
	select {
	case s.jobs <- job:
	default:
		s.log.Warn().Str("kind", kind).Msg("notification outbox full, dropping job")
	}
}

// AnnounceCreated broadcasts a newComplaint event to all listeners and alerts
// the admin chat.
func (s *Service) AnnounceCreated(c *models.Complaint) {
	ev := models.Event{
		Name: models.EventNewComplaint,
		Payload: models.EventPayload{
			UserID:      c.UserID,
			Category:    c.Category,
			Subcategory: c.Subcategory,
			Description: c.Description,
			CreatedAt:   c.CreatedAt,
		},
	}
	if err := s.publisher.PublishEvent(ev); err != nil {
		s.log.Error().Err(err).Str("complaint", c.ID).Msg("newComplaint broadcast failed")
	}

	if s.admin != nil {
		text := fmt.Sprintf("New complaint: %s / %s\n%s", c.Category, c.Subcategory, c.Description)
		s.enqueue("telegram", func() {
			if err := s.admin.Notify(text); err != nil {
				s.log.Error().Err(err).Str("complaint", c.ID).Msg("admin alert failed")
			}
		})
	}
}

// AnnounceStatusChanged broadcasts a complaintUpdated event unconditionally,
// then attempts a status email to the owner. The status update already
// committed to the store stays the authoritative outcome regardless of what
// happens here.
func (s *Service) AnnounceStatusChanged(c *models.Complaint) {
	ev := models.Event{
		Name: models.EventComplaintUpdated,
		Payload: models.EventPayload{
			ComplaintID: c.ID,
			Status:      c.Status,
		},
	}
	if err := s.publisher.PublishEvent(ev); err != nil {
		s.log.Error().Err(err).Str("complaint", c.ID).Msg("complaintUpdated broadcast failed")
	}

	if s.mailer != nil && c.Owner != nil && c.Owner.Email != "" {
		to := c.Owner.Email
		body := fmt.Sprintf(
			"Hello %s,\nYour complaint has been %s.\nThank you, Municipal Corporation Support Team",
			c.Owner.FirstName, c.Status,
		)
		s.enqueue("email", func() {
			if err := s.mailer.Send(to, statusMailSubject, body); err != nil {
				s.log.Error().Err(err).Str("complaint", c.ID).Msg("status email failed")
				return
			}
			s.log.Info().Str("to", to).Str("complaint", c.ID).Msg("status email sent")
		})
	}

	if s.admin != nil {
		text := fmt.Sprintf("Complaint %s moved to %s", c.ID, c.Status)
		s.enqueue("telegram", func() {
			if err := s.admin.Notify(text); err != nil {
				s.log.Error().Err(err).Str("complaint", c.ID).Msg("admin alert failed")
			}
		})
	}
}
