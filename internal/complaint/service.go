// Package complaint implements the complaint lifecycle: filing, listing, and
// status updates, with validation and role checks ahead of any side effect.
package complaint

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"civictrack/backend/internal/apperr"
	"civictrack/backend/internal/models"
	"civictrack/backend/internal/storage"
)

// Uploads stores one attachment and returns its reference path.
type Uploads interface {
	Save(src io.Reader, originalName string) (string, error)
}

// Notifier receives complaint state changes after they have been committed.
type Notifier interface {
	AnnounceCreated(c *models.Complaint)
	AnnounceStatusChanged(c *models.Complaint)
}

// Attachment is an optional uploaded file accompanying a new complaint.
type Attachment struct {
	Reader io.Reader
	Name   string
}

// Service orchestrates complaint operations against the store, the upload
// handler, and the notification fan-out.
type Service struct {
	Storage  storage.Storage
	Uploads  Uploads
	Notifier Notifier
	Log      zerolog.Logger
}

// NewService creates the lifecycle controller.
func NewService(s storage.Storage, uploads Uploads, notifier Notifier, log zerolog.Logger) *Service {
	return &Service{Storage: s, Uploads: uploads, Notifier: notifier, Log: log}
}

// File validates and persists a new complaint for ownerID, then announces it.
// Only citizens may file; category, subcategory and description must be
// non-empty after trimming.
func (s *Service) File(ownerID, category, subcategory, description string, file *Attachment) (*models.Complaint, error) {
	category = strings.TrimSpace(category)
	subcategory = strings.TrimSpace(subcategory)
	description = strings.TrimSpace(description)
	if category == "" || subcategory == "" || description == "" {
		return nil, fmt.Errorf("category, subcategory and description are required: %w", apperr.ErrValidation)
	}

	owner, err := s.Storage.GetUserByID(ownerID)
	if err != nil {
		return nil, err
	}
	if !owner.IsCitizen() {
		return nil, fmt.Errorf("only citizens can file complaints: %w", apperr.ErrForbidden)
	}

	c := &models.Complaint{
		UserID:      ownerID,
		Category:    category,
		Subcategory: subcategory,
		Description: description,
		Status:      models.StatusPending,
	}

	if file != nil {
		ref, err := s.Uploads.Save(file.Reader, file.Name)
		if err != nil {
			return nil, err
		}
		c.FileURL = ref
	}

	if err := s.Storage.CreateComplaint(c); err != nil {
		return nil, err
	}

	s.Notifier.AnnounceCreated(c)
	s.Log.Info().Str("complaint", c.ID).Str("user", ownerID).Msg("complaint filed")
	return c, nil
}

// ListByOwner returns one user's complaints, newest first.
func (s *Service) ListByOwner(ownerID string) ([]models.Complaint, error) {
	return s.Storage.GetComplaintsByOwner(ownerID)
}

// ListAll returns every complaint with owner summaries, newest first.
func (s *Service) ListAll() ([]models.Complaint, error) {
	return s.Storage.GetAllComplaints()
}

// SetStatus moves a complaint to one of the four statuses and announces the
// change. Any status may be set from any other; transitions are not ordered.
func (s *Service) SetStatus(id, status string) (*models.Complaint, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("complaint id is required: %w", apperr.ErrValidation)
	}
	if status == "" {
		return nil, fmt.Errorf("status is required: %w", apperr.ErrValidation)
	}
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("unknown status %q: %w", status, apperr.ErrValidation)
	}

	c, err := s.Storage.UpdateComplaintStatus(id, status)
	if err != nil {
		return nil, err
	}

	s.Notifier.AnnounceStatusChanged(c)
	s.Log.Info().Str("complaint", c.ID).Str("status", status).Msg("complaint status updated")
	return c, nil
}
