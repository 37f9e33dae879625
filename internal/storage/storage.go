package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"civictrack/backend/internal/apperr"
	"civictrack/backend/internal/models"
)

// Channel all live events travel through between the request path and the hub.
const eventsChannel = "civictrack:events"

// Storage is the persistence surface the rest of the application depends on.
type Storage interface {
	CreateComplaint(c *models.Complaint) error
	GetComplaintsByOwner(ownerID string) ([]models.Complaint, error)
	GetAllComplaints() ([]models.Complaint, error)
	GetComplaintByID(id string) (*models.Complaint, error)
	UpdateComplaintStatus(id, status string) (*models.Complaint, error)

	CreateUser(u *models.User) error
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	ListCitizens() ([]models.User, error)
	CountCitizens() (int64, error)

	PublishEvent(ev models.Event) error

	CreateSession(userID string) (string, error)
	GetSession(sid string) (string, error)
	DeleteSession(sid string) error
}

// Service implements Storage over PostgreSQL (records) and Redis (events,
// sessions).
type Service struct {
	DB         *gorm.DB
	Redis      *redis.Client
	Ctx        context.Context
	SessionTTL int64 // seconds
}

// NewService constructs the storage service.
func NewService(db *gorm.DB, rdb *redis.Client, sessionTTLSeconds int64) *Service {
	return &Service{
		DB:         db,
		Redis:      rdb,
		Ctx:        context.Background(),
		SessionTTL: sessionTTLSeconds,
	}
}

// CreateComplaint persists a new complaint. ID, timestamps and the default
// Pending status are assigned on the way in.
func (s *Service) CreateComplaint(c *models.Complaint) error {
	if err := s.DB.Create(c).Error; err != nil {
		return fmt.Errorf("create complaint: %w", err)
	}
	return nil
}

// GetComplaintsByOwner returns a user's complaints, newest first.
func (s *Service) GetComplaintsByOwner(ownerID string) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := s.DB.Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&complaints).Error
	if err != nil {
		return nil, fmt.Errorf("list complaints for user %s: %w", ownerID, err)
	}
	return complaints, nil
}

// GetAllComplaints returns every complaint, newest first, with the owner
// resolved for administrative display.
func (s *Service) GetAllComplaints() ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := s.DB.Preload("Owner").
		Order("created_at DESC").
		Find(&complaints).Error
	if err != nil {
		return nil, fmt.Errorf("list all complaints: %w", err)
	}
	return complaints, nil
}

// GetComplaintByID loads one complaint with its owner resolved.
func (s *Service) GetComplaintByID(id string) (*models.Complaint, error) {
	var c models.Complaint
	err := s.DB.Preload("Owner").Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("complaint %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get complaint %s: %w", id, err)
	}
	return &c, nil
}

// UpdateComplaintStatus atomically sets status and updated_at, then reloads
// the record with its owner attached. The status value is the caller's
// responsibility; the store never substitutes a default.
func (s *Service) UpdateComplaintStatus(id, status string) (*models.Complaint, error) {
	res := s.DB.Model(&models.Complaint{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return nil, fmt.Errorf("update complaint %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("complaint %s: %w", id, apperr.ErrNotFound)
	}
	return s.GetComplaintByID(id)
}

// CreateUser persists a new user.
func (s *Service) CreateUser(u *models.User) error {
	if err := s.DB.Create(u).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUserByID resolves a user id or reports not-found.
func (s *Service) GetUserByID(id string) (*models.User, error) {
	var u models.User
	err := s.DB.Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &u, nil
}

// GetUserByEmail resolves a login email or reports not-found.
func (s *Service) GetUserByEmail(email string) (*models.User, error) {
	var u models.User
	err := s.DB.Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %s: %w", email, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", email, err)
	}
	return &u, nil
}

// ListCitizens returns all citizen accounts, newest first.
func (s *Service) ListCitizens() ([]models.User, error) {
	var users []models.User
	err := s.DB.Where("role = ?", models.RoleCitizen).
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list citizens: %w", err)
	}
	return users, nil
}

// CountCitizens returns the number of citizen accounts.
func (s *Service) CountCitizens() (int64, error) {
	var count int64
	err := s.DB.Model(&models.User{}).
		Where("role = ?", models.RoleCitizen).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count citizens: %w", err)
	}
	return count, nil
}

// PublishEvent puts a live event on the Redis channel the hub listens to.
func (s *Service) PublishEvent(ev models.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", ev.Name, err)
	}
	if err := s.Redis.Publish(s.Ctx, eventsChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish event %s: %w", ev.Name, err)
	}
	return nil
}

// SubscribeEvents subscribes to the live event channel.
func (s *Service) SubscribeEvents() *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, eventsChannel)
}

// DecodeEvent parses a pub/sub payload back into an Event.
func DecodeEvent(data []byte) (models.Event, error) {
	var ev models.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return models.Event{}, fmt.Errorf("decode event: %w", err)
	}
	return ev, nil
}
