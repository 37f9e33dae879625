package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"civictrack/backend/internal/apperr"
)

const sessionPrefix = "session:"

// CreateSession stores an opaque session id for the user with a TTL.
func (s *Service) CreateSession(userID string) (string, error) {
	sid := uuid.New().String()
	ttl := time.Duration(s.SessionTTL) * time.Second
	if err := s.Redis.Set(s.Ctx, sessionPrefix+sid, userID, ttl).Err(); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return sid, nil
}

// GetSession resolves a session id to a user id.
func (s *Service) GetSession(sid string) (string, error) {
	userID, err := s.Redis.Get(s.Ctx, sessionPrefix+sid).Result()
	if errors.Is(err, redis.Nil) {
		return "", apperr.ErrUnauthenticated
	}
	if err != nil {
		return "", fmt.Errorf("get session: %w", err)
	}
	return userID, nil
}

// DeleteSession drops a session. Deleting an unknown id is a no-op.
func (s *Service) DeleteSession(sid string) error {
	if err := s.Redis.Del(s.Ctx, sessionPrefix+sid).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
