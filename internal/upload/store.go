// Package upload stores complaint attachments on disk and hands back the
// reference path they are later served from.
package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"civictrack/backend/internal/apperr"
)

// allowedExtensions is the baseline allow-list for attachments.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// Store writes attachments under Dir. Names are timestamp-prefixed and
// suffixed with a UUID so concurrent uploads of the same original name never
// collide.
type Store struct {
	Dir     string
	MaxSize int64
	log     zerolog.Logger
}

// NewStore creates the upload directory if needed.
func NewStore(dir string, maxSize int64, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &Store{Dir: dir, MaxSize: maxSize, log: log}, nil
}

// Save streams src to disk and returns the reference path, e.g.
// "uploads/1712345678901-3f2a....pdf". Files with a disallowed extension or
// exceeding MaxSize are rejected with a validation error.
func (s *Store) Save(src io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("file type %q not allowed: %w", ext, apperr.ErrValidation)
	}

	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.New().String(), ext)
	dst := filepath.Join(s.Dir, name)

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create attachment file: %w", err)
	}
	defer f.Close()

	// Copy one byte past the cap so an oversized file is detectable.
	n, err := io.Copy(f, io.LimitReader(src, s.MaxSize+1))
	if err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("write attachment: %w", err)
	}
	if n > s.MaxSize {
		os.Remove(dst)
		return "", fmt.Errorf("file exceeds %d bytes: %w", s.MaxSize, apperr.ErrValidation)
	}

	s.log.Debug().Str("file", name).Int64("bytes", n).Msg("attachment stored")
	return filepath.ToSlash(dst), nil
}
