package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq" // required for pq.StringArray
	"gorm.io/gorm"
)

// User roles. Citizens file complaints; admins review them.
const (
	RoleCitizen = "citizen"
	RoleAdmin   = "admin"
)

// GrantModerator lets a non-admin account review and update complaints.
const GrantModerator = "moderator"

// User represents a registered account. The notification layer reads Email
// and FirstName to compose status emails.
type User struct {
	ID        string         `gorm:"primaryKey" json:"id"`
	FirstName string         `gorm:"type:text;not null" json:"firstName"`
	LastName  string         `gorm:"type:text;not null" json:"lastName"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone     string         `gorm:"type:text" json:"phone"`
	Address   string         `gorm:"type:text" json:"address"`
	Password  string         `gorm:"not null" json:"-"`
	Role      string         `gorm:"type:text;not null;default:citizen" json:"role"`
	Grants    pq.StringArray `gorm:"type:text[]" json:"-"` // extra permissions beyond Role, e.g. GrantModerator
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// BeforeCreate is a GORM hook that assigns a UUID when the ID is not set.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// FullName combines first and last name for display.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsCitizen reports whether the user may file complaints.
func (u *User) IsCitizen() bool {
	return u.Role == RoleCitizen
}

// HasGrant reports whether the user carries the named extra permission.
func (u *User) HasGrant(grant string) bool {
	for _, g := range u.Grants {
		if g == grant {
			return true
		}
	}
	return false
}
