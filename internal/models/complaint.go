package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Complaint statuses. The wire values match what the admin dashboard and
// notification emails show, spaces included.
const (
	StatusPending         = "Pending"
	StatusOngoing         = "Ongoing"
	StatusActionTakenSoon = "Action Taken Soon"
	StatusCompleted       = "Completed"
)

// ValidStatus reports whether s is one of the four complaint statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusOngoing, StatusActionTakenSoon, StatusCompleted:
		return true
	}
	return false
}

// Complaint is one citizen-filed issue. Owner is resolved from UserID for
// administrative listings and status notifications.
type Complaint struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"type:text;not null;index" json:"userId"`
	Owner       *User     `gorm:"foreignKey:UserID" json:"owner,omitempty"`
	Category    string    `gorm:"type:text;not null" json:"category"`
	Subcategory string    `gorm:"type:text;not null" json:"subcategory"`
	Description string    `gorm:"type:text;not null" json:"description"`
	FileURL     string    `gorm:"type:text" json:"fileUrl,omitempty"`
	Status      string    `gorm:"type:text;not null;default:Pending" json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a UUID and the default status.
func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = StatusPending
	}
	return
}
