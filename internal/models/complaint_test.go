package models_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"civictrack/backend/internal/models"
)

func TestValidStatus(t *testing.T) {
	for _, status := range []string{
		models.StatusPending,
		models.StatusOngoing,
		models.StatusActionTakenSoon,
		models.StatusCompleted,
	} {
		assert.True(t, models.ValidStatus(status), status)
	}

	for _, status := range []string{"", "pending", "Archived", "Action taken soon", "Done"} {
		assert.False(t, models.ValidStatus(status), status)
	}
}

func TestComplaintBeforeCreate_AssignsIDAndDefaultStatus(t *testing.T) {
	c := &models.Complaint{
		UserID:      "U1",
		Category:    "Roads",
		Subcategory: "Pothole",
		Description: "Large pothole on Main St",
	}

	err := c.BeforeCreate(nil)

	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, c.Status)

	_, parseErr := uuid.Parse(c.ID)
	assert.NoError(t, parseErr, "complaint ID must be a valid UUID")
}

func TestComplaintBeforeCreate_PreservesExistingValues(t *testing.T) {
	existingID := uuid.New().String()
	c := &models.Complaint{ID: existingID, Status: models.StatusOngoing}

	err := c.BeforeCreate(nil)

	assert.NoError(t, err)
	assert.Equal(t, existingID, c.ID)
	assert.Equal(t, models.StatusOngoing, c.Status)
}

func TestComplaintBeforeCreate_GeneratesDistinctIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		c := &models.Complaint{UserID: "U1"}
		assert.NoError(t, c.BeforeCreate(nil))
		assert.False(t, seen[c.ID], "complaint IDs must be unique")
		seen[c.ID] = true
	}
}
