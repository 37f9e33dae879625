package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"civictrack/backend/internal/apperr"
	"civictrack/backend/internal/complaint"
)

type statusRequest struct {
	Status string `json:"status"`
}

// CreateComplaint files a new complaint for the session user. Multipart form:
// category, subcategory, description, optional file.
func (h *Handler) CreateComplaint(c *gin.Context) {
	user := currentUser(c)

	var attachment *complaint.Attachment
	if fh, err := c.FormFile("file"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			h.Log.Error().Err(err).Msg("opening uploaded file failed")
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error while creating complaint"})
			return
		}
		defer f.Close()
		attachment = &complaint.Attachment{Reader: f, Name: fh.Filename}
	}

	created, err := h.Complaints.File(
		user.ID,
		c.PostForm("category"),
		c.PostForm("subcategory"),
		c.PostForm("description"),
		attachment,
	)
	if err != nil {
		switch apperr.Status(err) {
		case http.StatusBadRequest:
			c.JSON(http.StatusBadRequest, gin.H{"msg": "All fields are required"})
		case http.StatusForbidden:
			c.JSON(http.StatusForbidden, gin.H{"msg": "Only citizens can file complaints"})
		default:
			h.Log.Error().Err(err).Msg("creating complaint failed")
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error while creating complaint"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"msg": "Complaint submitted successfully", "complaint": created})
}

// ListUserComplaints returns one user's complaints, newest first.
func (h *Handler) ListUserComplaints(c *gin.Context) {
	complaints, err := h.Complaints.ListByOwner(c.Param("userId"))
	if err != nil {
		h.Log.Error().Err(err).Msg("fetching user complaints failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error while fetching complaints"})
		return
	}
	c.JSON(http.StatusOK, complaints)
}

// ListAllComplaints returns every complaint with owner summaries.
func (h *Handler) ListAllComplaints(c *gin.Context) {
	complaints, err := h.Complaints.ListAll()
	if err != nil {
		h.Log.Error().Err(err).Msg("fetching all complaints failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error while fetching all complaints"})
		return
	}
	c.JSON(http.StatusOK, complaints)
}

// UpdateComplaintStatus sets a complaint's status and returns the updated
// record. The fan-out (broadcast, email) happens after the committed write
// and never affects this response.
func (h *Handler) UpdateComplaintStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Status is required"})
		return
	}

	updated, err := h.Complaints.SetStatus(c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"msg": "A valid status is required"})
		case errors.Is(err, apperr.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"msg": "Complaint not found"})
		default:
			h.Log.Error().Err(err).Msg("updating complaint status failed")
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error while updating status"})
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}
