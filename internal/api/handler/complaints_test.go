package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"civictrack/backend/internal/api/handler"
	"civictrack/backend/internal/apperr"
	"civictrack/backend/internal/complaint"
	"civictrack/backend/internal/livehub"
	"civictrack/backend/internal/models"
	"civictrack/backend/internal/upload"
)

func newTestRouter(t *testing.T) (*gin.Engine, *MockStorage, *stubNotifier) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	storageMock := new(MockStorage)
	notifier := &stubNotifier{}

	uploads, err := upload.NewStore(t.TempDir(), 1024, zerolog.Nop())
	require.NoError(t, err)

	complaints := complaint.NewService(storageMock, uploads, notifier, zerolog.Nop())
	hub := livehub.NewHub(livehub.NewRegistry(), zerolog.Nop())
	h := handler.NewHandler(complaints, storageMock, hub, []byte("test-secret"), zerolog.Nop())

	r := gin.New()
	h.Register(r, t.TempDir())
	return r, storageMock, notifier
}

func sessionUser() *models.User {
	return &models.User{ID: "U1", FirstName: "Asha", Email: "asha@example.com", Role: models.RoleCitizen}
}

func withSession(req *http.Request) {
	req.AddCookie(&http.Cookie{Name: "ct_session", Value: "test-sid"})
}

func multipartBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestCreateComplaint_Success(t *testing.T) {
	r, storageMock, notifier := newTestRouter(t)

	storageMock.On("GetSession", "test-sid").Return("U1", nil)
	storageMock.On("GetUserByID", "U1").Return(sessionUser(), nil)
	storageMock.On("CreateComplaint", mock.AnythingOfType("*models.Complaint")).Return(nil)

	body, contentType := multipartBody(t, map[string]string{
		"category":    "Roads",
		"subcategory": "Pothole",
		"description": "Large pothole on Main St",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/complaints", body)
	req.Header.Set("Content-Type", contentType)
	withSession(req)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Msg       string           `json:"msg"`
		Complaint models.Complaint `json:"complaint"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Complaint submitted successfully", resp.Msg)
	assert.Equal(t, "U1", resp.Complaint.UserID)
	assert.Equal(t, models.StatusPending, resp.Complaint.Status)

	require.Len(t, notifier.created, 1)
	assert.Equal(t, "Roads", notifier.created[0].Category)
}

func TestCreateComplaint_MissingFields(t *testing.T) {
	r, storageMock, notifier := newTestRouter(t)

	storageMock.On("GetSession", "test-sid").Return("U1", nil)
	storageMock.On("GetUserByID", "U1").Return(sessionUser(), nil)

	body, contentType := multipartBody(t, map[string]string{"category": "Roads"})
	req := httptest.NewRequest(http.MethodPost, "/api/complaints", body)
	req.Header.Set("Content-Type", contentType)
	withSession(req)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "All fields are required")
	assert.Empty(t, notifier.created)
}

func TestCreateComplaint_RequiresSession(t *testing.T) {
	r, _, _ := newTestRouter(t)

	body, contentType := multipartBody(t, map[string]string{"category": "Roads"})
	req := httptest.NewRequest(http.MethodPost, "/api/complaints", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateComplaint_AdminForbidden(t *testing.T) {
	r, storageMock, _ := newTestRouter(t)

	admin := &models.User{ID: "A1", Role: models.RoleAdmin}
	storageMock.On("GetSession", "test-sid").Return("A1", nil)
	storageMock.On("GetUserByID", "A1").Return(admin, nil)

	body, contentType := multipartBody(t, map[string]string{
		"category":    "Roads",
		"subcategory": "Pothole",
		"description": "desc",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/complaints", body)
	req.Header.Set("Content-Type", contentType)
	withSession(req)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Only citizens can file complaints")
}

func TestListUserComplaints(t *testing.T) {
	r, storageMock, _ := newTestRouter(t)

	storageMock.On("GetComplaintsByOwner", "U1").Return([]models.Complaint{
		{ID: "C2", UserID: "U1", Status: models.StatusOngoing},
		{ID: "C1", UserID: "U1", Status: models.StatusPending},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/complaints/user/U1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got []models.Complaint
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "C2", got[0].ID, "newest first")
}

func TestUpdateComplaintStatus_Success(t *testing.T) {
	r, storageMock, notifier := newTestRouter(t)

	updated := &models.Complaint{
		ID:     "C1",
		UserID: "U1",
		Status: models.StatusCompleted,
		Owner:  sessionUser(),
	}
	storageMock.On("UpdateComplaintStatus", "C1", models.StatusCompleted).Return(updated, nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/complaints/status/C1",
		strings.NewReader(`{"status":"Completed"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got models.Complaint
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, models.StatusCompleted, got.Status)

	require.Len(t, notifier.statusMoved, 1)
	assert.Equal(t, "C1", notifier.statusMoved[0].ID)
}

func TestUpdateComplaintStatus_UnknownComplaint(t *testing.T) {
	r, storageMock, notifier := newTestRouter(t)

	storageMock.On("UpdateComplaintStatus", "doesnotexist", models.StatusOngoing).
		Return(nil, apperr.ErrNotFound)

	req := httptest.NewRequest(http.MethodPatch, "/api/complaints/status/doesnotexist",
		strings.NewReader(`{"status":"Ongoing"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Complaint not found")
	assert.Empty(t, notifier.statusMoved, "no broadcast for a failed update")
}

func TestUpdateComplaintStatus_InvalidStatus(t *testing.T) {
	r, storageMock, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPatch, "/api/complaints/status/C1",
		strings.NewReader(`{"status":"Archived"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	storageMock.AssertNotCalled(t, "UpdateComplaintStatus", mock.Anything, mock.Anything)
}

func TestUpdateComplaintStatus_MissingBody(t *testing.T) {
	r, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPatch, "/api/complaints/status/C1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Status is required")
}
