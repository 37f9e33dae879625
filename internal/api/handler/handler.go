// Package handler exposes the HTTP and websocket surface over gin.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"civictrack/backend/internal/complaint"
	"civictrack/backend/internal/livehub"
	"civictrack/backend/internal/storage"
)

// Handler bundles the services the routes dispatch into.
type Handler struct {
	Complaints *complaint.Service
	Storage    storage.Storage
	Hub        *livehub.Hub
	JWTSecret  []byte
	Log        zerolog.Logger
}

// NewHandler wires the HTTP layer.
func NewHandler(complaints *complaint.Service, s storage.Storage, hub *livehub.Hub, jwtSecret []byte, log zerolog.Logger) *Handler {
	return &Handler{
		Complaints: complaints,
		Storage:    s,
		Hub:        hub,
		JWTSecret:  jwtSecret,
		Log:        log,
	}
}

// Register mounts all routes on r. uploadDir is served statically so stored
// attachment references resolve.
func (h *Handler) Register(r *gin.Engine, uploadDir string) {
	r.Static("/uploads", uploadDir)

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", h.RegisterUser)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.POST("/admin-login", h.AdminLogin)
		auth.GET("/me", h.RequireSession(), h.Me)
		auth.GET("/users", h.RequireSession(), h.RequireAdmin(), h.ListUsers)
		auth.GET("/users/count", h.RequireSession(), h.RequireAdmin(), h.CountUsers)
	}

	complaints := r.Group("/api/complaints")
	{
		complaints.POST("", h.RequireSession(), h.CreateComplaint)
		complaints.GET("/user/:userId", h.ListUserComplaints)
		complaints.GET("/all", h.ListAllComplaints)
		complaints.PATCH("/status/:id", h.UpdateComplaintStatus)
	}

	r.GET("/ws", h.ServeWebSocket)

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Server is running successfully")
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Route not found"})
	})
}
