package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"civictrack/backend/internal/models"
)

const (
	sessionCookie = "ct_session"
	ctxUserKey    = "currentUser"
)

// CORS allows the configured frontend origin with credentials.
func CORS(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// RequireSession resolves the session cookie to a user and stores it on the
// context.
func (h *Handler) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(sessionCookie)
		if err != nil || sid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Not authenticated"})
			return
		}

		userID, err := h.Storage.GetSession(sid)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Not authenticated"})
			return
		}

		user, err := h.Storage.GetUserByID(userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"msg": "User not found"})
			return
		}

		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// RequireAdmin allows admin accounts and accounts holding the moderator
// grant past. Must run after RequireSession.
func (h *Handler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || (user.Role != models.RoleAdmin && !user.HasGrant(models.GrantModerator)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": "Admin access required"})
			return
		}
		c.Next()
	}
}

// currentUser returns the session user set by RequireSession, or nil.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
