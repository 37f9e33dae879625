package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"civictrack/backend/internal/livehub"
	"civictrack/backend/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients come from the configured frontend; the session token is
	// the actual gate.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket authenticates a socket token and upgrades the connection.
// The connection receives broadcasts as soon as it attaches; sending
// registerUser additionally records it in the presence registry for direct
// delivery.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}
	if tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Authorization token missing"})
		return
	}

	userID, err := h.validateSocketToken(tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Invalid token or expired"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already replied to the client on failure.
		h.Log.Error().Err(err).Str("user", userID).Msg("websocket upgrade failed")
		return
	}

	client := &livehub.WebSocketClient{
		ID:   userID,
		Conn: conn,
		Hub:  h.Hub,
		Send: make(chan models.Event, 256),
		Log:  h.Log,
	}
	client.Run()
}
