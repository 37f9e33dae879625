package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"civictrack/backend/internal/apperr"
	"civictrack/backend/internal/models"
)

const (
	socketTokenTTL   = 72 * time.Hour
	sessionCookieTTL = 24 * time.Hour
)

type registerRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required"`
	Address   string `json:"address" binding:"required"`
	Password  string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// generateSocketToken issues the JWT the websocket endpoint accepts.
func (h *Handler) generateSocketToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(socketTokenTTL).Unix(),
		"iss":     "civictrack-service",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.JWTSecret)
}

// validateSocketToken returns the user id baked into a socket token.
func (h *Handler) validateSocketToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return h.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return "", apperr.ErrUnauthenticated
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", apperr.ErrUnauthenticated
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", apperr.ErrUnauthenticated
	}
	return userID, nil
}

// RegisterUser creates a citizen account.
func (h *Handler) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "All fields are required"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error().Err(err).Msg("password hashing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}

	user := &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     req.Phone,
		Address:   req.Address,
		Password:  string(hashed),
		Role:      models.RoleCitizen,
	}
	if err := h.Storage.CreateUser(user); err != nil {
		h.Log.Error().Err(err).Msg("user registration failed")
		c.JSON(http.StatusConflict, gin.H{"msg": "Email already registered"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"msg": "Registered successfully", "user": user})
}

// Login authenticates a citizen and opens a session.
func (h *Handler) Login(c *gin.Context) {
	h.login(c, models.RoleCitizen)
}

// AdminLogin authenticates an admin and opens a session.
func (h *Handler) AdminLogin(c *gin.Context) {
	h.login(c, models.RoleAdmin)
}

func (h *Handler) login(c *gin.Context, role string) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Email and password are required"})
		return
	}

	user, err := h.Storage.GetUserByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Invalid credentials"})
		return
	}
	if user.Role != role {
		c.JSON(http.StatusForbidden, gin.H{"msg": "Wrong login for this account"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Invalid credentials"})
		return
	}

	sid, err := h.Storage.CreateSession(user.ID)
	if err != nil {
		h.Log.Error().Err(err).Msg("session creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}

	socketToken, err := h.generateSocketToken(user.ID)
	if err != nil {
		h.Log.Error().Err(err).Msg("socket token signing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}

	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(sessionCookie, sid, int(sessionCookieTTL.Seconds()), "/", "", true, true)
	c.JSON(http.StatusOK, gin.H{"user": user, "token": socketToken})
}

// Logout drops the session, if any.
func (h *Handler) Logout(c *gin.Context) {
	if sid, err := c.Cookie(sessionCookie); err == nil && sid != "" {
		if err := h.Storage.DeleteSession(sid); err != nil {
			h.Log.Error().Err(err).Msg("session delete failed")
		}
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", true, true)
	c.JSON(http.StatusOK, gin.H{"msg": "Logged out"})
}

// Me returns the current session's user.
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": currentUser(c)})
}

// ListUsers returns all citizen accounts. Admin only.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Storage.ListCitizens()
	if err != nil {
		h.Log.Error().Err(err).Msg("listing users failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// CountUsers returns the citizen account count. Admin only.
func (h *Handler) CountUsers(c *gin.Context) {
	count, err := h.Storage.CountCitizens()
	if err != nil {
		h.Log.Error().Err(err).Msg("counting users failed")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}
