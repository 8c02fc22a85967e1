package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/securecomm/backend/models"
	"github.com/securecomm/backend/session"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login handles user authentication. The polling coordinator only runs
// while someone is signed in, so every login kicks it if it is not running
// yet.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, token, err := sessions.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	// Start is a no-op when the coordinator is already loading or running,
	// so every login may kick it unconditionally; a count check here would
	// race with concurrent logins.
	go func() {
		if err := poll.Start(context.Background()); err != nil {
			logger.Error("initial load failed", zap.Error(err))
		}
	}()

	logger.Info("user logged in", zap.String("username", user.Username), zap.String("role", string(user.Role)))
	c.JSON(http.StatusOK, AuthResponse{Token: token, User: user})
}

// Logout invalidates the caller's token; when the last session ends the
// polling coordinator is stopped so no fetch outlives the dashboard.
func Logout(c *gin.Context) {
	token := c.GetString("token")
	sessions.Logout(token)

	if sessions.ActiveCount() == 0 {
		go poll.Stop()
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// Me returns the authenticated user
func Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// AuthMiddleware protects routes with bearer-token auth
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		user, ok := sessions.Validate(parts[1])
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("token", parts[1])
		c.Next()
	}
}

func currentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get("user")
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}
