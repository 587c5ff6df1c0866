package api

import (
	"net/http" // HTTP status codes

	"storefront/internal/middleware" // Caller identity helpers
	"storefront/internal/service"    // Account operations
	"storefront/internal/utils"      // Token revocation

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// RegisterRequest is the sign-up body
type RegisterRequest struct {
	Username        string `json:"username" binding:"required,max=150"` // Username must be provided
	Email           string `json:"email" binding:"required,email"`      // Valid email must be provided
	Password        string `json:"password" binding:"required"`         // Password must be provided
	ConfirmPassword string `json:"confirm_password"`                    // Must equal Password
}

// LoginRequest is the credentials body
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// AuthResponse carries the issued bearer token
type AuthResponse struct {
	Token string `json:"token"` // JWT token
}

// RegisterHandler creates an account with a customer profile
func RegisterHandler(accounts *service.Accounts, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if !bindJSON(c, &req) {
			return
		}
		user, err := accounts.Register(c.Request.Context(), service.Registration{
			Username:        req.Username,
			Email:           req.Email,
			Password:        req.Password,
			ConfirmPassword: req.ConfirmPassword,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		invalidate(c.Request.Context(), rdb, adminUsersPrefix) // Staff user listing is stale
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "user": newProfileResponse(user)})
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(accounts *service.Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if !bindJSON(c, &req) {
			return
		}
		token, err := accounts.Authenticate(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, AuthResponse{Token: token})
	}
}

// LogoutHandler revokes the caller's token until it expires
func LogoutHandler(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.Claims(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if rdb == nil {
			logrus.WithField("user_id", claims.UserID).Warn("Logout without Redis, token stays valid until expiry")
		}
		if claims.ExpiresAt == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		if err := utils.RevokeToken(c.Request.Context(), rdb, claims.ID, claims.ExpiresAt.Time); err != nil {
			respondError(c, err)
			return
		}
		logrus.WithFields(logrus.Fields{"user_id": claims.UserID}).Info("User logged out")
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}
