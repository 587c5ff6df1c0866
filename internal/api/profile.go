package api

import (
	"net/http" // HTTP status codes

	"storefront/internal/middleware" // Caller identity helpers
	"storefront/internal/service"    // Account and ledger operations

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// UpdateProfileRequest is the profile edit body
type UpdateProfileRequest struct {
	Address *string `json:"address"`                        // Postal address, null clears it
	Email   string  `json:"email" binding:"required,email"` // New account email
}

// GetProfileHandler returns the caller's profile and purchase history
func GetProfileHandler(accounts *service.Accounts, ledger *service.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.UserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx := c.Request.Context()
		user, err := accounts.CurrentAccount(ctx, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		purchases, err := ledger.History(ctx, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"profile":   newProfileResponse(user),
			"purchases": newPurchaseResponses(purchases),
		})
	}
}

// UpdateProfileHandler edits the caller's address and email
func UpdateProfileHandler(accounts *service.Accounts, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.UserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req UpdateProfileRequest
		if !bindJSON(c, &req) {
			return
		}
		user, err := accounts.UpdateProfile(c.Request.Context(), userID, service.ProfileUpdate{
			Address: req.Address,
			Email:   req.Email,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		invalidate(c.Request.Context(), rdb, adminUsersPrefix)
		c.JSON(http.StatusOK, gin.H{"profile": newProfileResponse(user)})
	}
}
