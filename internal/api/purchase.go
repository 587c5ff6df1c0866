package api

import (
	"net/http" // HTTP status codes
	"time"     // Cache TTL

	"storefront/internal/middleware" // Caller identity helpers
	"storefront/internal/service"    // Ledger operations
	"storefront/internal/utils"      // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// PurchaseRequest buys quantity units of one product
type PurchaseRequest struct {
	ProductID uint `json:"product_id" binding:"required"` // Product to buy
	Quantity  int  `json:"quantity"`                      // Units, at least 1
}

// CreatePurchaseHandler records a purchase for the caller at the current price
func CreatePurchaseHandler(ledger *service.Ledger, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.UserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req PurchaseRequest
		if !bindJSON(c, &req) {
			return
		}
		purchase, err := ledger.Purchase(c.Request.Context(), userID, req.ProductID, req.Quantity)
		if err != nil {
			respondError(c, err)
			return
		}
		// History, listings and stock counts all changed
		_ = utils.DeleteCache(c.Request.Context(), rdb, historyKey(userID))
		invalidate(c.Request.Context(), rdb, catalogPrefix, adminPurchasesPrefix)
		c.JSON(http.StatusCreated, gin.H{"purchase": newPurchaseResponse(purchase)})
	}
}

// PurchaseHistoryHandler returns the caller's purchases, newest first
func PurchaseHistoryHandler(ledger *service.Ledger, rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.UserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx := c.Request.Context()
		cacheKey := historyKey(userID)

		var cached []PurchaseResponse
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"purchases": cached, "cached": true})
			return
		}
		purchases, err := ledger.History(ctx, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		resp := newPurchaseResponses(purchases)
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, ttl)
		c.JSON(http.StatusOK, gin.H{"purchases": resp, "cached": false})
	}
}
