package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"storefront/internal/utils" // JWT and cache utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client for the revocation list
	"github.com/sirupsen/logrus"   // Logging library
)

// Context keys set by JWTAuthMiddleware
const (
	UserIDKey = "userID"
	ClaimsKey = "claims"
)

// JWTAuthMiddleware validates bearer tokens and stores the caller's user ID in the context.
// rdb may be nil, in which case logout revocation is not checked.
func JWTAuthMiddleware(secret string, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string and parse it
		claims, err := utils.ParseJWT(tokenStr, secret)       // Parse the JWT token
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		revoked, err := utils.IsTokenRevoked(c.Request.Context(), rdb, claims.ID)
		if err != nil {
			// Redis being down must not lock every user out
			logrus.WithError(err).Warn("Token revocation check failed")
		}
		if revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has been revoked"})
			return
		}
		c.Set(UserIDKey, claims.UserID) // Store userID in context
		c.Set(ClaimsKey, claims)        // Store claims for logout
		c.Next()                        // Proceed to the next handler
	}
}

// UserID returns the authenticated caller's ID
func UserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// Claims returns the parsed token claims of the authenticated caller
func Claims(c *gin.Context) (*utils.Claims, bool) {
	v, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*utils.Claims)
	return claims, ok
}
