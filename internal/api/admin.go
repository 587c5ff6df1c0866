package api

import (
	"net/http" // HTTP status codes
	"net/url"  // Cache key encoding
	"strconv"  // Key formatting
	"time"     // Date filters and cache TTL

	"storefront/internal/domain"  // Importing domain models
	"storefront/internal/service" // Account and ledger operations
	"storefront/internal/utils"   // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// UserAdminResponse represents the user data returned to staff
type UserAdminResponse struct {
	ID       uint    `json:"id"`       // User ID
	Username string  `json:"username"` // Username
	Email    string  `json:"email"`    // Account email
	IsStaff  bool    `json:"is_staff"` // Staff flag
	Role     string  `json:"role"`     // Profile role
	Address  *string `json:"address"`  // Profile address
}

// usersPage is the cached body of ListUsersHandler
type usersPage struct {
	Users      []UserAdminResponse `json:"users"`       // List of users
	Page       int                 `json:"page"`        // Current page
	PageSize   int                 `json:"page_size"`   // Page size
	Total      int64               `json:"total"`       // Total number of users
	TotalPages int                 `json:"total_pages"` // Total pages
}

// purchasesPage is the cached body of ListPurchasesHandler
type purchasesPage struct {
	Purchases  []PurchaseResponse `json:"purchases"`   // List of purchases
	Page       int                `json:"page"`        // Current page
	PageSize   int                `json:"page_size"`   // Page size
	Total      int64              `json:"total"`       // Total number of purchases
	TotalPages int                `json:"total_pages"` // Total pages
}

// ListUsersHandler returns all users with their profile, paginated
func ListUsersHandler(accounts *service.Accounts, rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		page, pageSize := pagination(c)
		cacheKey := adminUsersPrefix + "page=" + strconv.Itoa(page) + ":size=" + strconv.Itoa(pageSize)

		var cached usersPage
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"users":       cached.Users,
				"page":        cached.Page,
				"page_size":   cached.PageSize,
				"total":       cached.Total,
				"total_pages": cached.TotalPages,
				"cached":      true, // Indicate response is from cache
			})
			return
		}
		users, total, err := accounts.ListUsers(ctx, page, pageSize)
		if err != nil {
			respondError(c, err)
			return
		}
		resp := usersPage{
			Users:      make([]UserAdminResponse, len(users)),
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages(total, pageSize),
		}
		for i, u := range users {
			resp.Users[i] = UserAdminResponse{
				ID:       u.ID,
				Username: u.Username,
				Email:    u.Email,
				IsStaff:  u.IsStaff,
				Role:     domain.RoleFor(u.IsStaff),
				Address:  u.Profile.Address,
			}
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, ttl)
		c.JSON(http.StatusOK, gin.H{
			"users":       resp.Users,
			"page":        resp.Page,
			"page_size":   resp.PageSize,
			"total":       resp.Total,
			"total_pages": resp.TotalPages,
			"cached":      false, // Indicate response is not from cache
		})
	}
}

// parseDate accepts RFC 3339 timestamps or plain dates. A plain "to" date covers the whole day.
func parseDate(raw string, endOfDay bool) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, false
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, true
}

// ListPurchasesHandler returns all purchases, optionally filtered by user, product or date range
func ListPurchasesHandler(ledger *service.Ledger, rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		page, pageSize := pagination(c)
		filter := service.PurchaseFilter{Page: page, PageSize: pageSize}

		verr := domain.NewValidationError()
		var err error
		if filter.UserID, err = queryID(c, "user_id"); err != nil {
			verr.Add("user_id", "user_id must be a positive integer")
		}
		if filter.ProductID, err = queryID(c, "product_id"); err != nil {
			verr.Add("product_id", "product_id must be a positive integer")
		}
		if raw := c.Query("from"); raw != "" {
			var ok bool
			if filter.From, ok = parseDate(raw, false); !ok {
				verr.Add("from", "from must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
			}
		}
		if raw := c.Query("to"); raw != "" {
			var ok bool
			if filter.To, ok = parseDate(raw, true); !ok {
				verr.Add("to", "to must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
			}
		}
		if err := verr.Err(); err != nil {
			respondError(c, err)
			return
		}

		// Build cache key from all query params
		keyParts := url.Values{}
		for _, k := range []string{"user_id", "product_id", "from", "to"} {
			keyParts.Set(k, c.Query(k))
		}
		keyParts.Set("page", strconv.Itoa(page))
		keyParts.Set("page_size", strconv.Itoa(pageSize))
		cacheKey := adminPurchasesKey(keyParts)

		var cached purchasesPage
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"purchases":   cached.Purchases,
				"page":        cached.Page,
				"page_size":   cached.PageSize,
				"total":       cached.Total,
				"total_pages": cached.TotalPages,
				"cached":      true,
			})
			return
		}
		purchases, total, err := ledger.List(ctx, filter)
		if err != nil {
			respondError(c, err)
			return
		}
		resp := purchasesPage{
			Purchases:  newPurchaseResponses(purchases),
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages(total, pageSize),
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, ttl)
		c.JSON(http.StatusOK, gin.H{
			"purchases":   resp.Purchases,
			"page":        resp.Page,
			"page_size":   resp.PageSize,
			"total":       resp.Total,
			"total_pages": resp.TotalPages,
			"cached":      false,
		})
	}
}
