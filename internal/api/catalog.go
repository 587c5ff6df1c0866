package api

import (
	"net/http" // HTTP status codes
	"net/url"  // Cache key encoding
	"strconv"  // Query parsing
	"strings"  // String manipulation
	"time"     // Cache TTL

	"storefront/internal/domain"  // Importing domain models
	"storefront/internal/service" // Catalog operations
	"storefront/internal/utils"   // Cache helpers

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Exact money amounts
)

// costInput is a request cost that reports unparsable values as a cost field error
type costInput struct {
	decimal.Decimal
}

func (in *costInput) UnmarshalJSON(b []byte) error {
	if err := in.Decimal.UnmarshalJSON(b); err != nil {
		return domain.FieldError("cost", "cost must be a number")
	}
	return nil
}

// CreateProductRequest is the staff product creation body
type CreateProductRequest struct {
	Name        string     `json:"name" binding:"required"` // Display name
	Description string     `json:"description"`             // Optional description
	Category    string     `json:"category"`                // Free-text category
	Cost        *costInput `json:"cost" binding:"required"` // Unit cost, "20.00" or 20.00
	Stock       *int       `json:"stock"`                   // Omit to leave stock untracked
}

// UpdateProductRequest is the staff product edit body. Omitted fields keep their value.
type UpdateProductRequest struct {
	Name        *string    `json:"name"`        // Display name
	Description *string    `json:"description"` // Description
	Category    *string    `json:"category"`    // Free-text category
	Cost        *costInput `json:"cost"`        // Unit cost
	Active      *bool      `json:"active"`      // Listed in the catalog
}

// RestockRequest adds units to a product
type RestockRequest struct {
	Quantity int `json:"quantity"` // Units to add, at least 1
}

// ListProductsHandler returns active products filtered by search and category
func ListProductsHandler(catalog *service.Catalog, rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		search := strings.TrimSpace(c.Query("search"))
		category := strings.TrimSpace(c.Query("category"))
		cacheKey := catalogKey(url.Values{
			"search":   {domain.Fold(search)},
			"category": {domain.Fold(category)},
		})

		var cached []ProductResponse
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"products": cached, "cached": true})
			return
		}
		products, err := catalog.ListActive(ctx, search, category)
		if err != nil {
			respondError(c, err)
			return
		}
		resp := newProductResponses(products)
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, ttl)
		c.JSON(http.StatusOK, gin.H{"products": resp, "cached": false})
	}
}

// ListAllProductsHandler returns products for staff, inactive ones included unless active is given
func ListAllProductsHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := service.ProductFilter{
			Search:   c.Query("search"),
			Category: c.Query("category"),
		}
		if raw := c.Query("active"); raw != "" {
			active, err := strconv.ParseBool(raw)
			if err != nil {
				respondError(c, domain.FieldError("active", "active must be true or false"))
				return
			}
			filter.Active = &active
		}
		products, err := catalog.List(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": newProductResponses(products)})
	}
}

// GetProductHandler returns one product
func GetProductHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			respondError(c, err)
			return
		}
		product, err := catalog.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"product": newProductResponse(product)})
	}
}

// CreateProductHandler adds an active product to the catalog
func CreateProductHandler(catalog *service.Catalog, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateProductRequest
		if !bindJSON(c, &req) {
			return
		}
		product, err := catalog.Create(c.Request.Context(), service.NewProduct{
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
			Cost:        req.Cost.Decimal,
			Stock:       req.Stock,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		invalidate(c.Request.Context(), rdb, catalogPrefix)
		c.JSON(http.StatusCreated, gin.H{"product": newProductResponse(product)})
	}
}

// UpdateProductHandler edits a product, including its active flag
func UpdateProductHandler(catalog *service.Catalog, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			respondError(c, err)
			return
		}
		var req UpdateProductRequest
		if !bindJSON(c, &req) {
			return
		}
		patch := service.ProductPatch{
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
			Active:      req.Active,
		}
		if req.Cost != nil {
			patch.Cost = &req.Cost.Decimal
		}
		product, err := catalog.Update(c.Request.Context(), id, patch)
		if err != nil {
			respondError(c, err)
			return
		}
		invalidate(c.Request.Context(), rdb, catalogPrefix)
		c.JSON(http.StatusOK, gin.H{"product": newProductResponse(product)})
	}
}

// DeleteProductHandler removes a product no purchase references
func DeleteProductHandler(catalog *service.Catalog, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			respondError(c, err)
			return
		}
		if err := catalog.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		invalidate(c.Request.Context(), rdb, catalogPrefix)
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}

// RestockProductHandler adds units to a product's stock
func RestockProductHandler(catalog *service.Catalog, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "id")
		if err != nil {
			respondError(c, err)
			return
		}
		var req RestockRequest
		if !bindJSON(c, &req) {
			return
		}
		product, err := catalog.Restock(c.Request.Context(), id, req.Quantity)
		if err != nil {
			respondError(c, err)
			return
		}
		invalidate(c.Request.Context(), rdb, catalogPrefix)
		c.JSON(http.StatusOK, gin.H{"product": newProductResponse(product)})
	}
}
