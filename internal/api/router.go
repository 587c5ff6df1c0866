package api

import (
	"net/http" // HTTP status codes

	"storefront/internal/config"     // Application configuration
	"storefront/internal/middleware" // Authentication and logging middleware
	"storefront/internal/service"    // Business operations

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// SetupRouter wires every route. rdb may be nil to run without caching or logout revocation.
func SetupRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	accounts := service.NewAccounts(db, cfg.JWTSecret, cfg.JWTTTL)
	catalog := service.NewCatalog(db)
	ledger := service.NewLedger(db)
	return newRouter(db, rdb, cfg, accounts, catalog, ledger)
}

func newRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config, accounts *service.Accounts, catalog *service.Catalog, ledger *service.Ledger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	r.GET("/healthz", HealthHandler(db))

	// Auth routes
	r.POST("/auth/register", RegisterHandler(accounts, rdb)) // Registration endpoint
	r.POST("/auth/login", LoginHandler(accounts))            // Login endpoint

	authenticated := middleware.JWTAuthMiddleware(cfg.JWTSecret, rdb)
	staffOnly := middleware.StaffOnlyMiddleware(db)

	r.POST("/auth/logout", authenticated, LogoutHandler(rdb))

	// Profile routes
	profile := r.Group("/profile", authenticated)
	profile.GET("", GetProfileHandler(accounts, ledger))
	profile.PUT("", UpdateProfileHandler(accounts, rdb))

	// Catalog routes, reads for every user and writes for staff
	products := r.Group("/products", authenticated)
	products.GET("", ListProductsHandler(catalog, rdb, cfg.CacheTTL))
	products.GET("/:id", GetProductHandler(catalog))
	products.POST("", staffOnly, CreateProductHandler(catalog, rdb))
	products.PATCH("/:id", staffOnly, UpdateProductHandler(catalog, rdb))
	products.DELETE("/:id", staffOnly, DeleteProductHandler(catalog, rdb))
	products.POST("/:id/restock", staffOnly, RestockProductHandler(catalog, rdb))

	// Purchase routes
	purchases := r.Group("/purchases", authenticated)
	purchases.POST("", CreatePurchaseHandler(ledger, rdb))
	purchases.GET("", PurchaseHistoryHandler(ledger, rdb, cfg.CacheTTL))

	// Admin routes (protected, staff only)
	admin := r.Group("/admin", authenticated, staffOnly)
	admin.GET("/users", ListUsersHandler(accounts, rdb, cfg.CacheTTL))
	admin.GET("/products", ListAllProductsHandler(catalog))
	admin.GET("/purchases", ListPurchasesHandler(ledger, rdb, cfg.CacheTTL))

	return r
}

// HealthHandler reports whether the database answers
func HealthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
