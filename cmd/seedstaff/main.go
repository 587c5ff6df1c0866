// Command seedstaff creates a staff account, or promotes an existing one.
//
//	seedstaff -username admin -email admin@example.com -password secret
package main

import (
	"context" // Context for service calls
	"errors"  // Error matching
	"flag"    // Command line flags
	"strings" // Username normalization

	"storefront/internal/config"  // Custom import path (Config)
	"storefront/internal/db"      // Custom import path (Database)
	"storefront/internal/domain"  // Importing domain models
	"storefront/internal/service" // Account operations

	"github.com/sirupsen/logrus" // Logrus for structured logging
	"gorm.io/gorm"               // GORM ORM library
)

func main() {
	username := flag.String("username", "admin", "staff username")
	email := flag.String("email", "", "staff email, required when creating the account")
	password := flag.String("password", "", "staff password, required when creating the account")
	flag.Parse()

	cfg := config.LoadConfig()
	database, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}

	ctx := context.Background()
	accounts := service.NewAccounts(database, cfg.JWTSecret, cfg.JWTTTL)

	var user domain.User
	err = database.WithContext(ctx).Where("username = ?", strings.ToLower(strings.TrimSpace(*username))).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		created, err := accounts.Register(ctx, service.Registration{
			Username:        *username,
			Email:           *email,
			Password:        *password,
			ConfirmPassword: *password,
		})
		if err != nil {
			logrus.Fatalf("failed to create staff account: %v", err)
		}
		user = *created
	case err != nil:
		logrus.Fatalf("failed to look up %q: %v", *username, err)
	}

	if err := accounts.SetStaff(ctx, user.ID, true); err != nil {
		logrus.Fatalf("failed to grant staff: %v", err)
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("Staff account ready")
}
