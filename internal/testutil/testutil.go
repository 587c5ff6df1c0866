// Package testutil builds throwaway databases and fixtures for package tests.
package testutil

import (
	"testing"

	"storefront/internal/db"
	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewDB opens a migrated in-memory SQLite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	gdb, err := db.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

// CreateUser inserts an account and its profile. The password is bcrypt-hashed at MinCost.
func CreateUser(t *testing.T, gdb *gorm.DB, username, password string, staff bool) domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := domain.User{Username: username, Email: username + "@example.com", Password: string(hash), IsStaff: staff}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("user: %v", err)
	}
	profile := domain.Profile{UserID: user.ID, Role: domain.RoleFor(staff), Email: user.Email}
	if err := gdb.Create(&profile).Error; err != nil {
		t.Fatalf("profile: %v", err)
	}
	user.Profile = profile
	return user
}

// CreateProduct inserts an active product. A negative stock means "not tracked".
func CreateProduct(t *testing.T, gdb *gorm.DB, name, category, cost string, stock int) domain.Product {
	t.Helper()
	p := domain.Product{Name: name, Category: category, Cost: decimal.RequireFromString(cost), Active: true}
	if stock >= 0 {
		p.Stock = &stock
	}
	if err := gdb.Create(&p).Error; err != nil {
		t.Fatalf("product: %v", err)
	}
	return p
}
