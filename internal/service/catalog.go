package service

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NewProduct is the input for Catalog.Create. A nil Stock leaves inventory untracked.
type NewProduct struct {
	Name        string
	Description string
	Category    string
	Cost        decimal.Decimal
	Stock       *int
}

// Catalog stores and filters products.
type Catalog struct {
	db *gorm.DB
}

func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a case-folded LIKE pattern matching term anywhere.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(domain.Fold(term)) + "%"
}

// ProductFilter narrows a catalog listing. Empty strings and a nil Active match everything.
type ProductFilter struct {
	Search   string
	Category string
	Active   *bool
}

// List returns products matching f in creation order. Name and category match
// as case-insensitive substrings against the folded search columns.
func (s *Catalog) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	query := s.db.WithContext(ctx)
	if f.Active != nil {
		query = query.Where("active = ?", *f.Active)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		query = query.Where("name_folded LIKE ? ESCAPE '!'", containsPattern(search)) // Folded in Go, so matching is driver independent
	}
	if category := strings.TrimSpace(f.Category); category != "" {
		query = query.Where("category_folded LIKE ? ESCAPE '!'", containsPattern(category))
	}
	products := []domain.Product{} // Empty, not nil, when nothing matches
	if err := query.Order("id asc").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListActive returns active products whose name contains search and whose
// category contains category, both case-insensitively. Empty filters match all.
func (s *Catalog) ListActive(ctx context.Context, search, category string) ([]domain.Product, error) {
	active := true
	return s.List(ctx, ProductFilter{Search: search, Category: category, Active: &active})
}

// Get returns one product, active or not.
func (s *Catalog) Get(ctx context.Context, id uint) (*domain.Product, error) {
	var product domain.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// Create validates and stores a new, active product.
func (s *Catalog) Create(ctx context.Context, in NewProduct) (*domain.Product, error) {
	product := domain.Product{
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Cost:        in.Cost,
		Stock:       in.Stock, // nil leaves stock untracked
		Active:      true,     // New products are listed immediately
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"product_id": product.ID,
		"name":       product.Name,
		"cost":       product.Cost.StringFixed(2),
	}).Info("Product created")
	return &product, nil
}

// Delete removes a product that no purchase references.
func (s *Catalog) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product domain.Product
		if err := tx.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		var refs int64 // Purchases pointing at the product
		if err := tx.Model(&domain.Purchase{}).Where("product_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return domain.ErrProductInUse // Ledger rows must keep their product
		}
		if err := tx.Delete(&product).Error; err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{"product_id": id}).Info("Product deleted")
		return nil
	})
}

// ProductPatch is a partial product edit. Nil fields are left unchanged.
type ProductPatch struct {
	Name        *string
	Description *string
	Category    *string
	Cost        *decimal.Decimal
	Active      *bool
}

// Update applies patch and re-validates the whole product before writing it.
// Stock is changed only through Restock and purchases.
func (s *Catalog) Update(ctx context.Context, id uint, patch ProductPatch) (*domain.Product, error) {
	var product domain.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if patch.Name != nil {
			product.Name = *patch.Name
		}
		if patch.Description != nil {
			product.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.Category != nil {
			product.Category = *patch.Category
		}
		if patch.Cost != nil {
			product.Cost = *patch.Cost
		}
		if patch.Active != nil {
			product.Active = *patch.Active
		}
		if err := product.Validate(); err != nil {
			return err
		}
		// Select writes zero values too, so Active can be switched off
		return tx.Model(&product).
			Select("name", "name_folded", "description", "category", "category_folded", "cost", "active").
			Updates(&product).Error
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"product_id": product.ID,
		"active":     product.Active,
		"cost":       product.Cost.StringFixed(2),
	}).Info("Product updated")
	return &product, nil
}

// Restock adds quantity units to a product's stock, starting tracking if needed.
func (s *Catalog) Restock(ctx context.Context, id uint, quantity int) (*domain.Product, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	res := s.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("COALESCE(stock, 0) + ?", quantity)) // Untracked stock starts from 0
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrNotFound // No such product
	}
	product, err := s.Get(ctx, id) // Reload the new stock
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"product_id": id,
		"added":      quantity,
		"stock":      *product.Stock,
	}).Info("Product restocked")
	return product, nil
}
