package service

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger records purchases. A purchase is either committed with its stock
// decrement or not written at all.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Purchase snapshots the product's current cost, checks and decrements
// tracked stock, and inserts the purchase, all in one transaction.
func (l *Ledger) Purchase(ctx context.Context, buyerID, productID uint, quantity int) (*domain.Purchase, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	var purchase domain.Purchase
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the product row so the price read and the stock check see the same version
		var product domain.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		if product.TracksStock() {
			if *product.Stock < quantity {
				return domain.ErrInsufficientStock // Return error to rollback
			}
			// The guard in the WHERE clause keeps stores without row locks from overselling
			res := tx.Model(&domain.Product{}).
				Where("id = ? AND stock >= ?", product.ID, quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return domain.ErrInsufficientStock // Another buyer took the units
			}
		}

		purchase = domain.Purchase{
			UserID:    buyerID,
			ProductID: product.ID,
			Quantity:  quantity,
			UnitPrice: product.Cost, // Price snapshot, never re-read from the product
		}
		if err := purchase.Prepare(); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&purchase).Error; err != nil {
			return err // Return error to rollback
		}
		purchase.Product = product // Returned to the caller, not written
		return nil                 // Commit transaction
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id":    buyerID,
			"product_id": productID,
			"quantity":   quantity,
			"error":      err.Error(),
		}).Warn("Purchase rejected")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"purchase_id": purchase.ID,
		"user_id":     buyerID,
		"product_id":  productID,
		"quantity":    quantity,
		"unit_price":  purchase.UnitPrice.StringFixed(2),
		"total":       purchase.Total.StringFixed(2),
	}).Info("Purchase recorded")
	return &purchase, nil
}

// History returns the buyer's purchases, newest first.
func (l *Ledger) History(ctx context.Context, buyerID uint) ([]domain.Purchase, error) {
	purchases := []domain.Purchase{} // Empty, not nil, for buyers with no purchases
	err := l.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", buyerID).
		Order("created_at desc, id desc").
		Find(&purchases).Error
	if err != nil {
		return nil, err
	}
	return purchases, nil
}

// PurchaseFilter narrows the staff purchase listing. Zero values are ignored.
type PurchaseFilter struct {
	UserID    uint
	ProductID uint
	From      time.Time
	To        time.Time
	Page      int
	PageSize  int
}

// List returns one page of purchases across all buyers, newest first.
func (l *Ledger) List(ctx context.Context, f PurchaseFilter) ([]domain.Purchase, int64, error) {
	query := l.db.WithContext(ctx).Model(&domain.Purchase{}) // Start building the query
	if f.UserID != 0 {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.ProductID != 0 {
		query = query.Where("product_id = ?", f.ProductID)
	}
	if !f.From.IsZero() {
		query = query.Where("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		query = query.Where("created_at <= ?", f.To)
	}
	var total int64 // Total purchases matching the filters
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	purchases := []domain.Purchase{}
	err := query.Preload("Product").
		Order("created_at desc, id desc").
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Find(&purchases).Error
	return purchases, total, err
}
