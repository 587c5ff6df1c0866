package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxTotal is the largest line total a decimal(12,2) column holds.
var MaxTotal = decimal.RequireFromString("9999999999.99")

// Purchase Model, an immutable ledger entry
type Purchase struct {
	ID        uint            `gorm:"primaryKey"`                                              // Primary key
	UserID    uint            `gorm:"not null;index"`                                          // Foreign key to the buyer
	ProductID uint            `gorm:"not null;index"`                                          // Foreign key to Product
	Product   Product         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"` // Purchased product, protected from deletion
	Quantity  int             `gorm:"not null"`                                                // Units bought
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`                             // Product.Cost at purchase time
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`                             // Quantity * UnitPrice
	CreatedAt time.Time       `gorm:"autoCreateTime;index"`                                    // Purchase time
}

// LineTotal multiplies a unit price by a quantity and rounds once to cents.
// Round rounds half away from zero, which is half-up for non-negative prices.
func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// Prepare validates the purchase and recomputes Total. Call it before every write.
func (p *Purchase) Prepare() error {
	if p.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if p.UnitPrice.IsNegative() {
		return FieldError("unit_price", "unit price must not be negative")
	}
	total := LineTotal(p.Quantity, p.UnitPrice)
	if total.GreaterThan(MaxTotal) {
		return FieldError("quantity", "purchase total must be at most "+MaxTotal.StringFixed(2))
	}
	p.Total = total
	return nil
}
