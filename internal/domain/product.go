package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

// MaxCost is the largest unit cost a decimal(10,2) column holds.
var MaxCost = decimal.RequireFromString("99999999.99")

// Product Model
type Product struct {
	ID             uint            `gorm:"primaryKey"`                  // Primary key
	Name           string          `gorm:"size:200;not null;index"`     // Display name
	NameFolded     string          `gorm:"size:200;index" json:"-"`     // Case-folded Name for search
	Description    string          `gorm:"type:text"`                   // Optional description
	Category       string          `gorm:"size:100;index"`              // Free-text category
	CategoryFolded string          `gorm:"size:100;index" json:"-"`     // Case-folded Category for search
	Cost           decimal.Decimal `gorm:"type:decimal(10,2);not null"` // Unit cost
	Stock          *int            `gorm:"column:stock"`                // Units on hand, nil when not tracked
	Active         bool            `gorm:"not null;index"`              // Listed in the catalog
	CreatedAt      time.Time       `gorm:"autoCreateTime"`              // Creation time, never updated
}

// Fold returns the Unicode case-folded form used for catalog matching.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// TracksStock reports whether purchases must check and decrement Stock.
func (p *Product) TracksStock() bool {
	return p.Stock != nil
}

// Refold recomputes the search columns from Name and Category.
func (p *Product) Refold() {
	p.NameFolded = Fold(p.Name)
	p.CategoryFolded = Fold(p.Category)
}

// BeforeSave keeps the search columns in step on every gorm create or save.
func (p *Product) BeforeSave(*gorm.DB) error {
	p.Refold()
	return nil
}

// Validate checks the invariants every product write must satisfy.
func (p *Product) Validate() error {
	verr := NewValidationError()
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	if p.Name == "" {
		verr.Add("name", "name is required")
	}
	switch {
	case p.Cost.IsNegative():
		verr.Add("cost", "cost must not be negative")
	case p.Cost.GreaterThan(MaxCost):
		verr.Add("cost", "cost must be at most "+MaxCost.StringFixed(2))
	case !p.Cost.Equal(p.Cost.Round(2)):
		verr.Add("cost", "cost must have at most 2 decimal places")
	}
	if p.Stock != nil && *p.Stock < 0 {
		verr.Add("stock", "stock must not be negative")
	}
	p.Refold()
	return verr.Err()
}
