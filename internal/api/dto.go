package api

import (
	"time" // Timestamps

	"storefront/internal/domain" // Importing domain models
)

// Money fields are fixed two-decimal strings so clients never see float rounding

// ProductResponse is the product as returned to clients
type ProductResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Cost        string    `json:"cost"`
	Stock       *int      `json:"stock"` // null when not tracked
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

func newProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Cost:        p.Cost.StringFixed(2),
		Stock:       p.Stock,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
	}
}

func newProductResponses(products []domain.Product) []ProductResponse {
	resp := make([]ProductResponse, len(products))
	for i := range products {
		resp[i] = newProductResponse(&products[i])
	}
	return resp
}

// PurchaseResponse is one ledger entry
type PurchaseResponse struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	ProductID   uint      `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   string    `json:"unit_price"`
	Total       string    `json:"total"`
	CreatedAt   time.Time `json:"created_at"`
}

func newPurchaseResponse(p *domain.Purchase) PurchaseResponse {
	return PurchaseResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		ProductID:   p.ProductID,
		ProductName: p.Product.Name,
		Quantity:    p.Quantity,
		UnitPrice:   p.UnitPrice.StringFixed(2),
		Total:       p.Total.StringFixed(2),
		CreatedAt:   p.CreatedAt,
	}
}

func newPurchaseResponses(purchases []domain.Purchase) []PurchaseResponse {
	resp := make([]PurchaseResponse, len(purchases))
	for i := range purchases {
		resp[i] = newPurchaseResponse(&purchases[i])
	}
	return resp
}

// ProfileResponse is an account with its profile
type ProfileResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Address   *string   `json:"address"`
	Role      string    `json:"role"`
	IsStaff   bool      `json:"is_staff"`
	CreatedAt time.Time `json:"created_at"`
}

func newProfileResponse(u *domain.User) ProfileResponse {
	role := u.Profile.Role
	if role == "" {
		role = domain.RoleFor(u.IsStaff)
	}
	return ProfileResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Address:   u.Profile.Address,
		Role:      role,
		IsStaff:   u.IsStaff,
		CreatedAt: u.CreatedAt,
	}
}
