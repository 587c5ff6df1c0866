package domain

// Profile roles
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Profile Model, one per User
type Profile struct {
	ID      uint    `gorm:"primaryKey"`                        // Primary key
	UserID  uint    `gorm:"uniqueIndex;not null"`              // Foreign key to User
	Address *string `gorm:"type:text"`                         // Postal address
	Role    string  `gorm:"size:30;not null;default:customer"` // Display role, mirrors User.IsStaff
	Email   string  `gorm:"size:254"`                          // Cached copy of User.Email
}

// RoleFor returns the profile role matching a staff flag.
func RoleFor(isStaff bool) string {
	if isStaff {
		return RoleAdmin
	}
	return RoleCustomer
}
