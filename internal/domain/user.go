package domain

import "time"

// User Model (the account)
type User struct {
	ID        uint       `gorm:"primaryKey"`                                    // Primary key
	Username  string     `gorm:"size:150;uniqueIndex;not null"`                 // Unique lowercase username
	Email     string     `gorm:"size:254;uniqueIndex;not null"`                 // Unique email
	Password  string     `gorm:"not null" json:"-"`                             // Hashed password
	IsStaff   bool       `gorm:"not null;default:false"`                        // Staff accounts may manage the catalog
	CreatedAt time.Time  `gorm:"autoCreateTime"`                                // Registration time
	Profile   Profile    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"` // One-to-one relationship with Profile
	Purchases []Purchase `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"` // Purchase history
}
