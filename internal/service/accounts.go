// Package service holds the storefront's business operations over gorm.
// Handlers in internal/api translate HTTP to these calls and back.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var validate = validator.New() // Shared validator for email syntax

// Registration is the self-service sign-up input.
type Registration struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Accounts manages users, their profiles and bearer sessions.
type Accounts struct {
	db         *gorm.DB
	jwtSecret  string
	jwtTTL     time.Duration
	bcryptCost int
}

// NewAccounts returns an account service issuing tokens signed with secret.
func NewAccounts(db *gorm.DB, secret string, ttl time.Duration) *Accounts {
	return &Accounts{db: db, jwtSecret: secret, jwtTTL: ttl, bcryptCost: bcrypt.DefaultCost}
}

// WithBcryptCost overrides the hashing cost; tests use bcrypt.MinCost.
func (s *Accounts) WithBcryptCost(cost int) *Accounts {
	s.bcryptCost = cost
	return s
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// normalizeEmail lowercases emails so uniqueness ignores case, like usernames
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkEmail(verr *domain.ValidationError, email string) {
	if email == "" {
		verr.Add("email", "email is required")
	} else if validate.Var(email, "email") != nil {
		verr.Add("email", "email is not valid")
	}
}

// Register creates an account and its customer profile in one transaction.
func (s *Accounts) Register(ctx context.Context, reg Registration) (*domain.User, error) {
	username := normalizeUsername(reg.Username)
	email := normalizeEmail(reg.Email)

	verr := domain.NewValidationError()
	if username == "" {
		verr.Add("username", "username is required")
	} else if len(username) > 150 {
		verr.Add("username", "username must be at most 150 characters")
	}
	checkEmail(verr, email)
	if reg.Password == "" {
		verr.Add("password", "password is required")
	}
	if reg.Password != reg.ConfirmPassword {
		verr.Add("confirm_password", "passwords do not match")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.bcryptCost) // Hash the password
	if err != nil {
		return nil, err
	}
	user := domain.User{Username: username, Email: email, Password: string(hash)}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64 // Rows already holding the username or email
		if err := tx.Model(&domain.User{}).Where("username = ?", username).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			verr.Add("username", "username already exists")
		}
		if err := tx.Model(&domain.User{}).Where("LOWER(email) = ?", email).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			verr.Add("email", "email already registered")
		}
		if err := verr.Err(); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&user).Error; err != nil {
			return err // Return error to rollback
		}
		user.Profile = domain.Profile{UserID: user.ID, Role: domain.RoleCustomer, Email: user.Email} // New accounts are customers
		return tx.Create(&user.Profile).Error                                                         // Commit with the profile
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a race with a concurrent registration
		return nil, domain.FieldError("username", "username or email already exists")
	}
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("Account registered")
	return &user, nil
}

// Authenticate checks credentials and returns a signed bearer token.
func (s *Accounts) Authenticate(ctx context.Context, username, password string) (string, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).Where("username = ?", normalizeUsername(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrUnauthorized
		}
		return "", err
	}
	// Compare provided password with stored hash
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", domain.ErrUnauthorized // Same error as an unknown username
	}
	return utils.GenerateJWT(user.ID, s.jwtSecret, s.jwtTTL) // Signed bearer token
}

// CurrentAccount loads the account and its profile.
func (s *Accounts) CurrentAccount(ctx context.Context, userID uint) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).Preload("Profile").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ProfileUpdate is the self-service profile edit input.
type ProfileUpdate struct {
	Address *string
	Email   string
}

// UpdateProfile changes the address and email. The email is written to both
// the account and the profile's cached copy.
func (s *Accounts) UpdateProfile(ctx context.Context, userID uint, upd ProfileUpdate) (*domain.User, error) {
	email := normalizeEmail(upd.Email)
	verr := domain.NewValidationError()
	checkEmail(verr, email)
	if err := verr.Err(); err != nil {
		return nil, err
	}

	var user domain.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Profile").First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		var taken int64
		if err := tx.Model(&domain.User{}).Where("LOWER(email) = ? AND id <> ?", email, userID).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return domain.FieldError("email", "email already registered")
		}
		if err := tx.Model(&user).UpdateColumn("email", email).Error; err != nil { // Account email first
			return err
		}
		user.Email = email
		user.Profile.Address = upd.Address
		user.Profile.Email = email
		if user.Profile.ID == 0 {
			// Accounts created outside Register may lack a profile
			user.Profile.UserID = user.ID
			user.Profile.Role = domain.RoleFor(user.IsStaff)
			return tx.Create(&user.Profile).Error
		}
		return tx.Model(&user.Profile).Updates(map[string]any{"address": upd.Address, "email": email}).Error
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"user_id": userID}).Info("Profile updated")
	return &user, nil
}

// SetStaff grants or revokes staff capability, keeping the profile role in step.
func (s *Accounts) SetStaff(ctx context.Context, userID uint, staff bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.User{}).Where("id = ?", userID).UpdateColumn("is_staff", staff) // The only authority the gate reads
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return tx.Model(&domain.Profile{}).Where("user_id = ?", userID).UpdateColumn("role", domain.RoleFor(staff)).Error // Display mirror
	})
}

// ListUsers returns one page of accounts with their profiles, oldest first.
func (s *Accounts) ListUsers(ctx context.Context, page, pageSize int) ([]domain.User, int64, error) {
	var total int64 // Total user count
	if err := s.db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []domain.User // Slice to hold users
	err := s.db.WithContext(ctx).Preload("Profile").
		Order("id asc").
		Offset((page - 1) * pageSize). // Calculate offset for pagination
		Limit(pageSize).
		Find(&users).Error
	return users, total, err
}
