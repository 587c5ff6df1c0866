package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/testutil"
	"storefront/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newAccounts(db *gorm.DB) *Accounts {
	return NewAccounts(db, "test-secret", time.Hour).WithBcryptCost(bcrypt.MinCost)
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	return verr.Fields
}

func TestRegisterCreatesAccountAndProfile(t *testing.T) {
	db := testutil.NewDB(t)
	accounts := newAccounts(db)

	user, err := accounts.Register(context.Background(), Registration{
		Username: "Nuevo", Email: "n@x.com", Password: "p", ConfirmPassword: "p",
	})
	require.NoError(t, err)
	assert.Equal(t, "nuevo", user.Username)
	assert.False(t, user.IsStaff)

	var profile domain.Profile
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.Equal(t, domain.RoleCustomer, profile.Role)
	assert.Equal(t, "n@x.com", profile.Email)
	assert.Nil(t, profile.Address)
}

func TestRegisterPasswordMismatch(t *testing.T) {
	db := testutil.NewDB(t)

	_, err := newAccounts(db).Register(context.Background(), Registration{
		Username: "Nuevo", Email: "n@x.com", Password: "p", ConfirmPassword: "q",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, fieldsOf(t, err), "confirm_password")

	var n int64
	require.NoError(t, db.Model(&domain.User{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestRegisterRejectsDuplicatesAndBadInput(t *testing.T) {
	db := testutil.NewDB(t)
	accounts := newAccounts(db)
	ctx := context.Background()

	_, err := accounts.Register(ctx, Registration{Username: "ana", Email: "ana@x.com", Password: "p", ConfirmPassword: "p"})
	require.NoError(t, err)

	_, err = accounts.Register(ctx, Registration{Username: "ANA", Email: "other@x.com", Password: "p", ConfirmPassword: "p"})
	assert.Contains(t, fieldsOf(t, err), "username")

	_, err = accounts.Register(ctx, Registration{Username: "bea", Email: "ana@x.com", Password: "p", ConfirmPassword: "p"})
	assert.Contains(t, fieldsOf(t, err), "email")

	_, err = accounts.Register(ctx, Registration{Username: "", Email: "not-an-email", Password: "", ConfirmPassword: ""})
	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")

	var n int64
	require.NoError(t, db.Model(&domain.User{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestEmailUniquenessIgnoresCase(t *testing.T) {
	db := testutil.NewDB(t)
	accounts := newAccounts(db)
	ctx := context.Background()

	first, err := accounts.Register(ctx, Registration{Username: "ana", Email: " Ana@X.com ", Password: "p", ConfirmPassword: "p"})
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", first.Email)

	_, err = accounts.Register(ctx, Registration{Username: "bea", Email: "ANA@x.COM", Password: "p", ConfirmPassword: "p"})
	assert.Equal(t, "email already registered", fieldsOf(t, err)["email"])

	bea, err := accounts.Register(ctx, Registration{Username: "bea", Email: "bea@x.com", Password: "p", ConfirmPassword: "p"})
	require.NoError(t, err)
	_, err = accounts.UpdateProfile(ctx, bea.ID, ProfileUpdate{Email: "ANA@x.com"})
	assert.Contains(t, fieldsOf(t, err), "email")

	// Rows written before emails were normalised still collide
	require.NoError(t, db.Model(&domain.User{}).Where("id = ?", first.ID).UpdateColumn("email", "Ana@X.com").Error)
	_, err = accounts.Register(ctx, Registration{Username: "cora", Email: "ana@x.com", Password: "p", ConfirmPassword: "p"})
	assert.Contains(t, fieldsOf(t, err), "email")
}

func TestAuthenticate(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "testuser", "password123", false)
	accounts := newAccounts(db)
	ctx := context.Background()

	token, err := accounts.Authenticate(ctx, "TestUser", "password123")
	require.NoError(t, err)
	claims, err := utils.ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = accounts.Authenticate(ctx, "testuser", "wrong")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = accounts.Authenticate(ctx, "nobody", "password123")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestUpdateProfile(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "testuser", "pw", false)
	testutil.CreateUser(t, db, "taken", "pw", false)
	accounts := newAccounts(db)
	ctx := context.Background()

	addr := "Direccion Editada"
	updated, err := accounts.UpdateProfile(ctx, user.ID, ProfileUpdate{Address: &addr, Email: "editado@correo.com"})
	require.NoError(t, err)
	assert.Equal(t, "editado@correo.com", updated.Email)

	current, err := accounts.CurrentAccount(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "editado@correo.com", current.Email)
	assert.Equal(t, "editado@correo.com", current.Profile.Email)
	require.NotNil(t, current.Profile.Address)
	assert.Equal(t, addr, *current.Profile.Address)

	_, err = accounts.UpdateProfile(ctx, user.ID, ProfileUpdate{Email: "taken@example.com"})
	assert.Contains(t, fieldsOf(t, err), "email")
	_, err = accounts.UpdateProfile(ctx, user.ID, ProfileUpdate{Email: "nope"})
	assert.Contains(t, fieldsOf(t, err), "email")
	_, err = accounts.UpdateProfile(ctx, 9999, ProfileUpdate{Email: "x@y.com"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetStaffKeepsRoleInStep(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "admin", "pw", false)
	accounts := newAccounts(db)
	ctx := context.Background()

	require.NoError(t, accounts.SetStaff(ctx, user.ID, true))
	current, err := accounts.CurrentAccount(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, current.IsStaff)
	assert.Equal(t, domain.RoleAdmin, current.Profile.Role)

	require.NoError(t, accounts.SetStaff(ctx, user.ID, false))
	current, err = accounts.CurrentAccount(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, current.IsStaff)
	assert.Equal(t, domain.RoleCustomer, current.Profile.Role)

	assert.ErrorIs(t, accounts.SetStaff(ctx, 9999, true), domain.ErrNotFound)
}

func TestListUsersPaginates(t *testing.T) {
	db := testutil.NewDB(t)
	for _, name := range []string{"a", "b", "c"} {
		testutil.CreateUser(t, db, name, "pw", false)
	}

	users, total, err := newAccounts(db).ListUsers(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, users, 1)
	assert.Equal(t, "c", users[0].Username)
	assert.Equal(t, "c@example.com", users[0].Profile.Email)
}
