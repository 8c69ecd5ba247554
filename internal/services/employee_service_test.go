package services

import (
	"testing"

	"github.com/sebridge/checkin/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertCreatesThenRefreshes(t *testing.T) {
	db := newTestDB(t)
	svc := NewEmployeeService(db)

	emp, err := svc.Upsert("a@x.com", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", emp.DisplayName)
	assert.Equal(t, "active", emp.Status)

	again, err := svc.Upsert("a@x.com", "Alice Smith")
	require.NoError(t, err)
	assert.Equal(t, emp.ID, again.ID)
	assert.Equal(t, "Alice Smith", again.DisplayName)

	// An empty name from the token must not wipe the stored one.
	kept, err := svc.Upsert("a@x.com", "")
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", kept.DisplayName)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	svc := NewEmployeeService(db)

	emp, err := svc.Register(&dto.RegisterForm{
		Email:    "b@x.com",
		Name:     "Bob",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, emp.PasswordHash)
	assert.NotEqual(t, "correct horse battery", emp.PasswordHash)

	got, err := svc.Authenticate("b@x.com", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, emp.ID, got.ID)

	_, err = svc.Authenticate("b@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate("nobody@x.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewEmployeeService(db)

	_, err := svc.Register(&dto.RegisterForm{Email: "b@x.com", Name: "Bob", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Register(&dto.RegisterForm{Email: "b@x.com", Name: "Other", Password: "password2"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSSOEmployeeCannotPasswordLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewEmployeeService(db)

	_, err := svc.Upsert("sso@x.com", "SSO User")
	require.NoError(t, err)

	_, err = svc.Authenticate("sso@x.com", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
