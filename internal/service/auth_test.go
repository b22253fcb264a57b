package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodshare/backend/internal/service"
	"github.com/foodshare/backend/internal/testutil"
)

const testSecret = "test-secret"

func TestRegisterAndValidateToken(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := service.NewAuthService(db, testSecret)

	token, err := svc.Register("alice@example.com", "alice", "Alice", "Smith", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	user, err := svc.GetUser(claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "password123", user.PasswordHash)
}

func TestRegisterDuplicate(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := service.NewAuthService(db, testSecret)

	_, err := svc.Register("alice@example.com", "alice", "Alice", "Smith", "password123")
	require.NoError(t, err)

	_, err = svc.Register("alice@example.com", "alice2", "Alice", "Smith", "password123")
	assert.ErrorIs(t, err, service.ErrUserExists)

	_, err = svc.Register("alice2@example.com", "alice", "Alice", "Smith", "password123")
	assert.ErrorIs(t, err, service.ErrUserExists)
}

func TestLogin(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := service.NewAuthService(db, testSecret)

	_, err := svc.Register("alice@example.com", "alice", "Alice", "Smith", "password123")
	require.NoError(t, err)

	token, err := svc.Login("alice@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = svc.Login("alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := service.NewAuthService(db, testSecret)

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)

	// Token signed with a different secret must not validate.
	other := service.NewAuthService(db, "other-secret")
	token, err := other.Register("bob@example.com", "bob", "Bob", "Jones", "password123")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
