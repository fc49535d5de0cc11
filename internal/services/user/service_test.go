package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkwon/wondash/internal/common"
	"github.com/jkwon/wondash/internal/storage/memory"
)

func newTestService() *Service {
	return NewService(memory.NewManager(), common.NewSilentLogger())
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "minjun", "minjun@example.com", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "user", user.Role)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	authed, err := svc.Authenticate(ctx, "minjun", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	loaded, err := svc.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "minjun", loaded.Username)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "ab", "a@example.com", "long enough pw")
	assert.Error(t, err)

	_, err = svc.Register(ctx, "valid", "a@example.com", "short")
	assert.Error(t, err)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "minjun", "a@example.com", "correct horse")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "minjun", "b@example.com", "another password")
	assert.Error(t, err)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "minjun", "a@example.com", "correct horse")
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "minjun", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
