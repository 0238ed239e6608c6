package service_test

import (
	"context"
	"testing"

	"lawn/internal/service"
	"lawn/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	svc := service.NewUserService(testutil.NewMemUserRepo())
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.NotEqual(t, "s3cret", u.PasswordHash, "password must be stored hashed")

	got, err := svc.ValidateCredentials(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.ValidateCredentials(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.ValidateCredentials(ctx, "nobody", "s3cret")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := service.NewUserService(testutil.NewMemUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "bob", "pw")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "bob", "other")
	assert.ErrorIs(t, err, service.ErrUsernameTaken)
}

func TestRegisterRequiresCredentials(t *testing.T) {
	svc := service.NewUserService(testutil.NewMemUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "pw")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Register(ctx, "carol", "")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}
