//go:build integration_test || all_tests

package auth

import (
	"testing"
	"time"

	pkgtesting "github.com/mirojov/clubhub/pkg/testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_LoginLogout_RealRedis(t *testing.T) {
	ctx, rdb := pkgtesting.GetRedisClientAndCtx(t)
	defer rdb.Close()

	service := NewAuthService(&Admin{
		Username:     "admin",
		PasswordHash: "irrelevant-here",
	}, time.Minute, rdb)
	checker := NewLoginChecker(time.Minute, rdb)

	token, err := service.Login(ctx, time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	logged, err := checker.IsLogged(ctx, token)
	require.NoError(t, err)
	assert.True(t, logged)

	loggedOut, err := service.Logout(ctx, token)
	require.NoError(t, err)
	assert.True(t, loggedOut)

	logged, err = checker.IsLogged(ctx, token)
	require.NoError(t, err)
	assert.False(t, logged)
}

func TestResetTokenStore_RealRedis(t *testing.T) {
	ctx, rdb := pkgtesting.GetRedisClientAndCtx(t)
	defer rdb.Close()

	store := NewResetTokenStore(time.Minute, rdb)

	token, expiresAt, err := store.Issue(ctx, "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	userID, err := store.Consume(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	// single use
	_, err = store.Consume(ctx, token)
	require.ErrorIs(t, err, ErrResetTokenInvalid)
}
