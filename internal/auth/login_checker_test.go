package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginChecker_IsLogged(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	checker := NewLoginChecker(time.Hour, db)
	require.NotNil(t, checker)

	token := "valid_token"
	mock.ExpectGet(sessionKeyPrefix + token).SetVal(fmt.Sprintf("%d", time.Now().Unix()))

	logged, err := checker.IsLogged(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, logged)
}

func TestLoginChecker_IsLogged_Expired(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	checker := NewLoginChecker(time.Hour, db)

	token := "old_token"
	then := time.Now().Add(-2 * time.Hour)
	mock.ExpectGet(sessionKeyPrefix + token).SetVal(fmt.Sprintf("%d", then.Unix()))

	logged, err := checker.IsLogged(context.Background(), token)
	require.NoError(t, err)
	assert.False(t, logged)
}

func TestLoginChecker_IsLogged_Unknown(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	checker := NewLoginChecker(time.Hour, db)

	token := "unknown_token"
	mock.ExpectGet(sessionKeyPrefix + token).RedisNil()

	logged, err := checker.IsLogged(context.Background(), token)
	require.Error(t, err)
	assert.False(t, logged)
}
