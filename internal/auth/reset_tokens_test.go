package auth

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetTokenStore_IssueAndConsume(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewResetTokenStore(time.Hour, db)
	store.RandStringFunc = func(s int) (string, error) {
		return "reset_token", nil
	}

	userID := "user-id-1"
	key := resetTokenKeyPrefix + "reset_token"

	mock.ExpectSet(key, userID, time.Hour).SetVal("OK")
	token, expiresAt, err := store.Issue(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "reset_token", token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	mock.ExpectGet(key).SetVal(userID)
	mock.ExpectDel(key).SetVal(1)
	gotUserID, err := store.Consume(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, gotUserID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResetTokenStore_Consume_Invalid(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	store := NewResetTokenStore(time.Hour, db)

	mock.ExpectGet(resetTokenKeyPrefix + "bogus").RedisNil()

	_, err := store.Consume(context.Background(), "bogus")
	assert.ErrorIs(t, err, ErrResetTokenInvalid)
}
