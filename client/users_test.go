package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Signup(t *testing.T) {
	var receivedBody SignupParams
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/signup", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&receivedBody))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"user":{"id":"u-1","name":"Mira","mobileNumber":"+38164123456","status":"pending"}}`))
	}))
	defer server.Close()

	c := New(server.URL, nil)
	user, err := c.Signup(context.Background(), SignupParams{
		Name:         "Mira",
		MobileNumber: "+38164123456",
	})
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, "pending", user.Status)
	assert.Equal(t, "Mira", receivedBody.Name)
}

func TestClient_ListUsers_QueryParams(t *testing.T) {
	var receivedQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[],"total":0,"page":1,"pageSize":20,"pages":0}`))
	}))
	defer server.Close()

	c := New(server.URL, nil)

	// empty status is omitted entirely
	_, err := c.ListUsers(context.Background(), ListUsersParams{Status: ""})
	require.NoError(t, err)
	assert.Equal(t, "", receivedQuery)

	// supplied parameters keep their insertion order
	_, err = c.ListUsers(context.Background(), ListUsersParams{Status: "pending", Page: 2})
	require.NoError(t, err)
	assert.Equal(t, "status=pending&page=2", receivedQuery)

	_, err = c.ListUsers(context.Background(), ListUsersParams{
		Query: "mira", Status: "approved", Sort: "oldest", Page: 3, PageSize: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, "q=mira&status=approved&sort=oldest&page=3&pageSize=50", receivedQuery)
}

func TestClient_DeleteUser_PathEscaped(t *testing.T) {
	var receivedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		receivedPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte("deleted:abc def"))
	}))
	defer server.Close()

	c := New(server.URL, nil)
	require.NoError(t, c.DeleteUser(context.Background(), "abc def"))
	assert.Equal(t, "/api/admin/users/abc%20def", receivedPath)
}

func TestClient_UpdateUserStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/api/admin/users/u-1", r.URL.Path)

		var req UpdateUserParams
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.Status)
		assert.Equal(t, "approved", *req.Status)
		assert.Equal(t, "welcome", req.Note)
		assert.Nil(t, req.Name)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{"id":"u-1","status":"approved"}}`))
	}))
	defer server.Close()

	c := New(server.URL, nil)
	user, err := c.UpdateUserStatus(context.Background(), "u-1", "approved", "welcome")
	require.NoError(t, err)
	assert.Equal(t, "approved", user.Status)
}

func TestClient_SessionCookieFlow(t *testing.T) {
	const sessionCookie = "clubhub_session"

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "tok-123", Path: "/"})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"username":"admin"}`))
	})
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil || cookie.Value != "tok-123" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"not logged in"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"username":"admin"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := New(server.URL, nil)

	// without a session, me fails
	_, err := c.Me(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "not logged in", apiErr.Error())

	// after login, the jar carries the cookie
	username, err := c.Login(context.Background(), "admin", "pass")
	require.NoError(t, err)
	assert.Equal(t, "admin", username)

	username, err = c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin", username)
}

func TestClient_IssueResetTokenAndResetPassword(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/users/u-1/reset-token", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"rst-1","expiresAt":"2026-08-30T12:00:00Z"}`))
	})
	mux.HandleFunc("/api/reset-password", func(w http.ResponseWriter, r *http.Request) {
		var req resetPasswordRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "rst-1", req.Token)
		assert.Equal(t, "brand-new-pass", req.NewPassword)
		_, _ = w.Write([]byte("password-updated"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := New(server.URL, nil)

	token, err := c.IssueResetToken(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "rst-1", token.Token)
	assert.False(t, token.ExpiresAt.IsZero())

	require.NoError(t, c.ResetPassword(context.Background(), token.Token, "brand-new-pass"))
}
