package client

import (
	"context"
	"net/http"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Username string `json:"username"`
}

// Login authenticates the admin; on success the backend sets the
// session cookie, which the cookie jar carries on subsequent requests.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp sessionResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", loginRequest{
		Username: username,
		Password: password,
	}, &resp, nil); err != nil {
		return "", err
	}
	return resp.Username, nil
}

// Me returns the username of the currently logged in admin.
func (c *Client) Me(ctx context.Context) (string, error) {
	var resp sessionResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, &resp, nil); err != nil {
		return "", err
	}
	return resp.Username, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
}
