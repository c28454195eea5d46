package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

type SignupParams struct {
	Name         string `json:"name"`
	MobileNumber string `json:"mobileNumber"`
	Email        string `json:"email,omitempty"`
	Whatsapp     string `json:"whatsapp,omitempty"`
	Telegram     string `json:"telegram,omitempty"`
}

type userResponse struct {
	User User `json:"user"`
}

// Signup submits a public signup; the created user starts out pending.
func (c *Client) Signup(ctx context.Context, params SignupParams) (*User, error) {
	var resp userResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/signup", params, &resp, nil); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

type ListUsersParams struct {
	Query    string
	Status   string
	Sort     string // newest or oldest
	Page     int
	PageSize int
}

func (c *Client) ListUsers(ctx context.Context, params ListUsersParams) (*UsersPage, error) {
	query := newQuery().
		Str("q", params.Query).
		Str("status", params.Status).
		Str("sort", params.Sort).
		Int("page", params.Page).
		Int("pageSize", params.PageSize)

	var resp UsersPage
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/users"+query.String(), nil, &resp, nil); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateUserParams carries the editable user fields; nil fields are
// left untouched by the backend.
type UpdateUserParams struct {
	Name         *string `json:"name,omitempty"`
	MobileNumber *string `json:"mobileNumber,omitempty"`
	Email        *string `json:"email,omitempty"`
	Whatsapp     *string `json:"whatsapp,omitempty"`
	Telegram     *string `json:"telegram,omitempty"`
	Status       *string `json:"status,omitempty"`
	Note         string  `json:"note,omitempty"`
}

func (c *Client) UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*User, error) {
	var resp userResponse
	path := fmt.Sprintf("/api/admin/users/%s", url.PathEscape(id))
	if err := c.doJSON(ctx, http.MethodPatch, path, params, &resp, nil); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// UpdateUserStatus moves a user through the moderation lifecycle
// (pending / approved / rejected) with an optional note.
func (c *Client) UpdateUserStatus(ctx context.Context, id, status, note string) (*User, error) {
	return c.UpdateUser(ctx, id, UpdateUserParams{
		Status: &status,
		Note:   note,
	})
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/admin/users/%s", url.PathEscape(id))
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) IssueResetToken(ctx context.Context, id string) (*ResetToken, error) {
	var resp ResetToken
	path := fmt.Sprintf("/api/admin/users/%s/reset-token", url.PathEscape(id))
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &resp, nil); err != nil {
		return nil, err
	}
	return &resp, nil
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/reset-password", resetPasswordRequest{
		Token:       token,
		NewPassword: newPassword,
	}, nil, nil)
}
