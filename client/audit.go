package client

import (
	"context"
	"net/http"
)

func (c *Client) ListAuditEntries(ctx context.Context, page, pageSize int) (*AuditPage, error) {
	query := newQuery().
		Int("page", page).
		Int("pageSize", pageSize)

	var resp AuditPage
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/audit"+query.String(), nil, &resp, nil); err != nil {
		return nil, err
	}
	return &resp, nil
}
