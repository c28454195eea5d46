package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

type ListPostsParams struct {
	Query    string
	Tag      string
	Sort     string // newest or oldest
	Page     int
	PageSize int
}

// ListPosts lists published posts through the public endpoint.
func (c *Client) ListPosts(ctx context.Context, params ListPostsParams) (*PostsPage, error) {
	query := newQuery().
		Str("q", params.Query).
		Str("tag", params.Tag).
		Str("sort", params.Sort).
		Int("page", params.Page).
		Int("pageSize", params.PageSize)

	var resp PostsPage
	if err := c.doJSON(ctx, http.MethodGet, "/api/blog"+query.String(), nil, &resp, nil); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetPost fetches one published post by slug, along with up to a few
// related posts sharing its tags.
func (c *Client) GetPost(ctx context.Context, slug string) (*PostWithRelated, error) {
	var resp PostWithRelated
	path := fmt.Sprintf("/api/blog/%s", url.PathEscape(slug))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp, nil); err != nil {
		return nil, err
	}
	return &resp, nil
}

type tagsResponse struct {
	Tags []TagCount `json:"tags"`
}

func (c *Client) ListTags(ctx context.Context) ([]TagCount, error) {
	var resp tagsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/blog/tags", nil, &resp, nil); err != nil {
		return nil, err
	}
	return resp.Tags, nil
}

type ListPostsAdminParams struct {
	Query    string
	Tag      string
	Status   string // all, published or draft
	Sort     string // newest or oldest
	Page     int
	PageSize int
}

// ListPostsAdmin lists posts including drafts, with an extra publish
// status filter.
func (c *Client) ListPostsAdmin(ctx context.Context, params ListPostsAdminParams) (*PostsPage, error) {
	query := newQuery().
		Str("q", params.Query).
		Str("tag", params.Tag).
		Str("status", params.Status).
		Str("sort", params.Sort).
		Int("page", params.Page).
		Int("pageSize", params.PageSize)

	var resp PostsPage
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/blog"+query.String(), nil, &resp, nil); err != nil {
		return nil, err
	}
	return &resp, nil
}

type CreatePostParams struct {
	Slug       string   `json:"slug"`
	Title      string   `json:"title"`
	Excerpt    string   `json:"excerpt,omitempty"`
	CoverImage string   `json:"coverImage,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Published  bool     `json:"published"`
	Content    string   `json:"content"`
}

type postEnvelope struct {
	Post BlogPost `json:"post"`
}

func (c *Client) CreatePost(ctx context.Context, params CreatePostParams) (*BlogPost, error) {
	var resp postEnvelope
	if err := c.doJSON(ctx, http.MethodPost, "/api/admin/blog", params, &resp, nil); err != nil {
		return nil, err
	}
	return &resp.Post, nil
}

type UpdatePostParams struct {
	Slug       *string   `json:"slug,omitempty"`
	Title      *string   `json:"title,omitempty"`
	Excerpt    *string   `json:"excerpt,omitempty"`
	CoverImage *string   `json:"coverImage,omitempty"`
	Tags       *[]string `json:"tags,omitempty"`
	Published  *bool     `json:"published,omitempty"`
	Content    *string   `json:"content,omitempty"`
}

func (c *Client) UpdatePost(ctx context.Context, id string, params UpdatePostParams) (*BlogPost, error) {
	var resp postEnvelope
	path := fmt.Sprintf("/api/admin/blog/%s", url.PathEscape(id))
	if err := c.doJSON(ctx, http.MethodPatch, path, params, &resp, nil); err != nil {
		return nil, err
	}
	return &resp.Post, nil
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/admin/blog/%s", url.PathEscape(id))
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, nil)
}
