package blog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func publicHandlerSetup(t *testing.T) (*repoMock, *ResponseCache, *mux.Router) {
	t.Helper()
	repo := newRepoMock()
	cache := NewResponseCache(0)
	handler := NewHandler(repo, cache)
	r := mux.NewRouter()
	handler.SetupRoutes(r)
	return repo, cache, r
}

func addPost(t *testing.T, repo *repoMock, post *Post) *Post {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), post))
	return post
}

func TestBlogHandler_List_PublishedOnly(t *testing.T) {
	repo, _, router := publicHandlerSetup(t)

	now := time.Now()
	published := addPost(t, repo, &Post{
		Slug: "published-post", Title: "Published", Content: "# pub",
		Published: true, CreatedAt: now,
	})
	addPost(t, repo, &Post{
		Slug: "draft-post", Title: "Draft", Content: "# draft",
		Published: false, CreatedAt: now.Add(time.Minute),
	})

	req := httptest.NewRequest("GET", "/api/blog", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp ListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, published.Slug, resp.Items[0].Slug)
}

func TestBlogHandler_List_TagFilter(t *testing.T) {
	repo, _, router := publicHandlerSetup(t)

	addPost(t, repo, &Post{
		Slug: "go-post", Title: "Go", Content: "# go",
		Tags: []string{"go", "backend"}, Published: true,
	})
	addPost(t, repo, &Post{
		Slug: "css-post", Title: "CSS", Content: "# css",
		Tags: []string{"css"}, Published: true,
	})

	req := httptest.NewRequest("GET", "/api/blog?tag=go", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp ListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "go-post", resp.Items[0].Slug)
}

func TestBlogHandler_GetPost(t *testing.T) {
	repo, _, router := publicHandlerSetup(t)

	now := time.Now()
	post := addPost(t, repo, &Post{
		Slug: "main-post", Title: "Main", Content: "# main",
		Tags: []string{"go"}, Published: true, CreatedAt: now,
	})
	related := addPost(t, repo, &Post{
		Slug: "related-post", Title: "Related", Content: "# related",
		Tags: []string{"go"}, Published: true, CreatedAt: now.Add(time.Minute),
	})
	addPost(t, repo, &Post{
		Slug: "unrelated-post", Title: "Unrelated", Content: "# other",
		Tags: []string{"css"}, Published: true, CreatedAt: now,
	})

	req := httptest.NewRequest("GET", "/api/blog/main-post", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp postResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Post)
	assert.Equal(t, post.ID, resp.Post.ID)
	require.Len(t, resp.Related, 1)
	assert.Equal(t, related.ID, resp.Related[0].ID)
}

func TestBlogHandler_GetPost_NotFound(t *testing.T) {
	repo, _, router := publicHandlerSetup(t)

	// drafts are not visible through the public endpoint
	addPost(t, repo, &Post{
		Slug: "draft-post", Title: "Draft", Content: "# draft",
	})

	for _, slug := range []string{"no-such-post", "draft-post"} {
		req := httptest.NewRequest("GET", "/api/blog/"+slug, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code, slug)
	}
}

func TestBlogHandler_Tags(t *testing.T) {
	repo, _, router := publicHandlerSetup(t)

	addPost(t, repo, &Post{
		Slug: "p1", Title: "P1", Content: "c",
		Tags: []string{"go", "backend"}, Published: true,
	})
	addPost(t, repo, &Post{
		Slug: "p2", Title: "P2", Content: "c",
		Tags: []string{"go"}, Published: true,
	})
	addPost(t, repo, &Post{
		Slug: "p3", Title: "P3", Content: "c",
		Tags: []string{"hidden"}, Published: false,
	})

	req := httptest.NewRequest("GET", "/api/blog/tags", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp tagsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Tags, 2)
	assert.Equal(t, TagCount{Tag: "go", Count: 2}, resp.Tags[0])
	assert.Equal(t, TagCount{Tag: "backend", Count: 1}, resp.Tags[1])
}

func TestBlogHandler_List_Cached(t *testing.T) {
	repo, cache, router := publicHandlerSetup(t)

	addPost(t, repo, &Post{
		Slug: "p1", Title: "P1", Content: "c", Published: true,
	})

	req := httptest.NewRequest("GET", "/api/blog", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	firstBody := rr.Body.String()

	// a new post appears only after the cache is cleared
	addPost(t, repo, &Post{
		Slug: "p2", Title: "P2", Content: "c", Published: true,
	})

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/blog", nil))
	assert.Equal(t, firstBody, rr.Body.String())

	cache.Clear()

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/blog", nil))
	var resp ListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
}
