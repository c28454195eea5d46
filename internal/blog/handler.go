package blog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/mirojov/clubhub/internal/telemetry/tracing"
	"github.com/mirojov/clubhub/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ListResponse struct {
	Items    []*Post `json:"items"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"pageSize"`
	Pages    int     `json:"pages"`
}

type postResponse struct {
	Post    *Post   `json:"post"`
	Related []*Post `json:"related"`
}

type tagsResponse struct {
	Tags []TagCount `json:"tags"`
}

type blogRepo interface {
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	Related(ctx context.Context, post *Post) ([]*Post, error)
	List(ctx context.Context, filter ListFilter) ([]*Post, int, error)
	Tags(ctx context.Context) ([]TagCount, error)
}

// Handler serves the public, read-only side of the blog.
type Handler struct {
	repo  blogRepo
	cache *ResponseCache
}

func NewHandler(repo blogRepo, cache *ResponseCache) *Handler {
	return &Handler{
		repo:  repo,
		cache: cache,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/api/blog", handler.handleList).
		Methods("GET", "OPTIONS").Name("list-blog")
	mainRouter.HandleFunc("/api/blog/tags", handler.handleTags).
		Methods("GET", "OPTIONS").Name("list-blog-tags")
	mainRouter.HandleFunc("/api/blog/{slug}", handler.handleGetPost).
		Methods("GET", "OPTIONS").Name("get-blog-post")
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "blogHandler.list")
	defer span.End()

	if handler.writeCached(w, r) {
		return
	}

	filter, errMessage := listFilterFromRequest(r)
	if errMessage != "" {
		pkg.WriteAPIError(w, http.StatusBadRequest, errMessage)
		return
	}
	filter.Publish = PublishFilterPublished

	items, total, err := handler.repo.List(ctx, filter)
	if err != nil {
		log.Errorf("list blog posts: %s", err)
		pkg.WriteAPIError(w, http.StatusInternalServerError, "failed to list posts")
		return
	}

	if items == nil {
		items = []*Post{}
	}

	handler.writeAndCacheJSON(w, r, ListResponse{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Pages:    pkg.PagesCount(total, filter.PageSize),
	})
}

func (handler *Handler) handleGetPost(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "blogHandler.getPost")
	defer span.End()

	if handler.writeCached(w, r) {
		return
	}

	slug := mux.Vars(r)["slug"]

	post, err := handler.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			http.Error(w, "post not found", http.StatusNotFound)
			return
		}
		log.Errorf("get blog post [%s]: %s", slug, err)
		pkg.WriteAPIError(w, http.StatusInternalServerError, "failed to get post")
		return
	}

	related, err := handler.repo.Related(ctx, post)
	if err != nil {
		// the post itself is more important, serve it without related
		log.Errorf("get related posts for [%s]: %s", slug, err)
		related = nil
	}
	if related == nil {
		related = []*Post{}
	}

	handler.writeAndCacheJSON(w, r, postResponse{
		Post:    post,
		Related: related,
	})
}

func (handler *Handler) handleTags(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "blogHandler.tags")
	defer span.End()

	if handler.writeCached(w, r) {
		return
	}

	tags, err := handler.repo.Tags(ctx)
	if err != nil {
		log.Errorf("list blog tags: %s", err)
		pkg.WriteAPIError(w, http.StatusInternalServerError, "failed to list tags")
		return
	}

	if tags == nil {
		tags = []TagCount{}
	}

	handler.writeAndCacheJSON(w, r, tagsResponse{Tags: tags})
}

func (handler *Handler) writeCached(w http.ResponseWriter, r *http.Request) bool {
	cached, ok := handler.cache.Get(r.URL.RequestURI())
	if !ok {
		return false
	}
	log.Tracef("serving cached blog response for %s", r.URL.RequestURI())
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, cached)
	return true
}

func (handler *Handler) writeAndCacheJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	respBytes, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal blog response: %s", err)
		pkg.WriteAPIError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	handler.cache.Set(r.URL.RequestURI(), respBytes)
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

func listFilterFromRequest(r *http.Request) (filter ListFilter, errMessage string) {
	query := r.URL.Query()

	filter = ListFilter{
		Query:    query.Get("q"),
		Tag:      query.Get("tag"),
		Publish:  PublishFilterAll,
		Sort:     "newest",
		Page:     1,
		PageSize: defaultPageSize,
	}

	if sort := query.Get("sort"); sort != "" {
		if sort != "newest" && sort != "oldest" {
			return filter, fmt.Sprintf("invalid sort: %s", sort)
		}
		filter.Sort = sort
	}
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			filter.Page = p
		}
	}
	if sizeStr := query.Get("pageSize"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= maxPageSize {
			filter.PageSize = s
		}
	}

	return filter, ""
}
