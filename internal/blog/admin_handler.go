package blog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mirojov/clubhub/internal/telemetry/metrics"
	"github.com/mirojov/clubhub/internal/telemetry/tracing"
	"github.com/mirojov/clubhub/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type adminBlogRepo interface {
	Create(ctx context.Context, post *Post) error
	GetByID(ctx context.Context, id string) (*Post, error)
	List(ctx context.Context, filter ListFilter) ([]*Post, int, error)
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id string) error
}

type createPostRequest struct {
	Slug       string   `json:"slug"`
	Title      string   `json:"title"`
	Excerpt    string   `json:"excerpt"`
	CoverImage string   `json:"coverImage"`
	Tags       []string `json:"tags"`
	Published  bool     `json:"published"`
	Content    string   `json:"content"`
}

type updatePostRequest struct {
	Slug       *string   `json:"slug"`
	Title      *string   `json:"title"`
	Excerpt    *string   `json:"excerpt"`
	CoverImage *string   `json:"coverImage"`
	Tags       *[]string `json:"tags"`
	Published  *bool     `json:"published"`
	Content    *string   `json:"content"`
}

type adminPostResponse struct {
	Post *Post `json:"post"`
}

type AdminHandler struct {
	repo    adminBlogRepo
	cache   *ResponseCache
	metrics *metrics.Manager
}

func NewAdminHandler(repo adminBlogRepo, cache *ResponseCache, metricsManager *metrics.Manager) *AdminHandler {
	return &AdminHandler{
		repo:    repo,
		cache:   cache,
		metrics: metricsManager,
	}
}

func (handler *AdminHandler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/api/admin/blog", handler.handleList).
		Methods("GET", "OPTIONS").Name("list-blog-admin")
	mainRouter.HandleFunc("/api/admin/blog", handler.handleCreate).
		Methods("POST", "OPTIONS").Name("create-blog")
	mainRouter.HandleFunc("/api/admin/blog/{id}", handler.handleUpdate).
		Methods("PATCH", "OPTIONS").Name("update-blog")
	mainRouter.HandleFunc("/api/admin/blog/{id}", handler.handleDelete).
		Methods("DELETE", "OPTIONS").Name("delete-blog")
}

func (handler *AdminHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "blogAdminHandler.list")
	defer span.End()

	filter, errMessage := listFilterFromRequest(r)
	if errMessage != "" {
		pkg.WriteAPIError(w, http.StatusBadRequest, errMessage)
		return
	}

	if status := PublishFilter(r.URL.Query().Get("status")); status != "" {
		if !ValidPublishFilter(status) {
			pkg.WriteAPIError(w, http.StatusBadRequest, fmt.Sprintf("invalid status: %s", status))
			return
		}
		filter.Publish = status
	}

	items, total, err := handler.repo.List(ctx, filter)
	if err != nil {
		log.Errorf("admin list blog posts: %s", err)
		pkg.WriteAPIError(w, http.StatusInternalServerError, "failed to list posts")
		return
	}

	if items == nil {
		items = []*Post{}
	}

	pkg.WriteJSON(w, http.StatusOK, ListResponse{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Pages:    pkg.PagesCount(total, filter.PageSize),
	})
}

func (handler *AdminHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "blogAdminHandler.create")
	defer span.End()

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warnf("create post, failed to decode request: %s", err)
		pkg.WriteAPIError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post := &Post{
		Slug:       req.Slug,
		Title:      req.Title,
		Excerpt:    req.Excerpt,
		CoverImage: req.CoverImage,
		Tags:       req.Tags,
		Content:    req.Content,
	}
	post.SetPublished(req.Published)
	if post.Tags == nil {
		post.Tags = []string{}
	}

	if details := post.Validate(); len(details) > 0 {
		pkg.WriteValidationError(w, details)
		return
	}

	if err := handler.repo.Create(ctx, post); err != nil {
		if errors.Is(err, ErrSlugTaken) {
			pkg.WriteAPIError(w, http.StatusConflict, fmt.Sprintf("slug already exists: %s", post.Slug))
			return
		}
		log.Errorf("create post: %s", err)
		pkg.WriteAPIError(w, http.StatusInternalServerError, "failed to create post")
		return
	}

	handler.metrics.CounterBlogWrites.WithLabelValues("create").Inc()
	handler.cache.Clear()
	log.Debugf("new blog post created: %s [%s]", post.Slug, post.ID)

	pkg.WriteJSON(w, http.StatusCreated, adminPostResponse{Post: post})
}

func (handler *AdminHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "blogAdminHandler.update")
	defer span.End()

	id := mux.Vars(r)["id"]

	var req updatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warnf("update post, failed to decode request: %s", err)
		pkg.WriteAPIError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := handler.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			http.Error(w, "post not found", http.StatusNotFound)
			return
		}
		log.Errorf("update post, get %s: %s", id, err)
		pkg.WriteAPIError(w, http.StatusInternalServerError, "failed to update post")
		return
	}

	if req.Slug != nil {
		post.Slug = *req.Slug
	}
	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Excerpt != nil {
		post.Excerpt = *req.Excerpt
	}
	if req.CoverImage != nil {
		post.CoverImage = *req.CoverImage
	}
	if req.Tags != nil {
		post.Tags = *req.Tags
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Published != nil {
		post.SetPublished(*req.Published)
	}

	if details := post.Validate(); len(details) > 0 {
		pkg.WriteValidationError(w, details)
		return
	}

	if err := handler.repo.Update(ctx, post); err != nil {
		if errors.Is(err, ErrSlugTaken) {
			pkg.WriteAPIError(w, http.StatusConflict, fmt.Sprintf("slug already exists: %s", post.Slug))
			return
		}
		log.Errorf("update post %s: %s", id, err)
		pkg.WriteAPIError(w, http.StatusInternalServerError, "failed to update post")
		return
	}

	handler.metrics.CounterBlogWrites.WithLabelValues("update").Inc()
	handler.cache.Clear()

	pkg.WriteJSON(w, http.StatusOK, adminPostResponse{Post: post})
}

func (handler *AdminHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "blogAdminHandler.delete")
	defer span.End()

	id := mux.Vars(r)["id"]

	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			http.Error(w, "post not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete post %s: %s", id, err)
		pkg.WriteAPIError(w, http.StatusInternalServerError, "failed to delete post")
		return
	}

	handler.metrics.CounterBlogWrites.WithLabelValues("delete").Inc()
	handler.cache.Clear()

	pkg.WriteTextResponseOK(w, fmt.Sprintf("deleted:%s", id))
}
