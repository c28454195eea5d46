package audit

import (
	"context"
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
	Items    []*Entry `json:"items"`
	Total    int      `json:"total"`
	Page     int      `json:"page"`
	PageSize int      `json:"pageSize"`
	Pages    int      `json:"pages"`
}

type auditRepo interface {
	Record(ctx context.Context, entry *Entry) error
	Count(ctx context.Context) (int, error)
	GetPage(ctx context.Context, page, size int) ([]*Entry, error)
}

type Handler struct {
	repo auditRepo
}

func NewHandler(repo auditRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/api/admin/audit", handler.handleList).
		Methods("GET", "OPTIONS").Name("list-audit")
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "auditHandler.list")
	defer span.End()

	page, pageSize := readPageParams(r)

	entries, err := handler.repo.GetPage(ctx, page, pageSize)
	if err != nil {
		log.Errorf("get audit entries page: %s", err)
		pkg.WriteAPIError(w, http.StatusInternalServerError, "failed to get audit entries")
		return
	}

	total, err := handler.repo.Count(ctx)
	if err != nil {
		log.Errorf("get audit entries count: %s", err)
		pkg.WriteAPIError(w, http.StatusInternalServerError, "failed to get audit entries")
		return
	}

	if entries == nil {
		entries = []*Entry{}
	}

	pkg.WriteJSON(w, http.StatusOK, ListResponse{
		Items:    entries,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Pages:    pkg.PagesCount(total, pageSize),
	})
}

func readPageParams(r *http.Request) (page, pageSize int) {
	page = 1
	pageSize = defaultPageSize

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}
	if sizeStr := r.URL.Query().Get("pageSize"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= maxPageSize {
			pageSize = s
		}
	}
	return page, pageSize
}
