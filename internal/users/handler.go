package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mirojov/clubhub/internal/audit"
	"github.com/mirojov/clubhub/internal/auth"
	"github.com/mirojov/clubhub/internal/telemetry/metrics"
	"github.com/mirojov/clubhub/internal/telemetry/tracing"
	"github.com/mirojov/clubhub/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const (
	defaultPageSize   = 20
	maxPageSize       = 100
	minPasswordLength = 8
)

type usersRepo interface {
	Add(ctx context.Context, user *User) error
	Get(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, filter ListFilter) ([]*User, int, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
	SetPasswordHash(ctx context.Context, id, passwordHash string) error
}

type resetTokenStore interface {
	Issue(ctx context.Context, userID string) (string, time.Time, error)
	Consume(ctx context.Context, token string) (string, error)
}

type ListResponse struct {
	Items    []*User `json:"items"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"pageSize"`
	Pages    int     `json:"pages"`
}

type userResponse struct {
	User *User `json:"user"`
}

type signupRequest struct {
	Name         string `json:"name"`
	MobileNumber string `json:"mobileNumber"`
	Email        string `json:"email"`
	Whatsapp     string `json:"whatsapp"`
	Telegram     string `json:"telegram"`
}

type updateUserRequest struct {
	Name         *string `json:"name"`
	MobileNumber *string `json:"mobileNumber"`
	Email        *string `json:"email"`
	Whatsapp     *string `json:"whatsapp"`
	Telegram     *string `json:"telegram"`
	Status       *Status `json:"status"`
	Note         string  `json:"note"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type resetTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Handler struct {
	repo          usersRepo
	auditRecorder audit.Recorder
	resetTokens   resetTokenStore
	metrics       *metrics.Manager
	adminUsername string
}

func NewHandler(
	repo usersRepo,
	auditRecorder audit.Recorder,
	resetTokens resetTokenStore,
	metricsManager *metrics.Manager,
	adminUsername string,
) *Handler {
	return &Handler{
		repo:          repo,
		auditRecorder: auditRecorder,
		resetTokens:   resetTokens,
		metrics:       metricsManager,
		adminUsername: adminUsername,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/api/signup", handler.handleSignup).
		Methods("POST", "OPTIONS").Name("signup")
	mainRouter.HandleFunc("/api/reset-password", handler.handleResetPassword).
		Methods("POST", "OPTIONS").Name("reset-password")

	mainRouter.HandleFunc("/api/admin/users", handler.handleList).
		Methods("GET", "OPTIONS").Name("list-users")
	mainRouter.HandleFunc("/api/admin/users/{id}", handler.handleUpdate).
		Methods("PATCH", "OPTIONS").Name("update-user")
	mainRouter.HandleFunc("/api/admin/users/{id}", handler.handleDelete).
		Methods("DELETE", "OPTIONS").Name("delete-user")
	mainRouter.HandleFunc("/api/admin/users/{id}/reset-token", handler.handleIssueResetToken).
		Methods("POST", "OPTIONS").Name("issue-reset-token")
}

func (handler *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.signup")
	defer span.End()

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warnf("signup, failed to decode request: %s", err)
		pkg.WriteAPIError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user := &User{
		Name:         strings.TrimSpace(req.Name),
		MobileNumber: strings.TrimSpace(req.MobileNumber),
		Email:        strings.TrimSpace(req.Email),
		Whatsapp:     strings.TrimSpace(req.Whatsapp),
		Telegram:     strings.TrimSpace(req.Telegram),
		Status:       StatusPending,
	}

	if details := user.Validate(); len(details) > 0 {
		pkg.WriteValidationError(w, details)
		return
	}

	if err := handler.repo.Add(ctx, user); err != nil {
		log.Errorf("signup, failed to add user: %s", err)
		pkg.WriteAPIError(w, http.StatusInternalServerError, "failed to create signup")
		return
	}

	handler.metrics.CounterSignups.Inc()
	log.Debugf("new signup: %s [%s]", user.Name, user.ID)

	pkg.WriteJSON(w, http.StatusCreated, userResponse{User: user})
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.list")
	defer span.End()

	filter, errMessage := listFilterFromRequest(r)
	if errMessage != "" {
		pkg.WriteAPIError(w, http.StatusBadRequest, errMessage)
		return
	}

	items, total, err := handler.repo.List(ctx, filter)
	if err != nil {
		log.Errorf("list users: %s", err)
		pkg.WriteAPIError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	if items == nil {
		items = []*User{}
	}

	pkg.WriteJSON(w, http.StatusOK, ListResponse{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Pages:    pkg.PagesCount(total, filter.PageSize),
	})
}

func listFilterFromRequest(r *http.Request) (filter ListFilter, errMessage string) {
	query := r.URL.Query()

	filter = ListFilter{
		Query:    query.Get("q"),
		Sort:     "newest",
		Page:     1,
		PageSize: defaultPageSize,
	}

	if status := Status(query.Get("status")); status != "" {
		if !ValidStatus(status) {
			return filter, fmt.Sprintf("invalid status: %s", status)
		}
		filter.Status = status
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

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.update")
	defer span.End()

	id := mux.Vars(r)["id"]

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warnf("update user, failed to decode request: %s", err)
		pkg.WriteAPIError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("update user, get %s: %s", id, err)
		pkg.WriteAPIError(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	fieldsChanged := applyFieldUpdates(user, req)

	statusChanged := false
	fromStatus := user.Status
	if req.Status != nil && *req.Status != user.Status {
		if !ValidStatus(*req.Status) {
			pkg.WriteValidationError(w, []pkg.FieldError{
				{Field: "status", Message: fmt.Sprintf("Invalid status: %s", *req.Status)},
			})
			return
		}
		user.TransitionStatus(handler.adminUsername, *req.Status, req.Note)
		statusChanged = true
	}

	if details := user.Validate(); len(details) > 0 {
		pkg.WriteValidationError(w, details)
		return
	}

	if err := handler.repo.Update(ctx, user); err != nil {
		log.Errorf("update user %s: %s", id, err)
		pkg.WriteAPIError(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	if statusChanged {
		handler.metrics.CounterModerationActions.WithLabelValues(string(user.Status)).Inc()
		handler.recordAudit(ctx, &audit.Entry{
			Actor:      handler.adminUsername,
			Action:     audit.ActionStatusChange,
			UserID:     user.ID,
			FromStatus: string(fromStatus),
			ToStatus:   string(user.Status),
		})
	} else if fieldsChanged {
		handler.recordAudit(ctx, &audit.Entry{
			Actor:  handler.adminUsername,
			Action: audit.ActionUserUpdate,
			UserID: user.ID,
		})
	}

	pkg.WriteJSON(w, http.StatusOK, userResponse{User: user})
}

func applyFieldUpdates(user *User, req updateUserRequest) (changed bool) {
	if req.Name != nil && *req.Name != user.Name {
		user.Name = strings.TrimSpace(*req.Name)
		changed = true
	}
	if req.MobileNumber != nil && *req.MobileNumber != user.MobileNumber {
		user.MobileNumber = strings.TrimSpace(*req.MobileNumber)
		changed = true
	}
	if req.Email != nil && *req.Email != user.Email {
		user.Email = strings.TrimSpace(*req.Email)
		changed = true
	}
	if req.Whatsapp != nil && *req.Whatsapp != user.Whatsapp {
		user.Whatsapp = strings.TrimSpace(*req.Whatsapp)
		changed = true
	}
	if req.Telegram != nil && *req.Telegram != user.Telegram {
		user.Telegram = strings.TrimSpace(*req.Telegram)
		changed = true
	}
	return changed
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.delete")
	defer span.End()

	id := mux.Vars(r)["id"]

	if err := handler.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete user %s: %s", id, err)
		pkg.WriteAPIError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}

	handler.recordAudit(ctx, &audit.Entry{
		Actor:  handler.adminUsername,
		Action: audit.ActionUserDelete,
		UserID: id,
	})

	pkg.WriteTextResponseOK(w, fmt.Sprintf("deleted:%s", id))
}

func (handler *Handler) handleIssueResetToken(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.issueResetToken")
	defer span.End()

	id := mux.Vars(r)["id"]

	if _, err := handler.repo.Get(ctx, id); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("issue reset token, get user %s: %s", id, err)
		pkg.WriteAPIError(w, http.StatusInternalServerError, "failed to issue reset token")
		return
	}

	token, expiresAt, err := handler.resetTokens.Issue(ctx, id)
	if err != nil {
		log.Errorf("issue reset token for %s: %s", id, err)
		pkg.WriteAPIError(w, http.StatusInternalServerError, "failed to issue reset token")
		return
	}

	handler.recordAudit(ctx, &audit.Entry{
		Actor:  handler.adminUsername,
		Action: audit.ActionResetTokenIssued,
		UserID: id,
	})

	pkg.WriteJSON(w, http.StatusOK, resetTokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

func (handler *Handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.resetPassword")
	defer span.End()

	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warnf("reset password, failed to decode request: %s", err)
		pkg.WriteAPIError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var details []pkg.FieldError
	if req.Token == "" {
		details = append(details, pkg.FieldError{
			Field: "token", Message: "Token is required",
		})
	}
	if len(req.NewPassword) < minPasswordLength {
		details = append(details, pkg.FieldError{
			Field: "newPassword", Message: fmt.Sprintf("Password must have at least %d characters", minPasswordLength),
		})
	}
	if len(details) > 0 {
		pkg.WriteValidationError(w, details)
		return
	}

	userID, err := handler.resetTokens.Consume(ctx, req.Token)
	if err != nil {
		if errors.Is(err, auth.ErrResetTokenInvalid) {
			pkg.WriteAPIError(w, http.StatusBadRequest, "invalid or expired reset token")
			return
		}
		log.Errorf("reset password, consume token: %s", err)
		pkg.WriteAPIError(w, http.StatusInternalServerError, "failed to reset password")
		return
	}

	passwordHash, err := pkg.HashPassword(req.NewPassword)
	if err != nil {
		log.Errorf("reset password, hash password: %s", err)
		pkg.WriteAPIError(w, http.StatusInternalServerError, "failed to reset password")
		return
	}

	if err := handler.repo.SetPasswordHash(ctx, userID, passwordHash); err != nil {
		log.Errorf("reset password, set password hash for %s: %s", userID, err)
		pkg.WriteAPIError(w, http.StatusInternalServerError, "failed to reset password")
		return
	}

	log.Debugf("password updated for user %s", userID)
	pkg.WriteTextResponseOK(w, "password-updated")
}

func (handler *Handler) recordAudit(ctx context.Context, entry *audit.Entry) {
	if err := handler.auditRecorder.Record(ctx, entry); err != nil {
		log.Errorf("record audit entry [%s, user %s]: %s", entry.Action, entry.UserID, err)
	}
}
