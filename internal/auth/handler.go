package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/mirojov/clubhub/internal/telemetry/tracing"
	"github.com/mirojov/clubhub/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	authService   *Service
	loginChecker  Checker
	secureCookies bool
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Username string `json:"username"`
}

func NewHandler(
	authService *Service,
	loginChecker Checker,
	secureCookies bool,
) *Handler {
	return &Handler{
		authService:   authService,
		loginChecker:  loginChecker,
		secureCookies: secureCookies,
	}
}

// SetupRoutes registers the session endpoints on the given subrouter
// (mounted under /api/auth); rate limiting is applied by the caller
func (handler *Handler) SetupRoutes(authRouter *mux.Router) {
	authRouter.HandleFunc("/login", handler.handleLogin).Methods("POST", "OPTIONS").Name("login")
	authRouter.HandleFunc("/logout", handler.handleLogout).Methods("POST", "OPTIONS").Name("logout")
	authRouter.HandleFunc("/me", handler.handleMe).Methods("GET", "OPTIONS").Name("me")
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.login")
	defer span.End()

	var loginReq loginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		log.Errorf("login, unmarshal json params: %s", err)
		pkg.WriteAPIError(w, http.StatusBadRequest, "login failed")
		return
	}

	var details []pkg.FieldError
	if loginReq.Username == "" {
		details = append(details, pkg.FieldError{Field: "username", Message: "Username is required"})
	}
	if loginReq.Password == "" {
		details = append(details, pkg.FieldError{Field: "password", Message: "Password is required"})
	}
	if len(details) > 0 {
		pkg.WriteValidationError(w, details)
		return
	}

	if !handler.authService.CheckCredentials(loginReq.Username, loginReq.Password) {
		userIp, err := pkg.ReadUserIP(r)
		if err != nil {
			userIp = r.RemoteAddr
		}
		log.Tracef("failed login attempt for user %s from %s", loginReq.Username, userIp)
		pkg.WriteAPIError(w, http.StatusUnauthorized, "wrong credentials")
		return
	}

	token, err := handler.authService.Login(r.Context(), time.Now())
	if err != nil {
		log.Errorf("login failed, generate token error: %s", err)
		pkg.WriteAPIError(w, http.StatusInternalServerError, "generate token error")
		return
	}

	SetSessionCookie(w, token, DefaultTTL, handler.secureCookies)

	log.Trace("new login success")
	pkg.WriteJSON(w, http.StatusOK, sessionResponse{
		Username: handler.authService.AdminUsername(),
	})
}

func (handler *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.me")
	defer span.End()

	token := ReadSessionToken(r)
	if token == "" {
		pkg.WriteAPIError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	logged, err := handler.loginChecker.IsLogged(ctx, token)
	if err != nil || !logged {
		pkg.WriteAPIError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, sessionResponse{
		Username: handler.authService.AdminUsername(),
	})
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.logout")
	defer span.End()

	token := ReadSessionToken(r)
	if token == "" {
		pkg.WriteAPIError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	loggedOut, err := handler.authService.Logout(r.Context(), token)
	if err != nil {
		log.Tracef("logout failed for %s: %s", r.URL.Path, err)
		pkg.WriteAPIError(w, http.StatusUnauthorized, "not logged in")
		return
	}
	if !loggedOut {
		pkg.WriteAPIError(w, http.StatusUnauthorized, "not logged in")
		return
	}

	ClearSessionCookie(w, handler.secureCookies)
	pkg.WriteTextResponseOK(w, "logged-out")
}
