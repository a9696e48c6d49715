package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Arekyus/Sistema-comerciantes/internal/platform/httpx"
	"github.com/Arekyus/Sistema-comerciantes/internal/shared"
)

// Handler exposes login and logout over HTTP.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
	validator      *validator.Validate
}

// NewHandler constructs Handler.
func NewHandler(logger *slog.Logger, service *Service, sessionManager *shared.SessionManager, csrfManager *shared.CSRFManager) *Handler {
	return &Handler{
		logger:         logger,
		service:        service,
		sessionManager: sessionManager,
		csrfManager:    csrfManager,
		validator:      validator.New(),
	}
}

// MountRoutes registers the auth routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/csrf", h.CSRFToken)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Get("/session", h.SessionInfo)
}

// CSRFToken primes the session with a CSRF token and returns it. Clients
// call this before any mutating request, login included.
func (h *Handler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	token, err := h.csrfManager.EnsureToken(r.Context(), sess)
	if err != nil {
		h.logger.Error("ensure csrf token", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"csrf_token": token})
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login validates the merchant credential and binds the user to the session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	if err := h.service.Authenticate(r.Context(), req.Username, req.Password); err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid credentials")
			return
		}
		h.logger.Error("authenticate", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	sess.SetUser(req.Username)
	httpx.JSON(w, http.StatusOK, map[string]string{"user": req.Username})
}

// Logout destroys the session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	h.sessionManager.Destroy(sess)
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// SessionInfo reports the logged-in user, if any.
func (h *Handler) SessionInfo(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.User() == "" {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "not logged in")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"user": sess.User()})
}
