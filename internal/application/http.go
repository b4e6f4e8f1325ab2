package application

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"school-service/internal/auth"
	"school-service/internal/httputil"
	"school-service/internal/identity"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  Service
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterPublicRoutes registers the unauthenticated submission endpoint.
func (h *Handler) RegisterPublicRoutes(router chi.Router) {
	router.Post("/auth/register", h.Submit)
}

// RegisterAdminRoutes registers the review endpoints. Listing is open to
// both admin roles; each verify stage is gated to its own role.
func (h *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Route("/admin/applications", func(r chi.Router) {
		anyAdmin := auth.RequireRole(h.logger, identity.RoleSchoolAdmin, identity.RoleSuperAdmin)

		r.With(anyAdmin).Get("/", h.List)
		r.With(anyAdmin).Post("/{id}/reject", h.Reject)
		r.With(auth.RequireRole(h.logger, identity.RoleSchoolAdmin)).Post("/{id}/school-verify", h.SchoolVerify)
		r.With(auth.RequireRole(h.logger, identity.RoleSuperAdmin)).Post("/{id}/super-verify", h.SuperVerify)
	})
}

// Submit accepts a new application
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		h.logger.Warn("validation failed", "error", err)
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.InfoContext(r.Context(), "submitting application", "email", req.Email, "role", req.Role)

	app, err := h.service.Submit(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			httputil.RespondWithError(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("submission failed", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message":       "Application submitted successfully. Waiting for admin verification.",
		"applicationId": app.ID,
		"status":        app.Status,
	})
}

// List returns applications, optionally filtered by status
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	apps, err := h.service.List(r.Context(), status)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to list applications", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, apps)
}

// SchoolVerify advances a pending application
func (h *Handler) SchoolVerify(w http.ResponseWriter, r *http.Request) {
	h.runTransition(w, r, h.service.SchoolVerify)
}

// SuperVerify approves an application, triggering promotion
func (h *Handler) SuperVerify(w http.ResponseWriter, r *http.Request) {
	h.runTransition(w, r, h.service.SuperVerify)
}

// Reject rejects a non-terminal application
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.runTransition(w, r, h.service.Reject)
}

func (h *Handler) runTransition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id int) (*Application, error)) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid application ID")
		return
	}

	app, err := op(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrApplicationNotFound):
			httputil.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrInvalidTransition):
			httputil.RespondWithError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("transition failed", "error", err)
			httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.logger.InfoContext(r.Context(), "application transitioned", "id", app.ID, "status", app.Status)

	httputil.RespondWithJSON(w, http.StatusOK, app)
}
