package student

import (
	"errors"
	"log/slog"
	"net/http"

	"school-service/internal/auth"
	"school-service/internal/httputil"
	"school-service/internal/identity"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	repo   Repository
	logger *slog.Logger
}

func NewHandler(repo Repository, logger *slog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.With(auth.RequireRole(h.logger, identity.RoleStudent)).
		Get("/students/me", h.Me)
}

// Me returns the authenticated student's profile
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := h.repo.GetByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrStudentNotFound) {
			httputil.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("failed to load student profile", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, profile)
}
