package teacher

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"school-service/internal/auth"
	"school-service/internal/db"
	"school-service/internal/httputil"
	"school-service/internal/identity"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	repo     Repository
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(repo Repository, logger *slog.Logger) *Handler {
	return &Handler{
		repo:     repo,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	teacherOnly := auth.RequireRole(h.logger, identity.RoleTeacher)
	superAdmin := auth.RequireRole(h.logger, identity.RoleSuperAdmin)

	router.With(teacherOnly).Get("/teachers/me", h.Me)
	router.With(teacherOnly).Get("/teachers/me/courses", h.MyCourses)

	router.Get("/courses", h.ListCourses)
	router.With(superAdmin).Post("/courses", h.CreateCourse)
	router.With(superAdmin).Post("/teaching", h.AssignTeaching)
}

// Me returns the authenticated teacher's profile
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := h.repo.GetByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrTeacherNotFound) {
			httputil.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("failed to load teacher profile", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, profile)
}

// MyCourses returns the authenticated teacher's teaching assignments
func (h *Handler) MyCourses(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	teachings, err := h.repo.ListTeachings(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list teachings", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, teachings)
}

// ListCourses returns all courses
func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.repo.ListCourses(r.Context())
	if err != nil {
		h.logger.Error("failed to list courses", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, courses)
}

// CreateCourse creates a new course
func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var course Course
	if err := json.NewDecoder(r.Body).Decode(&course); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(&course); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.repo.CreateCourse(r.Context(), &course)
	if err != nil {
		if db.IsUniqueViolation(err) {
			httputil.RespondWithError(w, http.StatusConflict, "course code already exists")
			return
		}
		h.logger.Error("failed to create course", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

// AssignTeaching assigns a teacher to a course for one class
func (h *Handler) AssignTeaching(w http.ResponseWriter, r *http.Request) {
	var ct CourseTeaching
	if err := json.NewDecoder(r.Body).Decode(&ct); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(&ct); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if ct.AcademicYear == "" {
		ct.AcademicYear = DefaultAcademicYear
	}

	created, err := h.repo.CreateTeaching(r.Context(), &ct)
	if err != nil {
		if db.IsUniqueViolation(err) {
			httputil.RespondWithError(w, http.StatusConflict, "teaching assignment already exists")
			return
		}
		h.logger.Error("failed to assign teaching", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, created)
}
