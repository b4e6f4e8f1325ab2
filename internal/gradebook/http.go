package gradebook

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"school-service/internal/auth"
	"school-service/internal/httputil"
	"school-service/internal/identity"
	"school-service/internal/student"
	"school-service/internal/teacher"

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

func (h *Handler) RegisterRoutes(router chi.Router) {
	teacherOnly := auth.RequireRole(h.logger, identity.RoleTeacher)
	studentOnly := auth.RequireRole(h.logger, identity.RoleStudent)

	router.With(teacherOnly).Post("/enrollments", h.Enroll)
	router.With(teacherOnly).Get("/enrollments", h.ListEnrollments)
	router.With(teacherOnly).Patch("/enrollments/{id}/marks", h.UpdateMarks)
	router.With(teacherOnly).Get("/teachers/me/students", h.ClassStudents)
	router.With(teacherOnly).Get("/teachers/course-statistics", h.Statistics)

	router.With(studentOnly).Get("/students/me/performance", h.Performance)
}

// Enroll registers a student into a course the calling teacher teaches.
func (h *Handler) Enroll(w http.ResponseWriter, r *http.Request) {
	teacherID, ok := auth.GetUserID(r.Context())
	if !ok {
		httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req EnrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	enrollment, err := h.service.Enroll(r.Context(), teacherID, &req)
	if err != nil {
		h.respondServiceError(w, err, "failed to enroll student")
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, enrollment)
}

func (h *Handler) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	teacherID, ok := auth.GetUserID(r.Context())
	if !ok {
		httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	enrollments, err := h.service.TeacherEnrollments(r.Context(), teacherID)
	if err != nil {
		h.logger.Error("failed to list enrollments", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, enrollments)
}

func (h *Handler) UpdateMarks(w http.ResponseWriter, r *http.Request) {
	teacherID, ok := auth.GetUserID(r.Context())
	if !ok {
		httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	enrollmentID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid enrollment id")
		return
	}

	var req UpdateMarksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	enrollment, err := h.service.UpdateMarks(r.Context(), teacherID, enrollmentID, &req)
	if err != nil {
		h.respondServiceError(w, err, "failed to update marks")
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, enrollment)
}

// Performance returns the authenticated student's report card.
func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	studentID, ok := auth.GetUserID(r.Context())
	if !ok {
		httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	entries, err := h.service.Performance(r.Context(), studentID)
	if err != nil {
		h.logger.Error("failed to load performance", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, entries)
}

func (h *Handler) ClassStudents(w http.ResponseWriter, r *http.Request) {
	teacherID, ok := auth.GetUserID(r.Context())
	if !ok {
		httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	students, err := h.service.ClassStudents(r.Context(), teacherID)
	if err != nil {
		h.logger.Error("failed to list class students", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, students)
}

func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	teacherID, ok := auth.GetUserID(r.Context())
	if !ok {
		httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	courseCode := r.URL.Query().Get("course_code")
	standard := r.URL.Query().Get("standard")
	if courseCode == "" || standard == "" {
		httputil.RespondWithError(w, http.StatusBadRequest, "course_code and standard are required")
		return
	}
	academicYear := r.URL.Query().Get("academic_year")

	stats, err := h.service.Statistics(r.Context(), teacherID, courseCode, standard, academicYear)
	if err != nil {
		h.respondServiceError(w, err, "failed to compute course statistics")
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, stats)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, ErrNotCourseTeacher):
		httputil.RespondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrAlreadyEnrolled):
		httputil.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrMarksExceedTotal), errors.Is(err, ErrStudentNotEnrolled):
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrEnrollmentNotFound),
		errors.Is(err, teacher.ErrCourseNotFound),
		errors.Is(err, student.ErrStudentNotFound):
		httputil.RespondWithError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error(logMsg, "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
