package application_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"school-service/internal/application"
	"school-service/internal/auth"
	"school-service/internal/identity"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	apps       map[int]*application.Application
	submitted  []*application.Application
	submitErr  error
	transition map[int]error
}

func (f *fakeService) Submit(_ context.Context, req application.SubmitRequest) (*application.Application, error) {
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	app := req.ToApplication()
	app.ID = len(f.submitted) + 1
	f.submitted = append(f.submitted, app)
	return app, nil
}

func (f *fakeService) List(_ context.Context, status string) ([]application.Application, error) {
	if status != "" && !application.Status(status).Valid() {
		return nil, application.ErrInvalidStatus
	}
	var out []application.Application
	for _, app := range f.apps {
		out = append(out, *app)
	}
	return out, nil
}

func (f *fakeService) apply(id int, to application.Status) (*application.Application, error) {
	if err, ok := f.transition[id]; ok {
		return nil, err
	}
	app, ok := f.apps[id]
	if !ok {
		return nil, application.ErrApplicationNotFound
	}
	app.Status = to
	return app, nil
}

func (f *fakeService) SchoolVerify(_ context.Context, id int) (*application.Application, error) {
	return f.apply(id, application.StatusSchoolVerified)
}

func (f *fakeService) SuperVerify(_ context.Context, id int) (*application.Application, error) {
	return f.apply(id, application.StatusSuperVerified)
}

func (f *fakeService) Reject(_ context.Context, id int) (*application.Application, error) {
	return f.apply(id, application.StatusRejected)
}

func newReviewRouter(svc application.Service) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := application.NewHandler(svc, logger)

	router := chi.NewRouter()
	handler.RegisterPublicRoutes(router)
	router.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware(logger))
		handler.RegisterAdminRoutes(r)
	})
	return router
}

func authCookie(t *testing.T, userID int, email, role string) *http.Cookie {
	t.Helper()
	token, err := auth.GenerateAccessToken(userID, email, role, time.Minute)
	require.NoError(t, err)
	return &http.Cookie{Name: "token", Value: token}
}

func TestReviewAPI(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret-key-for-testing")
	defer os.Unsetenv("JWT_SECRET")

	schoolAdmin := func(t *testing.T) *http.Cookie {
		return authCookie(t, 1, "school@example.com", identity.RoleSchoolAdmin)
	}
	superAdmin := func(t *testing.T) *http.Cookie {
		return authCookie(t, 2, "super@example.com", identity.RoleSuperAdmin)
	}

	t.Run("Register_Success", func(t *testing.T) {
		svc := &fakeService{}
		router := newReviewRouter(svc)

		body, _ := json.Marshal(map[string]interface{}{
			"email":    "ravi@example.com",
			"role":     "student",
			"password": "secret-pass",
		})
		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "pending", resp["status"])
		assert.NotZero(t, resp["applicationId"])
	})

	t.Run("Register_ValidationFailures", func(t *testing.T) {
		svc := &fakeService{}
		router := newReviewRouter(svc)

		cases := []map[string]interface{}{
			{"email": "not-an-email", "role": "student", "password": "secret-pass"},
			{"email": "x@example.com", "role": "principal", "password": "secret-pass"},
			{"email": "x@example.com", "role": "student", "password": "short"},
			{"role": "student", "password": "secret-pass"},
		}
		for _, payload := range cases {
			body, _ := json.Marshal(payload)
			req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code, "payload %v", payload)
		}
		assert.Empty(t, svc.submitted)
	})

	t.Run("Register_DuplicateEmail", func(t *testing.T) {
		svc := &fakeService{submitErr: application.ErrEmailExists}
		router := newReviewRouter(svc)

		body, _ := json.Marshal(map[string]interface{}{
			"email":    "dup@example.com",
			"role":     "student",
			"password": "secret-pass",
		})
		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("AdminRoutes_RequireAuth", func(t *testing.T) {
		router := newReviewRouter(&fakeService{})

		req := httptest.NewRequest(http.MethodGet, "/api/admin/applications/", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("SchoolVerify_RoleGate", func(t *testing.T) {
		svc := &fakeService{apps: map[int]*application.Application{
			5: {ID: 5, Status: application.StatusPending},
		}}
		router := newReviewRouter(svc)

		// A super admin cannot perform the school stage.
		req := httptest.NewRequest(http.MethodPost, "/api/admin/applications/5/school-verify", nil)
		req.AddCookie(superAdmin(t))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)

		req = httptest.NewRequest(http.MethodPost, "/api/admin/applications/5/school-verify", nil)
		req.AddCookie(schoolAdmin(t))
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)

		var app application.Application
		require.NoError(t, json.NewDecoder(w.Body).Decode(&app))
		assert.Equal(t, application.StatusSchoolVerified, app.Status)
	})

	t.Run("SuperVerify_RoleGate", func(t *testing.T) {
		svc := &fakeService{apps: map[int]*application.Application{
			5: {ID: 5, Status: application.StatusSchoolVerified},
		}}
		router := newReviewRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/admin/applications/5/super-verify", nil)
		req.AddCookie(schoolAdmin(t))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)

		req = httptest.NewRequest(http.MethodPost, "/api/admin/applications/5/super-verify", nil)
		req.AddCookie(superAdmin(t))
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Transition_NotFound", func(t *testing.T) {
		router := newReviewRouter(&fakeService{apps: map[int]*application.Application{}})

		req := httptest.NewRequest(http.MethodPost, "/api/admin/applications/99/reject", nil)
		req.AddCookie(schoolAdmin(t))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Transition_Conflict", func(t *testing.T) {
		svc := &fakeService{
			apps:       map[int]*application.Application{5: {ID: 5, Status: application.StatusSuperVerified}},
			transition: map[int]error{5: application.ErrInvalidTransition},
		}
		router := newReviewRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/admin/applications/5/reject", nil)
		req.AddCookie(superAdmin(t))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("List_StudentForbidden", func(t *testing.T) {
		router := newReviewRouter(&fakeService{})

		req := httptest.NewRequest(http.MethodGet, "/api/admin/applications/", nil)
		req.AddCookie(authCookie(t, 7, "ravi@example.com", identity.RoleStudent))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
