// Package promotion derives a login-capable account and a role-specific
// profile from an approved application. Promotion is invoked exactly
// when an application transitions into super_verified and runs inside
// the same transaction as the status write. Every step is guarded so
// that repeated invocation is safe: an existing account is reused, an
// existing profile short-circuits, and uniqueness violations raised by
// a concurrent actor are absorbed as already-promoted.
package promotion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"school-service/internal/application"
	"school-service/internal/db"
	"school-service/internal/identity"
	"school-service/internal/metrics"
	"school-service/internal/student"
	"school-service/internal/teacher"

	"github.com/uptrace/bun"
)

// ErrUnsupportedRole is a data-integrity condition: the Review API
// rejects unknown roles at submission, so reaching promotion with one
// means the record was tampered with or predates validation.
var ErrUnsupportedRole = errors.New("unsupported application role")

// Hasher hashes the raw credential once per new account. Never called
// when an existing account is reused.
type Hasher interface {
	Hash(raw string) (string, error)
}

// IdentityStore is the slice of the identity repository the engine needs.
type IdentityStore interface {
	GetByEmail(ctx context.Context, email string) (*identity.User, error)
	Create(ctx context.Context, user *identity.User) (*identity.User, error)
}

// StudentStore is the slice of the student repository the engine needs.
type StudentStore interface {
	ExistsForUser(ctx context.Context, userID int) (bool, error)
	Create(ctx context.Context, s *student.Student) (*student.Student, error)
}

// TeacherStore is the slice of the teacher repository the engine needs.
type TeacherStore interface {
	ExistsForUser(ctx context.Context, userID int) (bool, error)
	Create(ctx context.Context, t *teacher.Teacher) (*teacher.Teacher, error)
}

type Stores struct {
	Identities IdentityStore
	Students   StudentStore
	Teachers   TeacherStore
}

// StoreFactory binds the stores to the transaction promotion runs in.
type StoreFactory func(tx bun.IDB) Stores

// DefaultStores builds transaction-scoped repositories.
func DefaultStores(m *metrics.Metrics) StoreFactory {
	return func(tx bun.IDB) Stores {
		return Stores{
			Identities: identity.NewRepository(tx, m),
			Students:   student.NewRepository(tx, m),
			Teachers:   teacher.NewRepository(tx, m),
		}
	}
}

type Engine struct {
	stores  StoreFactory
	hasher  Hasher
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewEngine(stores StoreFactory, hasher Hasher, m *metrics.Metrics, logger *slog.Logger) *Engine {
	return &Engine{
		stores:  stores,
		hasher:  hasher,
		metrics: m,
		logger:  logger,
	}
}

// Promote materializes the account and profile for an approved
// application. Implements application.Promoter.
func (e *Engine) Promote(ctx context.Context, tx bun.IDB, app *application.Application) error {
	if !identity.ApplicantRole(app.Role) {
		return fmt.Errorf("%w: %q", ErrUnsupportedRole, app.Role)
	}

	stores := e.stores(tx)

	user, err := e.resolveIdentity(ctx, stores.Identities, app)
	if err != nil {
		return err
	}

	switch app.Role {
	case identity.RoleStudent:
		err = e.createStudentProfile(ctx, stores.Students, app, user)
	case identity.RoleTeacher:
		err = e.createTeacherProfile(ctx, stores.Teachers, app, user)
	}
	if err != nil {
		return err
	}

	return nil
}

// resolveIdentity finds or creates the account for the application's
// email. An existing account is reused as-is: the credential is not
// re-hashed and no fields are overwritten. This also repairs a prior
// partial promotion, resuming at the profile step.
func (e *Engine) resolveIdentity(ctx context.Context, identities IdentityStore, app *application.Application) (*identity.User, error) {
	user, err := identities.GetByEmail(ctx, app.Email)
	if err == nil {
		e.logger.InfoContext(ctx, "reusing existing account for promotion",
			"email", app.Email, "user_id", user.ID)
		return user, nil
	}
	if !errors.Is(err, identity.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := e.hasher.Hash(app.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash credential: %w", err)
	}

	user, err = identities.Create(ctx, &identity.User{
		Email:    app.Email,
		Name:     resolveDisplayName(app),
		Role:     app.Role,
		Password: hashed,
		IsActive: true,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			// A concurrent actor created the account first; use theirs.
			return identities.GetByEmail(ctx, app.Email)
		}
		return nil, err
	}

	e.logger.InfoContext(ctx, "account created from application",
		"email", user.Email, "role", user.Role, "user_id", user.ID)

	return user, nil
}

func (e *Engine) createStudentProfile(ctx context.Context, students StudentStore, app *application.Application, user *identity.User) error {
	exists, err := students.ExistsForUser(ctx, user.ID)
	if err != nil {
		return err
	}
	if exists {
		e.metrics.RecordPromotionSkipped(ctx)
		e.logger.InfoContext(ctx, "student profile already exists, skipping", "user_id", user.ID)
		return nil
	}

	profile, err := students.Create(ctx, buildStudentProfile(app, user.ID))
	if err != nil {
		if db.IsUniqueViolation(err) {
			e.metrics.RecordPromotionSkipped(ctx)
			return nil
		}
		return err
	}

	e.metrics.RecordPromotionCompleted(ctx)
	e.logger.InfoContext(ctx, "student profile created",
		"user_id", user.ID, "student_id", profile.StudentID, "standard", profile.Standard)

	return nil
}

func (e *Engine) createTeacherProfile(ctx context.Context, teachers TeacherStore, app *application.Application, user *identity.User) error {
	exists, err := teachers.ExistsForUser(ctx, user.ID)
	if err != nil {
		return err
	}
	if exists {
		e.metrics.RecordPromotionSkipped(ctx)
		e.logger.InfoContext(ctx, "teacher profile already exists, skipping", "user_id", user.ID)
		return nil
	}

	profile, err := teachers.Create(ctx, buildTeacherProfile(app, user.ID))
	if err != nil {
		if db.IsUniqueViolation(err) {
			e.metrics.RecordPromotionSkipped(ctx)
			return nil
		}
		return err
	}

	e.metrics.RecordPromotionCompleted(ctx)
	e.logger.InfoContext(ctx, "teacher profile created",
		"user_id", user.ID, "teacher_id", profile.TeacherID, "department", profile.Department)

	return nil
}
