package promotion

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"school-service/internal/application"
	"school-service/internal/identity"
	"school-service/internal/metrics"
	"school-service/internal/student"
	"school-service/internal/teacher"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type fakeIdentities struct {
	byEmail map[string]*identity.User
	nextID  int
	created []*identity.User
	err     error
}

func (f *fakeIdentities) GetByEmail(_ context.Context, email string) (*identity.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, identity.ErrUserNotFound
}

func (f *fakeIdentities) Create(_ context.Context, user *identity.User) (*identity.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	user.ID = f.nextID
	f.byEmail[user.Email] = user
	f.created = append(f.created, user)
	return user, nil
}

type fakeStudents struct {
	existing map[int]bool
	created  []*student.Student
	err      error
}

func (f *fakeStudents) ExistsForUser(_ context.Context, userID int) (bool, error) {
	return f.existing[userID], nil
}

func (f *fakeStudents) Create(_ context.Context, s *student.Student) (*student.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, s)
	return s, nil
}

type fakeTeachers struct {
	existing map[int]bool
	created  []*teacher.Teacher
}

func (f *fakeTeachers) ExistsForUser(_ context.Context, userID int) (bool, error) {
	return f.existing[userID], nil
}

func (f *fakeTeachers) Create(_ context.Context, tp *teacher.Teacher) (*teacher.Teacher, error) {
	f.created = append(f.created, tp)
	return tp, nil
}

type countingHasher struct {
	calls int
}

func (h *countingHasher) Hash(raw string) (string, error) {
	h.calls++
	return "hashed:" + raw, nil
}

type fixture struct {
	engine     *Engine
	identities *fakeIdentities
	students   *fakeStudents
	teachers   *fakeTeachers
	hasher     *countingHasher
}

func newFixture() *fixture {
	f := &fixture{
		identities: &fakeIdentities{byEmail: map[string]*identity.User{}},
		students:   &fakeStudents{existing: map[int]bool{}},
		teachers:   &fakeTeachers{existing: map[int]bool{}},
		hasher:     &countingHasher{},
	}
	stores := func(_ bun.IDB) Stores {
		return Stores{
			Identities: f.identities,
			Students:   f.students,
			Teachers:   f.teachers,
		}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.engine = NewEngine(stores, f.hasher, metrics.NewMock(), logger)
	return f
}

func TestPromoteCreatesStudentAccountAndProfile(t *testing.T) {
	f := newFixture()

	app := &application.Application{
		Name:     "Ravi Kumar",
		Email:    "ravi@example.com",
		Role:     identity.RoleStudent,
		Password: "secret-pass",
		Standard: "5",
	}

	err := f.engine.Promote(context.Background(), nil, app)
	require.NoError(t, err)

	require.Len(t, f.identities.created, 1)
	user := f.identities.created[0]
	assert.Equal(t, "ravi@example.com", user.Email)
	assert.Equal(t, "Ravi Kumar", user.Name)
	assert.Equal(t, identity.RoleStudent, user.Role)
	assert.Equal(t, "hashed:secret-pass", user.Password)
	assert.True(t, user.IsActive)
	assert.Equal(t, 1, f.hasher.calls)

	require.Len(t, f.students.created, 1)
	profile := f.students.created[0]
	assert.Equal(t, user.ID, profile.UserID)
	assert.Equal(t, "STU0001", profile.StudentID)
	assert.Equal(t, "5", profile.Standard)
	assert.Empty(t, f.teachers.created)
}

func TestPromoteCreatesTeacherProfile(t *testing.T) {
	f := newFixture()

	app := &application.Application{
		Email:    "meera@example.com",
		Role:     identity.RoleTeacher,
		Password: "secret-pass",
	}

	err := f.engine.Promote(context.Background(), nil, app)
	require.NoError(t, err)

	require.Len(t, f.teachers.created, 1)
	profile := f.teachers.created[0]
	assert.Equal(t, "TCH0001", profile.TeacherID)
	assert.Equal(t, teacher.DepartmentPrimary, profile.Department)
	assert.Empty(t, f.students.created)

	// Blank applicant name falls back to a synthesized one.
	assert.Equal(t, "User meera@example.com", f.identities.created[0].Name)
}

func TestPromoteReusesExistingAccount(t *testing.T) {
	f := newFixture()
	f.identities.byEmail["ravi@example.com"] = &identity.User{
		ID:       17,
		Email:    "ravi@example.com",
		Role:     identity.RoleStudent,
		Password: "already-hashed",
	}

	app := &application.Application{
		Email:    "ravi@example.com",
		Role:     identity.RoleStudent,
		Password: "secret-pass",
	}

	err := f.engine.Promote(context.Background(), nil, app)
	require.NoError(t, err)

	assert.Empty(t, f.identities.created, "must not create a second account")
	assert.Zero(t, f.hasher.calls, "must not re-hash an existing credential")

	require.Len(t, f.students.created, 1)
	assert.Equal(t, 17, f.students.created[0].UserID)
	assert.Equal(t, "STU0017", f.students.created[0].StudentID)
}

func TestPromoteSkipsExistingProfile(t *testing.T) {
	f := newFixture()
	f.identities.byEmail["ravi@example.com"] = &identity.User{
		ID:    17,
		Email: "ravi@example.com",
		Role:  identity.RoleStudent,
	}
	f.students.existing[17] = true

	app := &application.Application{
		Email:    "ravi@example.com",
		Role:     identity.RoleStudent,
		Password: "secret-pass",
	}

	err := f.engine.Promote(context.Background(), nil, app)
	require.NoError(t, err)
	assert.Empty(t, f.students.created)
}

func TestPromoteRejectsUnsupportedRole(t *testing.T) {
	f := newFixture()

	app := &application.Application{
		Email:    "root@example.com",
		Role:     identity.RoleSuperAdmin,
		Password: "secret-pass",
	}

	err := f.engine.Promote(context.Background(), nil, app)
	require.ErrorIs(t, err, ErrUnsupportedRole)
	assert.Empty(t, f.identities.created)
}

func TestPromotePropagatesStoreErrors(t *testing.T) {
	f := newFixture()
	storeErr := errors.New("connection reset")
	f.identities.err = storeErr

	app := &application.Application{
		Email:    "ravi@example.com",
		Role:     identity.RoleStudent,
		Password: "secret-pass",
	}

	err := f.engine.Promote(context.Background(), nil, app)
	require.ErrorIs(t, err, storeErr)
	assert.Empty(t, f.students.created)
}
