package teacher

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"school-service/internal/metrics"

	"github.com/uptrace/bun"
)

var (
	ErrTeacherNotFound = errors.New("teacher profile not found")
	ErrCourseNotFound  = errors.New("course not found")
)

type Repository interface {
	Create(ctx context.Context, t *Teacher) (*Teacher, error)
	GetByUserID(ctx context.Context, userID int) (*Teacher, error)
	ExistsForUser(ctx context.Context, userID int) (bool, error)

	CreateCourse(ctx context.Context, c *Course) (*Course, error)
	GetCourseByCode(ctx context.Context, code string) (*Course, error)
	ListCourses(ctx context.Context) ([]Course, error)

	CreateTeaching(ctx context.Context, ct *CourseTeaching) (*CourseTeaching, error)
	ListTeachings(ctx context.Context, teacherUserID int) ([]CourseTeaching, error)
	// Teaches reports whether the teacher teaches the course to the
	// given standard in the given academic year.
	Teaches(ctx context.Context, teacherUserID, courseID int, standard, academicYear string) (bool, error)

	WithTx(tx bun.IDB) Repository
}

type repository struct {
	db      bun.IDB
	metrics *metrics.Metrics
}

func NewRepository(db bun.IDB, m *metrics.Metrics) Repository {
	return &repository{
		db:      db,
		metrics: m,
	}
}

func (r *repository) WithTx(tx bun.IDB) Repository {
	return &repository{db: tx, metrics: r.metrics}
}

func (r *repository) Create(ctx context.Context, t *Teacher) (*Teacher, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(t).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "teachers", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *repository) GetByUserID(ctx context.Context, userID int) (*Teacher, error) {
	start := time.Now()
	t := new(Teacher)
	err := r.db.NewSelect().Model(t).Where("user_id = ?", userID).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "teachers", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeacherNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *repository) ExistsForUser(ctx context.Context, userID int) (bool, error) {
	start := time.Now()
	exists, err := r.db.NewSelect().
		Model((*Teacher)(nil)).
		Where("user_id = ?", userID).
		Exists(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "teachers", time.Since(start), err)

	return exists, err
}

func (r *repository) CreateCourse(ctx context.Context, c *Course) (*Course, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(c).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "courses", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *repository) GetCourseByCode(ctx context.Context, code string) (*Course, error) {
	start := time.Now()
	c := new(Course)
	err := r.db.NewSelect().Model(c).Where("course_code = ?", code).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "courses", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *repository) ListCourses(ctx context.Context) ([]Course, error) {
	start := time.Now()
	var courses []Course
	err := r.db.NewSelect().Model(&courses).Order("course_code ASC").Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "courses", time.Since(start), err)

	return courses, err
}

func (r *repository) CreateTeaching(ctx context.Context, ct *CourseTeaching) (*CourseTeaching, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(ct).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "course_teachings", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return ct, nil
}

func (r *repository) ListTeachings(ctx context.Context, teacherUserID int) ([]CourseTeaching, error) {
	start := time.Now()
	var teachings []CourseTeaching
	err := r.db.NewSelect().
		Model(&teachings).
		Where("teacher_user_id = ?", teacherUserID).
		Order("academic_year DESC", "standard ASC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "course_teachings", time.Since(start), err)

	return teachings, err
}

func (r *repository) Teaches(ctx context.Context, teacherUserID, courseID int, standard, academicYear string) (bool, error) {
	start := time.Now()
	exists, err := r.db.NewSelect().
		Model((*CourseTeaching)(nil)).
		Where("teacher_user_id = ?", teacherUserID).
		Where("course_id = ?", courseID).
		Where("standard = ?", standard).
		Where("academic_year = ?", academicYear).
		Exists(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "course_teachings", time.Since(start), err)

	return exists, err
}
