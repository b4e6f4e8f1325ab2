package gradebook

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"school-service/internal/metrics"

	"github.com/uptrace/bun"
)

var ErrEnrollmentNotFound = errors.New("enrollment not found")

// PerformanceEntry is one row of a student's report card.
type PerformanceEntry struct {
	EnrollmentID         int     `bun:"enrollment_id" json:"enrollmentId"`
	CourseCode           string  `bun:"course_code" json:"courseCode"`
	CourseName           string  `bun:"course_name" json:"courseName"`
	AcademicYear         string  `bun:"academic_year" json:"academicYear"`
	Grade                string  `bun:"grade" json:"grade"`
	MarksObtained        float64 `bun:"marks_obtained" json:"marksObtained"`
	TotalMarks           float64 `bun:"total_marks" json:"totalMarks"`
	AttendancePercentage float64 `bun:"attendance_percentage" json:"attendancePercentage"`
}

type marksAggregate struct {
	StudentCount int      `bun:"student_count"`
	AverageMarks *float64 `bun:"average_marks"`
	HighestMarks *float64 `bun:"highest_marks"`
	LowestMarks  *float64 `bun:"lowest_marks"`
	PassedCount  int      `bun:"passed_count"`
}

type Repository interface {
	Create(ctx context.Context, e *Enrollment) (*Enrollment, error)
	GetByID(ctx context.Context, id int) (*Enrollment, error)
	ListForTeacher(ctx context.Context, teacherUserID int) ([]Enrollment, error)
	UpdateMarks(ctx context.Context, e *Enrollment) error
	Performance(ctx context.Context, studentUserID int) ([]PerformanceEntry, error)
	Aggregate(ctx context.Context, courseID int, standard, academicYear string) (*marksAggregate, error)
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

func (r *repository) Create(ctx context.Context, e *Enrollment) (*Enrollment, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(e).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "enrollments", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Enrollment, error) {
	start := time.Now()
	e := new(Enrollment)
	err := r.db.NewSelect().Model(e).Where("e.id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "enrollments", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, err
	}
	return e, nil
}

// ListForTeacher returns the enrollments in courses the teacher has a
// teaching assignment for, scoped to the classes they teach.
func (r *repository) ListForTeacher(ctx context.Context, teacherUserID int) ([]Enrollment, error) {
	start := time.Now()
	var enrollments []Enrollment
	err := r.db.NewSelect().
		Model(&enrollments).
		Join("JOIN students AS s ON s.user_id = e.student_user_id").
		Join("JOIN course_teachings AS ct ON ct.course_id = e.course_id AND ct.standard = s.standard AND ct.academic_year = e.academic_year").
		Where("ct.teacher_user_id = ?", teacherUserID).
		Order("e.id ASC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "enrollments", time.Since(start), err)

	return enrollments, err
}

func (r *repository) UpdateMarks(ctx context.Context, e *Enrollment) error {
	start := time.Now()
	res, err := r.db.NewUpdate().
		Model(e).
		Column("marks_obtained", "total_marks", "attendance_percentage", "grade").
		WherePK().
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "enrollments", time.Since(start), err)

	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrEnrollmentNotFound
	}
	return nil
}

func (r *repository) Performance(ctx context.Context, studentUserID int) ([]PerformanceEntry, error) {
	start := time.Now()
	var entries []PerformanceEntry
	err := r.db.NewSelect().
		Model((*Enrollment)(nil)).
		ColumnExpr("e.id AS enrollment_id").
		ColumnExpr("c.course_code, c.course_name").
		ColumnExpr("e.academic_year, e.grade, e.marks_obtained, e.total_marks, e.attendance_percentage").
		Join("JOIN courses AS c ON c.id = e.course_id").
		Where("e.student_user_id = ?", studentUserID).
		Order("e.academic_year ASC", "c.course_code ASC").
		Scan(ctx, &entries)

	r.metrics.Database.RecordQuery(ctx, "select", "enrollments", time.Since(start), err)

	return entries, err
}

// Aggregate computes marks statistics over every enrollment of one
// course for one class and year. Pass threshold applied on percentage.
func (r *repository) Aggregate(ctx context.Context, courseID int, standard, academicYear string) (*marksAggregate, error) {
	start := time.Now()
	agg := new(marksAggregate)
	err := r.db.NewSelect().
		Model((*Enrollment)(nil)).
		ColumnExpr("count(*) AS student_count").
		ColumnExpr("avg(e.marks_obtained) AS average_marks").
		ColumnExpr("max(e.marks_obtained) AS highest_marks").
		ColumnExpr("min(e.marks_obtained) AS lowest_marks").
		ColumnExpr("count(*) FILTER (WHERE e.marks_obtained * 100.0 / e.total_marks >= ?) AS passed_count", PassMark).
		Join("JOIN students AS s ON s.user_id = e.student_user_id").
		Where("e.course_id = ?", courseID).
		Where("s.standard = ?", standard).
		Where("e.academic_year = ?", academicYear).
		Scan(ctx, agg)

	r.metrics.Database.RecordQuery(ctx, "select", "enrollments", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return agg, nil
}
