package student

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"school-service/internal/metrics"

	"github.com/uptrace/bun"
)

var ErrStudentNotFound = errors.New("student profile not found")

type Repository interface {
	Create(ctx context.Context, s *Student) (*Student, error)
	GetByUserID(ctx context.Context, userID int) (*Student, error)
	ExistsForUser(ctx context.Context, userID int) (bool, error)
	ListByStandard(ctx context.Context, standards []string) ([]Student, error)
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

func (r *repository) Create(ctx context.Context, s *Student) (*Student, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(s).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "students", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *repository) GetByUserID(ctx context.Context, userID int) (*Student, error) {
	start := time.Now()
	s := new(Student)
	err := r.db.NewSelect().Model(s).Where("user_id = ?", userID).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "students", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *repository) ExistsForUser(ctx context.Context, userID int) (bool, error) {
	start := time.Now()
	exists, err := r.db.NewSelect().
		Model((*Student)(nil)).
		Where("user_id = ?", userID).
		Exists(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "students", time.Since(start), err)

	return exists, err
}

func (r *repository) ListByStandard(ctx context.Context, standards []string) ([]Student, error) {
	start := time.Now()
	var students []Student
	err := r.db.NewSelect().
		Model(&students).
		Where("standard IN (?)", bun.In(standards)).
		Order("student_id ASC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "students", time.Since(start), err)

	return students, err
}
