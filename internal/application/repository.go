package application

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"school-service/internal/metrics"

	"github.com/uptrace/bun"
)

var ErrApplicationNotFound = errors.New("application not found")

type Repository interface {
	Create(ctx context.Context, app *Application) (*Application, error)
	GetByID(ctx context.Context, id int) (*Application, error)
	// GetByIDForUpdate locks the row for the duration of the enclosing
	// transaction so concurrent transitions serialize.
	GetByIDForUpdate(ctx context.Context, id int) (*Application, error)
	GetByEmail(ctx context.Context, email string) (*Application, error)
	List(ctx context.Context, status Status) ([]Application, error)
	UpdateStatus(ctx context.Context, app *Application) error
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

func (r *repository) Create(ctx context.Context, app *Application) (*Application, error) {
	start := time.Now()
	_, err := r.db.NewInsert().Model(app).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "applications", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return app, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Application, error) {
	start := time.Now()
	app := new(Application)
	err := r.db.NewSelect().Model(app).Where("id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "applications", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

func (r *repository) GetByIDForUpdate(ctx context.Context, id int) (*Application, error) {
	start := time.Now()
	app := new(Application)
	err := r.db.NewSelect().
		Model(app).
		Where("id = ?", id).
		For("UPDATE").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "applications", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Application, error) {
	start := time.Now()
	app := new(Application)
	err := r.db.NewSelect().Model(app).Where("email = ?", email).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "applications", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

func (r *repository) List(ctx context.Context, status Status) ([]Application, error) {
	start := time.Now()
	var apps []Application
	q := r.db.NewSelect().Model(&apps).Order("applied_on ASC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "applications", time.Since(start), err)

	return apps, err
}

func (r *repository) UpdateStatus(ctx context.Context, app *Application) error {
	start := time.Now()
	result, err := r.db.NewUpdate().
		Model(app).
		Column("status").
		WherePK().
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "applications", time.Since(start), err)

	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}
