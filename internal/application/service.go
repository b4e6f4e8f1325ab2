package application

import (
	"context"
	"errors"
	"log/slog"

	"school-service/internal/db"
	"school-service/internal/messaging"
	"school-service/internal/metrics"

	"github.com/uptrace/bun"
)

var (
	ErrEmailExists       = errors.New("an application with this email already exists")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidStatus     = errors.New("unknown status")
)

// Promoter materializes an account and profile from an approved
// application. It runs inside the same transaction as the status write.
type Promoter interface {
	Promote(ctx context.Context, tx bun.IDB, app *Application) error
}

type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (*Application, error)
	List(ctx context.Context, status string) ([]Application, error)
	SchoolVerify(ctx context.Context, id int) (*Application, error)
	SuperVerify(ctx context.Context, id int) (*Application, error)
	Reject(ctx context.Context, id int) (*Application, error)
}

type service struct {
	db       *bun.DB
	repo     Repository
	promoter Promoter
	producer messaging.Producer
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewService(bdb *bun.DB, repo Repository, promoter Promoter, producer messaging.Producer, m *metrics.Metrics, logger *slog.Logger) Service {
	return &service{
		db:       bdb,
		repo:     repo,
		promoter: promoter,
		producer: producer,
		metrics:  m,
		logger:   logger,
	}
}

// Submit creates a pending application. Duplicate emails are rejected
// before anything is persisted; the unique constraint backstops races.
func (s *service) Submit(ctx context.Context, req SubmitRequest) (*Application, error) {
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, ErrApplicationNotFound) {
		return nil, err
	}

	app, err := s.repo.Create(ctx, req.ToApplication())
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	s.metrics.RecordApplicationSubmitted(ctx)
	s.publish(ctx, EventSubmitted, app)

	return app, nil
}

func (s *service) List(ctx context.Context, status string) ([]Application, error) {
	st := Status(status)
	if status != "" && !st.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.repo.List(ctx, st)
}

// SchoolVerify moves a pending application to school_verified.
func (s *service) SchoolVerify(ctx context.Context, id int) (*Application, error) {
	app, err := s.transition(ctx, id, StatusSchoolVerified)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordApplicationVerified(ctx, "school")
	s.publish(ctx, EventSchoolVerified, app)

	return app, nil
}

// SuperVerify moves a school_verified application to super_verified and
// fires promotion inside the same transaction.
func (s *service) SuperVerify(ctx context.Context, id int) (*Application, error) {
	app, err := s.transition(ctx, id, StatusSuperVerified)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordApplicationVerified(ctx, "super")
	s.publish(ctx, EventSuperVerified, app)
	s.publish(ctx, EventPromoted, app)

	return app, nil
}

// Reject moves a non-terminal application to rejected.
func (s *service) Reject(ctx context.Context, id int) (*Application, error) {
	app, err := s.transition(ctx, id, StatusRejected)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordApplicationRejected(ctx)
	s.publish(ctx, EventRejected, app)

	return app, nil
}

// transition performs a locked read-modify-write of the application's
// status. The row lock serializes concurrent transitions on the same
// application, so promotion fires at most once; the losing call
// re-reads a terminal status and fails the precondition.
func (s *service) transition(ctx context.Context, id int, to Status) (*Application, error) {
	var app *Application

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		repo := s.repo.WithTx(tx)

		a, err := repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		from := a.Status
		if !CanTransition(from, to) {
			return ErrInvalidTransition
		}

		a.Status = to
		if err := repo.UpdateStatus(ctx, a); err != nil {
			return err
		}

		if PromotionFires(from, to) {
			if err := s.promoter.Promote(ctx, tx, a); err != nil {
				return err
			}
		}

		app = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	return app, nil
}

// publish emits a lifecycle event. Broker failures are logged and
// never fail the request.
func (s *service) publish(ctx context.Context, event string, app *Application) {
	if s.producer == nil {
		return
	}

	payload := Event{
		Event:         event,
		ApplicationID: app.ID,
		Email:         app.Email,
		Role:          app.Role,
		Status:        app.Status,
	}

	if err := s.producer.SendMessage(app.Email, payload); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish application event", "event", event, "error", err)
	}
}
