package metrics

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	Database *DatabaseMetrics

	applicationsSubmitted metric.Int64Counter
	applicationsVerified  metric.Int64Counter
	applicationsRejected  metric.Int64Counter
	promotionsCompleted   metric.Int64Counter
	promotionsSkipped     metric.Int64Counter
	logins                metric.Int64Counter
	enrollmentsCreated    metric.Int64Counter
	marksUpdated          metric.Int64Counter
}

func New(ctx context.Context, serviceName string, logger *slog.Logger) (*Metrics, error) {
	meter := otel.Meter(serviceName)

	m := &Metrics{}

	var err error

	m.Database, err = NewDatabaseMetrics(meter)
	if err != nil {
		return nil, err
	}

	m.applicationsSubmitted, err = meter.Int64Counter(
		"school_service.applications.submitted",
		metric.WithDescription("Total number of admission applications submitted"),
		metric.WithUnit("{application}"),
	)
	if err != nil {
		return nil, err
	}

	m.applicationsVerified, err = meter.Int64Counter(
		"school_service.applications.verified",
		metric.WithDescription("Total number of application verifications, by stage"),
		metric.WithUnit("{application}"),
	)
	if err != nil {
		return nil, err
	}

	m.applicationsRejected, err = meter.Int64Counter(
		"school_service.applications.rejected",
		metric.WithDescription("Total number of applications rejected"),
		metric.WithUnit("{application}"),
	)
	if err != nil {
		return nil, err
	}

	m.promotionsCompleted, err = meter.Int64Counter(
		"school_service.promotions.completed",
		metric.WithDescription("Total number of applications promoted into accounts"),
		metric.WithUnit("{promotion}"),
	)
	if err != nil {
		return nil, err
	}

	m.promotionsSkipped, err = meter.Int64Counter(
		"school_service.promotions.skipped",
		metric.WithDescription("Total number of promotion invocations skipped by idempotency guards"),
		metric.WithUnit("{promotion}"),
	)
	if err != nil {
		return nil, err
	}

	m.logins, err = meter.Int64Counter(
		"school_service.auth.logins",
		metric.WithDescription("Total number of successful logins"),
		metric.WithUnit("{login}"),
	)
	if err != nil {
		return nil, err
	}

	m.enrollmentsCreated, err = meter.Int64Counter(
		"school_service.enrollments.created",
		metric.WithDescription("Total number of course enrollments created"),
		metric.WithUnit("{enrollment}"),
	)
	if err != nil {
		return nil, err
	}

	m.marksUpdated, err = meter.Int64Counter(
		"school_service.enrollments.marks_updated",
		metric.WithDescription("Total number of marks updates"),
		metric.WithUnit("{update}"),
	)
	if err != nil {
		return nil, err
	}

	logger.Info("metrics collectors initialized successfully")

	return m, nil
}

// NewMock creates a no-op Metrics instance for testing
// The returned Metrics will safely ignore all Record* calls
func NewMock() *Metrics {
	return &Metrics{
		Database: &DatabaseMetrics{},
	}
}

func (m *Metrics) RecordApplicationSubmitted(ctx context.Context) {
	if m.applicationsSubmitted != nil {
		m.applicationsSubmitted.Add(ctx, 1)
	}
}

func (m *Metrics) RecordApplicationVerified(ctx context.Context, stage string) {
	if m.applicationsVerified != nil {
		m.applicationsVerified.Add(ctx, 1, metric.WithAttributes(stageAttr(stage)))
	}
}

func (m *Metrics) RecordApplicationRejected(ctx context.Context) {
	if m.applicationsRejected != nil {
		m.applicationsRejected.Add(ctx, 1)
	}
}

func (m *Metrics) RecordPromotionCompleted(ctx context.Context) {
	if m.promotionsCompleted != nil {
		m.promotionsCompleted.Add(ctx, 1)
	}
}

func (m *Metrics) RecordPromotionSkipped(ctx context.Context) {
	if m.promotionsSkipped != nil {
		m.promotionsSkipped.Add(ctx, 1)
	}
}

func (m *Metrics) RecordLogin(ctx context.Context) {
	if m.logins != nil {
		m.logins.Add(ctx, 1)
	}
}

func (m *Metrics) RecordEnrollmentCreated(ctx context.Context) {
	if m.enrollmentsCreated != nil {
		m.enrollmentsCreated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordMarksUpdated(ctx context.Context) {
	if m.marksUpdated != nil {
		m.marksUpdated.Add(ctx, 1)
	}
}
