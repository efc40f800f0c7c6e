// Package service holds the application use cases for the client aggregate.
// Each operation orchestrates entity + store + event publisher; entity
// invariants live in models, storage detail lives behind ClientStore.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	clientmetrics "ngx/internal/client/metrics"
	"ngx/internal/client/models"
	"ngx/internal/events"
	"ngx/pkg/domain"
	dErrors "ngx/pkg/domain-errors"
	"ngx/pkg/platform/sentinel"
)

// ClientStore is the persistence contract for the client aggregate. Clients
// are saved and loaded whole; absence is reported with sentinel.ErrNotFound
// by the FindBy* methods and never by Exists*/Delete. List methods must
// order stably (created_at, then id) so a fixed filter pages consistently.
type ClientStore interface {
	// Save upserts by id. Idempotent: saving the same state twice is safe.
	Save(ctx context.Context, client *models.Client) error
	FindByID(ctx context.Context, id domain.ClientID) (*models.Client, error)
	FindByEmail(ctx context.Context, email domain.Email) (*models.Client, error)
	FindAll(ctx context.Context, page models.Page) ([]*models.Client, error)
	FindByStatus(ctx context.Context, status models.ClientStatus, page models.Page) ([]*models.Client, error)
	FindByProgramType(ctx context.Context, programType models.ProgramType, page models.Page) ([]*models.Client, error)
	Search(ctx context.Context, query string, page models.Page) ([]*models.Client, error)
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status models.ClientStatus) (int, error)
	CountByProgramType(ctx context.Context, programType models.ProgramType) (int, error)
	CountBySearch(ctx context.Context, query string) (int, error)
	Exists(ctx context.Context, id domain.ClientID) (bool, error)
	ExistsByEmail(ctx context.Context, email domain.Email) (bool, error)
	// Delete reports whether a record was actually removed; deleting an
	// absent client is not an error.
	Delete(ctx context.Context, id domain.ClientID) (bool, error)
	AnalyticsData(ctx context.Context, filter models.AnalyticsFilter) (*models.AnalyticsData, error)
}

// Service orchestrates client use cases. Construct once and share; all
// methods are safe for concurrent use. There is no per-client mutual
// exclusion: two concurrent updates to the same client race and the last
// save wins, because the store contract carries no concurrency token.
type Service struct {
	store     ClientStore
	publisher events.Publisher
	logger    *slog.Logger
	metrics   *clientmetrics.Metrics
	tracer    trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithPublisher(publisher events.Publisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

func WithMetrics(m *clientmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs a client Service around a store.
func New(store ClientStore, opts ...Option) *Service {
	s := &Service{
		store:  store,
		tracer: otel.Tracer("ngx/client"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// publish hands an event to the sink after a successful state change.
// The sink is fire-and-forget: failures are logged, never propagated into
// the use case that already committed.
func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "event publish failed",
			"event_type", event.Type,
			"client_id", event.ClientID,
			"error", err,
		)
	}
}

// notFound translates store absence into the typed domain condition.
func notFound(id domain.ClientID) error {
	return dErrors.New(dErrors.CodeNotFound, "client not found").
		WithDetail("client_id", id.String())
}

// wrapStoreErr normalizes store failures: absence becomes not_found,
// everything else stays an infrastructure fault.
func wrapStoreErr(err error, id domain.ClientID, action string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return notFound(id)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+action)
}
