// Package analytics composes the event stores, the pure classifiers, and the
// snapshot cache into the read surface consumed by reporting. Every operation
// takes its data as a snapshot anchored on the single request-scoped "now",
// computes a fresh result, and caches it under a TTL.
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"padoca/internal/analytics/cache"
	"padoca/internal/analytics/metrics"
	"padoca/internal/cadence"
	"padoca/internal/confirmation"
	"padoca/internal/eventstore"
	"padoca/internal/performance"
	"padoca/internal/reschedule"
	"padoca/internal/turnover"
	id "padoca/pkg/domain"
	dErrors "padoca/pkg/domain-errors"
	"padoca/pkg/platform/sentinel"
	"padoca/pkg/requestcontext"
)

// Snapshot kinds used in cache keys and metrics labels.
const (
	kindGiro         = "giro"
	kindClientGiro   = "client_giro"
	kindCadence      = "cadence"
	kindConfirmation = "confirmation"
	kindPerformance  = "performance"
	kindProduction   = "production"
)

// Service computes and serves the derived analytics snapshots.
type Service struct {
	events      eventstore.Store
	reschedules reschedule.Store
	recorder    *reschedule.Recorder

	cache       cache.SnapshotCache
	metrics     *metrics.Metrics
	logger      *slog.Logger
	tracer      trace.Tracer
	window      turnover.Window
	scoreParams confirmation.Params
	workerLimit int
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithCache(c cache.SnapshotCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

func WithWindow(w turnover.Window) Option {
	return func(s *Service) {
		s.window = w
	}
}

func WithScoreParams(p confirmation.Params) Option {
	return func(s *Service) {
		s.scoreParams = p
	}
}

func WithWorkerLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workerLimit = n
		}
	}
}

func New(events eventstore.Store, reschedules reschedule.Store, recorder *reschedule.Recorder, opts ...Option) (*Service, error) {
	if events == nil {
		return nil, fmt.Errorf("event store is required")
	}
	if reschedules == nil {
		return nil, fmt.Errorf("reschedule store is required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("reschedule recorder is required")
	}

	svc := &Service{
		events:      events,
		reschedules: reschedules,
		recorder:    recorder,
		tracer:      otel.Tracer("padoca/internal/analytics"),
		window:      turnover.DefaultWindow,
		scoreParams: confirmation.DefaultParams,
		workerLimit: 8,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// GiroSnapshot returns the fleet-wide rolling turnover.
func (s *Service) GiroSnapshot(ctx context.Context) (turnover.FleetSnapshot, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.GiroSnapshot")
	defer span.End()

	return cached(ctx, s, kindGiro, "", func(ctx context.Context) (turnover.FleetSnapshot, error) {
		now := requestcontext.Now(ctx)

		clients, err := s.events.ListActiveClients(ctx)
		if err != nil {
			return turnover.FleetSnapshot{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list active clients")
		}
		events, err := s.listEvents(ctx, nil, now)
		if err != nil {
			return turnover.FleetSnapshot{}, err
		}

		return turnover.AggregateFleet(events, len(clients), now, s.window), nil
	})
}

// ClientGiro returns one client's rolling turnover.
func (s *Service) ClientGiro(ctx context.Context, clientID id.ClientID) (turnover.Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.ClientGiro")
	defer span.End()

	return cached(ctx, s, kindClientGiro, clientID, func(ctx context.Context) (turnover.Snapshot, error) {
		now := requestcontext.Now(ctx)
		events, err := s.listEvents(ctx, []id.ClientID{clientID}, now)
		if err != nil {
			return turnover.Snapshot{}, err
		}
		return turnover.Aggregate(events, now, s.window), nil
	})
}

// CadenceDivergence classifies a client's observed rhythm against its
// configured periodicity.
func (s *Service) CadenceDivergence(ctx context.Context, clientID id.ClientID) (cadence.Divergence, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.CadenceDivergence")
	defer span.End()

	return cached(ctx, s, kindCadence, clientID, func(ctx context.Context) (cadence.Divergence, error) {
		now := requestcontext.Now(ctx)

		config, err := s.getConfig(ctx, clientID)
		if err != nil {
			return cadence.Divergence{}, err
		}
		events, err := s.listEvents(ctx, []id.ClientID{clientID}, now)
		if err != nil {
			return cadence.Divergence{}, err
		}

		return cadence.Classify(*config, events, now, s.window)
	})
}

// ConfirmationScore computes a client's confirmation-reliability score.
func (s *Service) ConfirmationScore(ctx context.Context, clientID id.ClientID) (confirmation.Score, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.ConfirmationScore")
	defer span.End()

	return cached(ctx, s, kindConfirmation, clientID, func(ctx context.Context) (confirmation.Score, error) {
		now := requestcontext.Now(ctx)
		history, err := s.buildHistory(ctx, clientID, now)
		if err != nil {
			return confirmation.Score{}, err
		}
		return confirmation.Compute(history, now, s.scoreParams), nil
	})
}

// PerformanceStatus classifies a client's actual weekly turnover against its
// configured target.
func (s *Service) PerformanceStatus(ctx context.Context, clientID id.ClientID) (performance.Status, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.PerformanceStatus")
	defer span.End()

	return cached(ctx, s, kindPerformance, clientID, func(ctx context.Context) (performance.Status, error) {
		now := requestcontext.Now(ctx)

		config, err := s.getConfig(ctx, clientID)
		if err != nil {
			return performance.Status{}, err
		}
		events, err := s.listEvents(ctx, []id.ClientID{clientID}, now)
		if err != nil {
			return performance.Status{}, err
		}

		actual := turnover.Aggregate(events, now, s.window).WeeklyTurnover
		return performance.Classify(id.EntityID(clientID), float64(actual), float64(config.TargetWeeklyTurnover)), nil
	})
}

// RescheduleSummary rolls recorded reschedules into fleet statistics. An
// empty filter means the whole fleet.
func (s *Service) RescheduleSummary(ctx context.Context, clientIDs []id.ClientID) (reschedule.Summary, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.RescheduleSummary")
	defer span.End()

	start := time.Now()
	events, err := s.reschedules.ListByClients(ctx, clientIDs)
	if err != nil {
		return reschedule.Summary{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list reschedule events")
	}
	summary := reschedule.Summarize(events)
	s.metrics.ObserveSnapshotDuration("reschedule_summary", time.Since(start))
	return summary, nil
}

// ProductionNeeds returns per-product weekly means for production planning.
func (s *Service) ProductionNeeds(ctx context.Context) ([]turnover.ProductTurnover, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.ProductionNeeds")
	defer span.End()

	return cached(ctx, s, kindProduction, "", func(ctx context.Context) ([]turnover.ProductTurnover, error) {
		now := requestcontext.Now(ctx)
		events, err := s.listEvents(ctx, nil, now)
		if err != nil {
			return nil, err
		}
		return turnover.AggregateByProduct(events, now, s.window), nil
	})
}

// RecordReschedule runs the recorder and invalidates the affected client's
// cached snapshots. Called synchronously from the scheduling write path.
func (s *Service) RecordReschedule(ctx context.Context, clientID id.ClientID, originalDate, newDate time.Time) (*reschedule.Event, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.RecordReschedule")
	defer span.End()

	event, err := s.recorder.Record(ctx, clientID, originalDate, newDate)
	if err != nil {
		s.metrics.RecordRescheduleOutcome("error")
		return nil, err
	}
	if event == nil {
		s.metrics.RecordRescheduleOutcome("no_op")
		return nil, nil
	}
	s.metrics.RecordRescheduleOutcome("recorded")

	s.invalidate(ctx, clientID)
	return event, nil
}

// InvalidateClient drops a client's cached snapshots. Exposed for the ingest
// consumer, which reacts to delivery-event writes made by other services.
func (s *Service) InvalidateClient(ctx context.Context, clientID id.ClientID) {
	s.invalidate(ctx, clientID)
}

func (s *Service) invalidate(ctx context.Context, clientID id.ClientID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, clientID); err != nil && s.logger != nil {
		// Stale entries age out via TTL; losing an invalidation is not fatal.
		s.logger.WarnContext(ctx, "snapshot cache invalidation failed",
			"client_id", clientID,
			"error", err,
		)
	}
}

func (s *Service) listEvents(ctx context.Context, clientIDs []id.ClientID, now time.Time) ([]eventstore.DeliveryEvent, error) {
	since := now.AddDate(0, 0, -s.window.Days)
	events, err := s.events.ListDeliveryEvents(ctx, clientIDs, since, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list delivery events")
	}
	return events, nil
}

func (s *Service) getConfig(ctx context.Context, clientID id.ClientID) (*eventstore.CadenceConfig, error) {
	config, err := s.events.GetCadenceConfig(ctx, clientID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "cadence config not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to get cadence config")
	}
	return config, nil
}

func (s *Service) buildHistory(ctx context.Context, clientID id.ClientID, now time.Time) (confirmation.History, error) {
	events, err := s.listEvents(ctx, []id.ClientID{clientID}, now)
	if err != nil {
		return confirmation.History{}, err
	}
	reschedules, err := s.reschedules.ListByClients(ctx, []id.ClientID{clientID})
	if err != nil {
		return confirmation.History{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list reschedule events")
	}

	history := confirmation.History{ClientID: clientID}
	for _, ev := range events {
		if ev.Kind == eventstore.KindDelivery {
			history.DeliveryTimes = append(history.DeliveryTimes, ev.OccurredAt)
		}
	}
	for _, ev := range reschedules {
		history.RescheduleTimes = append(history.RescheduleTimes, ev.CreatedAt)
	}
	return history, nil
}

// cached is the read-through path: serve from cache when fresh, otherwise
// compute, store, and serve. Cache failures degrade to plain computation.
func cached[T any](ctx context.Context, s *Service, kind string, clientID id.ClientID, compute func(context.Context) (T, error)) (T, error) {
	var zero T

	key := cache.Key(kind, clientID, s.window.ID())
	if s.cache != nil {
		if raw, hit, err := s.cache.Get(ctx, key); err == nil && hit {
			var value T
			if err := json.Unmarshal(raw, &value); err == nil {
				s.metrics.RecordCacheHit(kind)
				return value, nil
			}
		} else if err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "snapshot cache read failed", "kind", kind, "error", err)
		}
		s.metrics.RecordCacheMiss(kind)
	}

	start := time.Now()
	value, err := compute(ctx)
	if err != nil {
		return zero, err
	}
	s.metrics.ObserveSnapshotDuration(kind, time.Since(start))

	if s.cache != nil {
		if raw, err := json.Marshal(value); err == nil {
			if err := s.cache.Set(ctx, key, raw); err != nil && s.logger != nil {
				s.logger.WarnContext(ctx, "snapshot cache write failed", "kind", kind, "error", err)
			}
		}
	}
	return value, nil
}
