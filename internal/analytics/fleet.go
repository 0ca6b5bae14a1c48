package analytics

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"padoca/internal/cadence"
	"padoca/internal/confirmation"
	"padoca/internal/eventstore"
	"padoca/internal/performance"
	"padoca/internal/reschedule"
	"padoca/internal/turnover"
	id "padoca/pkg/domain"
	dErrors "padoca/pkg/domain-errors"
	"padoca/pkg/requestcontext"
)

// ClientReview bundles every per-client verdict for the commercial review.
type ClientReview struct {
	ClientID     id.ClientID        `json:"client_id"`
	Giro         turnover.Snapshot  `json:"giro"`
	Cadence      cadence.Divergence `json:"cadence"`
	Confirmation confirmation.Score `json:"confirmation"`
	Performance  performance.Status `json:"performance"`
}

// ClientIssue names a client whose review could not be computed and why.
type ClientIssue struct {
	ClientID id.ClientID `json:"client_id"`
	Reason   string      `json:"reason"`
}

// FleetReview is the full batch output: the fleet rollups plus one review per
// active client.
type FleetReview struct {
	GeneratedAt       time.Time              `json:"generated_at"`
	Fleet             turnover.FleetSnapshot `json:"fleet"`
	FleetPerformance  performance.Status     `json:"fleet_performance"`
	RescheduleSummary reschedule.Summary     `json:"reschedule_summary"`
	Clients           []ClientReview         `json:"clients"`
	Skipped           []ClientIssue          `json:"skipped,omitempty"`
}

// FleetReview computes every client's review in parallel, bounded by the
// worker limit so the event store's concurrent-query budget is respected.
// Clients are independent; a broken cadence config skips that client and the
// batch carries on.
func (s *Service) FleetReview(ctx context.Context) (FleetReview, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.FleetReview")
	defer span.End()

	now := requestcontext.Now(ctx)

	clients, err := s.events.ListActiveClients(ctx)
	if err != nil {
		return FleetReview{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list active clients")
	}

	review := FleetReview{GeneratedAt: now}

	var mu sync.Mutex
	var targetSum int

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workerLimit)

	for _, client := range clients {
		g.Go(func() error {
			clientReview, target, err := s.reviewClient(gctx, client.ID, now)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				code := dErrors.CodeOf(err)
				if code == dErrors.CodeInvalidConfig || code == dErrors.CodeNotFound {
					review.Skipped = append(review.Skipped, ClientIssue{ClientID: client.ID, Reason: string(code)})
					if s.logger != nil {
						s.logger.WarnContext(gctx, "client skipped in fleet review",
							"client_id", client.ID,
							"reason", code,
						)
					}
					return nil
				}
				return err
			}
			review.Clients = append(review.Clients, clientReview)
			targetSum += target
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return FleetReview{}, err
	}

	sort.Slice(review.Clients, func(i, j int) bool {
		return review.Clients[i].ClientID < review.Clients[j].ClientID
	})
	sort.Slice(review.Skipped, func(i, j int) bool {
		return review.Skipped[i].ClientID < review.Skipped[j].ClientID
	})

	fleetEvents, err := s.listEvents(ctx, nil, now)
	if err != nil {
		return FleetReview{}, err
	}
	review.Fleet = turnover.AggregateFleet(fleetEvents, len(clients), now, s.window)
	review.FleetPerformance = performance.Classify("fleet",
		float64(review.Fleet.GiroSemanalTotal), float64(targetSum))

	summary, err := s.RescheduleSummary(ctx, nil)
	if err != nil {
		return FleetReview{}, err
	}
	review.RescheduleSummary = summary

	return review, nil
}

// reviewClient computes one client's verdicts from a single event fetch. It
// also returns the client's configured target so the caller can accumulate
// the fleet target.
func (s *Service) reviewClient(ctx context.Context, clientID id.ClientID, now time.Time) (ClientReview, int, error) {
	config, err := s.getConfig(ctx, clientID)
	if err != nil {
		return ClientReview{}, 0, err
	}

	events, err := s.listEvents(ctx, []id.ClientID{clientID}, now)
	if err != nil {
		return ClientReview{}, 0, err
	}
	reschedules, err := s.reschedules.ListByClients(ctx, []id.ClientID{clientID})
	if err != nil {
		return ClientReview{}, 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to list reschedule events")
	}

	div, err := cadence.Classify(*config, events, now, s.window)
	if err != nil {
		return ClientReview{}, 0, err
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

	giro := turnover.Aggregate(events, now, s.window)

	return ClientReview{
		ClientID:     clientID,
		Giro:         giro,
		Cadence:      div,
		Confirmation: confirmation.Compute(history, now, s.scoreParams),
		Performance: performance.Classify(id.EntityID(clientID),
			float64(giro.WeeklyTurnover), float64(config.TargetWeeklyTurnover)),
	}, config.TargetWeeklyTurnover, nil
}
