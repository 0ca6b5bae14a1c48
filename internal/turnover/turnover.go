// Package turnover computes rolling-window turnover (giro) figures from the
// delivery event log. All functions here are pure: the caller supplies the
// events and the single "now" that anchors the window, so a call is
// referentially transparent.
package turnover

import (
	"math"
	"sort"
	"strconv"
	"time"

	"padoca/internal/eventstore"
	id "padoca/pkg/domain"
)

// Window defines the trailing aggregation window geometry.
type Window struct {
	Days  int
	Weeks int
}

// DefaultWindow is the 12-week trailing window used across the platform.
var DefaultWindow = Window{Days: 84, Weeks: 12}

// ID returns a stable identifier for the window, used in cache keys.
func (w Window) ID() string {
	return strconv.Itoa(w.Days) + "d"
}

// Aggregate sums delivered quantities inside the trailing window and derives
// the weekly turnover. Return events and anything outside the window are
// ignored.
func Aggregate(events []eventstore.DeliveryEvent, now time.Time, w Window) Snapshot {
	cutoff := now.AddDate(0, 0, -w.Days)

	total := 0
	for _, ev := range events {
		if ev.Kind != eventstore.KindDelivery {
			continue
		}
		if ev.OccurredAt.Before(cutoff) || ev.OccurredAt.After(now) {
			continue
		}
		total += ev.Quantity
	}

	return Snapshot{
		TotalDeliveries: total,
		WeeklyTurnover:  divRound(total, w.Weeks),
	}
}

// AggregateFleet rolls per-client events into the fleet snapshot. The weekly
// mean per point of sale divides by the active client count; zero active
// clients yields zero, not an error.
func AggregateFleet(events []eventstore.DeliveryEvent, activeClients int, now time.Time, w Window) FleetSnapshot {
	fleet := Aggregate(events, now, w)

	mean := 0
	if activeClients > 0 {
		mean = divRound(fleet.WeeklyTurnover, activeClients)
	}

	return FleetSnapshot{
		GiroSemanalTotal:    fleet.WeeklyTurnover,
		GiroMedioPorPDV:     mean,
		TotalEntregas:       fleet.TotalDeliveries,
		TotalClientesAtivos: activeClients,
	}
}

// AggregateByProduct groups delivered quantities by product inside the window
// and derives each product's weekly mean. Used by production-needs reporting.
// Results are sorted by product ID for reproducible output.
func AggregateByProduct(events []eventstore.DeliveryEvent, now time.Time, w Window) []ProductTurnover {
	cutoff := now.AddDate(0, 0, -w.Days)

	totals := make(map[id.ProductID]int)
	for _, ev := range events {
		if ev.Kind != eventstore.KindDelivery {
			continue
		}
		if ev.OccurredAt.Before(cutoff) || ev.OccurredAt.After(now) {
			continue
		}
		totals[ev.ProductID] += ev.Quantity
	}

	out := make([]ProductTurnover, 0, len(totals))
	for pid, total := range totals {
		out = append(out, ProductTurnover{
			ProductID:  pid,
			Total:      total,
			WeeklyMean: divRound(total, w.Weeks),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

// divRound divides and rounds half up. Quantities are never negative, so
// half-away-from-zero and half-up coincide.
func divRound(total, by int) int {
	if by == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(by)))
}

