// Package cadence classifies how far a client's observed delivery rhythm has
// drifted from its configured periodicity. Pure domain logic - no I/O, no
// side effects.
package cadence

import (
	"math"
	"time"

	"padoca/internal/eventstore"
	"padoca/internal/turnover"
)

// Divergence thresholds as a fraction of the configured periodicity.
const (
	yellowThreshold = 0.20
	redThreshold    = 0.40
)

// Classify compares the configured periodicity against the observed mean
// inter-delivery interval inside the trailing window.
//
// Fewer than two qualifying deliveries means there is no interval to measure:
// the result carries a nil interval and TierUnknown so consumers must branch
// on "no data yet" instead of reading a misleading zero.
func Classify(config eventstore.CadenceConfig, deliveries []eventstore.DeliveryEvent, now time.Time, w turnover.Window) (Divergence, error) {
	if err := config.Validate(); err != nil {
		return Divergence{}, err
	}

	div := Divergence{
		ClientID:  config.ClientID,
		Tier:      TierUnknown,
		Direction: DirectionEqual,
	}

	cutoff := now.AddDate(0, 0, -w.Days)
	var first, last time.Time
	count := 0
	for _, ev := range deliveries {
		if ev.Kind != eventstore.KindDelivery {
			continue
		}
		if ev.OccurredAt.Before(cutoff) || ev.OccurredAt.After(now) {
			continue
		}
		if count == 0 || ev.OccurredAt.Before(first) {
			first = ev.OccurredAt
		}
		if count == 0 || ev.OccurredAt.After(last) {
			last = ev.OccurredAt
		}
		count++
	}

	if count < 2 {
		return div, nil
	}

	spanDays := last.Sub(first).Hours() / 24
	observed := int(math.Round(spanDays / float64(count-1)))
	div.ObservedIntervalDays = &observed

	ratio := math.Abs(float64(observed-config.PeriodicityDays)) / float64(config.PeriodicityDays)
	switch {
	case ratio <= yellowThreshold:
		div.Tier = TierGreen
		div.Direction = DirectionEqual
	case ratio <= redThreshold:
		div.Tier = TierYellow
		div.Direction = direction(observed, config.PeriodicityDays)
	default:
		div.Tier = TierRed
		div.Direction = direction(observed, config.PeriodicityDays)
	}
	return div, nil
}

// direction: a longer observed interval means the client is buying less
// frequently than configured - ahead of its calendar schedule.
func direction(observed, configured int) Direction {
	if observed > configured {
		return DirectionAhead
	}
	return DirectionBehind
}
