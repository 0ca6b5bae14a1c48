package turnover

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"padoca/internal/eventstore"
)

var now = time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)

func delivery(daysAgo, qty int) eventstore.DeliveryEvent {
	return eventstore.DeliveryEvent{
		ClientID:   "pdv-1",
		ProductID:  "pao-frances",
		OccurredAt: now.AddDate(0, 0, -daysAgo),
		Quantity:   qty,
		Kind:       eventstore.KindDelivery,
	}
}

func TestAggregate(t *testing.T) {
	t.Run("840 units over the window yields weekly turnover 70", func(t *testing.T) {
		var events []eventstore.DeliveryEvent
		for i := 0; i < 12; i++ {
			events = append(events, delivery(i*7, 70))
		}

		snap := Aggregate(events, now, DefaultWindow)
		assert.Equal(t, 840, snap.TotalDeliveries)
		assert.Equal(t, 70, snap.WeeklyTurnover)
	})

	t.Run("rounds half up", func(t *testing.T) {
		// 30 / 12 = 2.5 -> 3
		snap := Aggregate([]eventstore.DeliveryEvent{delivery(1, 30)}, now, DefaultWindow)
		assert.Equal(t, 3, snap.WeeklyTurnover)
	})

	t.Run("ignores returns and out-of-window events", func(t *testing.T) {
		events := []eventstore.DeliveryEvent{
			delivery(1, 100),
			delivery(90, 500), // outside the 84-day window
			{ClientID: "pdv-1", OccurredAt: now.AddDate(0, 0, -2), Quantity: 40, Kind: eventstore.KindReturn},
		}

		snap := Aggregate(events, now, DefaultWindow)
		assert.Equal(t, 100, snap.TotalDeliveries)
	})

	t.Run("empty input yields zeros", func(t *testing.T) {
		snap := Aggregate(nil, now, DefaultWindow)
		assert.Equal(t, Snapshot{}, snap)
	})

	t.Run("identical inputs yield identical outputs", func(t *testing.T) {
		events := []eventstore.DeliveryEvent{delivery(3, 17), delivery(10, 23)}
		assert.Equal(t, Aggregate(events, now, DefaultWindow), Aggregate(events, now, DefaultWindow))
	})
}

func TestAggregateFleet(t *testing.T) {
	t.Run("divides weekly turnover by active clients", func(t *testing.T) {
		var events []eventstore.DeliveryEvent
		for i := 0; i < 12; i++ {
			events = append(events, delivery(i*7, 120))
		}

		snap := AggregateFleet(events, 4, now, DefaultWindow)
		assert.Equal(t, 120, snap.GiroSemanalTotal)
		assert.Equal(t, 30, snap.GiroMedioPorPDV)
		assert.Equal(t, 4, snap.TotalClientesAtivos)
	})

	t.Run("zero active clients yields zero mean, not an error", func(t *testing.T) {
		snap := AggregateFleet([]eventstore.DeliveryEvent{delivery(1, 50)}, 0, now, DefaultWindow)
		assert.Equal(t, 0, snap.GiroMedioPorPDV)
		assert.Equal(t, 0, snap.TotalClientesAtivos)
	})
}

func TestAggregateByProduct(t *testing.T) {
	t.Run("groups by product with weekly means, sorted by product id", func(t *testing.T) {
		events := []eventstore.DeliveryEvent{
			{ClientID: "pdv-1", ProductID: "sonho", OccurredAt: now.AddDate(0, 0, -1), Quantity: 24, Kind: eventstore.KindDelivery},
			{ClientID: "pdv-2", ProductID: "pao-frances", OccurredAt: now.AddDate(0, 0, -2), Quantity: 120, Kind: eventstore.KindDelivery},
			{ClientID: "pdv-1", ProductID: "sonho", OccurredAt: now.AddDate(0, 0, -9), Quantity: 36, Kind: eventstore.KindDelivery},
		}

		got := AggregateByProduct(events, now, DefaultWindow)
		assert.Equal(t, []ProductTurnover{
			{ProductID: "pao-frances", Total: 120, WeeklyMean: 10},
			{ProductID: "sonho", Total: 60, WeeklyMean: 5},
		}, got)
	})

	t.Run("empty input yields empty slice", func(t *testing.T) {
		assert.Empty(t, AggregateByProduct(nil, now, DefaultWindow))
	})
}
