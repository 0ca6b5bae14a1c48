package confirmation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)

func daysAgo(days ...int) []time.Time {
	out := make([]time.Time, 0, len(days))
	for i := len(days) - 1; i >= 0; i-- {
		out = append(out, now.AddDate(0, 0, -days[i]))
	}
	return out
}

func TestCompute(t *testing.T) {
	t.Run("clean regular history scores 100 high", func(t *testing.T) {
		history := History{
			ClientID:      "pdv-1",
			DeliveryTimes: daysAgo(77, 70, 63, 56, 49, 42, 35, 28, 21, 14, 7, 0),
		}

		score := Compute(history, now, DefaultParams)
		assert.Equal(t, 100, score.Value)
		assert.Equal(t, TierHigh, score.Tier)
		assert.Equal(t, 100.0, score.Factors.Baseline)
		assert.Equal(t, 0.0, score.Factors.VolatilityPenalty)
		assert.Equal(t, 0.0, score.Factors.TrendVector)
		assert.Equal(t, "Histórico de entregas consistente", score.Rationale)
	})

	t.Run("each reschedule in window costs the configured penalty", func(t *testing.T) {
		history := History{
			ClientID:        "pdv-1",
			RescheduleTimes: daysAgo(50, 45, 40), // all inside the prior trend block
		}

		score := Compute(history, now, DefaultParams)
		// baseline 100 - 3*8 = 76, volatility 0, trend (3-0)*2.5 = +7.5
		assert.Equal(t, 76.0, score.Factors.Baseline)
		assert.Equal(t, 7.5, score.Factors.TrendVector)
		assert.Equal(t, 84, score.Value)
	})

	t.Run("baseline penalty saturates at the configured maximum", func(t *testing.T) {
		var days []int
		for i := 0; i < 10; i++ {
			days = append(days, i*7)
		}
		history := History{ClientID: "pdv-1", RescheduleTimes: daysAgo(days...)}

		score := Compute(history, now, DefaultParams)
		assert.Equal(t, 40.0, score.Factors.Baseline)
	})

	t.Run("irregular intervals draw a volatility penalty", func(t *testing.T) {
		history := History{
			ClientID:      "pdv-1",
			DeliveryTimes: daysAgo(60, 59, 30, 29, 2, 0),
		}

		score := Compute(history, now, DefaultParams)
		assert.Greater(t, score.Factors.VolatilityPenalty, 0.0)
		assert.LessOrEqual(t, score.Factors.VolatilityPenalty, DefaultParams.MaxVolatilityPenalty)
	})

	t.Run("fewer than three intervals means no volatility penalty", func(t *testing.T) {
		history := History{
			ClientID:      "pdv-1",
			DeliveryTimes: daysAgo(50, 20, 0),
		}

		score := Compute(history, now, DefaultParams)
		assert.Equal(t, 0.0, score.Factors.VolatilityPenalty)
	})

	t.Run("worsening recent reschedules pull the trend negative", func(t *testing.T) {
		history := History{
			ClientID:        "pdv-1",
			RescheduleTimes: daysAgo(10, 7, 3, 1),
		}

		score := Compute(history, now, DefaultParams)
		assert.Negative(t, score.Factors.TrendVector)
	})

	t.Run("trend vector is clamped to its bounds", func(t *testing.T) {
		var days []int
		for i := 0; i < 12; i++ {
			days = append(days, i)
		}
		history := History{ClientID: "pdv-1", RescheduleTimes: daysAgo(days...)}

		score := Compute(history, now, DefaultParams)
		assert.Equal(t, -DefaultParams.MaxTrend, score.Factors.TrendVector)
	})

	t.Run("score stays within bounds for hostile histories", func(t *testing.T) {
		var resDays, delDays []int
		for i := 0; i < 30; i++ {
			resDays = append(resDays, i*2)
		}
		delDays = []int{80, 79, 40, 39, 1, 0}

		history := History{
			ClientID:        "pdv-1",
			DeliveryTimes:   daysAgo(delDays...),
			RescheduleTimes: daysAgo(resDays...),
		}

		score := Compute(history, now, DefaultParams)
		assert.GreaterOrEqual(t, score.Value, 0)
		assert.LessOrEqual(t, score.Value, 100)
		assert.Equal(t, TierLow, score.Tier)
	})

	t.Run("tier boundaries have no gaps or overlaps", func(t *testing.T) {
		assert.Equal(t, TierHigh, tierOf(100))
		assert.Equal(t, TierHigh, tierOf(70))
		assert.Equal(t, TierMedium, tierOf(69))
		assert.Equal(t, TierMedium, tierOf(40))
		assert.Equal(t, TierLow, tierOf(39))
		assert.Equal(t, TierLow, tierOf(0))
	})

	t.Run("identical inputs yield identical outputs", func(t *testing.T) {
		history := History{
			ClientID:        "pdv-1",
			DeliveryTimes:   daysAgo(30, 20, 10, 0),
			RescheduleTimes: daysAgo(15, 5),
		}
		assert.Equal(t, Compute(history, now, DefaultParams), Compute(history, now, DefaultParams))
	})

	t.Run("frequent reschedules dominate the rationale", func(t *testing.T) {
		history := History{
			ClientID:        "pdv-1",
			RescheduleTimes: daysAgo(60, 50, 45, 40, 35),
		}

		score := Compute(history, now, DefaultParams)
		assert.Equal(t, "Confiança reduzida principalmente por reagendamentos frequentes", score.Rationale)
	})
}
