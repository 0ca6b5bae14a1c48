// Package confirmation computes the composite 0-100 confirmation-reliability
// score for a client's delivery schedule adherence. Pure domain logic - no
// I/O, no side effects.
package confirmation

import (
	"math"
	"time"
)

// Params are the tunable weights of the factor decomposition. They are
// operational knobs, not reverse-engineered business rules.
type Params struct {
	WindowDays           int
	ReschedulePenalty    float64
	MaxReschedulePenalty float64
	VolatilityWeight     float64
	MaxVolatilityPenalty float64
	TrendStep            float64
	MaxTrend             float64
}

// DefaultParams matches the documented factor contract.
var DefaultParams = Params{
	WindowDays:           84,
	ReschedulePenalty:    8,
	MaxReschedulePenalty: 60,
	VolatilityWeight:     50,
	MaxVolatilityPenalty: 30,
	TrendStep:            2.5,
	MaxTrend:             10,
}

// trendSpan is the length of each of the two windows the trend vector
// compares (most recent vs the block before it).
const trendSpan = 28 * 24 * time.Hour

// Compute derives the confirmation score from a client's delivery and
// reschedule history:
//
//   - baseline starts at 100 and drops per reschedule inside the window
//   - the volatility penalty follows the coefficient of variation of
//     inter-delivery intervals (zero when fewer than 3 intervals exist)
//   - the trend vector compares the recent 4-week reschedule count against
//     the prior 4 weeks; improvement raises the score, worsening lowers it
//
// The final score is clamped to [0, 100].
func Compute(history History, now time.Time, params Params) Score {
	cutoff := now.AddDate(0, 0, -params.WindowDays)

	reschedules := filterWindow(history.RescheduleTimes, cutoff, now)
	deliveries := filterWindow(history.DeliveryTimes, cutoff, now)

	baseline := 100 - math.Min(params.MaxReschedulePenalty, float64(len(reschedules))*params.ReschedulePenalty)
	volatility := volatilityPenalty(deliveries, params)
	trend := trendVector(reschedules, now, params)

	value := clamp(baseline-volatility+trend, 0, 100)
	score := int(math.Round(value))

	factors := Factors{
		Baseline:          baseline,
		VolatilityPenalty: volatility,
		TrendVector:       trend,
	}

	return Score{
		ClientID:  history.ClientID,
		Value:     score,
		Tier:      tierOf(score),
		Rationale: rationale(factors),
		Factors:   factors,
	}
}

// volatilityPenalty punishes irregular inter-delivery spacing. With fewer
// than 3 intervals the coefficient of variation is too noisy to act on, so
// the penalty is zero.
func volatilityPenalty(deliveries []time.Time, params Params) float64 {
	if len(deliveries) < 4 {
		return 0
	}

	intervals := make([]float64, 0, len(deliveries)-1)
	for i := 1; i < len(deliveries); i++ {
		intervals = append(intervals, deliveries[i].Sub(deliveries[i-1]).Hours()/24)
	}

	mean := 0.0
	for _, iv := range intervals {
		mean += iv
	}
	mean /= float64(len(intervals))
	if mean == 0 {
		return 0
	}

	variance := 0.0
	for _, iv := range intervals {
		variance += (iv - mean) * (iv - mean)
	}
	variance /= float64(len(intervals))

	cv := math.Sqrt(variance) / mean
	return math.Min(params.MaxVolatilityPenalty, cv*params.VolatilityWeight)
}

// trendVector is positive when the recent four weeks had fewer reschedules
// than the four weeks before them.
func trendVector(reschedules []time.Time, now time.Time, params Params) float64 {
	recentStart := now.Add(-trendSpan)
	priorStart := now.Add(-2 * trendSpan)

	recent, prior := 0, 0
	for _, ts := range reschedules {
		switch {
		case !ts.Before(recentStart):
			recent++
		case !ts.Before(priorStart):
			prior++
		}
	}

	return clamp(float64(prior-recent)*params.TrendStep, -params.MaxTrend, params.MaxTrend)
}

func filterWindow(times []time.Time, cutoff, now time.Time) []time.Time {
	var out []time.Time
	for _, ts := range times {
		if ts.Before(cutoff) || ts.After(now) {
			continue
		}
		out = append(out, ts)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func tierOf(score int) Tier {
	switch {
	case score >= 70:
		return TierHigh
	case score >= 40:
		return TierMedium
	default:
		return TierLow
	}
}

// rationale names the dominant contributing factor so commercial teams see
// why a score moved, not just the number.
func rationale(f Factors) string {
	baselineLoss := 100 - f.Baseline
	if baselineLoss == 0 && f.VolatilityPenalty == 0 && f.TrendVector == 0 {
		return "Histórico de entregas consistente"
	}

	dominant := baselineLoss
	out := "Confiança reduzida principalmente por reagendamentos frequentes"

	if f.VolatilityPenalty > dominant {
		dominant = f.VolatilityPenalty
		out = "Confiança reduzida principalmente pela irregularidade dos intervalos de entrega"
	}
	if math.Abs(f.TrendVector) > dominant {
		if f.TrendVector < 0 {
			out = "Confiança em queda pelos reagendamentos das últimas semanas"
		} else {
			out = "Confiança em recuperação nas últimas semanas"
		}
	}
	return out
}
