package confirmation

import (
	"time"

	id "padoca/pkg/domain"
)

// Tier buckets the score for commercial decisions.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// IsValid checks if the tier is one of the supported enum values.
func (t Tier) IsValid() bool {
	switch t {
	case TierHigh, TierMedium, TierLow:
		return true
	}
	return false
}

// History is the raw material for a client's score: when deliveries happened
// and when reschedules were recorded. The service layer assembles it from the
// event stores; timestamps must be sorted ascending.
type History struct {
	ClientID        id.ClientID
	DeliveryTimes   []time.Time
	RescheduleTimes []time.Time
}

// Factors is the documented decomposition of the score.
type Factors struct {
	Baseline          float64 `json:"baseline"`
	VolatilityPenalty float64 `json:"volatility_penalty"`
	TrendVector       float64 `json:"trend_vector"`
}

// Score is the derived confirmation-reliability estimate.
type Score struct {
	ClientID  id.ClientID `json:"client_id"`
	Value     int         `json:"score"`
	Tier      Tier        `json:"tier"`
	Rationale string      `json:"rationale"`
	Factors   Factors     `json:"factors"`
}
