package cadence

import id "padoca/pkg/domain"

// Tier is the three-tier divergence verdict, with TierUnknown for clients
// without enough history.
type Tier string

const (
	TierGreen   Tier = "green"
	TierYellow  Tier = "yellow"
	TierRed     Tier = "red"
	TierUnknown Tier = "unknown"
)

// IsValid checks if the tier is one of the supported enum values.
func (t Tier) IsValid() bool {
	switch t {
	case TierGreen, TierYellow, TierRed, TierUnknown:
		return true
	}
	return false
}

// Direction reports which side of the configured periodicity the observed
// interval falls on.
type Direction string

const (
	DirectionAhead  Direction = "ahead"
	DirectionBehind Direction = "behind"
	DirectionEqual  Direction = "equal"
)

// Divergence is the derived cadence verdict for one client.
// ObservedIntervalDays is nil whenever fewer than two qualifying deliveries
// exist in the window.
type Divergence struct {
	ClientID             id.ClientID `json:"client_id"`
	ObservedIntervalDays *int        `json:"observed_interval_days"`
	Tier                 Tier        `json:"tier"`
	Direction            Direction   `json:"direction"`
}
