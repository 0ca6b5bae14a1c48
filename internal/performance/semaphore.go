// Package performance maps achievement ratios (actual vs target turnover) to
// the traffic-light status used across commercial reporting. Pure domain
// logic - no I/O, no side effects.
//
// The classifier is entity-agnostic: callers pre-aggregate actual and target
// before invoking it, so the same function serves a single client, a region,
// or a representative rollup.
package performance

import id "padoca/pkg/domain"

// Tier is the semaphore color. TierUnknown covers entities without a
// configured target, which is a valid state, not an error.
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

// Status is the derived semaphore verdict for one entity.
type Status struct {
	EntityID         id.EntityID `json:"entity_id"`
	AchievementRatio float64     `json:"achievement_ratio"`
	Tier             Tier        `json:"tier"`
	Label            string      `json:"label"`
}

// Classify derives the semaphore status from actual vs target turnover.
func Classify(entityID id.EntityID, actual, target float64) Status {
	if target == 0 {
		return Status{
			EntityID: entityID,
			Tier:     TierUnknown,
			Label:    "Sem meta definida",
		}
	}

	ratio := actual / target
	status := Status{EntityID: entityID, AchievementRatio: ratio}

	switch {
	case ratio >= 1.2:
		status.Tier = TierGreen
		status.Label = "Excelente"
	case ratio >= 1.0:
		status.Tier = TierGreen
		status.Label = "Acima da média"
	case ratio >= 0.8:
		status.Tier = TierYellow
		status.Label = "Próximo à média"
	default:
		status.Tier = TierRed
		status.Label = "Abaixo da média"
	}
	return status
}
