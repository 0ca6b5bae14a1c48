package eventstore

import (
	"time"

	id "padoca/pkg/domain"
	dErrors "padoca/pkg/domain-errors"
)

// EventKind distinguishes deliveries from returns in the event log.
type EventKind string

const (
	KindDelivery EventKind = "delivery"
	KindReturn   EventKind = "return"
)

// IsValid checks if the event kind is one of the supported enum values.
func (k EventKind) IsValid() bool {
	switch k {
	case KindDelivery, KindReturn:
		return true
	}
	return false
}

// DeliveryEvent is one row of the append-only delivery log. Immutable; owned
// by the event store. Source of all aggregation.
type DeliveryEvent struct {
	ClientID   id.ClientID  `json:"client_id"`
	ProductID  id.ProductID `json:"product_id"`
	OccurredAt time.Time    `json:"occurred_at"`
	Quantity   int          `json:"quantity"`
	Kind       EventKind    `json:"kind"`
}

// CadenceConfig is a client's configured delivery rhythm. Mutated by the
// client-management workflows elsewhere in the platform; read-only here.
type CadenceConfig struct {
	ClientID             id.ClientID `json:"client_id"`
	PeriodicityDays      int         `json:"periodicity_days"`
	Quantity             int         `json:"quantity"`
	TargetWeeklyTurnover int         `json:"target_weekly_turnover"`
}

// Validate rejects configs the classifiers cannot work with. A zero or
// negative periodicity would otherwise divide by zero downstream.
func (c CadenceConfig) Validate() error {
	if c.ClientID.IsNil() {
		return dErrors.New(dErrors.CodeInvalidConfig, "client_id is required")
	}
	if c.PeriodicityDays <= 0 {
		return dErrors.New(dErrors.CodeInvalidConfig, "periodicity_days must be positive")
	}
	return nil
}

// Client is a point of sale registered on the platform.
type Client struct {
	ID     id.ClientID `json:"id"`
	Name   string      `json:"name"`
	Active bool        `json:"active"`
}
