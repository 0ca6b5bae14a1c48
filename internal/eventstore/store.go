// Package eventstore exposes read access to the platform's delivery event log
// and client cadence configuration. The log is append-only and written by the
// ordering workflows elsewhere in the platform; this service only reads it.
package eventstore

import (
	"context"
	"time"

	id "padoca/pkg/domain"
)

// Store is the read contract consumed by the analytics services.
//
// ListDeliveryEvents returns events sorted by OccurredAt ascending — interval
// math depends on that ordering. An empty clientIDs slice means all clients.
// Callers must not assume de-duplication.
type Store interface {
	ListDeliveryEvents(ctx context.Context, clientIDs []id.ClientID, since, until time.Time) ([]DeliveryEvent, error)
	GetCadenceConfig(ctx context.Context, clientID id.ClientID) (*CadenceConfig, error)
	ListActiveClients(ctx context.Context) ([]Client, error)
}
