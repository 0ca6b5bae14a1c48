// Package reschedule detects cross-week delivery reschedules, persists them as
// immutable events, and rolls them into fleet-level summaries.
package reschedule

import (
	"context"

	id "padoca/pkg/domain"
)

// Store is the append-only reschedule event store.
//
// Insert must enforce uniqueness on (client_id, original_date, new_date) and
// return sentinel.ErrConflict on a duplicate; the recorder treats that as a
// successful no-op so retries are safe under concurrent writers.
type Store interface {
	Insert(ctx context.Context, event Event) error
	ListByClients(ctx context.Context, clientIDs []id.ClientID) ([]Event, error)
}
