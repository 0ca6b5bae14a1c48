package reschedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	id "padoca/pkg/domain"
	"padoca/pkg/platform/sentinel"
)

// uniqueViolation is the PostgreSQL error code for unique constraint hits.
const uniqueViolation = "23505"

// PostgresStore persists reschedule events in PostgreSQL. The table carries a
// unique constraint on (client_id, original_date, new_date), which is what
// guarantees at-most-one record per triple under concurrent writers.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed reschedule store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, event Event) error {
	query := `
		INSERT INTO reschedule_events
			(id, client_id, original_date, new_date, original_week_start, new_week_start, weeks_shifted, direction, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.ClientID.String(),
		event.OriginalDate,
		event.NewDate,
		event.OriginalWeekStart,
		event.NewWeekStart,
		event.WeeksShifted,
		string(event.Direction),
		event.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert reschedule event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByClients(ctx context.Context, clientIDs []id.ClientID) ([]Event, error) {
	query := `
		SELECT id, client_id, original_date, new_date, original_week_start, new_week_start, weeks_shifted, direction, created_at
		FROM reschedule_events
		WHERE cardinality($1::text[]) = 0 OR client_id = ANY($1)
		ORDER BY created_at ASC`

	ids := make([]string, len(clientIDs))
	for i, cid := range clientIDs {
		ids[i] = cid.String()
	}

	rows, err := s.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("list reschedule events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var ev Event
		var clientID, direction string
		if err := rows.Scan(
			&ev.ID,
			&clientID,
			&ev.OriginalDate,
			&ev.NewDate,
			&ev.OriginalWeekStart,
			&ev.NewWeekStart,
			&ev.WeeksShifted,
			&direction,
			&ev.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan reschedule event: %w", err)
		}
		ev.ClientID = id.ClientID(clientID)
		ev.Direction = Direction(direction)
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reschedule events: %w", err)
	}
	return out, nil
}
