package eventstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	id "padoca/pkg/domain"
	"padoca/pkg/platform/sentinel"
)

// PostgresStore reads delivery events and cadence configs from the platform's
// relational store.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed event store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListDeliveryEvents(ctx context.Context, clientIDs []id.ClientID, since, until time.Time) ([]DeliveryEvent, error) {
	query := `
		SELECT client_id, product_id, occurred_at, quantity, kind
		FROM delivery_events
		WHERE occurred_at >= $1 AND occurred_at <= $2
		  AND (cardinality($3::text[]) = 0 OR client_id = ANY($3))
		ORDER BY occurred_at ASC`

	ids := make([]string, len(clientIDs))
	for i, cid := range clientIDs {
		ids[i] = cid.String()
	}

	rows, err := s.db.QueryContext(ctx, query, since, until, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("list delivery events: %w", err)
	}
	defer rows.Close()

	var out []DeliveryEvent
	for rows.Next() {
		var ev DeliveryEvent
		var clientID, productID, kind string
		if err := rows.Scan(&clientID, &productID, &ev.OccurredAt, &ev.Quantity, &kind); err != nil {
			return nil, fmt.Errorf("scan delivery event: %w", err)
		}
		ev.ClientID = id.ClientID(clientID)
		ev.ProductID = id.ProductID(productID)
		ev.Kind = EventKind(kind)
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list delivery events: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) GetCadenceConfig(ctx context.Context, clientID id.ClientID) (*CadenceConfig, error) {
	query := `
		SELECT client_id, periodicity_days, quantity, target_weekly_turnover
		FROM cadence_configs
		WHERE client_id = $1`

	var config CadenceConfig
	var cid string
	err := s.db.QueryRowContext(ctx, query, clientID.String()).
		Scan(&cid, &config.PeriodicityDays, &config.Quantity, &config.TargetWeeklyTurnover)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get cadence config: %w", err)
	}
	config.ClientID = id.ClientID(cid)
	return &config, nil
}

func (s *PostgresStore) ListActiveClients(ctx context.Context) ([]Client, error) {
	query := `
		SELECT id, name, active
		FROM clients
		WHERE active
		ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active clients: %w", err)
	}
	defer rows.Close()

	var out []Client
	for rows.Next() {
		var c Client
		var cid string
		if err := rows.Scan(&cid, &c.Name, &c.Active); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		c.ID = id.ClientID(cid)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list active clients: %w", err)
	}
	return out, nil
}
