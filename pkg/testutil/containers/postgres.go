//go:build integration

package containers

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// schema mirrors the tables the ordering platform provisions in production.
// Delivery events, cadence configs, and clients are written by the ordering
// workflows and read here; reschedule_events is owned by this service.
const schema = `
CREATE TABLE IF NOT EXISTS clients (
	id      TEXT PRIMARY KEY,
	name    TEXT NOT NULL,
	active  BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS cadence_configs (
	client_id               TEXT PRIMARY KEY REFERENCES clients (id),
	periodicity_days        INTEGER NOT NULL,
	quantity                INTEGER NOT NULL,
	target_weekly_turnover  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS delivery_events (
	id          BIGSERIAL PRIMARY KEY,
	client_id   TEXT NOT NULL,
	product_id  TEXT NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL,
	quantity    INTEGER NOT NULL,
	kind        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS delivery_events_client_occurred_idx
	ON delivery_events (client_id, occurred_at);

CREATE TABLE IF NOT EXISTS reschedule_events (
	id                  TEXT PRIMARY KEY,
	client_id           TEXT NOT NULL,
	original_date       TIMESTAMPTZ NOT NULL,
	new_date            TIMESTAMPTZ NOT NULL,
	original_week_start TIMESTAMPTZ NOT NULL,
	new_week_start      TIMESTAMPTZ NOT NULL,
	weeks_shifted       INTEGER NOT NULL,
	direction           TEXT NOT NULL,
	created_at          TIMESTAMPTZ NOT NULL,
	UNIQUE (client_id, original_date, new_date)
);
`

// PostgresContainer wraps a testcontainers PostgreSQL instance with the
// analytics schema applied.
type PostgresContainer struct {
	Container testcontainers.Container
	URL       string
	DB        *sql.DB
}

// NewPostgresContainer starts a PostgreSQL container, applies the schema, and
// returns an open connection. Ryuk reaps the container after the test run.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("padoca"),
		tcpostgres.WithUsername("padoca"),
		tcpostgres.WithPassword("padoca"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", url)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	return &PostgresContainer{
		Container: container,
		URL:       url,
		DB:        db,
	}
}

// Truncate empties all tables. Use between tests to ensure isolation.
func (p *PostgresContainer) Truncate(ctx context.Context) error {
	_, err := p.DB.ExecContext(ctx,
		`TRUNCATE reschedule_events, delivery_events, cadence_configs, clients`)
	return err
}
