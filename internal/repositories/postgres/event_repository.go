package postgres

import (
	"context"

	"github.com/chrisdamba/foodmatch/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createEventsTable = `
    CREATE TABLE IF NOT EXISTS simulation_events (
        id          BIGSERIAL PRIMARY KEY,
        run_id      TEXT        NOT NULL,
        topic       TEXT        NOT NULL,
        event_type  TEXT        NOT NULL,
        occurred_at TIMESTAMPTZ NOT NULL,
        payload     JSONB       NOT NULL
    );
    CREATE INDEX IF NOT EXISTS simulation_events_run_idx ON simulation_events (run_id, topic);
`

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, createEventsTable)
	return err
}

func (r *EventRepository) BulkCreate(ctx context.Context, events []*models.EventRecord) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"simulation_events"},
		[]string{"run_id", "topic", "event_type", "occurred_at", "payload"},
		pgx.CopyFromSlice(len(events), func(i int) ([]any, error) {
			e := events[i]
			return []any{e.RunID, e.Topic, e.EventType, e.OccurredAt, string(e.Payload)}, nil
		}),
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *EventRepository) CountByRun(ctx context.Context, runID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM simulation_events WHERE run_id = $1`, runID).Scan(&count)
	return count, err
}
