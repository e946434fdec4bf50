package output

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chrisdamba/foodmatch/internal/models"
	"github.com/chrisdamba/foodmatch/internal/repositories"
	"github.com/chrisdamba/foodmatch/internal/repositories/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultBatchSize = 100
	writeTimeout     = 30 * time.Second
)

// PostgresOutput buffers events and stores them in batches through an
// EventRepository.
type PostgresOutput struct {
	repo      repositories.EventRepository
	pool      *pgxpool.Pool
	batch     []*models.EventRecord
	batchSize int
	runID     string
}

func NewPostgresOutput(ctx context.Context, dsn string) (*PostgresOutput, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	repo := postgres.NewEventRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error creating events table: %w", err)
	}

	out := NewPostgresOutputWithRepository(repo, defaultBatchSize)
	out.pool = pool
	return out, nil
}

func NewPostgresOutputWithRepository(repo repositories.EventRepository, batchSize int) *PostgresOutput {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &PostgresOutput{repo: repo, batchSize: batchSize}
}

func (p *PostgresOutput) WriteMessage(topic string, msg []byte) error {
	env, err := parseEnvelope(msg)
	if err != nil {
		return err
	}

	if p.runID == "" {
		p.runID = env.RunID
	}

	payload := make([]byte, len(msg))
	copy(payload, msg)
	p.batch = append(p.batch, &models.EventRecord{
		RunID:      env.RunID,
		Topic:      topic,
		EventType:  env.EventType,
		OccurredAt: time.UnixMilli(env.Timestamp).UTC(),
		Payload:    payload,
	})

	if len(p.batch) >= p.batchSize {
		return p.flush()
	}
	return nil
}

func (p *PostgresOutput) flush() error {
	if len(p.batch) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := p.repo.BulkCreate(ctx, p.batch); err != nil {
		return fmt.Errorf("failed to insert %d events: %w", len(p.batch), err)
	}
	p.batch = p.batch[:0]
	return nil
}

func (p *PostgresOutput) Close() error {
	err := p.flush()
	if err == nil && p.runID != "" {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		count, countErr := p.repo.CountByRun(ctx, p.runID)
		cancel()
		if countErr != nil {
			slog.Warn("failed to count stored events", "run_id", p.runID, "error", countErr)
		} else {
			slog.Info("events stored", "run_id", p.runID, "count", count)
		}
	}
	if p.pool != nil {
		p.pool.Close()
	}
	return err
}
