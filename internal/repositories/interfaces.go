package repositories

import (
	"context"

	"github.com/chrisdamba/foodmatch/internal/models"
)

type EventRepository interface {
	EnsureSchema(ctx context.Context) error
	BulkCreate(ctx context.Context, events []*models.EventRecord) error
	CountByRun(ctx context.Context, runID string) (int, error)
}
