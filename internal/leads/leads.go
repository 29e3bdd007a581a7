package leads

import (
	"context"

	"zapbot/internal/models"
)

// Sink persists one record per completed flow. Implementations are
// append-only; a lead is never updated after being written.
type Sink interface {
	Save(ctx context.Context, lead *models.Lead) error
	Close() error
}
