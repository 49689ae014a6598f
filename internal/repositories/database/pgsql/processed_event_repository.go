package pgsql

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openledgerhq/erp_backend/internal/apperrors"
	portsrepo "github.com/openledgerhq/erp_backend/internal/core/ports/repositories"
)

type PgxProcessedEventRepository struct {
	BaseRepository
}

// newPgxProcessedEventRepository creates a new repository for consumed event IDs.
func newPgxProcessedEventRepository(pool *pgxpool.Pool) portsrepo.ProcessedEventRepository {
	return &PgxProcessedEventRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxProcessedEventRepository implements portsrepo.ProcessedEventRepository
var _ portsrepo.ProcessedEventRepository = (*PgxProcessedEventRepository)(nil)

// MarkProcessed records the event ID. The insert is a no-op when the event was
// already recorded, which is how redelivered envelopes are detected.
func (r *PgxProcessedEventRepository) MarkProcessed(ctx context.Context, eventID, eventType string) (bool, error) {
	query := `
		INSERT INTO processed_events (event_id, event_type, processed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id) DO NOTHING;
	`
	tag, err := r.Pool.Exec(ctx, query, eventID, eventType, time.Now().UTC())
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to record processed event "+eventID, err)
	}
	return tag.RowsAffected() == 0, nil
}

// UnmarkProcessed removes the event ID so a redelivery is handled again.
func (r *PgxProcessedEventRepository) UnmarkProcessed(ctx context.Context, eventID string) error {
	query := `DELETE FROM processed_events WHERE event_id = $1;`
	if _, err := r.Pool.Exec(ctx, query, eventID); err != nil {
		return apperrors.NewAppError(500, "failed to unmark processed event "+eventID, err)
	}
	return nil
}
