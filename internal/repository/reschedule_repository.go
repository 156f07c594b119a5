package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deptadmin/seminar_scheduler/internal/model"
)

type RescheduleRepository struct {
	pool *pgxpool.Pool
}

func NewRescheduleRepository(pool *pgxpool.Pool) *RescheduleRepository {
	return &RescheduleRepository{pool: pool}
}

// Create writes one audit record for a batch of migrated selections.
func (r *RescheduleRepository) Create(ctx context.Context, record *model.RescheduleRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	query := `
		INSERT INTO reschedule_log (id, original_date, new_date, reason, affected_count)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		record.ID,
		record.OriginalDate,
		record.NewDate,
		record.Reason,
		record.AffectedCount,
	).Scan(&record.CreatedAt)

	if err != nil {
		return fmt.Errorf("create reschedule record: %w", err)
	}

	return nil
}
