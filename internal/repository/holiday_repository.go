package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deptadmin/seminar_scheduler/internal/model"
	"github.com/deptadmin/seminar_scheduler/internal/repository/base"
)

// HolidayRepository is read-only from the pipeline's perspective; holiday
// maintenance belongs to the admin portal.
type HolidayRepository struct {
	pool *pgxpool.Pool
}

func NewHolidayRepository(pool *pgxpool.Pool) *HolidayRepository {
	return &HolidayRepository{pool: pool}
}

// GetByDate returns the declared holiday for a date, nil when the date is
// an ordinary day.
func (r *HolidayRepository) GetByDate(ctx context.Context, date string) (*model.Holiday, error) {
	query := `
		SELECT id, to_char(date, 'YYYY-MM-DD'), name, affects_presentations
		FROM holidays
		WHERE date = $1
	`

	var holiday model.Holiday
	err := r.pool.QueryRow(ctx, query, date).Scan(
		&holiday.ID,
		&holiday.Date,
		&holiday.Name,
		&holiday.AffectsPresentations,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get holiday by date: %w", err)
	}

	return &holiday, nil
}
