package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deptadmin/seminar_scheduler/internal/model"
	"github.com/deptadmin/seminar_scheduler/internal/repository/base"
)

type FineRepository struct {
	pool *pgxpool.Pool
}

func NewFineRepository(pool *pgxpool.Pool) *FineRepository {
	return &FineRepository{pool: pool}
}

// InsertIgnoreDuplicate writes a pending fine unless one already exists for
// the same (student, fine type, date). Duplicates from concurrent runs are
// reported as created=false, never as an error.
func (r *FineRepository) InsertIgnoreDuplicate(ctx context.Context, fine *model.Fine) (bool, error) {
	if fine.ID == "" {
		fine.ID = uuid.NewString()
	}
	if fine.PaymentStatus == "" {
		fine.PaymentStatus = model.PaymentStatusPending
	}

	query := `
		INSERT INTO fines (id, student_id, fine_type, reference_date, amount, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (student_id, fine_type, reference_date) DO NOTHING
	`

	tag, err := r.pool.Exec(
		ctx, query,
		fine.ID,
		fine.StudentID,
		fine.FineType,
		fine.ReferenceDate,
		fine.Amount,
		fine.PaymentStatus,
	)
	if err != nil {
		return false, fmt.Errorf("insert fine: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// FinedStudentIDs returns the ids of students who already hold a fine of
// the given type for the date.
func (r *FineRepository) FinedStudentIDs(ctx context.Context, fineType model.FineType, date string) (map[string]bool, error) {
	query := `
		SELECT student_id FROM fines
		WHERE fine_type = $1 AND reference_date = $2
	`

	rows, err := r.pool.Query(ctx, query, fineType, date)
	if err != nil {
		return nil, fmt.Errorf("list fined student ids: %w", err)
	}
	defer rows.Close()

	fined := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan fined student id: %w", err)
		}
		fined[id] = true
	}

	return fined, rows.Err()
}

// AdjustTotal applies a delta to the student's cached pending fine total.
// Every fine-mutating path goes through here; the increment happens in the
// database so overlapping runs for different dates cannot lose updates.
func (r *FineRepository) AdjustTotal(ctx context.Context, studentID string, delta int) error {
	result, err := r.pool.Exec(
		ctx,
		`UPDATE students SET pending_fine_total = pending_fine_total + $1 WHERE id = $2`,
		delta, studentID,
	)
	if err != nil {
		return fmt.Errorf("adjust fine total: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("student not found")
	}

	return nil
}

// GetByID fetches a single fine, nil when absent.
func (r *FineRepository) GetByID(ctx context.Context, id string) (*model.Fine, error) {
	query := `
		SELECT id, student_id, fine_type, to_char(reference_date, 'YYYY-MM-DD'), amount, payment_status, created_at
		FROM fines
		WHERE id = $1
	`

	var fine model.Fine
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&fine.ID,
		&fine.StudentID,
		&fine.FineType,
		&fine.ReferenceDate,
		&fine.Amount,
		&fine.PaymentStatus,
		&fine.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fine by id: %w", err)
	}

	return &fine, nil
}

// UpdateStatus transitions a fine's payment status.
func (r *FineRepository) UpdateStatus(ctx context.Context, id string, status model.PaymentStatus) error {
	result, err := r.pool.Exec(
		ctx,
		`UPDATE fines SET payment_status = $1 WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("update fine status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("fine not found")
	}

	return nil
}

// Delete removes a fine row.
func (r *FineRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM fines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete fine: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("fine not found")
	}

	return nil
}
