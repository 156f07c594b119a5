package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deptadmin/seminar_scheduler/internal/model"
	"github.com/deptadmin/seminar_scheduler/internal/repository/base"
)

type SelectionRepository struct {
	pool *pgxpool.Pool
}

func NewSelectionRepository(pool *pgxpool.Pool) *SelectionRepository {
	return &SelectionRepository{pool: pool}
}

// Insert persists a draw outcome. The selections table carries two unique
// constraints (student_id all-time, date+class_year); hitting either one
// means a concurrent run already filled the slot, reported as created=false.
func (r *SelectionRepository) Insert(ctx context.Context, selection *model.Selection) (bool, error) {
	if selection.ID == "" {
		selection.ID = uuid.NewString()
	}

	query := `
		INSERT INTO selections (id, student_id, date, class_year)
		VALUES ($1, $2, $3, $4)
		RETURNING selected_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		selection.ID,
		selection.StudentID,
		selection.Date,
		selection.ClassYear,
	).Scan(&selection.SelectedAt)

	if err != nil {
		if base.IsUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert selection: %w", err)
	}

	return true, nil
}

// ListByDate returns the selections already made for a date, student joined.
func (r *SelectionRepository) ListByDate(ctx context.Context, date string) ([]*model.Selection, error) {
	query := `
		SELECT sel.id, sel.student_id, to_char(sel.date, 'YYYY-MM-DD'), sel.class_year, sel.selected_at,
		       s.id, s.name, s.email, s.class_year, s.telegram_chat_id, s.pending_fine_total, s.created_at
		FROM selections sel
		JOIN students s ON s.id = sel.student_id
		WHERE sel.date = $1
		ORDER BY sel.class_year ASC
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("list selections by date: %w", err)
	}
	defer rows.Close()

	var selections []*model.Selection
	for rows.Next() {
		var selection model.Selection
		var student model.Student
		err := rows.Scan(
			&selection.ID,
			&selection.StudentID,
			&selection.Date,
			&selection.ClassYear,
			&selection.SelectedAt,
			&student.ID,
			&student.Name,
			&student.Email,
			&student.ClassYear,
			&student.TelegramChatID,
			&student.PendingFineTotal,
			&student.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan selection: %w", err)
		}
		selection.Student = &student
		selections = append(selections, &selection)
	}

	return selections, rows.Err()
}

// SelectedStudentIDs returns every student id that has ever been selected,
// across all dates. This is the no-repeat-presenter exclusion set.
func (r *SelectionRepository) SelectedStudentIDs(ctx context.Context) (map[string]bool, error) {
	rows, err := r.pool.Query(ctx, `SELECT student_id FROM selections`)
	if err != nil {
		return nil, fmt.Errorf("list selected student ids: %w", err)
	}
	defer rows.Close()

	selected := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan selected student id: %w", err)
		}
		selected[id] = true
	}

	return selected, rows.Err()
}

// MoveDate rewrites the date on every selection of originalDate, preserving
// student and class. Used only by the holiday reschedule path.
func (r *SelectionRepository) MoveDate(ctx context.Context, originalDate, newDate string) (int64, error) {
	result, err := r.pool.Exec(
		ctx,
		`UPDATE selections SET date = $1 WHERE date = $2`,
		newDate, originalDate,
	)
	if err != nil {
		return 0, fmt.Errorf("move selections to new date: %w", err)
	}

	return result.RowsAffected(), nil
}
