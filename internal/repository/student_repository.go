package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deptadmin/seminar_scheduler/internal/model"
	"github.com/deptadmin/seminar_scheduler/internal/repository/base"
)

type StudentRepository struct {
	pool *pgxpool.Pool
}

func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

const studentColumns = `id, name, email, class_year, telegram_chat_id, pending_fine_total, created_at`

// Create adds a student to the directory (seed/ops tooling path).
func (r *StudentRepository) Create(ctx context.Context, student *model.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}

	query := `
		INSERT INTO students (id, name, email, class_year, telegram_chat_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		student.ID,
		student.Name,
		student.Email,
		student.ClassYear,
		student.TelegramChatID,
	).Scan(&student.CreatedAt)

	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}

	return nil
}

// GetByID fetches one student, nil when absent.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	var student model.Student
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&student.ID,
		&student.Name,
		&student.Email,
		&student.ClassYear,
		&student.TelegramChatID,
		&student.PendingFineTotal,
		&student.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get student by id: %w", err)
	}

	return &student, nil
}

// ListByClasses returns all students enrolled in the given classes.
func (r *StudentRepository) ListByClasses(ctx context.Context, classes []string) ([]*model.Student, error) {
	query := `
		SELECT ` + studentColumns + `
		FROM students
		WHERE class_year = ANY($1)
		ORDER BY class_year, name
	`

	rows, err := r.pool.Query(ctx, query, classes)
	if err != nil {
		return nil, fmt.Errorf("list students by classes: %w", err)
	}
	defer rows.Close()

	var students []*model.Student
	for rows.Next() {
		var student model.Student
		err := rows.Scan(
			&student.ID,
			&student.Name,
			&student.Email,
			&student.ClassYear,
			&student.TelegramChatID,
			&student.PendingFineTotal,
			&student.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, &student)
	}

	return students, rows.Err()
}
