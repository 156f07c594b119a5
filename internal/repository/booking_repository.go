package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deptadmin/seminar_scheduler/internal/model"
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// Create registers a booking. A student may book a date only once; a repeat
// attempt is reported as created=false rather than an error.
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) (bool, error) {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}

	query := `
		INSERT INTO bookings (id, student_id, date)
		VALUES ($1, $2, $3)
		ON CONFLICT (student_id, date) DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query, booking.ID, booking.StudentID, booking.Date)
	if err != nil {
		return false, fmt.Errorf("create booking: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ListByDate returns all bookings for a date, with the student joined in
// for class partitioning and notifications.
func (r *BookingRepository) ListByDate(ctx context.Context, date string) ([]*model.Booking, error) {
	query := `
		SELECT b.id, b.student_id, to_char(b.date, 'YYYY-MM-DD'), b.created_at,
		       s.id, s.name, s.email, s.class_year, s.telegram_chat_id, s.pending_fine_total, s.created_at
		FROM bookings b
		JOIN students s ON s.id = b.student_id
		WHERE b.date = $1
		ORDER BY b.created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("list bookings by date: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		var booking model.Booking
		var student model.Student
		err := rows.Scan(
			&booking.ID,
			&booking.StudentID,
			&booking.Date,
			&booking.CreatedAt,
			&student.ID,
			&student.Name,
			&student.Email,
			&student.ClassYear,
			&student.TelegramChatID,
			&student.PendingFineTotal,
			&student.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		booking.Student = &student
		bookings = append(bookings, &booking)
	}

	return bookings, rows.Err()
}

// Delete removes a booking (admin tooling path).
func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking not found")
	}

	return nil
}
