package model

import "time"

// Booking is a student's registration of intent to present on a date.
// Dates are plain calendar days, always formatted as YYYY-MM-DD.
type Booking struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`

	// Joined for convenience, not stored on the booking row
	Student *Student `json:"student,omitempty"`
}
