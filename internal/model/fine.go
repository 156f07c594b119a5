package model

import "time"

type FineType string

const (
	FineTypeNoBooking FineType = "no_booking"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusWaived  PaymentStatus = "waived"
)

// Fine is one flat charge per (student, fine type, date). While pending it
// contributes to the student's cached pending_fine_total.
type Fine struct {
	ID            string        `json:"id"`
	StudentID     string        `json:"student_id"`
	FineType      FineType      `json:"fine_type"`
	ReferenceDate string        `json:"reference_date"`
	Amount        int           `json:"amount"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time     `json:"created_at"`
}
