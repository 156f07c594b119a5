package model

import "time"

// RescheduleRecord is an audit entry written when selections are migrated
// off a holiday date. Nothing in the pipeline reads it back.
type RescheduleRecord struct {
	ID            string    `json:"id"`
	OriginalDate  string    `json:"original_date"`
	NewDate       string    `json:"new_date"`
	Reason        string    `json:"reason"`
	AffectedCount int       `json:"affected_count"`
	CreatedAt     time.Time `json:"created_at"`
}
