package model

import "time"

// Selection is the outcome of the random draw: one student per class per
// date. A student appears in at most one selection ever; both rules are
// backed by unique constraints on the selections table.
type Selection struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	Date       string    `json:"date"`
	ClassYear  string    `json:"class_year"`
	SelectedAt time.Time `json:"selected_at"`

	Student *Student `json:"student,omitempty"`
}
