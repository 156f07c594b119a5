package model

import "time"

type Student struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	ClassYear        string    `json:"class_year"`
	TelegramChatID   *int64    `json:"telegram_chat_id,omitempty"`
	PendingFineTotal int       `json:"pending_fine_total"`
	CreatedAt        time.Time `json:"created_at"`
}
