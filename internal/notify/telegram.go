package notify

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"

	"github.com/deptadmin/seminar_scheduler/internal/model"
)

// Telegram pushes notices to students who linked a chat through the
// department bot.
type Telegram struct {
	bot *bot.Bot
}

func NewTelegram(token string) (*Telegram, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &Telegram{bot: b}, nil
}

func (t *Telegram) Notify(ctx context.Context, student *model.Student, msg Message) error {
	if student.TelegramChatID == nil {
		return nil
	}

	_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: *student.TelegramChatID,
		Text:   msg.Title + "\n\n" + msg.Body,
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	return nil
}
