package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/deptadmin/seminar_scheduler/internal/model"
)

// Message is the minimal notice the pipeline sends: a title and a body.
// Formatting beyond that belongs to the portal's notification service.
type Message struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Notifier delivers a message to one student. Backends that have no way to
// reach the student (no email, no linked chat) return nil; delivery is
// best-effort everywhere in the pipeline.
type Notifier interface {
	Notify(ctx context.Context, student *model.Student, msg Message) error
}

// Multi fans a message out to every configured backend and reports the
// first failure. A failing backend never blocks the others.
type Multi struct {
	backends []Notifier
	logger   *zap.Logger
}

func NewMulti(logger *zap.Logger, backends ...Notifier) *Multi {
	return &Multi{backends: backends, logger: logger}
}

func (m *Multi) Notify(ctx context.Context, student *model.Student, msg Message) error {
	var firstErr error
	for _, backend := range m.backends {
		if err := backend.Notify(ctx, student, msg); err != nil {
			m.logger.Warn("notification delivery failed",
				zap.String("student_id", student.ID),
				zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Console logs notices instead of delivering them. Default backend in
// development and in tests.
type Console struct {
	logger *zap.Logger
}

func NewConsole(logger *zap.Logger) *Console {
	return &Console{logger: logger}
}

func (c *Console) Notify(_ context.Context, student *model.Student, msg Message) error {
	c.logger.Info("notification",
		zap.String("student_id", student.ID),
		zap.String("student_name", student.Name),
		zap.String("title", msg.Title),
		zap.String("body", msg.Body))
	return nil
}
