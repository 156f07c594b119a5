package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/deptadmin/seminar_scheduler/internal/model"
)

// Sendgrid emails students that have an address on record.
type Sendgrid struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

func NewSendgrid(apiKey, fromEmail string) *Sendgrid {
	return &Sendgrid{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail("Department Office", fromEmail),
	}
}

func (s *Sendgrid) Notify(_ context.Context, student *model.Student, msg Message) error {
	if student.Email == "" {
		return nil
	}

	to := sgmail.NewEmail(student.Name, student.Email)
	mail := sgmail.NewSingleEmail(s.from, msg.Title, to, msg.Body, msg.Body)

	resp, err := s.client.Send(mail)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("send email: sendgrid returned %d", resp.StatusCode)
	}

	return nil
}
