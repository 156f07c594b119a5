package service

import (
	"context"

	"github.com/deptadmin/seminar_scheduler/internal/model"
)

// Storage ports consumed by the pipeline services. The pgx repositories in
// internal/repository satisfy them; tests plug in in-memory fakes.

type BookingStore interface {
	ListByDate(ctx context.Context, date string) ([]*model.Booking, error)
}

type SelectionStore interface {
	ListByDate(ctx context.Context, date string) ([]*model.Selection, error)
	SelectedStudentIDs(ctx context.Context) (map[string]bool, error)
	Insert(ctx context.Context, selection *model.Selection) (bool, error)
	MoveDate(ctx context.Context, originalDate, newDate string) (int64, error)
}

type FineStore interface {
	InsertIgnoreDuplicate(ctx context.Context, fine *model.Fine) (bool, error)
	FinedStudentIDs(ctx context.Context, fineType model.FineType, date string) (map[string]bool, error)
	AdjustTotal(ctx context.Context, studentID string, delta int) error
	GetByID(ctx context.Context, id string) (*model.Fine, error)
	UpdateStatus(ctx context.Context, id string, status model.PaymentStatus) error
	Delete(ctx context.Context, id string) error
}

type StudentStore interface {
	ListByClasses(ctx context.Context, classes []string) ([]*model.Student, error)
}

type HolidayStore interface {
	GetByDate(ctx context.Context, date string) (*model.Holiday, error)
}

type RescheduleStore interface {
	Create(ctx context.Context, record *model.RescheduleRecord) error
}
