package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/deptadmin/seminar_scheduler/internal/model"
)

// FineResult reports one assessment run. Per-student failures land in
// Errors and never abort the batch.
type FineResult struct {
	Date    string   `json:"date"`
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
	Gated   string   `json:"gated,omitempty"` // set when a non-working day produced no fines
}

// FineService issues one flat no-booking fine per student per missed date.
// Students who booked, who have ever presented, or who are on the exemption
// list are never fined.
type FineService struct {
	students  StudentStore
	bookings  BookingStore
	selection SelectionStore
	fines     FineStore
	holidays  *HolidayService
	classes   []string
	amount    int
	exempt    map[string]bool
	logger    *zap.Logger
}

func NewFineService(
	students StudentStore,
	bookings BookingStore,
	selection SelectionStore,
	fines FineStore,
	holidays *HolidayService,
	classes []string,
	amount int,
	exemptStudents []string,
	logger *zap.Logger,
) *FineService {
	exempt := make(map[string]bool, len(exemptStudents))
	for _, id := range exemptStudents {
		exempt[id] = true
	}
	return &FineService{
		students:  students,
		bookings:  bookings,
		selection: selection,
		fines:     fines,
		holidays:  holidays,
		classes:   classes,
		amount:    amount,
		exempt:    exempt,
		logger:    logger,
	}
}

func (s *FineService) AssessForDate(ctx context.Context, date string) (*FineResult, error) {
	result := &FineResult{Date: date}

	// No fine is ever issued for a non-working day
	working, err := s.holidays.IsWorkingDay(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("working-day check: %w", err)
	}
	if !working {
		result.Gated = "non-working day"
		s.logger.Info("fine assessment gated", zap.String("date", date))
		return result, nil
	}

	students, err := s.students.ListByClasses(ctx, s.classes)
	if err != nil {
		return nil, fmt.Errorf("load students: %w", err)
	}

	bookings, err := s.bookings.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	booked := make(map[string]bool, len(bookings))
	for _, booking := range bookings {
		booked[booking.StudentID] = true
	}

	presented, err := s.selection.SelectedStudentIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load all-time selected set: %w", err)
	}

	fined, err := s.fines.FinedStudentIDs(ctx, model.FineTypeNoBooking, date)
	if err != nil {
		return nil, fmt.Errorf("load existing fines: %w", err)
	}

	for _, student := range students {
		if booked[student.ID] || presented[student.ID] || s.exempt[student.ID] || fined[student.ID] {
			result.Skipped++
			continue
		}

		fine := &model.Fine{
			StudentID:     student.ID,
			FineType:      model.FineTypeNoBooking,
			ReferenceDate: date,
			Amount:        s.amount,
			PaymentStatus: model.PaymentStatusPending,
		}

		created, err := s.fines.InsertIgnoreDuplicate(ctx, fine)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("student %s: %v", student.ID, err))
			continue
		}
		if !created {
			// a concurrent run got there first
			result.Skipped++
			continue
		}

		if err := s.fines.AdjustTotal(ctx, student.ID, s.amount); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("student %s: adjust total: %v", student.ID, err))
			continue
		}

		result.Created++
	}

	s.logger.Info("fine assessment complete",
		zap.String("date", date),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)))

	return result, nil
}

// MarkStatus transitions a fine between payment states, keeping the
// student's cached pending total in step. Admin tooling path.
func (s *FineService) MarkStatus(ctx context.Context, fineID string, status model.PaymentStatus) error {
	fine, err := s.fines.GetByID(ctx, fineID)
	if err != nil {
		return err
	}
	if fine == nil {
		return fmt.Errorf("fine not found")
	}
	if fine.PaymentStatus == status {
		return nil
	}

	if err := s.fines.UpdateStatus(ctx, fineID, status); err != nil {
		return err
	}

	if fine.PaymentStatus == model.PaymentStatusPending && status != model.PaymentStatusPending {
		return s.fines.AdjustTotal(ctx, fine.StudentID, -fine.Amount)
	}
	if fine.PaymentStatus != model.PaymentStatusPending && status == model.PaymentStatusPending {
		return s.fines.AdjustTotal(ctx, fine.StudentID, fine.Amount)
	}

	return nil
}

// Remove deletes a fine, decrementing the cached total when it was still
// pending. Admin tooling path.
func (s *FineService) Remove(ctx context.Context, fineID string) error {
	fine, err := s.fines.GetByID(ctx, fineID)
	if err != nil {
		return err
	}
	if fine == nil {
		return fmt.Errorf("fine not found")
	}

	if err := s.fines.Delete(ctx, fineID); err != nil {
		return err
	}

	if fine.PaymentStatus == model.PaymentStatusPending {
		return s.fines.AdjustTotal(ctx, fine.StudentID, -fine.Amount)
	}

	return nil
}
