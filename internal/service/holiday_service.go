package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/deptadmin/seminar_scheduler/internal/model"
	"github.com/deptadmin/seminar_scheduler/internal/notify"
)

// maxWorkingDayLookahead bounds the next-working-day search. A calendar
// dense enough to exhaust it is treated as misconfiguration.
const maxWorkingDayLookahead = 60

// RescheduleResult reports whether a candidate date had to move and what
// was migrated along with it.
type RescheduleResult struct {
	NeedsReschedule bool                    `json:"needs_reschedule"`
	NewDate         string                  `json:"new_date"`
	HolidayName     string                  `json:"holiday_name,omitempty"`
	Migrated        *model.RescheduleRecord `json:"migrated,omitempty"`
}

// HolidayService shifts presentation dates off declared holidays and is the
// only pipeline component allowed to rewrite existing selections.
type HolidayService struct {
	holidays    HolidayStore
	selections  SelectionStore
	reschedules RescheduleStore
	notifier    notify.Notifier
	offDay      time.Weekday
	logger      *zap.Logger
}

func NewHolidayService(
	holidays HolidayStore,
	selections SelectionStore,
	reschedules RescheduleStore,
	notifier notify.Notifier,
	offDay time.Weekday,
	logger *zap.Logger,
) *HolidayService {
	return &HolidayService{
		holidays:    holidays,
		selections:  selections,
		reschedules: reschedules,
		notifier:    notifier,
		offDay:      offDay,
		logger:      logger,
	}
}

// CheckAndReschedule inspects a candidate date. On an ordinary day it
// returns the date unchanged. On a holiday it finds the next working day,
// migrates any selections already made for the holiday, records the batch
// and notifies affected students best-effort. Migration bookkeeping
// failures never block the caller from continuing against the new date.
func (s *HolidayService) CheckAndReschedule(ctx context.Context, date string) (*RescheduleResult, error) {
	holiday, err := s.holidays.GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("check holiday: %w", err)
	}

	if holiday == nil || !holiday.AffectsPresentations {
		return &RescheduleResult{NeedsReschedule: false, NewDate: date}, nil
	}

	newDate, err := s.nextWorkingDay(ctx, date)
	if err != nil {
		return nil, err
	}

	result := &RescheduleResult{
		NeedsReschedule: true,
		NewDate:         newDate,
		HolidayName:     holiday.Name,
	}

	existing, err := s.selections.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load selections for holiday date: %w", err)
	}
	if len(existing) == 0 {
		return result, nil
	}

	moved, err := s.selections.MoveDate(ctx, date, newDate)
	if err != nil {
		// The run proceeds against the new date regardless
		s.logger.Error("selection migration failed",
			zap.String("original_date", date),
			zap.String("new_date", newDate),
			zap.Error(err))
		return result, nil
	}

	record := &model.RescheduleRecord{
		OriginalDate:  date,
		NewDate:       newDate,
		Reason:        fmt.Sprintf("holiday: %s", holiday.Name),
		AffectedCount: int(moved),
	}
	if err := s.reschedules.Create(ctx, record); err != nil {
		s.logger.Error("write reschedule record failed", zap.Error(err))
	} else {
		result.Migrated = record
	}

	for _, selection := range existing {
		if selection.Student == nil {
			continue
		}
		msg := notify.Message{
			Title: "Presentation rescheduled",
			Body: fmt.Sprintf("Your presentation on %s falls on %s and has been moved to %s.",
				date, holiday.Name, newDate),
		}
		if err := s.notifier.Notify(ctx, selection.Student, msg); err != nil {
			s.logger.Warn("reschedule notification failed",
				zap.String("student_id", selection.StudentID),
				zap.Error(err))
		}
	}

	s.logger.Info("selections rescheduled",
		zap.String("original_date", date),
		zap.String("new_date", newDate),
		zap.Int64("moved", moved))

	return result, nil
}

// IsWorkingDay reports whether a date is neither the off-day nor a holiday
// that affects presentations.
func (s *HolidayService) IsWorkingDay(ctx context.Context, date string) (bool, error) {
	day, err := ParseDate(date)
	if err != nil {
		return false, fmt.Errorf("parse date: %w", err)
	}
	if day.Weekday() == s.offDay {
		return false, nil
	}

	holiday, err := s.holidays.GetByDate(ctx, date)
	if err != nil {
		return false, fmt.Errorf("check holiday: %w", err)
	}

	return holiday == nil || !holiday.AffectsPresentations, nil
}

func (s *HolidayService) nextWorkingDay(ctx context.Context, date string) (string, error) {
	day, err := ParseDate(date)
	if err != nil {
		return "", fmt.Errorf("parse date: %w", err)
	}

	for i := 0; i < maxWorkingDayLookahead; i++ {
		day = day.AddDate(0, 0, 1)
		if day.Weekday() == s.offDay {
			continue
		}

		candidate := day.Format(DateLayout)
		holiday, err := s.holidays.GetByDate(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check holiday: %w", err)
		}
		if holiday == nil || !holiday.AffectsPresentations {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no working day found within %d days after %s", maxWorkingDayLookahead, date)
}
