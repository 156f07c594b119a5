package service

import (
	"context"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/deptadmin/seminar_scheduler/internal/model"
)

// Per-class outcomes of one selection run.
const (
	OutcomeSelected        = "selected"         // new selection persisted this run
	OutcomeAlreadySelected = "already_selected" // slot was filled before this run
	OutcomeNoEligible      = "no_eligible"      // nobody booked or everyone already presented
	OutcomeLostRace        = "lost_race"        // concurrent run filled the slot first
	OutcomeSkipped         = "skipped"          // guard re-query failed, slot left alone
)

// SelectionResult is the per-class report of one SelectForDate invocation.
type SelectionResult struct {
	Date            string             `json:"date"`
	Classes         map[string]string  `json:"classes"`
	Created         []*model.Selection `json:"created"`
	AlreadyComplete bool               `json:"already_complete"`
}

// SelectionService draws at most one presenter per tracked class per date,
// from that date's bookings, excluding everyone who has ever presented.
// Safe to run concurrently for the same date: races are resolved by the
// storage uniqueness constraints, not by locking.
type SelectionService struct {
	bookings   BookingStore
	selections SelectionStore
	classes    []string
	logger     *zap.Logger

	// pick returns an index in [0,n); swapped out in tests
	pick func(n int) int
}

func NewSelectionService(bookings BookingStore, selections SelectionStore, classes []string, logger *zap.Logger) *SelectionService {
	return &SelectionService{
		bookings:   bookings,
		selections: selections,
		classes:    classes,
		logger:     logger,
		pick:       rand.Intn,
	}
}

func (s *SelectionService) SelectForDate(ctx context.Context, date string) (*SelectionResult, error) {
	result := &SelectionResult{
		Date:    date,
		Classes: make(map[string]string, len(s.classes)),
	}

	existing, err := s.selections.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load existing selections: %w", err)
	}

	filled := make(map[string]bool, len(existing))
	for _, selection := range existing {
		filled[selection.ClassYear] = true
	}
	for _, class := range s.classes {
		if filled[class] {
			result.Classes[class] = OutcomeAlreadySelected
		}
	}
	if len(result.Classes) == len(s.classes) {
		result.AlreadyComplete = true
		s.logger.Info("selection already complete", zap.String("date", date))
		return result, nil
	}

	bookings, err := s.bookings.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}

	presented, err := s.selections.SelectedStudentIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load all-time selected set: %w", err)
	}

	buckets := s.partition(bookings, presented)

	for _, class := range s.classes {
		if filled[class] {
			continue
		}

		pool := buckets[class]
		if len(pool) == 0 {
			result.Classes[class] = OutcomeNoEligible
			s.logger.Info("no eligible students",
				zap.String("date", date),
				zap.String("class", class))
			continue
		}

		candidate := pool[s.pick(len(pool))]

		// Re-check right before the write; a parallel run may have filled
		// the slot since the precondition load. A failed re-query skips
		// the class rather than risking a duplicate.
		current, err := s.selections.ListByDate(ctx, date)
		if err != nil {
			result.Classes[class] = OutcomeSkipped
			s.logger.Warn("final guard re-query failed, skipping class",
				zap.String("date", date),
				zap.String("class", class),
				zap.Error(err))
			continue
		}
		if classFilled(current, class) || len(current) >= len(s.classes) {
			result.Classes[class] = OutcomeLostRace
			continue
		}

		selection := &model.Selection{
			StudentID: candidate.StudentID,
			Date:      date,
			ClassYear: class,
			Student:   candidate.Student,
		}

		created, err := s.selections.Insert(ctx, selection)
		if err != nil {
			return nil, fmt.Errorf("persist selection: %w", err)
		}
		if !created {
			result.Classes[class] = OutcomeLostRace
			s.logger.Info("selection slot lost to concurrent run",
				zap.String("date", date),
				zap.String("class", class))
			continue
		}

		result.Classes[class] = OutcomeSelected
		result.Created = append(result.Created, selection)
		s.logger.Info("student selected",
			zap.String("date", date),
			zap.String("class", class),
			zap.String("student_id", selection.StudentID))
	}

	return result, nil
}

// partition groups a date's bookings into the tracked class buckets,
// dropping students who have ever been selected before.
func (s *SelectionService) partition(bookings []*model.Booking, presented map[string]bool) map[string][]*model.Booking {
	tracked := make(map[string]bool, len(s.classes))
	for _, class := range s.classes {
		tracked[class] = true
	}

	buckets := make(map[string][]*model.Booking)
	for _, booking := range bookings {
		if booking.Student == nil || !tracked[booking.Student.ClassYear] {
			continue
		}
		if presented[booking.StudentID] {
			continue
		}
		buckets[booking.Student.ClassYear] = append(buckets[booking.Student.ClassYear], booking)
	}

	return buckets
}

func classFilled(selections []*model.Selection, class string) bool {
	for _, selection := range selections {
		if selection.ClassYear == class {
			return true
		}
	}
	return false
}
