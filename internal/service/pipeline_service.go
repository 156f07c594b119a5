package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/deptadmin/seminar_scheduler/internal/notify"
)

// PipelineResult is the structured report returned to schedulers and admin
// callers: top-level success plus per-subsystem detail so partial success
// is distinguishable from total failure.
type PipelineResult struct {
	Success    bool              `json:"success"`
	Date       string            `json:"date"`
	Reschedule *RescheduleResult `json:"reschedule,omitempty"`
	Selections *SelectionResult  `json:"selections"`
	Fines      *FineResult       `json:"fines"`
	Notified   int               `json:"notified"`
	Errors     []string          `json:"errors,omitempty"`
}

// PipelineService sequences the daily run: date computation, holiday
// adjustment, selection, fine assessment, notifications. Concurrent
// invocations for the same date are safe; idempotency comes from the
// storage constraints, not from locking.
type PipelineService struct {
	holidays  *HolidayService
	selection *SelectionService
	fines     *FineService
	notifier  notify.Notifier
	offDay    time.Weekday
	logger    *zap.Logger

	now func() time.Time
}

func NewPipelineService(
	holidays *HolidayService,
	selection *SelectionService,
	fines *FineService,
	notifier notify.Notifier,
	offDay time.Weekday,
	logger *zap.Logger,
) *PipelineService {
	return &PipelineService{
		holidays:  holidays,
		selection: selection,
		fines:     fines,
		notifier:  notifier,
		offDay:    offDay,
		logger:    logger,
		now:       time.Now,
	}
}

// Run executes the pipeline for the computed next presentation date.
func (p *PipelineService) Run(ctx context.Context) (*PipelineResult, error) {
	return p.RunForDate(ctx, NextPresentationDate(p.now(), p.offDay))
}

// RunForDate executes the pipeline against an explicit date. Fine
// assessment always runs, even when selection had nothing to do;
// notification failures are recorded, never fatal.
func (p *PipelineService) RunForDate(ctx context.Context, date string) (*PipelineResult, error) {
	result := &PipelineResult{Date: date}

	reschedule, err := p.holidays.CheckAndReschedule(ctx, date)
	if err != nil {
		return nil, err
	}
	if reschedule.NeedsReschedule {
		result.Reschedule = reschedule
		date = reschedule.NewDate
		result.Date = date
		p.logger.Info("run shifted off holiday",
			zap.String("holiday", reschedule.HolidayName),
			zap.String("new_date", date))
	}

	selections, err := p.selection.SelectForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	result.Selections = selections

	fines, err := p.fines.AssessForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	result.Fines = fines
	result.Errors = append(result.Errors, fines.Errors...)

	for _, selection := range selections.Created {
		if selection.Student == nil {
			continue
		}
		msg := notify.Message{
			Title: "You have been selected to present",
			Body:  fmt.Sprintf("You were randomly selected to present on %s. Please prepare accordingly.", date),
		}
		if err := p.notifier.Notify(ctx, selection.Student, msg); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("notify %s: %v", selection.StudentID, err))
			continue
		}
		result.Notified++
	}

	result.Success = true
	return result, nil
}
