package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/deptadmin/seminar_scheduler/internal/service"
)

// Scheduler fires the selection pipeline once a day. Manual HTTP triggers
// may race against it; the pipeline tolerates that by design, so no run
// coordination happens here.
type Scheduler struct {
	pipeline *service.PipelineService
	hour     int
	logger   *zap.Logger
	stopChan chan struct{}
}

func NewScheduler(pipeline *service.PipelineService, hour int, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		pipeline: pipeline,
		hour:     hour,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start launches the daily run loop in the background.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("starting selection scheduler", zap.Int("hour", s.hour))
	go s.runDailyTask(ctx)
}

// Stop terminates the background loop.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping selection scheduler")
	close(s.stopChan)
}

func (s *Scheduler) runDailyTask(ctx context.Context) {
	// Wait until the next configured hour, then tick every 24h
	timer := time.NewTimer(untilNextHour(time.Now(), s.hour))
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			s.runPipeline(ctx)
			timer.Reset(untilNextHour(time.Now(), s.hour))
		case <-s.stopChan:
			s.logger.Info("selection task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("selection task cancelled")
			return
		}
	}
}

func (s *Scheduler) runPipeline(ctx context.Context) {
	s.logger.Info("starting scheduled selection run")

	result, err := s.pipeline.Run(ctx)
	if err != nil {
		// retry, if any, belongs to the scheduler operator, not here
		s.logger.Error("scheduled selection run failed", zap.Error(err))
		return
	}

	s.logger.Info("scheduled selection run complete",
		zap.String("date", result.Date),
		zap.Int("selections_created", len(result.Selections.Created)),
		zap.Int("fines_created", result.Fines.Created),
		zap.Int("errors", len(result.Errors)))
}

func untilNextHour(now time.Time, hour int) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
