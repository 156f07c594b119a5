package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/deptadmin/seminar_scheduler/internal/app"
	"github.com/deptadmin/seminar_scheduler/internal/config"
	"github.com/deptadmin/seminar_scheduler/internal/controller/handlers"
	"github.com/deptadmin/seminar_scheduler/internal/notify"
	"github.com/deptadmin/seminar_scheduler/internal/repository"
	"github.com/deptadmin/seminar_scheduler/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("failed to init migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	bookingRepo := repository.NewBookingRepository(pool)
	selectionRepo := repository.NewSelectionRepository(pool)
	fineRepo := repository.NewFineRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	holidayRepo := repository.NewHolidayRepository(pool)
	rescheduleRepo := repository.NewRescheduleRepository(pool)

	notifier := buildNotifier(cfg, logger)

	holidaySvc := service.NewHolidayService(holidayRepo, selectionRepo, rescheduleRepo, notifier, cfg.OffDay, logger)
	selectionSvc := service.NewSelectionService(bookingRepo, selectionRepo, cfg.TrackedClasses, logger)
	fineSvc := service.NewFineService(studentRepo, bookingRepo, selectionRepo, fineRepo, holidaySvc,
		cfg.TrackedClasses, cfg.FineAmount, cfg.ExemptStudents, logger)
	pipelineSvc := service.NewPipelineService(holidaySvc, selectionSvc, fineSvc, notifier, cfg.OffDay, logger)

	scheduler := app.NewScheduler(pipelineSvc, cfg.SelectionHour, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	selectionHandler := handlers.NewSelectionHandler(pipelineSvc, selectionRepo, logger)
	srv := app.NewServer(pool, selectionHandler)

	go func() {
		logger.Info("starting http server",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("environment", cfg.Environment))
		if err := srv.Listen(cfg.HTTPAddr); err != nil {
			logger.Fatal("http server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if err := srv.Shutdown(); err != nil {
		logger.Error("http shutdown failed", zap.Error(err))
	}
}

// buildNotifier assembles the configured delivery backends; with nothing
// configured, notices only reach the log.
func buildNotifier(cfg *config.Config, logger *zap.Logger) notify.Notifier {
	backends := []notify.Notifier{notify.NewConsole(logger)}

	if cfg.SendgridAPIKey != "" && cfg.EmailFrom != "" {
		backends = append(backends, notify.NewSendgrid(cfg.SendgridAPIKey, cfg.EmailFrom))
	}
	if cfg.TelegramToken != "" {
		telegram, err := notify.NewTelegram(cfg.TelegramToken)
		if err != nil {
			logger.Warn("telegram notifier disabled", zap.Error(err))
		} else {
			backends = append(backends, telegram)
		}
	}

	return notify.NewMulti(logger, backends...)
}
