package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/deptadmin/seminar_scheduler/internal/service"
)

// SelectionHandler exposes the pipeline over HTTP: a run trigger for the
// external scheduler or an admin, and a read-only status view.
type SelectionHandler struct {
	pipeline   *service.PipelineService
	selections service.SelectionStore
	logger     *zap.Logger
}

func NewSelectionHandler(pipeline *service.PipelineService, selections service.SelectionStore, logger *zap.Logger) *SelectionHandler {
	return &SelectionHandler{
		pipeline:   pipeline,
		selections: selections,
		logger:     logger,
	}
}

// Run executes the pipeline. Without a date parameter the next presentation
// date is computed; an explicit ?date=YYYY-MM-DD runs against that date.
// Empty outcomes (nothing booked, already complete) are 200s, not errors.
func (h *SelectionHandler) Run(c *fiber.Ctx) error {
	date := c.Query("date")
	if date != "" {
		if _, err := service.ParseDate(date); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "date must be YYYY-MM-DD",
			})
		}
	}

	var (
		result *service.PipelineResult
		err    error
	)
	if date == "" {
		result, err = h.pipeline.Run(c.Context())
	} else {
		result, err = h.pipeline.RunForDate(c.Context(), date)
	}
	if err != nil {
		h.logger.Error("pipeline run failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(result)
}

// Status returns the existing selections for a date.
func (h *SelectionHandler) Status(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "date query parameter is required",
		})
	}
	if _, err := service.ParseDate(date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "date must be YYYY-MM-DD",
		})
	}

	selections, err := h.selections.ListByDate(c.Context(), date)
	if err != nil {
		h.logger.Error("status query failed", zap.String("date", date), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"date":       date,
		"selections": selections,
		"count":      len(selections),
	})
}
