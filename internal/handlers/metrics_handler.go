package handlers

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sebridge/checkin/internal/dto"
	"github.com/sebridge/checkin/internal/localdate"
	"github.com/sebridge/checkin/internal/services"
)

type MetricsHandler struct {
	metrics *services.MetricsService
}

func NewMetricsHandler(metrics *services.MetricsService) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// DailyCheckinsLastWeek serves the trailing-7-day chart data.
func (h *MetricsHandler) DailyCheckinsLastWeek(c *fiber.Ctx) error {
	resp, err := h.metrics.DailyCheckinsLastWeek(time.Now().UTC())
	if err != nil {
		slog.Error("daily metrics failed", "error", err)
		return fiber.ErrInternalServerError
	}
	return c.JSON(resp)
}

// AttendanceByDate serves the full record list for one local date.
func (h *MetricsHandler) AttendanceByDate(c *fiber.Ctx) error {
	date := c.Params("date")
	if err := localdate.ValidateDate(date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid date format, expected YYYY-MM-DD",
		})
	}

	recs, err := h.metrics.RecordsForDate(date)
	if err != nil {
		slog.Error("attendance-by-date metrics failed", "date", date, "error", err)
		return fiber.ErrInternalServerError
	}
	return c.JSON(recs)
}

// MonthlySummary serves one month's total plus reason and business-line
// percentage breakdowns.
func (h *MetricsHandler) MonthlySummary(c *fiber.Ctx) error {
	month := c.Params("month")
	if err := localdate.ValidateMonth(month); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid month format, expected YYYY-MM",
		})
	}

	resp, err := h.metrics.MonthlySummary(month)
	if err != nil {
		slog.Error("monthly summary metrics failed", "month", month, "error", err)
		return fiber.ErrInternalServerError
	}
	return c.JSON(resp)
}
