package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hrtriage/ticket-service/internal/service"
)

// AnalyticsHandler serves dashboard aggregates.
type AnalyticsHandler struct {
	service *service.AnalyticsService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: analyticsService}
}

// Summary GET /api/analytics.
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	snapshot, err := h.service.Summarize(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(snapshot)
}
