package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hrtriage/ticket-service/internal/classifier"
	"github.com/hrtriage/ticket-service/internal/config"
)

// HealthHandler responds to service and classifier health probes.
type HealthHandler struct {
	serviceName string
	version     string
	webhook     config.WebhookConfig
	monitor     *classifier.HealthMonitor
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, webhook config.WebhookConfig, monitor *classifier.HealthMonitor) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, webhook: webhook, monitor: monitor}
}

// Health GET /api/health.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	webhookState := "not configured"
	if h.webhook.Enabled() {
		webhookState = "configured"
	}
	return c.JSON(fiber.Map{
		"status":      "healthy",
		"service":     h.serviceName,
		"version":     h.version,
		"n8n_webhook": webhookState,
	})
}

// AIHealth GET /api/ai/health. Always 200; the classifier's reachability is
// carried in the body so the dashboard can poll it without tripping alerting.
func (h *HealthHandler) AIHealth(c *fiber.Ctx) error {
	return c.JSON(h.monitor.Current())
}
