package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hrtriage/ticket-service/internal/api/dto"
	"github.com/hrtriage/ticket-service/internal/service"
	apperrors "github.com/hrtriage/ticket-service/pkg/util"
)

// TicketsHandler manages dashboard ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), service.TicketCreateInput{
		EmployeeName:  req.EmployeeName,
		EmployeeEmail: req.EmployeeEmail,
		Subject:       req.Subject,
		Description:   req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(ticket)
}

// ListTickets GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	tickets, err := h.service.ListTickets(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(tickets)
}

// GetTicket GET /api/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(ticket)
}

// PatchTicket PATCH /api/tickets/:id. Writes classification fields back onto
// the ticket; an empty body still moves a pending ticket to classified.
func (h *TicketsHandler) PatchTicket(c *fiber.Ctx) error {
	var req dto.PatchTicketRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}

	ticket, err := h.service.PatchClassification(c.UserContext(), c.Params("id"), service.ClassificationPatch{
		Category:   req.AICategory,
		Confidence: req.AIConfidence,
		Response:   req.AIResponse,
		Status:     req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(ticket)
}

// ResolveTicket POST /api/tickets/:id/resolve. The body is optional.
func (h *TicketsHandler) ResolveTicket(c *fiber.Ctx) error {
	var req dto.ResolveTicketRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}

	ticket, err := h.service.ResolveTicket(c.UserContext(), c.Params("id"), req.Action, req.User)
	if err != nil {
		return err
	}
	return c.JSON(ticket)
}
