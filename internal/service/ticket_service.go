package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hrtriage/ticket-service/internal/domain"
	"github.com/hrtriage/ticket-service/internal/events"
	"github.com/hrtriage/ticket-service/internal/persistence"
	"github.com/hrtriage/ticket-service/internal/repository"
	"github.com/hrtriage/ticket-service/pkg/util"
)

// defaultResolver is recorded when the dashboard omits the acting user.
const defaultResolver = "Dashboard User"

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	EmployeeName  string
	EmployeeEmail string
	Subject       string
	Description   string
}

// ClassificationPatch carries classification fields written back by the
// automation workflow. Nil fields are left untouched.
type ClassificationPatch struct {
	Category   *string
	Confidence *float64
	Response   *string
	Status     *string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// CreateTicket validates input and persists a new pending ticket. The ticket
// is returned before any classification or automation runs.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	var missing []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"employee_name", input.EmployeeName},
		{"employee_email", input.EmployeeEmail},
		{"subject", input.Subject},
		{"description", input.Description},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return nil, util.NewValidationError("missing required fields", map[string]any{"fields": missing})
	}

	now := time.Now().UTC()
	ticket := &domain.Ticket{
		ID:            uuid.NewString(),
		EmployeeName:  strings.TrimSpace(input.EmployeeName),
		EmployeeEmail: strings.TrimSpace(input.EmployeeEmail),
		Subject:       strings.TrimSpace(input.Subject),
		Description:   strings.TrimSpace(input.Description),
		Status:        domain.TicketStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, util.NewStorageError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			Subject:       ticket.Subject,
			EmployeeEmail: ticket.EmployeeEmail,
		},
	})
	return ticket, nil
}

// GetTicket fetches a single ticket.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id)
	}
	return ticket, nil
}

// ListTickets returns all tickets in creation order.
func (s *TicketService) ListTickets(ctx context.Context) ([]*domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, util.NewStorageError(err)
	}
	return tickets, nil
}

// ResolveTicket marks a ticket resolved on behalf of user. Resolving an
// already resolved ticket is rejected.
func (s *TicketService) ResolveTicket(ctx context.Context, id, action, user string) (*domain.Ticket, error) {
	if action == "" {
		action = "resolved"
	}
	if action != "resolved" {
		return nil, util.NewValidationError("unsupported action", map[string]any{"action": action})
	}
	if strings.TrimSpace(user) == "" {
		user = defaultResolver
	}

	ticket, err := s.tickets.Update(ctx, id, func(t *domain.Ticket) error {
		if !isValidTransition(t.Status, domain.TicketStatusResolved) {
			return util.NewInvalidTransition("ticket already resolved", map[string]any{"status": t.Status})
		}
		now := time.Now().UTC()
		t.Status = domain.TicketStatusResolved
		t.ResolvedAt = &now
		t.ResolvedBy = &user
		return nil
	})
	if err != nil {
		return nil, mapRepoError(err, id)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketResolved,
		TicketID: ticket.ID,
		Payload:  events.TicketResolvedPayload{ResolvedBy: user},
	})
	return ticket, nil
}

// PatchClassification applies classification fields written back by the
// automation workflow. Status may only move pending -> classified; resolved
// tickets keep their status but still accept field updates.
func (s *TicketService) PatchClassification(ctx context.Context, id string, patch ClassificationPatch) (*domain.Ticket, error) {
	if patch.Confidence != nil && (*patch.Confidence < 0 || *patch.Confidence > 1) {
		return nil, util.NewValidationError("ai_confidence must be within [0,1]", map[string]any{"ai_confidence": *patch.Confidence})
	}
	if patch.Status != nil && *patch.Status != string(domain.TicketStatusClassified) {
		return nil, util.NewValidationError("status may only be set to classified", map[string]any{"status": *patch.Status})
	}

	ticket, err := s.tickets.Update(ctx, id, func(t *domain.Ticket) error {
		if patch.Category != nil {
			t.AICategory = patch.Category
		}
		if patch.Confidence != nil {
			t.AIConfidence = patch.Confidence
		}
		if patch.Response != nil {
			t.AIResponse = patch.Response
		}
		if (t.AICategory == nil) != (t.AIConfidence == nil) {
			return util.NewValidationError("ai_category and ai_confidence must be set together", nil)
		}
		if t.Status == domain.TicketStatusPending {
			t.Status = domain.TicketStatusClassified
		}
		return nil
	})
	if err != nil {
		return nil, mapRepoError(err, id)
	}

	if ticket.Classified() {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketClassified,
			TicketID: ticket.ID,
			Payload: events.TicketClassifiedPayload{
				Category:   *ticket.AICategory,
				Confidence: *ticket.AIConfidence,
			},
		})
	}
	return ticket, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusPending:    {domain.TicketStatusClassified, domain.TicketStatusResolved},
	domain.TicketStatusClassified: {domain.TicketStatusResolved},
	domain.TicketStatusResolved:   {},
}

func isValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// mapRepoError converts repository errors to the HTTP-facing taxonomy.
// Domain errors raised inside update closures pass through unchanged.
func mapRepoError(err error, id string) error {
	if errors.Is(err, persistence.ErrNotFound) {
		return util.NewNotFound("ticket", map[string]any{"id": id})
	}
	var domainErr *util.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return util.NewStorageError(err)
}
