package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/hrtriage/ticket-service/internal/events"
	"github.com/hrtriage/ticket-service/internal/repository"
	"github.com/hrtriage/ticket-service/internal/webhook"
)

// TriageService drives the post-creation pipeline: classify the new ticket,
// then hand it to the automation webhook. The pipeline runs detached from the
// submitting request and never feeds errors back into it.
type TriageService struct {
	classification *ClassificationService
	tickets        repository.TicketRepository
	hooks          *webhook.Dispatcher
	dispatcher     events.Dispatcher
	logger         *zap.Logger
}

// NewTriageService constructs the service.
func NewTriageService(classification *ClassificationService, tickets repository.TicketRepository, hooks *webhook.Dispatcher, dispatcher events.Dispatcher, logger *zap.Logger) *TriageService {
	return &TriageService{
		classification: classification,
		tickets:        tickets,
		hooks:          hooks,
		dispatcher:     dispatcher,
		logger:         logger,
	}
}

// RegisterHandlers subscribes to events.
func (s *TriageService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Subscribe(events.EventTicketCreated, s.handleTicketCreated)
}

func (s *TriageService) handleTicketCreated(_ context.Context, event events.Event) error {
	go s.process(event.TicketID)
	return nil
}

// process classifies the ticket and triggers the webhook. The webhook fires
// whether or not classification succeeded; a failed classification simply
// forwards the ticket still pending.
func (s *TriageService) process(ticketID string) {
	ctx := context.Background()

	if _, err := s.classification.ClassifyTicket(ctx, ticketID); err != nil {
		s.logger.Warn("classification failed, ticket stays pending",
			zap.String("ticket_id", ticketID),
			zap.Error(err))
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		s.logger.Error("load ticket for webhook", zap.String("ticket_id", ticketID), zap.Error(err))
		return
	}
	s.hooks.Notify(ticket)
}
