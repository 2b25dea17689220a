package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hrtriage/ticket-service/internal/classifier"
	"github.com/hrtriage/ticket-service/internal/domain"
	"github.com/hrtriage/ticket-service/internal/events"
	"github.com/hrtriage/ticket-service/internal/observability"
	"github.com/hrtriage/ticket-service/internal/repository"
	"github.com/hrtriage/ticket-service/pkg/util"
)

// ClassificationService orchestrates zero-shot classification of tickets.
// Every failure leaves the ticket pending; callers decide whether to retry.
type ClassificationService struct {
	tickets    repository.TicketRepository
	client     *classifier.Client
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// SweepResult summarizes one reclassification pass over pending tickets.
type SweepResult struct {
	Scanned    int
	Classified int
	Failed     int
}

// NewClassificationService constructs the service.
func NewClassificationService(tickets repository.TicketRepository, client *classifier.Client, dispatcher events.Dispatcher, logger *zap.Logger) *ClassificationService {
	return &ClassificationService{
		tickets:    tickets,
		client:     client,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// ClassifyTicket classifies one ticket and writes the result back. The status
// moves pending -> classified; a ticket resolved in the meantime keeps its
// status but still receives the classification fields.
func (s *ClassificationService) ClassifyTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapRepoError(err, ticketID)
	}

	result, err := s.client.Classify(ctx, ticket.Subject+"\n\n"+ticket.Description)
	if err != nil {
		observability.RecordClassification("failure")
		return nil, util.NewClassificationUnavailable(err)
	}

	response := domain.AutoResponse(result.Category)
	updated, err := s.tickets.Update(ctx, ticketID, func(t *domain.Ticket) error {
		t.AICategory = &result.Category
		t.AIConfidence = &result.Confidence
		t.AIResponse = &response
		if t.Status == domain.TicketStatusPending {
			t.Status = domain.TicketStatusClassified
		}
		return nil
	})
	if err != nil {
		observability.RecordClassification("failure")
		return nil, mapRepoError(err, ticketID)
	}

	observability.RecordClassification("success")
	s.logger.Info("ticket classified",
		zap.String("ticket_id", ticketID),
		zap.String("category", result.Category),
		zap.Float64("confidence", result.Confidence))

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTicketClassified,
			TicketID:  ticketID,
			Timestamp: time.Now(),
			Payload: events.TicketClassifiedPayload{
				Category:   result.Category,
				Confidence: result.Confidence,
			},
		})
	}
	return updated, nil
}

// ReclassifyPending runs one classification sweep over all pending tickets.
// Failures are logged and counted; the sweep continues with the next ticket.
func (s *ClassificationService) ReclassifyPending(ctx context.Context) (*SweepResult, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, util.NewStorageError(err)
	}

	result := &SweepResult{}
	for _, ticket := range tickets {
		if ticket.Status != domain.TicketStatusPending {
			continue
		}
		result.Scanned++
		if _, err := s.ClassifyTicket(ctx, ticket.ID); err != nil {
			result.Failed++
			s.logger.Warn("reclassification failed, ticket stays pending",
				zap.String("ticket_id", ticket.ID),
				zap.Error(err))
			continue
		}
		result.Classified++
	}
	return result, nil
}
