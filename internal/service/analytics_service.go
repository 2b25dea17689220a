package service

import (
	"context"

	"github.com/hrtriage/ticket-service/internal/domain"
	"github.com/hrtriage/ticket-service/internal/repository"
	"github.com/hrtriage/ticket-service/pkg/util"
)

// AnalyticsService computes dashboard aggregates over the ticket store.
type AnalyticsService struct {
	tickets repository.TicketRepository
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(tickets repository.TicketRepository) *AnalyticsService {
	return &AnalyticsService{tickets: tickets}
}

// Summarize recomputes the snapshot from the full ticket list on every call.
// The store is proof-of-concept scale; no incremental cache is kept.
func (s *AnalyticsService) Summarize(ctx context.Context) (*domain.AnalyticsSnapshot, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, util.NewStorageError(err)
	}
	return domain.NewAnalyticsSnapshot(tickets), nil
}
