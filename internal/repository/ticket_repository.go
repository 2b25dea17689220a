package repository

import (
	"context"

	"github.com/hrtriage/ticket-service/internal/domain"
	"github.com/hrtriage/ticket-service/internal/persistence"
)

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context) ([]*domain.Ticket, error)
	// Update applies mutate to the stored ticket under the store's write lock
	// and returns the committed record. Returns persistence.ErrNotFound for
	// unknown ids; a mutate error aborts the update unchanged.
	Update(ctx context.Context, id string, mutate func(*domain.Ticket) error) (*domain.Ticket, error)
}

type ticketRepository struct {
	store *persistence.FileStore
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(store *persistence.FileStore) TicketRepository {
	return &ticketRepository{store: store}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.Insert(ticket)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.store.Get(id)
}

func (r *ticketRepository) List(ctx context.Context) ([]*domain.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.store.List(), nil
}

func (r *ticketRepository) Update(ctx context.Context, id string, mutate func(*domain.Ticket) error) (*domain.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.store.Update(id, mutate)
}
