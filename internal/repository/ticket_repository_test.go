package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hrtriage/ticket-service/internal/config"
	"github.com/hrtriage/ticket-service/internal/domain"
	"github.com/hrtriage/ticket-service/internal/persistence"
)

func newTestRepo(t *testing.T) TicketRepository {
	t.Helper()
	store, err := persistence.NewFileStore(config.StoreConfig{
		Path: filepath.Join(t.TempDir(), "tickets.json"),
	}, zap.NewNop())
	require.NoError(t, err)
	return NewTicketRepository(store)
}

func pendingTicket(id string) *domain.Ticket {
	now := time.Now().UTC()
	return &domain.Ticket{
		ID:            id,
		EmployeeName:  "Jane Doe",
		EmployeeEmail: "jane@co.com",
		Subject:       "PTO balance",
		Description:   "How many days do I have left?",
		Status:        domain.TicketStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestRepositoryRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, pendingTicket("t-1")))

	got, err := repo.GetByID(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, "t-1", got.ID)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRepositoryNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, persistence.ErrNotFound)

	_, err = repo.Update(context.Background(), "missing", func(*domain.Ticket) error { return nil })
	assert.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestRepositoryUpdate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, pendingTicket("t-1")))

	updated, err := repo.Update(ctx, "t-1", func(ticket *domain.Ticket) error {
		ticket.Status = domain.TicketStatusClassified
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClassified, updated.Status)
}

func TestRepositoryHonorsCanceledContext(t *testing.T) {
	repo := newTestRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, repo.Create(ctx, pendingTicket("t-1")), context.Canceled)

	_, err := repo.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
