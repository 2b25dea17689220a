package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hrtriage/ticket-service/internal/classifier"
	"github.com/hrtriage/ticket-service/internal/config"
	"github.com/hrtriage/ticket-service/internal/domain"
	"github.com/hrtriage/ticket-service/internal/events"
	"github.com/hrtriage/ticket-service/internal/persistence"
	"github.com/hrtriage/ticket-service/internal/repository"
)

func newTicketRepo(t *testing.T) repository.TicketRepository {
	t.Helper()
	store, err := persistence.NewFileStore(config.StoreConfig{
		Path: filepath.Join(t.TempDir(), "tickets.json"),
	}, zap.NewNop())
	require.NoError(t, err)
	return repository.NewTicketRepository(store)
}

func newTicketService(t *testing.T, repo repository.TicketRepository, dispatcher events.Dispatcher) *TicketService {
	t.Helper()
	return NewTicketService(TicketDependencies{
		TicketRepo: repo,
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
	})
}

func newClassifierClient(t *testing.T, url string) *classifier.Client {
	t.Helper()
	return classifier.NewClient(config.ClassifierConfig{
		APIURL:         url,
		APIToken:       "test-token",
		TimeoutSeconds: 2,
	}, zap.NewNop())
}

func createPendingTicket(t *testing.T, svc *TicketService) *domain.Ticket {
	t.Helper()
	ticket, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		EmployeeName:  "Jane Doe",
		EmployeeEmail: "jane@co.com",
		Subject:       "PTO balance",
		Description:   "How many days do I have left?",
	})
	require.NoError(t, err)
	return ticket
}
