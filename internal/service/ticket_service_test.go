package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrtriage/ticket-service/internal/domain"
	"github.com/hrtriage/ticket-service/internal/events"
	"github.com/hrtriage/ticket-service/pkg/util"
)

func TestCreateTicketPersistsPending(t *testing.T) {
	repo := newTicketRepo(t)
	svc := newTicketService(t, repo, nil)

	ticket, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		EmployeeName:  "  Jane Doe  ",
		EmployeeEmail: "jane@co.com",
		Subject:       "PTO balance",
		Description:   "How many days do I have left?",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, ticket.ID)
	assert.Equal(t, "Jane Doe", ticket.EmployeeName)
	assert.Equal(t, domain.TicketStatusPending, ticket.Status)
	assert.Nil(t, ticket.AICategory)
	assert.Nil(t, ticket.AIConfidence)
	assert.Nil(t, ticket.AIResponse)
	assert.Equal(t, ticket.CreatedAt, ticket.UpdatedAt)

	stored, err := repo.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, stored.ID)
}

func TestCreateTicketAssignsUniqueIDs(t *testing.T) {
	svc := newTicketService(t, newTicketRepo(t), nil)

	first := createPendingTicket(t, svc)
	second := createPendingTicket(t, svc)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreateTicketRejectsMissingFields(t *testing.T) {
	repo := newTicketRepo(t)
	svc := newTicketService(t, repo, nil)

	_, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		EmployeeName: "Jane Doe",
		Subject:      "   ",
	})
	require.Error(t, err)

	var domainErr *util.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.ElementsMatch(t, []string{"employee_email", "subject", "description"}, domainErr.Details["fields"])

	tickets, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestCreateTicketPublishesEvent(t *testing.T) {
	repo := newTicketRepo(t)
	dispatcher := events.NewInMemoryDispatcher()
	svc := newTicketService(t, repo, dispatcher)

	var got events.Event
	dispatcher.Subscribe(events.EventTicketCreated, func(_ context.Context, event events.Event) error {
		got = event
		return nil
	})

	ticket := createPendingTicket(t, svc)

	assert.Equal(t, events.EventTicketCreated, got.Type)
	assert.Equal(t, ticket.ID, got.TicketID)
	assert.NotEmpty(t, got.ID)
	payload, ok := got.Payload.(events.TicketCreatedPayload)
	require.True(t, ok)
	assert.Equal(t, "PTO balance", payload.Subject)
	assert.Equal(t, "jane@co.com", payload.EmployeeEmail)
}

func TestGetTicketUnknownID(t *testing.T) {
	svc := newTicketService(t, newTicketRepo(t), nil)

	_, err := svc.GetTicket(context.Background(), "missing")
	var domainErr *util.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
	assert.Equal(t, 404, domainErr.HTTPStatus)
}

func TestListTicketsCreationOrder(t *testing.T) {
	svc := newTicketService(t, newTicketRepo(t), nil)

	first := createPendingTicket(t, svc)
	second, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		EmployeeName:  "Bob",
		EmployeeEmail: "bob@co.com",
		Subject:       "Payslip missing",
		Description:   "No payslip for July",
	})
	require.NoError(t, err)

	tickets, err := svc.ListTickets(context.Background())
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, first.ID, tickets[0].ID)
	assert.Equal(t, second.ID, tickets[1].ID)
}

func TestResolveTicket(t *testing.T) {
	repo := newTicketRepo(t)
	dispatcher := events.NewInMemoryDispatcher()
	svc := newTicketService(t, repo, dispatcher)

	var resolvedBy string
	dispatcher.Subscribe(events.EventTicketResolved, func(_ context.Context, event events.Event) error {
		resolvedBy = event.Payload.(events.TicketResolvedPayload).ResolvedBy
		return nil
	})

	ticket := createPendingTicket(t, svc)

	resolved, err := svc.ResolveTicket(context.Background(), ticket.ID, "resolved", "Alice")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)
	require.NotNil(t, resolved.ResolvedBy)
	assert.Equal(t, "Alice", *resolved.ResolvedBy)
	assert.Equal(t, "Alice", resolvedBy)
	assert.True(t, resolved.UpdatedAt.After(ticket.UpdatedAt) || resolved.UpdatedAt.Equal(ticket.UpdatedAt))
}

func TestResolveTicketDefaults(t *testing.T) {
	svc := newTicketService(t, newTicketRepo(t), nil)
	ticket := createPendingTicket(t, svc)

	resolved, err := svc.ResolveTicket(context.Background(), ticket.ID, "", "  ")
	require.NoError(t, err)
	require.NotNil(t, resolved.ResolvedBy)
	assert.Equal(t, "Dashboard User", *resolved.ResolvedBy)
}

func TestResolveTicketRejectsUnknownAction(t *testing.T) {
	svc := newTicketService(t, newTicketRepo(t), nil)
	ticket := createPendingTicket(t, svc)

	_, err := svc.ResolveTicket(context.Background(), ticket.ID, "escalate", "Alice")
	var domainErr *util.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestResolveTicketTwiceConflicts(t *testing.T) {
	svc := newTicketService(t, newTicketRepo(t), nil)
	ticket := createPendingTicket(t, svc)

	_, err := svc.ResolveTicket(context.Background(), ticket.ID, "resolved", "Alice")
	require.NoError(t, err)

	_, err = svc.ResolveTicket(context.Background(), ticket.ID, "resolved", "Bob")
	var domainErr *util.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
	assert.Equal(t, 409, domainErr.HTTPStatus)

	// The losing resolve must not overwrite the original resolver.
	current, err := svc.GetTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", *current.ResolvedBy)
}

func TestResolveTicketUnknownID(t *testing.T) {
	svc := newTicketService(t, newTicketRepo(t), nil)

	_, err := svc.ResolveTicket(context.Background(), "missing", "resolved", "Alice")
	var domainErr *util.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestPatchClassificationMovesPendingToClassified(t *testing.T) {
	repo := newTicketRepo(t)
	dispatcher := events.NewInMemoryDispatcher()
	svc := newTicketService(t, repo, dispatcher)

	var classified events.TicketClassifiedPayload
	dispatcher.Subscribe(events.EventTicketClassified, func(_ context.Context, event events.Event) error {
		classified = event.Payload.(events.TicketClassifiedPayload)
		return nil
	})

	ticket := createPendingTicket(t, svc)

	category := "PTO"
	confidence := 0.92
	response := "Check the portal for your remaining days."
	patched, err := svc.PatchClassification(context.Background(), ticket.ID, ClassificationPatch{
		Category:   &category,
		Confidence: &confidence,
		Response:   &response,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusClassified, patched.Status)
	assert.Equal(t, "PTO", *patched.AICategory)
	assert.Equal(t, 0.92, *patched.AIConfidence)
	assert.Equal(t, response, *patched.AIResponse)
	assert.Equal(t, "PTO", classified.Category)
	assert.Equal(t, 0.92, classified.Confidence)
}

func TestPatchClassificationExplicitStatus(t *testing.T) {
	svc := newTicketService(t, newTicketRepo(t), nil)
	ticket := createPendingTicket(t, svc)

	category := "Payroll"
	confidence := 0.7
	status := "classified"
	patched, err := svc.PatchClassification(context.Background(), ticket.ID, ClassificationPatch{
		Category:   &category,
		Confidence: &confidence,
		Status:     &status,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClassified, patched.Status)
}

func TestPatchClassificationRejectsBadStatus(t *testing.T) {
	svc := newTicketService(t, newTicketRepo(t), nil)
	ticket := createPendingTicket(t, svc)

	status := "resolved"
	_, err := svc.PatchClassification(context.Background(), ticket.ID, ClassificationPatch{Status: &status})
	var domainErr *util.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestPatchClassificationRejectsConfidenceOutOfRange(t *testing.T) {
	svc := newTicketService(t, newTicketRepo(t), nil)
	ticket := createPendingTicket(t, svc)

	category := "PTO"
	for _, confidence := range []float64{-0.1, 1.5} {
		bad := confidence
		_, err := svc.PatchClassification(context.Background(), ticket.ID, ClassificationPatch{
			Category:   &category,
			Confidence: &bad,
		})
		var domainErr *util.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	}
}

func TestPatchClassificationRequiresCategoryWithConfidence(t *testing.T) {
	svc := newTicketService(t, newTicketRepo(t), nil)
	ticket := createPendingTicket(t, svc)

	confidence := 0.5
	_, err := svc.PatchClassification(context.Background(), ticket.ID, ClassificationPatch{Confidence: &confidence})
	var domainErr *util.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)

	// The failed patch must leave the ticket untouched.
	current, err := svc.GetTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusPending, current.Status)
	assert.Nil(t, current.AIConfidence)
}

func TestPatchClassificationKeepsResolvedStatus(t *testing.T) {
	svc := newTicketService(t, newTicketRepo(t), nil)
	ticket := createPendingTicket(t, svc)

	_, err := svc.ResolveTicket(context.Background(), ticket.ID, "resolved", "Alice")
	require.NoError(t, err)

	category := "Benefits"
	confidence := 0.8
	patched, err := svc.PatchClassification(context.Background(), ticket.ID, ClassificationPatch{
		Category:   &category,
		Confidence: &confidence,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, patched.Status)
	assert.Equal(t, "Benefits", *patched.AICategory)
}

func TestPatchClassificationUnknownID(t *testing.T) {
	svc := newTicketService(t, newTicketRepo(t), nil)

	category := "PTO"
	confidence := 0.9
	_, err := svc.PatchClassification(context.Background(), "missing", ClassificationPatch{
		Category:   &category,
		Confidence: &confidence,
	})
	var domainErr *util.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}
