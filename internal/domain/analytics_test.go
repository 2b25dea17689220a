package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestNewAnalyticsSnapshotEmpty(t *testing.T) {
	snap := NewAnalyticsSnapshot(nil)

	assert.Equal(t, 0, snap.TotalTickets)
	assert.Empty(t, snap.StatusCounts)
	assert.Empty(t, snap.CategoryCounts)
}

func TestNewAnalyticsSnapshotOmitsUnseenStatuses(t *testing.T) {
	snap := NewAnalyticsSnapshot([]*Ticket{
		{Status: TicketStatusResolved, AICategory: strPtr("PTO")},
	})

	assert.Equal(t, 1, snap.TotalTickets)
	assert.Equal(t, map[TicketStatus]int{TicketStatusResolved: 1}, snap.StatusCounts)
	assert.Equal(t, map[string]int{"PTO": 1}, snap.CategoryCounts)
}

func TestNewAnalyticsSnapshotCounts(t *testing.T) {
	tickets := []*Ticket{
		{Status: TicketStatusPending},
		{Status: TicketStatusClassified, AICategory: strPtr("Payroll")},
		{Status: TicketStatusClassified, AICategory: strPtr("Payroll")},
		{Status: TicketStatusResolved, AICategory: strPtr("Benefits")},
		{Status: TicketStatusResolved},
	}

	snap := NewAnalyticsSnapshot(tickets)

	assert.Equal(t, 5, snap.TotalTickets)
	assert.Equal(t, 1, snap.StatusCounts[TicketStatusPending])
	assert.Equal(t, 2, snap.StatusCounts[TicketStatusClassified])
	assert.Equal(t, 2, snap.StatusCounts[TicketStatusResolved])

	assert.Equal(t, 2, snap.CategoryCounts["Payroll"])
	assert.Equal(t, 1, snap.CategoryCounts["Benefits"])
	assert.Equal(t, 2, snap.CategoryCounts[CategoryUnclassified])

	statusSum := 0
	for _, n := range snap.StatusCounts {
		statusSum += n
	}
	assert.Equal(t, snap.TotalTickets, statusSum)
}

func TestNewAnalyticsSnapshotEmptyCategoryStringIsUnclassified(t *testing.T) {
	tickets := []*Ticket{
		{Status: TicketStatusPending, AICategory: strPtr("")},
	}

	snap := NewAnalyticsSnapshot(tickets)

	assert.Equal(t, 1, snap.CategoryCounts[CategoryUnclassified])
}
