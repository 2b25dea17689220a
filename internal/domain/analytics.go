package domain

// AnalyticsSnapshot is a point-in-time aggregation over the ticket store.
type AnalyticsSnapshot struct {
	TotalTickets   int                  `json:"total_tickets"`
	StatusCounts   map[TicketStatus]int `json:"status_counts"`
	CategoryCounts map[string]int       `json:"category_counts"`
}

// NewAnalyticsSnapshot aggregates the given tickets in a single pass. Both
// maps hold only observed values; unclassified tickets are bucketed under
// CategoryUnclassified.
func NewAnalyticsSnapshot(tickets []*Ticket) *AnalyticsSnapshot {
	snap := &AnalyticsSnapshot{
		TotalTickets:   len(tickets),
		StatusCounts:   make(map[TicketStatus]int),
		CategoryCounts: make(map[string]int),
	}
	for _, t := range tickets {
		snap.StatusCounts[t.Status]++
		category := CategoryUnclassified
		if t.AICategory != nil && *t.AICategory != "" {
			category = *t.AICategory
		}
		snap.CategoryCounts[category]++
	}
	return snap
}
