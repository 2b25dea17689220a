package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "pending"
	TicketStatusClassified TicketStatus = "classified"
	TicketStatusResolved   TicketStatus = "resolved"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusPending, TicketStatusClassified, TicketStatusResolved:
		return true
	}
	return false
}

// Ticket is the aggregate for employee HR requests. The JSON shape doubles as
// the persisted record format and the webhook payload.
type Ticket struct {
	ID            string       `json:"id"`
	EmployeeName  string       `json:"employee_name"`
	EmployeeEmail string       `json:"employee_email"`
	Subject       string       `json:"subject"`
	Description   string       `json:"description"`
	Status        TicketStatus `json:"status"`
	AICategory    *string      `json:"ai_category"`
	AIConfidence  *float64     `json:"ai_confidence"`
	AIResponse    *string      `json:"ai_response"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	ResolvedAt    *time.Time   `json:"resolved_at,omitempty"`
	ResolvedBy    *string      `json:"resolved_by,omitempty"`
}

// Classified reports whether the ticket carries a classification result.
func (t *Ticket) Classified() bool {
	return t.AICategory != nil && t.AIConfidence != nil
}

// Clone returns a deep copy so callers can hand out tickets without exposing
// store-internal pointers.
func (t *Ticket) Clone() *Ticket {
	if t == nil {
		return nil
	}
	clone := *t
	clone.AICategory = clonePtr(t.AICategory)
	clone.AIConfidence = clonePtr(t.AIConfidence)
	clone.AIResponse = clonePtr(t.AIResponse)
	clone.ResolvedAt = clonePtr(t.ResolvedAt)
	clone.ResolvedBy = clonePtr(t.ResolvedBy)
	return &clone
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
