package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated    EventType = "ticket_created"
	EventTicketClassified EventType = "ticket_classified"
	EventTicketResolved   EventType = "ticket_resolved"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Subject       string `json:"subject"`
	EmployeeEmail string `json:"employee_email"`
}

// TicketClassifiedPayload payload.
type TicketClassifiedPayload struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// TicketResolvedPayload payload.
type TicketResolvedPayload struct {
	ResolvedBy string `json:"resolved_by"`
}
