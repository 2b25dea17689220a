package dto

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	EmployeeName  string `json:"employee_name"`
	EmployeeEmail string `json:"employee_email"`
	Subject       string `json:"subject"`
	Description   string `json:"description"`
}

// ResolveTicketRequest payload. Both fields are optional; the service fills
// in the defaults.
type ResolveTicketRequest struct {
	Action string `json:"action"`
	User   string `json:"user"`
}

// PatchTicketRequest carries the classification write-back. Nil fields are
// left untouched on the ticket.
type PatchTicketRequest struct {
	AICategory   *string  `json:"ai_category"`
	AIConfidence *float64 `json:"ai_confidence"`
	AIResponse   *string  `json:"ai_response"`
	Status       *string  `json:"status"`
}
