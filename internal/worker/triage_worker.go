package worker

import (
	"github.com/hrtriage/ticket-service/internal/service"
)

// StartTriageWorker registers the post-creation triage handlers.
func StartTriageWorker(triageService *service.TriageService) {
	if triageService == nil {
		return
	}
	triageService.RegisterHandlers()
}
