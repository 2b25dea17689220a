package domain

// CandidateLabels is the fixed label set offered to the zero-shot classifier.
var CandidateLabels = []string{
	"Benefits",
	"PTO",
	"Payroll",
	"Policy",
	"Onboarding",
	"Offboarding",
	"Complaint",
	"General",
}

// CategoryUnclassified buckets tickets without a classification in analytics.
const CategoryUnclassified = "Unclassified"

// IsCandidateLabel reports whether the category is one of the fixed labels.
func IsCandidateLabel(category string) bool {
	for _, label := range CandidateLabels {
		if label == category {
			return true
		}
	}
	return false
}

var autoResponses = map[string]string{
	"Benefits":    "Thank you for your benefits inquiry. Our HR Benefits team will review your request and respond within 24-48 hours. In the meantime, you can check our Benefits portal at hr.company.com/benefits.",
	"PTO":         "Your PTO request has been received. Please ensure your manager approves the request in the HR system. Standard PTO requests are processed within 1 business day.",
	"Payroll":     "We've received your payroll inquiry. Our payroll team processes requests within 2 business days. For urgent matters, please contact payroll@company.com directly.",
	"Policy":      "Thank you for your policy question. Our HR team will provide guidance within 24 hours. You can also reference the employee handbook at hr.company.com/policies.",
	"Onboarding":  "Welcome! Your onboarding question has been routed to our New Hire team. They will reach out within 24 hours to assist you.",
	"Offboarding": "Your offboarding inquiry has been received. Our HR team will contact you to discuss next steps and ensure a smooth transition.",
	"Complaint":   "We take all workplace concerns seriously. Your matter has been flagged for priority review. An HR representative will contact you within 24 hours.",
	"General":     "Thank you for contacting HR. Your request has been received and will be addressed within 24-48 hours.",
}

// AutoResponse returns the suggested reply for a category, falling back to the
// General reply for unknown categories.
func AutoResponse(category string) string {
	if resp, ok := autoResponses[category]; ok {
		return resp
	}
	return autoResponses["General"]
}
