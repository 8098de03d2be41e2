// Package api defines the response envelopes shared by every HTTP handler.
package api

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
	// Code is a machine-readable reason, set only where clients branch on it.
	Code string `json:"code,omitempty"`
	// Details carries the underlying error text in development mode only.
	Details string `json:"details,omitempty"`
}

// SuccessResponse is returned by mutations that have nothing else to report.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// MessageResponse pairs a success flag with a human-readable message.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Error codes clients branch on.
const (
	CodeSubscriptionRequired = "SUBSCRIPTION_REQUIRED"
	CodeRateLimited          = "RATE_LIMITED"
)
