package dto

import "time"

// ErrorResponse is the standard JSON error envelope returned by every
// endpoint. Errors are always view-local: a failing view renders one
// of these while the other views remain unaffected.
type ErrorResponse struct {
	Message      string    `json:"error" example:"ticker is required"`
	ErrorDetails string    `json:"details,omitempty" example:"no data returned for ticker"`
	Timestamp    time.Time `json:"timestamp"`
}

// Error implements the error interface so an ErrorResponse can be
// passed through gin's error chain.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails != "" {
		return e.Message + ": " + e.ErrorDetails
	}
	return e.Message
}

// NewErrorResponse builds an ErrorResponse from a user-facing message
// and an optional inner error.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{
		Message:   message,
		Timestamp: time.Now(),
	}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}
