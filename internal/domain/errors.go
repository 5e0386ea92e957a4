package domain

import "errors"

var (
	ErrSubmitInFlight    = errors.New("planner: a request is already in flight")
	ErrInvalidTransition = errors.New("planner: invalid session transition")
	ErrNoTripID          = errors.New("planner: itinerary has no trip id")
	ErrSessionNotFound   = errors.New("planner: session not found")
)

// ServiceError is the single error shape surfaced by the itinerary client.
// Error returns the user-facing message only.
type ServiceError struct {
	Op      string // generate|modify|history|trip|health
	Status  int    // 0 when the request never got a response
	Message string
	cause   error
}

func NewServiceError(op string, status int, msg string, cause error) *ServiceError {
	return &ServiceError{Op: op, Status: status, Message: msg, cause: cause}
}

func (e *ServiceError) Error() string { return e.Message }

// Unwrap exposes the transport cause for logging.
func (e *ServiceError) Unwrap() error { return e.cause }
