package errors

import (
	"fmt"
	"time"
)

// OperationalError represents enhanced error information for debugging.
//
// It wraps errors with operational context including event ID, participant ID,
// and timestamp. This enables better error tracking when diagnosing failed
// registrations, check-ins, and seating changes.
type OperationalError struct {
	Operation     string                 // What operation was being performed
	EventID       string                 // Which event
	ParticipantID string                 // Which participant (if applicable)
	Timestamp     time.Time              // When error occurred
	Attributes    map[string]interface{} // Additional context (optional)
	Cause         error                  // Underlying error
}

// NewOperationalError creates an OperationalError wrapping an error.
//
// Returns nil if cause is nil (no error to wrap).
//
// Example:
//
//	if err != nil {
//	    return NewOperationalError("checking in participant", eventID, participantID, err)
//	}
func NewOperationalError(operation, eventID, participantID string, cause error) *OperationalError {
	if cause == nil {
		return nil
	}

	return &OperationalError{
		Operation:     operation,
		EventID:       eventID,
		ParticipantID: participantID,
		Timestamp:     time.Now(),
		Attributes:    nil,
		Cause:         cause,
	}
}

// NewOperationalErrorWithAttrs creates an OperationalError with additional attributes.
//
// Returns nil if cause is nil (no error to wrap).
//
// Example:
//
//	return NewOperationalErrorWithAttrs(
//	    "assigning seat",
//	    eventID,
//	    participantID,
//	    err,
//	    map[string]interface{}{
//	        "table": tableID,
//	        "seat":  seatNumber,
//	    },
//	)
func NewOperationalErrorWithAttrs(operation, eventID, participantID string, cause error, attrs map[string]interface{}) *OperationalError {
	if cause == nil {
		return nil
	}

	return &OperationalError{
		Operation:     operation,
		EventID:       eventID,
		ParticipantID: participantID,
		Timestamp:     time.Now(),
		Attributes:    attrs,
		Cause:         cause,
	}
}

// Error implements the error interface.
//
// Format: "[timestamp] operation: event={id} participant={id}: {cause}"
// If the participant ID is empty, it's omitted from the message.
func (e *OperationalError) Error() string {
	if e == nil {
		return "<nil OperationalError>"
	}

	timestamp := e.Timestamp.Format(time.RFC3339)

	var msg string
	if e.ParticipantID != "" {
		msg = fmt.Sprintf("[%s] %s: event=%s participant=%s: %v",
			timestamp,
			e.Operation,
			e.EventID,
			e.ParticipantID,
			e.Cause)
	} else {
		msg = fmt.Sprintf("[%s] %s: event=%s: %v",
			timestamp,
			e.Operation,
			e.EventID,
			e.Cause)
	}

	return msg
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *OperationalError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}
