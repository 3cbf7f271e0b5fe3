package core

// errors.go defines the error taxonomy of the service. Handlers map these
// onto HTTP status codes; MapError produces the sanitized user-facing
// message with a support code, keeping technical detail in the logs.

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that no record exists under the requested id.
var ErrNotFound = errors.New("record not found")

// ValidationError reports a rejected request payload. Field is empty when
// the problem is not attributable to a single field (e.g. malformed JSON).
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Msg)
}

// missingField is the ValidationError for a required field absent from a
// create payload.
func missingField(name string) error {
	return &ValidationError{Field: name, Msg: "missing required field"}
}

// StorageError wraps a database failure with the operation that hit it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// UserMessage is the sanitized, user-facing form of an error.
type UserMessage struct {
	Message string
	Action  string
	Code    string
}

// MapError translates an internal error into a UserMessage. Unknown errors
// deliberately reveal nothing beyond the support code.
func MapError(err error) UserMessage {
	var verr *ValidationError
	if errors.As(err, &verr) {
		switch {
		case verr.Field == "format":
			return UserMessage{
				Message: "Unsupported export format",
				Action:  "Use csv or xlsx",
				Code:    "EXP001",
			}
		case verr.Field != "":
			return UserMessage{
				Message: fmt.Sprintf("Invalid value for %s: %s", verr.Field, verr.Msg),
				Action:  "Correct the field and try again",
				Code:    "VAL001",
			}
		default:
			return UserMessage{
				Message: "The request body could not be processed",
				Action:  "Check the request format and try again",
				Code:    "VAL002",
			}
		}
	}

	if errors.Is(err, ErrNotFound) {
		return UserMessage{
			Message: "Record not found",
			Action:  "Check the record id and try again",
			Code:    "REC001",
		}
	}

	var serr *StorageError
	if errors.As(err, &serr) {
		return UserMessage{
			Message: "The database is temporarily unavailable",
			Action:  "Please try again in a moment",
			Code:    "DB001",
		}
	}

	return UserMessage{
		Message: "An unexpected error occurred",
		Action:  "Please try again or contact support",
		Code:    "ERR000",
	}
}
