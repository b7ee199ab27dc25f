package subscription

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError means the referenced entity does not exist. Surfaced as 404 on
// the admin API and as a non-retryable 400 to the webhook provider.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ValidationError means the input is malformed or contradictory. Raised before
// any transaction opens, so a validation failure never leaves partial writes.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsPermanentFailure reports whether a webhook handler error cannot succeed on
// retry. The provider gets a 4xx for these so its retry queue drops the event;
// everything else (db down, timeouts) gets a 5xx and is re-delivered.
func IsPermanentFailure(err error) bool {
	if err == nil {
		return false
	}
	if IsNotFound(err) || IsValidation(err) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "missing")
}
