package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrGroupNotFound = errors.New("issuance group not found")
var ErrTicketNotFound = errors.New("ticket not found")
var ErrInvalidStatus = errors.New("invalid ticket status")
var ErrInvalidAmount = errors.New("credits and price must be positive")
var ErrSubmissionInFlight = errors.New("submission with this idempotency key is already in progress")
var ErrDuplicateSubmission = errors.New("submission with this idempotency key was already committed")
var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid credentials")

// InsufficientCreditsError is returned when a deduction would drive a user's
// aggregate balance negative. It carries enough structure for the caller to
// render an actionable message (and offer a purchase path).
type InsufficientCreditsError struct {
	Available int
	Required  int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: %d available, %d required", e.Available, e.Required)
}

// ValidationError names every missing or malformed field, not just the first,
// so the caller can report them all at once.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}
