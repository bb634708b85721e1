package domain

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrEmptyTitle         = errors.New("title cannot be empty")
	ErrMalformedCard      = errors.New("card text does not match the card format")
	ErrConflictingSources = errors.New("card can be built from only one source")
	ErrNoIssue            = errors.New("issue has not been created yet")
	ErrBusy               = errors.New("previous request for this message is still running")
	ErrUnknownAction      = errors.New("unknown button action")
	ErrTagTooLong         = errors.New("button tag exceeds the callback data limit")
	ErrInvalidCursor      = errors.New("invalid page cursor")
	ErrMissingToken       = errors.New("api token is not configured")
	ErrConfigExists       = errors.New("config file already exists")
)

// Reason is a machine-readable tracker failure code.
type Reason string

// Tracker failure reasons.
const (
	ReasonNotFound    Reason = "not_found"
	ReasonForbidden   Reason = "forbidden"
	ReasonRateLimited Reason = "rate_limited"
	ReasonOther       Reason = "other"
)

// TrackerError is a rejection reported by the issue tracker.
type TrackerError struct {
	Reason  Reason
	Message string
}

func (e *TrackerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("tracker: %s", e.Reason)
	}
	return fmt.Sprintf("tracker: %s: %s", e.Reason, e.Message)
}

// TransportError is a network-level failure talking to an external system.
type TransportError struct {
	Err error
	Op  string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ReasonOf returns the tracker reason carried by err, if any.
func ReasonOf(err error) (Reason, bool) {
	var te *TrackerError
	if errors.As(err, &te) {
		return te.Reason, true
	}
	return "", false
}

// IsTransient reports whether err is worth retrying by the user.
func IsTransient(err error) bool {
	var tr *TransportError
	if errors.As(err, &tr) {
		return true
	}
	reason, ok := ReasonOf(err)
	return ok && reason == ReasonRateLimited
}

// UserMessage maps err to the short text shown to the chat user.
func UserMessage(err error) string {
	var te *TrackerError
	var tr *TransportError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrBusy):
		return "The previous request is not done yet.\nPlease wait..."
	case errors.Is(err, ErrNoIssue):
		return "Select a repository to create the issue first"
	case errors.As(err, &te):
		switch te.Reason {
		case ReasonNotFound:
			return "Issue not found"
		case ReasonForbidden:
			return "Issues are disabled for this repository"
		case ReasonRateLimited:
			return "GitHub rate limit exceeded, try again later"
		default:
			if te.Message != "" {
				return te.Message
			}
		}
	case errors.As(err, &tr):
		return "Still processing, try again"
	}
	return "Something went wrong, try again"
}
