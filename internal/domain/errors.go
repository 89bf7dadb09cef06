package domain

import (
	"errors"
	"fmt"
)

// ErrorKind tags a domain error with the category the HTTP edge needs to
// pick a status code; see the error handling design in SPEC_FULL.md §7.
type ErrorKind string

const (
	KindNotFound         ErrorKind = "NOT_FOUND"
	KindInvalidInput     ErrorKind = "INVALID_INPUT"
	KindDatabaseError    ErrorKind = "DATABASE_ERROR"
	KindExternalService  ErrorKind = "EXTERNAL_SERVICE_ERROR"
	KindInternal         ErrorKind = "INTERNAL_ERROR"
)

// Error is the tagged variant every store and usecase returns. Callers
// compare against Kind (via errors.As) rather than string-matching.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func InvalidInput(msg string) error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

func DatabaseError(msg string, cause error) error {
	return &Error{Kind: KindDatabaseError, Message: msg, Cause: cause}
}

func ExternalServiceError(msg string, cause error) error {
	return &Error{Kind: KindExternalService, Message: msg, Cause: cause}
}

func InternalError(msg string, cause error) error {
	return &Error{Kind: KindInternal, Message: msg, Cause: cause}
}

// KindOf extracts the ErrorKind from err, defaulting to KindInternal for
// errors that were never tagged (e.g. a bare driver error that slipped
// through a store without being wrapped).
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// Sentinel errors whose messages the stores and clients pass to the
// NotFound/InvalidInput constructors. The resulting *Error carries only the
// message, not the sentinel, so callers branch on KindOf rather than
// errors.Is.
var (
	ErrGroupNotFound      = errors.New("group not found")
	ErrStaffNotFound      = errors.New("staff not found")
	ErrMembershipNotFound = errors.New("membership not found")
	ErrJobNotFound        = errors.New("schedule job not found")
	ErrCycleDetected      = errors.New("group update would introduce a cycle")
	ErrGroupNameTaken     = errors.New("group name already in use")
	ErrEmailTaken         = errors.New("staff email already in use")
	ErrGroupHasChildren   = errors.New("group still has child groups")
	ErrIllegalTransition  = errors.New("illegal job status transition")
)
