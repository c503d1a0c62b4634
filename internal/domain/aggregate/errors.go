package aggregate

import "errors"

// DomainError is raised when an aggregate invariant or state-machine guard is
// violated. The application layer catches it and converts it to a failure
// result; it never escapes as a transport fault.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

const (
	CodeInvalidStateTransition = "INVALID_STATE_TRANSITION"
	CodeSoldListingImmutable   = "INVALID_OPERATION_ON_SOLD_LISTING"
	CodeOfferHasAcceptedDeal   = "OFFER_HAS_ACCEPTED_DEAL"
)

func newInvalidStateTransition(message string) *DomainError {
	return &DomainError{Code: CodeInvalidStateTransition, Message: message}
}

func newSoldListingImmutable(message string) *DomainError {
	return &DomainError{Code: CodeSoldListingImmutable, Message: message}
}

func newOfferHasAcceptedDeal(message string) *DomainError {
	return &DomainError{Code: CodeOfferHasAcceptedDeal, Message: message}
}

// IsDomainError reports whether err is a domain rule violation.
func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}
