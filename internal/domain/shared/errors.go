package shared

import (
	"errors"
	"fmt"
)

// Error codes carried by DomainError
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeReferenceNotFound = "REFERENCE_NOT_FOUND"
	CodePersistence       = "PERSISTENCE_FAULT"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeAlreadyExists     = "ALREADY_EXISTS"
)

// ErrorKind groups error codes into the categories callers must be able to tell apart
type ErrorKind int

const (
	KindPersistenceFault ErrorKind = iota
	KindValidation
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindNotFound:
		return "NotFound"
	default:
		return "PersistenceFault"
	}
}

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying driver error, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is reports whether target is a domain error with the same code
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a ValidationError with a formatted message
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError(CodeValidation, fmt.Sprintf(format, args...))
}

// NewNotFoundError creates a NotFound error for a resource addressed by id
func NewNotFoundError(resource string, id any) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found: %v", resource, id))
}

// NewReferenceNotFoundError creates a NotFound error for an id referenced from a request body
func NewReferenceNotFoundError(resource string, id any) *DomainError {
	return NewDomainError(CodeReferenceNotFound, fmt.Sprintf("%s not found: %v", resource, id))
}

// NewPersistenceError wraps a store failure
func NewPersistenceError(op string, err error) *DomainError {
	return &DomainError{
		Code:    CodePersistence,
		Message: fmt.Sprintf("failed to %s", op),
		cause:   err,
	}
}

// Common domain errors
var (
	ErrNotFound      = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrUnauthorized  = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
)

// KindOf classifies an error. Anything that is not a recognised domain error is a persistence fault.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if !errors.As(err, &de) {
		return KindPersistenceFault
	}
	switch de.Code {
	case CodeValidation, CodeAlreadyExists, CodeUnauthorized:
		return KindValidation
	case CodeNotFound, CodeReferenceNotFound:
		return KindNotFound
	default:
		return KindPersistenceFault
	}
}
