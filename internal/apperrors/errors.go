// Package apperrors holds the typed errors shared by the store, service and
// handler layers.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	goerrors "github.com/go-errors/errors"
)

// ErrorType classifies a failure. Each type answers with one HTTP status.
type ErrorType string

const (
	ErrTypeInvalidInput ErrorType = "INVALID_INPUT"
	ErrTypeNotFound     ErrorType = "NOT_FOUND"
	ErrTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrTypeUnavailable  ErrorType = "UNAVAILABLE"
	ErrTypeInternal     ErrorType = "INTERNAL"
)

var httpStatus = map[ErrorType]int{
	ErrTypeInvalidInput: http.StatusBadRequest,
	ErrTypeNotFound:     http.StatusNotFound,
	ErrTypeUnauthorized: http.StatusUnauthorized,
	ErrTypeUnavailable:  http.StatusServiceUnavailable,
	ErrTypeInternal:     http.StatusInternalServerError,
}

// HTTPStatus is the response status for t. Unknown types are 500.
func (t ErrorType) HTTPStatus() int {
	if s, ok := httpStatus[t]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// DomainError is a classified failure. Message and Details go back to the
// caller; Err and Stack stay in the logs.
type DomainError struct {
	Type    ErrorType
	Message string
	Details any
	Err     error
	Stack   []byte
}

func (e *DomainError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

func (e *DomainError) StackTrace() []byte { return e.Stack }

// WithDetails attaches caller-facing details, such as validation
// violations or malformed ids, and returns the same error.
func (e *DomainError) WithDetails(details any) *DomainError {
	e.Details = details
	return e
}

// Public returns what may be shown to a client. Internal failures hide
// both message and details.
func (e *DomainError) Public() (string, any) {
	if e.Type.HTTPStatus() == http.StatusInternalServerError {
		return "Server Error", nil
	}
	return e.Message, e.Details
}

func New(errType ErrorType, message string, err error) *DomainError {
	return newDomainError(errType, message, err)
}

func InvalidInput(message string, err error) *DomainError {
	return newDomainError(ErrTypeInvalidInput, message, err)
}

func NotFound(message string, err error) *DomainError {
	return newDomainError(ErrTypeNotFound, message, err)
}

func Unauthorized(message string, err error) *DomainError {
	return newDomainError(ErrTypeUnauthorized, message, err)
}

// Unavailable reports that the backing store (or another dependency) could
// not serve the request.
func Unavailable(message string, err error) *DomainError {
	return newDomainError(ErrTypeUnavailable, message, err)
}

func Internal(message string, err error) *DomainError {
	return newDomainError(ErrTypeInternal, message, err)
}

// newDomainError is only called from the exported constructors, so the
// recorded stack starts at their caller.
func newDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Stack:   stackFrom(err, message),
	}
}

// stackFrom reuses the stack of a go-errors error in the chain and records
// a fresh one otherwise.
func stackFrom(err error, message string) []byte {
	var traced *goerrors.Error
	switch {
	case errors.As(err, &traced):
		return traced.Stack()
	case err != nil:
		return goerrors.Wrap(err, 3).Stack()
	default:
		return goerrors.Errorf("%s", message).Stack()
	}
}

// TypeOf returns the ErrorType of the first DomainError in err's chain,
// or ErrTypeInternal for anything else.
func TypeOf(err error) ErrorType {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Type
	}
	return ErrTypeInternal
}

func IsNotFound(err error) bool {
	return err != nil && TypeOf(err) == ErrTypeNotFound
}

func IsInvalidInput(err error) bool {
	return err != nil && TypeOf(err) == ErrTypeInvalidInput
}
