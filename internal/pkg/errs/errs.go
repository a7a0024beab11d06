package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValueIsRequired   = errors.New("value is required")
	ErrValueIsInvalid    = errors.New("value is invalid")
	ErrValueIsOutOfRange = errors.New("value is out of range")
	ErrObjectNotFound    = errors.New("object not found")
	ErrConflict          = errors.New("conflict")
	ErrForbidden         = errors.New("forbidden")
	ErrUpstreamFailure   = errors.New("upstream failure")
	ErrInvalidTransition = errors.New("invalid transition")
)

// sanitize keeps user supplied values on a single line.
func sanitize(v any) string {
	s := fmt.Sprintf("%v", v)
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}

// causeSuffix renders " (cause: ...)" when cause is present.
func causeSuffix(cause error) string {
	if cause == nil {
		return ""
	}
	return fmt.Sprintf(" (cause: %v)", cause)
}

// ValueIsRequiredError reports a missing mandatory value.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	return fmt.Sprintf("%s: %s%s", ErrValueIsRequired, e.ParamName, causeSuffix(e.Cause))
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ValueIsInvalidError reports a value that is present but malformed.
// The cause participates in errors.Is so that named causes (for example an
// invalid phone sentinel) stay matchable.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	return fmt.Sprintf("%s: %s%s", ErrValueIsInvalid, e.ParamName, causeSuffix(e.Cause))
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

func (e *ValueIsInvalidError) Is(target error) bool {
	return e.Cause != nil && errors.Is(e.Cause, target)
}

// ValueIsOutOfRangeError reports a value outside [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	return fmt.Sprintf("%s: %s is %s, min value is %s, max value is %s%s",
		ErrValueIsInvalid, sanitize(e.Value), e.ParamName, sanitize(e.Min), sanitize(e.Max), causeSuffix(e.Cause))
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ObjectNotFoundError reports an unknown entity.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s%s", ErrObjectNotFound, e.ParamName, e.ID, causeSuffix(e.Cause))
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ConflictError reports a request that collides with already applied state.
type ConflictError struct {
	Subject string
	Reason  string
	Cause   error
}

func NewConflictError(subject, reason string) *ConflictError {
	return &ConflictError{Subject: subject, Reason: reason}
}

func NewConflictErrorWithCause(subject, reason string, cause error) *ConflictError {
	return &ConflictError{Subject: subject, Reason: reason, Cause: cause}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s %s%s", ErrConflict, e.Subject, e.Reason, causeSuffix(e.Cause))
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// ForbiddenError reports an actor acting on a resource it does not own.
type ForbiddenError struct {
	Resource string
	Reason   string
}

func NewForbiddenError(resource, reason string) *ForbiddenError {
	return &ForbiddenError{Resource: resource, Reason: reason}
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrForbidden, e.Resource, e.Reason)
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// UpstreamFailureError wraps a failure of an external collaborator.
// Message is safe to show to callers; Cause is for logs only.
type UpstreamFailureError struct {
	Service string
	Message string
	Cause   error
}

func NewUpstreamFailureError(service, message string) *UpstreamFailureError {
	return &UpstreamFailureError{Service: service, Message: message}
}

func NewUpstreamFailureErrorWithCause(service, message string, cause error) *UpstreamFailureError {
	return &UpstreamFailureError{Service: service, Message: message, Cause: cause}
}

func (e *UpstreamFailureError) Error() string {
	return fmt.Sprintf("%s: %s: %s%s", ErrUpstreamFailure, e.Service, e.Message, causeSuffix(e.Cause))
}

func (e *UpstreamFailureError) Unwrap() error {
	return ErrUpstreamFailure
}

// InvalidTransitionError reports a state move outside the transition table.
type InvalidTransitionError struct {
	From string
	To   string
}

func NewInvalidTransitionError(from, to fmt.Stringer) *InvalidTransitionError {
	return &InvalidTransitionError{From: from.String(), To: to.String()}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
