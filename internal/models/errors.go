package models

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorKind string

const (
	KindValidation             ErrorKind = "ValidationError"
	KindDuplicatePosition      ErrorKind = "DuplicatePositionError"
	KindDuplicateContact       ErrorKind = "DuplicateContactError"
	KindInsufficientCandidates ErrorKind = "InsufficientCandidatesError"
	KindInvariantViolation     ErrorKind = "InvariantViolation"
	KindInvalidState           ErrorKind = "InvalidStateError"
	KindNotFound               ErrorKind = "NotFound"
	KindTransport              ErrorKind = "TransportError"
)

// Error is the structured error returned by every election operation.
// Field names the offending input field, EntityIds the offending records.
type Error struct {
	Kind      ErrorKind
	Message   string
	Field     string
	EntityIds []string
	Err       error
}

// Sentinels for errors.Is, they match any *Error of the same kind.
var (
	ErrValidation             = &Error{Kind: KindValidation}
	ErrDuplicatePosition      = &Error{Kind: KindDuplicatePosition}
	ErrDuplicateContact       = &Error{Kind: KindDuplicateContact}
	ErrInsufficientCandidates = &Error{Kind: KindInsufficientCandidates}
	ErrInvariantViolation     = &Error{Kind: KindInvariantViolation}
	ErrInvalidState           = &Error{Kind: KindInvalidState}
	ErrNotFound               = &Error{Kind: KindNotFound}
	ErrTransport              = &Error{Kind: KindTransport}
)

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Retryable reports whether the caller may retry the operation unchanged.
func (e *Error) Retryable() bool {
	return e.Kind == KindTransport
}

func NewValidationError(field string, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

func NewDuplicatePositionError(name string, existingId string) *Error {
	return &Error{
		Kind:      KindDuplicatePosition,
		Field:     "name",
		Message:   fmt.Sprintf("position %q already exists in this election", name),
		EntityIds: []string{existingId},
	}
}

func NewDuplicateContactError(field string, candidateId string) *Error {
	return &Error{
		Kind:      KindDuplicateContact,
		Field:     field,
		Message:   fmt.Sprintf("%s is already used by another candidate in this election", field),
		EntityIds: []string{candidateId},
	}
}

func NewInsufficientCandidatesError(message string, positionIds ...string) *Error {
	return &Error{Kind: KindInsufficientCandidates, Message: message, EntityIds: positionIds}
}

func NewInvariantViolation(message string, entityIds ...string) *Error {
	return &Error{Kind: KindInvariantViolation, Message: message, EntityIds: entityIds}
}

func NewInvalidStateError(message string, entityIds ...string) *Error {
	return &Error{Kind: KindInvalidState, Message: message, EntityIds: entityIds}
}

func NewNotFoundError(entity string, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %s not found", entity, id), EntityIds: []string{id}}
}

func NewTransportError(err error) *Error {
	return &Error{Kind: KindTransport, Message: "persistence failure, retry the operation", Err: err}
}

// AsError returns the structured form of err, wrapping unknown errors as transport errors.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewTransportError(err)
}
