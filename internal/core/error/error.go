package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// InvalidInputMessage describes rejected turn input.
	InvalidInputMessage = "invalid input"
	// SessionNotFoundMessage describes operations on an unknown session key.
	SessionNotFoundMessage = "session not found"
	// CollaboratorErrorMessage describes classifier/responder/capture failures.
	CollaboratorErrorMessage = "collaborator unavailable"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing Redis key.
	RedisNotFoundMessage = "redis key not found"
)

// Sentinel errors for errors.Is checks across package boundaries.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrSessionNotFound = errors.New("session not found")
	ErrCollaborator    = errors.New("collaborator failure")
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// InvalidInput marks rejected input, e.g. an empty user message.
func InvalidInput(reason string) *AppError {
	return New(fmt.Errorf("%w: %s", ErrInvalidInput, reason), http.StatusBadRequest, InvalidInputMessage)
}

// SessionNotFound marks an operation against an unknown session key.
func SessionNotFound(sessionID string) *AppError {
	return New(fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID), http.StatusNotFound, SessionNotFoundMessage)
}

// WrapCollaborator marks a failed or timed-out collaborator call
// (intent classifier, responder, or capture action).
func WrapCollaborator(name string, err error) *AppError {
	if err == nil {
		return nil
	}
	return New(fmt.Errorf("%w: %s: %v", ErrCollaborator, name, err), http.StatusBadGateway, CollaboratorErrorMessage)
}

// Is reports whether the target matches the underlying error or the AppError itself.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return false
}
