package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Typed errors let handlers map service failures to HTTP statuses
// without string matching. Not-found errors deliberately cover both
// "does not exist" and "belongs to another user".

type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string { return "invalid email or password" }

type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string { return "current password is incorrect" }

type ErrSessionNotFound struct {
	SessionID uuid.UUID
}

func (e *ErrSessionNotFound) Error() string {
	return fmt.Sprintf("session not found: %s", e.SessionID)
}

type ErrReportNotFound struct {
	ReportID uuid.UUID
}

func (e *ErrReportNotFound) Error() string {
	return fmt.Sprintf("report not found: %s", e.ReportID)
}

type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus maps service errors to response codes. Anything untyped is
// a 500.
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrValidation:
		return http.StatusBadRequest
	case *ErrInvalidCredentials, *ErrPasswordMismatch:
		return http.StatusUnauthorized
	case *ErrUserNotFound, *ErrSessionNotFound, *ErrReportNotFound:
		return http.StatusNotFound
	case *ErrEmailAlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
