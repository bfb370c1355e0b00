package handler

import (
	"net/http"

	"github.com/2exd/suit-streak-server/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest   = apierr.CodeInvalidRequest
	CodeUnauthorized     = apierr.CodeUnauthorized
	CodeNotAuthenticated = apierr.CodeNotAuthenticated
	CodeInvalidUsername  = apierr.CodeInvalidUsername
	CodeUserNotFound     = apierr.CodeUserNotFound
	CodeRoomNotFound     = apierr.CodeRoomNotFound
	CodeRoomFull         = apierr.CodeRoomFull
	CodeAlreadyInRoom    = apierr.CodeAlreadyInRoom
	CodeRoomInProgress   = apierr.CodeRoomInProgress
	CodeNotHost          = apierr.CodeNotHost
	CodeNotAllReady      = apierr.CodeNotAllReady
	CodeNotInRoom        = apierr.CodeNotInRoom
	CodeInternalError    = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return apierr.NewUnauthorizedError()
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
