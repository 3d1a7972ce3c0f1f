package tables

import "net/http"

type ErrorCode string

const (
	ErrReservationInvalid ErrorCode = "RESERVATION_VALIDATION_ERROR"
	ErrTableNotFound      ErrorCode = "TABLE_NOT_FOUND"
	ErrTableUnavailable   ErrorCode = "TABLE_UNAVAILABLE"
	ErrReservationOverlap ErrorCode = "RESERVATION_OVERLAP"
	ErrStorageFailure     ErrorCode = "STORAGE_ERROR"
)

type Error struct {
	Code       ErrorCode
	Message    string
	StatusCode int
	cause      error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func newError(code ErrorCode, message string, status int) *Error {
	return &Error{Code: code, Message: message, StatusCode: status}
}

func ValidationError(code ErrorCode, message string) *Error {
	return newError(code, message, http.StatusBadRequest)
}

func NotFoundError(code ErrorCode, message string) *Error {
	return newError(code, message, http.StatusNotFound)
}

func ConflictError(code ErrorCode, message string) *Error {
	return newError(code, message, http.StatusConflict)
}

func StorageError(err error) *Error {
	e := newError(ErrStorageFailure, "A storage error occurred", http.StatusInternalServerError)
	e.cause = err
	return e
}
