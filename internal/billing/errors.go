package billing

import "net/http"

type ErrorCode string

const (
	ErrOrderInvalid         ErrorCode = "ORDER_VALIDATION_ERROR"
	ErrPaymentInvalid       ErrorCode = "INVALID_PAYMENT_METHOD"
	ErrTableNotFound        ErrorCode = "TABLE_NOT_FOUND"
	ErrItemNotFound         ErrorCode = "ITEM_NOT_FOUND"
	ErrBillNotFound         ErrorCode = "BILL_NOT_FOUND"
	ErrLineItemNotFound     ErrorCode = "LINE_ITEM_NOT_FOUND"
	ErrBillAlreadyPaid      ErrorCode = "BILL_ALREADY_PAID"
	ErrTableAlreadyOccupied ErrorCode = "TABLE_ALREADY_OCCUPIED"
	ErrStorageFailure       ErrorCode = "STORAGE_ERROR"
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

// StorageError hides the underlying failure from the caller; handlers log
// the wrapped error and return the generic message.
func StorageError(err error) *Error {
	e := newError(ErrStorageFailure, "A storage error occurred", http.StatusInternalServerError)
	e.cause = err
	return e
}

func (e *Error) Unwrap() error {
	return e.cause
}
