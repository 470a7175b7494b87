package responses

import (
	"fmt"
	"net/http"
)

// Error describes an error for humans and machines
type Error struct {
	// http like status, 500 unless the error is the caller's fault
	Status  int    `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e Error) Error() string {
	return fmt.Sprintf("status:%d, code:%d, message:%q", e.Status, e.Code, e.Message)
}

// NewError - an internal error
func NewError(code int, message string) *Error {
	return &Error{
		Status:  http.StatusInternalServerError,
		Code:    code,
		Message: message,
	}
}

// NewNotFoundError - the addressed flow or item does not exist
func NewNotFoundError(code int, message string) *Error {
	return &Error{
		Status:  http.StatusNotFound,
		Code:    code,
		Message: message,
	}
}

// NotFound whether the error has a 404 status
func (e Error) NotFound() bool {
	return e.Status == http.StatusNotFound
}
