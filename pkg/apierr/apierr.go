package apierr

import (
	"errors"
	"fmt"
	"net/http"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
)

type Error struct {
	Status  int
	Code    string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err with the caller's stack so server failures can be traced.
func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: pkgerrors.WithStack(err)}
}

func Validation(msg string, details any) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "validation_error", Details: details, Err: errors.New(msg)}
}

func NotFound(what string) *Error {
	return &Error{Status: http.StatusNotFound, Code: "not_found", Err: fmt.Errorf("%s not found", what)}
}

func Conflict(msg string) *Error {
	return &Error{Status: http.StatusConflict, Code: "conflict", Err: errors.New(msg)}
}

func Unauthorized(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: "unauthorized", Err: errors.New(msg)}
}

func Upstream(provider string, err error) *Error {
	return &Error{Status: http.StatusBadGateway, Code: "provider_error", Err: pkgerrors.WithStack(fmt.Errorf("%s: %w", provider, err))}
}

// StatusOf maps an error to its HTTP status. Missing rows are 404; anything
// untyped is 500.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func DetailsOf(err error) any {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Details
	}
	return nil
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// StackOf returns the stack recorded where err was created, or "" when no
// error in the chain carries one.
func StackOf(err error) string {
	var st stackTracer
	if errors.As(err, &st) {
		return fmt.Sprintf("%+v", st.StackTrace())
	}
	return ""
}
