package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidParams  = New(BizCodeInvalidParams, http.StatusBadRequest, "invalid params", nil)
	ErrInvalidChannel = New(BizCodeInvalidChannel, http.StatusBadRequest, "invalid channel", nil)

	ErrNotFound            = New(BizCodeNotFound, http.StatusNotFound, "not found", nil)
	ErrNetworkFailure      = New(BizCodeNetworkFailure, http.StatusBadGateway, "network failure", nil)
	ErrExtractionFailure   = New(BizCodeExtractionFailure, http.StatusInternalServerError, "extraction failure", nil)
	ErrPartialFailure      = New(BizCodePartialFailure, http.StatusMultiStatus, "partial failure", nil)
	ErrPersistenceFailure  = New(BizCodePersistenceFailure, http.StatusInternalServerError, "failed to persist metadata", nil)
	ErrPreconditionFailure = New(BizCodePreconditionFailure, http.StatusConflict, "precondition failed", nil)
)

type Error struct {
	bizCode  int
	httpCode int
	message  string
	details  any
	internal error
}

func New(bizCode, httpCode int, message string, internal error) *Error {
	return &Error{
		bizCode:  bizCode,
		httpCode: httpCode,
		message:  message,
		internal: internal,
	}
}

func NewUnexpected(msg string, errs ...error) *Error {
	var err error
	if len(errs) != 0 {
		err = errs[0]
	}
	return &Error{
		bizCode:  -1,
		message:  msg,
		httpCode: http.StatusInternalServerError,
		internal: err,
	}
}

func (e *Error) Error() string {

	if e.internal != nil {
		return fmt.Sprintf("%s: %v", e.message, e.internal)
	}

	return e.message
}

func (e *Error) Is(target error) bool {
	var t *Error
	ok := errors.As(target, &t)
	return ok && e.bizCode == t.BizCode()
}

func (e *Error) Unwrap() error {
	return e.internal
}

func (e *Error) BizCode() int {
	return e.bizCode
}

func (e *Error) HTTPCode() int {
	return e.httpCode
}

// Message is the user-facing text; it never includes the internal cause.
func (e *Error) Message() string {
	return e.message
}

func (e *Error) Details() any {
	return e.details
}

func (e *Error) Wrap(err error) *Error {
	return &Error{
		bizCode:  e.bizCode,
		httpCode: e.httpCode,
		message:  e.message,
		details:  e.details,
		internal: err,
	}
}

// WithMessage keeps the kind of e but replaces its user-facing message.
func (e *Error) WithMessage(format string, args ...any) *Error {
	return &Error{
		bizCode:  e.bizCode,
		httpCode: e.httpCode,
		message:  fmt.Sprintf(format, args...),
		details:  e.details,
		internal: e.internal,
	}
}

func (e *Error) WithDetails(details any) *Error {

	return &Error{
		bizCode:  e.bizCode,
		httpCode: e.httpCode,
		message:  e.message,
		details:  details,
		internal: e.internal,
	}
}

// UserMessage returns the message that may be shown to an end user.
// Errors that are not *Error collapse to the fallback text.
func UserMessage(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message()
	}
	return fallback
}
