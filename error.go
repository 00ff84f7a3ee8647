package rawhttp

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Code is an error code that mirrors the http status codes. Route handlers return it wrapped in an [*Error] so the
// router can turn client mistakes into a proper response instead of a fault.
type Code int

const (
	CodeUnknown             Code = 0
	CodeBadRequest          Code = http.StatusBadRequest          // RFC 9110, 15.5.1
	CodeNotFound            Code = http.StatusNotFound            // RFC 9110, 15.5.5
	CodeMethodNotAllowed    Code = http.StatusMethodNotAllowed    // RFC 9110, 15.5.6
	CodeUnprocessableEntity Code = http.StatusUnprocessableEntity // RFC 9110, 15.5.21

	CodeInternalServerError Code = http.StatusInternalServerError // RFC 9110, 15.6.1
)

var (
	// ErrMalformedRequest is returned when the request line cannot be parsed. The connection is closed
	// without writing a response.
	ErrMalformedRequest = errors.New("malformed request line")

	// ErrBind matches any failure to bind or listen on a configured address.
	ErrBind = errors.New("bind failed")

	// ErrPrivilegedPort additionally matches bind failures caused by missing permissions, typically ports below 1024.
	ErrPrivilegedPort = errors.New("permission denied binding port")

	// ErrNoListeners is returned by [Server.Start] when not a single configured port could be bound.
	ErrNoListeners = errors.New("no listener could be started")
)

// Error describes an http error.
type Error struct {
	code Code
	err  error
}

// NewError inits a new error given the error code.
func NewError(c Code, underlying error) *Error {
	return &Error{c, underlying}
}

func (e *Error) Code() Code { return e.code }
func (e *Error) Unwrap() error { return e.err }
func (e *Error) Error() string {
	status := http.StatusText(int(e.Code()))
	if status == "" {
		status = "Unknown"
	}

	return fmt.Sprintf("%s: %s", status, e.err.Error())
}

// CodeOf returns the error's status code if it is or wraps an [*Error] and
// [CodeUnknown] otherwise.
func CodeOf(err error) Code {
	if httpErr, ok := asError(err); ok {
		return httpErr.Code()
	}
	return CodeUnknown
}

// IsClientError reports whether err carries a 4xx code.
func IsClientError(err error) bool {
	c := CodeOf(err)
	return c >= 400 && c < 500
}

func asError(err error) (*Error, bool) {
	var httpErr *Error
	ok := errors.As(err, &httpErr)
	return httpErr, ok
}
