package errprocess

import (
	"errors"
	"net/http"

	"folio_service/pkg/logger"
)

// Code is a stable, caller-facing error code for request-level failures.
type Code string

const (
	// CodeUnauthenticated no verified identity on the request
	CodeUnauthenticated Code = "Unauthenticated"
	// CodeInvalidArgument missing or malformed request field
	CodeInvalidArgument Code = "InvalidArgument"
	// CodeIdentityMismatch payload caller id disagrees with the verified identity
	CodeIdentityMismatch Code = "IdentityMismatch"
	// CodeNotFound target record does not exist
	CodeNotFound Code = "NotFound"
	// CodePermissionDenied caller does not own the target record
	CodePermissionDenied Code = "PermissionDenied"
)

// RequestError is raised for auth/argument/lookup failures. Processing
// failures are reported in the response body instead, so handlers can map
// these to status codes without special cases.
type RequestError struct {
	Code    Code
	Message string
}

func (e *RequestError) Error() string {
	return string(e.Code) + ": " + e.Message
}

// New logs and returns a typed request error.
func New(code Code, msg string) error {
	logger.Log.Error(string(code) + " " + msg)
	return &RequestError{Code: code, Message: msg}
}

// Set set err info
func Set(errMsg string) error {
	logger.Log.Error(errMsg)
	return errors.New(errMsg)
}

// CodeOf extracts the request-error code, if err carries one.
func CodeOf(err error) (Code, bool) {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Code, true
	}
	return "", false
}

// HTTPStatus maps a request error to its HTTP status. Untyped errors are
// treated as internal.
func HTTPStatus(err error) int {
	code, ok := CodeOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch code {
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeIdentityMismatch, CodePermissionDenied:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
