package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNoData             = errors.New("no data received")
	ErrMissingField       = errors.New("required field missing")
	ErrIdentifierRequired = errors.New(`at least one of those fields "customer ID" or "sim card number" must be present in the request`)
	ErrReasonTooLong      = errors.New("reason for extraordinary termination should not exceed 500 characters limit")
	ErrTooManyRequests    = errors.New("too much requests")
	ErrNotConfigured      = errors.New("backend is not fully configured for the functionality")
	ErrRender             = errors.New("document rendering failed")
	ErrArtifactNotFound   = errors.New("file not found")
	ErrDownloadDenied     = errors.New("download not permitted for this requester")
)

// MissingFieldError names the offending field so the transport layer can
// surface it to the caller. It matches ErrMissingField under errors.Is.
type MissingFieldError struct {
	Field string
}

func (e MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

func (e MissingFieldError) Unwrap() error {
	return ErrMissingField
}
