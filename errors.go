package jirafeau

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

var (
	// ErrTransport is returned when a connection cannot be established or a transfer is aborted
	ErrTransport = errors.New("transport error")
	// ErrNotFound is returned when the file identifier is unknown, expired or already consumed
	ErrNotFound = errors.New("file not found")
	// ErrMalformedResponse is returned when a reply does not have the expected shape
	ErrMalformedResponse = errors.New("malformed response")
	// ErrFilesystem is returned when a local file cannot be opened, created or written
	ErrFilesystem = errors.New("filesystem error")
	// ErrConfiguration is returned when the client is used without a valid host
	ErrConfiguration = errors.New("configuration error")
	// ErrInvalidInput is returned when a required operation argument is missing
	ErrInvalidInput = errors.New("invalid input")
)

var (
	// ErrHostRequired is returned when no host has been configured.
	ErrHostRequired = fmt.Errorf("%w: host is required", ErrConfiguration)

	// ErrNoFilename is returned when a download into a directory never
	// received a usable content-disposition filename.
	ErrNoFilename = fmt.Errorf("%w: server did not provide a filename", ErrMalformedResponse)

	// ErrUnexpectedStatus is wrapped by HTTPError.
	ErrUnexpectedStatus = fmt.Errorf("%w: unexpected http status", ErrMalformedResponse)
)

// HTTPError is returned when the server answers with a non-2xx status and
// the body carries none of the known markers.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	msg := "server error: " + strconv.Itoa(e.StatusCode) + " " + http.StatusText(e.StatusCode)
	if e.Body != "" {
		msg += " - " + e.Body
	}
	return msg
}

// Unwrap makes errors.Is(err, ErrUnexpectedStatus) and
// errors.Is(err, ErrMalformedResponse) hold for every HTTPError.
func (e *HTTPError) Unwrap() error {
	return ErrUnexpectedStatus
}

// StatusOf collapses an error into the Status a caller sees.
// A nil error is StatusSuccess.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, ErrNotFound):
		return StatusNotFound
	default:
		return StatusError
	}
}
