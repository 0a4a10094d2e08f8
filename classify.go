package jirafeau

import (
	"bytes"
	"fmt"
	"strings"
)

// Markers Jirafeau embeds in response bodies. They are part of the server's
// wire contract and must match byte for byte.
const (
	NotFoundMarker = "file is not found"
	DeletedMarker  = "File has been deleted"
)

// Signal is what a response body says about the requested file.
type Signal int

const (
	SignalNone Signal = iota
	SignalNotFound
	SignalDeleted
)

// Classify scans body for the server markers. A not-found marker takes
// precedence over everything else in the same body.
func Classify(body []byte) Signal {
	if bytes.Contains(body, []byte(NotFoundMarker)) {
		return SignalNotFound
	}
	if bytes.Contains(body, []byte(DeletedMarker)) {
		return SignalDeleted
	}
	return SignalNone
}

// ClassifyDelete derives the status of a delete request from its reply.
func ClassifyDelete(statusCode int, body []byte) (Status, error) {
	switch Classify(body) {
	case SignalNotFound:
		return StatusNotFound, ErrNotFound
	case SignalDeleted:
		return StatusSuccess, nil
	}

	if !IsSuccessCode(statusCode) {
		err := &HTTPError{StatusCode: statusCode, Body: firstLine(body)}
		return StatusError, err
	}
	return StatusError, fmt.Errorf("%w: no deletion confirmation in reply", ErrMalformedResponse)
}

// ClassifyDownload inspects the leading bytes of a download reply. It only
// reports a problem; deciding success is up to the caller, which knows
// whether a destination file was opened.
//
// attachment tells whether the reply carried a Content-Disposition header.
// The deleted marker only counts for replies that are not a file, so file
// content mentioning it is kept. The not-found marker always counts.
func ClassifyDownload(statusCode int, head []byte, attachment bool) (Status, error) {
	switch Classify(head) {
	case SignalNotFound:
		return StatusNotFound, ErrNotFound
	case SignalDeleted:
		if !attachment {
			return StatusNotFound, ErrNotFound
		}
	}

	if !IsSuccessCode(statusCode) {
		return StatusError, &HTTPError{StatusCode: statusCode, Body: firstLine(head)}
	}
	return StatusSuccess, nil
}

// ParseUpload parses the line-oriented reply of script.php: file identifier,
// delete key and, for encrypted uploads, the crypt key. Blank lines and
// carriage returns are ignored.
func ParseUpload(statusCode int, body []byte) (UploadPayload, error) {
	lines := splitLines(body)

	if !IsSuccessCode(statusCode) {
		return UploadPayload{}, &HTTPError{StatusCode: statusCode, Body: firstLine(body)}
	}

	switch len(lines) {
	case 0:
		return UploadPayload{}, fmt.Errorf("%w: empty upload reply", ErrMalformedResponse)
	case 1:
		// Jirafeau reports upload errors as a single "Error N: ..." line.
		return UploadPayload{}, fmt.Errorf("%w: %s", ErrMalformedResponse, lines[0])
	}

	payload := UploadPayload{
		FileID:    lines[0],
		DeleteKey: lines[1],
	}
	if len(lines) > 2 {
		crypt := lines[2]
		payload.CryptKey = &crypt
	}
	return payload, nil
}

// IsSuccessCode reports whether code is a 2xx HTTP status.
func IsSuccessCode(code int) bool {
	return code >= 200 && code < 300
}

func splitLines(body []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// firstLine returns the first non-empty line of body, capped for error messages.
func firstLine(body []byte) string {
	const maxLen = 200
	lines := splitLines(body)
	if len(lines) == 0 {
		return ""
	}
	line := strings.TrimSpace(lines[0])
	if len(line) > maxLen {
		line = line[:maxLen] + "..."
	}
	return line
}
