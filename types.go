package jirafeau

import (
	"fmt"
)

// Status is the outcome of an upload, download or delete operation.
// The zero value is StatusError so an unset outcome never reads as a success.
type Status int

const (
	StatusError Status = iota
	StatusNotFound
	StatusSuccess
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusNotFound:
		return "not_found"
	default:
		return "error"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(b []byte) error {
	parsed, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func ParseStatus(s string) (Status, error) {
	switch s {
	case "success":
		return StatusSuccess, nil
	case "not_found":
		return StatusNotFound, nil
	case "error":
		return StatusError, nil
	default:
		return StatusError, fmt.Errorf("invalid status: %s (valid: success, not_found, error)", s)
	}
}

// UploadOutcome is the result of uploading one file.
// CryptKey is nil when the server did not encrypt the upload.
type UploadOutcome struct {
	FileID    string  `json:"file_id"`
	DeleteKey string  `json:"delete_key"`
	CryptKey  *string `json:"crypt_key,omitempty"`
	Status    Status  `json:"status"`
	Err       error   `json:"-"` // nil on success
}

// Encrypted reports whether the server returned a crypt key.
func (o *UploadOutcome) Encrypted() bool {
	return o.CryptKey != nil
}

// Crypt returns the crypt key, or "" when the upload is not encrypted.
func (o *UploadOutcome) Crypt() string {
	if o.CryptKey == nil {
		return ""
	}
	return *o.CryptKey
}

// DownloadOutcome is the result of downloading one file.
// Path is only meaningful when Status is StatusSuccess.
type DownloadOutcome struct {
	Path   string `json:"path,omitempty"`
	Size   int64  `json:"size_bytes"`
	Status Status `json:"status"`
	Err    error  `json:"-"`
}

// DeleteOutcome is the result of deleting one file.
type DeleteOutcome struct {
	Status Status `json:"status"`
	Err    error  `json:"-"`
}

// UploadPayload is the parsed body of a successful upload reply.
type UploadPayload struct {
	FileID    string
	DeleteKey string
	CryptKey  *string
}
