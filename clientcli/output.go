package clientcli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sagarc03/jirafeau"
)

// Formatter formats outcomes for output.
type Formatter interface {
	FormatUpload(w io.Writer, host string, outcome *jirafeau.UploadOutcome) error
	FormatDownload(w io.Writer, outcome *jirafeau.DownloadOutcome) error
	FormatDelete(w io.Writer, outcome *jirafeau.DeleteOutcome) error
	FormatError(w io.Writer, err error) error
	FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error
	FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error
}

// FormatOptions selects a formatter.
type FormatOptions struct {
	JSON  bool
	Quiet bool
	Color bool
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(opts FormatOptions) Formatter {
	if opts.JSON {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: opts.Quiet, Color: opts.Color}
}

// ANSI SGR sequences for the upload labels.
const (
	ansiReset   = "\033[0m"
	ansiGreen   = "\033[1;32m"
	ansiBlue    = "\033[1;34m"
	ansiMagenta = "\033[1;35m"
	ansiRed     = "\033[1;31m"
	ansiCyan    = "\033[1;36m"
	ansiYellow  = "\033[1;33m"
	ansiWhite   = "\033[1;37m"
)

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	Quiet bool
	Color bool
}

func (f *HumanFormatter) label(name, color string) string {
	padded := fmt.Sprintf("%-13s", name)
	if !f.Color {
		return padded
	}
	return color + name + ansiReset + padded[len(name):]
}

// FormatUpload prints the share links and keys. In quiet mode only the
// download link is printed.
func (f *HumanFormatter) FormatUpload(w io.Writer, host string, outcome *jirafeau.UploadOutcome) error {
	links := LinksFor(host, outcome)
	if f.Quiet {
		_, _ = fmt.Fprintln(w, links.Download)
		return nil
	}

	_, _ = fmt.Fprintf(w, "%s%s\n", f.label("URL", ansiGreen), links.File)
	_, _ = fmt.Fprintf(w, "%s%s\n", f.label("Preview URL", ansiBlue), links.Preview)
	_, _ = fmt.Fprintf(w, "%s%s\n", f.label("Download URL", ansiMagenta), links.Download)
	_, _ = fmt.Fprintf(w, "%s%s\n", f.label("Delete URL", ansiRed), links.Delete)
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "%s%s\n", f.label("File ID", ansiCyan), outcome.FileID)
	_, _ = fmt.Fprintf(w, "%s%s\n", f.label("Delete Key", ansiYellow), outcome.DeleteKey)
	if outcome.Encrypted() {
		_, _ = fmt.Fprintf(w, "%s%s\n", f.label("Crypt Key", ansiWhite), outcome.Crypt())
	}
	return nil
}

// FormatDownload prints the path of the downloaded file.
func (f *HumanFormatter) FormatDownload(w io.Writer, outcome *jirafeau.DownloadOutcome) error {
	if f.Quiet {
		_, _ = fmt.Fprintln(w, outcome.Path)
		return nil
	}
	_, _ = fmt.Fprintf(w, "%s (%s)\n", outcome.Path, formatSize(outcome.Size))
	return nil
}

// FormatDelete confirms a deletion.
func (f *HumanFormatter) FormatDelete(w io.Writer, _ *jirafeau.DeleteOutcome) error {
	if !f.Quiet {
		_, _ = fmt.Fprintln(w, "File deleted")
	}
	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatUpload writes the upload outcome together with its share links.
func (f *JSONFormatter) FormatUpload(w io.Writer, host string, outcome *jirafeau.UploadOutcome) error {
	links := LinksFor(host, outcome)
	output := struct {
		Host string `json:"host"`
		Links
		FileID    string          `json:"file_id"`
		DeleteKey string          `json:"delete_key"`
		CryptKey  string          `json:"crypt_key"`
		Status    jirafeau.Status `json:"status"`
	}{
		Host:      host,
		Links:     links,
		FileID:    outcome.FileID,
		DeleteKey: outcome.DeleteKey,
		CryptKey:  outcome.Crypt(),
		Status:    outcome.Status,
	}
	return writeJSON(w, output)
}

// FormatDownload formats download outcome as JSON.
func (f *JSONFormatter) FormatDownload(w io.Writer, outcome *jirafeau.DownloadOutcome) error {
	return writeJSON(w, outcome)
}

// FormatDelete formats delete outcome as JSON.
func (f *JSONFormatter) FormatDelete(w io.Writer, outcome *jirafeau.DeleteOutcome) error {
	return writeJSON(w, outcome)
}

// FormatError formats an error as JSON, including the status it maps to.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error  string          `json:"error"`
		Status jirafeau.Status `json:"status"`
	}{
		Error:  err.Error(),
		Status: jirafeau.StatusOf(err),
	}
	return writeJSON(w, output)
}

// NotFoundMessage is the text shown when an operation reports
// jirafeau.StatusNotFound.
func NotFoundMessage(op string) string {
	if op == "delete" {
		return "File could not be found, already deleted?"
	}
	return "File could not be found"
}

// Describe turns an operation error into a one-line message for users.
func Describe(op string, err error) string {
	switch {
	case errors.Is(err, jirafeau.ErrNotFound):
		return NotFoundMessage(op)
	case errors.Is(err, jirafeau.ErrTransport):
		return "Could not reach the server: " + err.Error()
	default:
		return err.Error()
	}
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatProfileList formats a list of profiles as human-readable text.
func (f *HumanFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error {
	maxNameLen := 4 // "NAME"
	maxHostLen := 4 // "HOST"
	for i := range profiles {
		maxNameLen = max(maxNameLen, len(profiles[i].Name))
		maxHostLen = max(maxHostLen, len(profiles[i].Host))
	}
	maxNameLen = min(maxNameLen, 20)
	maxHostLen = min(maxHostLen, 50)

	_, _ = fmt.Fprintf(w, "  %-*s  %-*s  %s\n", maxNameLen, "NAME", maxHostLen, "HOST", "UPLOAD PASSWORD")
	_, _ = fmt.Fprintf(w, "  %s  %s  %s\n", strings.Repeat("-", maxNameLen), strings.Repeat("-", maxHostLen), strings.Repeat("-", 15))

	for i := range profiles {
		p := &profiles[i]
		marker := " "
		if p.Name == defaultName {
			marker = "*"
		}

		_, _ = fmt.Fprintf(w, "%s %-*s  %-*s  %s\n",
			marker,
			maxNameLen, truncate(p.Name, maxNameLen),
			maxHostLen, truncate(p.Host, maxHostLen),
			maskSecret(p.UploadPassword, showSecrets),
		)
	}

	return nil
}

// FormatProfileShow formats a single profile as human-readable text.
func (f *HumanFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error {
	_, _ = fmt.Fprintf(w, "Name:            %s", profile.Name)
	if isDefault {
		_, _ = fmt.Fprintf(w, " (default)")
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Host:            %s\n", profile.Host)
	_, _ = fmt.Fprintf(w, "Upload Password: %s\n", maskSecret(profile.UploadPassword, showSecrets))
	return nil
}

type jsonProfile struct {
	Name           string `json:"name"`
	Host           string `json:"host"`
	UploadPassword string `json:"upload_password,omitempty"`
	Default        bool   `json:"default"`
}

func toJSONProfile(p Profile, isDefault, showSecrets bool) jsonProfile {
	jp := jsonProfile{Name: p.Name, Host: p.Host, Default: isDefault}
	if p.UploadPassword != "" {
		jp.UploadPassword = maskSecret(p.UploadPassword, showSecrets)
	}
	return jp
}

// FormatProfileList formats a list of profiles as JSON.
func (f *JSONFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error {
	output := struct {
		Profiles []jsonProfile `json:"profiles"`
	}{
		Profiles: make([]jsonProfile, len(profiles)),
	}
	for i := range profiles {
		output.Profiles[i] = toJSONProfile(profiles[i], profiles[i].Name == defaultName, showSecrets)
	}
	return writeJSON(w, output)
}

// FormatProfileShow formats a single profile as JSON.
func (f *JSONFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error {
	return writeJSON(w, toJSONProfile(profile, isDefault, showSecrets))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// maskSecret masks a secret, showing only the first and last 4 characters.
func maskSecret(secret string, showSecrets bool) string {
	if showSecrets {
		return secret
	}
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 8 {
		return "********"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
