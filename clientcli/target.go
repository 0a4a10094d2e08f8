package clientcli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/sagarc03/jirafeau"
)

// target is where a download ends up. A directory target learns its file
// name from the server; a file target is created up front.
type target struct {
	dir        string
	path       string
	file       *os.File
	dirMissing bool
	createdDir bool
	logger     *slog.Logger
}

// resolveTarget applies the output path rules before any network I/O:
//
//  1. empty: the current working directory
//  2. an existing directory: that directory
//  3. a path whose parent does not exist: error
//  4. a path ending in a separator: that directory, created on demand
//  5. anything else: that exact file, created or truncated now
func resolveTarget(outputPath string, logger *slog.Logger) (*target, error) {
	t := &target{logger: logger}

	if outputPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("%w: get working directory: %w", jirafeau.ErrFilesystem, err)
		}
		t.dir = wd
		return t, nil
	}

	cleaned := filepath.Clean(outputPath)
	existing, statErr := os.Stat(cleaned)
	if statErr == nil && existing.IsDir() {
		t.dir = cleaned
		return t, nil
	}

	parent := filepath.Dir(cleaned)
	info, err := os.Stat(parent)
	if err != nil {
		return nil, fmt.Errorf("%w: output directory %s: %w", jirafeau.ErrFilesystem, parent, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", jirafeau.ErrFilesystem, parent)
	}

	if filepath.Dir(outputPath) == cleaned {
		if statErr == nil {
			return nil, fmt.Errorf("%w: %s is not a directory", jirafeau.ErrFilesystem, cleaned)
		}
		t.dir = cleaned
		t.dirMissing = true
		return t, nil
	}

	f, err := os.Create(cleaned) //#nosec G304 -- path is user-provided input
	if err != nil {
		return nil, fmt.Errorf("%w: create file: %w", jirafeau.ErrFilesystem, err)
	}
	t.path = cleaned
	t.file = f
	return t, nil
}

// needsName reports whether the file name is still unknown.
func (t *target) needsName() bool {
	return t.file == nil && t.dir != ""
}

// openIn creates name inside the target directory.
func (t *target) openIn(name string) error {
	if t.dirMissing {
		if err := os.MkdirAll(t.dir, 0o750); err != nil {
			return fmt.Errorf("%w: create directory: %w", jirafeau.ErrFilesystem, err)
		}
		t.dirMissing = false
		t.createdDir = true
	}

	p := filepath.Join(t.dir, name)
	f, err := os.Create(p) //#nosec G304 -- name is reduced to a base name
	if err != nil {
		return fmt.Errorf("%w: create file: %w", jirafeau.ErrFilesystem, err)
	}
	t.path = p
	t.file = f
	return nil
}

func (t *target) write(p []byte) error {
	if _, err := t.file.Write(p); err != nil {
		return fmt.Errorf("%w: write file: %w", jirafeau.ErrFilesystem, err)
	}
	return nil
}

// keep closes the file and leaves it in place.
func (t *target) keep() error {
	if err := t.file.Close(); err != nil {
		return fmt.Errorf("%w: close file: %w", jirafeau.ErrFilesystem, err)
	}
	return nil
}

// discard closes and removes whatever this download created.
func (t *target) discard() {
	if t.file != nil {
		_ = t.file.Close()
		if err := os.Remove(t.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			t.logger.Warn("failed to remove partial download", "path", t.path, "err", err)
		}
		t.file = nil
	}
	if t.createdDir {
		if err := os.Remove(t.dir); err != nil && !errors.Is(err, fs.ErrNotExist) {
			t.logger.Warn("failed to remove download directory", "path", t.dir, "err", err)
		}
	}
}

// filenameFromDisposition extracts a safe base name from a
// Content-Disposition header value, or returns "".
func filenameFromDisposition(value string) string {
	var name string
	if _, params, err := mime.ParseMediaType(value); err == nil {
		name = params["filename"]
	}
	if name == "" {
		name = quotedFilename(value)
	}

	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	switch name {
	case "", ".", "..", "/":
		return ""
	}
	return name
}

// quotedFilename is the fallback for headers mime.ParseMediaType rejects,
// such as unquoted spaces in other parameters.
func quotedFilename(value string) string {
	const key = `filename="`
	i := strings.Index(value, key)
	if i < 0 {
		return ""
	}
	rest := value[i+len(key):]
	j := strings.IndexByte(rest, '"')
	if j < 0 {
		return ""
	}
	return rest[:j]
}
