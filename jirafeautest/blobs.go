package jirafeautest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

var errBlobNotFound = errors.New("blob not found")

// blobStore keeps uploaded content on disk under a sandboxed root.
type blobStore struct {
	root   *os.Root
	logger *slog.Logger
}

func openBlobStore(dir string, logger *slog.Logger) (*blobStore, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("open blob root: %w", err)
	}
	return &blobStore{root: root, logger: logger}, nil
}

// write stores content atomically through a temp file and returns its size
// and SHA256 digest.
func (s *blobStore) write(name string, content io.Reader) (int64, string, error) {
	tmpFile := "tmp-" + uuid.NewString()
	t, err := s.root.Create(tmpFile)
	if err != nil {
		return 0, "", fmt.Errorf("could not open temp file: %w", err)
	}

	success := false
	defer func() {
		if closeErr := t.Close(); closeErr != nil {
			s.logger.Warn("failed to close tmp file", "err", closeErr)
		}
		if !success {
			if rmErr := s.root.Remove(tmpFile); rmErr != nil {
				s.logger.Warn("failed to remove tmp file", "err", rmErr)
			}
		}
	}()

	h := sha256.New()
	size, err := io.Copy(io.MultiWriter(h, t), content)
	if err != nil {
		return 0, "", fmt.Errorf("could not copy file contents: %w", err)
	}
	if err := t.Sync(); err != nil {
		return 0, "", fmt.Errorf("could not sync written file: %w", err)
	}
	if err := s.root.Rename(tmpFile, name); err != nil {
		return 0, "", fmt.Errorf("failed to rename file: %w", err)
	}

	success = true
	return size, hex.EncodeToString(h.Sum(nil)), nil
}

func (s *blobStore) open(name string) (*os.File, error) {
	f, err := s.root.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errBlobNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

func (s *blobStore) remove(name string) error {
	if err := s.root.Remove(name); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return errBlobNotFound
		}
		return fmt.Errorf("could not delete file: %w", err)
	}
	return nil
}

func (s *blobStore) close() error {
	return s.root.Close()
}
