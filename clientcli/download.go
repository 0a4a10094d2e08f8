package clientcli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sagarc03/jirafeau"
	"github.com/sagarc03/jirafeau/transport"
)

// peekSize is how much of the body is inspected for server markers before
// anything is written to disk.
const peekSize = 4096

// Download fetches a file into opts.OutputPath. When the output path is a
// directory, the file name is taken from the server's Content-Disposition
// header. On any failure the partial file is removed.
func (c *Client) Download(ctx context.Context, opts DownloadOptions) (*jirafeau.DownloadOutcome, error) {
	if err := c.ready(); err != nil {
		return downloadFailed(err)
	}
	if opts.FileID == "" {
		return downloadFailed(fmt.Errorf("download: %w: file id is required", jirafeau.ErrInvalidInput))
	}

	tgt, err := resolveTarget(opts.OutputPath, c.logger)
	if err != nil {
		return downloadFailed(fail("download", err))
	}

	pairs := []string{"h", opts.FileID, "d", "1"}
	if opts.CryptKey != "" {
		pairs = append(pairs, "k", opts.CryptKey)
	}
	u := c.fileURL(pairs...)

	req := transport.NewRequest(http.MethodGet, u)
	if opts.Key != "" {
		req = transport.NewFormRequest(u, url.Values{"key": {opts.Key}})
	}

	sink := &downloadSink{target: tgt, progress: c.progress}
	_, doErr := c.transport().Do(ctx, req, sink)

	outcome, err := sink.finish(doErr)
	if err != nil {
		return downloadFailed(fail("download", err))
	}

	c.logger.DebugContext(ctx, "download complete", "path", outcome.Path, "bytes", outcome.Size)
	return outcome, nil
}

type sinkState int

const (
	awaitingHeaders sinkState = iota
	streaming
	failed
)

// downloadSink receives one download reply. It holds the first peekSize
// bytes back until they have been checked for server markers.
type downloadSink struct {
	target     *target
	progress   ProgressFunc
	state      sinkState
	statusCode int
	attachment bool
	head       []byte
	flushed    bool
	written    int64
}

func (s *downloadSink) OnStatus(code int) error {
	s.statusCode = code
	return nil
}

func (s *downloadSink) OnHeader(name, value string) error {
	if !strings.EqualFold(name, "Content-Disposition") {
		return nil
	}
	if !jirafeau.IsSuccessCode(s.statusCode) {
		return nil
	}
	s.attachment = true
	if !s.target.needsName() {
		return nil
	}

	filename := filenameFromDisposition(value)
	if filename == "" {
		return nil
	}
	if err := s.target.openIn(filename); err != nil {
		s.state = failed
		return err
	}
	return nil
}

func (s *downloadSink) OnBody(p []byte) error {
	if s.state == failed {
		return errors.New("download sink already failed")
	}
	s.state = streaming

	if !s.flushed {
		need := peekSize - len(s.head)
		if len(p) < need {
			s.head = append(s.head, p...)
			return nil
		}
		s.head = append(s.head, p[:need]...)
		p = p[need:]
		if err := s.flushHead(); err != nil {
			s.state = failed
			return err
		}
	}

	if len(p) == 0 {
		return nil
	}
	if err := s.write(p); err != nil {
		s.state = failed
		return err
	}
	return nil
}

// flushHead classifies the peeked bytes and writes them out.
func (s *downloadSink) flushHead() error {
	if _, err := jirafeau.ClassifyDownload(s.statusCode, s.head, s.attachment); err != nil {
		return err
	}
	if s.target.file == nil {
		return jirafeau.ErrNoFilename
	}
	s.flushed = true
	if len(s.head) == 0 {
		return nil
	}
	return s.write(s.head)
}

func (s *downloadSink) write(p []byte) error {
	if err := s.target.write(p); err != nil {
		return err
	}
	s.written += int64(len(p))
	if s.progress != nil {
		s.progress(s.written)
	}
	return nil
}

// finish settles the outcome once the round trip is over.
func (s *downloadSink) finish(doErr error) (*jirafeau.DownloadOutcome, error) {
	err := doErr
	if err == nil && !s.flushed {
		err = s.flushHead()
	}
	if err != nil {
		s.state = failed
		s.target.discard()
		return nil, err
	}

	if err := s.target.keep(); err != nil {
		s.target.discard()
		return nil, err
	}

	return &jirafeau.DownloadOutcome{
		Path:   s.target.path,
		Size:   s.written,
		Status: jirafeau.StatusSuccess,
	}, nil
}
