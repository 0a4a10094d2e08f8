package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"

	"github.com/sagarc03/jirafeau"
)

// DefaultChunkSize is the size of the buffer body bytes are read into.
const DefaultChunkSize = 32 * 1024

// Handler receives a response as it arrives. All OnHeader calls happen
// before the first OnBody call. Headers arrive sorted by canonical key, not
// in wire order; values of one key keep their received order. Returning an
// error from either method aborts the transfer, and Do returns that error
// unchanged.
type Handler interface {
	OnHeader(name, value string) error
	OnBody(p []byte) error
}

// StatusHandler is implemented by handlers that want the status code before
// the first header is delivered.
type StatusHandler interface {
	OnStatus(code int) error
}

// Funcs adapts plain functions to a Handler. Nil fields are skipped.
type Funcs struct {
	Header func(name, value string) error
	Body   func(p []byte) error
}

func (f Funcs) OnHeader(name, value string) error {
	if f.Header == nil {
		return nil
	}
	return f.Header(name, value)
}

func (f Funcs) OnBody(p []byte) error {
	if f.Body == nil {
		return nil
	}
	return f.Body(p)
}

// Response describes a completed round trip.
type Response struct {
	StatusCode int
	Header     http.Header
	BytesRead  int64
}

// Transport issues one HTTP request per Do call.
type Transport struct {
	client    *http.Client
	logger    *slog.Logger
	chunkSize int
}

// New creates a Transport. A nil client uses http.DefaultClient and a nil
// logger uses slog.Default().
func New(client *http.Client, logger *slog.Logger) *Transport {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{
		client:    client,
		logger:    logger,
		chunkSize: DefaultChunkSize,
	}
}

// Do performs exactly one round trip. Connection failures and body read
// failures wrap jirafeau.ErrTransport. The returned Response is non-nil
// whenever the server answered, even if the handler aborted the transfer.
func (t *Transport) Do(ctx context.Context, r *Request, h Handler) (*Response, error) {
	body := r.Body
	if body == nil {
		body = http.NoBody
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		if c, ok := r.Body.(io.Closer); ok {
			_ = c.Close()
		}
		return nil, fmt.Errorf("%w: create request: %w", jirafeau.ErrTransport, err)
	}
	if r.ContentType != "" {
		req.Header.Set("Content-Type", r.ContentType)
	}
	if r.ContentLength > 0 {
		req.ContentLength = r.ContentLength
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: do request: %w", jirafeau.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	result := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
	}

	if sh, ok := h.(StatusHandler); ok {
		if err := sh.OnStatus(resp.StatusCode); err != nil {
			return result, err
		}
	}

	// net/http does not keep the wire order of header lines; canonical key
	// order keeps the callback sequence deterministic.
	names := make([]string, 0, len(resp.Header))
	for name := range resp.Header {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		for _, value := range resp.Header[name] {
			if err := h.OnHeader(name, value); err != nil {
				return result, err
			}
		}
	}

	buf := make([]byte, t.chunkSize)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			result.BytesRead += int64(n)
			if err := h.OnBody(buf[:n]); err != nil {
				return result, err
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return result, fmt.Errorf("%w: read body: %w", jirafeau.ErrTransport, readErr)
		}
	}

	t.logger.DebugContext(ctx, "jirafeau request",
		"method", r.Method,
		"url", redact(r.URL),
		"status", resp.StatusCode,
		"bytes", result.BytesRead,
	)

	return result, nil
}

// Collect returns a Handler that appends the body to buf. A positive limit
// caps the number of bytes accepted; exceeding it aborts the transfer with
// an error wrapping jirafeau.ErrMalformedResponse.
func Collect(buf interface{ Write([]byte) (int, error) }, limit int64) Handler {
	var seen int64
	return Funcs{
		Body: func(p []byte) error {
			seen += int64(len(p))
			if limit > 0 && seen > limit {
				return fmt.Errorf("%w: reply larger than %d bytes", jirafeau.ErrMalformedResponse, limit)
			}
			_, err := buf.Write(p)
			return err
		},
	}
}

// redact drops the query string values, which carry delete and crypt keys.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "(invalid url)"
	}
	q := u.Query()
	for key := range q {
		if key != "h" {
			q.Set(key, "REDACTED")
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
