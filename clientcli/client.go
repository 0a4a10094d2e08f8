package clientcli

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sagarc03/jirafeau"
	"github.com/sagarc03/jirafeau/transport"
)

const (
	uploadPath   = "/script.php"
	downloadPath = "/f.php"
)

// Client performs operations against a Jirafeau server.
// A Client is safe for concurrent use; it only holds read-only settings.
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *slog.Logger
	progress   ProgressFunc
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout. Zero means no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger sets the logger used for request tracing and cleanup warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithProgress sets a callback invoked as download bytes reach disk.
func WithProgress(fn ProgressFunc) Option {
	return func(c *Client) {
		c.progress = fn
	}
}

// New creates a new Client with the given config and options.
// The host must be an absolute http or https URL.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, jirafeau.ErrHostRequired
	}

	host, err := NormalizeHost(cfg.Host)
	if err != nil {
		return nil, err
	}

	c := &Client{
		config: &Config{
			Host:           host,
			UploadPassword: cfg.UploadPassword,
		},
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Host returns the normalized base URL of the server.
func (c *Client) Host() string {
	if c == nil || c.config == nil {
		return ""
	}
	return c.config.Host
}

// NormalizeHost validates a base URL and strips trailing slashes.
func NormalizeHost(raw string) (string, error) {
	host := strings.TrimRight(strings.TrimSpace(raw), "/")
	if host == "" {
		return "", jirafeau.ErrHostRequired
	}

	u, err := url.Parse(host)
	if err != nil {
		return "", fmt.Errorf("%w: invalid host: %w", jirafeau.ErrConfiguration, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: host must start with http:// or https://", jirafeau.ErrConfiguration)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: host is missing a server name", jirafeau.ErrConfiguration)
	}
	return host, nil
}

// ready reports whether the client was built with New.
func (c *Client) ready() error {
	if c == nil || c.config == nil || c.config.Host == "" {
		return jirafeau.ErrHostRequired
	}
	return nil
}

func (c *Client) transport() *transport.Transport {
	return transport.New(c.httpClient, c.logger)
}

// fileURL builds <host>/f.php with the given query pairs in order.
func (c *Client) fileURL(pairs ...string) string {
	var b strings.Builder
	b.WriteString(c.config.Host)
	b.WriteString(downloadPath)
	for i := 0; i+1 < len(pairs); i += 2 {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(pairs[i])
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(pairs[i+1]))
	}
	return b.String()
}

func uploadFailed(err error) (*jirafeau.UploadOutcome, error) {
	return &jirafeau.UploadOutcome{Status: jirafeau.StatusOf(err), Err: err}, err
}

func downloadFailed(err error) (*jirafeau.DownloadOutcome, error) {
	return &jirafeau.DownloadOutcome{Status: jirafeau.StatusOf(err), Err: err}, err
}

func deleteFailed(err error) (*jirafeau.DeleteOutcome, error) {
	return &jirafeau.DeleteOutcome{Status: jirafeau.StatusOf(err), Err: err}, err
}

// fail keeps a request error's context while preserving its sentinel.
func fail(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
