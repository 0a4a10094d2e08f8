package jirafeautest

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Pages the stub sends. The marker phrases match Jirafeau's own wording.
const (
	NotFoundPage = "<html><body><h2>Sorry, the requested file is not found</h2></body></html>"
	DeletedPage  = "<html><body><h2>File has been deleted.</h2></body></html>"
)

// Lifetimes accepted by the time field, as offered by Jirafeau.
var lifetimes = map[string]time.Duration{
	"minute":    time.Minute,
	"hour":      time.Hour,
	"day":       24 * time.Hour,
	"week":      7 * 24 * time.Hour,
	"fortnight": 14 * 24 * time.Hour,
	"month":     30 * 24 * time.Hour,
	"quarter":   91 * 24 * time.Hour,
	"year":      365 * 24 * time.Hour,
	"none":      0,
}

// Options configures a stub server.
type Options struct {
	// Dir holds uploaded content. NewTestServer uses t.TempDir() when empty.
	Dir string
	// UploadPassword, when set, must accompany every upload.
	UploadPassword string
	// Encrypt makes every upload return a crypt key, which downloads must
	// then present as the k query parameter.
	Encrypt bool
	// Now replaces time.Now for expiry checks.
	Now func() time.Time
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

type entry struct {
	name        string
	contentType string
	size        int64
	etag        string
	deleteKey   string
	accessKey   string
	cryptKey    string
	oneTime     bool
	expires     time.Time
}

// Server is a stub Jirafeau server.
type Server struct {
	opts  Options
	blobs *blobStore

	mu    sync.Mutex
	files map[string]*entry
	hits  int
}

// New creates a stub server storing uploads under opts.Dir.
func New(opts Options) (*Server, error) {
	if opts.Dir == "" {
		return nil, errors.New("jirafeautest: Dir is required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	blobs, err := openBlobStore(opts.Dir, opts.Logger)
	if err != nil {
		return nil, err
	}

	return &Server{
		opts:  opts,
		blobs: blobs,
		files: make(map[string]*entry),
	}, nil
}

// NewTestServer starts a stub behind an httptest.Server. Both are closed
// when the test ends.
func NewTestServer(tb testing.TB, opts Options) (*Server, *httptest.Server) {
	tb.Helper()
	if opts.Dir == "" {
		opts.Dir = tb.TempDir()
	}

	stub, err := New(opts)
	if err != nil {
		tb.Fatalf("start stub server: %v", err)
	}

	srv := httptest.NewServer(stub.Router())
	tb.Cleanup(func() {
		srv.Close()
		_ = stub.Close()
	})
	return stub, srv
}

// Router returns the HTTP handler serving script.php and f.php.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.countRequests)

	r.Post("/script.php", s.handleUpload)
	r.Get("/f.php", s.handleFile)
	r.Post("/f.php", s.handleFile)

	return r
}

// Close releases the blob directory.
func (s *Server) Close() error {
	return s.blobs.close()
}

// Has reports whether a file id is currently stored.
func (s *Server) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[id]
	return ok
}

// Len returns the number of stored files.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// Requests returns how many requests the stub has received.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeText(w, http.StatusBadRequest, "Error 1: malformed upload.")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	if s.opts.UploadPassword != "" && r.FormValue("upload_password") != s.opts.UploadPassword {
		writeText(w, http.StatusOK, "Error 2: Invalid password.")
		return
	}

	lifetime := "month"
	if v := r.FormValue("time"); v != "" {
		lifetime = v
	}
	ttl, ok := lifetimes[lifetime]
	if !ok {
		writeText(w, http.StatusOK, "Error 22: Invalid time value.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeText(w, http.StatusOK, "Error 1: No file was provided.")
		return
	}
	defer func() { _ = file.Close() }()

	id := token(8)
	size, etag, err := s.blobs.write(id, file)
	if err != nil {
		s.opts.Logger.Error("store upload", "err", err)
		writeText(w, http.StatusInternalServerError, "Error 3: Internal error.")
		return
	}

	e := &entry{
		name:        header.Filename,
		contentType: header.Header.Get("Content-Type"),
		size:        size,
		etag:        etag,
		deleteKey:   token(16),
		accessKey:   r.FormValue("key"),
		oneTime:     r.FormValue("one_time_download") == "1",
	}
	if ttl > 0 {
		e.expires = s.opts.Now().Add(ttl)
	}
	if s.opts.Encrypt {
		e.cryptKey = token(8)
	}

	s.mu.Lock()
	s.files[id] = e
	s.mu.Unlock()

	reply := id + "\n" + e.deleteKey + "\n"
	if e.cryptKey != "" {
		reply += e.cryptKey + "\n"
	}
	writeText(w, http.StatusOK, reply)
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	id := query.Get("h")
	d := query.Get("d")

	e, ok := s.lookup(id)
	if !ok {
		writeHTML(w, http.StatusNotFound, NotFoundPage)
		return
	}

	switch {
	case d == "" || d == "1" || query.Get("p") == "1":
		s.serveFile(w, r, id, e, d == "1")
	case d == e.deleteKey:
		s.deleteFile(w, r, id)
	default:
		writeHTML(w, http.StatusForbidden, "<html><body><h2>Wrong delete code.</h2></body></html>")
	}
}

// lookup returns a live entry, dropping it first if it has expired.
func (s *Server) lookup(id string) (*entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.files[id]
	if !ok {
		return nil, false
	}
	if !e.expires.IsZero() && s.opts.Now().After(e.expires) {
		s.dropLocked(id)
		return nil, false
	}
	return e, true
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, id string, e *entry, attachment bool) {
	if e.accessKey != "" && r.PostFormValue("key") != e.accessKey {
		writeHTML(w, http.StatusForbidden, "<html><body><h2>Access denied: wrong key.</h2></body></html>")
		return
	}
	if e.cryptKey != "" && r.URL.Query().Get("k") != e.cryptKey {
		writeHTML(w, http.StatusForbidden, "<html><body><h2>Access denied: wrong crypt key.</h2></body></html>")
		return
	}

	f, err := s.blobs.open(id)
	if err != nil {
		if errors.Is(err, errBlobNotFound) {
			writeHTML(w, http.StatusNotFound, NotFoundPage)
			return
		}
		s.opts.Logger.Error("open upload", "id", id, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = f.Close() }()

	disposition := "inline"
	if attachment {
		disposition = "attachment"
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf(`%s; filename="%s"`, disposition, quoteEscaper.Replace(e.name)))
	if e.contentType != "" {
		w.Header().Set("Content-Type", e.contentType)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	w.Header().Set("ETag", `"`+e.etag+`"`)

	consumed := attachment && e.oneTime
	if consumed {
		s.mu.Lock()
		delete(s.files, id)
		s.mu.Unlock()
	}

	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, f); err != nil {
		s.opts.Logger.Warn("serve upload", "id", id, "err", err)
	}

	if consumed {
		if err := s.blobs.remove(id); err != nil {
			s.opts.Logger.Warn("failed to remove upload", "id", id, "err", err)
		}
	}
}

func (s *Server) deleteFile(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost || r.FormValue("do_delete") != "1" {
		writeHTML(w, http.StatusOK, `<html><body><form method="post"><input type="hidden" name="do_delete" value="1"/></form></body></html>`)
		return
	}

	s.mu.Lock()
	s.dropLocked(id)
	s.mu.Unlock()

	writeHTML(w, http.StatusOK, DeletedPage)
}

func (s *Server) dropLocked(id string) {
	delete(s.files, id)
	if err := s.blobs.remove(id); err != nil && !errors.Is(err, errBlobNotFound) {
		s.opts.Logger.Warn("failed to remove upload", "id", id, "err", err)
	}
}

func token(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func writeHTML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
