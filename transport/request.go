package transport

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sagarc03/jirafeau"
)

// Request is a single HTTP request. Body may be nil.
type Request struct {
	Method        string
	URL           string
	Body          io.Reader
	ContentLength int64
	ContentType   string
}

// Field is a scalar form field. Order is preserved on the wire.
type Field struct {
	Name  string
	Value string
}

// FilePart attaches a local file to a multipart request.
// Filename overrides the name sent to the server; it defaults to the base
// name of Path.
type FilePart struct {
	FieldName string
	Path      string
	Filename  string
}

// NewRequest creates a request without a body.
func NewRequest(method, rawURL string) *Request {
	return &Request{Method: method, URL: rawURL}
}

// NewFormRequest creates an url-encoded POST request.
func NewFormRequest(rawURL string, values url.Values) *Request {
	encoded := values.Encode()
	return &Request{
		Method:        http.MethodPost,
		URL:           rawURL,
		Body:          strings.NewReader(encoded),
		ContentLength: int64(len(encoded)),
		ContentType:   "application/x-www-form-urlencoded",
	}
}

// NewMultipartRequest creates a multipart/form-data POST request. Scalar
// fields are written first, followed by the file part when file is non-nil.
// The file is streamed from disk, and the request carries an exact
// Content-Length.
func NewMultipartRequest(rawURL string, fields []Field, file *FilePart) (*Request, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for _, f := range fields {
		if err := mw.WriteField(f.Name, f.Value); err != nil {
			return nil, fmt.Errorf("write field %s: %w", f.Name, err)
		}
	}

	if file == nil {
		if err := mw.Close(); err != nil {
			return nil, fmt.Errorf("close multipart writer: %w", err)
		}
		return &Request{
			Method:        http.MethodPost,
			URL:           rawURL,
			Body:          bytes.NewReader(buf.Bytes()),
			ContentLength: int64(buf.Len()),
			ContentType:   mw.FormDataContentType(),
		}, nil
	}

	f, err := os.Open(file.Path) //#nosec G304 -- path is user-provided input
	if err != nil {
		return nil, fmt.Errorf("%w: open file: %w", jirafeau.ErrFilesystem, err)
	}

	body, size, err := filePartBody(&buf, mw, f, file)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &Request{
		Method:        http.MethodPost,
		URL:           rawURL,
		Body:          body,
		ContentLength: size,
		ContentType:   mw.FormDataContentType(),
	}, nil
}

// filePartBody writes the file part header into buf, then splits buf into a
// head and a tail around the file content so the file itself is never
// buffered.
func filePartBody(buf *bytes.Buffer, mw *multipart.Writer, f *os.File, file *FilePart) (io.Reader, int64, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: stat file: %w", jirafeau.ErrFilesystem, err)
	}
	if info.IsDir() {
		return nil, 0, fmt.Errorf("%w: %s is a directory", jirafeau.ErrFilesystem, file.Path)
	}

	contentType := "application/octet-stream"
	if mtype, detectErr := mimetype.DetectReader(f); detectErr == nil {
		contentType = mtype.String()
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, 0, fmt.Errorf("%w: seek file: %w", jirafeau.ErrFilesystem, err)
	}

	name := file.Filename
	if name == "" {
		name = filepath.Base(file.Path)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(file.FieldName), escapeQuotes(name)))
	h.Set("Content-Type", contentType)
	if _, err := mw.CreatePart(h); err != nil {
		return nil, 0, fmt.Errorf("create file part: %w", err)
	}

	head := bytes.Clone(buf.Bytes())
	buf.Reset()
	if err := mw.Close(); err != nil {
		return nil, 0, fmt.Errorf("close multipart writer: %w", err)
	}
	tail := bytes.Clone(buf.Bytes())

	size := int64(len(head)) + info.Size() + int64(len(tail))
	body := &fileBody{
		Reader: io.MultiReader(bytes.NewReader(head), f, bytes.NewReader(tail)),
		file:   f,
	}
	return body, size, nil
}

// fileBody closes the attached file once net/http is done with the body.
type fileBody struct {
	io.Reader
	file *os.File
}

func (b *fileBody) Close() error {
	return b.file.Close()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
