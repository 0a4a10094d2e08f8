package clientcli

import (
	"bytes"
	"context"
	"fmt"

	"github.com/sagarc03/jirafeau"
	"github.com/sagarc03/jirafeau/transport"
)

// maxUploadReply caps the script.php reply; a valid one is three short lines.
const maxUploadReply = 64 * 1024

// Upload sends one local file to the server.
// The returned error, if any, is also stored in the outcome.
func (c *Client) Upload(ctx context.Context, opts UploadOptions) (*jirafeau.UploadOutcome, error) {
	if err := c.ready(); err != nil {
		return uploadFailed(err)
	}
	if opts.LocalPath == "" {
		return uploadFailed(fmt.Errorf("upload: %w: local path is required", jirafeau.ErrInvalidInput))
	}

	req, err := transport.NewMultipartRequest(c.config.Host+uploadPath, c.uploadFields(opts), &transport.FilePart{
		FieldName: "file",
		Path:      opts.LocalPath,
		Filename:  opts.Filename,
	})
	if err != nil {
		return uploadFailed(fail("upload", err))
	}

	var body bytes.Buffer
	resp, err := c.transport().Do(ctx, req, transport.Collect(&body, maxUploadReply))
	if err != nil {
		return uploadFailed(fail("upload", err))
	}

	payload, err := jirafeau.ParseUpload(resp.StatusCode, body.Bytes())
	if err != nil {
		return uploadFailed(fail("upload", err))
	}

	c.logger.DebugContext(ctx, "upload complete", "file_id", payload.FileID, "encrypted", payload.CryptKey != nil)

	return &jirafeau.UploadOutcome{
		FileID:    payload.FileID,
		DeleteKey: payload.DeleteKey,
		CryptKey:  payload.CryptKey,
		Status:    jirafeau.StatusSuccess,
	}, nil
}

// uploadFields returns the scalar form fields, omitting unset ones.
func (c *Client) uploadFields(opts UploadOptions) []transport.Field {
	var fields []transport.Field

	if opts.Time != "" {
		fields = append(fields, transport.Field{Name: "time", Value: opts.Time})
	}

	password := opts.UploadPassword
	if password == "" {
		password = c.config.UploadPassword
	}
	if password != "" {
		fields = append(fields, transport.Field{Name: "upload_password", Value: password})
	}

	if opts.OneTimeDownload {
		fields = append(fields, transport.Field{Name: "one_time_download", Value: "1"})
	}
	if opts.Key != "" {
		fields = append(fields, transport.Field{Name: "key", Value: opts.Key})
	}
	return fields
}
