package clientcli

import (
	"bytes"
	"context"
	"fmt"

	"github.com/sagarc03/jirafeau"
	"github.com/sagarc03/jirafeau/transport"
)

const maxDeleteReply = 1 << 20

// Delete removes a file using its delete key. Deleting a file that is
// already gone yields jirafeau.StatusNotFound.
func (c *Client) Delete(ctx context.Context, opts DeleteOptions) (*jirafeau.DeleteOutcome, error) {
	if err := c.ready(); err != nil {
		return deleteFailed(err)
	}
	if opts.FileID == "" {
		return deleteFailed(fmt.Errorf("delete: %w: file id is required", jirafeau.ErrInvalidInput))
	}
	if opts.DeleteKey == "" {
		return deleteFailed(fmt.Errorf("delete: %w: delete key is required", jirafeau.ErrInvalidInput))
	}

	req, err := transport.NewMultipartRequest(
		c.fileURL("h", opts.FileID, "d", opts.DeleteKey),
		[]transport.Field{{Name: "do_delete", Value: "1"}},
		nil,
	)
	if err != nil {
		return deleteFailed(fail("delete", err))
	}

	var body bytes.Buffer
	resp, err := c.transport().Do(ctx, req, transport.Collect(&body, maxDeleteReply))
	if err != nil {
		return deleteFailed(fail("delete", err))
	}

	status, err := jirafeau.ClassifyDelete(resp.StatusCode, body.Bytes())
	if err != nil {
		return deleteFailed(fail("delete", err))
	}
	return &jirafeau.DeleteOutcome{Status: status}, nil
}
