package clientcli_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sagarc03/jirafeau"
	"github.com/sagarc03/jirafeau/clientcli"
	"github.com/sagarc03/jirafeau/jirafeautest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		encrypt bool
	}{
		{name: "plain", encrypt: false},
		{name: "encrypted", encrypt: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			stub, srv := jirafeautest.NewTestServer(t, jirafeautest.Options{Encrypt: tt.encrypt})
			c := newClient(t, srv.URL)

			src := writeFile(t, t.TempDir(), "report.pdf", "%PDF-1.4 quarterly numbers")

			up, err := c.Upload(ctx, clientcli.UploadOptions{LocalPath: src, Time: "week"})
			require.NoError(t, err)
			assert.Equal(t, tt.encrypt, up.Encrypted())
			assert.True(t, stub.Has(up.FileID))

			out := t.TempDir()
			down, err := c.Download(ctx, clientcli.DownloadOptions{
				FileID:     up.FileID,
				CryptKey:   up.Crypt(),
				OutputPath: out,
			})
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(out, "report.pdf"), down.Path)

			got, err := os.ReadFile(down.Path)
			require.NoError(t, err)
			assert.Equal(t, "%PDF-1.4 quarterly numbers", string(got))

			del, err := c.Delete(ctx, clientcli.DeleteOptions{FileID: up.FileID, DeleteKey: up.DeleteKey})
			require.NoError(t, err)
			assert.Equal(t, jirafeau.StatusSuccess, del.Status)

			again, err := c.Delete(ctx, clientcli.DeleteOptions{FileID: up.FileID, DeleteKey: up.DeleteKey})
			require.ErrorIs(t, err, jirafeau.ErrNotFound)
			assert.Equal(t, jirafeau.StatusNotFound, again.Status)

			gone, err := c.Download(ctx, clientcli.DownloadOptions{FileID: up.FileID, CryptKey: up.Crypt(), OutputPath: t.TempDir()})
			require.ErrorIs(t, err, jirafeau.ErrNotFound)
			assert.Equal(t, jirafeau.StatusNotFound, gone.Status)
		})
	}
}

func TestRoundTrip_OneTimeDownload(t *testing.T) {
	ctx := context.Background()
	_, srv := jirafeautest.NewTestServer(t, jirafeautest.Options{})
	c := newClient(t, srv.URL)

	src := writeFile(t, t.TempDir(), "once.txt", "read me once")
	up, err := c.Upload(ctx, clientcli.UploadOptions{LocalPath: src, OneTimeDownload: true})
	require.NoError(t, err)

	first, err := c.Download(ctx, clientcli.DownloadOptions{FileID: up.FileID, OutputPath: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, jirafeau.StatusSuccess, first.Status)

	dir := t.TempDir()
	second, err := c.Download(ctx, clientcli.DownloadOptions{FileID: up.FileID, OutputPath: dir})
	require.ErrorIs(t, err, jirafeau.ErrNotFound)
	assert.Equal(t, jirafeau.StatusNotFound, second.Status)
	assert.Empty(t, listDir(t, dir))
}

func TestRoundTrip_AccessKey(t *testing.T) {
	ctx := context.Background()
	_, srv := jirafeautest.NewTestServer(t, jirafeautest.Options{})
	c := newClient(t, srv.URL)

	src := writeFile(t, t.TempDir(), "guarded.txt", "guarded")
	up, err := c.Upload(ctx, clientcli.UploadOptions{LocalPath: src, Key: "door"})
	require.NoError(t, err)

	dir := t.TempDir()
	denied, err := c.Download(ctx, clientcli.DownloadOptions{FileID: up.FileID, OutputPath: dir})
	require.Error(t, err)
	assert.Equal(t, jirafeau.StatusError, denied.Status)
	assert.Empty(t, listDir(t, dir))

	ok, err := c.Download(ctx, clientcli.DownloadOptions{FileID: up.FileID, Key: "door", OutputPath: dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "guarded.txt"), ok.Path)
}

func TestRoundTrip_UploadPassword(t *testing.T) {
	ctx := context.Background()
	stub, srv := jirafeautest.NewTestServer(t, jirafeautest.Options{UploadPassword: "letmein"})
	src := writeFile(t, t.TempDir(), "a.txt", "a")

	rejected, err := newClient(t, srv.URL).Upload(ctx, clientcli.UploadOptions{LocalPath: src})
	require.ErrorIs(t, err, jirafeau.ErrMalformedResponse)
	assert.Equal(t, jirafeau.StatusError, rejected.Status)
	assert.Zero(t, stub.Len())

	c, err := clientcli.New(&clientcli.Config{Host: srv.URL, UploadPassword: "letmein"})
	require.NoError(t, err)
	accepted, err := c.Upload(ctx, clientcli.UploadOptions{LocalPath: src})
	require.NoError(t, err)
	assert.True(t, stub.Has(accepted.FileID))
}

func TestRoundTrip_ConcurrentCalls(t *testing.T) {
	ctx := context.Background()
	stub, srv := jirafeautest.NewTestServer(t, jirafeautest.Options{})
	c := newClient(t, srv.URL)
	dir := t.TempDir()

	const n = 8
	errs := make(chan error, n)
	for i := range n {
		src := writeFile(t, dir, "f"+string(rune('a'+i))+".txt", "content")
		go func() {
			_, err := c.Upload(ctx, clientcli.UploadOptions{LocalPath: src})
			errs <- err
		}()
	}
	for range n {
		require.NoError(t, <-errs)
	}
	assert.Equal(t, n, stub.Len())
}
