package jirafeautest_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sagarc03/jirafeau/jirafeautest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upload(t *testing.T, base string, fields map[string]string, name, content string) (int, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if name != "" {
		fw, err := mw.CreateFormFile("file", name)
		require.NoError(t, err)
		_, err = io.WriteString(fw, content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	resp, err := http.Post(base+"/script.php", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func get(t *testing.T, rawURL string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(rawURL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestServer_UploadDownloadDelete(t *testing.T) {
	stub, srv := jirafeautest.NewTestServer(t, jirafeautest.Options{})

	status, body := upload(t, srv.URL, map[string]string{"time": "week"}, "hello.txt", "hello world")
	require.Equal(t, http.StatusOK, status)

	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 2)
	id, deleteKey := lines[0], lines[1]
	assert.True(t, stub.Has(id))

	resp, content := get(t, srv.URL+"/f.php?h="+id+"&d=1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="hello.txt"`, resp.Header.Get("Content-Disposition"))
	assert.Equal(t, "hello world", content)

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	require.NoError(t, mw.WriteField("do_delete", "1"))
	require.NoError(t, mw.Close())

	delResp, err := http.Post(srv.URL+"/f.php?h="+id+"&d="+deleteKey, mw.FormDataContentType(), &form)
	require.NoError(t, err)
	delBody, _ := io.ReadAll(delResp.Body)
	_ = delResp.Body.Close()
	assert.Contains(t, string(delBody), "File has been deleted")
	assert.False(t, stub.Has(id))

	resp, content = get(t, srv.URL+"/f.php?h="+id+"&d=1")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, content, "file is not found")
}

func TestServer_UploadPassword(t *testing.T) {
	stub, srv := jirafeautest.NewTestServer(t, jirafeautest.Options{UploadPassword: "letmein"})

	_, body := upload(t, srv.URL, nil, "a.txt", "a")
	assert.Equal(t, "Error 2: Invalid password.", body)
	assert.Equal(t, 0, stub.Len())

	_, body = upload(t, srv.URL, map[string]string{"upload_password": "letmein"}, "a.txt", "a")
	assert.Len(t, strings.Split(strings.TrimSpace(body), "\n"), 2)
	assert.Equal(t, 1, stub.Len())
}

func TestServer_RejectsUnknownTime(t *testing.T) {
	_, srv := jirafeautest.NewTestServer(t, jirafeautest.Options{})

	_, body := upload(t, srv.URL, map[string]string{"time": "decade"}, "a.txt", "a")
	assert.True(t, strings.HasPrefix(body, "Error"))
}

func TestServer_MissingFile(t *testing.T) {
	_, srv := jirafeautest.NewTestServer(t, jirafeautest.Options{})

	_, body := upload(t, srv.URL, map[string]string{"time": "day"}, "", "")
	assert.True(t, strings.HasPrefix(body, "Error 1"))
}

func TestServer_EncryptedUploadNeedsCryptKey(t *testing.T) {
	_, srv := jirafeautest.NewTestServer(t, jirafeautest.Options{Encrypt: true})

	_, body := upload(t, srv.URL, nil, "secret.bin", "classified")
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 3)

	resp, _ := get(t, srv.URL+"/f.php?h="+lines[0]+"&d=1")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, content := get(t, srv.URL+"/f.php?h="+lines[0]+"&d=1&k="+url.QueryEscape(lines[2]))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "classified", content)
}

func TestServer_AccessKey(t *testing.T) {
	_, srv := jirafeautest.NewTestServer(t, jirafeautest.Options{})

	_, body := upload(t, srv.URL, map[string]string{"key": "pw"}, "a.txt", "guarded")
	id := strings.Split(body, "\n")[0]

	resp, _ := get(t, srv.URL+"/f.php?h="+id+"&d=1")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	postResp, err := http.PostForm(srv.URL+"/f.php?h="+id+"&d=1", url.Values{"key": {"pw"}})
	require.NoError(t, err)
	content, _ := io.ReadAll(postResp.Body)
	_ = postResp.Body.Close()
	assert.Equal(t, http.StatusOK, postResp.StatusCode)
	assert.Equal(t, "guarded", string(content))
}

func TestServer_OneTimeDownload(t *testing.T) {
	stub, srv := jirafeautest.NewTestServer(t, jirafeautest.Options{})

	_, body := upload(t, srv.URL, map[string]string{"one_time_download": "1"}, "once.txt", "once")
	id := strings.Split(body, "\n")[0]

	resp, content := get(t, srv.URL+"/f.php?h="+id+"&d=1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "once", content)
	assert.False(t, stub.Has(id))

	_, content = get(t, srv.URL+"/f.php?h="+id+"&d=1")
	assert.Contains(t, content, "file is not found")
}

func TestServer_Expiry(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var elapsed atomic.Int64
	clock := func() time.Time { return start.Add(time.Duration(elapsed.Load())) }
	stub, srv := jirafeautest.NewTestServer(t, jirafeautest.Options{Now: clock})

	_, body := upload(t, srv.URL, map[string]string{"time": "minute"}, "short.txt", "brief")
	id := strings.Split(body, "\n")[0]
	require.True(t, stub.Has(id))

	elapsed.Store(int64(2 * time.Minute))

	resp, content := get(t, srv.URL+"/f.php?h="+id+"&d=1")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, content, "file is not found")
	assert.False(t, stub.Has(id))
}

func TestServer_WrongDeleteKey(t *testing.T) {
	stub, srv := jirafeautest.NewTestServer(t, jirafeautest.Options{})

	_, body := upload(t, srv.URL, nil, "keep.txt", "keep")
	id := strings.Split(body, "\n")[0]

	resp, err := http.PostForm(srv.URL+"/f.php?h="+id+"&d=nope", url.Values{"do_delete": {"1"}})
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.True(t, stub.Has(id))
}

func TestNew_RequiresDir(t *testing.T) {
	_, err := jirafeautest.New(jirafeautest.Options{})
	require.Error(t, err)
}
