package e2e_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sagarc03/jirafeau/jirafeautest"
	"github.com/stretchr/testify/require"
)

var (
	binaryPath     string
	binaryBuildErr error
	binaryOnce     sync.Once
	sharedTempDir  string
)

// TestMain sets up and tears down shared test resources.
func TestMain(m *testing.M) {
	var err error
	sharedTempDir, err = os.MkdirTemp("", "jirafeau-e2e-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()

	if containerCleanup != nil {
		containerCleanup()
	}
	_ = os.RemoveAll(sharedTempDir)

	os.Exit(code)
}

// buildBinary compiles the jirafeau-cli binary once per test run.
func buildBinary(t *testing.T) string {
	t.Helper()

	binaryOnce.Do(func() {
		binaryPath = filepath.Join(sharedTempDir, "jirafeau-cli")

		cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/jirafeau-cli")
		cmd.Dir = getProjectRoot(t)
		output, err := cmd.CombinedOutput()
		if err != nil {
			binaryBuildErr = fmt.Errorf("build binary: %w\nOutput: %s", err, output)
			return
		}
	})

	if binaryBuildErr != nil {
		t.Fatalf("failed to build binary: %v", binaryBuildErr)
	}

	return binaryPath
}

// getProjectRoot returns the directory holding go.mod.
func getProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err, "get working directory")

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// cli runs the binary against one stub server with an isolated HOME.
type cli struct {
	t    *testing.T
	bin  string
	host string
	home string
	dir  string
	env  []string
}

// result is one finished CLI invocation.
type result struct {
	Stdout string
	Stderr string
	Code   int
}

// newCLI starts a stub server and returns a runner pointed at it.
func newCLI(t *testing.T, opts jirafeautest.Options) (*cli, *jirafeautest.Server) {
	t.Helper()

	if opts.Dir == "" {
		opts.Dir = t.TempDir()
	}
	stub, ts := jirafeautest.NewTestServer(t, opts)

	return newRunner(t, ts.URL), stub
}

// newRunner returns a runner pointed at any Jirafeau host.
func newRunner(t *testing.T, host string) *cli {
	t.Helper()

	return &cli{
		t:    t,
		bin:  buildBinary(t),
		host: host,
		home: t.TempDir(),
		dir:  t.TempDir(),
	}
}

// run executes the CLI in c.dir. Stdout is a pipe, so output is JSON
// unless a test asks otherwise.
func (c *cli) run(args ...string) result {
	c.t.Helper()

	cmd := exec.Command(c.bin, args...)
	cmd.Dir = c.dir
	cmd.Env = append([]string{
		"HOME=" + c.home,
		"PATH=" + os.Getenv("PATH"),
		"JIRAFEAU_HOST=" + c.host,
	}, c.env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	code := 0
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	} else {
		require.NoError(c.t, err, "run %v", args)
	}

	return result{Stdout: stdout.String(), Stderr: stderr.String(), Code: code}
}

// decode parses r.Stdout as JSON into v.
func (r result) decode(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(r.Stdout), v), "stdout: %s\nstderr: %s", r.Stdout, r.Stderr)
}

// uploadReply mirrors the JSON printed by the upload command.
type uploadReply struct {
	Host            string `json:"host"`
	FileURL         string `json:"file_url"`
	FilePreviewURL  string `json:"file_preview_url"`
	FileDownloadURL string `json:"file_download_url"`
	FileDeleteURL   string `json:"file_delete_url"`
	FileID          string `json:"file_id"`
	DeleteKey       string `json:"delete_key"`
	CryptKey        string `json:"crypt_key"`
	Status          string `json:"status"`
}

// writeFile creates a file under dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
