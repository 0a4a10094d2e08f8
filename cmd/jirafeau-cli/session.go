package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sagarc03/jirafeau"
	"github.com/sagarc03/jirafeau/clientcli"
	"github.com/sagarc03/jirafeau/config"
	"github.com/spf13/cobra"
)

// session bundles what a command needs to talk to one server and report
// the result.
type session struct {
	cfg       *config.Config
	client    *clientcli.Client
	formatter clientcli.Formatter
	json      bool
	stdout    io.Writer
	stderr    io.Writer
}

// newSession resolves the server and builds a client for cmd.
func newSession(cmd *cobra.Command, opts ...clientcli.Option) (*session, error) {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return nil, err
	}

	s := newOutput(cmd, cfg)

	resolved, err := resolveClientConfig(cfg)
	if err != nil {
		return s, s.fail("", err)
	}

	opts = append([]clientcli.Option{
		clientcli.WithTimeout(cfg.Timeout),
		clientcli.WithLogger(slog.Default()),
	}, opts...)

	client, err := clientcli.New(resolved, opts...)
	if err != nil {
		return s, s.fail("", err)
	}
	s.client = client
	return s, nil
}

// newOutput picks the formatter for cmd without touching the server.
func newOutput(cmd *cobra.Command, cfg *config.Config) *session {
	stdout := cmd.OutOrStdout()
	jsonOut := cfg.Output.JSON || !isTerminal(stdout)
	return &session{
		cfg: cfg,
		formatter: clientcli.NewFormatter(clientcli.FormatOptions{
			JSON:  jsonOut,
			Quiet: cfg.Output.Quiet,
			Color: useColor(cfg.Output.Color, stdout),
		}),
		json:   jsonOut,
		stdout: stdout,
		stderr: cmd.ErrOrStderr(),
	}
}

// resolveClientConfig merges the selected profile with the host and
// upload password from settings, env and flags. Profiles are skipped
// when a host is given without --profile.
func resolveClientConfig(cfg *config.Config) (*clientcli.Config, error) {
	direct := &clientcli.Config{Host: cfg.Host, UploadPassword: cfg.UploadPassword}
	if cfg.Host != "" && cfg.Profile == "" {
		return direct, nil
	}

	path := cfg.Profiles
	if path == "" {
		path = clientcli.DefaultProfilesPath()
	}

	profiles, err := clientcli.LoadProfiles(path)
	if errors.Is(err, os.ErrNotExist) {
		profiles = &clientcli.Profiles{}
	} else if err != nil {
		return nil, err
	}

	profile, err := profiles.GetProfile(cfg.Profile)
	if errors.Is(err, clientcli.ErrNoProfiles) {
		return nil, fmt.Errorf("%w: use --host, JIRAFEAU_HOST or 'jirafeau-cli configure add'", jirafeau.ErrHostRequired)
	}
	if err != nil {
		return nil, err
	}

	return clientcli.MergeConfig(clientcli.ConfigFromProfile(profile), direct), nil
}

// fail reports err in the selected output mode and returns the exitError
// matching its status.
func (s *session) fail(op string, err error) error {
	if s.json {
		_ = s.formatter.FormatError(s.stdout, err)
	} else {
		_, _ = fmt.Fprintf(s.stderr, "Error: %s\n", clientcli.Describe(op, err))
	}

	code := 1
	if jirafeau.StatusOf(err) == jirafeau.StatusNotFound {
		code = 2
	}
	return &exitError{code: code}
}

func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		_, noColor := os.LookupEnv("NO_COLOR")
		return !noColor && isTerminal(w)
	}
}
