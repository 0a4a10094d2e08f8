package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sagarc03/jirafeau/config"
	"github.com/spf13/cobra"
)

var (
	version = "dev"

	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:     "jirafeau-cli",
	Version: version,
	Short:   "Client for Jirafeau file sharing servers",
	Long: `jirafeau-cli uploads, downloads and deletes files on a Jirafeau server.

The server is chosen with --host, JIRAFEAU_HOST, the settings file
(~/.jirafeau/config.yaml) or a profile from ~/.jirafeau/profiles.yaml,
in that order.

Exit codes:
  0  success
  1  error
  2  file not found`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var files []string
		if cfgFile != "" {
			files = []string{cfgFile}
		}

		cfg, err := config.Load(files, cmd.Flags())
		if err != nil {
			return err
		}

		setupLogging(cfg.Log, os.Stderr)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "settings file (default: ~/.jirafeau/config.yaml)")
	flags.StringP("host", "H", "", "server URL (env: JIRAFEAU_HOST)")
	flags.StringP("profile", "p", "", "profile name (env: JIRAFEAU_PROFILE)")
	flags.String("profiles", "", "profiles file (default: ~/.jirafeau/profiles.yaml, env: JIRAFEAU_PROFILES)")
	flags.Bool("json", false, "output as JSON")
	flags.BoolP("quiet", "q", false, "suppress non-essential output")
	flags.String("color", "auto", "colour output: auto, always, never")
	flags.String("log-level", "warn", "log level: debug, info, warn, error")
	flags.String("log-format", "text", "log format: text, json")
	flags.Duration("timeout", 0, "per-request timeout, 0 for none (default from settings: 30m)")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(configureCmd)
}

// exitError carries the process exit code for a failed command whose
// message has already been printed.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err == nil {
		return
	}

	var exit *exitError
	if errors.As(err, &exit) {
		os.Exit(exit.code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
