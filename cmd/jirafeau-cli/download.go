package main

import (
	"github.com/sagarc03/jirafeau/clientcli"
	"github.com/sagarc03/jirafeau/config"
	"github.com/spf13/cobra"
)

var (
	downloadKey      string
	downloadCryptKey string
	downloadOutput   string
)

var downloadCmd = &cobra.Command{
	Use:   "download <file-id>",
	Short: "Download a file",
	Long: `Download a file by its id.

Without --output the file is saved in the current directory under the
name the server sends. When --output names an existing directory the file
is saved inside it; otherwise --output is the file path.

Examples:
  jirafeau-cli download a1b2c3d4
  jirafeau-cli download -o /tmp/ a1b2c3d4
  jirafeau-cli download -k secret -c 9f8e7d6c a1b2c3d4`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadKey, "key", "k", "", "access key set at upload")
	downloadCmd.Flags().StringVarP(&downloadCryptKey, "crypt-key", "c", "", "crypt key printed at upload")
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "output file or directory")
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	var opts []clientcli.Option
	var bar *progress
	if !cfg.Output.JSON && !cfg.Output.Quiet && isTerminal(cmd.ErrOrStderr()) {
		bar = newProgress(cmd.ErrOrStderr())
		opts = append(opts, clientcli.WithProgress(bar.update))
	}

	s, err := newSession(cmd, opts...)
	if err != nil {
		return err
	}

	outcome, err := s.client.Download(cmd.Context(), clientcli.DownloadOptions{
		FileID:     args[0],
		OutputPath: downloadOutput,
		Key:        downloadKey,
		CryptKey:   downloadCryptKey,
	})
	bar.done()
	if err != nil {
		return s.fail("download", err)
	}

	return s.formatter.FormatDownload(s.stdout, outcome)
}
