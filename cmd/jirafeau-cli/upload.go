package main

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sagarc03/jirafeau/clientcli"
	"github.com/spf13/cobra"
)

var uploadKey string

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a file and print its share links",
	Long: `Upload a file to the server.

The server answers with a file id and a delete key; the share links are
built from them. With --key the file can only be downloaded by giving the
same key. When the server encrypts uploads a crypt key is printed too and
must be passed to download.

Lifetimes: minute, hour, day, week, fortnight, month, quarter, year, none.

Examples:
  jirafeau-cli upload ./report.pdf
  jirafeau-cli upload -t day -o ./secret.txt
  jirafeau-cli upload -r --json ./photo.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	flags := uploadCmd.Flags()
	flags.StringP("time", "t", "", "lifetime of the file (default from settings: month)")
	flags.BoolP("one-time-download", "o", false, "delete the file after its first download")
	flags.StringVarP(&uploadKey, "key", "k", "", "access key required to download")
	flags.StringP("upload-password", "u", "", "upload password (env: JIRAFEAU_UPLOAD_PASSWORD)")
	flags.BoolP("randomised-name", "r", false, "upload under a random name keeping the extension")
}

func runUpload(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	opts := clientcli.UploadOptions{
		LocalPath:       args[0],
		Time:            s.cfg.Upload.Time,
		UploadPassword:  s.cfg.UploadPassword,
		OneTimeDownload: s.cfg.Upload.OneTimeDownload,
		Key:             uploadKey,
	}
	if s.cfg.Upload.RandomisedName {
		opts.Filename = randomName(args[0])
	}

	outcome, err := s.client.Upload(cmd.Context(), opts)
	if err != nil {
		return s.fail("upload", err)
	}

	return s.formatter.FormatUpload(s.stdout, s.client.Host(), outcome)
}

// randomName returns nine random hex characters followed by the
// extension of path.
func randomName(path string) string {
	stem := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return stem + filepath.Ext(path)
}
