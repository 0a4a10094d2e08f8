package main

import (
	"github.com/sagarc03/jirafeau/clientcli"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <file-id> <delete-key>",
	Aliases: []string{"rm"},
	Short:   "Delete a file from the server",
	Long: `Delete a file using the delete key printed at upload.

Deleting a file that is already gone exits with status 2.

Example:
  jirafeau-cli delete a1b2c3d4 0123456789abcdef`,
	Args: cobra.ExactArgs(2),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	outcome, err := s.client.Delete(cmd.Context(), clientcli.DeleteOptions{
		FileID:    args[0],
		DeleteKey: args[1],
	})
	if err != nil {
		return s.fail("delete", err)
	}

	return s.formatter.FormatDelete(s.stdout, outcome)
}
