package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/sagarc03/jirafeau/clientcli"
	"github.com/sagarc03/jirafeau/config"
	"github.com/spf13/cobra"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Manage server profiles",
	Long: `Manage server profiles.

Profiles save the host and upload password of Jirafeau servers so they can
be selected with --profile or JIRAFEAU_PROFILE.

Profiles are stored in ~/.jirafeau/profiles.yaml (override with --profiles).`,
}

var configureListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configured profiles",
	Long: `List all configured profiles.

The default profile is marked with an asterisk (*).`,
	RunE: runConfigureList,
}

var configureAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new profile",
	Long: `Add a new profile interactively.

You will be prompted for:
  - Host URL
  - Upload password (leave empty if the server has none)
  - Whether to set as default

The host is contacted before saving.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigureAdd,
}

var configureRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a profile",
	Args:    cobra.ExactArgs(1),
	RunE:    runConfigureRemove,
}

var configureSetDefaultCmd = &cobra.Command{
	Use:   "set-default <name>",
	Short: "Set the default profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigureSetDefault,
}

var configureShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show profile details",
	Long: `Show details for a profile.

If no name is provided, shows the default profile.
Upload passwords are hidden unless --show-secrets is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigureShow,
}

var showSecrets bool

func init() {
	configureCmd.AddCommand(configureListCmd)
	configureCmd.AddCommand(configureAddCmd)
	configureCmd.AddCommand(configureRemoveCmd)
	configureCmd.AddCommand(configureSetDefaultCmd)
	configureCmd.AddCommand(configureShowCmd)

	configureShowCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "show upload passwords")
	configureListCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "show upload passwords")
}

// profilesFor returns the profiles path selected for cmd and the file's
// contents. A missing file yields empty profiles.
func profilesFor(cmd *cobra.Command) (*config.Config, string, *clientcli.Profiles, error) {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return nil, "", nil, err
	}

	path := cfg.Profiles
	if path == "" {
		path = clientcli.DefaultProfilesPath()
	}

	profiles, err := clientcli.LoadProfiles(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, path, &clientcli.Profiles{}, nil
	}
	if err != nil {
		return nil, "", nil, fmt.Errorf("load profiles: %w", err)
	}
	return cfg, path, profiles, nil
}

func runConfigureList(cmd *cobra.Command, _ []string) error {
	cfg, _, profiles, err := profilesFor(cmd)
	if err != nil {
		return err
	}

	out := newOutput(cmd, cfg)
	if len(profiles.Profiles) == 0 && !out.json {
		_, _ = fmt.Fprintln(out.stdout, "No profiles configured.")
		_, _ = fmt.Fprintln(out.stdout, "Run 'jirafeau-cli configure add <name>' to create one.")
		return nil
	}

	return out.formatter.FormatProfileList(out.stdout, profiles.Profiles, profiles.DefaultName(), showSecrets)
}

func runConfigureAdd(cmd *cobra.Command, args []string) error {
	name := args[0]
	_, path, profiles, err := profilesFor(cmd)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	existing, _ := profiles.GetProfile(name)
	if existing != nil {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("Profile '%s' already exists. Update it", name),
			IsConfirm: true,
		}
		if _, promptErr := prompt.Run(); promptErr != nil {
			_, _ = fmt.Fprintln(w, "Cancelled.")
			return nil //nolint:nilerr // User cancelled, not an error
		}
	}

	hostPrompt := promptui.Prompt{
		Label: "Host URL",
		Validate: func(input string) error {
			_, err := clientcli.NormalizeHost(input)
			return err
		},
	}
	if existing != nil {
		hostPrompt.Default = existing.Host
	}
	rawHost, err := hostPrompt.Run()
	if err != nil {
		return handlePromptError(w, err)
	}
	host, err := clientcli.NormalizeHost(rawHost)
	if err != nil {
		return err
	}

	passwordPrompt := promptui.Prompt{
		Label: "Upload password (empty for none)",
		Mask:  '*',
	}
	password, err := passwordPrompt.Run()
	if err != nil {
		return handlePromptError(w, err)
	}

	setAsDefault := len(profiles.Profiles) == 0 || (existing != nil && existing.Default)
	if !setAsDefault {
		defaultPrompt := promptui.Prompt{
			Label:     "Set as default profile",
			IsConfirm: true,
		}
		if _, promptErr := defaultPrompt.Run(); promptErr == nil {
			setAsDefault = true
		}
	}

	_, _ = fmt.Fprint(w, "Testing connection... ")
	if connErr := testServerConnection(cmd.Context(), host); connErr != nil {
		_, _ = fmt.Fprintln(w, "FAILED")
		_, _ = fmt.Fprintf(w, "Warning: Could not connect to server: %v\n", connErr)

		continuePrompt := promptui.Prompt{
			Label:     "Save profile anyway",
			IsConfirm: true,
		}
		if _, promptErr := continuePrompt.Run(); promptErr != nil {
			_, _ = fmt.Fprintln(w, "Cancelled.")
			return nil //nolint:nilerr // User cancelled, not an error
		}
	} else {
		_, _ = fmt.Fprintln(w, "OK")
	}

	profile := clientcli.Profile{
		Name:           name,
		Host:           host,
		UploadPassword: password,
		Default:        setAsDefault,
	}

	if existing != nil {
		err = profiles.UpdateProfile(profile)
	} else {
		err = profiles.AddProfile(profile)
	}
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	if err := profiles.Save(path); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}

	if existing != nil {
		_, _ = fmt.Fprintf(w, "Profile '%s' updated.\n", name)
	} else {
		_, _ = fmt.Fprintf(w, "Profile '%s' added.\n", name)
	}
	if setAsDefault {
		_, _ = fmt.Fprintln(w, "Set as default profile.")
	}

	return nil
}

func runConfigureRemove(cmd *cobra.Command, args []string) error {
	name := args[0]
	_, path, profiles, err := profilesFor(cmd)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	if _, err = profiles.GetProfile(name); err != nil {
		return err
	}

	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("Remove profile '%s'", name),
		IsConfirm: true,
	}
	if _, promptErr := prompt.Run(); promptErr != nil {
		_, _ = fmt.Fprintln(w, "Cancelled.")
		return nil //nolint:nilerr // User cancelled, not an error
	}

	if err := profiles.RemoveProfile(name); err != nil {
		return fmt.Errorf("remove profile: %w", err)
	}

	if err := profiles.Save(path); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}

	_, _ = fmt.Fprintf(w, "Profile '%s' removed.\n", name)
	return nil
}

func runConfigureSetDefault(cmd *cobra.Command, args []string) error {
	name := args[0]
	_, path, profiles, err := profilesFor(cmd)
	if err != nil {
		return err
	}

	if err := profiles.SetDefault(name); err != nil {
		return err
	}

	if err := profiles.Save(path); err != nil {
		return fmt.Errorf("save profiles: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Default profile set to '%s'.\n", name)
	return nil
}

func runConfigureShow(cmd *cobra.Command, args []string) error {
	cfg, _, profiles, err := profilesFor(cmd)
	if err != nil {
		return err
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	p, err := profiles.GetProfile(name)
	if err != nil {
		return err
	}

	out := newOutput(cmd, cfg)
	return out.formatter.FormatProfileShow(out.stdout, *p, p.Name == profiles.DefaultName(), showSecrets)
}

// testServerConnection checks that host answers HTTP at all. Any status
// counts as reachable.
func testServerConnection(ctx context.Context, host string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, host+"/", http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	_ = resp.Body.Close()
	return nil
}

// handlePromptError maps promptui aborts to a clean exit.
func handlePromptError(w io.Writer, err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) {
		_, _ = fmt.Fprintln(w, "Cancelled.")
		return nil
	}
	return err
}
