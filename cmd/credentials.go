package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"apibridge/config"
)

func newCredentialsCmd(opts *rootOptions) *cobra.Command {
	credentialsCmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage stored provider secrets",
		Long: `Manage provider secrets kept outside settings.toml.

Keys are the settings names of the secrets (api_key, openai_api_key,
anythingllm_api_key, ...). With security = "ssh_key" the file is encrypted.

Examples:
  apibridge credentials                           # List stored keys
  apibridge credentials set openai_api_key sk-... # Store a key
  apibridge credentials delete openai_api_key     # Remove a key`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, key := range opts.cfg.CredentialStore.Keys() {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a secret",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := opts.cfg.CredentialStore
			if err := store.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := store.Save(opts.cfg.DataDir()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s successfully.\n", args[0])
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:     "delete <key>",
		Aliases: []string{"remove", "unset"},
		Short:   "Remove a secret",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := opts.cfg.CredentialStore
			store.Delete(args[0])
			if err := store.Save(opts.cfg.DataDir()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", args[0])
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show how secrets are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := opts.cfg.CredentialStore
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "security: %s\n", store.Method())
			if store.Method() != config.SecuritySSHKey {
				return nil
			}

			keyPath := store.SSHKeyPath()
			if keyPath == "" {
				fmt.Fprintln(out, "ssh key:  none (run: apibridge credentials keygen)")
				return nil
			}
			encrypted, err := config.IsSSHKeyEncrypted(keyPath)
			if err != nil {
				return err
			}
			protection := "no passphrase"
			if encrypted {
				protection = "passphrase protected, set APIBRIDGE_SSH_PASSPHRASE"
			}
			fmt.Fprintf(out, "ssh key:  %s (%s)\n", keyPath, protection)
			return nil
		},
	}

	var passphrase string
	keygenCmd := &cobra.Command{
		Use:   "keygen",
		Short: "Create an ed25519 key in ~/.ssh for encrypting secrets",
		Long: `Create an ed25519 key in ~/.ssh for encrypting secrets.

Use it by setting in settings.toml:
  security = "ssh_key"
  ssh_key_path = "<printed path>"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keyPath, err := config.CreateKey(passphrase)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), keyPath)
			return nil
		},
	}
	keygenCmd.Flags().StringVar(&passphrase, "passphrase", "", "protect the key with a passphrase")

	credentialsCmd.AddCommand(setCmd, deleteCmd, statusCmd, keygenCmd)
	return credentialsCmd
}
