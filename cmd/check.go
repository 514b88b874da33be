package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"apibridge/config"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report whether any provider key is configured",
		Long: `Prints true when at least one known provider key is present in the loaded
configuration (an empty value counts as present), false otherwise. Exits with
status 1 when false.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ok := config.CheckExistKey(&opts.cfg.API)
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			if !ok {
				return errSilentFailure
			}
			return nil
		},
	}
}
