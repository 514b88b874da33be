package cmd

import (
	"github.com/spf13/cobra"

	"apibridge/mcp"
	"apibridge/provider"
)

func newMCPCmd(opts *rootOptions, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the configured provider as MCP tools over stdio",
		Long: `Serve the configured provider to MCP clients over stdin/stdout.

Tools:
  chat         - send a prompt (and optional system prompt), return the reply
  list_models  - list the backend's models`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := provider.BuildHandler(opts.cfg.API)
			if err != nil {
				return err
			}
			return mcp.NewServer(h, version).ServeStdio()
		},
	}
}
