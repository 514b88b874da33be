package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"apibridge/config"
)

// errSilentFailure makes the process exit non-zero without printing an error.
var errSilentFailure = errors.New("silent failure")

type rootOptions struct {
	settingsPath string
	provider     string
	noHistory    bool

	cfg *config.Config
}

// NewRootCmd builds the apibridge command tree.
func NewRootCmd(version string) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "apibridge",
		Short: "Chat with a local AnythingLLM server and other LLM backends",
		Long: `apibridge forwards conversations to an LLM backend and streams the reply
into the terminal.

Supported providers:
  anythingllm  - AnythingLLM OpenAI-compatible endpoint (default)
  openai       - OpenAI or any OpenAI-compatible server (LM Studio, vLLM)
  ollama       - Ollama native API
  anthropic    - Anthropic Messages API (requires an API key)`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.settingsPath, "config", "c", "", "settings file (default ~/.config/apibridge/settings.toml)")
	rootCmd.PersistentFlags().StringVarP(&opts.provider, "provider", "p", "", "provider override (anythingllm, openai, ollama, anthropic)")
	rootCmd.PersistentFlags().BoolVar(&opts.noHistory, "no-history", false, "do not record this exchange")

	rootCmd.AddCommand(
		newCheckCmd(opts),
		newChatCmd(opts),
		newCompleteCmd(opts),
		newModelsCmd(opts),
		newCredentialsCmd(opts),
		newHistoryCmd(opts),
		newMCPCmd(opts, version),
	)

	return rootCmd
}

func (o *rootOptions) load() error {
	config.Debug = config.CheckDebug()

	cfg, err := config.Load(o.settingsPath)
	if err != nil {
		return err
	}
	config.InitDebugLog(cfg.DataDir())

	if o.provider != "" {
		cfg.API.APIProvider = config.String(o.provider)
	}
	o.cfg = cfg
	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute(version string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd(version).ExecuteContext(ctx); err != nil {
		stop()
		if !errors.Is(err, errSilentFailure) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
