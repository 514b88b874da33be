package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"apibridge/config"
	"apibridge/model"
	"apibridge/storage"
)

func (o *rootOptions) openHistory() (*storage.HistoryStorage, error) {
	return storage.NewHistoryStorage(o.cfg.DataDir())
}

// record stores ex unless history is disabled. Failures are only logged.
func (o *rootOptions) record(ctx context.Context, ex *storage.Exchange) {
	if o.noHistory {
		return
	}
	hs, err := o.openHistory()
	if err != nil {
		config.Debugf("[History] Failed to open history: %v", err)
		return
	}
	defer hs.Close()

	if err := hs.Record(context.WithoutCancel(ctx), ex); err != nil {
		config.Debugf("[History] %v", err)
		return
	}
	config.Debugf("[History] Recorded exchange %s", ex.ID)
}

// lookupExchange resolves "last" or an exchange id.
func (o *rootOptions) lookupExchange(ctx context.Context, ref string) (*storage.Exchange, error) {
	hs, err := o.openHistory()
	if err != nil {
		return nil, err
	}
	defer hs.Close()

	if ref == "last" {
		return hs.Last(ctx)
	}
	return hs.Get(ctx, ref)
}

// priorTurns replays an earlier exchange as conversation context.
func priorTurns(ex *storage.Exchange) []model.Message {
	if ex == nil {
		return nil
	}
	return []model.Message{
		model.TextMessage(model.RoleUser, ex.Prompt),
		model.TextMessage(model.RoleAssistant, ex.Response),
	}
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recent exchanges",
		Long: `List recent exchanges, newest first.

Examples:
  apibridge history                 # Last 20 exchanges
  apibridge history show last       # Full prompt and reply
  apibridge chat --continue last "and in Rust?"
  apibridge history clear`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hs, err := opts.openHistory()
			if err != nil {
				return err
			}
			defer hs.Close()

			exchanges, err := hs.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, ex := range exchanges {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s/%s  %s\n",
					ex.ID[:8], ex.CreatedAt.Format("2006-01-02 15:04"), ex.Provider, ex.Model, summarize(ex.Prompt, 50))
			}
			return nil
		},
	}
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of exchanges to show")

	showCmd := &cobra.Command{
		Use:   "show <id|last>",
		Short: "Print one exchange",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex, err := opts.lookupExchange(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "id:       %s\nmodel:    %s/%s\ntokens:   %d in / %d out\n", ex.ID, ex.Provider, ex.Model, ex.InputTokens, ex.OutputTokens)
			if ex.SystemPrompt != "" {
				fmt.Fprintf(out, "system:   %s\n", ex.SystemPrompt)
			}
			fmt.Fprintf(out, "\n> %s\n\n%s\n", ex.Prompt, ex.Response)
			if ex.Error != "" {
				fmt.Fprintf(out, "\nerror: %s\n", ex.Error)
			}
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded exchanges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hs, err := opts.openHistory()
			if err != nil {
				return err
			}
			defer hs.Close()

			n, err := hs.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d exchanges.\n", n)
			return nil
		},
	}

	historyCmd.AddCommand(showCmd, clearCmd)
	return historyCmd
}

// summarize flattens s onto one line and cuts it to max runes.
func summarize(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// errorText is the stored form of a stream error.
func errorText(err error) string {
	if err == nil || errors.Is(err, context.Canceled) {
		return ""
	}
	return err.Error()
}
