package cmd

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"apibridge/config"
	"apibridge/model"
	"apibridge/provider"
	"apibridge/storage"
	"apibridge/ui"
)

type chatOptions struct {
	systemPrompt string
	model        string
	images       []string
	continueFrom string
	copy         bool
	plain        bool
}

// reply is what one streamed exchange produced.
type reply struct {
	text         string
	inputTokens  int64
	outputTokens int64
}

func newChatCmd(opts *rootOptions) *cobra.Command {
	chatOpts := &chatOptions{}

	cmd := &cobra.Command{
		Use:   "chat [prompt]",
		Short: "Send a prompt and stream the reply",
		Long: `Send a prompt and stream the reply. The prompt is read from stdin when no
argument is given.

Examples:
  apibridge chat "Explain goroutines"
  apibridge chat --model qwen --system "Answer in one line" "What is Go?"
  git diff | apibridge chat --plain`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := readPrompt(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			api, err := resolveModel(cmd.Context(), opts.cfg.API, chatOpts.model)
			if err != nil {
				return err
			}
			h, err := provider.BuildHandler(api)
			if err != nil {
				return err
			}

			msg, err := buildUserMessage(prompt, chatOpts.images)
			if err != nil {
				return err
			}

			var messages []model.Message
			if chatOpts.continueFrom != "" {
				prior, err := opts.lookupExchange(cmd.Context(), chatOpts.continueFrom)
				if err != nil {
					return fmt.Errorf("cannot continue from %s: %w", chatOpts.continueFrom, err)
				}
				messages = priorTurns(prior)
			}
			messages = append(messages, msg)

			var r reply
			if chatOpts.plain {
				r, err = streamPlain(cmd, h, chatOpts.systemPrompt, messages)
			} else {
				r, err = streamView(cmd, h, chatOpts.systemPrompt, messages)
			}

			opts.record(cmd.Context(), &storage.Exchange{
				Provider:     string(provider.ProviderOf(api)),
				Model:        h.GetModel().ID,
				SystemPrompt: chatOpts.systemPrompt,
				Prompt:       prompt,
				Response:     r.text,
				InputTokens:  r.inputTokens,
				OutputTokens: r.outputTokens,
				Error:        errorText(err),
			})
			if err != nil {
				return err
			}

			if chatOpts.copy {
				if err := ui.CopyToClipboard(r.text); err != nil {
					return err
				}
				config.Debugf("[CLI] Copied %d chars to clipboard", len(r.text))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&chatOpts.systemPrompt, "system", "s", "", "system prompt")
	cmd.Flags().StringVarP(&chatOpts.model, "model", "m", "", "model to use (fuzzy matched against the provider's models)")
	cmd.Flags().StringSliceVarP(&chatOpts.images, "image", "i", nil, "image file to attach (repeatable)")
	cmd.Flags().StringVar(&chatOpts.continueFrom, "continue", "", "continue from a recorded exchange (id or \"last\")")
	cmd.Flags().BoolVar(&chatOpts.copy, "copy", false, "copy the reply to the clipboard")
	cmd.Flags().BoolVar(&chatOpts.plain, "plain", false, "print raw text without the terminal view")

	return cmd
}

func newCompleteCmd(opts *rootOptions) *cobra.Command {
	var modelQuery string

	cmd := &cobra.Command{
		Use:   "complete [prompt]",
		Short: "Run a single non-streaming completion",
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := readPrompt(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			api, err := resolveModel(cmd.Context(), opts.cfg.API, modelQuery)
			if err != nil {
				return err
			}
			h, err := provider.BuildHandler(api)
			if err != nil {
				return err
			}

			completer, ok := h.(model.SingleCompletionHandler)
			if !ok {
				return fmt.Errorf("%T does not support single completions", h)
			}

			text, err := completer.CompletePrompt(cmd.Context(), prompt)
			opts.record(cmd.Context(), &storage.Exchange{
				Provider: string(provider.ProviderOf(api)),
				Model:    h.GetModel().ID,
				Prompt:   prompt,
				Response: text,
				Error:    errorText(err),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&modelQuery, "model", "m", "", "model to use (fuzzy matched against the provider's models)")
	return cmd
}

// readPrompt joins args, or reads stdin when there are none.
func readPrompt(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt: %w", err)
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", errors.New("no prompt given")
	}
	return prompt, nil
}

// buildUserMessage creates the user turn, attaching each image file inline.
func buildUserMessage(prompt string, imagePaths []string) (model.Message, error) {
	msg := model.TextMessage(model.RoleUser, prompt)

	for _, path := range imagePaths {
		data, err := os.ReadFile(config.ExpandPath(path))
		if err != nil {
			return model.Message{}, fmt.Errorf("failed to read image: %w", err)
		}
		mediaType := http.DetectContentType(data)
		if !strings.HasPrefix(mediaType, "image/") {
			return model.Message{}, fmt.Errorf("%s is not an image (%s)", path, mediaType)
		}
		msg.Content = append(msg.Content, model.ContentBlock{
			Type: model.BlockTypeImage,
			Source: &model.ImageSource{
				MediaType: mediaType,
				Data:      base64.StdEncoding.EncodeToString(data),
			},
		})
	}

	return msg, nil
}

func streamPlain(cmd *cobra.Command, h model.Handler, systemPrompt string, messages []model.Message) (reply, error) {
	out := cmd.OutOrStdout()
	var r reply
	var text strings.Builder

	for chunk, err := range h.CreateMessage(cmd.Context(), systemPrompt, messages) {
		if err != nil {
			fmt.Fprintln(out)
			r.text = text.String()
			return r, err
		}
		switch chunk.Type {
		case model.ChunkTypeText:
			text.WriteString(chunk.Text)
			fmt.Fprint(out, chunk.Text)
		case model.ChunkTypeUsage:
			r.inputTokens, r.outputTokens = chunk.InputTokens, chunk.OutputTokens
			config.Debugf("[CLI] Usage: %d input, %d output tokens", chunk.InputTokens, chunk.OutputTokens)
		}
	}
	fmt.Fprintln(out)

	r.text = text.String()
	return r, nil
}

func streamView(cmd *cobra.Command, h model.Handler, systemPrompt string, messages []model.Message) (reply, error) {
	view, err := ui.Run(cmd.Context(), h, systemPrompt, messages)
	if err != nil {
		return reply{}, err
	}
	r := reply{text: view.Response()}
	r.inputTokens, r.outputTokens = view.Usage()
	return r, view.Err()
}
