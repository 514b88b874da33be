package provider

import (
	"context"
	"fmt"
	"strings"

	"apibridge/config"
	"apibridge/model"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicDefaultBaseURL = "https://api.anthropic.com"

// AnthropicHandler implements model.Handler using the official Anthropic SDK.
type AnthropicHandler struct {
	client anthropic.Client
	model  anthropic.Model
	info   model.ModelInfo
}

// NewAnthropicHandler creates a handler from api_key, anthropic_base_url and
// api_model_id. Returns an error if the API key is missing.
func NewAnthropicHandler(options config.ApiConfiguration) (*AnthropicHandler, error) {
	apiKey := config.Value(options.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	client := anthropic.NewClient(
		option.WithBaseURL(config.ValueOr(options.AnthropicBaseURL, anthropicDefaultBaseURL)),
		option.WithAPIKey(apiKey),
	)

	return &AnthropicHandler{
		client: client,
		model:  anthropic.Model(config.ValueOr(options.APIModelID, string(anthropic.ModelClaudeSonnet4_5_20250929))),
		info:   model.AnthropicDefaultModelInfo,
	}, nil
}

func (h *AnthropicHandler) GetModel() model.ModelDescriptor {
	return model.ModelDescriptor{
		ID:   string(h.model),
		Info: h.info,
	}
}

func (h *AnthropicHandler) newParams(systemPrompt string, messages []anthropic.MessageParam) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:       h.model,
		Messages:    messages,
		MaxTokens:   int64(h.info.MaxTokens),
		Temperature: anthropic.Float(0),
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}
	return params
}

// CreateMessage streams text deltas, then one usage chunk built from the
// accumulated message.
func (h *AnthropicHandler) CreateMessage(ctx context.Context, systemPrompt string, messages []model.Message) model.Stream {
	return func(yield func(model.StreamChunk, error) bool) {
		params := h.newParams(systemPrompt, ConvertToAnthropicMessages(messages))

		stream := h.client.Messages.NewStreaming(ctx, params)
		defer stream.Close()

		msg := anthropic.Message{}
		for stream.Next() {
			event := stream.Current()
			if err := msg.Accumulate(event); err != nil {
				yield(model.StreamChunk{}, fmt.Errorf("error accumulating message: %w", err))
				return
			}

			switch eventVariant := event.AsAny().(type) {
			case anthropic.ContentBlockDeltaEvent:
				switch deltaVariant := eventVariant.Delta.AsAny().(type) {
				case anthropic.TextDelta:
					if deltaVariant.Text == "" {
						continue
					}
					if !yield(model.TextChunk(deltaVariant.Text), nil) {
						return
					}
				}
			}
		}

		if err := stream.Err(); err != nil {
			yield(model.StreamChunk{}, fmt.Errorf("Anthropic streaming error: %w", err))
			return
		}

		yield(model.StreamChunk{
			Type:         model.ChunkTypeUsage,
			InputTokens:  msg.Usage.InputTokens,
			OutputTokens: msg.Usage.OutputTokens,
		}, nil)
	}
}

// CompletePrompt implements model.SingleCompletionHandler.
func (h *AnthropicHandler) CompletePrompt(ctx context.Context, prompt string) (string, error) {
	params := h.newParams("", []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
	})

	resp, err := h.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("Anthropic completion error: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return text.String(), nil
}
