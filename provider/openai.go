package provider

import (
	"context"
	"fmt"

	"apibridge/config"
	"apibridge/model"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	openAIDefaultBaseURL = "https://api.openai.com/v1"
	openAIDefaultModel   = "gpt-4o-mini"
)

// OpenAIHandler implements model.Handler for any OpenAI-compatible endpoint
// (OpenAI itself, LM Studio, vLLM, ...).
type OpenAIHandler struct {
	client  openai.Client
	model   string
	baseURL string
}

// NewOpenAIHandler creates a handler from the openai_* settings.
//
// Defaults: base URL "https://api.openai.com/v1", model "gpt-4o-mini". An API
// key is required for the default endpoint; custom endpoints may omit it.
func NewOpenAIHandler(options config.ApiConfiguration) (*OpenAIHandler, error) {
	baseURL := config.ValueOr(options.OpenAiBaseURL, openAIDefaultBaseURL)
	apiKey := config.Value(options.OpenAiAPIKey)
	if apiKey == "" {
		if baseURL == openAIDefaultBaseURL {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		apiKey = "not-needed"
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &OpenAIHandler{
		client:  client,
		model:   config.ValueOr(options.OpenAiModelID, openAIDefaultModel),
		baseURL: baseURL,
	}, nil
}

func (h *OpenAIHandler) GetModel() model.ModelDescriptor {
	return model.ModelDescriptor{
		ID:   h.model,
		Info: model.OpenAIModelInfoSaneDefaults,
	}
}

// CreateMessage streams a chat completion, yielding text deltas and a final
// usage chunk when the endpoint reports one.
func (h *OpenAIHandler) CreateMessage(ctx context.Context, systemPrompt string, messages []model.Message) model.Stream {
	return func(yield func(model.StreamChunk, error) bool) {
		params := openai.ChatCompletionNewParams{
			Model: openai.ChatModel(h.model),
			Messages: append(
				[]openai.ChatCompletionMessageParamUnion{openai.SystemMessage(systemPrompt)},
				ConvertToOpenAIMessages(messages)...,
			),
			Temperature: openai.Float(0),
			StreamOptions: openai.ChatCompletionStreamOptionsParam{
				IncludeUsage: openai.Bool(true),
			},
		}

		stream := h.client.Chat.Completions.NewStreaming(ctx, params)
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()

			if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
				if !yield(model.TextChunk(chunk.Choices[0].Delta.Content), nil) {
					return
				}
			}

			if chunk.Usage.TotalTokens > 0 {
				usage := model.StreamChunk{
					Type:         model.ChunkTypeUsage,
					InputTokens:  chunk.Usage.PromptTokens,
					OutputTokens: chunk.Usage.CompletionTokens,
				}
				if !yield(usage, nil) {
					return
				}
			}
		}

		if err := stream.Err(); err != nil {
			yield(model.StreamChunk{}, fmt.Errorf("OpenAI streaming error: %w", err))
		}
	}
}

// CompletePrompt implements model.SingleCompletionHandler.
func (h *OpenAIHandler) CompletePrompt(ctx context.Context, prompt string) (string, error) {
	resp, err := h.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(h.model),
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI completion error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// ListModels implements model.ModelLister.
func (h *OpenAIHandler) ListModels(ctx context.Context) ([]string, error) {
	page, err := h.client.Models.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list OpenAI models: %w", err)
	}

	ids := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}
