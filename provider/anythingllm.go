package provider

import (
	"context"
	"errors"
	"strings"

	"apibridge/config"
	"apibridge/model"

	"github.com/google/uuid"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	anythingLLMDefaultBaseURL = "http://localhost:3001"

	// AnythingLLM does not authenticate local requests, but the client
	// always sends a bearer token.
	anythingLLMPlaceholderKey = "noop"
)

// ErrAnythingLLM is returned for every AnythingLLM failure. The server does
// not return an error code or body, so the cause is only written to the debug
// log.
var ErrAnythingLLM = errors.New("Please check the AnythingLLM developer logs to debug what went wrong. You may need to load the model with a larger context length to work with Roo Code's prompts.")

// AnythingLLMHandler talks to a local AnythingLLM server through its
// OpenAI-compatible endpoint ({base}/api/v1/openai).
type AnythingLLMHandler struct {
	options config.ApiConfiguration
	client  openai.Client
	baseURL string
}

// NewAnythingLLMHandler creates a handler for the server at
// options.AnythingLLMBaseURL (default "http://localhost:3001"). It never fails;
// connection problems surface on the first request.
func NewAnythingLLMHandler(options config.ApiConfiguration) *AnythingLLMHandler {
	baseURL := strings.TrimRight(config.ValueOr(options.AnythingLLMBaseURL, anythingLLMDefaultBaseURL), "/") + "/api/v1"

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(anythingLLMPlaceholderKey),
		option.WithMaxRetries(0),
	)

	return &AnythingLLMHandler{
		options: options,
		client:  client,
		baseURL: baseURL,
	}
}

// BaseURL returns the API root the client is bound to ({base}/api/v1).
func (h *AnythingLLMHandler) BaseURL() string {
	return h.baseURL
}

// openAIRoute rebases a request onto the OpenAI-compatible sub-tree, so the
// SDK's "chat/completions" resolves to {base}/api/v1/openai/chat/completions.
func (h *AnythingLLMHandler) openAIRoute() option.RequestOption {
	return option.WithBaseURL(h.baseURL + "/openai/")
}

// GetModel returns the configured workspace slug (or "") with the sane
// OpenAI defaults; AnythingLLM does not report model metadata.
func (h *AnythingLLMHandler) GetModel() model.ModelDescriptor {
	return model.ModelDescriptor{
		ID:   config.Value(h.options.AnythingLLMModelID),
		Info: model.OpenAIModelInfoSaneDefaults,
	}
}

// CreateMessage streams a chat completion. Deltas without content are
// skipped; any transport or decoding error ends the stream with
// ErrAnythingLLM.
func (h *AnythingLLMHandler) CreateMessage(ctx context.Context, systemPrompt string, messages []model.Message) model.Stream {
	return func(yield func(model.StreamChunk, error) bool) {
		requestID := uuid.NewString()
		openaiMessages := append(
			[]openai.ChatCompletionMessageParamUnion{openai.SystemMessage(systemPrompt)},
			ConvertToOpenAIMessages(messages)...,
		)

		params := openai.ChatCompletionNewParams{
			Model:       openai.ChatModel(h.GetModel().ID),
			Messages:    openaiMessages,
			Temperature: openai.Float(0),
		}

		config.Debugf("[AnythingLLM] %s: streaming %d messages to %s (model %q)", requestID, len(openaiMessages), h.baseURL, params.Model)

		stream := h.client.Chat.Completions.NewStreaming(ctx, params, h.openAIRoute())
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			content := chunk.Choices[0].Delta.Content
			if content == "" {
				continue
			}
			if !yield(model.TextChunk(content), nil) {
				return
			}
		}

		if err := stream.Err(); err != nil {
			config.Debugf("[AnythingLLM] %s: stream failed: %v", requestID, err)
			yield(model.StreamChunk{}, ErrAnythingLLM)
		}
	}
}

// CompletePrompt sends prompt as a single user message without streaming and
// returns the first choice's content, or "" when there is none.
func (h *AnythingLLMHandler) CompletePrompt(ctx context.Context, prompt string) (string, error) {
	requestID := uuid.NewString()
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(h.GetModel().ID),
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		Temperature: openai.Float(0),
	}

	resp, err := h.client.Chat.Completions.New(ctx, params, h.openAIRoute(), option.WithJSONSet("stream", false))
	if err != nil {
		config.Debugf("[AnythingLLM] %s: completion failed: %v", requestID, err)
		return "", ErrAnythingLLM
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// ListModels returns the workspace slugs the server exposes as models.
func (h *AnythingLLMHandler) ListModels(ctx context.Context) ([]string, error) {
	page, err := h.client.Models.List(ctx, h.openAIRoute())
	if err != nil {
		config.Debugf("[AnythingLLM] list models failed: %v", err)
		return nil, ErrAnythingLLM
	}

	ids := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		ids = append(ids, m.ID)
	}
	return ids, nil
}
