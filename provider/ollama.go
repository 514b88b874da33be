package provider

import (
	"context"
	"errors"
	"fmt"

	"apibridge/config"
	"apibridge/model"
	"apibridge/ollama"

	"github.com/ollama/ollama/api"
)

// errStopStream aborts the Ollama response callback when the consumer stops
// ranging over the stream.
var errStopStream = errors.New("stream consumer stopped")

// OllamaHandler wraps ollama.Client to implement model.Handler.
type OllamaHandler struct {
	client *ollama.Client
	model  string
}

// NewOllamaHandler creates a handler for options.OllamaBaseURL (default
// "http://localhost:11434") and options.OllamaModelID.
//
// Returns an error if the base URL cannot be parsed.
func NewOllamaHandler(options config.ApiConfiguration) (*OllamaHandler, error) {
	client, err := ollama.NewClient(config.Value(options.OllamaBaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}

	return &OllamaHandler{
		client: client,
		model:  config.Value(options.OllamaModelID),
	}, nil
}

func (h *OllamaHandler) GetModel() model.ModelDescriptor {
	return model.ModelDescriptor{
		ID:   h.model,
		Info: model.OpenAIModelInfoSaneDefaults,
	}
}

// CreateMessage streams an Ollama chat. The final response carries token
// counts, which are yielded as a usage chunk.
func (h *OllamaHandler) CreateMessage(ctx context.Context, systemPrompt string, messages []model.Message) model.Stream {
	return func(yield func(model.StreamChunk, error) bool) {
		ollamaMessages := ConvertToOllamaMessages(systemPrompt, messages)

		err := h.client.Chat(ctx, h.model, ollamaMessages, func(resp api.ChatResponse) error {
			if resp.Message.Content != "" {
				if !yield(model.TextChunk(resp.Message.Content), nil) {
					return errStopStream
				}
			}
			if resp.Done {
				usage := model.StreamChunk{
					Type:         model.ChunkTypeUsage,
					InputTokens:  int64(resp.PromptEvalCount),
					OutputTokens: int64(resp.EvalCount),
				}
				if !yield(usage, nil) {
					return errStopStream
				}
			}
			return nil
		})

		if err != nil && !errors.Is(err, errStopStream) {
			yield(model.StreamChunk{}, fmt.Errorf("Ollama streaming error: %w", err))
		}
	}
}

// CompletePrompt implements model.SingleCompletionHandler.
func (h *OllamaHandler) CompletePrompt(ctx context.Context, prompt string) (string, error) {
	reply, err := h.client.Generate(ctx, h.model, []api.Message{{Role: model.RoleUser, Content: prompt}})
	if err != nil {
		return "", fmt.Errorf("Ollama completion error: %w", err)
	}
	return reply, nil
}

// ListModels implements model.ModelLister.
func (h *OllamaHandler) ListModels(ctx context.Context) ([]string, error) {
	return h.client.ListModels(ctx)
}
