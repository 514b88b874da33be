package testutil

import (
	"context"

	"apibridge/model"
)

// MockHandler implements model.Handler, model.SingleCompletionHandler and
// model.ModelLister for testing
type MockHandler struct {
	CreateMessageFunc  func(ctx context.Context, systemPrompt string, messages []model.Message) model.Stream
	CompletePromptFunc func(ctx context.Context, prompt string) (string, error)
	ListModelsFunc     func(ctx context.Context) ([]string, error)

	Model model.ModelDescriptor
}

// NewMockHandler creates a mock handler that streams the given chunks.
func NewMockHandler(modelID string, chunks ...string) *MockHandler {
	mock := &MockHandler{
		Model: model.ModelDescriptor{ID: modelID, Info: model.OpenAIModelInfoSaneDefaults},
	}
	mock.CreateMessageFunc = func(ctx context.Context, systemPrompt string, messages []model.Message) model.Stream {
		return TextStream(chunks...)
	}
	mock.CompletePromptFunc = func(ctx context.Context, prompt string) (string, error) {
		var out string
		for _, c := range chunks {
			out += c
		}
		return out, nil
	}
	mock.ListModelsFunc = func(ctx context.Context) ([]string, error) {
		return []string{modelID}, nil
	}
	return mock
}

func (m *MockHandler) CreateMessage(ctx context.Context, systemPrompt string, messages []model.Message) model.Stream {
	return m.CreateMessageFunc(ctx, systemPrompt, messages)
}

func (m *MockHandler) GetModel() model.ModelDescriptor {
	return m.Model
}

func (m *MockHandler) CompletePrompt(ctx context.Context, prompt string) (string, error) {
	return m.CompletePromptFunc(ctx, prompt)
}

func (m *MockHandler) ListModels(ctx context.Context) ([]string, error) {
	return m.ListModelsFunc(ctx)
}

// TextStream returns a stream yielding one text chunk per argument.
func TextStream(texts ...string) model.Stream {
	return func(yield func(model.StreamChunk, error) bool) {
		for _, t := range texts {
			if !yield(model.TextChunk(t), nil) {
				return
			}
		}
	}
}
