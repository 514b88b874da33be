package model

import (
	"context"
	"iter"
)

// Handler abstracts one LLM provider behind a provider-agnostic streaming call.
//
// This interface is defined in the model package (not provider package) so the
// CLI and tests can depend on it without importing every provider SDK.
type Handler interface {
	// CreateMessage sends the system prompt and conversation and returns the
	// response as a lazy stream. Nothing is sent until the stream is ranged
	// over; every range issues a new request.
	CreateMessage(ctx context.Context, systemPrompt string, messages []Message) Stream

	// GetModel returns the model identifier and metadata used for requests.
	GetModel() ModelDescriptor
}

// SingleCompletionHandler is implemented by handlers that support a one-shot,
// non-streaming completion.
type SingleCompletionHandler interface {
	CompletePrompt(ctx context.Context, prompt string) (string, error)
}

// ModelLister is implemented by handlers whose backend can enumerate models.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// Stream is a finite, in-order sequence of response chunks. A non-nil error
// is always the last element.
type Stream = iter.Seq2[StreamChunk, error]

// ChunkType tags a StreamChunk.
type ChunkType string

const (
	ChunkTypeText  ChunkType = "text"
	ChunkTypeUsage ChunkType = "usage"
)

// StreamChunk is one incremental unit of model output.
type StreamChunk struct {
	Type ChunkType
	Text string

	// Set on ChunkTypeUsage only.
	InputTokens  int64
	OutputTokens int64
}

// TextChunk builds a text chunk.
func TextChunk(text string) StreamChunk {
	return StreamChunk{Type: ChunkTypeText, Text: text}
}

// ErrorStream returns a stream that yields err and nothing else.
func ErrorStream(err error) Stream {
	return func(yield func(StreamChunk, error) bool) {
		yield(StreamChunk{}, err)
	}
}

// Collect drains a stream, concatenating its text chunks. It stops at the
// first error and returns the text gathered so far along with it.
func Collect(stream Stream) (string, error) {
	var text string
	for chunk, err := range stream {
		if err != nil {
			return text, err
		}
		if chunk.Type == ChunkTypeText {
			text += chunk.Text
		}
	}
	return text, nil
}
