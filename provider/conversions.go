package provider

import (
	"encoding/base64"

	"apibridge/config"
	"apibridge/model"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"
)

// ConvertToOpenAIMessages converts conversation messages to OpenAI chat
// messages.
//
// Text-only messages become plain string content. User messages carrying
// images become content-part arrays with the images inlined as data URLs.
// Assistant messages keep their text only; the chat API does not accept
// images from the assistant role.
func ConvertToOpenAIMessages(messages []model.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case model.RoleAssistant:
			result = append(result, openai.AssistantMessage(msg.Text()))
		default:
			if !msg.HasImages() {
				result = append(result, openai.UserMessage(msg.Text()))
				continue
			}
			result = append(result, openai.UserMessage(openAIContentParts(msg.Content)))
		}
	}

	return result
}

func openAIContentParts(blocks []model.ContentBlock) []openai.ChatCompletionContentPartUnionParam {
	parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(blocks))
	for _, block := range blocks {
		switch block.Type {
		case model.BlockTypeText:
			parts = append(parts, openai.TextContentPart(block.Text))
		case model.BlockTypeImage:
			if block.Source == nil {
				continue
			}
			parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL: "data:" + block.Source.MediaType + ";base64," + block.Source.Data,
			}))
		}
	}
	return parts
}

// ConvertToOllamaMessages converts conversation messages to Ollama messages,
// prefixed with a system message when systemPrompt is non-empty. Images are
// decoded from base64; undecodable images are dropped.
func ConvertToOllamaMessages(systemPrompt string, messages []model.Message) []api.Message {
	result := make([]api.Message, 0, len(messages)+1)
	if systemPrompt != "" {
		result = append(result, api.Message{Role: "system", Content: systemPrompt})
	}

	for _, msg := range messages {
		out := api.Message{
			Role:    msg.Role,
			Content: msg.Text(),
		}
		if out.Role != model.RoleAssistant {
			out.Role = model.RoleUser
		}

		for _, block := range msg.Content {
			if block.Type != model.BlockTypeImage || block.Source == nil {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(block.Source.Data)
			if err != nil {
				config.Debugf("[Ollama] Dropping undecodable image: %v", err)
				continue
			}
			out.Images = append(out.Images, api.ImageData(data))
		}

		result = append(result, out)
	}

	return result
}

// ConvertToAnthropicMessages converts conversation messages to Anthropic
// message params. The system prompt travels separately in MessageNewParams.
func ConvertToAnthropicMessages(messages []model.Message) []anthropic.MessageParam {
	result := make([]anthropic.MessageParam, 0, len(messages))

	for _, msg := range messages {
		blocks := make([]anthropic.ContentBlockParamUnion, 0, len(msg.Content))
		for _, block := range msg.Content {
			switch block.Type {
			case model.BlockTypeText:
				blocks = append(blocks, anthropic.NewTextBlock(block.Text))
			case model.BlockTypeImage:
				if block.Source == nil {
					continue
				}
				blocks = append(blocks, anthropic.NewImageBlockBase64(block.Source.MediaType, block.Source.Data))
			}
		}

		if msg.Role == model.RoleAssistant {
			result = append(result, anthropic.NewAssistantMessage(blocks...))
		} else {
			result = append(result, anthropic.NewUserMessage(blocks...))
		}
	}

	return result
}
