package testutil

import "apibridge/model"

// TestMessages returns a sample conversation for testing
func TestMessages() []model.Message {
	return []model.Message{
		model.TextMessage(model.RoleUser, "Hello, how are you?"),
		model.TextMessage(model.RoleAssistant, "I'm doing well, thank you!"),
		model.TextMessage(model.RoleUser, "Can you help me with a task?"),
	}
}

// SingleUserMessage returns a single user message for simple tests
func SingleUserMessage(content string) []model.Message {
	return []model.Message{model.TextMessage(model.RoleUser, content)}
}

// ImageMessage returns a user message with a caption and a 1x1 PNG.
func ImageMessage(caption string) model.Message {
	return model.Message{
		Role: model.RoleUser,
		Content: []model.ContentBlock{
			{Type: model.BlockTypeText, Text: caption},
			{Type: model.BlockTypeImage, Source: &model.ImageSource{
				MediaType: "image/png",
				Data:      TinyPNG,
			}},
		},
	}
}

// TinyPNG is a base64 encoded 1x1 transparent PNG.
const TinyPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="
