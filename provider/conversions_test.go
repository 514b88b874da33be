package provider

import (
	"encoding/json"
	"testing"

	"apibridge/model"
	"apibridge/provider/testutil"

	"github.com/anthropics/anthropic-sdk-go"
)

// asJSON marshals v and decodes it back into a generic map, which is how the
// request body reaches the server.
func asJSON(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	return out
}

func TestConvertToOpenAIMessages(t *testing.T) {
	tests := []struct {
		name      string
		input     []model.Message
		wantRoles []string
		wantText  []string
	}{
		{
			name:      "empty slice",
			input:     []model.Message{},
			wantRoles: []string{},
			wantText:  []string{},
		},
		{
			name:      "conversation",
			input:     testutil.TestMessages(),
			wantRoles: []string{"user", "assistant", "user"},
			wantText:  []string{"Hello, how are you?", "I'm doing well, thank you!", "Can you help me with a task?"},
		},
		{
			name: "multiple text blocks are joined",
			input: []model.Message{{
				Role: model.RoleUser,
				Content: []model.ContentBlock{
					{Type: model.BlockTypeText, Text: "first"},
					{Type: model.BlockTypeText, Text: "second"},
				},
			}},
			wantRoles: []string{"user"},
			wantText:  []string{"first\n\nsecond"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertToOpenAIMessages(tt.input)
			if len(result) != len(tt.wantRoles) {
				t.Fatalf("length mismatch: got %d, want %d", len(result), len(tt.wantRoles))
			}
			for i, msg := range result {
				got := asJSON(t, msg)
				if got["role"] != tt.wantRoles[i] {
					t.Errorf("message %d role: got %v, want %q", i, got["role"], tt.wantRoles[i])
				}
				if got["content"] != tt.wantText[i] {
					t.Errorf("message %d content: got %v, want %q", i, got["content"], tt.wantText[i])
				}
			}
		})
	}
}

func TestConvertToOpenAIMessages_Images(t *testing.T) {
	result := ConvertToOpenAIMessages([]model.Message{testutil.ImageMessage("What is this?")})
	if len(result) != 1 {
		t.Fatalf("got %d messages, want 1", len(result))
	}

	got := asJSON(t, result[0])
	parts, ok := got["content"].([]any)
	if !ok || len(parts) != 2 {
		t.Fatalf("content = %v, want two parts", got["content"])
	}

	text := parts[0].(map[string]any)
	if text["type"] != "text" || text["text"] != "What is this?" {
		t.Errorf("text part = %v", text)
	}

	image := parts[1].(map[string]any)
	if image["type"] != "image_url" {
		t.Errorf("image part type = %v", image["type"])
	}
	url, _ := image["image_url"].(map[string]any)["url"].(string)
	if url != "data:image/png;base64,"+testutil.TinyPNG {
		t.Errorf("image url = %q", url)
	}
}

func TestConvertToOllamaMessages(t *testing.T) {
	tests := []struct {
		name         string
		systemPrompt string
		input        []model.Message
		wantRoles    []string
	}{
		{
			name:      "empty slice",
			input:     []model.Message{},
			wantRoles: []string{},
		},
		{
			name:         "system prompt first",
			systemPrompt: "Be brief.",
			input:        testutil.SingleUserMessage("Hi"),
			wantRoles:    []string{"system", "user"},
		},
		{
			name:      "unknown role becomes user",
			input:     []model.Message{model.TextMessage("tool", "output")},
			wantRoles: []string{"user"},
		},
		{
			name:      "conversation",
			input:     testutil.TestMessages(),
			wantRoles: []string{"user", "assistant", "user"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertToOllamaMessages(tt.systemPrompt, tt.input)
			if len(result) != len(tt.wantRoles) {
				t.Fatalf("length mismatch: got %d, want %d", len(result), len(tt.wantRoles))
			}
			for i, msg := range result {
				if msg.Role != tt.wantRoles[i] {
					t.Errorf("message %d role: got %q, want %q", i, msg.Role, tt.wantRoles[i])
				}
			}
		})
	}
}

func TestConvertToOllamaMessages_Images(t *testing.T) {
	bad := testutil.ImageMessage("broken")
	bad.Content[1].Source.Data = "%%% not base64"

	result := ConvertToOllamaMessages("", []model.Message{testutil.ImageMessage("look"), bad})

	if len(result[0].Images) != 1 {
		t.Errorf("valid image: got %d images, want 1", len(result[0].Images))
	}
	if result[0].Content != "look" {
		t.Errorf("content = %q, want caption only", result[0].Content)
	}
	if len(result[1].Images) != 0 {
		t.Errorf("undecodable image should be dropped, got %d", len(result[1].Images))
	}
}

func TestConvertToAnthropicMessages(t *testing.T) {
	input := append(testutil.TestMessages()[:2], testutil.ImageMessage("describe"))
	result := ConvertToAnthropicMessages(input)

	if len(result) != 3 {
		t.Fatalf("got %d messages, want 3", len(result))
	}

	wantRoles := []anthropic.MessageParamRole{
		anthropic.MessageParamRoleUser,
		anthropic.MessageParamRoleAssistant,
		anthropic.MessageParamRoleUser,
	}
	for i, msg := range result {
		if msg.Role != wantRoles[i] {
			t.Errorf("message %d role: got %q, want %q", i, msg.Role, wantRoles[i])
		}
	}

	if text := result[0].Content[0].OfText; text == nil || text.Text != "Hello, how are you?" {
		t.Errorf("first block = %+v", result[0].Content[0])
	}

	blocks := result[2].Content
	if len(blocks) != 2 {
		t.Fatalf("image message has %d blocks, want 2", len(blocks))
	}
	if blocks[1].OfImage == nil {
		t.Error("second block should be an image")
	}
}
