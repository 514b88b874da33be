package model

// Message roles accepted in a conversation. The system prompt is passed
// separately to Handler.CreateMessage, never as a Message.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Content block types.
const (
	BlockTypeText  = "text"
	BlockTypeImage = "image"
)

// Message is one role-tagged turn of a conversation.
//
// Content is an ordered list of blocks; handlers translate it into their
// provider's wire shape (see the Convert* functions in the provider package).
type Message struct {
	Role    string
	Content []ContentBlock
}

// ContentBlock is a single piece of message content.
type ContentBlock struct {
	Type   string
	Text   string       // BlockTypeText
	Source *ImageSource // BlockTypeImage
}

// ImageSource holds inline base64 image data.
type ImageSource struct {
	MediaType string // e.g. "image/png"
	Data      string // base64, no data: prefix
}

// TextMessage is a shorthand for a message holding a single text block.
func TextMessage(role, text string) Message {
	return Message{
		Role:    role,
		Content: []ContentBlock{{Type: BlockTypeText, Text: text}},
	}
}

// Text concatenates the text blocks of the message, separated by blank lines.
// Image blocks are ignored.
func (m Message) Text() string {
	var out string
	for _, block := range m.Content {
		if block.Type != BlockTypeText {
			continue
		}
		if out != "" {
			out += "\n\n"
		}
		out += block.Text
	}
	return out
}

// HasImages reports whether any block of the message is an image.
func (m Message) HasImages() bool {
	for _, block := range m.Content {
		if block.Type == BlockTypeImage && block.Source != nil {
			return true
		}
	}
	return false
}
