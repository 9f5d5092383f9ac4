package ai

import (
	"encoding/json"
	"fmt"
)

// Block type constants
const (
	BlockTypeText  = "text"
	BlockTypeImage = "image"
)

// AllowedImageMediaTypes is the allow-list for image block payloads.
var AllowedImageMediaTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
}

// ImageSource holds a base64-encoded image payload with its declared media type.
type ImageSource struct {
	Type      string `json:"type"` // always "base64"
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// ContentBlock is one element of a block-list message content.
// Exactly one of Text or Source is meaningful, selected by Type.
type ContentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *ImageSource `json:"source,omitempty"`
}

// MessageContent is the content of one turn: either a plain string or an
// ordered list of typed blocks. The wire format mirrors the provider's
// messages API, so a client can submit either shape and replayed history
// round-trips byte-for-byte through the jsonb column.
type MessageContent struct {
	// Text holds the content when the client submitted a plain string.
	Text string
	// Blocks holds the content when the client submitted a block list.
	Blocks []ContentBlock
	// IsBlocks distinguishes an empty block list from a plain string.
	IsBlocks bool
}

// TextContent wraps a plain string as MessageContent.
func TextContent(text string) MessageContent {
	return MessageContent{Text: text}
}

// BlockContent wraps a block list as MessageContent.
func BlockContent(blocks []ContentBlock) MessageContent {
	return MessageContent{Blocks: blocks, IsBlocks: true}
}

// PlainText flattens the content to text: the string itself, or the
// concatenation of all text blocks (image blocks contribute nothing).
func (c MessageContent) PlainText() string {
	if !c.IsBlocks {
		return c.Text
	}
	var out string
	for _, b := range c.Blocks {
		if b.Type == BlockTypeText {
			out += b.Text
		}
	}
	return out
}

// IsEmpty reports whether the content has no string and no blocks.
func (c MessageContent) IsEmpty() bool {
	if c.IsBlocks {
		return len(c.Blocks) == 0
	}
	return c.Text == ""
}

// MarshalJSON emits the original wire shape: a JSON string or a block array.
func (c MessageContent) MarshalJSON() ([]byte, error) {
	if c.IsBlocks {
		return json.Marshal(c.Blocks)
	}
	return json.Marshal(c.Text)
}

// UnmarshalJSON accepts either a JSON string or an array of typed blocks.
func (c *MessageContent) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Text = s
		c.Blocks = nil
		c.IsBlocks = false
		return nil
	}

	var blocks []ContentBlock
	if err := json.Unmarshal(data, &blocks); err != nil {
		return fmt.Errorf("content must be a string or an array of blocks")
	}
	c.Text = ""
	c.Blocks = blocks
	c.IsBlocks = true
	return nil
}
