package ai

import (
	"strings"
	"testing"

	"heartline/internal/config"
	aimodels "heartline/internal/domain/models/ai"
)

func userTurn(text string) aimodels.ChatTurn {
	return aimodels.ChatTurn{Role: aimodels.RoleUser, Content: aimodels.TextContent(text)}
}

func TestValidateChatRequest(t *testing.T) {
	maxTokens := func(n int) *int { return &n }
	temp := func(f float64) *float64 { return &f }

	tests := []struct {
		name    string
		req     ChatRequest
		wantErr bool
	}{
		{
			name: "minimal valid request",
			req:  ChatRequest{Messages: []aimodels.ChatTurn{userTurn("hi")}},
		},
		{
			name: "full valid request",
			req: ChatRequest{
				Messages:    []aimodels.ChatTurn{userTurn("hi")},
				Mode:        "relationship_coach",
				MaxTokens:   maxTokens(2048),
				Temperature: temp(0.7),
			},
		},
		{
			name:    "no messages",
			req:     ChatRequest{},
			wantErr: true,
		},
		{
			name: "too many messages",
			req: ChatRequest{
				Messages: make([]aimodels.ChatTurn, config.MaxMessagesPerRequest+1),
			},
			wantErr: true,
		},
		{
			name: "invalid role",
			req: ChatRequest{
				Messages: []aimodels.ChatTurn{{Role: "system", Content: aimodels.TextContent("hi")}},
			},
			wantErr: true,
		},
		{
			name: "max tokens over limit",
			req: ChatRequest{
				Messages:  []aimodels.ChatTurn{userTurn("hi")},
				MaxTokens: maxTokens(config.MaxTokensLimit + 1),
			},
			wantErr: true,
		},
		{
			name: "max tokens zero treated as unset",
			req: ChatRequest{
				Messages:  []aimodels.ChatTurn{userTurn("hi")},
				MaxTokens: maxTokens(0),
			},
		},
		{
			name: "negative max tokens",
			req: ChatRequest{
				Messages:  []aimodels.ChatTurn{userTurn("hi")},
				MaxTokens: maxTokens(-5),
			},
			wantErr: true,
		},
		{
			name: "temperature above one",
			req: ChatRequest{
				Messages:    []aimodels.ChatTurn{userTurn("hi")},
				Temperature: temp(1.5),
			},
			wantErr: true,
		},
		{
			name: "temperature zero is valid",
			req: ChatRequest{
				Messages:    []aimodels.ChatTurn{userTurn("hi")},
				Temperature: temp(0),
			},
		},
		{
			name: "unknown mode is accepted",
			req: ChatRequest{
				Messages: []aimodels.ChatTurn{userTurn("hi")},
				Mode:     "not_a_real_mode",
			},
		},
		{
			name: "oversized text",
			req: ChatRequest{
				Messages: []aimodels.ChatTurn{userTurn(strings.Repeat("x", config.MaxTextBlockChars+1))},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChatRequest(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateChatRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateContentBlocks(t *testing.T) {
	textBlock := aimodels.ContentBlock{Type: aimodels.BlockTypeText, Text: "hello"}
	imageBlock := func(mediaType, data string) aimodels.ContentBlock {
		return aimodels.ContentBlock{
			Type:   aimodels.BlockTypeImage,
			Source: &aimodels.ImageSource{Type: "base64", MediaType: mediaType, Data: data},
		}
	}

	tests := []struct {
		name    string
		content aimodels.MessageContent
		wantErr bool
	}{
		{
			name:    "text and image blocks",
			content: aimodels.BlockContent([]aimodels.ContentBlock{textBlock, imageBlock("image/png", "aGVsbG8=")}),
		},
		{
			name: "too many blocks",
			content: aimodels.BlockContent(func() []aimodels.ContentBlock {
				blocks := make([]aimodels.ContentBlock, config.MaxBlocksPerMessage+1)
				for i := range blocks {
					blocks[i] = textBlock
				}
				return blocks
			}()),
			wantErr: true,
		},
		{
			name:    "disallowed media type",
			content: aimodels.BlockContent([]aimodels.ContentBlock{imageBlock("image/tiff", "aGVsbG8=")}),
			wantErr: true,
		},
		{
			name:    "empty image data",
			content: aimodels.BlockContent([]aimodels.ContentBlock{imageBlock("image/png", "")}),
			wantErr: true,
		},
		{
			name:    "image missing source",
			content: aimodels.BlockContent([]aimodels.ContentBlock{{Type: aimodels.BlockTypeImage}}),
			wantErr: true,
		},
		{
			name:    "unknown block type",
			content: aimodels.BlockContent([]aimodels.ContentBlock{{Type: "audio"}}),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContent(tt.content)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateContent() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
