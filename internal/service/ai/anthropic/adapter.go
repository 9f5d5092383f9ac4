package anthropic

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	aimodels "heartline/internal/domain/models/ai"
)

// convertTurns converts dialogue turns to Anthropic SDK message params.
func convertTurns(turns []aimodels.ChatTurn) ([]anthropic.MessageParam, error) {
	result := make([]anthropic.MessageParam, 0, len(turns))

	for i, turn := range turns {
		blocks, err := convertContent(turn.Content)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}

		var message anthropic.MessageParam
		switch turn.Role {
		case aimodels.RoleUser:
			message = anthropic.NewUserMessage(blocks...)
		case aimodels.RoleAssistant:
			message = anthropic.NewAssistantMessage(blocks...)
		default:
			return nil, fmt.Errorf("message %d: unsupported role '%s'", i, turn.Role)
		}

		result = append(result, message)
	}

	return result, nil
}

// convertContent expands string-or-blocks content into SDK block params.
func convertContent(content aimodels.MessageContent) ([]anthropic.ContentBlockParamUnion, error) {
	if !content.IsBlocks {
		return []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(content.Text)}, nil
	}

	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(content.Blocks))
	for _, block := range content.Blocks {
		switch block.Type {
		case aimodels.BlockTypeText:
			blocks = append(blocks, anthropic.NewTextBlock(block.Text))

		case aimodels.BlockTypeImage:
			if block.Source == nil {
				return nil, fmt.Errorf("image block missing source")
			}
			blocks = append(blocks, anthropic.NewImageBlockBase64(block.Source.MediaType, block.Source.Data))

		default:
			return nil, fmt.Errorf("unsupported block type '%s'", block.Type)
		}
	}
	return blocks, nil
}

// convertResponse flattens an SDK message into the domain response shape.
// Only text content survives; the chat surface has no tool or thinking
// blocks to carry.
func convertResponse(msg *anthropic.Message) *aimodels.ChatResponse {
	var text string
	for _, content := range msg.Content {
		if content.Type == "text" {
			text += content.Text
		}
	}

	return &aimodels.ChatResponse{
		Content: text,
		Model:   string(msg.Model),
		Usage: aimodels.Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
		},
		StopReason: string(msg.StopReason),
	}
}
