package ai

import (
	"fmt"
	"slices"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"heartline/internal/config"
	aimodels "heartline/internal/domain/models/ai"
)

// ChatRequest is the payload of the stateless chat endpoints. The same
// shape drives both the blocking and the streaming call.
type ChatRequest struct {
	Messages    []aimodels.ChatTurn `json:"messages"`
	Mode        string              `json:"mode,omitempty"`
	Context     *aimodels.Context   `json:"context,omitempty"`
	Model       string              `json:"model,omitempty"`
	MaxTokens   *int                `json:"maxTokens,omitempty"`
	Temperature *float64            `json:"temperature,omitempty"`
	Locale      string              `json:"locale,omitempty"`
}

// ValidateChatRequest checks structural limits before any provider work.
// Mode is deliberately not validated: unknown modes fall back to the
// general assistant at composition time.
func ValidateChatRequest(req *ChatRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Messages,
			validation.Required,
			validation.Length(1, config.MaxMessagesPerRequest),
			validation.Each(validation.By(validateChatTurn)),
		),
		validation.Field(&req.MaxTokens,
			validation.Min(1),
			validation.Max(config.MaxTokensLimit),
		),
		validation.Field(&req.Temperature,
			validation.Min(0.0),
			validation.Max(1.0),
		),
	)
}

func validateChatTurn(value interface{}) error {
	turn, ok := value.(aimodels.ChatTurn)
	if !ok {
		return fmt.Errorf("must be a chat turn")
	}
	if turn.Role != aimodels.RoleUser && turn.Role != aimodels.RoleAssistant {
		return fmt.Errorf("role must be 'user' or 'assistant'")
	}
	return ValidateContent(turn.Content)
}

// ValidateContent enforces the per-message content limits: text length,
// block count, image payload size, and image media type.
func ValidateContent(content aimodels.MessageContent) error {
	if !content.IsBlocks {
		if len(content.Text) > config.MaxTextBlockChars {
			return fmt.Errorf("text exceeds %d characters", config.MaxTextBlockChars)
		}
		return nil
	}

	if len(content.Blocks) > config.MaxBlocksPerMessage {
		return fmt.Errorf("message exceeds %d content blocks", config.MaxBlocksPerMessage)
	}
	for i, block := range content.Blocks {
		if err := validateContentBlock(block); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
	}
	return nil
}

func validateContentBlock(block aimodels.ContentBlock) error {
	switch block.Type {
	case aimodels.BlockTypeText:
		if len(block.Text) > config.MaxTextBlockChars {
			return fmt.Errorf("text exceeds %d characters", config.MaxTextBlockChars)
		}
		return nil

	case aimodels.BlockTypeImage:
		if block.Source == nil {
			return fmt.Errorf("image block missing source")
		}
		if block.Source.Type != "base64" {
			return fmt.Errorf("image source type must be 'base64'")
		}
		if !slices.Contains(aimodels.AllowedImageMediaTypes, block.Source.MediaType) {
			return fmt.Errorf("unsupported image media type %q", block.Source.MediaType)
		}
		if len(block.Source.Data) > config.MaxImageBase64Chars {
			return fmt.Errorf("image data exceeds %d base64 characters", config.MaxImageBase64Chars)
		}
		if block.Source.Data == "" {
			return fmt.Errorf("image data is empty")
		}
		return nil

	default:
		return fmt.Errorf("unsupported block type %q", block.Type)
	}
}
