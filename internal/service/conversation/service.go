// Package conversation manages persisted AI chat sessions: conversation
// CRUD, message sequencing, and the bridge between stored history and the
// stateless chat service.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"heartline/internal/config"
	"heartline/internal/domain"
	aimodels "heartline/internal/domain/models/ai"
	"heartline/internal/domain/repositories"
	airepo "heartline/internal/domain/repositories/ai"
	aisvc "heartline/internal/service/ai"
	"heartline/internal/service/prompt"
)

// CreateConversationRequest is the payload for starting a new conversation.
type CreateConversationRequest struct {
	Title string `json:"title,omitempty"`
	Mode  string `json:"mode,omitempty"`
}

// SendMessageRequest is the payload for appending a user turn, blocking or
// streaming. Model and sampling parameters are per-request overrides.
type SendMessageRequest struct {
	Content     aimodels.MessageContent `json:"content"`
	Mode        string                  `json:"mode,omitempty"`
	Context     *aimodels.Context       `json:"context,omitempty"`
	Model       string                  `json:"model,omitempty"`
	MaxTokens   *int                    `json:"maxTokens,omitempty"`
	Temperature *float64                `json:"temperature,omitempty"`
	Locale      string                  `json:"locale,omitempty"`
}

// SendMessageResponse pairs the persisted turns of one blocking exchange.
type SendMessageResponse struct {
	UserMessage      aimodels.Message `json:"userMessage"`
	AssistantMessage aimodels.Message `json:"assistantMessage"`
	Model            string           `json:"model"`
	Usage            aimodels.Usage   `json:"usage"`
	StopReason       string           `json:"stopReason"`
}

// Service orchestrates conversation persistence around the chat service.
type Service struct {
	convRepo airepo.ConversationRepository
	msgRepo  airepo.MessageRepository
	txMgr    repositories.TransactionManager
	chat     *aisvc.ChatService
	logger   *slog.Logger
}

// NewService creates a conversation service.
func NewService(
	convRepo airepo.ConversationRepository,
	msgRepo airepo.MessageRepository,
	txMgr repositories.TransactionManager,
	chat *aisvc.ChatService,
	logger *slog.Logger,
) *Service {
	return &Service{
		convRepo: convRepo,
		msgRepo:  msgRepo,
		txMgr:    txMgr,
		chat:     chat,
		logger:   logger,
	}
}

// Create starts a new conversation for the user.
func (s *Service) Create(ctx context.Context, userID string, req *CreateConversationRequest) (*aimodels.Conversation, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Length(0, config.MaxConversationTitleLength)),
	); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = aimodels.DefaultConversationTitle
	}

	conv := &aimodels.Conversation{
		UserID:    userID,
		Title:     title,
		Mode:      prompt.ResolveMode(req.Mode).String(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.convRepo.Create(ctx, conv); err != nil {
		return nil, err
	}

	s.logger.Info("conversation created", "id", conv.ID, "user_id", userID, "mode", conv.Mode)
	return conv, nil
}

// List returns the user's conversations, most recently active first.
func (s *Service) List(ctx context.Context, userID string) ([]aimodels.Conversation, error) {
	return s.convRepo.ListByUser(ctx, userID)
}

// GetMessages returns the full message history in replay order.
func (s *Service) GetMessages(ctx context.Context, userID, conversationID string) ([]aimodels.Message, error) {
	if _, err := s.authorize(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return s.msgRepo.ListByConversation(ctx, conversationID)
}

// SendMessage appends a user turn, performs a blocking model call over the
// full history, and persists the assistant reply.
func (s *Service) SendMessage(ctx context.Context, userID, conversationID string, req *SendMessageRequest) (*SendMessageResponse, error) {
	conv, err := s.authorize(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	if req.Content.IsEmpty() {
		return nil, &domain.ValidationError{Message: "message content must not be empty"}
	}

	history, err := s.msgRepo.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	// Validate the full request, sampling knobs and model included, before
	// the user turn is persisted. A rejected request leaves no rows behind.
	chatReq := s.buildChatRequest(conv, history, req)
	if err := s.chat.Validate(chatReq); err != nil {
		return nil, err
	}

	userMsg, err := s.appendMessage(ctx, conversationID, aimodels.RoleUser, req.Content)
	if err != nil {
		return nil, err
	}

	resp, err := s.chat.Chat(ctx, chatReq)
	if err != nil {
		// The user turn stays persisted so the exchange can be retried
		// from history without resubmitting the content.
		return nil, err
	}

	var assistantMsg *aimodels.Message
	err = s.txMgr.ExecTx(ctx, func(ctx context.Context) error {
		var txErr error
		assistantMsg, txErr = s.appendMessage(ctx, conversationID, aimodels.RoleAssistant, aimodels.TextContent(resp.Content))
		if txErr != nil {
			return txErr
		}
		return s.convRepo.Touch(ctx, conversationID)
	})
	if err != nil {
		return nil, err
	}

	return &SendMessageResponse{
		UserMessage:      *userMsg,
		AssistantMessage: *assistantMsg,
		Model:            resp.Model,
		Usage:            resp.Usage,
		StopReason:       resp.StopReason,
	}, nil
}

// StreamMessage appends a user turn and starts a streaming model call. The
// returned channel relays provider events; the service accumulates the
// assistant text itself and persists whatever arrived, even when the stream
// ends early, as long as it is non-empty.
func (s *Service) StreamMessage(ctx context.Context, userID, conversationID string, req *SendMessageRequest) (<-chan aimodels.StreamEvent, error) {
	conv, err := s.authorize(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	if req.Content.IsEmpty() {
		return nil, &domain.ValidationError{Message: "message content must not be empty"}
	}

	history, err := s.msgRepo.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	chatReq := s.buildChatRequest(conv, history, req)
	if err := s.chat.Validate(chatReq); err != nil {
		return nil, err
	}

	if _, err := s.appendMessage(ctx, conversationID, aimodels.RoleUser, req.Content); err != nil {
		return nil, err
	}

	events, err := s.chat.ChatStream(ctx, chatReq)
	if err != nil {
		return nil, err
	}

	out := make(chan aimodels.StreamEvent, 10)
	go s.relayAndPersist(ctx, conversationID, events, out)
	return out, nil
}

// relayAndPersist forwards provider events to the consumer while
// accumulating assistant text. Persistence runs on a detached context so a
// client disconnect mid-stream still saves the partial reply.
func (s *Service) relayAndPersist(ctx context.Context, conversationID string, in <-chan aimodels.StreamEvent, out chan<- aimodels.StreamEvent) {
	defer close(out)

	var text strings.Builder
	for event := range in {
		if event.TextDelta != "" {
			text.WriteString(event.TextDelta)
		}
		out <- event
	}

	if text.Len() == 0 {
		return
	}

	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	err := s.txMgr.ExecTx(persistCtx, func(ctx context.Context) error {
		if _, err := s.appendMessage(ctx, conversationID, aimodels.RoleAssistant, aimodels.TextContent(text.String())); err != nil {
			return err
		}
		return s.convRepo.Touch(ctx, conversationID)
	})
	if err != nil {
		s.logger.Error("failed to persist assistant reply", "conversation_id", conversationID, "error", err)
	}
}

// buildChatRequest assembles the stateless chat request: stored history,
// then the new user turn, under the conversation's mode unless the request
// overrides it.
func (s *Service) buildChatRequest(conv *aimodels.Conversation, history []aimodels.Message, req *SendMessageRequest) *aisvc.ChatRequest {
	turns := make([]aimodels.ChatTurn, 0, len(history)+1)
	for _, msg := range history {
		turns = append(turns, aimodels.ChatTurn{Role: msg.Role, Content: msg.Content})
	}
	turns = append(turns, aimodels.ChatTurn{Role: aimodels.RoleUser, Content: req.Content})

	mode := req.Mode
	if mode == "" {
		mode = conv.Mode
	}

	return &aisvc.ChatRequest{
		Messages:    turns,
		Mode:        mode,
		Context:     req.Context,
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Locale:      req.Locale,
	}
}

// appendMessage inserts a message at the next free sequence. A concurrent
// writer can claim the slot between the read and the insert; the unique
// index turns that race into ErrConflict and one retry re-reads the max.
func (s *Service) appendMessage(ctx context.Context, conversationID, role string, content aimodels.MessageContent) (*aimodels.Message, error) {
	for attempt := 0; attempt < 2; attempt++ {
		seq, err := s.msgRepo.NextSequence(ctx, conversationID)
		if err != nil {
			return nil, err
		}

		msg := &aimodels.Message{
			ConversationID: conversationID,
			Role:           role,
			Content:        content,
			Sequence:       seq,
			CreatedAt:      time.Now(),
		}
		err = s.msgRepo.Insert(ctx, msg)
		if err == nil {
			return msg, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("could not claim a message sequence for conversation %s: %w", conversationID, domain.ErrConflict)
}

// authorize loads the conversation and checks ownership. Missing rows are
// 404; rows owned by someone else are 403.
func (s *Service) authorize(ctx context.Context, userID, conversationID string) (*aimodels.Conversation, error) {
	conv, err := s.convRepo.Get(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.UserID != userID {
		return nil, &domain.ForbiddenError{Message: "conversation belongs to another user"}
	}
	return conv, nil
}
