package conversation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"heartline/internal/capabilities"
	"heartline/internal/domain"
	aimodels "heartline/internal/domain/models/ai"
	"heartline/internal/domain/repositories"
	aisvc "heartline/internal/service/ai"
)

// fakeConvRepo is an in-memory ConversationRepository.
type fakeConvRepo struct {
	convs   map[string]*aimodels.Conversation
	nextID  int
	touched []string
}

func newFakeConvRepo() *fakeConvRepo {
	return &fakeConvRepo{convs: make(map[string]*aimodels.Conversation)}
}

func (r *fakeConvRepo) Create(_ context.Context, conv *aimodels.Conversation) error {
	r.nextID++
	conv.ID = string(rune('a' + r.nextID - 1))
	stored := *conv
	r.convs[conv.ID] = &stored
	return nil
}

func (r *fakeConvRepo) Get(_ context.Context, id string) (*aimodels.Conversation, error) {
	conv, ok := r.convs[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "conversation not found"}
	}
	out := *conv
	return &out, nil
}

func (r *fakeConvRepo) ListByUser(_ context.Context, userID string) ([]aimodels.Conversation, error) {
	var out []aimodels.Conversation
	for _, conv := range r.convs {
		if conv.UserID == userID {
			out = append(out, *conv)
		}
	}
	return out, nil
}

func (r *fakeConvRepo) Touch(_ context.Context, id string) error {
	r.touched = append(r.touched, id)
	return nil
}

// fakeMsgRepo is an in-memory MessageRepository. conflictsLeft makes the
// next N inserts fail with ErrConflict to exercise the sequence retry.
type fakeMsgRepo struct {
	messages      map[string][]aimodels.Message
	conflictsLeft int
}

func newFakeMsgRepo() *fakeMsgRepo {
	return &fakeMsgRepo{messages: make(map[string][]aimodels.Message)}
}

func (r *fakeMsgRepo) Insert(_ context.Context, msg *aimodels.Message) error {
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		return &domain.ConflictError{Message: "duplicate sequence"}
	}
	msg.ID = "msg"
	r.messages[msg.ConversationID] = append(r.messages[msg.ConversationID], *msg)
	return nil
}

func (r *fakeMsgRepo) ListByConversation(_ context.Context, conversationID string) ([]aimodels.Message, error) {
	return r.messages[conversationID], nil
}

func (r *fakeMsgRepo) NextSequence(_ context.Context, conversationID string) (int, error) {
	msgs := r.messages[conversationID]
	if len(msgs) == 0 {
		return 0, nil
	}
	max := msgs[0].Sequence
	for _, msg := range msgs[1:] {
		if msg.Sequence > max {
			max = msg.Sequence
		}
	}
	return max + 1, nil
}

// fakeTxMgr runs the function directly with no transaction.
type fakeTxMgr struct{}

func (fakeTxMgr) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

// fakeProvider returns canned responses.
type fakeProvider struct {
	response  string
	streamErr error
}

func (p *fakeProvider) Name() string                { return "fake" }
func (p *fakeProvider) SupportsModel(m string) bool { return true }

func (p *fakeProvider) GenerateResponse(_ context.Context, req *aisvc.GenerateRequest) (*aimodels.ChatResponse, error) {
	return &aimodels.ChatResponse{
		Content:    p.response,
		Model:      req.Model,
		Usage:      aimodels.Usage{InputTokens: 10, OutputTokens: 5},
		StopReason: "end_turn",
	}, nil
}

func (p *fakeProvider) StreamResponse(_ context.Context, req *aisvc.GenerateRequest) (<-chan aimodels.StreamEvent, error) {
	out := make(chan aimodels.StreamEvent, 10)
	go func() {
		defer close(out)
		for _, r := range p.response {
			out <- aimodels.StreamEvent{TextDelta: string(r)}
		}
		if p.streamErr != nil {
			out <- aimodels.StreamEvent{Err: p.streamErr}
			return
		}
		out <- aimodels.StreamEvent{Metadata: &aimodels.StreamMetadata{Model: req.Model, StopReason: "end_turn"}}
	}()
	return out, nil
}

func newTestService(t *testing.T, provider aisvc.Provider) (*Service, *fakeConvRepo, *fakeMsgRepo) {
	t.Helper()
	registry, err := capabilities.NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	chat := aisvc.NewChatService(provider, registry, logger, "claude-haiku-4-5-20251001", "")

	convRepo := newFakeConvRepo()
	msgRepo := newFakeMsgRepo()
	svc := NewService(convRepo, msgRepo, fakeTxMgr{}, chat, logger)
	return svc, convRepo, msgRepo
}

func TestCreateConversation(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeProvider{})

	tests := []struct {
		name      string
		req       CreateConversationRequest
		wantTitle string
		wantMode  string
	}{
		{
			name:      "defaults applied",
			req:       CreateConversationRequest{},
			wantTitle: aimodels.DefaultConversationTitle,
			wantMode:  "general_assistant",
		},
		{
			name:      "explicit title and mode",
			req:       CreateConversationRequest{Title: "  Gift ideas  ", Mode: "plan_generator"},
			wantTitle: "Gift ideas",
			wantMode:  "plan_generator",
		},
		{
			name:      "unknown mode falls back",
			req:       CreateConversationRequest{Mode: "therapist"},
			wantTitle: aimodels.DefaultConversationTitle,
			wantMode:  "general_assistant",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv, err := svc.Create(context.Background(), "user-1", &tt.req)
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if conv.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", conv.Title, tt.wantTitle)
			}
			if conv.Mode != tt.wantMode {
				t.Errorf("Mode = %q, want %q", conv.Mode, tt.wantMode)
			}
			if conv.UserID != "user-1" {
				t.Errorf("UserID = %q", conv.UserID)
			}
		})
	}
}

func TestSendMessagePersistsBothTurns(t *testing.T) {
	svc, convRepo, msgRepo := newTestService(t, &fakeProvider{response: "Here is an idea."})
	ctx := context.Background()

	conv, err := svc.Create(ctx, "user-1", &CreateConversationRequest{})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	resp, err := svc.SendMessage(ctx, "user-1", conv.ID, &SendMessageRequest{
		Content: aimodels.TextContent("Suggest a gift"),
	})
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}

	if resp.UserMessage.Sequence != 0 {
		t.Errorf("user sequence = %d, want 0", resp.UserMessage.Sequence)
	}
	if resp.AssistantMessage.Sequence != 1 {
		t.Errorf("assistant sequence = %d, want 1", resp.AssistantMessage.Sequence)
	}
	if resp.AssistantMessage.Content.PlainText() != "Here is an idea." {
		t.Errorf("assistant content = %q", resp.AssistantMessage.Content.PlainText())
	}

	stored := msgRepo.messages[conv.ID]
	if len(stored) != 2 {
		t.Fatalf("stored messages = %d, want 2", len(stored))
	}
	if len(convRepo.touched) != 1 {
		t.Errorf("conversation touched %d times, want 1", len(convRepo.touched))
	}
}

func TestSendMessageOwnership(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeProvider{response: "ok"})
	ctx := context.Background()

	conv, err := svc.Create(ctx, "owner", &CreateConversationRequest{})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	req := &SendMessageRequest{Content: aimodels.TextContent("hi")}

	_, err = svc.SendMessage(ctx, "intruder", conv.ID, req)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("foreign user error = %v, want ErrForbidden", err)
	}

	_, err = svc.SendMessage(ctx, "owner", "no-such-conversation", req)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing conversation error = %v, want ErrNotFound", err)
	}
}

func TestSendMessageEmptyContent(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeProvider{response: "ok"})
	ctx := context.Background()

	conv, _ := svc.Create(ctx, "user-1", &CreateConversationRequest{})
	_, err := svc.SendMessage(ctx, "user-1", conv.ID, &SendMessageRequest{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty content error = %v, want ErrValidation", err)
	}
}

func TestSendMessageInvalidRequestPersistsNothing(t *testing.T) {
	svc, convRepo, msgRepo := newTestService(t, &fakeProvider{response: "ok"})
	ctx := context.Background()

	conv, err := svc.Create(ctx, "user-1", &CreateConversationRequest{})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name string
		req  SendMessageRequest
	}{
		{
			name: "temperature out of range",
			req:  SendMessageRequest{Content: aimodels.TextContent("hi"), Temperature: floatPtr(2.0)},
		},
		{
			name: "maxTokens over the cap",
			req:  SendMessageRequest{Content: aimodels.TextContent("hi"), MaxTokens: intPtr(999999)},
		},
		{
			name: "unknown model",
			req:  SendMessageRequest{Content: aimodels.TextContent("hi"), Model: "gpt-4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SendMessage(ctx, "user-1", conv.ID, &tt.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("SendMessage() error = %v, want ErrValidation", err)
			}
			if n := len(msgRepo.messages[conv.ID]); n != 0 {
				t.Errorf("persisted %d message(s), want 0", n)
			}
			if len(convRepo.touched) != 0 {
				t.Errorf("conversation touched %d times, want 0", len(convRepo.touched))
			}
		})
	}

	// The streaming path rejects before persisting too.
	_, err = svc.StreamMessage(ctx, "user-1", conv.ID, &SendMessageRequest{
		Content:     aimodels.TextContent("hi"),
		Temperature: floatPtr(2.0),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("StreamMessage() error = %v, want ErrValidation", err)
	}
	if n := len(msgRepo.messages[conv.ID]); n != 0 {
		t.Errorf("persisted %d message(s) after stream rejection, want 0", n)
	}
}

func TestSendMessageSequenceRetry(t *testing.T) {
	svc, _, msgRepo := newTestService(t, &fakeProvider{response: "ok"})
	ctx := context.Background()

	conv, _ := svc.Create(ctx, "user-1", &CreateConversationRequest{})
	msgRepo.conflictsLeft = 1

	resp, err := svc.SendMessage(ctx, "user-1", conv.ID, &SendMessageRequest{
		Content: aimodels.TextContent("hi"),
	})
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if resp.UserMessage.Sequence != 0 {
		t.Errorf("user sequence after retry = %d, want 0", resp.UserMessage.Sequence)
	}

	// Two consecutive conflicts on the same insert exhaust the retry.
	msgRepo.conflictsLeft = 2
	_, err = svc.SendMessage(ctx, "user-1", conv.ID, &SendMessageRequest{
		Content: aimodels.TextContent("again"),
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("exhausted retry error = %v, want ErrConflict", err)
	}
}

func TestStreamMessagePersistsAccumulatedText(t *testing.T) {
	svc, _, msgRepo := newTestService(t, &fakeProvider{response: "streamed reply"})
	ctx := context.Background()

	conv, _ := svc.Create(ctx, "user-1", &CreateConversationRequest{})

	events, err := svc.StreamMessage(ctx, "user-1", conv.ID, &SendMessageRequest{
		Content: aimodels.TextContent("hello"),
	})
	if err != nil {
		t.Fatalf("StreamMessage() error = %v", err)
	}

	var got string
	var sawMetadata bool
	for event := range events {
		got += event.TextDelta
		if event.Metadata != nil {
			sawMetadata = true
		}
	}
	if got != "streamed reply" {
		t.Errorf("relayed text = %q", got)
	}
	if !sawMetadata {
		t.Error("terminal metadata event not relayed")
	}

	stored := msgRepo.messages[conv.ID]
	if len(stored) != 2 {
		t.Fatalf("stored messages = %d, want 2", len(stored))
	}
	last := stored[len(stored)-1]
	if last.Role != aimodels.RoleAssistant || last.Content.PlainText() != "streamed reply" {
		t.Errorf("persisted assistant turn = %+v", last)
	}
}

func TestStreamMessagePersistsPartialOnError(t *testing.T) {
	svc, _, msgRepo := newTestService(t, &fakeProvider{
		response:  "partial",
		streamErr: errors.New("upstream broke"),
	})
	ctx := context.Background()

	conv, _ := svc.Create(ctx, "user-1", &CreateConversationRequest{})

	events, err := svc.StreamMessage(ctx, "user-1", conv.ID, &SendMessageRequest{
		Content: aimodels.TextContent("hello"),
	})
	if err != nil {
		t.Fatalf("StreamMessage() error = %v", err)
	}

	var sawErr bool
	for event := range events {
		if event.Err != nil {
			sawErr = true
		}
	}
	if !sawErr {
		t.Fatal("stream error not relayed")
	}

	stored := msgRepo.messages[conv.ID]
	if len(stored) != 2 {
		t.Fatalf("stored messages = %d, want 2 (user turn + partial assistant)", len(stored))
	}
	if stored[1].Content.PlainText() != "partial" {
		t.Errorf("persisted partial = %q, want %q", stored[1].Content.PlainText(), "partial")
	}
}

func TestStreamMessageDropsEmptyReply(t *testing.T) {
	svc, _, msgRepo := newTestService(t, &fakeProvider{
		response:  "",
		streamErr: errors.New("failed before first delta"),
	})
	ctx := context.Background()

	conv, _ := svc.Create(ctx, "user-1", &CreateConversationRequest{})

	events, err := svc.StreamMessage(ctx, "user-1", conv.ID, &SendMessageRequest{
		Content: aimodels.TextContent("hello"),
	})
	if err != nil {
		t.Fatalf("StreamMessage() error = %v", err)
	}
	for range events {
	}

	stored := msgRepo.messages[conv.ID]
	if len(stored) != 1 {
		t.Fatalf("stored messages = %d, want 1 (user turn only)", len(stored))
	}
}

func TestGetMessagesOrdering(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeProvider{response: "r"})
	ctx := context.Background()

	conv, _ := svc.Create(ctx, "user-1", &CreateConversationRequest{})
	for _, text := range []string{"one", "two"} {
		if _, err := svc.SendMessage(ctx, "user-1", conv.ID, &SendMessageRequest{
			Content: aimodels.TextContent(text),
		}); err != nil {
			t.Fatalf("SendMessage(%q) error = %v", text, err)
		}
	}

	msgs, err := svc.GetMessages(ctx, "user-1", conv.ID)
	if err != nil {
		t.Fatalf("GetMessages() error = %v", err)
	}
	if len(msgs) != 4 {
		t.Fatalf("messages = %d, want 4", len(msgs))
	}
	for i, msg := range msgs {
		if msg.Sequence != i {
			t.Errorf("message %d sequence = %d, want %d", i, msg.Sequence, i)
		}
	}
}

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }
