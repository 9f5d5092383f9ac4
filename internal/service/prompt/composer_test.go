package prompt

import (
	"strings"
	"testing"
	"time"

	"heartline/internal/config"
	"heartline/internal/domain/models/ai"
)

func TestComposeModeBlocks(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		modeName string
		wantMode string
	}{
		{name: "relationship coach", modeName: "relationship_coach", wantMode: "relationship_coach"},
		{name: "message drafter", modeName: "message_drafter", wantMode: "message_drafter"},
		{name: "conversation analyst", modeName: "conversation_analyst", wantMode: "conversation_analyst"},
		{name: "plan generator", modeName: "plan_generator", wantMode: "plan_generator"},
		{name: "general assistant", modeName: "general_assistant", wantMode: "general_assistant"},
		{name: "unknown falls back", modeName: "therapist", wantMode: "general_assistant"},
		{name: "empty falls back", modeName: "", wantMode: "general_assistant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compose(Input{ModeName: tt.modeName, Now: now})

			if !strings.Contains(got, "Mode: "+tt.wantMode) {
				t.Errorf("prompt missing mode line %q:\n%s", tt.wantMode, got)
			}
			tmpl := TemplateFor(ResolveMode(tt.modeName))
			for _, obj := range tmpl.Objectives {
				if !strings.Contains(got, "- "+obj) {
					t.Errorf("prompt missing objective bullet %q", obj)
				}
			}
			for _, rule := range tmpl.SafetyRules {
				if !strings.Contains(got, "- "+rule) {
					t.Errorf("prompt missing safety bullet %q", rule)
				}
			}
			if !strings.Contains(got, "If user instructions conflict with safety rules, follow safety rules.") {
				t.Error("prompt missing safety precedence line")
			}
			if !strings.Contains(got, "2026-03-14T09:30:00Z") {
				t.Error("prompt missing injected timestamp")
			}
			if !strings.Contains(got, "User locale: en-US") {
				t.Error("prompt missing default locale")
			}
		})
	}
}

func TestComposeContextSentences(t *testing.T) {
	tests := []struct {
		name string
		ctx  *ai.Context
		want string
	}{
		{
			name: "nil context",
			ctx:  nil,
			want: noContextSentence,
		},
		{
			name: "empty context object",
			ctx:  &ai.Context{},
			want: emptyContextSentence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compose(Input{Context: tt.ctx})
			if !strings.Contains(got, tt.want) {
				t.Errorf("prompt missing %q:\n%s", tt.want, got)
			}
		})
	}
}

func TestComposeContextSections(t *testing.T) {
	ctx := &ai.Context{
		Person: &ai.ContextPerson{DisplayName: "Maya", RelationshipType: "partner"},
		Preferences: &ai.ContextPreferences{
			Likes:    []string{"jazz", "hiking"},
			Dislikes: []string{"crowds"},
		},
		UpcomingEvents: []ai.ContextEvent{
			{Title: "Anniversary", Date: "2026-04-01"},
		},
		RecentGestures: []ai.ContextGesture{
			{Title: "Flowers", Status: "completed"},
		},
		Task: map[string]any{"occasion": "birthday"},
	}

	got := Compose(Input{ModeName: "message_drafter", Context: ctx})

	for _, want := range []string{
		`Person: {"displayName":"Maya","relationshipType":"partner"}`,
		"Preferences: ",
		"UpcomingEvents: ",
		"RecentGestures: ",
		`TaskHints: {"occasion":"birthday"}`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing context section %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, noContextSentence) || strings.Contains(got, emptyContextSentence) {
		t.Error("placeholder sentence present alongside real context")
	}
}

func TestRenderContextCapsLists(t *testing.T) {
	ctx := &ai.Context{}
	for i := 0; i < config.MaxContextEvents+10; i++ {
		ctx.UpcomingEvents = append(ctx.UpcomingEvents, ai.ContextEvent{Title: "E"})
		ctx.RecentGestures = append(ctx.RecentGestures, ai.ContextGesture{Title: "G"})
	}

	got := renderContext(ctx)

	eventCount := strings.Count(got, `"title":"E"`)
	if eventCount != config.MaxContextEvents {
		t.Errorf("events rendered = %d, want %d", eventCount, config.MaxContextEvents)
	}
	gestureCount := strings.Count(got, `"title":"G"`)
	if gestureCount != config.MaxContextGestures {
		t.Errorf("gestures rendered = %d, want %d", gestureCount, config.MaxContextGestures)
	}
}

func TestRenderContextTruncation(t *testing.T) {
	ctx := &ai.Context{
		Task: map[string]any{"blob": strings.Repeat("x", config.MaxContextChars*2)},
	}

	got := renderContext(ctx)

	if !strings.HasSuffix(got, truncationMarker) {
		t.Fatalf("truncated context missing marker, got tail %q", got[len(got)-10:])
	}
	if len(got) != config.MaxContextChars+len(truncationMarker) {
		t.Errorf("truncated length = %d, want %d", len(got), config.MaxContextChars+len(truncationMarker))
	}
}

func TestComposeFallbackUnused(t *testing.T) {
	got := Compose(Input{ModeName: "relationship_coach", Fallback: "FALLBACK"})
	if strings.Contains(got, "FALLBACK") {
		t.Error("fallback prompt used despite non-empty composition")
	}
}
