package prompt

import "testing"

func TestResolveMode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Mode
	}{
		{name: "relationship coach", input: "relationship_coach", want: ModeRelationshipCoach},
		{name: "message drafter", input: "message_drafter", want: ModeMessageDrafter},
		{name: "conversation analyst", input: "conversation_analyst", want: ModeConversationAnalyst},
		{name: "plan generator", input: "plan_generator", want: ModePlanGenerator},
		{name: "general assistant", input: "general_assistant", want: ModeGeneralAssistant},
		{name: "unknown string", input: "life_coach", want: ModeGeneralAssistant},
		{name: "empty string", input: "", want: ModeGeneralAssistant},
		{name: "case sensitive", input: "Message_Drafter", want: ModeGeneralAssistant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveMode(tt.input); got != tt.want {
				t.Errorf("ResolveMode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTemplateForAllModes(t *testing.T) {
	for _, mode := range Modes {
		tmpl := TemplateFor(mode)
		if tmpl.Role == "" {
			t.Errorf("mode %v has empty role", mode)
		}
		if len(tmpl.Objectives) == 0 {
			t.Errorf("mode %v has no objectives", mode)
		}
		if len(tmpl.StyleRules) == 0 {
			t.Errorf("mode %v has no style rules", mode)
		}
		if len(tmpl.SafetyRules) < len(commonSafetyRules) {
			t.Errorf("mode %v dropped shared safety rules", mode)
		}
	}
}

func TestModeString(t *testing.T) {
	if got := ModeMessageDrafter.String(); got != "message_drafter" {
		t.Errorf("ModeMessageDrafter.String() = %q", got)
	}
	if got := Mode(99).String(); got != "general_assistant" {
		t.Errorf("out-of-range mode String() = %q", got)
	}
}
