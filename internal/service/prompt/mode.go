// Package prompt builds the system prompt for AI chat requests: a fixed
// preamble, a per-mode template block, and a bounded rendering of the
// caller's CRM context snapshot.
package prompt

// Mode is a closed set of assistant personas. Internal dispatch is total
// over these values; only the wire-string path (ResolveMode) can encounter
// an unknown value, and it falls back rather than erroring.
type Mode int

const (
	ModeRelationshipCoach Mode = iota
	ModeMessageDrafter
	ModeConversationAnalyst
	ModePlanGenerator
	ModeGeneralAssistant
)

// Modes lists every mode in declaration order.
var Modes = []Mode{
	ModeRelationshipCoach,
	ModeMessageDrafter,
	ModeConversationAnalyst,
	ModePlanGenerator,
	ModeGeneralAssistant,
}

// String returns the wire name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeRelationshipCoach:
		return "relationship_coach"
	case ModeMessageDrafter:
		return "message_drafter"
	case ModeConversationAnalyst:
		return "conversation_analyst"
	case ModePlanGenerator:
		return "plan_generator"
	default:
		return "general_assistant"
	}
}

// ResolveMode maps a wire string to a Mode. Empty or unknown values fall
// back silently to the general assistant; clients sending a stale mode name
// keep working instead of erroring.
func ResolveMode(value string) Mode {
	switch value {
	case "relationship_coach":
		return ModeRelationshipCoach
	case "message_drafter":
		return ModeMessageDrafter
	case "conversation_analyst":
		return ModeConversationAnalyst
	case "plan_generator":
		return ModePlanGenerator
	default:
		return ModeGeneralAssistant
	}
}
