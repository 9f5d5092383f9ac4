package prompt

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"heartline/internal/config"
	"heartline/internal/domain/models/ai"
)

// Context rendering sentences. The two "nothing to show" cases are distinct
// on purpose: the first tells the model no CRM lookup happened at all, the
// second that a lookup happened and found nothing.
const (
	noContextSentence    = "No structured CRM context provided."
	emptyContextSentence = "Structured CRM context object was provided, but all sections were empty."
)

// truncationMarker is appended when the rendered context exceeds the budget.
const truncationMarker = "..."

// Input holds the composer's inputs. Everything is optional; zero values
// produce a valid general-assistant prompt.
type Input struct {
	// ModeName is the raw wire string; unknown values fall back to the
	// general assistant.
	ModeName string
	// Context is the request-scoped CRM snapshot, nil if none was built.
	Context *ai.Context
	// Locale defaults to "en-US".
	Locale string
	// Now defaults to time.Now; injected for deterministic tests.
	Now time.Time
	// Fallback is used only if the composed prompt is somehow empty.
	Fallback string
}

// Compose builds the system prompt. Pure function of its inputs except for
// the default timestamp.
func Compose(in Input) string {
	mode := ResolveMode(in.ModeName)
	tmpl := TemplateFor(mode)

	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	locale := in.Locale
	if locale == "" {
		locale = "en-US"
	}

	modeBlock := composeModeBlock(mode, tmpl)
	contextBlock := renderContext(in.Context)

	sections := []string{
		"You are operating inside a relationship CRM application.",
		"Use the mode and context below to tailor your behavior.",
		"Current timestamp (ISO-8601): " + now.UTC().Format(time.RFC3339),
		"User locale: " + locale,
		modeBlock,
		"CRM Context:",
		contextBlock,
		"If user instructions conflict with safety rules, follow safety rules.",
	}

	out := strings.Join(sections, "\n\n")
	if strings.TrimSpace(out) != "" {
		return out
	}
	if in.Fallback != "" {
		return in.Fallback
	}
	return "You are a helpful assistant."
}

// composeModeBlock renders the mode line, role, and the three bullet lists.
func composeModeBlock(mode Mode, tmpl Template) string {
	lines := []string{
		"Mode: " + mode.String(),
		tmpl.Role,
		"Objectives:",
	}
	for _, item := range tmpl.Objectives {
		lines = append(lines, "- "+item)
	}
	lines = append(lines, "Style Rules:")
	for _, item := range tmpl.StyleRules {
		lines = append(lines, "- "+item)
	}
	lines = append(lines, "Safety Rules:")
	for _, item := range tmpl.SafetyRules {
		lines = append(lines, "- "+item)
	}
	return strings.Join(lines, "\n")
}

// renderContext serializes the snapshot into compact labeled JSON lines.
// The events and gestures lists are capped before serialization and the
// whole text is truncated to the character budget.
func renderContext(ctx *ai.Context) string {
	if ctx == nil {
		return noContextSentence
	}

	var parts []string

	if ctx.Person != nil {
		parts = append(parts, "Person: "+compactJSON(ctx.Person))
	}
	if ctx.Preferences != nil {
		parts = append(parts, "Preferences: "+compactJSON(ctx.Preferences))
	}
	if len(ctx.UpcomingEvents) > 0 {
		events := ctx.UpcomingEvents
		if len(events) > config.MaxContextEvents {
			events = events[:config.MaxContextEvents]
		}
		parts = append(parts, "UpcomingEvents: "+compactJSON(events))
	}
	if len(ctx.RecentGestures) > 0 {
		gestures := ctx.RecentGestures
		if len(gestures) > config.MaxContextGestures {
			gestures = gestures[:config.MaxContextGestures]
		}
		parts = append(parts, "RecentGestures: "+compactJSON(gestures))
	}
	if len(ctx.Task) > 0 {
		parts = append(parts, "TaskHints: "+compactJSON(ctx.Task))
	}

	if len(parts) == 0 {
		return emptyContextSentence
	}

	return truncate(strings.Join(parts, "\n"), config.MaxContextChars)
}

// compactJSON marshals v on one line. Marshal failures can only come from
// unsupported task-hint values; render the error in place rather than
// dropping the section silently.
func compactJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("(unrenderable: %v)", err)
	}
	return string(data)
}

// truncate cuts s at max bytes and appends the truncation marker.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + truncationMarker
}
