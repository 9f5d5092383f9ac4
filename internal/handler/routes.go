// Package handler is the HTTP layer: request decoding, route wiring, error
// mapping, and the SSE relay. Business rules live in internal/service.
package handler

import (
	"net/http"
)

// Middleware wraps a handler, e.g. a rate-limit policy.
type Middleware func(http.Handler) http.Handler

// Handlers collects the constructed handlers plus the per-group rate-limit
// policies applied at registration time. The outer chain (CORS, request ID,
// recovery, auth) wraps the whole mux in main.
type Handlers struct {
	Chat          *ChatHandler
	Conversations *ConversationHandler
	People        *PersonHandler
	Notes         *NoteHandler
	Events        *EventHandler
	Gestures      *GestureHandler
	Templates     *TemplateHandler
	Preferences   *PreferenceHandler
	Settings      *SettingsHandler
	Dashboard     *DashboardHandler

	// AILimit throttles the model-calling endpoints; AuthLimit throttles the
	// session probe. Either may be nil to disable.
	AILimit   Middleware
	AuthLimit Middleware
}

// Routes builds the ServeMux for the whole API.
func (h *Handlers) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", Health)
	mux.Handle("GET /api/me", wrap(h.AuthLimit, http.HandlerFunc(Me)))

	// AI endpoints share the tight policy: every route here can reach the
	// model provider.
	mux.Handle("POST /api/ai/chat", wrap(h.AILimit, http.HandlerFunc(h.Chat.Chat)))
	mux.Handle("POST /api/ai/chat/stream", wrap(h.AILimit, http.HandlerFunc(h.Chat.ChatStream)))
	mux.HandleFunc("POST /api/ai/conversations", h.Conversations.Create)
	mux.HandleFunc("GET /api/ai/conversations", h.Conversations.List)
	mux.HandleFunc("GET /api/ai/conversations/{id}/messages", h.Conversations.GetMessages)
	mux.Handle("POST /api/ai/conversations/{id}/messages", wrap(h.AILimit, http.HandlerFunc(h.Conversations.SendMessage)))
	mux.Handle("POST /api/ai/conversations/{id}/messages/stream", wrap(h.AILimit, http.HandlerFunc(h.Conversations.StreamMessage)))

	mux.HandleFunc("GET /api/people", h.People.List)
	mux.HandleFunc("POST /api/people", h.People.Create)
	mux.HandleFunc("GET /api/people/{id}", h.People.Get)
	mux.HandleFunc("PATCH /api/people/{id}", h.People.Update)
	mux.HandleFunc("DELETE /api/people/{id}", h.People.Delete)

	mux.HandleFunc("GET /api/people/{id}/notes", h.Notes.List)
	mux.HandleFunc("POST /api/people/{id}/notes", h.Notes.Create)
	mux.HandleFunc("PATCH /api/notes/{id}", h.Notes.Update)
	mux.HandleFunc("DELETE /api/notes/{id}", h.Notes.Delete)

	mux.HandleFunc("GET /api/people/{id}/events", h.Events.List)
	mux.HandleFunc("POST /api/people/{id}/events", h.Events.Create)
	mux.HandleFunc("GET /api/events/upcoming", h.Events.ListUpcoming)
	mux.HandleFunc("PATCH /api/events/{id}", h.Events.Update)
	mux.HandleFunc("DELETE /api/events/{id}", h.Events.Delete)

	mux.HandleFunc("GET /api/gestures", h.Gestures.List)
	mux.HandleFunc("POST /api/gestures", h.Gestures.Create)
	mux.HandleFunc("GET /api/gestures/upcoming", h.Gestures.ListUpcoming)
	mux.HandleFunc("POST /api/gestures/from-template", h.Gestures.CreateFromTemplate)
	mux.HandleFunc("GET /api/gestures/{id}", h.Gestures.Get)
	mux.HandleFunc("PATCH /api/gestures/{id}", h.Gestures.Update)
	mux.HandleFunc("POST /api/gestures/{id}/complete", h.Gestures.Complete)
	mux.HandleFunc("POST /api/gestures/{id}/skip", h.Gestures.Skip)
	mux.HandleFunc("DELETE /api/gestures/{id}", h.Gestures.Delete)

	mux.HandleFunc("GET /api/gesture-templates", h.Templates.List)
	mux.HandleFunc("POST /api/gesture-templates", h.Templates.Create)
	mux.HandleFunc("PATCH /api/gesture-templates/{id}", h.Templates.Update)
	mux.HandleFunc("DELETE /api/gesture-templates/{id}", h.Templates.Delete)

	mux.HandleFunc("GET /api/people/{id}/preferences", h.Preferences.List)
	mux.HandleFunc("POST /api/people/{id}/preferences", h.Preferences.Create)
	mux.HandleFunc("DELETE /api/preferences/{id}", h.Preferences.Delete)

	mux.HandleFunc("GET /api/settings/notifications", h.Settings.GetNotifications)
	mux.HandleFunc("PATCH /api/settings/notifications", h.Settings.UpdateNotifications)
	mux.HandleFunc("GET /api/settings/preferences", h.Settings.GetPreferences)
	mux.HandleFunc("PATCH /api/settings/preferences", h.Settings.UpdatePreferences)

	mux.HandleFunc("GET /api/dashboard", h.Dashboard.Get)

	return mux
}

func wrap(mw Middleware, next http.Handler) http.Handler {
	if mw == nil {
		return next
	}
	return mw(next)
}
