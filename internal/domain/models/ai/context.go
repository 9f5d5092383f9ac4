package ai

// ContextPerson is the person summary slice of a context snapshot.
type ContextPerson struct {
	ID               string `json:"id,omitempty"`
	DisplayName      string `json:"displayName,omitempty"`
	RelationshipType string `json:"relationshipType,omitempty"`
	Notes            string `json:"notes,omitempty"`
}

// ContextPreferences holds liked/disliked values for the person in scope.
type ContextPreferences struct {
	Likes    []string `json:"likes,omitempty"`
	Dislikes []string `json:"dislikes,omitempty"`
}

// ContextEvent is one upcoming event in a context snapshot.
type ContextEvent struct {
	Title string `json:"title"`
	Date  string `json:"date,omitempty"`
	Type  string `json:"type,omitempty"`
}

// ContextGesture is one recent gesture in a context snapshot.
type ContextGesture struct {
	Title  string `json:"title"`
	Status string `json:"status,omitempty"`
	DueAt  string `json:"dueAt,omitempty"`
}

// Context is a request-scoped snapshot of CRM data serialized into the
// system prompt. It is never persisted; it exists only for the lifetime of
// one chat request. A nil *Context means no CRM lookup happened at all,
// which the prompt composer renders differently from a Context whose
// sub-sections are all empty.
type Context struct {
	Person         *ContextPerson      `json:"person,omitempty"`
	Preferences    *ContextPreferences `json:"preferences,omitempty"`
	UpcomingEvents []ContextEvent      `json:"upcomingEvents,omitempty"`
	RecentGestures []ContextGesture    `json:"recentGestures,omitempty"`
	Task           map[string]any      `json:"task,omitempty"`
}
