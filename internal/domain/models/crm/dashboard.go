package crm

// EventWithPerson pairs an event with its person for dashboard listings.
type EventWithPerson struct {
	Event  Event  `json:"event"`
	Person Person `json:"person"`
}

// NoteWithPerson pairs a note with its person for dashboard listings.
type NoteWithPerson struct {
	Note   Note   `json:"note"`
	Person Person `json:"person"`
}

// Dashboard is the aggregate summary shown on the home screen.
// DaysSinceLastGesture is -1 when no gesture was ever completed.
type Dashboard struct {
	DaysSinceLastGesture int               `json:"days_since_last_gesture"`
	UpcomingTaskCount    int               `json:"upcoming_task_count"`
	CompletedThisWeek    int               `json:"completed_this_week"`
	RecentGestures       []Gesture         `json:"recent_gestures"`
	UpcomingEvents       []EventWithPerson `json:"upcoming_events"`
	RecentNotes          []NoteWithPerson  `json:"recent_notes"`
	SuggestedGestures    []Gesture         `json:"suggested_gestures"`
}
