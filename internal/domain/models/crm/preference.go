package crm

import "time"

// Preference kinds
const (
	PreferenceKindLike    = "like"
	PreferenceKindDislike = "dislike"
)

// PersonPreference records one liked or disliked thing for a person.
// Values are normalized to lowercase; (person_id, kind, value) is unique.
type PersonPreference struct {
	ID           string    `json:"id" db:"id"`
	PersonID     string    `json:"person_id" db:"person_id"`
	Kind         string    `json:"kind" db:"kind"`
	Value        string    `json:"value" db:"value"`
	SourceNoteID *string   `json:"source_note_id,omitempty" db:"source_note_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
