package model

import "time"

// DictationSession is one extraction-to-composition unit anchored on a
// single source image. A session is created when word extraction
// succeeds and mutated as the user composes text, generates audio or
// manages favorites and tags. Words and Tags are stored as JSON arrays
// in TEXT columns and decoded by the repository.
//
// Invariant: Words is a non-empty ordered list whenever the row exists.
type DictationSession struct {
	ID                 uint64    `json:"id"`                 // dictation_sessions.id
	UserID             uint64    `json:"userId"`             // dictation_sessions.user_id
	ImageURL           string    `json:"imageUrl"`           // dictation_sessions.image_url
	Words              []string  `json:"words"`              // dictation_sessions.words (JSON array)
	GeneratedDictation string    `json:"generatedDictation"` // dictation_sessions.generated_dictation (empty when not composed yet)
	AudioURL           string    `json:"audioUrl"`           // dictation_sessions.audio_url (empty when no hosted audio)
	IsFavorite         bool      `json:"isFavorite"`         // dictation_sessions.is_favorite
	Tags               []string  `json:"tags"`               // dictation_sessions.tags (JSON array)
	CreatedAt          time.Time `json:"createdAt"`          // dictation_sessions.created_at
}
