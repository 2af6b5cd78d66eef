// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names. One durable queue per event kind.
const (
	SessionCreatedQueue   = "dictation.session.created"
	CorrectionScoredQueue = "dictation.correction.scored"
)

// SessionCreatedEvent is published when word extraction succeeds and a
// new dictation session is stored.
type SessionCreatedEvent struct {
	SessionID uint64 `json:"session_id"`
	UserID    uint64 `json:"user_id"`
	WordCount int    `json:"word_count"`
	CreatedAt string `json:"created_at"`
}

// CorrectionScoredEvent is published after a correction run persists
// its row. It carries enough for downstream consumers to log or build
// progress analytics without querying the primary database.
type CorrectionScoredEvent struct {
	CorrectionID uint64  `json:"correction_id"`
	UserID       uint64  `json:"user_id"`
	SessionID    *uint64 `json:"session_id,omitempty"`
	Score        int     `json:"score"`
	TotalWords   int     `json:"total_words"`
	CorrectWords int     `json:"correct_words"`
	ErrorCount   int     `json:"error_count"`
	ScoredAt     string  `json:"scored_at"`
}
