package model

import "time"

// Error categories reported by the analysis model. Anything outside the
// known set is normalized to ErrorTypeOther by the parser.
const (
	ErrorTypeSpelling    = "orthographe"
	ErrorTypeGrammar     = "grammaire"
	ErrorTypeConjugation = "conjugaison"
	ErrorTypeAgreement   = "accord"
	ErrorTypePunctuation = "ponctuation"
	ErrorTypeOther       = "autre"
)

// CorrectionError is one detected mistake in a hand-written attempt.
// Position is a 1-based index into the word sequence of the reference
// text. The list is embedded in the correction row as a JSON array.
type CorrectionError struct {
	Type        string `json:"type"`
	Original    string `json:"original"`
	User        string `json:"user"`
	Explanation string `json:"explanation"`
	Position    int    `json:"position"`
}

// DictationCorrection is the immutable result of one correction run:
// a reference text compared against the text extracted from a photo of
// the user's attempt. Rows are append-only; there is no update or
// delete path.
//
// Invariants: 0 <= CorrectWords <= TotalWords and
// Score = round(100*CorrectWords/TotalWords) when TotalWords > 0,
// otherwise Score = 0.
type DictationCorrection struct {
	ID                uint64            `json:"id"`                // dictation_corrections.id
	UserID            uint64            `json:"userId"`            // dictation_corrections.user_id
	SessionID         *uint64           `json:"sessionId"`         // dictation_corrections.session_id (nullable)
	OriginalText      string            `json:"originalText"`      // dictation_corrections.original_text
	UserImageURL      string            `json:"userImageUrl"`      // dictation_corrections.user_image_url
	ExtractedUserText string            `json:"extractedUserText"` // dictation_corrections.extracted_user_text
	Errors            []CorrectionError `json:"errors"`            // dictation_corrections.errors (JSON array)
	Score             int               `json:"score"`             // dictation_corrections.score (0-100)
	TotalWords        int               `json:"totalWords"`        // dictation_corrections.total_words
	CorrectWords      int               `json:"correctWords"`      // dictation_corrections.correct_words
	CreatedAt         time.Time         `json:"createdAt"`         // dictation_corrections.created_at
}
