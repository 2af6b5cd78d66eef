package gemini

import "errors"

// ErrContentBlocked is returned when generation stops with a
// safety/recitation finish reason. Retrying with identical input is
// pointless; callers should reduce or change the word list.
var ErrContentBlocked = errors.New("generation blocked by content policy")

// ErrEmptyGeneration is returned when composition produced empty text
// on both the primary and the simplified fallback attempt.
var ErrEmptyGeneration = errors.New("empty generation after retries")

// ErrInvalidResponse is returned when the analysis response contains no
// parsable JSON object. The correction run fails hard; nothing is
// persisted.
var ErrInvalidResponse = errors.New("invalid response format")
