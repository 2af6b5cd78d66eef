// Package dictation implements the session workflow: extract words from
// a photographed list, compose a dictation text, synthesize audio, and
// manage the session rows (favorites, tags, edits, deletion). Handlers
// stay thin; every step that talks to an external collaborator goes
// through the narrow interfaces below so it can be faked in tests.
package dictation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avrillon/dictee/internal/logging"
	"github.com/avrillon/dictee/internal/model"
	"github.com/avrillon/dictee/internal/queue"
	"github.com/avrillon/dictee/internal/settings"
	"github.com/avrillon/dictee/internal/storage"
)

// ErrPersist marks a database failure saving a result that was already
// generated. The generation itself succeeded, so handlers report it as
// a server fault, not an upstream one.
var ErrPersist = errors.New("persist generated result")

// SessionStore is the persistence surface, implemented by
// repository.SessionRepo.
type SessionStore interface {
	Create(ctx context.Context, userID uint64, imageURL string, words []string) (uint64, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.DictationSession, error)
	Get(ctx context.Context, id, userID uint64) (model.DictationSession, error)
	UpdateText(ctx context.Context, id, userID uint64, text string) error
	UpdateAudio(ctx context.Context, id, userID uint64, audioURL string) error
	ToggleFavorite(ctx context.Context, id, userID uint64) (bool, error)
	UpdateTags(ctx context.Context, id, userID uint64, tags []string) error
	Delete(ctx context.Context, id, userID uint64) error
}

// Extractor turns an image into an ordered word list (gemini.Client).
type Extractor interface {
	ExtractWords(ctx context.Context, apiKey, imageURL, customPrompt string) ([]string, error)
}

// Composer writes prose from a word list (gemini.Client).
type Composer interface {
	ComposeDictation(ctx context.Context, apiKey string, words []string, targetLength int, customPrompt string) (string, error)
}

// Synthesizer converts text to audio bytes (tts.Client).
type Synthesizer interface {
	Synthesize(ctx context.Context, apiKey, voiceID, text string, enablePauses bool) ([]byte, error)
}

// Service wires the workflow together. PublishCreated is optional
// fire-and-forget event publishing; nil disables it.
type Service struct {
	Sessions       SessionStore
	Settings       settings.Resolver
	Extractor      Extractor
	Composer       Composer
	Synthesizer    Synthesizer
	Store          storage.ObjectStore
	PublishCreated func(ctx context.Context, ev queue.SessionCreatedEvent) error
}

// ExtractResult is what a successful extraction returns to the client.
type ExtractResult struct {
	SessionID uint64   `json:"sessionId"`
	Words     []string `json:"words"`
}

// Extract resolves credentials, extracts the words from the uploaded
// image and creates a session when at least one word came back. An
// empty extraction is reported to the caller without a session, since
// sessions hold a non-empty word list by invariant.
func (s *Service) Extract(ctx context.Context, userID uint64, imageURL string) (ExtractResult, error) {
	cfg, err := s.Settings.Resolve(ctx, userID)
	if err != nil {
		return ExtractResult{}, err
	}

	words, err := s.Extractor.ExtractWords(ctx, cfg.GeminiAPIKey, imageURL, cfg.ExtractionPrompt)
	if err != nil {
		return ExtractResult{}, err
	}
	if len(words) == 0 {
		return ExtractResult{Words: []string{}}, nil
	}

	id, err := s.Sessions.Create(ctx, userID, imageURL, words)
	if err != nil {
		return ExtractResult{}, err
	}

	if s.PublishCreated != nil {
		_ = s.PublishCreated(ctx, queue.SessionCreatedEvent{
			SessionID: id,
			UserID:    userID,
			WordCount: len(words),
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}
	return ExtractResult{SessionID: id, Words: words}, nil
}

// Compose generates the dictation text from a word list. When a
// sessionId is given the text is saved on that session, but only after
// generation succeeded — a failed composition leaves the stored text
// untouched.
func (s *Service) Compose(ctx context.Context, userID uint64, words []string, sessionID uint64, targetLength int) (string, error) {
	if len(words) == 0 {
		return "", fmt.Errorf("compose: at least one word required")
	}
	cfg, err := s.Settings.Resolve(ctx, userID)
	if err != nil {
		return "", err
	}

	text, err := s.Composer.ComposeDictation(ctx, cfg.GeminiAPIKey, words, targetLength, cfg.CompositionPrompt)
	if err != nil {
		return "", err
	}

	if sessionID != 0 {
		if err := s.Sessions.UpdateText(ctx, sessionID, userID, text); err != nil {
			return "", fmt.Errorf("%w: %v", ErrPersist, err)
		}
	}
	return text, nil
}

// GenerateAudio synthesizes the text and uploads the MP3. Without an
// ElevenLabs key the component is bypassed entirely and an empty URL is
// returned so the client falls back to browser speech.
func (s *Service) GenerateAudio(ctx context.Context, userID uint64, text string, sessionID uint64) (string, error) {
	cfg, err := s.Settings.Resolve(ctx, userID)
	if err != nil {
		return "", err
	}
	if cfg.ElevenLabsAPIKey == "" {
		logging.L(ctx).Debug("no tts key, falling back to browser synthesis")
		return "", nil
	}

	audio, err := s.Synthesizer.Synthesize(ctx, cfg.ElevenLabsAPIKey, cfg.VoiceID, text, cfg.EnablePauses)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%d-dictations/audio-%d-%s.mp3", userID, time.Now().UnixMilli(), storage.RandomSuffix(4))
	url, err := s.Store.Put(ctx, key, audio, "audio/mpeg")
	if err != nil {
		return "", err
	}

	if sessionID != 0 {
		if err := s.Sessions.UpdateAudio(ctx, sessionID, userID, url); err != nil {
			return "", fmt.Errorf("%w: %v", ErrPersist, err)
		}
	}
	return url, nil
}

// List returns the caller's sessions.
func (s *Service) List(ctx context.Context, userID uint64) ([]model.DictationSession, error) {
	return s.Sessions.ListByUser(ctx, userID)
}

// Get returns one owned session.
func (s *Service) Get(ctx context.Context, id, userID uint64) (model.DictationSession, error) {
	return s.Sessions.Get(ctx, id, userID)
}

// UpdateText stores a manual edit of the dictation text.
func (s *Service) UpdateText(ctx context.Context, id, userID uint64, text string) error {
	return s.Sessions.UpdateText(ctx, id, userID, text)
}

// ToggleFavorite flips the favorite flag and returns the new state.
func (s *Service) ToggleFavorite(ctx context.Context, id, userID uint64) (bool, error) {
	return s.Sessions.ToggleFavorite(ctx, id, userID)
}

// UpdateTags replaces the tag set.
func (s *Service) UpdateTags(ctx context.Context, id, userID uint64, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	return s.Sessions.UpdateTags(ctx, id, userID, tags)
}

// Delete removes an owned session; for a foreign id it is a silent
// no-op by the store's ownership clause.
func (s *Service) Delete(ctx context.Context, id, userID uint64) error {
	return s.Sessions.Delete(ctx, id, userID)
}
