// Package settings resolves AI credentials and prompt customizations for
// a request. Two mutually exclusive strategies exist, selected once at
// deployment time: per-user resolution from the caller's api_keys row,
// or global resolution from the admin-maintained mapping. Components
// always receive the resolved value, never a handle to the store.
package settings

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/avrillon/dictee/internal/model"
	"github.com/avrillon/dictee/internal/repository"
)

// Defaults applied when a field is absent from the backing store.
const (
	DefaultVoiceID      = "21m00Tcm4TlvDq8ikWAM" // ElevenLabs "Rachel"
	DefaultWordInterval = 5
)

// ErrNotConfigured signals that no Gemini credential could be resolved.
// It is reported before any network call is attempted and is never
// retried automatically.
var ErrNotConfigured = errors.New("no Gemini API key configured")

// Resolved is the full configuration handed to the AI components for
// one operation. Empty ElevenLabsAPIKey means hosted synthesis is
// bypassed. Empty prompt fields mean the component defaults apply.
type Resolved struct {
	GeminiAPIKey      string
	ElevenLabsAPIKey  string
	VoiceID           string
	WordInterval      int
	EnablePauses      bool
	ExtractionPrompt  string
	CompositionPrompt string
	AnalysisPrompt    string
}

// Resolver yields the configuration for a given user. Implementations
// must return ErrNotConfigured when the Gemini key is absent.
type Resolver interface {
	Resolve(ctx context.Context, userID uint64) (Resolved, error)
}

// APIKeyStore is the slice of repository.APIKeyRepo the per-user
// resolver needs.
type APIKeyStore interface {
	GetByUserID(ctx context.Context, userID uint64) (model.APIKey, error)
}

// SettingStore is the slice of repository.SettingRepo the global
// resolver needs.
type SettingStore interface {
	All(ctx context.Context) (map[string]string, error)
}

// UserResolver resolves from the caller's own api_keys row. Absence of
// the row is a hard precondition failure; there is no fallback to a
// shared key.
type UserResolver struct{ Keys APIKeyStore }

func NewUserResolver(keys APIKeyStore) *UserResolver { return &UserResolver{Keys: keys} }

func (r *UserResolver) Resolve(ctx context.Context, userID uint64) (Resolved, error) {
	k, err := r.Keys.GetByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return Resolved{}, ErrNotConfigured
	}
	if err != nil {
		return Resolved{}, err
	}
	if strings.TrimSpace(k.GeminiAPIKey) == "" {
		return Resolved{}, ErrNotConfigured
	}
	res := Resolved{
		GeminiAPIKey:     k.GeminiAPIKey,
		ElevenLabsAPIKey: k.ElevenLabsAPIKey,
		VoiceID:          k.ElevenLabsVoiceID,
		WordInterval:     k.WordInterval,
		EnablePauses:     k.EnablePauses,
	}
	if res.VoiceID == "" {
		res.VoiceID = DefaultVoiceID
	}
	if res.WordInterval <= 0 {
		res.WordInterval = DefaultWordInterval
	}
	return res, nil
}

// GlobalResolver resolves from the shared mapping regardless of the
// calling user. A missing Gemini key produces the same failure class as
// in per-user mode, but the fix belongs to an administrator.
type GlobalResolver struct{ Settings SettingStore }

func NewGlobalResolver(settings SettingStore) *GlobalResolver {
	return &GlobalResolver{Settings: settings}
}

func (r *GlobalResolver) Resolve(ctx context.Context, _ uint64) (Resolved, error) {
	all, err := r.Settings.All(ctx)
	if err != nil {
		return Resolved{}, err
	}
	if strings.TrimSpace(all[model.SettingGeminiAPIKey]) == "" {
		return Resolved{}, ErrNotConfigured
	}
	res := Resolved{
		GeminiAPIKey:      all[model.SettingGeminiAPIKey],
		ElevenLabsAPIKey:  all[model.SettingElevenLabsAPIKey],
		VoiceID:           all[model.SettingElevenLabsVoiceID],
		WordInterval:      DefaultWordInterval,
		EnablePauses:      true,
		ExtractionPrompt:  all[model.SettingPromptExtraction],
		CompositionPrompt: all[model.SettingPromptComposition],
		AnalysisPrompt:    all[model.SettingPromptAnalysis],
	}
	if res.VoiceID == "" {
		res.VoiceID = DefaultVoiceID
	}
	if v := all[model.SettingWordInterval]; v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			res.WordInterval = n
		}
	}
	if v := all[model.SettingEnablePauses]; v != "" {
		res.EnablePauses = v == "true" || v == "1"
	}
	return res, nil
}
