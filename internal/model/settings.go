package model

import "time"

// APIKey is the per-user credential record (one row per user). It
// carries the Gemini key required by every AI-dependent operation plus
// optional ElevenLabs credentials and playback preferences. In the
// per-user deployment mode the absence of this row blocks all AI
// operations for that user.
type APIKey struct {
	ID                uint64    // api_keys.id
	UserID            uint64    // api_keys.user_id (unique)
	GeminiAPIKey      string    // api_keys.gemini_api_key
	WordInterval      int       // api_keys.word_interval (seconds between read words)
	ElevenLabsAPIKey  string    // api_keys.elevenlabs_api_key (optional)
	ElevenLabsVoiceID string    // api_keys.elevenlabs_voice_id
	EnablePauses      bool      // api_keys.enable_pauses
	CreatedAt         time.Time // api_keys.created_at
	UpdatedAt         time.Time // api_keys.updated_at
}

// Keys of the global_settings mapping used in the global deployment
// mode. The same semantic fields as APIKey plus the three prompt
// templates that admins may customize.
const (
	SettingGeminiAPIKey      = "geminiApiKey"
	SettingElevenLabsAPIKey  = "elevenlabsApiKey"
	SettingElevenLabsVoiceID = "elevenlabsVoiceId"
	SettingEnablePauses      = "enablePauses"
	SettingWordInterval      = "wordInterval"
	SettingPromptExtraction  = "promptExtraction"
	SettingPromptComposition = "promptComposition"
	SettingPromptAnalysis    = "promptAnalysis"
)
