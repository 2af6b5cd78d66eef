package settings

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avrillon/dictee/internal/logging"
	"github.com/avrillon/dictee/internal/tts"
)

const voicesCacheTTL = 10 * time.Minute

// VoiceLister is implemented by the tts client.
type VoiceLister interface {
	Voices(ctx context.Context, apiKey string) ([]tts.Voice, error)
}

// VoiceCatalogue serves the ElevenLabs voice list with a redis cache in
// front. The catalogue rarely changes and the upstream listing counts
// against the account quota, so results are cached per credential. A
// nil redis client disables caching; the catalogue still works.
type VoiceCatalogue struct {
	TTS VoiceLister
	RDB *redis.Client
}

func NewVoiceCatalogue(lister VoiceLister, rdb *redis.Client) *VoiceCatalogue {
	return &VoiceCatalogue{TTS: lister, RDB: rdb}
}

// List returns the voices for the given credential. An empty apiKey
// yields an empty list without any upstream call — that is the
// "no hosted TTS" bypass, not an error.
func (v *VoiceCatalogue) List(ctx context.Context, apiKey string) ([]tts.Voice, error) {
	if apiKey == "" {
		return []tts.Voice{}, nil
	}

	cacheKey := voicesCacheKey(apiKey)
	if v.RDB != nil {
		if raw, err := v.RDB.Get(ctx, cacheKey).Result(); err == nil {
			var cached []tts.Voice
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached, nil
			}
		}
	}

	voices, err := v.TTS.Voices(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	if v.RDB != nil {
		if raw, err := json.Marshal(voices); err == nil {
			if err := v.RDB.Set(ctx, cacheKey, raw, voicesCacheTTL).Err(); err != nil {
				logging.L(ctx).WithError(err).Warn("voice cache write failed")
			}
		}
	}
	return voices, nil
}

// voicesCacheKey hashes the credential so the key itself never lands in
// redis.
func voicesCacheKey(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return "voices:" + hex.EncodeToString(sum[:8])
}
