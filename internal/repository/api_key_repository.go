package repository

import (
	"context"
	"database/sql"

	"github.com/avrillon/dictee/internal/model"
)

// APIKeyRepo stores the per-user credential rows backing the per-user
// settings mode. One row per user, upserted as a whole.
type APIKeyRepo struct{ DB *sql.DB }

func NewAPIKeyRepo(db *sql.DB) *APIKeyRepo { return &APIKeyRepo{DB: db} }

// GetByUserID fetches the caller's credential row. ErrNotFound means
// the user has not configured a key yet, which blocks all AI-dependent
// operations in per-user mode.
func (r *APIKeyRepo) GetByUserID(ctx context.Context, userID uint64) (model.APIKey, error) {
	var k model.APIKey
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, gemini_api_key, word_interval,
		        COALESCE(elevenlabs_api_key,''), elevenlabs_voice_id, enable_pauses,
		        created_at, updated_at
		 FROM api_keys WHERE user_id=? LIMIT 1`,
		userID).Scan(&k.ID, &k.UserID, &k.GeminiAPIKey, &k.WordInterval,
		&k.ElevenLabsAPIKey, &k.ElevenLabsVoiceID, &k.EnablePauses,
		&k.CreatedAt, &k.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.APIKey{}, ErrNotFound
	}
	return k, err
}

// Upsert saves the full credential row for a user, inserting on first
// save and replacing every field afterwards.
func (r *APIKeyRepo) Upsert(ctx context.Context, k model.APIKey) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO api_keys
		   (user_id, gemini_api_key, word_interval, elevenlabs_api_key, elevenlabs_voice_id, enable_pauses)
		 VALUES (?,?,?,?,?,?)
		 ON DUPLICATE KEY UPDATE
		   gemini_api_key=VALUES(gemini_api_key),
		   word_interval=VALUES(word_interval),
		   elevenlabs_api_key=VALUES(elevenlabs_api_key),
		   elevenlabs_voice_id=VALUES(elevenlabs_voice_id),
		   enable_pauses=VALUES(enable_pauses)`,
		k.UserID, k.GeminiAPIKey, k.WordInterval, nullIfEmpty(k.ElevenLabsAPIKey),
		k.ElevenLabsVoiceID, k.EnablePauses)
	return err
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
