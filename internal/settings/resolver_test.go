package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avrillon/dictee/internal/model"
	"github.com/avrillon/dictee/internal/repository"
)

type fakeKeyStore struct {
	key model.APIKey
	err error
}

func (f *fakeKeyStore) GetByUserID(ctx context.Context, userID uint64) (model.APIKey, error) {
	return f.key, f.err
}

type fakeSettingStore struct {
	values map[string]string
	err    error
}

func (f *fakeSettingStore) All(ctx context.Context) (map[string]string, error) {
	return f.values, f.err
}

func TestUserResolverDefaults(t *testing.T) {
	r := NewUserResolver(&fakeKeyStore{key: model.APIKey{
		UserID:       1,
		GeminiAPIKey: "gk",
	}})

	res, err := r.Resolve(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "gk", res.GeminiAPIKey)
	assert.Empty(t, res.ElevenLabsAPIKey)
	assert.Equal(t, DefaultVoiceID, res.VoiceID)
	assert.Equal(t, DefaultWordInterval, res.WordInterval)
}

func TestUserResolverMissingRow(t *testing.T) {
	r := NewUserResolver(&fakeKeyStore{err: repository.ErrNotFound})

	_, err := r.Resolve(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestUserResolverBlankKey(t *testing.T) {
	r := NewUserResolver(&fakeKeyStore{key: model.APIKey{UserID: 1, GeminiAPIKey: "  "}})

	_, err := r.Resolve(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestUserResolverStoreErrorPassesThrough(t *testing.T) {
	boom := errors.New("connection reset")
	r := NewUserResolver(&fakeKeyStore{err: boom})

	_, err := r.Resolve(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotConfigured)
}

func TestGlobalResolverFullMapping(t *testing.T) {
	r := NewGlobalResolver(&fakeSettingStore{values: map[string]string{
		model.SettingGeminiAPIKey:      "gk",
		model.SettingElevenLabsAPIKey:  "ek",
		model.SettingElevenLabsVoiceID: "voice-1",
		model.SettingWordInterval:      "8",
		model.SettingEnablePauses:      "false",
		model.SettingPromptExtraction:  "extraction override",
		model.SettingPromptComposition: "composition override",
		model.SettingPromptAnalysis:    "analysis override",
	}})

	res, err := r.Resolve(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "gk", res.GeminiAPIKey)
	assert.Equal(t, "ek", res.ElevenLabsAPIKey)
	assert.Equal(t, "voice-1", res.VoiceID)
	assert.Equal(t, 8, res.WordInterval)
	assert.False(t, res.EnablePauses)
	assert.Equal(t, "extraction override", res.ExtractionPrompt)
	assert.Equal(t, "composition override", res.CompositionPrompt)
	assert.Equal(t, "analysis override", res.AnalysisPrompt)
}

func TestGlobalResolverDefaults(t *testing.T) {
	r := NewGlobalResolver(&fakeSettingStore{values: map[string]string{
		model.SettingGeminiAPIKey: "gk",
	}})

	res, err := r.Resolve(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, DefaultVoiceID, res.VoiceID)
	assert.Equal(t, DefaultWordInterval, res.WordInterval)
	assert.True(t, res.EnablePauses)
}

func TestGlobalResolverMissingKey(t *testing.T) {
	r := NewGlobalResolver(&fakeSettingStore{values: map[string]string{}})

	_, err := r.Resolve(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGlobalResolverIgnoresBadInterval(t *testing.T) {
	r := NewGlobalResolver(&fakeSettingStore{values: map[string]string{
		model.SettingGeminiAPIKey: "gk",
		model.SettingWordInterval: "not-a-number",
	}})

	res, err := r.Resolve(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, DefaultWordInterval, res.WordInterval)
}
