package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avrillon/dictee/internal/tts"
)

type fakeVoiceLister struct {
	voices []tts.Voice
	err    error
	calls  int
}

func (f *fakeVoiceLister) Voices(ctx context.Context, apiKey string) ([]tts.Voice, error) {
	f.calls++
	return f.voices, f.err
}

func TestVoiceCatalogueEmptyKeyBypassesUpstream(t *testing.T) {
	lister := &fakeVoiceLister{}
	cat := NewVoiceCatalogue(lister, nil)

	voices, err := cat.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, voices)
	assert.Equal(t, 0, lister.calls)
}

func TestVoiceCatalogueWithoutCache(t *testing.T) {
	lister := &fakeVoiceLister{voices: []tts.Voice{{ID: "v1", Name: "Rachel"}}}
	cat := NewVoiceCatalogue(lister, nil)

	voices, err := cat.List(context.Background(), "key")
	require.NoError(t, err)
	require.Len(t, voices, 1)
	assert.Equal(t, "Rachel", voices[0].Name)

	// nil redis means every call goes upstream
	_, err = cat.List(context.Background(), "key")
	require.NoError(t, err)
	assert.Equal(t, 2, lister.calls)
}
