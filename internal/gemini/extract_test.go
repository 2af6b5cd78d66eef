package gemini

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestExtractWordsOrderPreserved(t *testing.T) {
	img := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("fake-png-bytes"))
	}))
	defer img.Close()

	fake := &fakeGenerator{results: []genResult{
		{Text: "chat, , maison\nrivière", FinishReason: genai.FinishReasonStop},
	}}
	words, err := newTestClient(fake).ExtractWords(context.Background(), "key", img.URL, "")

	require.NoError(t, err)
	assert.Equal(t, []string{"chat", "maison", "rivière"}, words)
	assert.Equal(t, 1, fake.calls)
}

func TestExtractWordsEmptyResultIsNotAnError(t *testing.T) {
	img := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("fake-jpeg-bytes"))
	}))
	defer img.Close()

	fake := &fakeGenerator{results: []genResult{{Text: "", FinishReason: genai.FinishReasonStop}}}
	words, err := newTestClient(fake).ExtractWords(context.Background(), "key", img.URL, "")

	require.NoError(t, err)
	assert.Empty(t, words)
}

func TestExtractWordsImageFetchFailure(t *testing.T) {
	img := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer img.Close()

	fake := &fakeGenerator{}
	_, err := newTestClient(fake).ExtractWords(context.Background(), "key", img.URL, "")

	require.Error(t, err)
	assert.Equal(t, 0, fake.calls, "no model call when the image cannot be fetched")
}
