package tts

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertPauses(t *testing.T) {
	got := InsertPauses("Bonjour, le chat dort. Fin")
	want := `Bonjour,<break time="1s" /> le chat dort.<break time="1.5s" /> Fin`
	assert.Equal(t, want, got)
}

func TestInsertPausesNoPunctuation(t *testing.T) {
	assert.Equal(t, "rien à changer", InsertPauses("rien à changer"))
}

func testClient(url string) *Client {
	c := NewClient()
	c.BaseURL = url
	return c
}

func TestVoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/voices", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("xi-api-key"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"voices": []map[string]any{
				{"voice_id": "v1", "name": "Rachel", "labels": map[string]string{"language": "en"}},
				{"voice_id": "v2", "name": "Antoine"},
			},
		})
	}))
	defer srv.Close()

	voices, err := testClient(srv.URL).Voices(context.Background(), "test-key")
	require.NoError(t, err)
	require.Len(t, voices, 2)
	assert.Equal(t, "v1", voices[0].ID)
	assert.Equal(t, "Rachel", voices[0].Name)
	assert.Equal(t, "en", voices[0].Labels["language"])
	assert.NotNil(t, voices[1].Labels)
}

func TestSynthesizeSendsPausedText(t *testing.T) {
	var sent struct {
		Text    string `json:"text"`
		ModelID string `json:"model_id"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/text-to-speech/voix-1", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &sent))
		_, _ = w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	audio, err := testClient(srv.URL).Synthesize(context.Background(), "k", "voix-1", "Un, deux.", true)
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3-bytes"), audio)
	assert.Equal(t, `Un,<break time="1s" /> deux.<break time="1.5s" />`, sent.Text)
	assert.Equal(t, synthesisModelID, sent.ModelID)
}

func TestSynthesizeWithoutPausesKeepsTextVerbatim(t *testing.T) {
	var sent struct {
		Text string `json:"text"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &sent))
		_, _ = w.Write([]byte("x"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Synthesize(context.Background(), "k", "v", "Un, deux.", false)
	require.NoError(t, err)
	assert.Equal(t, "Un, deux.", sent.Text)
}

func TestUpstreamDetailMessageSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"detail": map[string]any{"message": "invalid api key"},
		})
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Synthesize(context.Background(), "bad", "v", "texte", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestUpstreamErrorWithoutDetailFallsBackToStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Voices(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
