// Package tts talks to the ElevenLabs REST API: listing the voices a
// credential may use and synthesizing dictation audio. When no
// ElevenLabs key is configured the whole component is bypassed upstream
// and the client falls back to browser speech synthesis.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avrillon/dictee/internal/logging"
)

const defaultBaseURL = "https://api.elevenlabs.io"

const synthesisModelID = "eleven_multilingual_v2"

// Voice is one entry of the account's voice catalogue. Labels carry
// provider metadata such as language and gender.
type Voice struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels"`
}

// Client calls the ElevenLabs API. BaseURL is overridable for tests.
type Client struct {
	BaseURL string
	httpc   *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		httpc:   &http.Client{Timeout: 60 * time.Second},
	}
}

// Voices lists the voices available to the given credential.
func (c *Client) Voices(ctx context.Context, apiKey string) ([]Voice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/v1/voices", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs api error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var payload struct {
		Voices []struct {
			VoiceID string            `json:"voice_id"`
			Name    string            `json:"name"`
			Labels  map[string]string `json:"labels"`
		} `json:"voices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("elevenlabs voices: decode: %w", err)
	}

	voices := make([]Voice, 0, len(payload.Voices))
	for _, v := range payload.Voices {
		labels := v.Labels
		if labels == nil {
			labels = map[string]string{}
		}
		voices = append(voices, Voice{ID: v.VoiceID, Name: v.Name, Labels: labels})
	}
	return voices, nil
}

// Synthesize converts text to MP3 audio with the given voice. When
// enablePauses is set, break markup is inserted after commas and
// periods before the request goes out; this is a transform on the text,
// not on the audio.
func (c *Client) Synthesize(ctx context.Context, apiKey, voiceID, text string, enablePauses bool) ([]byte, error) {
	if enablePauses {
		text = InsertPauses(text)
	}

	body, err := json.Marshal(map[string]any{
		"text":     text,
		"model_id": synthesisModelID,
		"voice_settings": map[string]any{
			"stability":         0.5,
			"similarity_boost":  0.75,
			"style":             0.0,
			"use_speaker_boost": true,
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/v1/text-to-speech/"+voiceID, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs api error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs synthesis: read: %w", err)
	}
	logging.L(ctx).WithField("voice_id", voiceID).
		WithField("audio_bytes", len(audio)).
		Debug("synthesis done")
	return audio, nil
}

// InsertPauses adds break markup after punctuation: a short pause after
// every comma, a longer one after every period.
func InsertPauses(text string) string {
	text = strings.ReplaceAll(text, ",", `,<break time="1s" />`)
	return strings.ReplaceAll(text, ".", `.<break time="1.5s" />`)
}

// apiError extracts the upstream detail message when present so that
// diagnostics reach the caller verbatim.
func apiError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Detail struct {
			Message string `json:"message"`
		} `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Detail.Message != "" {
		return fmt.Errorf("elevenlabs api error: %s", payload.Detail.Message)
	}
	return fmt.Errorf("elevenlabs api error: status %d", resp.StatusCode)
}
