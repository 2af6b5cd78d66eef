// Package gemini wraps the three Gemini calls this service makes:
// extracting words from a photographed list, composing a dictation
// passage from a word list, and diffing a hand-written attempt against
// its reference text. Each call is one blocking round trip issued from
// the handling request; credentials arrive per call from the settings
// resolver.
package gemini

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/avrillon/dictee/internal/logging"
)

const defaultModelName = "gemini-2.5-flash"

// genResult is the validated slice of a GenerateContent response the
// rest of the package works with; the raw SDK response never leaves
// this file.
type genResult struct {
	Text         string
	FinishReason genai.FinishReason
}

// generateFunc performs one generation round trip. It is a field on the
// Client so tests can substitute a fake without any network.
type generateFunc func(ctx context.Context, apiKey string, parts []*genai.Part, cfg *genai.GenerateContentConfig) (genResult, error)

// Client issues Gemini calls. The zero value is not usable; use NewClient.
type Client struct {
	model    string
	httpc    *http.Client
	generate generateFunc
}

func NewClient() *Client {
	c := &Client{
		model: defaultModelName,
		httpc: &http.Client{Timeout: 30 * time.Second},
	}
	c.generate = c.generateContent
	return c
}

func (c *Client) generateContent(ctx context.Context, apiKey string, parts []*genai.Part, cfg *genai.GenerateContentConfig) (genResult, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return genResult{}, fmt.Errorf("gemini client: %w", err)
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	start := time.Now()
	resp, err := client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return genResult{}, fmt.Errorf("gemini api error: %w", err)
	}

	out := genResult{Text: resp.Text()}
	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
		out.FinishReason = resp.Candidates[0].FinishReason
	}
	logging.L(ctx).WithField("latency_ms", time.Since(start).Milliseconds()).
		WithField("finish_reason", string(out.FinishReason)).
		Debug("gemini generate done")
	return out, nil
}

// fetchImage downloads the image bytes and reports a usable mime type.
func (c *Client) fetchImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch image: unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("fetch image: %w", err)
	}
	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = "image/jpeg"
	}
	return data, mime, nil
}

// blocked reports whether a finish reason means the content policy
// stopped generation, as opposed to a plain empty or truncated answer.
func blocked(reason genai.FinishReason) bool {
	switch reason {
	case genai.FinishReasonSafety, genai.FinishReasonRecitation, genai.FinishReasonProhibitedContent:
		return true
	}
	return false
}
