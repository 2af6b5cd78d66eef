package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/avrillon/dictee/internal/logging"
)

// Target length bounds for a composed dictation, in words.
const (
	MinTargetLength     = 50
	MaxTargetLength     = 300
	DefaultTargetLength = 100
)

// ClampTargetLength brings a requested length into the supported range;
// zero or negative means the default.
func ClampTargetLength(n int) int {
	if n <= 0 {
		return DefaultTargetLength
	}
	if n < MinTargetLength {
		return MinTargetLength
	}
	if n > MaxTargetLength {
		return MaxTargetLength
	}
	return n
}

// ComposeDictation asks the text model for continuous prose of roughly
// targetLength words using every supplied word. The retry budget is a
// fixed two-attempt state machine: a content-policy block fails
// immediately with ErrContentBlocked, a merely empty first response is
// retried once with a simplified prompt and a halved target, and a
// second empty response fails with ErrEmptyGeneration. The returned
// text is trimmed and never empty.
func (c *Client) ComposeDictation(ctx context.Context, apiKey string, words []string, targetLength int, customPrompt string) (string, error) {
	if len(words) == 0 {
		return "", fmt.Errorf("compose: empty word list")
	}
	targetLength = ClampTargetLength(targetLength)

	text, err := c.composeOnce(ctx, apiKey, buildCompositionPrompt(words, targetLength, customPrompt))
	if err != nil {
		return "", err
	}
	if text != "" {
		return text, nil
	}

	// Empty but not blocked: one simplified retry with a lower target.
	retryLength := targetLength / 2
	if retryLength < MinTargetLength {
		retryLength = MinTargetLength
	}
	logging.L(ctx).WithField("retry_target", retryLength).Warn("empty composition, retrying simplified")

	text, err = c.composeOnce(ctx, apiKey, buildSimplifiedCompositionPrompt(words, retryLength))
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", ErrEmptyGeneration
	}
	return text, nil
}

func (c *Client) composeOnce(ctx context.Context, apiKey, prompt string) (string, error) {
	temp := float32(0.7)
	res, err := c.generate(ctx, apiKey,
		[]*genai.Part{genai.NewPartFromText(prompt)},
		&genai.GenerateContentConfig{
			Temperature:     &temp,
			MaxOutputTokens: 2048,
		})
	if err != nil {
		return "", err
	}
	if blocked(res.FinishReason) {
		return "", fmt.Errorf("%w (finish reason %s): essayez avec moins de mots", ErrContentBlocked, res.FinishReason)
	}
	return strings.TrimSpace(res.Text), nil
}
