package gemini

import (
	"context"

	"google.golang.org/genai"

	"github.com/avrillon/dictee/internal/logging"
)

// ExtractWords downloads the image, sends it to the vision model with
// the extraction prompt and returns the ordered word list. Headers,
// numbering and category labels are excluded by the prompt itself, not
// by post-processing. An empty list is a valid result, not an error.
func (c *Client) ExtractWords(ctx context.Context, apiKey, imageURL, customPrompt string) ([]string, error) {
	data, mime, err := c.fetchImage(ctx, imageURL)
	if err != nil {
		return nil, err
	}

	temp := float32(0.1)
	res, err := c.generate(ctx, apiKey,
		[]*genai.Part{
			genai.NewPartFromText(buildExtractionPrompt(customPrompt)),
			genai.NewPartFromBytes(data, mime),
		},
		&genai.GenerateContentConfig{
			Temperature:     &temp,
			MaxOutputTokens: 2048,
		})
	if err != nil {
		return nil, err
	}

	words := splitWords(res.Text)
	logging.L(ctx).WithField("word_count", len(words)).Debug("extraction done")
	return words, nil
}
