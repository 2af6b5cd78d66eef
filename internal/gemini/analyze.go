package gemini

import (
	"context"

	"google.golang.org/genai"

	"github.com/avrillon/dictee/internal/logging"
)

// AnalyzeDictation sends the reference text and the candidate's
// extracted text to the model and parses the mandatory JSON object out
// of the reply. The word counts come from the model; scoring from those
// counts belongs to the correction engine. No retry happens here — a
// malformed reply surfaces as ErrInvalidResponse and the run dies.
func (c *Client) AnalyzeDictation(ctx context.Context, apiKey, referenceText, candidateText, customPrompt string) (Analysis, error) {
	temp := float32(0.2)
	res, err := c.generate(ctx, apiKey,
		[]*genai.Part{genai.NewPartFromText(buildAnalysisPrompt(referenceText, candidateText, customPrompt))},
		&genai.GenerateContentConfig{
			Temperature:     &temp,
			MaxOutputTokens: 4096,
		})
	if err != nil {
		return Analysis{}, err
	}

	a, err := parseAnalysis(res.Text)
	if err != nil {
		return Analysis{}, err
	}
	logging.L(ctx).WithField("error_count", len(a.Errors)).
		WithField("total_words", a.TotalWords).
		Debug("analysis done")
	return a, nil
}
