package gemini

import (
	"encoding/json"
	"strings"

	"github.com/avrillon/dictee/internal/model"
)

// Analysis is the validated result of one error-analysis call. The
// untyped model reply never propagates past this file.
type Analysis struct {
	Errors       []model.CorrectionError `json:"errors"`
	TotalWords   int                     `json:"totalWords"`
	CorrectWords int                     `json:"correctWords"`
	Feedback     string                  `json:"feedback"`
}

// splitWords turns raw extraction output into the ordered word list:
// split on commas and newlines, trim each token, drop empties. No
// deduplication — repeated words matter for composition.
func splitWords(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if w := strings.TrimSpace(f); w != "" {
			words = append(words, w)
		}
	}
	return words
}

// extractJSONBlock returns the first '{' through the last '}' of the
// response. Models habitually wrap the object in prose or markdown
// fences; the greedy span survives both and keeps nested objects whole.
func extractJSONBlock(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

// parseAnalysis decodes the model reply into an Analysis, applying the
// documented defaults: missing errors become an empty list, a missing
// feedback gets a fixed encouraging string, and unknown error types are
// normalized to "autre". A reply without a JSON object is a hard
// ErrInvalidResponse.
func parseAnalysis(raw string) (Analysis, error) {
	block, ok := extractJSONBlock(raw)
	if !ok {
		return Analysis{}, ErrInvalidResponse
	}
	var a Analysis
	if err := json.Unmarshal([]byte(block), &a); err != nil {
		return Analysis{}, ErrInvalidResponse
	}
	if a.Errors == nil {
		a.Errors = []model.CorrectionError{}
	}
	for i := range a.Errors {
		a.Errors[i].Type = normalizeErrorType(a.Errors[i].Type)
	}
	if strings.TrimSpace(a.Feedback) == "" {
		a.Feedback = defaultFeedback
	}
	return a, nil
}

func normalizeErrorType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case model.ErrorTypeSpelling, model.ErrorTypeGrammar, model.ErrorTypeConjugation,
		model.ErrorTypeAgreement, model.ErrorTypePunctuation:
		return strings.ToLower(strings.TrimSpace(t))
	}
	return model.ErrorTypeOther
}
