package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avrillon/dictee/internal/model"
)

func TestSplitWordsKeepsOrderAndDropsEmptyTokens(t *testing.T) {
	words := splitWords("chat, , maison\nrivière")
	assert.Equal(t, []string{"chat", "maison", "rivière"}, words)
}

func TestSplitWordsPreservesDuplicates(t *testing.T) {
	words := splitWords("le, chat, le, chien")
	assert.Equal(t, []string{"le", "chat", "le", "chien"}, words)
}

func TestSplitWordsEmptyInput(t *testing.T) {
	assert.Empty(t, splitWords("  \n , ,\n"))
	assert.Empty(t, splitWords(""))
}

func TestExtractJSONBlockGreedySpan(t *testing.T) {
	raw := "Voici le résultat :\n```json\n{\"errors\":[{\"type\":\"orthographe\"}],\"totalWords\":10}\n```\nmerci"
	block, ok := extractJSONBlock(raw)
	require.True(t, ok)
	assert.Equal(t, `{"errors":[{"type":"orthographe"}],"totalWords":10}`, block)
}

func TestExtractJSONBlockNestedObjects(t *testing.T) {
	raw := `prefix {"a":{"b":1},"c":{"d":2}} suffix`
	block, ok := extractJSONBlock(raw)
	require.True(t, ok)
	assert.Equal(t, `{"a":{"b":1},"c":{"d":2}}`, block)
}

func TestExtractJSONBlockMissing(t *testing.T) {
	_, ok := extractJSONBlock("pas de JSON ici")
	assert.False(t, ok)
	_, ok = extractJSONBlock("} inversé {")
	assert.False(t, ok)
}

func TestParseAnalysisFull(t *testing.T) {
	raw := `{"errors":[{"type":"orthographe","original":"maison","user":"maizon",` +
		`"explanation":"s et non z","position":3}],` +
		`"totalWords":50,"correctWords":45,"feedback":"Bien joué"}`
	a, err := parseAnalysis(raw)
	require.NoError(t, err)
	assert.Equal(t, 50, a.TotalWords)
	assert.Equal(t, 45, a.CorrectWords)
	assert.Equal(t, "Bien joué", a.Feedback)
	require.Len(t, a.Errors, 1)
	assert.Equal(t, model.ErrorTypeSpelling, a.Errors[0].Type)
	assert.Equal(t, 3, a.Errors[0].Position)
}

func TestParseAnalysisAppliesDefaults(t *testing.T) {
	a, err := parseAnalysis(`{"totalWords":12,"correctWords":12}`)
	require.NoError(t, err)
	assert.NotNil(t, a.Errors)
	assert.Empty(t, a.Errors)
	assert.Equal(t, defaultFeedback, a.Feedback)
}

func TestParseAnalysisNormalizesUnknownErrorType(t *testing.T) {
	a, err := parseAnalysis(`{"errors":[{"type":"typo","position":1}],"totalWords":5,"correctWords":4}`)
	require.NoError(t, err)
	require.Len(t, a.Errors, 1)
	assert.Equal(t, model.ErrorTypeOther, a.Errors[0].Type)
}

func TestParseAnalysisNoJSONIsHardFailure(t *testing.T) {
	_, err := parseAnalysis("désolé, je ne peux pas répondre en JSON")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestParseAnalysisMalformedJSONIsHardFailure(t *testing.T) {
	_, err := parseAnalysis(`{"totalWords": douze}`)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}
