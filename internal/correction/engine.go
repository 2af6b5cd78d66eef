// Package correction scores handwritten dictation attempts. A run is a
// linear pipeline: resolve credentials, read the words off the photo,
// have the model compare them against the reference text, compute the
// score and persist a single immutable correction row. Any failing step
// aborts the run and nothing is stored.
package correction

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/avrillon/dictee/internal/gemini"
	"github.com/avrillon/dictee/internal/model"
	"github.com/avrillon/dictee/internal/queue"
	"github.com/avrillon/dictee/internal/settings"
)

// Extractor reads the word list off the user's photographed attempt.
type Extractor interface {
	ExtractWords(ctx context.Context, apiKey, imageURL, customPrompt string) ([]string, error)
}

// Analyzer compares the transcribed attempt with the reference text.
type Analyzer interface {
	AnalyzeDictation(ctx context.Context, apiKey, referenceText, candidateText, customPrompt string) (gemini.Analysis, error)
}

// Store persists finished corrections (repository.CorrectionRepo).
type Store interface {
	Create(ctx context.Context, c model.DictationCorrection) (uint64, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.DictationCorrection, error)
	Get(ctx context.Context, id, userID uint64) (model.DictationCorrection, error)
}

// Engine runs corrections. PublishScored is optional fire-and-forget
// event publishing; nil disables it.
type Engine struct {
	Corrections   Store
	Settings      settings.Resolver
	Extractor     Extractor
	Analyzer      Analyzer
	PublishScored func(ctx context.Context, ev queue.CorrectionScoredEvent) error
}

// Result is the outcome of a completed correction run. Feedback is
// shown once and not persisted; everything else maps to the stored row.
type Result struct {
	CorrectionID uint64                  `json:"correctionId"`
	Errors       []model.CorrectionError `json:"errors"`
	Score        int                     `json:"score"`
	TotalWords   int                     `json:"totalWords"`
	CorrectWords int                     `json:"correctWords"`
	UserText     string                  `json:"userText"`
	Feedback     string                  `json:"feedback"`
}

// ComputeScore maps word counts to a 0..100 percentage. Counts are
// clamped first: negatives become zero and correct never exceeds
// total. A zero total scores zero. Returns score, clamped correct,
// clamped total.
func ComputeScore(correct, total int) (int, int, int) {
	if total < 0 {
		total = 0
	}
	if correct < 0 {
		correct = 0
	}
	if correct > total {
		correct = total
	}
	if total == 0 {
		return 0, correct, total
	}
	score := int(math.Round(float64(correct) * 100 / float64(total)))
	return score, correct, total
}

// Run executes one correction of the photographed attempt at imageURL
// against referenceText. sessionID may be zero when the attempt is not
// linked to a stored session.
func (e *Engine) Run(ctx context.Context, userID uint64, referenceText, imageURL string, sessionID uint64) (Result, error) {
	cfg, err := e.Settings.Resolve(ctx, userID)
	if err != nil {
		return Result{}, err
	}

	words, err := e.Extractor.ExtractWords(ctx, cfg.GeminiAPIKey, imageURL, cfg.ExtractionPrompt)
	if err != nil {
		return Result{}, err
	}
	userText := strings.Join(words, " ")

	analysis, err := e.Analyzer.AnalyzeDictation(ctx, cfg.GeminiAPIKey, referenceText, userText, cfg.AnalysisPrompt)
	if err != nil {
		return Result{}, err
	}

	score, correct, total := ComputeScore(analysis.CorrectWords, analysis.TotalWords)

	var sid *uint64
	if sessionID != 0 {
		sid = &sessionID
	}
	id, err := e.Corrections.Create(ctx, model.DictationCorrection{
		UserID:            userID,
		SessionID:         sid,
		OriginalText:      referenceText,
		UserImageURL:      imageURL,
		ExtractedUserText: userText,
		Errors:            analysis.Errors,
		Score:             score,
		TotalWords:        total,
		CorrectWords:      correct,
	})
	if err != nil {
		return Result{}, err
	}

	if e.PublishScored != nil {
		_ = e.PublishScored(ctx, queue.CorrectionScoredEvent{
			CorrectionID: id,
			UserID:       userID,
			SessionID:    sid,
			Score:        score,
			TotalWords:   total,
			CorrectWords: correct,
			ErrorCount:   len(analysis.Errors),
			ScoredAt:     time.Now().UTC().Format(time.RFC3339),
		})
	}

	return Result{
		CorrectionID: id,
		Errors:       analysis.Errors,
		Score:        score,
		TotalWords:   total,
		CorrectWords: correct,
		UserText:     userText,
		Feedback:     analysis.Feedback,
	}, nil
}

// List returns the caller's past corrections, newest first.
func (e *Engine) List(ctx context.Context, userID uint64) ([]model.DictationCorrection, error) {
	return e.Corrections.ListByUser(ctx, userID)
}

// Get returns one owned correction.
func (e *Engine) Get(ctx context.Context, id, userID uint64) (model.DictationCorrection, error) {
	return e.Corrections.Get(ctx, id, userID)
}
