package gemini

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"google.golang.org/genai"
)

// fakeGenerator scripts successive generate results so the two-attempt
// composition state machine can run without any network.
type fakeGenerator struct {
	results []genResult
	errs    []error
	calls   int
	prompts []string
}

func (f *fakeGenerator) generate(_ context.Context, _ string, parts []*genai.Part, _ *genai.GenerateContentConfig) (genResult, error) {
	i := f.calls
	f.calls++
	if len(parts) > 0 && parts[0] != nil {
		f.prompts = append(f.prompts, parts[0].Text)
	}
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	var res genResult
	if i < len(f.results) {
		res = f.results[i]
	}
	return res, err
}

func newTestClient(f *fakeGenerator) *Client {
	c := NewClient()
	c.generate = f.generate
	return c
}

type ComposeSuite struct {
	suite.Suite
}

func TestComposeSuite(t *testing.T) {
	suite.Run(t, new(ComposeSuite))
}

func (s *ComposeSuite) TestHappyPathSingleAttempt() {
	fake := &fakeGenerator{results: []genResult{
		{Text: "Le chat dort près de la rivière.", FinishReason: genai.FinishReasonStop},
	}}
	text, err := newTestClient(fake).ComposeDictation(context.Background(), "key",
		[]string{"chat", "rivière"}, 0, "")

	s.Require().NoError(err)
	s.Equal("Le chat dort près de la rivière.", text)
	s.Equal(1, fake.calls)
}

func (s *ComposeSuite) TestBlockedFailsImmediatelyWithoutRetry() {
	fake := &fakeGenerator{results: []genResult{
		{Text: "", FinishReason: genai.FinishReasonSafety},
	}}
	_, err := newTestClient(fake).ComposeDictation(context.Background(), "key",
		[]string{"mot"}, 100, "")

	s.Require().ErrorIs(err, ErrContentBlocked)
	s.Equal(1, fake.calls, "a content-policy block must not be retried")
}

func (s *ComposeSuite) TestEmptyResponseRetriesSimplifiedOnce() {
	fake := &fakeGenerator{results: []genResult{
		{Text: "", FinishReason: genai.FinishReasonStop},
		{Text: "Texte simple.", FinishReason: genai.FinishReasonStop},
	}}
	text, err := newTestClient(fake).ComposeDictation(context.Background(), "key",
		[]string{"mot"}, 200, "")

	s.Require().NoError(err)
	s.Equal("Texte simple.", text)
	s.Equal(2, fake.calls)
	s.Require().Len(fake.prompts, 2)
	s.Contains(fake.prompts[1], "environ 100 mots", "retry halves the target length")
}

func (s *ComposeSuite) TestEmptyAfterRetryFails() {
	fake := &fakeGenerator{results: []genResult{
		{Text: "   ", FinishReason: genai.FinishReasonStop},
		{Text: "", FinishReason: genai.FinishReasonStop},
	}}
	_, err := newTestClient(fake).ComposeDictation(context.Background(), "key",
		[]string{"mot"}, 100, "")

	s.Require().ErrorIs(err, ErrEmptyGeneration)
	s.Equal(2, fake.calls, "retry budget is fixed at two attempts")
}

func (s *ComposeSuite) TestBlockedOnRetryStillFailsAsBlocked() {
	fake := &fakeGenerator{results: []genResult{
		{Text: "", FinishReason: genai.FinishReasonStop},
		{Text: "", FinishReason: genai.FinishReasonRecitation},
	}}
	_, err := newTestClient(fake).ComposeDictation(context.Background(), "key",
		[]string{"mot"}, 100, "")

	s.Require().ErrorIs(err, ErrContentBlocked)
}

func (s *ComposeSuite) TestEmptyWordListRejectedBeforeAnyCall() {
	fake := &fakeGenerator{}
	_, err := newTestClient(fake).ComposeDictation(context.Background(), "key", nil, 100, "")

	s.Require().Error(err)
	s.Equal(0, fake.calls)
}

func (s *ComposeSuite) TestClampTargetLength() {
	s.Equal(DefaultTargetLength, ClampTargetLength(0))
	s.Equal(MinTargetLength, ClampTargetLength(10))
	s.Equal(MaxTargetLength, ClampTargetLength(1000))
	s.Equal(120, ClampTargetLength(120))
}

func (s *ComposeSuite) TestAnalyzeUsesCountsFromModel() {
	fake := &fakeGenerator{results: []genResult{
		{Text: `{"errors":[],"totalWords":50,"correctWords":45,"feedback":"ok"}`, FinishReason: genai.FinishReasonStop},
	}}
	a, err := newTestClient(fake).AnalyzeDictation(context.Background(), "key", "ref", "cand", "")

	s.Require().NoError(err)
	s.Equal(50, a.TotalWords)
	s.Equal(45, a.CorrectWords)
}

func (s *ComposeSuite) TestAnalyzeInvalidResponse() {
	fake := &fakeGenerator{results: []genResult{
		{Text: "pas de JSON", FinishReason: genai.FinishReasonStop},
	}}
	_, err := newTestClient(fake).AnalyzeDictation(context.Background(), "key", "ref", "cand", "")

	s.Require().ErrorIs(err, ErrInvalidResponse)
}
