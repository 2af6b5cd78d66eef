package dictation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/avrillon/dictee/internal/model"
	"github.com/avrillon/dictee/internal/queue"
	"github.com/avrillon/dictee/internal/settings"
)

type fakeResolver struct {
	cfg settings.Resolved
	err error
}

func (f *fakeResolver) Resolve(ctx context.Context, userID uint64) (settings.Resolved, error) {
	return f.cfg, f.err
}

type fakeExtractor struct {
	words []string
	err   error
	calls int
}

func (f *fakeExtractor) ExtractWords(ctx context.Context, apiKey, imageURL, customPrompt string) ([]string, error) {
	f.calls++
	return f.words, f.err
}

type fakeComposer struct {
	text  string
	err   error
	calls int
}

func (f *fakeComposer) ComposeDictation(ctx context.Context, apiKey string, words []string, targetLength int, customPrompt string) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeSynthesizer struct {
	audio []byte
	err   error
	calls int
	text  string
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, apiKey, voiceID, text string, enablePauses bool) ([]byte, error) {
	f.calls++
	f.text = text
	return f.audio, f.err
}

type fakeObjectStore struct {
	key   string
	data  []byte
	err   error
	calls int
}

func (f *fakeObjectStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	f.calls++
	f.key = key
	f.data = data
	if f.err != nil {
		return "", f.err
	}
	return "https://cdn.example.com/" + key, nil
}

// memSessionStore is an in-memory SessionStore with the same ownership
// semantics as the SQL repository: every lookup is scoped to user_id.
type memSessionStore struct {
	rows    map[uint64]*model.DictationSession
	nextID  uint64
	failMut error // injected failure for text/audio updates
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{rows: map[uint64]*model.DictationSession{}}
}

func (m *memSessionStore) owned(id, userID uint64) *model.DictationSession {
	s, ok := m.rows[id]
	if !ok || s.UserID != userID {
		return nil
	}
	return s
}

func (m *memSessionStore) Create(ctx context.Context, userID uint64, imageURL string, words []string) (uint64, error) {
	m.nextID++
	m.rows[m.nextID] = &model.DictationSession{
		ID: m.nextID, UserID: userID, ImageURL: imageURL,
		Words: words, Tags: []string{},
	}
	return m.nextID, nil
}

func (m *memSessionStore) ListByUser(ctx context.Context, userID uint64) ([]model.DictationSession, error) {
	var out []model.DictationSession
	for id := m.nextID; id >= 1; id-- {
		if s := m.owned(id, userID); s != nil {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memSessionStore) Get(ctx context.Context, id, userID uint64) (model.DictationSession, error) {
	if s := m.owned(id, userID); s != nil {
		return *s, nil
	}
	return model.DictationSession{}, errors.New("not found")
}

func (m *memSessionStore) UpdateText(ctx context.Context, id, userID uint64, text string) error {
	if m.failMut != nil {
		return m.failMut
	}
	if s := m.owned(id, userID); s != nil {
		s.GeneratedDictation = text
	}
	return nil
}

func (m *memSessionStore) UpdateAudio(ctx context.Context, id, userID uint64, audioURL string) error {
	if m.failMut != nil {
		return m.failMut
	}
	if s := m.owned(id, userID); s != nil {
		s.AudioURL = audioURL
	}
	return nil
}

func (m *memSessionStore) ToggleFavorite(ctx context.Context, id, userID uint64) (bool, error) {
	s := m.owned(id, userID)
	if s == nil {
		return false, errors.New("not found")
	}
	s.IsFavorite = !s.IsFavorite
	return s.IsFavorite, nil
}

func (m *memSessionStore) UpdateTags(ctx context.Context, id, userID uint64, tags []string) error {
	if s := m.owned(id, userID); s != nil {
		s.Tags = tags
	}
	return nil
}

func (m *memSessionStore) Delete(ctx context.Context, id, userID uint64) error {
	if m.owned(id, userID) != nil {
		delete(m.rows, id)
	}
	return nil
}

type ServiceSuite struct {
	suite.Suite

	resolver    *fakeResolver
	extractor   *fakeExtractor
	composer    *fakeComposer
	synthesizer *fakeSynthesizer
	objects     *fakeObjectStore
	sessions    *memSessionStore
	svc         *Service
	events      []queue.SessionCreatedEvent
}

func (s *ServiceSuite) SetupTest() {
	s.resolver = &fakeResolver{cfg: settings.Resolved{
		GeminiAPIKey:     "gk",
		ElevenLabsAPIKey: "ek",
		VoiceID:          settings.DefaultVoiceID,
		EnablePauses:     true,
	}}
	s.extractor = &fakeExtractor{words: []string{"chat", "maison", "rivière"}}
	s.composer = &fakeComposer{text: "Le chat dort près de la rivière, devant la maison."}
	s.synthesizer = &fakeSynthesizer{audio: []byte("mp3")}
	s.objects = &fakeObjectStore{}
	s.sessions = newMemSessionStore()
	s.events = nil
	s.svc = &Service{
		Sessions:    s.sessions,
		Settings:    s.resolver,
		Extractor:   s.extractor,
		Composer:    s.composer,
		Synthesizer: s.synthesizer,
		Store:       s.objects,
		PublishCreated: func(ctx context.Context, ev queue.SessionCreatedEvent) error {
			s.events = append(s.events, ev)
			return nil
		},
	}
}

func (s *ServiceSuite) TestExtractCreatesSession() {
	res, err := s.svc.Extract(context.Background(), 1, "https://img/list.jpg")
	s.Require().NoError(err)
	s.NotZero(res.SessionID)
	s.Equal([]string{"chat", "maison", "rivière"}, res.Words)

	stored, err := s.sessions.Get(context.Background(), res.SessionID, 1)
	s.Require().NoError(err)
	s.Equal("https://img/list.jpg", stored.ImageURL)
	s.Equal(res.Words, stored.Words)

	s.Require().Len(s.events, 1)
	s.Equal(res.SessionID, s.events[0].SessionID)
	s.Equal(3, s.events[0].WordCount)
}

func (s *ServiceSuite) TestExtractEmptyResultCreatesNoSession() {
	s.extractor.words = nil

	res, err := s.svc.Extract(context.Background(), 1, "https://img/blank.jpg")
	s.Require().NoError(err)
	s.Zero(res.SessionID)
	s.Empty(res.Words)
	s.Empty(s.sessions.rows)
	s.Empty(s.events)
}

func (s *ServiceSuite) TestExtractNotConfigured() {
	s.resolver.err = settings.ErrNotConfigured

	_, err := s.svc.Extract(context.Background(), 1, "https://img/list.jpg")
	s.Require().ErrorIs(err, settings.ErrNotConfigured)
	s.Equal(0, s.extractor.calls)
}

func (s *ServiceSuite) TestComposeSavesOnSession() {
	id, _ := s.sessions.Create(context.Background(), 1, "u", []string{"chat"})

	text, err := s.svc.Compose(context.Background(), 1, []string{"chat"}, id, 100)
	s.Require().NoError(err)
	s.Equal(s.composer.text, text)

	stored, _ := s.sessions.Get(context.Background(), id, 1)
	s.Equal(text, stored.GeneratedDictation)
}

func (s *ServiceSuite) TestComposeFailureLeavesTextUntouched() {
	id, _ := s.sessions.Create(context.Background(), 1, "u", []string{"chat"})
	_ = s.sessions.UpdateText(context.Background(), id, 1, "ancien texte")
	s.composer.err = errors.New("generation blocked")

	_, err := s.svc.Compose(context.Background(), 1, []string{"chat"}, id, 100)
	s.Require().Error(err)

	stored, _ := s.sessions.Get(context.Background(), id, 1)
	s.Equal("ancien texte", stored.GeneratedDictation)
}

func (s *ServiceSuite) TestComposeSaveFailureIsPersistError() {
	id, _ := s.sessions.Create(context.Background(), 1, "u", []string{"chat"})
	s.sessions.failMut = errors.New("connection reset")

	_, err := s.svc.Compose(context.Background(), 1, []string{"chat"}, id, 100)
	s.Require().ErrorIs(err, ErrPersist)
	s.Equal(1, s.composer.calls)
}

func (s *ServiceSuite) TestAudioSaveFailureIsPersistError() {
	id, _ := s.sessions.Create(context.Background(), 1, "u", []string{"chat"})
	s.sessions.failMut = errors.New("connection reset")

	_, err := s.svc.GenerateAudio(context.Background(), 1, "Le chat dort.", id)
	s.Require().ErrorIs(err, ErrPersist)
	// the audio itself was generated and uploaded before the save failed
	s.Equal(1, s.synthesizer.calls)
	s.Equal(1, s.objects.calls)
}

func (s *ServiceSuite) TestComposeRejectsEmptyWordList() {
	_, err := s.svc.Compose(context.Background(), 1, nil, 0, 100)
	s.Require().Error(err)
	s.Equal(0, s.composer.calls)
}

func (s *ServiceSuite) TestGenerateAudioUploadsAndSaves() {
	id, _ := s.sessions.Create(context.Background(), 4, "u", []string{"chat"})

	url, err := s.svc.GenerateAudio(context.Background(), 4, "Le chat dort.", id)
	s.Require().NoError(err)
	s.True(strings.HasPrefix(url, "https://cdn.example.com/4-dictations/audio-"), url)
	s.True(strings.HasSuffix(s.objects.key, ".mp3"))
	s.Equal([]byte("mp3"), s.objects.data)

	stored, _ := s.sessions.Get(context.Background(), id, 4)
	s.Equal(url, stored.AudioURL)
}

func (s *ServiceSuite) TestGenerateAudioBypassWithoutKey() {
	s.resolver.cfg.ElevenLabsAPIKey = ""

	url, err := s.svc.GenerateAudio(context.Background(), 1, "Le chat dort.", 0)
	s.Require().NoError(err)
	s.Empty(url)
	s.Equal(0, s.synthesizer.calls)
	s.Equal(0, s.objects.calls)
}

func (s *ServiceSuite) TestFavoriteTogglePairRestoresState() {
	id, _ := s.sessions.Create(context.Background(), 1, "u", []string{"chat"})

	fav, err := s.svc.ToggleFavorite(context.Background(), id, 1)
	s.Require().NoError(err)
	s.True(fav)

	fav, err = s.svc.ToggleFavorite(context.Background(), id, 1)
	s.Require().NoError(err)
	s.False(fav)
}

func (s *ServiceSuite) TestDeleteForeignSessionIsNoOp() {
	id, _ := s.sessions.Create(context.Background(), 1, "u", []string{"chat"})

	s.Require().NoError(s.svc.Delete(context.Background(), id, 2))

	_, err := s.sessions.Get(context.Background(), id, 1)
	s.NoError(err)
}

func (s *ServiceSuite) TestListScopedToOwner() {
	_, _ = s.sessions.Create(context.Background(), 1, "a", []string{"chat"})
	_, _ = s.sessions.Create(context.Background(), 2, "b", []string{"chien"})
	_, _ = s.sessions.Create(context.Background(), 1, "c", []string{"loup"})

	list, err := s.svc.List(context.Background(), 1)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("c", list[0].ImageURL)
	s.Equal("a", list[1].ImageURL)
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}
