package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/avrillon/dictee/internal/model"
)

// SessionRepo persists dictation sessions. Every statement that touches
// an existing row carries `user_id` in its WHERE clause, so a caller can
// never read or mutate a session owned by someone else; mutations on a
// foreign id silently affect zero rows.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Create inserts a session from a successful extraction and returns its id.
func (r *SessionRepo) Create(ctx context.Context, userID uint64, imageURL string, words []string) (uint64, error) {
	wordsJSON, err := json.Marshal(words)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO dictation_sessions (user_id, image_url, words) VALUES (?,?,?)",
		userID, imageURL, string(wordsJSON))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListByUser returns all sessions of one user, newest first.
func (r *SessionRepo) ListByUser(ctx context.Context, userID uint64) ([]model.DictationSession, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, image_url, words, COALESCE(generated_dictation,''),
		        COALESCE(audio_url,''), is_favorite, COALESCE(tags,'[]'), created_at
		 FROM dictation_sessions WHERE user_id=? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.DictationSession
	for rows.Next() {
		s, err := scanSession(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Get returns one session by id, scoped to its owner.
func (r *SessionRepo) Get(ctx context.Context, id, userID uint64) (model.DictationSession, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, image_url, words, COALESCE(generated_dictation,''),
		        COALESCE(audio_url,''), is_favorite, COALESCE(tags,'[]'), created_at
		 FROM dictation_sessions WHERE id=? AND user_id=? LIMIT 1`, id, userID)
	s, err := scanSession(row.Scan)
	if err == sql.ErrNoRows {
		return model.DictationSession{}, ErrNotFound
	}
	return s, err
}

// UpdateText stores a (re)generated or hand-edited dictation text.
func (r *SessionRepo) UpdateText(ctx context.Context, id, userID uint64, text string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE dictation_sessions SET generated_dictation=? WHERE id=? AND user_id=?",
		text, id, userID)
	return err
}

// UpdateAudio stores the URL of freshly synthesized audio.
func (r *SessionRepo) UpdateAudio(ctx context.Context, id, userID uint64, audioURL string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE dictation_sessions SET audio_url=? WHERE id=? AND user_id=?",
		audioURL, id, userID)
	return err
}

// ToggleFavorite flips is_favorite and returns the new state. The row
// is read first so the toggle semantics stay an idempotent pair.
func (r *SessionRepo) ToggleFavorite(ctx context.Context, id, userID uint64) (bool, error) {
	var current bool
	err := r.DB.QueryRowContext(ctx,
		"SELECT is_favorite FROM dictation_sessions WHERE id=? AND user_id=? LIMIT 1",
		id, userID).Scan(&current)
	if err == sql.ErrNoRows {
		return false, ErrNotFound
	}
	if err != nil {
		return false, err
	}
	next := !current
	_, err = r.DB.ExecContext(ctx,
		"UPDATE dictation_sessions SET is_favorite=? WHERE id=? AND user_id=?",
		next, id, userID)
	return next, err
}

// UpdateTags replaces the tag set.
func (r *SessionRepo) UpdateTags(ctx context.Context, id, userID uint64, tags []string) error {
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"UPDATE dictation_sessions SET tags=? WHERE id=? AND user_id=?",
		string(tagsJSON), id, userID)
	return err
}

// Delete removes a session. Deleting an id the caller does not own
// matches zero rows and reports success, by the same WHERE clause.
func (r *SessionRepo) Delete(ctx context.Context, id, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM dictation_sessions WHERE id=? AND user_id=?", id, userID)
	return err
}

func scanSession(scan func(...any) error) (model.DictationSession, error) {
	var (
		s          model.DictationSession
		wordsJSON  string
		tagsJSON   string
	)
	if err := scan(&s.ID, &s.UserID, &s.ImageURL, &wordsJSON, &s.GeneratedDictation,
		&s.AudioURL, &s.IsFavorite, &tagsJSON, &s.CreatedAt); err != nil {
		return model.DictationSession{}, err
	}
	if err := json.Unmarshal([]byte(wordsJSON), &s.Words); err != nil {
		return model.DictationSession{}, err
	}
	if err := json.Unmarshal([]byte(tagsJSON), &s.Tags); err != nil {
		return model.DictationSession{}, err
	}
	return s, nil
}
