package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/avrillon/dictee/internal/model"
)

// CorrectionRepo persists correction runs. Rows are append-only: the
// engine inserts exactly one row per successful run and nothing ever
// updates or deletes it.
type CorrectionRepo struct{ DB *sql.DB }

func NewCorrectionRepo(db *sql.DB) *CorrectionRepo { return &CorrectionRepo{DB: db} }

// Create inserts one immutable correction row and returns its id.
func (r *CorrectionRepo) Create(ctx context.Context, c model.DictationCorrection) (uint64, error) {
	errorsJSON, err := json.Marshal(c.Errors)
	if err != nil {
		return 0, err
	}
	var sessionID any
	if c.SessionID != nil {
		sessionID = *c.SessionID
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO dictation_corrections
		   (user_id, session_id, original_text, user_image_url, extracted_user_text,
		    errors, score, total_words, correct_words)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		c.UserID, sessionID, c.OriginalText, c.UserImageURL, c.ExtractedUserText,
		string(errorsJSON), c.Score, c.TotalWords, c.CorrectWords)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListByUser returns the caller's correction history, newest first.
func (r *CorrectionRepo) ListByUser(ctx context.Context, userID uint64) ([]model.DictationCorrection, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, user_id, session_id, original_text, user_image_url, extracted_user_text,
		        errors, score, total_words, correct_words, created_at
		 FROM dictation_corrections WHERE user_id=? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.DictationCorrection
	for rows.Next() {
		c, err := scanCorrection(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Get returns one correction by id, scoped to its owner.
func (r *CorrectionRepo) Get(ctx context.Context, id, userID uint64) (model.DictationCorrection, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, session_id, original_text, user_image_url, extracted_user_text,
		        errors, score, total_words, correct_words, created_at
		 FROM dictation_corrections WHERE id=? AND user_id=? LIMIT 1`, id, userID)
	c, err := scanCorrection(row.Scan)
	if err == sql.ErrNoRows {
		return model.DictationCorrection{}, ErrNotFound
	}
	return c, err
}

func scanCorrection(scan func(...any) error) (model.DictationCorrection, error) {
	var (
		c          model.DictationCorrection
		sessionID  sql.NullInt64
		errorsJSON string
	)
	if err := scan(&c.ID, &c.UserID, &sessionID, &c.OriginalText, &c.UserImageURL,
		&c.ExtractedUserText, &errorsJSON, &c.Score, &c.TotalWords, &c.CorrectWords,
		&c.CreatedAt); err != nil {
		return model.DictationCorrection{}, err
	}
	if sessionID.Valid {
		id := uint64(sessionID.Int64)
		c.SessionID = &id
	}
	if err := json.Unmarshal([]byte(errorsJSON), &c.Errors); err != nil {
		return model.DictationCorrection{}, err
	}
	return c, nil
}
