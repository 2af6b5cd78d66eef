package repository

import (
	"context"
	"database/sql"
)

// SettingRepo stores the flat key->value mapping backing the global
// settings mode. Only admins may write; reads are unrestricted at this
// layer because handlers filter secrets out of responses.
type SettingRepo struct{ DB *sql.DB }

func NewSettingRepo(db *sql.DB) *SettingRepo { return &SettingRepo{DB: db} }

// Get returns the value for one key. Missing keys yield ErrNotFound.
func (r *SettingRepo) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := r.DB.QueryRowContext(ctx,
		"SELECT setting_value FROM global_settings WHERE setting_key=? LIMIT 1", key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return v, err
}

// Set upserts a single key.
func (r *SettingRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO global_settings (setting_key, setting_value) VALUES (?,?)
		 ON DUPLICATE KEY UPDATE setting_value=VALUES(setting_value)`,
		key, value)
	return err
}

// All returns the whole mapping. An empty table is not an error.
func (r *SettingRepo) All(ctx context.Context) (map[string]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT setting_key, setting_value FROM global_settings")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}
