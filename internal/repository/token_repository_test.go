package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRefreshUsable(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-time.Minute)
	revoked := sql.NullTime{Time: now.Add(-time.Hour), Valid: true}

	cases := []struct {
		name      string
		expiresAt time.Time
		revokedAt sql.NullTime
		want      bool
	}{
		{"active", future, sql.NullTime{}, true},
		{"expired", past, sql.NullTime{}, false},
		{"revoked", future, revoked, false},
		{"revoked and expired", past, revoked, false},
		{"expires exactly now", now, sql.NullTime{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, refreshUsable(tc.expiresAt, tc.revokedAt, now))
		})
	}
}

func TestValidateRefreshReportsRepositorySentinel(t *testing.T) {
	// The auth layer matches on ErrNotFound, never on sql.ErrNoRows.
	assert.NotErrorIs(t, ErrNotFound, sql.ErrNoRows)
}
