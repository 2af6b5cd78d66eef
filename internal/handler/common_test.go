package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avrillon/dictee/internal/dictation"
	"github.com/avrillon/dictee/internal/gemini"
	"github.com/avrillon/dictee/internal/settings"
)

func mapError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, aiError(e.NewContext(req, rec), err))
	return rec
}

func TestAIErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not configured", settings.ErrNotConfigured, http.StatusBadRequest},
		{"content blocked", fmt.Errorf("%w: essayez avec moins de mots", gemini.ErrContentBlocked), http.StatusUnprocessableEntity},
		{"empty generation", gemini.ErrEmptyGeneration, http.StatusBadGateway},
		{"invalid response", gemini.ErrInvalidResponse, http.StatusBadGateway},
		{"persist failure", fmt.Errorf("%w: %v", dictation.ErrPersist, errors.New("connection reset")), http.StatusInternalServerError},
		{"generic upstream", errors.New("elevenlabs api error: status 502"), http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := mapError(t, tc.err)
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestAIErrorPersistHidesDatabaseDetail(t *testing.T) {
	rec := mapError(t, fmt.Errorf("%w: %v", dictation.ErrPersist, errors.New("Error 1213: deadlock found")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "1213")
	assert.Contains(t, rec.Body.String(), "persist_failed")
}
