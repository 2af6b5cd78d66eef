// Package handler defines the HTTP handlers.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/avrillon/dictee/internal/dictation"
	"github.com/avrillon/dictee/internal/gemini"
	"github.com/avrillon/dictee/internal/settings"
)

// getUserID extracts the user_id set by the JWT middleware. JSON
// number claims come back as float64, so all the plausible shapes are
// handled.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// aiError maps the failure modes of an AI-backed operation to a JSON
// response. Configuration problems are the caller's to fix (400),
// content blocks carry actionable guidance (422), a database failure
// after successful generation is a server fault (500, details stay in
// the logs), everything else from upstream is a 502.
func aiError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, settings.ErrNotConfigured):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "not_configured", "message": err.Error()})
	case errors.Is(err, dictation.ErrPersist):
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "persist_failed", "message": "could not save the generated result"})
	case errors.Is(err, gemini.ErrContentBlocked):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "content_blocked", "message": err.Error()})
	case errors.Is(err, gemini.ErrEmptyGeneration), errors.Is(err, gemini.ErrInvalidResponse):
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "bad_model_response", "message": err.Error()})
	default:
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "upstream_failed", "message": err.Error()})
	}
}
