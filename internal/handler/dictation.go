package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avrillon/dictee/internal/dictation"
	"github.com/avrillon/dictee/internal/gemini"
	"github.com/avrillon/dictee/internal/model"
	"github.com/avrillon/dictee/internal/repository"
)

// DictationHandler exposes the session workflow over HTTP.
type DictationHandler struct {
	Svc *dictation.Service
}

func NewDictationHandler(svc *dictation.Service) *DictationHandler {
	return &DictationHandler{Svc: svc}
}

type extractReq struct {
	ImageURL string `json:"imageUrl"`
}
type composeReq struct {
	Words        []string `json:"words"`
	SessionID    uint64   `json:"sessionId"`
	TargetLength int      `json:"targetLength"`
}
type audioReq struct {
	Text      string `json:"text"`
	SessionID uint64 `json:"sessionId"`
}
type updateTextReq struct {
	DictationText string `json:"dictationText"`
}
type updateTagsReq struct {
	Tags []string `json:"tags"`
}

// Extract runs word extraction on an uploaded photo and creates a
// session when words were found.
func (h *DictationHandler) Extract(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req extractReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.ImageURL) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "imageUrl required"})
	}

	res, err := h.Svc.Extract(c.Request().Context(), uid, strings.TrimSpace(req.ImageURL))
	if err != nil {
		return aiError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Compose generates the dictation text for a word list.
func (h *DictationHandler) Compose(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req composeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.Words) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "words required"})
	}
	target := gemini.ClampTargetLength(req.TargetLength)

	text, err := h.Svc.Compose(c.Request().Context(), uid, req.Words, req.SessionID, target)
	if err != nil {
		return aiError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"dictationText": text})
}

// Audio synthesizes the dictation text and returns the stored MP3 URL,
// or null when hosted synthesis is not configured.
func (h *DictationHandler) Audio(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req audioReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text required"})
	}

	url, err := h.Svc.GenerateAudio(c.Request().Context(), uid, req.Text, req.SessionID)
	if err != nil {
		return aiError(c, err)
	}
	if url == "" {
		return c.JSON(http.StatusOK, echo.Map{"audioUrl": nil})
	}
	return c.JSON(http.StatusOK, echo.Map{"audioUrl": url})
}

// List returns the caller's sessions, newest first.
func (h *DictationHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sessions, err := h.Svc.List(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list sessions failed"})
	}
	if sessions == nil {
		sessions = []model.DictationSession{}
	}
	return c.JSON(http.StatusOK, echo.Map{"sessions": sessions})
}

// UpdateText stores a manual edit of a session's dictation text.
func (h *DictationHandler) UpdateText(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateTextReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.DictationText) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dictationText required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.UpdateText(ctx, id, uid, req.DictationText); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}

// Favorite toggles the favorite flag and returns the new state.
func (h *DictationHandler) Favorite(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	fav, err := h.Svc.ToggleFavorite(ctx, id, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "toggle failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"isFavorite": fav})
}

// UpdateTags replaces a session's tag set.
func (h *DictationHandler) UpdateTags(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateTagsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.UpdateTags(ctx, id, uid, req.Tags); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "updated"})
}

// Delete removes an owned session. Deleting someone else's id reports
// success without touching anything.
func (h *DictationHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.Delete(ctx, id, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}
