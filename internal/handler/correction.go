package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avrillon/dictee/internal/correction"
	"github.com/avrillon/dictee/internal/model"
	"github.com/avrillon/dictee/internal/repository"
)

// CorrectionHandler exposes correction runs and their history.
type CorrectionHandler struct {
	Engine *correction.Engine
}

func NewCorrectionHandler(e *correction.Engine) *CorrectionHandler {
	return &CorrectionHandler{Engine: e}
}

type correctionReq struct {
	OriginalText string `json:"originalText"`
	UserImageURL string `json:"userImageUrl"`
	SessionID    uint64 `json:"sessionId"`
}

// Create runs one correction of a photographed attempt against the
// reference text and returns the full result.
func (h *CorrectionHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req correctionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.OriginalText) == "" || strings.TrimSpace(req.UserImageURL) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "originalText and userImageUrl required"})
	}

	res, err := h.Engine.Run(c.Request().Context(), uid, req.OriginalText, strings.TrimSpace(req.UserImageURL), req.SessionID)
	if err != nil {
		return aiError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// List returns the caller's correction history, newest first.
func (h *CorrectionHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Engine.List(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list corrections failed"})
	}
	if list == nil {
		list = []model.DictationCorrection{}
	}
	return c.JSON(http.StatusOK, echo.Map{"corrections": list})
}

// Get returns one owned correction.
func (h *CorrectionHandler) Get(c echo.Context) error {
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

	cor, err := h.Engine.Get(ctx, id, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "correction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load correction failed"})
	}
	return c.JSON(http.StatusOK, cor)
}
