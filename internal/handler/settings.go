package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avrillon/dictee/internal/config"
	"github.com/avrillon/dictee/internal/model"
	"github.com/avrillon/dictee/internal/repository"
	"github.com/avrillon/dictee/internal/settings"
)

// SettingsHandler serves the configuration endpoints. The read view
// never returns stored API keys, only presence flags; the write side
// depends on the deployment mode: per-user rows in user mode, the
// shared global_settings mapping (admin only) in global mode.
type SettingsHandler struct {
	Cfg      config.Config
	Keys     *repository.APIKeyRepo
	Globals  *repository.SettingRepo
	Resolver settings.Resolver
	Voices   *settings.VoiceCatalogue
}

func NewSettingsHandler(cfg config.Config, keys *repository.APIKeyRepo, globals *repository.SettingRepo, res settings.Resolver, voices *settings.VoiceCatalogue) *SettingsHandler {
	return &SettingsHandler{Cfg: cfg, Keys: keys, Globals: globals, Resolver: res, Voices: voices}
}

type settingsView struct {
	Mode             string `json:"mode"`
	HasGeminiKey     bool   `json:"hasGeminiKey"`
	HasElevenLabsKey bool   `json:"hasElevenlabsKey"`
	VoiceID          string `json:"elevenlabsVoiceId"`
	WordInterval     int    `json:"wordInterval"`
	EnablePauses     bool   `json:"enablePauses"`
}

type settingsUpdateReq struct {
	GeminiAPIKey      *string `json:"geminiApiKey"`
	ElevenLabsAPIKey  *string `json:"elevenlabsApiKey"`
	ElevenLabsVoiceID *string `json:"elevenlabsVoiceId"`
	WordInterval      *int    `json:"wordInterval"`
	EnablePauses      *bool   `json:"enablePauses"`
}

// Get returns the caller's effective settings with secrets reduced to
// presence flags.
func (h *SettingsHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	resolved, err := h.Resolver.Resolve(ctx, uid)
	if err != nil && !errors.Is(err, settings.ErrNotConfigured) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load settings failed"})
	}
	// ErrNotConfigured still yields a view: nothing set up yet.
	return c.JSON(http.StatusOK, settingsView{
		Mode:             h.Cfg.SettingsMode,
		HasGeminiKey:     resolved.GeminiAPIKey != "",
		HasElevenLabsKey: resolved.ElevenLabsAPIKey != "",
		VoiceID:          resolved.VoiceID,
		WordInterval:     resolved.WordInterval,
		EnablePauses:     resolved.EnablePauses,
	})
}

// Update upserts the caller's api_keys row (user mode only; in global
// mode individual users have nothing to write and admins use the admin
// endpoints instead).
func (h *SettingsHandler) Update(c echo.Context) error {
	if h.Cfg.SettingsMode != config.SettingsModeUser {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "settings are managed globally"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req settingsUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Start from the stored row so a partial update keeps what the
	// client did not send.
	cur, err := h.Keys.GetByUserID(ctx, uid)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load settings failed"})
	}
	cur.UserID = uid
	if cur.ElevenLabsVoiceID == "" {
		cur.ElevenLabsVoiceID = settings.DefaultVoiceID
	}
	if cur.WordInterval == 0 {
		cur.WordInterval = settings.DefaultWordInterval
	}

	if req.GeminiAPIKey != nil {
		cur.GeminiAPIKey = *req.GeminiAPIKey
	}
	if req.ElevenLabsAPIKey != nil {
		cur.ElevenLabsAPIKey = *req.ElevenLabsAPIKey
	}
	if req.ElevenLabsVoiceID != nil && *req.ElevenLabsVoiceID != "" {
		cur.ElevenLabsVoiceID = *req.ElevenLabsVoiceID
	}
	if req.WordInterval != nil && *req.WordInterval > 0 {
		cur.WordInterval = *req.WordInterval
	}
	if req.EnablePauses != nil {
		cur.EnablePauses = *req.EnablePauses
	}

	if err := h.Keys.Upsert(ctx, cur); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save settings failed"})
	}
	return c.JSON(http.StatusOK, settingsView{
		Mode:             h.Cfg.SettingsMode,
		HasGeminiKey:     cur.GeminiAPIKey != "",
		HasElevenLabsKey: cur.ElevenLabsAPIKey != "",
		VoiceID:          cur.ElevenLabsVoiceID,
		WordInterval:     cur.WordInterval,
		EnablePauses:     cur.EnablePauses,
	})
}

// ListVoices returns the ElevenLabs voice catalogue for the caller's
// key. Without a key the list is empty rather than an error, so the
// client can always render the picker.
func (h *SettingsHandler) ListVoices(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx := c.Request().Context()
	resolved, err := h.Resolver.Resolve(ctx, uid)
	if err != nil && !errors.Is(err, settings.ErrNotConfigured) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load settings failed"})
	}

	voices, err := h.Voices.List(ctx, resolved.ElevenLabsAPIKey)
	if err != nil {
		return aiError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"voices": voices})
}

// secret global_settings keys, filtered from the admin read view.
var secretSettingKeys = map[string]bool{
	model.SettingGeminiAPIKey:     true,
	model.SettingElevenLabsAPIKey: true,
}

// AdminGet returns the full global settings mapping with secret values
// reduced to presence flags.
func (h *SettingsHandler) AdminGet(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	all, err := h.Globals.All(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load settings failed"})
	}

	out := make(map[string]any, len(all)+2)
	for k, v := range all {
		if secretSettingKeys[k] {
			continue
		}
		out[k] = v
	}
	out["hasGeminiKey"] = all[model.SettingGeminiAPIKey] != ""
	out["hasElevenlabsKey"] = all[model.SettingElevenLabsAPIKey] != ""
	return c.JSON(http.StatusOK, out)
}

// adminSettableKeys is the closed set of keys AdminUpdate accepts.
var adminSettableKeys = map[string]bool{
	model.SettingGeminiAPIKey:      true,
	model.SettingElevenLabsAPIKey:  true,
	model.SettingElevenLabsVoiceID: true,
	model.SettingEnablePauses:      true,
	model.SettingWordInterval:      true,
	model.SettingPromptExtraction:  true,
	model.SettingPromptComposition: true,
	model.SettingPromptAnalysis:    true,
}

// AdminUpdate writes values into the global settings mapping. Unknown
// keys are rejected so typos do not silently create dead entries.
func (h *SettingsHandler) AdminUpdate(c echo.Context) error {
	var req map[string]string
	if err := c.Bind(&req); err != nil || len(req) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	for k := range req {
		if !adminSettableKeys[k] {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown setting: " + k})
		}
	}
	if v, ok := req[model.SettingWordInterval]; ok {
		if n, err := strconv.Atoi(v); err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "wordInterval must be a positive integer"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	for k, v := range req {
		if err := h.Globals.Set(ctx, k, v); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save settings failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "settings updated"})
}
