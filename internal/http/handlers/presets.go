package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lumafx/lumafx/internal/presets"
	"github.com/lumafx/lumafx/internal/stack"
)

// PresetsList returns every saved preset keyed by slug.
func (a *App) PresetsList(w http.ResponseWriter, r *http.Request) {
	list, err := a.Presets.List()
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load presets")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"success": true, "presets": list})
}

type presetSaveRequest struct {
	Name   string        `json:"name"`
	Layers []stack.Layer `json:"layers"`
}

// PresetsSave persists a named layer stack.
func (a *App) PresetsSave(w http.ResponseWriter, r *http.Request) {
	var req presetSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Name == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "preset name is required")
		return
	}
	if len(req.Layers) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "no layers to save")
		return
	}
	key, err := a.Presets.Save(req.Name, req.Layers)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to save preset")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success":  true,
		"key":      key,
		"filename": key + ".json",
	})
}

// PresetsDelete removes a preset by key.
func (a *App) PresetsDelete(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := a.Presets.Delete(key); err != nil {
		if errors.Is(err, presets.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "preset not found")
			return
		}
		a.error(w, http.StatusBadRequest, "bad_request", "invalid preset key")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"success": true})
}
