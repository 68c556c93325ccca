// Package handlers exposes the delivery channel, preset and shader endpoints
// the external renderer talks to.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/lumafx/lumafx/internal/coordinator"
	"github.com/lumafx/lumafx/internal/engine"
	"github.com/lumafx/lumafx/internal/presets"
	"github.com/lumafx/lumafx/internal/shaders"
	"github.com/lumafx/lumafx/internal/staging"
)

// App is the handler container. Collaborators are injected by main.
type App struct {
	Store     *coordinator.Store
	Engine    *engine.Engine
	Staging   staging.Store
	Presets   *presets.Store
	Shaders   *shaders.Library
	Hub       *Hub
	OutputDir string
	Log       zerolog.Logger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]any{
		"error": map[string]string{"code": errCode, "message": message},
	})
}

// Health reports liveness.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
