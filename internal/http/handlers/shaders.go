package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lumafx/lumafx/internal/shaders"
)

// ShaderManifest serves the effect manifest with custom shaders merged in.
func (a *App) ShaderManifest(w http.ResponseWriter, r *http.Request) {
	manifest, err := a.Shaders.Manifest()
	if err != nil {
		if errors.Is(err, shaders.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "manifest not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to load manifest")
		return
	}
	a.json(w, http.StatusOK, manifest)
}

// ShaderFile serves one shader source by its manifest-relative path.
func (a *App) ShaderFile(w http.ResponseWriter, r *http.Request) {
	relPath := chi.URLParam(r, "*")
	data, err := a.Shaders.File(relPath)
	if err != nil {
		if errors.Is(err, shaders.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "shader not found")
			return
		}
		a.error(w, http.StatusBadRequest, "bad_request", "invalid shader path")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(data)
}

// ShaderCustomList enumerates user-provided custom shaders.
func (a *App) ShaderCustomList(w http.ResponseWriter, r *http.Request) {
	list, err := a.Shaders.ListCustom()
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to list custom shaders")
		return
	}
	if list == nil {
		list = []shaders.CustomShader{}
	}
	a.json(w, http.StatusOK, map[string]any{"shaders": list})
}
