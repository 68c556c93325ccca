package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lumafx/lumafx/internal/stack"
	"github.com/lumafx/lumafx/pkg/zip"
)

type setLayersRequest struct {
	NodeID string        `json:"node_id"`
	Layers []stack.Layer `json:"layers"`
}

// SetLayers stores the renderer's current layer stack for a node. The stack
// feeds the CPU fallback path only.
func (a *App) SetLayers(w http.ResponseWriter, r *http.Request) {
	var req setLayersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.NodeID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "node_id required")
		return
	}
	a.Store.SetLayers(req.NodeID, req.Layers)
	a.json(w, http.StatusOK, map[string]any{"success": true})
}

type deliverRequest struct {
	NodeID         string   `json:"node_id"`
	BatchID        string   `json:"batch_id"`
	RenderedFrames []string `json:"rendered_frames"` // base64 PNGs, data-URL prefix tolerated
	ChunkIndex     int      `json:"chunk_index"`
	TotalChunks    int      `json:"total_chunks"`
	IsFinal        *bool    `json:"is_final"`
}

// DeliverRendered accepts one chunk of renderer output for an awaiting
// invocation. Stale batch identifiers are rejected without error; the
// awaiting thread is still bound to its own current batch.
func (a *App) DeliverRendered(w http.ResponseWriter, r *http.Request) {
	var req deliverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.NodeID == "" || req.BatchID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "node_id and batch_id required")
		return
	}
	isFinal := true
	if req.IsFinal != nil {
		isFinal = *req.IsFinal
	}
	totalChunks := req.TotalChunks
	if totalChunks <= 0 {
		totalChunks = 1
	}
	frames := make([][]byte, 0, len(req.RenderedFrames))
	for i, encoded := range req.RenderedFrames {
		data, err := decodeFrame(encoded)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("frame %d: invalid base64", i))
			return
		}
		frames = append(frames, data)
	}
	accepted, count := a.Store.Deliver(req.NodeID, req.BatchID, req.ChunkIndex, totalChunks, isFinal, frames)
	a.json(w, http.StatusOK, map[string]any{
		"accepted": accepted,
		"count":    count,
		"ready":    accepted && isFinal,
	})
}

// BatchPending reports whether an invocation is blocked waiting for the
// renderer. It is the polling backup behind the push notification.
func (a *App) BatchPending(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")
	pending, size := a.Store.Pending(nodeID)
	resp := map[string]any{"pending": pending, "batch_size": size}
	if pending {
		resp["frame_refs"] = a.Store.StagedRefs(nodeID)
	}
	a.json(w, http.StatusOK, resp)
}

type saveResultRequest struct {
	NodeID    string `json:"node_id"`
	ImageData string `json:"image_data"`
	Filename  string `json:"filename"`
}

// SaveResult writes an interactively rendered frame into the output
// directory under a sanitized filename.
func (a *App) SaveResult(w http.ResponseWriter, r *http.Request) {
	var req saveResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.ImageData == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "no image data provided")
		return
	}
	data, err := decodeFrame(req.ImageData)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid base64 image data")
		return
	}
	filename := safeFilename(req.Filename)
	if filename == "" {
		filename = fmt.Sprintf("lumafx_%d.png", time.Now().Unix())
	}
	if err := os.MkdirAll(a.OutputDir, 0o755); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to prepare output directory")
		return
	}
	path := filepath.Join(a.OutputDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to save image")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success":  true,
		"path":     path,
		"filename": filename,
	})
}

// BatchDownload streams the most recently staged batch for a node as a zip
// archive.
func (a *App) BatchDownload(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")
	refs := a.Store.StagedRefs(nodeID)
	if len(refs) == 0 {
		a.error(w, http.StatusNotFound, "not_found", "no staged batch for node")
		return
	}
	assets := make([]zip.Asset, 0, len(refs))
	for _, ref := range refs {
		data, err := a.Staging.Get(r.Context(), ref)
		if err != nil {
			a.error(w, http.StatusInternalServerError, "internal", "failed to read staged frame")
			return
		}
		assets = append(assets, zip.Asset{
			Filename: filepath.Base(ref),
			MIME:     "image/png",
			Data:     data,
		})
	}
	archive := zip.ArchiveAssets(assets)
	if archive == nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to build archive")
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", nodeID+"_batch.zip"))
	_, _ = w.Write(archive)
}

// StagedFrame serves one staged input frame by its staging reference, so a
// renderer without direct access to the staging store can fetch over HTTP.
func (a *App) StagedFrame(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "*")
	data, err := a.Staging.Get(r.Context(), ref)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "staged frame not found")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(data)
}

// decodeFrame decodes a base64 payload, tolerating a data-URL prefix.
func decodeFrame(encoded string) ([]byte, error) {
	if idx := strings.IndexByte(encoded, ','); idx >= 0 {
		encoded = encoded[idx+1:]
	}
	return base64.StdEncoding.DecodeString(encoded)
}

// safeFilename strips everything but alphanumerics, dots, underscores and
// dashes and forces a .png extension.
func safeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" {
		return ""
	}
	if !strings.HasSuffix(out, ".png") {
		out += ".png"
	}
	return out
}
