package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/lumafx/lumafx/internal/raster"
)

type executeRequest struct {
	NodeID string   `json:"node_id"`
	Frames []string `json:"frames"`         // base64 PNGs
	Mask   string   `json:"mask,omitempty"` // optional base64 PNG, luminance as weight
}

type executeResponse struct {
	NodeID string   `json:"node_id"`
	Frames []string `json:"frames"`
}

// Execute is the node adapter boundary: it decodes an image batch, runs the
// engine's execute pipeline and returns the resulting batch. The call blocks
// while the rendezvous with the renderer is in flight.
func (a *App) Execute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.NodeID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "node_id required")
		return
	}
	batch := make([]*raster.Image, 0, len(req.Frames))
	for _, encoded := range req.Frames {
		data, err := decodeFrame(encoded)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "invalid frame encoding")
			return
		}
		img, err := raster.DecodePNG(data)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "invalid frame image")
			return
		}
		batch = append(batch, img)
	}

	var mask *raster.Mask
	if req.Mask != "" {
		data, err := decodeFrame(req.Mask)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "invalid mask encoding")
			return
		}
		img, err := raster.DecodePNG(data)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "invalid mask image")
			return
		}
		mask = &raster.Mask{W: img.W, H: img.H, Pix: raster.Luminance(img)}
	}

	out, err := a.Engine.Execute(r.Context(), batch, mask, req.NodeID)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	frames := make([]string, len(out))
	for i, img := range out {
		data, err := raster.EncodePNGBytes(img)
		if err != nil {
			a.error(w, http.StatusInternalServerError, "internal", "failed to encode result frame")
			return
		}
		frames[i] = base64.StdEncoding.EncodeToString(data)
	}
	a.json(w, http.StatusOK, executeResponse{NodeID: req.NodeID, Frames: frames})
}
