package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/lumafx/lumafx/internal/coordinator"
	"github.com/lumafx/lumafx/internal/engine"
	"github.com/lumafx/lumafx/internal/presets"
	"github.com/lumafx/lumafx/internal/raster"
	"github.com/lumafx/lumafx/internal/shaders"
	"github.com/lumafx/lumafx/internal/staging"
)

// withURLParam injects a chi route parameter so handlers can be exercised
// without a full router.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	st, err := staging.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	preset, err := presets.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("presets.NewStore: %v", err)
	}
	store := coordinator.NewStore(zerolog.Nop())
	hub := NewHub()
	eng := engine.New(st, store, nil, zerolog.Nop())
	eng.WaitTimeout = time.Second
	return &App{
		Store:     store,
		Engine:    eng,
		Staging:   st,
		Presets:   preset,
		Shaders:   shaders.NewLibrary(t.TempDir()),
		Hub:       hub,
		OutputDir: t.TempDir(),
		Log:       zerolog.Nop(),
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func encodedPNG(t *testing.T) string {
	t.Helper()
	img := raster.New(2, 2)
	img.Pix[0] = 1
	data, err := raster.EncodePNGBytes(img)
	if err != nil {
		t.Fatalf("EncodePNGBytes: %v", err)
	}
	return base64.StdEncoding.EncodeToString(data)
}

func TestHealth(t *testing.T) {
	a := newTestApp(t)
	rec := httptest.NewRecorder()
	a.Health(rec, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
}

func TestSetLayers(t *testing.T) {
	a := newTestApp(t)
	rec := postJSON(t, a.SetLayers, map[string]any{
		"node_id": "node1",
		"layers":  []map[string]any{{"effect": "blur", "params": map[string]float64{"radius": 3}}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	layers := a.Store.Layers("node1")
	if len(layers) != 1 || layers[0].Effect != "blur" {
		t.Fatalf("stored layers = %+v", layers)
	}
	if layers[0].Opacity != 1 || !layers[0].Enabled {
		t.Fatalf("layer defaults not applied: %+v", layers[0])
	}
}

func TestSetLayersRejectsMissingNode(t *testing.T) {
	a := newTestApp(t)
	rec := postJSON(t, a.SetLayers, map[string]any{"layers": []map[string]any{}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	errObj, ok := body["error"].(map[string]any)
	if !ok || errObj["code"] != "bad_request" {
		t.Fatalf("error envelope = %v", body)
	}
}

func TestDeliverRendered(t *testing.T) {
	a := newTestApp(t)
	batchID := a.Store.Begin("node1", 1)

	rec := postJSON(t, a.DeliverRendered, map[string]any{
		"node_id":         "node1",
		"batch_id":        batchID,
		"rendered_frames": []string{encodedPNG(t)},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	body := decodeBody(t, rec)
	if body["accepted"] != true || body["ready"] != true || body["count"] != float64(1) {
		t.Fatalf("body = %v", body)
	}

	frames, err := a.Store.Await(context.Background(), "node1", batchID, time.Second)
	if err != nil {
		t.Fatalf("Await: %v", err)
	}
	if len(frames) != 1 {
		t.Fatalf("stored %d frames", len(frames))
	}
}

func TestDeliverRenderedDataURLPrefix(t *testing.T) {
	a := newTestApp(t)
	batchID := a.Store.Begin("node1", 1)

	rec := postJSON(t, a.DeliverRendered, map[string]any{
		"node_id":         "node1",
		"batch_id":        batchID,
		"rendered_frames": []string{"data:image/png;base64," + encodedPNG(t)},
	})
	if body := decodeBody(t, rec); body["accepted"] != true {
		t.Fatalf("data-URL frame rejected: %v", body)
	}
}

func TestDeliverRenderedStaleBatch(t *testing.T) {
	a := newTestApp(t)
	old := a.Store.Begin("node1", 1)
	a.Store.Begin("node1", 1)

	rec := postJSON(t, a.DeliverRendered, map[string]any{
		"node_id":         "node1",
		"batch_id":        old,
		"rendered_frames": []string{encodedPNG(t)},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("stale delivery should be a soft rejection, status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["accepted"] != false || body["ready"] != false {
		t.Fatalf("body = %v", body)
	}
}

func TestDeliverRenderedBadBase64(t *testing.T) {
	a := newTestApp(t)
	batchID := a.Store.Begin("node1", 1)
	rec := postJSON(t, a.DeliverRendered, map[string]any{
		"node_id":         "node1",
		"batch_id":        batchID,
		"rendered_frames": []string{"!!not base64!!"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestBatchPendingLifecycle(t *testing.T) {
	a := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/interactive/pending/node1", nil)
	req = withURLParam(req, "nodeID", "node1")
	rec := httptest.NewRecorder()
	a.BatchPending(rec, req)
	if body := decodeBody(t, rec); body["pending"] != false {
		t.Fatalf("idle node reported pending: %v", body)
	}

	a.Store.Begin("node1", 2)
	a.Store.SetStagedRefs("node1", []string{"nodes/node1/b/frame_00000.png"})
	rec = httptest.NewRecorder()
	a.BatchPending(rec, req)
	body := decodeBody(t, rec)
	if body["pending"] != true || body["batch_size"] != float64(2) {
		t.Fatalf("body = %v", body)
	}
	refs, ok := body["frame_refs"].([]any)
	if !ok || len(refs) != 1 {
		t.Fatalf("frame_refs = %v", body["frame_refs"])
	}
}

func TestSaveResult(t *testing.T) {
	a := newTestApp(t)
	rec := postJSON(t, a.SaveResult, map[string]any{
		"image_data": encodedPNG(t),
		"filename":   "../../evil name.png",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	body := decodeBody(t, rec)
	name, _ := body["filename"].(string)
	if strings.Contains(name, "/") || !strings.HasSuffix(name, ".png") {
		t.Fatalf("unsafe filename %q", name)
	}
	if _, err := os.Stat(filepath.Join(a.OutputDir, name)); err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
}

func TestSaveResultRequiresData(t *testing.T) {
	a := newTestApp(t)
	rec := postJSON(t, a.SaveResult, map[string]any{"filename": "x.png"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestExecuteEndToEndLocal(t *testing.T) {
	a := newTestApp(t)
	rec := postJSON(t, a.SetLayers, map[string]any{
		"node_id": "node1",
		"layers":  []map[string]any{{"effect": "invert", "params": map[string]float64{"amount": 1}}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("SetLayers status = %d", rec.Code)
	}

	rec = postJSON(t, a.Execute, map[string]any{
		"node_id": "node1",
		"frames":  []string{encodedPNG(t)},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Execute status = %d, body %s", rec.Code, rec.Body)
	}
	var resp struct {
		NodeID string   `json:"node_id"`
		Frames []string `json:"frames"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.NodeID != "node1" || len(resp.Frames) != 1 {
		t.Fatalf("response = %+v", resp)
	}
	data, err := base64.StdEncoding.DecodeString(resp.Frames[0])
	if err != nil {
		t.Fatalf("result frame not base64: %v", err)
	}
	img, err := raster.DecodePNG(data)
	if err != nil {
		t.Fatalf("result frame not a PNG: %v", err)
	}
	// Input was red in the first pixel; inverted it becomes cyan.
	if img.Pix[0] != 0 || img.Pix[1] != 1 || img.Pix[2] != 1 {
		t.Fatalf("first pixel = (%v,%v,%v), want inverted (0,1,1)", img.Pix[0], img.Pix[1], img.Pix[2])
	}
}

func TestExecuteRejectsEmptyBatch(t *testing.T) {
	a := newTestApp(t)
	rec := postJSON(t, a.Execute, map[string]any{"node_id": "node1"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestPresetEndpoints(t *testing.T) {
	a := newTestApp(t)

	rec := postJSON(t, a.PresetsSave, map[string]any{
		"name":   "Warm Look",
		"layers": []map[string]any{{"effect": "temperature", "params": map[string]float64{"amount": 0.4}}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d, body %s", rec.Code, rec.Body)
	}
	body := decodeBody(t, rec)
	key, _ := body["key"].(string)
	if key != "warm_look" {
		t.Fatalf("key = %q", key)
	}

	rec = httptest.NewRecorder()
	a.PresetsList(rec, httptest.NewRequest(http.MethodGet, "/v1/presets/", nil))
	body = decodeBody(t, rec)
	listing, ok := body["presets"].(map[string]any)
	if !ok {
		t.Fatalf("presets listing = %v", body)
	}
	if _, ok := listing[key]; !ok {
		t.Fatalf("saved preset missing from listing: %v", listing)
	}

	req := withURLParam(httptest.NewRequest(http.MethodDelete, "/v1/presets/"+key, nil), "key", key)
	rec = httptest.NewRecorder()
	a.PresetsDelete(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}

	req = withURLParam(httptest.NewRequest(http.MethodDelete, "/v1/presets/"+key, nil), "key", key)
	rec = httptest.NewRecorder()
	a.PresetsDelete(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d", rec.Code)
	}
}

func TestPresetsSaveValidation(t *testing.T) {
	a := newTestApp(t)
	rec := postJSON(t, a.PresetsSave, map[string]any{"name": "", "layers": []map[string]any{{"effect": "blur"}}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank name status = %d", rec.Code)
	}
	rec = postJSON(t, a.PresetsSave, map[string]any{"name": "x"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty layers status = %d", rec.Code)
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.subscribe()
	defer cancel()

	notice := coordinator.BatchNotice{NodeID: "node1", BatchID: "b1", BatchSize: 2}
	hub.BatchPending(context.Background(), notice)

	select {
	case got := <-ch:
		if got.NodeID != "node1" || got.BatchSize != 2 {
			t.Fatalf("notice = %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("subscriber never received the notice")
	}
}

func TestHubDropsWhenSubscriberFull(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 20; i++ {
			hub.BatchPending(context.Background(), coordinator.BatchNotice{NodeID: "node1"})
		}
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("broadcast blocked on a full subscriber")
	}
	if len(ch) == 0 {
		t.Fatalf("subscriber buffer is empty")
	}
}
