package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/lumafx/lumafx/internal/coordinator"
)

// Hub fans batch-pending notices out to connected renderer sessions over
// server-sent events. It is the engine's push channel; a renderer that
// missed the push can still poll the pending endpoint.
type Hub struct {
	mu   sync.Mutex
	subs map[chan coordinator.BatchNotice]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan coordinator.BatchNotice]struct{})}
}

// BatchPending broadcasts a notice to every subscriber. Slow subscribers
// drop the notice rather than blocking the invoking thread.
func (h *Hub) BatchPending(_ context.Context, notice coordinator.BatchNotice) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- notice:
		default:
		}
	}
}

func (h *Hub) subscribe() (chan coordinator.BatchNotice, func()) {
	ch := make(chan coordinator.BatchNotice, 8)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
}

// Events is the SSE stream carrying batch_pending notifications to the
// renderer.
func (a *App) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		a.error(w, http.StatusInternalServerError, "internal", "streaming unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch, cancel := a.Hub.subscribe()
	defer cancel()
	for {
		select {
		case <-r.Context().Done():
			return
		case notice := <-ch:
			payload, err := json.Marshal(notice)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: batch_pending\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
