// Package engine ties the staging store, the rendezvous coordinator and the
// CPU filter stack into the single execute entry point the host adapter
// calls.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lumafx/lumafx/internal/coordinator"
	"github.com/lumafx/lumafx/internal/raster"
	"github.com/lumafx/lumafx/internal/stack"
	"github.com/lumafx/lumafx/internal/staging"
)

// Engine executes node invocations. Every collaborator is injected; a nil
// Notifier means no renderer is attached and the CPU path is authoritative.
type Engine struct {
	Staging     staging.Store
	Store       *coordinator.Store
	Notifier    coordinator.Notifier
	Log         zerolog.Logger
	WaitTimeout time.Duration
}

// New assembles an engine with the default rendezvous timeout.
func New(st staging.Store, store *coordinator.Store, notifier coordinator.Notifier, log zerolog.Logger) *Engine {
	return &Engine{
		Staging:     st,
		Store:       store,
		Notifier:    notifier,
		Log:         log,
		WaitTimeout: coordinator.DefaultWaitTimeout,
	}
}

// Execute runs one node invocation over an image batch. The renderer's
// delivered frames are authoritative when they arrive in time; otherwise the
// invocation degrades to the CPU filter stack or to the unmodified input.
// The only error returned is a malformed batch at the entry boundary. Every
// downstream failure degrades to the best available output instead, because
// the host treats a raised error as a hard pipeline failure.
func (e *Engine) Execute(ctx context.Context, batch []*raster.Image, mask *raster.Mask, nodeID string) ([]*raster.Image, error) {
	if err := raster.ValidateBatch(batch); err != nil {
		return nil, err
	}

	layers := e.Store.Layers(nodeID)
	out := batch

	batchID := e.Store.Begin(nodeID, len(batch))
	defer e.Store.Finish(nodeID)

	refs, err := e.stageBatch(ctx, batch, nodeID, batchID)
	if err != nil {
		// Staging feeds the renderer and the download endpoint; without it
		// only the CPU path remains.
		e.Log.Warn().Err(err).Str("node_id", nodeID).Msg("staging failed, renderer path unavailable")
	} else {
		e.Store.SetStagedRefs(nodeID, refs)
	}

	switch {
	case !stack.AnyEnabled(layers):
		e.Log.Debug().Str("node_id", nodeID).Msg("no enabled layers, passing batch through")

	case e.Notifier == nil || refs == nil:
		// Renderer absent: the filter registry is the deterministic stand-in.
		out = e.applyLocal(batch, layers)

	default:
		out = e.awaitRendered(ctx, batch, nodeID, batchID, refs)
	}

	if mask != nil {
		masked := make([]*raster.Image, len(out))
		for i := range out {
			masked[i] = stack.ApplyMask(batch[i], out[i], mask)
		}
		out = masked
	}
	return out, nil
}

// stageBatch persists every frame of the batch as PNG and returns the refs.
func (e *Engine) stageBatch(ctx context.Context, batch []*raster.Image, nodeID, batchID string) ([]string, error) {
	refs := make([]string, len(batch))
	for i, img := range batch {
		data, err := raster.EncodePNGBytes(img)
		if err != nil {
			return nil, err
		}
		ref, err := e.Staging.Put(ctx, staging.FrameKey(nodeID, batchID, i), data)
		if err != nil {
			return nil, fmt.Errorf("stage frame %d: %w", i, err)
		}
		refs[i] = ref
	}
	return refs, nil
}

// applyLocal runs the CPU filter stack over every frame.
func (e *Engine) applyLocal(batch []*raster.Image, layers []stack.Layer) []*raster.Image {
	out := make([]*raster.Image, len(batch))
	for i, img := range batch {
		out[i] = stack.Apply(img, layers)
	}
	return out
}

// awaitRendered signals the renderer and blocks for its delivery. Timeout,
// frame-count mismatch and decode failure all fall back to the unmodified
// input batch; partial results are never mixed in.
func (e *Engine) awaitRendered(ctx context.Context, batch []*raster.Image, nodeID, batchID string, refs []string) []*raster.Image {
	e.Notifier.BatchPending(ctx, coordinator.BatchNotice{
		NodeID:    nodeID,
		BatchID:   batchID,
		BatchSize: len(batch),
		FrameRefs: refs,
	})
	e.Log.Info().
		Str("node_id", nodeID).
		Int("batch_size", len(batch)).
		Msg("waiting for renderer delivery")

	frames, err := e.Store.Await(ctx, nodeID, batchID, e.WaitTimeout)
	if err != nil {
		e.Log.Warn().Err(err).Str("node_id", nodeID).Msg("renderer delivery failed, using input batch")
		return batch
	}

	decoded := make([]*raster.Image, len(frames))
	for i, data := range frames {
		img, err := raster.DecodePNG(data)
		if err != nil {
			e.Log.Warn().Err(err).Int("frame", i).Str("node_id", nodeID).
				Msg("frame decode failed, discarding delivered batch")
			return batch
		}
		decoded[i] = img
	}
	e.Log.Info().Str("node_id", nodeID).Int("frames", len(decoded)).Msg("rendered batch accepted")
	return decoded
}
