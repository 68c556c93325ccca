// Package coordinator implements the per-node rendezvous between a blocking
// node execution and the out-of-process renderer that delivers the
// authoritative frames. The store is explicitly owned and injected so
// parallel tests can run against independent instances.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lumafx/lumafx/internal/stack"
)

// DefaultWaitTimeout is the hard ceiling on a single rendezvous. It is sized
// for a human-paced interactive renderer, not a tight service call.
const DefaultWaitTimeout = 300 * time.Second

var (
	// ErrTimeout reports that the renderer did not deliver before the ceiling.
	ErrTimeout = errors.New("coordinator: timed out waiting for rendered batch")
	// ErrFrameCount reports a delivered batch whose size does not match the
	// staged batch.
	ErrFrameCount = errors.New("coordinator: delivered frame count mismatch")
	// ErrSuperseded reports that a newer invocation replaced the awaited one.
	ErrSuperseded = errors.New("coordinator: batch superseded by a newer invocation")
)

// record tracks one in-flight rendezvous for a node. Only one invocation per
// node is expected at a time; the batchID check is the safety net when that
// assumption is violated.
type record struct {
	batchID string
	pending int
	ready   bool
	frames  [][]byte
	done    chan struct{}
}

// Store keys rendezvous records and layer state by node identifier. All
// access across the wait/deliver boundary is serialized by one mutex.
type Store struct {
	mu      sync.Mutex
	records map[string]*record
	layers  map[string][]stack.Layer
	staged  map[string][]string
	log     zerolog.Logger
}

// NewStore returns an empty coordination store.
func NewStore(log zerolog.Logger) *Store {
	return &Store{
		records: make(map[string]*record),
		layers:  make(map[string][]stack.Layer),
		staged:  make(map[string][]string),
		log:     log,
	}
}

// Begin opens a fresh rendezvous for nodeID and returns its batch
// identifier. Any previous record for the node is discarded, so late
// deliveries tagged with an older batchID are rejected from now on.
func (s *Store) Begin(nodeID string, batchSize int) string {
	batchID := fmt.Sprintf("%s-%d-%s", nodeID, time.Now().UnixNano(), uuid.NewString())
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[nodeID] = &record{
		batchID: batchID,
		pending: batchSize,
		done:    make(chan struct{}),
	}
	return batchID
}

// Await blocks until the renderer finishes delivering the batch, the timeout
// ceiling elapses, or ctx is canceled. On success it returns the encoded
// frames in delivery order, exactly pending-size many.
func (s *Store) Await(ctx context.Context, nodeID, batchID string, timeout time.Duration) ([][]byte, error) {
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	s.mu.Lock()
	rec := s.records[nodeID]
	if rec == nil || rec.batchID != batchID {
		s.mu.Unlock()
		return nil, ErrSuperseded
	}
	done := rec.done
	s.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		return nil, ErrTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec = s.records[nodeID]
	if rec == nil || rec.batchID != batchID {
		return nil, ErrSuperseded
	}
	if len(rec.frames) != rec.pending {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrFrameCount, len(rec.frames), rec.pending)
	}
	return rec.frames, nil
}

// Deliver stores one chunk of rendered frames. Chunks tagged with a batchID
// other than the node's current one are silently rejected; the invocation
// they belong to has already completed or timed out. Chunk zero replaces any
// accumulated frames, later chunks append, and the final chunk wakes the
// awaiting invocation. Returns whether the chunk was accepted and the frame
// count accumulated so far.
func (s *Store) Deliver(nodeID, batchID string, chunkIndex, totalChunks int, isFinal bool, frames [][]byte) (bool, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.records[nodeID]
	if rec == nil || rec.batchID != batchID {
		s.log.Debug().
			Str("node_id", nodeID).
			Str("batch_id", batchID).
			Msg("rejecting stale chunk delivery")
		return false, 0
	}
	if chunkIndex == 0 {
		rec.frames = append([][]byte(nil), frames...)
	} else {
		rec.frames = append(rec.frames, frames...)
	}
	count := len(rec.frames)
	s.log.Info().
		Str("node_id", nodeID).
		Int("chunk", chunkIndex+1).
		Int("total_chunks", totalChunks).
		Int("frames", count).
		Msg("received rendered chunk")
	if isFinal && !rec.ready {
		rec.ready = true
		close(rec.done)
	}
	return true, count
}

// Finish clears the rendezvous record for nodeID so the next invocation
// starts from a clean idle state. It is called regardless of outcome.
func (s *Store) Finish(nodeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, nodeID)
}

// Pending reports whether an invocation is currently awaiting delivery for
// nodeID and, if so, the staged batch size. It backs the advisory polling
// endpoint; the push notification is the primary signal.
func (s *Store) Pending(nodeID string) (bool, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.records[nodeID]
	if rec == nil || rec.ready {
		return false, 0
	}
	return true, rec.pending
}

// SetLayers replaces the externally visible layer stack for nodeID. The
// stack feeds only the CPU fallback path; the renderer applies its own copy.
func (s *Store) SetLayers(nodeID string, layers []stack.Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.layers[nodeID] = append([]stack.Layer(nil), layers...)
}

// SetStagedRefs records the staging references of the most recent batch for
// nodeID. Unlike the rendezvous record these survive Finish, so the batch
// download endpoint can serve frames after the invocation completes.
func (s *Store) SetStagedRefs(nodeID string, refs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staged[nodeID] = append([]string(nil), refs...)
}

// StagedRefs returns the staging references of the most recent batch.
func (s *Store) StagedRefs(nodeID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.staged[nodeID]...)
}

// Layers returns the current layer stack for nodeID.
func (s *Store) Layers(nodeID string) []stack.Layer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]stack.Layer(nil), s.layers[nodeID]...)
}
