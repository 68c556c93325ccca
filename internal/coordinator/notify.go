package coordinator

import "context"

// BatchNotice announces a staged batch to the external renderer. FrameRefs
// are staging keys the renderer resolves against the staging store.
type BatchNotice struct {
	NodeID    string   `json:"node_id"`
	BatchID   string   `json:"batch_id"`
	BatchSize int      `json:"batch_size"`
	FrameRefs []string `json:"frame_refs"`
}

// Notifier pushes batch-pending notices to the renderer. A nil notifier
// means no renderer is attached and the engine falls back to the CPU path.
type Notifier interface {
	BatchPending(ctx context.Context, notice BatchNotice)
}
