// Package staging persists input frames where the external renderer can
// fetch them. Any reliable blob exchange satisfies the contract; a shared
// directory is the default and an S3-compatible bucket covers renderers on
// another host.
package staging

import (
	"context"
	"fmt"
)

// Store is the blob-exchange surface the engine stages frames through.
type Store interface {
	// Put persists data under key and returns the canonical reference the
	// renderer should use to fetch it.
	Put(ctx context.Context, key string, data []byte) (string, error)
	// Get fetches a previously staged blob by reference.
	Get(ctx context.Context, ref string) ([]byte, error)
	// List returns the references staged under prefix, in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)
}

// FrameKey builds the staging key for one frame of a batch.
func FrameKey(nodeID, batchID string, index int) string {
	return fmt.Sprintf("nodes/%s/%s/frame_%05d.png", nodeID, batchID, index)
}

// BatchPrefix is the key prefix shared by every frame of a batch.
func BatchPrefix(nodeID, batchID string) string {
	return fmt.Sprintf("nodes/%s/%s/", nodeID, batchID)
}
