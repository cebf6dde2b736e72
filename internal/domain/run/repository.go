package run

import (
	"context"
	"time"
)

// MarkerRepository provides the atomic per-period run guard.
type MarkerRepository interface {
	// TryAcquire writes the marker unless an unexpired marker for the same
	// key exists. It reports whether the caller now owns the key.
	TryAcquire(ctx context.Context, marker Marker, now time.Time) (bool, error)
	Release(ctx context.Context, key Key, runID string) error
	ListActive(ctx context.Context, now time.Time) ([]Marker, error)
}
