package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/rift-rewind/internal/domain/run"
)

// RunMarkerRepository keeps run markers in process. Acquisition is atomic
// under the mutex.
type RunMarkerRepository struct {
	mu      sync.Mutex
	markers map[run.Key]run.Marker
}

func NewRunMarkerRepository() *RunMarkerRepository {
	return &RunMarkerRepository{markers: make(map[run.Key]run.Marker)}
}

func (r *RunMarkerRepository) TryAcquire(_ context.Context, marker run.Marker, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.markers[marker.Key()]; ok && !current.Expired(now) {
		return false, nil
	}
	r.markers[marker.Key()] = marker
	return true, nil
}

// Release removes the marker only while runID still owns it.
func (r *RunMarkerRepository) Release(_ context.Context, key run.Key, runID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.markers[key]; ok && current.RunID == runID {
		delete(r.markers, key)
	}
	return nil
}

func (r *RunMarkerRepository) ListActive(_ context.Context, now time.Time) ([]run.Marker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]run.Marker, 0, len(r.markers))
	for _, marker := range r.markers {
		if !marker.Expired(now) {
			out = append(out, marker)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AcquiredAt.Before(out[j].AcquiredAt)
	})
	return out, nil
}
