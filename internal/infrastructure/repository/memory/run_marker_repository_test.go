package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/rift-rewind/internal/domain/run"
)

func TestRunMarkerRepository_TryAcquire(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2025, time.January, 2, 10, 0, 0, 0, time.UTC)
	repo := NewRunMarkerRepository()

	first := run.Marker{Player: "p1", Year: 2024, RunID: "run-1", AcquiredAt: now, ExpiresAt: now.Add(time.Minute)}
	ok, err := repo.TryAcquire(ctx, first, now)
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}

	second := first
	second.RunID = "run-2"
	if ok, _ := repo.TryAcquire(ctx, second, now.Add(time.Second)); ok {
		t.Fatalf("second acquire for same period must fail")
	}

	otherYear := second
	otherYear.Year = 2023
	if ok, _ := repo.TryAcquire(ctx, otherYear, now); !ok {
		t.Fatalf("acquire for a different year must succeed")
	}

	if ok, _ := repo.TryAcquire(ctx, second, now.Add(2*time.Minute)); !ok {
		t.Fatalf("expired marker must be taken over")
	}
}

func TestRunMarkerRepository_ReleaseOnlyByOwner(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Now()
	repo := NewRunMarkerRepository()
	marker := run.Marker{Player: "p1", Year: 2024, RunID: "run-1", AcquiredAt: now, ExpiresAt: now.Add(time.Hour)}
	if ok, _ := repo.TryAcquire(ctx, marker, now); !ok {
		t.Fatalf("acquire failed")
	}

	if err := repo.Release(ctx, marker.Key(), "someone-else"); err != nil {
		t.Fatalf("release: %v", err)
	}
	active, _ := repo.ListActive(ctx, now)
	if len(active) != 1 {
		t.Fatalf("foreign release must not remove marker: got=%d want=1", len(active))
	}

	if err := repo.Release(ctx, marker.Key(), "run-1"); err != nil {
		t.Fatalf("release: %v", err)
	}
	active, _ = repo.ListActive(ctx, now)
	if len(active) != 0 {
		t.Fatalf("unexpected active markers: got=%d want=0", len(active))
	}
}

func TestRunMarkerRepository_ConcurrentAcquireHasOneWinner(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Now()
	repo := NewRunMarkerRepository()

	var winners atomic.Int32
	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			marker := run.Marker{Player: "p1", Year: 2024, RunID: string(rune('a' + i)), AcquiredAt: now, ExpiresAt: now.Add(time.Hour)}
			if ok, _ := repo.TryAcquire(ctx, marker, now); ok {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := winners.Load(); got != 1 {
		t.Fatalf("unexpected winners: got=%d want=1", got)
	}
}
