package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/rift-rewind/internal/domain/run"
	"github.com/riskibarqy/rift-rewind/internal/platform/logging"
	"github.com/riskibarqy/rift-rewind/internal/platform/resilience"
	"github.com/stretchr/testify/require"
)

func newTestIngestion(api MatchAPI, records *memoryRecords, notifier Notifier, pageSize, attempts int) (*IngestionService, *noSleep) {
	svc := NewIngestionService(api, records, nil, notifier, IngestionConfig{
		PageSize: pageSize,
		Retry:    resilience.RetryPolicy{MaxAttempts: attempts, Backoff: time.Second, Multiplier: 1},
	}, logging.NewNop())
	sleeper := &noSleep{}
	svc.sleep = sleeper.sleep
	return svc, sleeper
}

func seedGames(api *fakeMatchAPI, n int) {
	base := time.Date(2024, time.February, 1, 12, 0, 0, 0, time.UTC)
	for i := range n {
		api.addGame(rawGameAt(fmt.Sprintf("NA1_%03d", i), base.Add(time.Duration(i)*time.Hour), i%2 == 0))
	}
}

func TestIngestionService_Ingest_PersistsAllGamesAcrossPages(t *testing.T) {
	t.Parallel()

	api := newFakeMatchAPI()
	seedGames(api, 5)
	records := newMemoryRecords()
	notifier := newRecordingNotifier()
	svc, _ := newTestIngestion(api, records, notifier, 2, 3)

	got, err := svc.Ingest(t.Context(), IngestInput{Player: testPlayer, Year: 2024, Routing: "americas", Observer: "conn-1"})
	require.NoError(t, err)
	require.Equal(t, IngestResult{Complete: true, Discovered: 5, Persisted: 5, Fetched: 5}, got)
	require.Equal(t, 5, records.count(testPlayer, 2024))
	// pages of 2: [0 1] [2 3] [4]
	require.Equal(t, 3, api.listCalls)

	events := notifier.eventsFor("conn-1")
	require.Len(t, events, 7)
	require.Equal(t, run.EventStartRetrieveMatch, events[0].State)
	require.Equal(t, 5, *events[0].Total)
	for i := 1; i <= 5; i++ {
		require.Equal(t, run.EventRetrievingMatch, events[i].State)
		require.Equal(t, i, *events[i].Count)
	}
	require.Equal(t, run.EventProcessingMatch, events[6].State)
}

func TestIngestionService_Ingest_IsIdempotent(t *testing.T) {
	t.Parallel()

	api := newFakeMatchAPI()
	seedGames(api, 4)
	records := newMemoryRecords()
	svc, _ := newTestIngestion(api, records, nil, 100, 3)

	input := IngestInput{Player: testPlayer, Year: 2024, Routing: "americas"}
	_, err := svc.Ingest(t.Context(), input)
	require.NoError(t, err)
	require.Equal(t, 4, api.totalGetCalls())

	second, err := svc.Ingest(t.Context(), input)
	require.NoError(t, err)
	if api.totalGetCalls() != 4 {
		t.Fatalf("second run fetched games again: got=%d want=4", api.totalGetCalls())
	}
	require.Equal(t, 0, second.Fetched)
	require.True(t, second.Complete)
	require.Equal(t, 4, records.count(testPlayer, 2024))
}

func TestIngestionService_Ingest_GameStartingNextYearStaysInListedYear(t *testing.T) {
	t.Parallel()

	api := newFakeMatchAPI()
	// Created in the last minute of 2024, started in 2025.
	api.addGame(rawGameAt("NA1_NYE", time.Date(2024, time.December, 31, 23, 59, 30, 0, time.UTC), true))
	records := newMemoryRecords()
	svc, _ := newTestIngestion(api, records, nil, 100, 3)

	input := IngestInput{Player: testPlayer, Year: 2024, Routing: "americas"}
	_, err := svc.Ingest(t.Context(), input)
	require.NoError(t, err)

	resumed, err := svc.Ingest(t.Context(), input)
	require.NoError(t, err)
	if got := api.getCalls["NA1_NYE"]; got != 1 {
		t.Fatalf("game refetched on resume: got=%d want=1", got)
	}
	require.True(t, resumed.Complete)
	require.Equal(t, 1, records.count(testPlayer, 2024))
	require.Zero(t, records.count(testPlayer, 2025))
}

func TestIngestionService_Ingest_ProgressCountsIncludePersistedGames(t *testing.T) {
	t.Parallel()

	api := newFakeMatchAPI()
	seedGames(api, 3)
	records := newMemoryRecords()
	raw := api.games["NA1_001"]
	existing := NewNormalizer(logging.NewNop()).Normalize(raw, testPlayer)
	require.NoError(t, records.Put(t.Context(), testPlayer, *existing))

	notifier := newRecordingNotifier()
	svc, _ := newTestIngestion(api, records, notifier, 100, 3)
	_, err := svc.Ingest(t.Context(), IngestInput{Player: testPlayer, Year: 2024, Routing: "americas", Observer: "conn-2"})
	require.NoError(t, err)

	var counts []int
	for _, event := range notifier.eventsFor("conn-2") {
		if event.State == run.EventRetrievingMatch {
			counts = append(counts, *event.Count)
		}
	}
	require.Equal(t, []int{2, 3}, counts)
	require.Equal(t, 1, api.getCalls["NA1_000"])
	require.Zero(t, api.getCalls["NA1_001"])
}

func TestIngestionService_Ingest_DeduplicatesListedIDs(t *testing.T) {
	t.Parallel()

	api := newFakeMatchAPI()
	seedGames(api, 2)
	api.ids = append(api.ids, "NA1_000", " NA1_001 ", "")
	records := newMemoryRecords()
	svc, _ := newTestIngestion(api, records, nil, 100, 3)

	got, err := svc.Ingest(t.Context(), IngestInput{Player: testPlayer, Year: 2024, Routing: "americas"})
	require.NoError(t, err)
	require.Equal(t, 2, got.Discovered)
	require.Equal(t, 1, api.getCalls["NA1_000"])
	require.True(t, got.Complete)
}

func TestIngestionService_Ingest_RetriesRateLimitedGame(t *testing.T) {
	t.Parallel()

	api := newFakeMatchAPI()
	seedGames(api, 2)
	api.failures["NA1_001"] = []error{ErrRateLimited, fmt.Errorf("status 429: %w", ErrRateLimited)}
	records := newMemoryRecords()
	svc, sleeper := newTestIngestion(api, records, nil, 100, 5)

	got, err := svc.Ingest(t.Context(), IngestInput{Player: testPlayer, Year: 2024, Routing: "americas"})
	require.NoError(t, err)
	require.True(t, got.Complete)
	require.Equal(t, 3, api.getCalls["NA1_001"])
	require.Equal(t, []time.Duration{time.Second, time.Second}, sleeper.waits)
}

func TestIngestionService_Ingest_RetryExhaustionFailsStage(t *testing.T) {
	t.Parallel()

	api := newFakeMatchAPI()
	seedGames(api, 3)
	api.failures["NA1_001"] = []error{ErrRateLimited, ErrRateLimited, ErrRateLimited}
	records := newMemoryRecords()
	svc, _ := newTestIngestion(api, records, nil, 100, 3)

	_, err := svc.Ingest(t.Context(), IngestInput{Player: testPlayer, Year: 2024, Routing: "americas"})
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("expected ErrRetriesExhausted, got %v", err)
	}
	require.Equal(t, 3, api.getCalls["NA1_001"])
	require.Zero(t, api.getCalls["NA1_002"])
	require.Equal(t, 1, records.count(testPlayer, 2024))
}

func TestIngestionService_Ingest_SkipsNonRateLimitFailures(t *testing.T) {
	t.Parallel()

	api := newFakeMatchAPI()
	seedGames(api, 3)
	api.failures["NA1_001"] = []error{errors.New("status 404")}
	broken := api.games["NA1_002"]
	broken.Info.Participants[1].VisionScore = nil
	api.games["NA1_002"] = broken

	records := newMemoryRecords()
	svc, _ := newTestIngestion(api, records, nil, 100, 3)

	got, err := svc.Ingest(t.Context(), IngestInput{Player: testPlayer, Year: 2024, Routing: "americas"})
	require.NoError(t, err)
	require.Equal(t, 1, api.getCalls["NA1_001"])
	require.Equal(t, 2, got.Skipped)
	require.Equal(t, 1, got.Persisted)
	if got.Complete {
		t.Fatalf("expected incomplete period when games were skipped")
	}
}

func TestIngestionService_Ingest_UnavailableDependencyFailsStage(t *testing.T) {
	t.Parallel()

	api := newFakeMatchAPI()
	seedGames(api, 4)
	api.failures["NA1_001"] = []error{fmt.Errorf("%w: circuit open", ErrDependencyUnavailable)}

	records := newMemoryRecords()
	svc, _ := newTestIngestion(api, records, nil, 100, 3)

	got, err := svc.Ingest(t.Context(), IngestInput{Player: testPlayer, Year: 2024, Routing: "americas"})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
	require.Zero(t, got.Skipped)
	require.Equal(t, 1, records.count(testPlayer, 2024))
	require.Zero(t, api.getCalls["NA1_002"])
}

func TestIngestionService_Ingest_ListRateLimitRetried(t *testing.T) {
	t.Parallel()

	api := newFakeMatchAPI()
	seedGames(api, 1)
	api.listErrs = []error{ErrRateLimited}
	svc, _ := newTestIngestion(api, newMemoryRecords(), nil, 100, 3)

	got, err := svc.Ingest(t.Context(), IngestInput{Player: testPlayer, Year: 2024, Routing: "americas"})
	require.NoError(t, err)
	require.Equal(t, 1, got.Discovered)
	require.Equal(t, 2, api.listCalls)
}

func TestIngestionService_Ingest_CancelledContext(t *testing.T) {
	t.Parallel()

	api := newFakeMatchAPI()
	seedGames(api, 2)
	api.failures["NA1_000"] = []error{ErrRateLimited}
	svc, _ := newTestIngestion(api, newMemoryRecords(), nil, 100, 5)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err := svc.Ingest(ctx, IngestInput{Player: testPlayer, Year: 2024, Routing: "americas"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestIngestionService_Ingest_ValidatesInput(t *testing.T) {
	t.Parallel()

	svc, _ := newTestIngestion(newFakeMatchAPI(), newMemoryRecords(), nil, 100, 3)
	for _, input := range []IngestInput{
		{Year: 2024, Routing: "americas"},
		{Player: testPlayer, Routing: "americas"},
		{Player: testPlayer, Year: 2024},
	} {
		if _, err := svc.Ingest(t.Context(), input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", input, err)
		}
	}
}
