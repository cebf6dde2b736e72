package riot

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/rift-rewind/internal/domain/match"
	"github.com/riskibarqy/rift-rewind/internal/infrastructure/objectstore"
	"github.com/riskibarqy/rift-rewind/internal/infrastructure/repository/blob"
	"github.com/riskibarqy/rift-rewind/internal/platform/logging"
	"github.com/riskibarqy/rift-rewind/internal/platform/resilience"
	"github.com/riskibarqy/rift-rewind/internal/usecase"
	"github.com/stretchr/testify/require"
)

const ingestPlayer = "puuid-ingest"

func ref[T any](v T) *T {
	return &v
}

func ingestGame(t *testing.T, id string, created time.Time) []byte {
	t.Helper()

	game := match.RawGame{
		Metadata: match.RawMetadata{MatchID: id, Participants: []string{ingestPlayer}},
		Info: match.RawInfo{
			GameCreation:       ref(created.UnixMilli()),
			GameDuration:       ref(int64(1500)),
			GameStartTimestamp: ref(created.UnixMilli()),
			GameMode:           ref("CLASSIC"),
			QueueID:            ref(420),
			Participants: []match.RawParticipant{{
				PUUID:                       ingestPlayer,
				ChampionName:                ref("Lux"),
				ChampionID:                  ref(99),
				TeamPosition:                ref("UTILITY"),
				IndividualPosition:          ref("UTILITY"),
				Kills:                       ref(2),
				Deaths:                      ref(3),
				Assists:                     ref(14),
				TotalMinionsKilled:          ref(30),
				NeutralMinionsKilled:        ref(0),
				GoldEarned:                  ref(8000),
				TotalDamageDealtToChampions: ref(15000),
				TotalDamageTaken:            ref(9000),
				VisionScore:                 ref(40),
				Win:                         ref(true),
				Item0:                       ref(3853),
				Item1:                       ref(0),
				Item2:                       ref(0),
				Item3:                       ref(0),
				Item4:                       ref(0),
				Item5:                       ref(0),
				Item6:                       ref(3364),
				Summoner1ID:                 ref(4),
				Summoner2ID:                 ref(3),
				Perks: &match.RawPerks{Styles: []match.RawPerkStyle{
					{Style: ref(8200), Selections: []match.RawPerkSelection{{Perk: ref(8214)}}},
					{Style: ref(8300)},
				}},
			}},
		},
	}
	raw, err := sonic.Marshal(game)
	require.NoError(t, err)
	return raw
}

// ingestUpstream lists ids G1..G{n} and answers 503 for the ids in failing.
type ingestUpstream struct {
	mu      sync.Mutex
	ids     []string
	failing map[string]bool
	games   map[string][]byte
	hits    map[string]int
}

func newIngestUpstream(t *testing.T, n int, failing ...string) *ingestUpstream {
	t.Helper()

	u := &ingestUpstream{failing: map[string]bool{}, games: map[string][]byte{}, hits: map[string]int{}}
	base := time.Date(2024, time.May, 1, 18, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("G%d", i)
		u.ids = append(u.ids, id)
		u.games[id] = ingestGame(t, id, base.Add(time.Duration(i)*time.Hour))
	}
	for _, id := range failing {
		u.failing[id] = true
	}
	return u
}

func (u *ingestUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasSuffix(r.URL.Path, "/ids") {
		if r.URL.Query().Get("start") != "0" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		raw, _ := sonic.Marshal(u.ids)
		_, _ = w.Write(raw)
		return
	}

	id := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	u.mu.Lock()
	u.hits[id]++
	u.mu.Unlock()
	if u.failing[id] {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	_, _ = w.Write(u.games[id])
}

func (u *ingestUpstream) hitsFor(id string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.hits[id]
}

func newIngestThroughClient(t *testing.T, upstream http.Handler, breaker resilience.CircuitBreakerConfig) (*usecase.IngestionService, *blob.RecordRepository) {
	t.Helper()

	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient:        server.Client(),
		BaseURL:           server.URL,
		RequestsPerSecond: 1000,
		Logger:            logging.NewNop(),
		CircuitBreaker:    breaker,
	})
	records := blob.NewRecordRepository(objectstore.NewMemoryStore())
	svc := usecase.NewIngestionService(client, records, nil, nil, usecase.IngestionConfig{
		PageSize: 100,
		Retry:    resilience.RetryPolicy{MaxAttempts: 3, Backoff: time.Millisecond, Multiplier: 1},
	}, logging.NewNop())
	return svc, records
}

func TestIngest_ServerErrorSkipsIDAfterOneRequest(t *testing.T) {
	t.Parallel()

	upstream := newIngestUpstream(t, 6, "G2", "G4", "G5")
	svc, records := newIngestThroughClient(t, upstream, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 10,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	got, err := svc.Ingest(t.Context(), usecase.IngestInput{Player: ingestPlayer, Year: 2024, Routing: "americas"})
	require.NoError(t, err)
	require.Equal(t, 3, got.Skipped)
	require.Equal(t, 3, got.Persisted)
	require.False(t, got.Complete)

	for _, id := range upstream.ids {
		if hits := upstream.hitsFor(id); hits != 1 {
			t.Fatalf("unexpected requests for %s: got=%d want=1", id, hits)
		}
	}

	stored, err := records.ListGameIDs(t.Context(), ingestPlayer, 2024)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"G1", "G3", "G6"}, stored)
}

func TestIngest_OpenBreakerFailsStageWithoutSkipping(t *testing.T) {
	t.Parallel()

	upstream := newIngestUpstream(t, 8, "G1", "G2", "G3", "G4", "G5")
	svc, records := newIngestThroughClient(t, upstream, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	got, err := svc.Ingest(t.Context(), usecase.IngestInput{Player: ingestPlayer, Year: 2024, Routing: "americas"})
	require.ErrorIs(t, err, usecase.ErrDependencyUnavailable)
	require.Equal(t, 5, got.Skipped)
	require.Zero(t, upstream.hitsFor("G6"))

	stored, err := records.ListGameIDs(t.Context(), ingestPlayer, 2024)
	require.NoError(t, err)
	require.Empty(t, stored)
}
