package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/rift-rewind/internal/domain/match"
	"github.com/riskibarqy/rift-rewind/internal/domain/run"
	"github.com/riskibarqy/rift-rewind/internal/platform/resilience"
)

const testPlayer = "puuid-test-player"

func ptr[T any](v T) *T {
	return &v
}

// rawGameAt builds a complete payload for testPlayer.
func rawGameAt(id string, created time.Time, win bool) match.RawGame {
	return match.RawGame{
		Metadata: match.RawMetadata{MatchID: id, Participants: []string{"someone-else", testPlayer}},
		Info: match.RawInfo{
			GameCreation:       ptr(created.UnixMilli()),
			GameDuration:       ptr(int64(1800)),
			GameStartTimestamp: ptr(created.Add(time.Minute).UnixMilli()),
			GameMode:           ptr("CLASSIC"),
			QueueID:            ptr(420),
			Participants: []match.RawParticipant{
				{PUUID: "someone-else", ChampionName: ptr("Garen")},
				{
					PUUID:                       testPlayer,
					ChampionName:                ptr("Ahri"),
					ChampionID:                  ptr(103),
					TeamPosition:                ptr("MIDDLE"),
					IndividualPosition:          ptr("MIDDLE"),
					Kills:                       ptr(7),
					Deaths:                      ptr(2),
					Assists:                     ptr(9),
					TotalMinionsKilled:          ptr(180),
					NeutralMinionsKilled:        ptr(12),
					GoldEarned:                  ptr(12500),
					TotalDamageDealtToChampions: ptr(24000),
					TotalDamageTaken:            ptr(15000),
					VisionScore:                 ptr(22),
					Win:                         ptr(win),
					Item0:                       ptr(3157),
					Item1:                       ptr(3020),
					Item2:                       ptr(0),
					Item3:                       ptr(4645),
					Item4:                       ptr(0),
					Item5:                       ptr(0),
					Item6:                       ptr(3340),
					Summoner1ID:                 ptr(4),
					Summoner2ID:                 ptr(14),
					Perks: &match.RawPerks{Styles: []match.RawPerkStyle{
						{Description: "primaryStyle", Style: ptr(8100), Selections: []match.RawPerkSelection{{Perk: ptr(8112)}}},
						{Description: "subStyle", Style: ptr(8200), Selections: []match.RawPerkSelection{{Perk: ptr(8226)}}},
					}},
				},
			},
		},
	}
}

// memoryRecords is a match.Repository keyed by player, year and game id.
type memoryRecords struct {
	mu      sync.Mutex
	records map[run.Key]map[string]match.Record
	order   map[run.Key][]string
	putErr  error
}

func newMemoryRecords() *memoryRecords {
	return &memoryRecords{
		records: make(map[run.Key]map[string]match.Record),
		order:   make(map[run.Key][]string),
	}
}

func (m *memoryRecords) ListGameIDs(_ context.Context, player string, year int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := append([]string(nil), m.order[run.Key{Player: player, Year: year}]...)
	sort.Strings(ids)
	return ids, nil
}

func (m *memoryRecords) ListByPeriod(_ context.Context, player string, year int) ([]match.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := run.Key{Player: player, Year: year}
	out := make([]match.Record, 0, len(m.order[key]))
	for _, id := range m.order[key] {
		out = append(out, m.records[key][id])
	}
	return out, nil
}

func (m *memoryRecords) Put(_ context.Context, player string, record match.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	key := run.Key{Player: player, Year: record.StorageDate().Year()}
	if m.records[key] == nil {
		m.records[key] = make(map[string]match.Record)
	}
	if _, ok := m.records[key][record.GameID]; !ok {
		m.order[key] = append(m.order[key], record.GameID)
	}
	m.records[key][record.GameID] = record
	return nil
}

func (m *memoryRecords) count(player string, year int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.order[run.Key{Player: player, Year: year}])
}

// fakeMatchAPI serves a fixed id listing and per-id payloads. failures holds
// the errors returned before a game succeeds.
type fakeMatchAPI struct {
	mu        sync.Mutex
	ids       []string
	games     map[string]match.RawGame
	failures  map[string][]error
	listErrs  []error
	getCalls  map[string]int
	listCalls int
}

func newFakeMatchAPI() *fakeMatchAPI {
	return &fakeMatchAPI{
		games:    make(map[string]match.RawGame),
		failures: make(map[string][]error),
		getCalls: make(map[string]int),
	}
}

func (f *fakeMatchAPI) addGame(raw match.RawGame) {
	f.ids = append(f.ids, raw.Metadata.MatchID)
	f.games[raw.Metadata.MatchID] = raw
}

func (f *fakeMatchAPI) ListMatchIDs(_ context.Context, _, _ string, _ match.Window, start, count int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if len(f.listErrs) > 0 {
		err := f.listErrs[0]
		f.listErrs = f.listErrs[1:]
		return nil, err
	}
	if start >= len(f.ids) {
		return []string{}, nil
	}
	end := min(start+count, len(f.ids))
	return append([]string(nil), f.ids[start:end]...), nil
}

func (f *fakeMatchAPI) GetMatch(_ context.Context, _, matchID string) (match.RawGame, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls[matchID]++
	if errs := f.failures[matchID]; len(errs) > 0 {
		f.failures[matchID] = errs[1:]
		return match.RawGame{}, errs[0]
	}
	raw, ok := f.games[matchID]
	if !ok {
		return match.RawGame{}, errors.New("match not found")
	}
	return raw, nil
}

func (f *fakeMatchAPI) totalGetCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.getCalls {
		total += n
	}
	return total
}

// recordingNotifier keeps every event per connection.
type recordingNotifier struct {
	mu     sync.Mutex
	events map[string][]run.Event
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{events: make(map[string][]run.Event)}
}

func (n *recordingNotifier) Send(_ context.Context, connectionID string, event run.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events[connectionID] = append(n.events[connectionID], event)
	return nil
}

func (n *recordingNotifier) states(connectionID string) []run.EventState {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]run.EventState, 0, len(n.events[connectionID]))
	for _, event := range n.events[connectionID] {
		out = append(out, event.State)
	}
	return out
}

func (n *recordingNotifier) eventsFor(connectionID string) []run.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]run.Event(nil), n.events[connectionID]...)
}

// noSleep records requested backoffs without waiting.
type noSleep struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (s *noSleep) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.waits = append(s.waits, d)
	s.mu.Unlock()
	return ctx.Err()
}

var _ resilience.Sleeper = (&noSleep{}).sleep
