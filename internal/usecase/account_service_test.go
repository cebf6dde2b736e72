package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/rift-rewind/internal/domain/account"
	factsmock "github.com/riskibarqy/rift-rewind/internal/mocks/domain/facts"
	summarymock "github.com/riskibarqy/rift-rewind/internal/mocks/domain/summary"
	"github.com/riskibarqy/rift-rewind/internal/platform/logging"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeAccountLookup struct {
	routing  string
	gameName string
	tagLine  string
	err      error
}

func (f *fakeAccountLookup) GetAccountByRiotID(_ context.Context, routing, gameName, tagLine string) (account.Account, error) {
	f.routing, f.gameName, f.tagLine = routing, gameName, tagLine
	if f.err != nil {
		return account.Account{}, f.err
	}
	return account.Account{PUUID: testPlayer, GameName: gameName, TagLine: tagLine}, nil
}

func TestRoutingForRegion(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"na1":  RoutingAmericas,
		"BR1":  RoutingAmericas,
		"la2":  RoutingAmericas,
		"euw1": RoutingEurope,
		"ru":   RoutingEurope,
		"kr":   RoutingAsia,
		"jp1":  RoutingAsia,
		"oc1":  RoutingSEA,
		"vn2":  RoutingSEA,
		"pbe1": RoutingAmericas,
	}
	for region, want := range cases {
		if got := RoutingForRegion(region); got != want {
			t.Fatalf("RoutingForRegion(%q): got=%s want=%s", region, got, want)
		}
	}
}

func TestAccountService_Resolve(t *testing.T) {
	t.Parallel()

	lookup := &fakeAccountLookup{}
	summaries := summarymock.NewRepository(t)
	finals := factsmock.NewRepository(t)
	summaries.On("Exists", mock.Anything, testPlayer, 2025).Return(true, nil).Once()
	finals.On("Exists", mock.Anything, testPlayer, 2025).Return(false, nil).Once()

	svc := NewAccountService(lookup, summaries, finals, logging.NewNop())
	svc.now = func() time.Time { return time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC) }

	got, err := svc.Resolve(t.Context(), " Faker#KR1 ", "SG2")
	require.NoError(t, err)
	require.Equal(t, "Faker", lookup.gameName)
	require.Equal(t, "KR1", lookup.tagLine)
	// sea has no account cluster
	require.Equal(t, RoutingAsia, lookup.routing)
	require.Equal(t, RoutingSEA, got.RoutingValue)
	require.Equal(t, "sg2", got.Region)
	require.Equal(t, 2025, got.Year)
	require.True(t, got.SummaryExists)
	require.False(t, got.FinalExists)
}

func TestAccountService_Resolve_InvalidRiotID(t *testing.T) {
	t.Parallel()

	svc := NewAccountService(&fakeAccountLookup{}, summarymock.NewRepository(t), factsmock.NewRepository(t), logging.NewNop())
	for _, riotID := range []string{"", "Faker", "Faker#", "#KR1"} {
		if _, err := svc.Resolve(t.Context(), riotID, "kr"); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %q, got %v", riotID, err)
		}
	}
}

func TestAccountService_Resolve_LookupError(t *testing.T) {
	t.Parallel()

	svc := NewAccountService(&fakeAccountLookup{err: ErrNotFound}, summarymock.NewRepository(t), factsmock.NewRepository(t), logging.NewNop())
	_, err := svc.Resolve(t.Context(), "Nobody#NA1", "na1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDefaultYear(t *testing.T) {
	t.Parallel()

	if got := DefaultYear(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)); got != 2024 {
		t.Fatalf("unexpected default year: got=%d want=2024", got)
	}
}
