package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/rift-rewind/internal/domain/match"
	"github.com/riskibarqy/rift-rewind/internal/domain/summary"
	matchmock "github.com/riskibarqy/rift-rewind/internal/mocks/domain/match"
	summarymock "github.com/riskibarqy/rift-rewind/internal/mocks/domain/summary"
	"github.com/riskibarqy/rift-rewind/internal/platform/logging"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type staticLookups struct {
	lookups Lookups
	err     error
	years   []int
}

func (s *staticLookups) Lookups(_ context.Context, year int) (Lookups, error) {
	s.years = append(s.years, year)
	return s.lookups, s.err
}

func TestAggregationService_Aggregate_WritesSummary(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	records := matchmock.NewRepository(t)
	summaries := summarymock.NewRepository(t)
	lookups := &staticLookups{lookups: testLookups}

	records.
		On("ListByPeriod", mock.Anything, testPlayer, 2024).
		Return([]match.Record{testRecord("g1", 0, true), testRecord("g2", 0, false)}, nil).
		Once()
	summaries.
		On("Put", mock.Anything, 2024, mock.MatchedBy(func(doc summary.Document) bool {
			return doc.PlayerPUUID == testPlayer && doc.Summary.Global.TotalGames == 2
		})).
		Return(nil).
		Once()

	svc := NewAggregationService(records, summaries, lookups, logging.NewNop())
	doc, err := svc.Aggregate(ctx, testPlayer, 2024)
	require.NoError(t, err)
	require.Equal(t, 1, doc.Summary.Global.TotalWins)
	require.Equal(t, []int{2024}, lookups.years)
}

func TestAggregationService_Aggregate_NoRecords(t *testing.T) {
	t.Parallel()

	records := matchmock.NewRepository(t)
	summaries := summarymock.NewRepository(t)
	records.On("ListByPeriod", mock.Anything, testPlayer, 2024).Return(nil, nil).Once()

	svc := NewAggregationService(records, summaries, &staticLookups{}, logging.NewNop())
	_, err := svc.Aggregate(t.Context(), testPlayer, 2024)
	if !errors.Is(err, ErrNoRecords) {
		t.Fatalf("expected ErrNoRecords, got %v", err)
	}
	summaries.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
}

func TestAggregationService_Aggregate_LookupFailure(t *testing.T) {
	t.Parallel()

	records := matchmock.NewRepository(t)
	summaries := summarymock.NewRepository(t)
	records.On("ListByPeriod", mock.Anything, testPlayer, 2024).
		Return([]match.Record{testRecord("g1", 0, true)}, nil).
		Once()

	lookupErr := errors.New("static data unavailable")
	svc := NewAggregationService(records, summaries, &staticLookups{err: lookupErr}, logging.NewNop())
	_, err := svc.Aggregate(t.Context(), testPlayer, 2024)
	require.ErrorIs(t, err, lookupErr)
}
