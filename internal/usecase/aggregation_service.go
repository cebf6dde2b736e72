package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/rift-rewind/internal/domain/match"
	"github.com/riskibarqy/rift-rewind/internal/domain/summary"
	"github.com/riskibarqy/rift-rewind/internal/metrics"
	"github.com/riskibarqy/rift-rewind/internal/platform/logging"
)

type AggregationService struct {
	records   match.Repository
	summaries summary.Repository
	lookups   LookupProvider
	logger    *logging.Logger
}

func NewAggregationService(
	records match.Repository,
	summaries summary.Repository,
	lookups LookupProvider,
	logger *logging.Logger,
) *AggregationService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AggregationService{
		records:   records,
		summaries: summaries,
		lookups:   lookups,
		logger:    logger.Named("aggregate"),
	}
}

// Aggregate loads every persisted record of the period, builds the summary
// and writes it with its metadata sidecar. Re-running overwrites the summary.
func (s *AggregationService) Aggregate(ctx context.Context, player string, year int) (summary.Document, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AggregationService.Aggregate", periodAttributes(player, year)...)
	defer span.End()

	player = strings.TrimSpace(player)
	if player == "" {
		return summary.Document{}, fmt.Errorf("%w: player is required", ErrInvalidInput)
	}
	if year <= 0 {
		return summary.Document{}, fmt.Errorf("%w: year must be greater than zero", ErrInvalidInput)
	}

	started := time.Now()
	records, err := s.records.ListByPeriod(ctx, player, year)
	if err != nil {
		return summary.Document{}, fmt.Errorf("load records: %w", err)
	}
	if len(records) == 0 {
		return summary.Document{}, fmt.Errorf("%w: player=%s year=%d", ErrNoRecords, player, year)
	}

	lookups, err := s.lookups.Lookups(ctx, year)
	if err != nil {
		return summary.Document{}, fmt.Errorf("load lookups: %w", err)
	}

	doc := Aggregate(player, records, lookups)
	if err := s.summaries.Put(ctx, year, doc); err != nil {
		return summary.Document{}, fmt.Errorf("write summary: %w", err)
	}

	metrics.ObserveStage("aggregate_compute", started)
	s.logger.InfoContext(ctx, "summary written",
		"player", player,
		"year", year,
		"games", doc.Summary.Global.TotalGames,
		"champions", len(doc.Summary.Champions),
	)
	return doc, nil
}
