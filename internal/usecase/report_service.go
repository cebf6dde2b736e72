package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/rift-rewind/internal/domain/facts"
	"github.com/riskibarqy/rift-rewind/internal/domain/summary"
)

// ReportService serves stored pipeline outputs to the front door.
type ReportService struct {
	summaries summary.Repository
	facts     facts.Repository
}

func NewReportService(summaries summary.Repository, factsRepo facts.Repository) *ReportService {
	return &ReportService{summaries: summaries, facts: factsRepo}
}

func (s *ReportService) GetSummary(ctx context.Context, player string, year int) (summary.Document, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.GetSummary", periodAttributes(player, year)...)
	defer span.End()

	if err := validatePeriod(player, year); err != nil {
		return summary.Document{}, err
	}
	doc, found, err := s.summaries.Get(ctx, strings.TrimSpace(player), year)
	if err != nil {
		return summary.Document{}, fmt.Errorf("get summary: %w", err)
	}
	if !found {
		return summary.Document{}, fmt.Errorf("%w: summary player=%s year=%d", ErrNotFound, player, year)
	}
	return doc, nil
}

func (s *ReportService) GetFacts(ctx context.Context, player string, year int) ([]facts.Fact, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.GetFacts", periodAttributes(player, year)...)
	defer span.End()

	if err := validatePeriod(player, year); err != nil {
		return nil, err
	}
	items, found, err := s.facts.Get(ctx, strings.TrimSpace(player), year)
	if err != nil {
		return nil, fmt.Errorf("get facts: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: facts player=%s year=%d", ErrNotFound, player, year)
	}
	return nonNilFacts(items), nil
}

func validatePeriod(player string, year int) error {
	if strings.TrimSpace(player) == "" {
		return fmt.Errorf("%w: player is required", ErrInvalidInput)
	}
	if year <= 0 {
		return fmt.Errorf("%w: year must be greater than zero", ErrInvalidInput)
	}
	return nil
}
