package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/rift-rewind/internal/domain/match"
	"github.com/riskibarqy/rift-rewind/internal/domain/run"
	"github.com/riskibarqy/rift-rewind/internal/metrics"
	"github.com/riskibarqy/rift-rewind/internal/platform/logging"
	"github.com/riskibarqy/rift-rewind/internal/platform/resilience"
)

const defaultMatchPageSize = 100

// MatchAPI is the rate-limited game-data API. Throttled calls return an
// error wrapping ErrRateLimited.
type MatchAPI interface {
	ListMatchIDs(ctx context.Context, routing, player string, window match.Window, start, count int) ([]string, error)
	GetMatch(ctx context.Context, routing, matchID string) (match.RawGame, error)
}

type IngestionConfig struct {
	PageSize int
	Retry    resilience.RetryPolicy
}

type IngestInput struct {
	Player   string
	Year     int
	Routing  string
	Observer string
}

type IngestResult struct {
	Complete   bool `json:"complete"`
	Discovered int  `json:"discovered"`
	Persisted  int  `json:"persisted"`
	Fetched    int  `json:"fetched"`
	Skipped    int  `json:"skipped"`
}

type IngestionService struct {
	api        MatchAPI
	records    match.Repository
	normalizer *Normalizer
	notifier   Notifier
	cfg        IngestionConfig
	logger     *logging.Logger
	sleep      resilience.Sleeper
}

func NewIngestionService(
	api MatchAPI,
	records match.Repository,
	normalizer *Normalizer,
	notifier Notifier,
	cfg IngestionConfig,
	logger *logging.Logger,
) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	if normalizer == nil {
		normalizer = NewNormalizer(logger)
	}
	if notifier == nil {
		notifier = NewNoopNotifier()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultMatchPageSize
	}
	cfg.Retry = resilience.NormalizeRetryPolicy(cfg.Retry)

	return &IngestionService{
		api:        api,
		records:    records,
		normalizer: normalizer,
		notifier:   notifier,
		cfg:        cfg,
		logger:     logger.Named("ingest"),
		sleep:      resilience.SleepContext,
	}
}

// Ingest fetches every game of the period not yet persisted. It is safe to
// re-run: already stored game ids are never fetched again.
func (s *IngestionService) Ingest(ctx context.Context, input IngestInput) (IngestResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.Ingest", periodAttributes(input.Player, input.Year)...)
	defer span.End()

	input.Player = strings.TrimSpace(input.Player)
	input.Routing = strings.TrimSpace(input.Routing)
	if input.Player == "" {
		return IngestResult{}, fmt.Errorf("%w: player is required", ErrInvalidInput)
	}
	if input.Year <= 0 {
		return IngestResult{}, fmt.Errorf("%w: year must be greater than zero", ErrInvalidInput)
	}
	if input.Routing == "" {
		return IngestResult{}, fmt.Errorf("%w: routing value is required", ErrInvalidInput)
	}

	logger := s.logger.With("player", input.Player, "year", input.Year)
	progress := newProgressReporter(s.notifier, input.Observer, logger)

	existingIDs, err := s.records.ListGameIDs(ctx, input.Player, input.Year)
	if err != nil {
		return IngestResult{}, fmt.Errorf("list persisted games: %w", err)
	}
	persisted := make(map[string]struct{}, len(existingIDs))
	for _, id := range existingIDs {
		persisted[id] = struct{}{}
	}

	allIDs, err := s.listPeriodMatchIDs(ctx, input)
	if err != nil {
		return IngestResult{}, err
	}

	missing := make([]string, 0, len(allIDs))
	for _, id := range allIDs {
		if _, ok := persisted[id]; !ok {
			missing = append(missing, id)
		}
	}

	logger.InfoContext(ctx, "ingestion started",
		"discovered", len(allIDs),
		"already_persisted", len(persisted),
		"missing", len(missing),
	)
	progress.emit(ctx, run.StartRetrieveMatch(len(allIDs)))

	result := IngestResult{Discovered: len(allIDs)}
	for _, matchID := range missing {
		raw, err := s.fetchMatch(ctx, input.Routing, matchID)
		if err != nil {
			// An open breaker rejects ids without asking upstream; stop
			// instead of skipping games that were never requested.
			if errors.Is(err, ErrRetriesExhausted) || errors.Is(err, ErrDependencyUnavailable) || ctx.Err() != nil {
				return result, err
			}
			result.Skipped++
			metrics.GamesSkipped.WithLabelValues("fetch").Inc()
			logger.WarnContext(ctx, "skip match after fetch failure", "match_id", matchID, "error", err)
			continue
		}
		result.Fetched++
		metrics.GamesFetched.Inc()

		record := s.normalizer.Normalize(raw, input.Player)
		if record == nil {
			result.Skipped++
			metrics.GamesSkipped.WithLabelValues("normalize").Inc()
			continue
		}

		if err := s.records.Put(ctx, input.Player, *record); err != nil {
			return result, fmt.Errorf("persist match %s: %w", matchID, err)
		}
		persisted[matchID] = struct{}{}
		metrics.GamesPersisted.Inc()
		progress.emit(ctx, run.RetrievingMatch(len(persisted)))
	}

	progress.emit(ctx, run.Simple(run.EventProcessingMatch))

	result.Persisted = len(persisted)
	result.Complete = result.Persisted == result.Discovered
	logger.InfoContext(ctx, "ingestion finished",
		"fetched", result.Fetched,
		"skipped", result.Skipped,
		"persisted", result.Persisted,
		"complete", result.Complete,
	)
	return result, nil
}

// listPeriodMatchIDs pages the id listing until a short or empty page.
// Ids keep API order; repeats across pages are dropped.
func (s *IngestionService) listPeriodMatchIDs(ctx context.Context, input IngestInput) ([]string, error) {
	window := match.YearWindow(input.Year)
	seen := make(map[string]struct{}, s.cfg.PageSize)
	out := make([]string, 0, s.cfg.PageSize)

	for start := 0; ; start += s.cfg.PageSize {
		var page []string
		err := s.withRateLimitRetry(ctx, "list_ids", func(ctx context.Context) error {
			var listErr error
			page, listErr = s.api.ListMatchIDs(ctx, input.Routing, input.Player, window, start, s.cfg.PageSize)
			return listErr
		})
		if err != nil {
			return nil, fmt.Errorf("list match ids start=%d: %w", start, err)
		}

		for _, id := range page {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}

		if len(page) < s.cfg.PageSize {
			return out, nil
		}
	}
}

func (s *IngestionService) fetchMatch(ctx context.Context, routing, matchID string) (match.RawGame, error) {
	var raw match.RawGame
	err := s.withRateLimitRetry(ctx, "get_match", func(ctx context.Context) error {
		var getErr error
		raw, getErr = s.api.GetMatch(ctx, routing, matchID)
		return getErr
	})
	if err != nil {
		return match.RawGame{}, fmt.Errorf("fetch match %s: %w", matchID, err)
	}
	return raw, nil
}

func (s *IngestionService) withRateLimitRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	err := resilience.Retry(ctx, s.cfg.Retry, s.sleep,
		func(err error) bool { return errors.Is(err, ErrRateLimited) },
		func(attempt int, err error) {
			metrics.RateLimitRetries.WithLabelValues(op).Inc()
			s.logger.DebugContext(ctx, "rate limited, backing off",
				"operation", op,
				"attempt", attempt,
				"backoff", s.cfg.Retry.Backoff.String(),
			)
		},
		fn,
	)
	if errors.Is(err, resilience.ErrAttemptsExhausted) {
		return fmt.Errorf("%w: %w", ErrRetriesExhausted, err)
	}
	return err
}
