package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/rift-rewind/internal/domain/facts"
	"github.com/riskibarqy/rift-rewind/internal/domain/run"
	"github.com/riskibarqy/rift-rewind/internal/domain/summary"
	"github.com/riskibarqy/rift-rewind/internal/metrics"
	"github.com/riskibarqy/rift-rewind/internal/platform/id"
	"github.com/riskibarqy/rift-rewind/internal/platform/logging"
)

const (
	defaultRunTimeout = 30 * time.Minute
	defaultRunWorkers = 8
)

type IngestStage interface {
	Ingest(ctx context.Context, input IngestInput) (IngestResult, error)
}

type AggregateStage interface {
	Aggregate(ctx context.Context, player string, year int) (summary.Document, error)
}

type FactsStage interface {
	Generate(ctx context.Context, desc run.Descriptor) ([]facts.Fact, error)
}

type OrchestratorConfig struct {
	Timeout time.Duration
	Workers int
}

// RunRequest starts a pipeline run. Nil existence flags are resolved from
// storage.
type RunRequest struct {
	Player        string
	Year          int
	Routing       string
	Observer      string
	SummaryExists *bool
	FinalExists   *bool
}

// RunOutcome is the terminal view of one run.
type RunOutcome struct {
	Descriptor run.Descriptor
	State      run.State
	Path       []run.State
	Ingest     *IngestResult
	Facts      []facts.Fact
	Err        error
}

type OrchestratorService struct {
	ingest    IngestStage
	aggregate AggregateStage
	facts     FactsStage
	markers   run.MarkerRepository
	summaries summary.Repository
	finals    facts.Repository
	notifier  Notifier
	ids       id.Generator
	pool      *ants.Pool
	cfg       OrchestratorConfig
	logger    *logging.Logger
	now       func() time.Time
}

func NewOrchestratorService(
	ingest IngestStage,
	aggregate AggregateStage,
	factsStage FactsStage,
	markers run.MarkerRepository,
	summaries summary.Repository,
	finals facts.Repository,
	notifier Notifier,
	cfg OrchestratorConfig,
	logger *logging.Logger,
) (*OrchestratorService, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if notifier == nil {
		notifier = NewNoopNotifier()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRunTimeout
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultRunWorkers
	}

	pool, err := ants.NewPool(cfg.Workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("create run pool: %w", err)
	}

	return &OrchestratorService{
		ingest:    ingest,
		aggregate: aggregate,
		facts:     factsStage,
		markers:   markers,
		summaries: summaries,
		finals:    finals,
		notifier:  notifier,
		ids:       id.NewPrefixedGenerator("run_"),
		pool:      pool,
		cfg:       cfg,
		logger:    logger.Named("orchestrator"),
		now:       time.Now,
	}, nil
}

// Close waits for in-flight runs up to timeout.
func (s *OrchestratorService) Close(timeout time.Duration) error {
	return s.pool.ReleaseTimeout(timeout)
}

// Submit claims the period and runs the workflow on the worker pool. It
// returns ErrRunBusy, after notifying the observer, when another run owns
// the period.
func (s *OrchestratorService) Submit(ctx context.Context, req RunRequest) (run.Descriptor, error) {
	desc, err := s.prepare(ctx, req)
	if err != nil {
		return run.Descriptor{}, err
	}

	runCtx := context.WithoutCancel(ctx)
	if err := s.pool.Submit(func() {
		s.execute(runCtx, desc)
	}); err != nil {
		s.release(runCtx, desc)
		if errors.Is(err, ants.ErrPoolOverload) {
			return run.Descriptor{}, fmt.Errorf("%w: run pool is full", ErrDependencyUnavailable)
		}
		return run.Descriptor{}, fmt.Errorf("submit run: %w", err)
	}
	return desc, nil
}

// Execute runs the workflow on the calling goroutine. The returned error is
// the stage error of a failed run.
func (s *OrchestratorService) Execute(ctx context.Context, req RunRequest) (RunOutcome, error) {
	desc, err := s.prepare(ctx, req)
	if err != nil {
		return RunOutcome{}, err
	}
	outcome := s.execute(ctx, desc)
	return outcome, outcome.Err
}

func (s *OrchestratorService) ListActive(ctx context.Context) ([]run.Marker, error) {
	markers, err := s.markers.ListActive(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("list active runs: %w", err)
	}
	return markers, nil
}

func (s *OrchestratorService) prepare(ctx context.Context, req RunRequest) (run.Descriptor, error) {
	req.Player = strings.TrimSpace(req.Player)
	req.Routing = strings.TrimSpace(req.Routing)
	if req.Player == "" {
		return run.Descriptor{}, fmt.Errorf("%w: player is required", ErrInvalidInput)
	}
	if req.Year <= 0 {
		return run.Descriptor{}, fmt.Errorf("%w: year must be greater than zero", ErrInvalidInput)
	}
	if req.Routing == "" {
		return run.Descriptor{}, fmt.Errorf("%w: routing value is required", ErrInvalidInput)
	}

	runID, err := s.ids.NewID()
	if err != nil {
		return run.Descriptor{}, fmt.Errorf("generate run id: %w", err)
	}

	desc := run.Descriptor{
		ID:        runID,
		Player:    req.Player,
		Year:      req.Year,
		Routing:   req.Routing,
		Observer:  strings.TrimSpace(req.Observer),
		StartedAt: s.now().UTC(),
	}
	if desc.SummaryExists, err = s.resolveFlag(ctx, req.SummaryExists, s.summaries.Exists, desc); err != nil {
		return run.Descriptor{}, fmt.Errorf("check summary: %w", err)
	}
	if desc.FinalExists, err = s.resolveFlag(ctx, req.FinalExists, s.finals.Exists, desc); err != nil {
		return run.Descriptor{}, fmt.Errorf("check facts: %w", err)
	}

	acquired, err := s.markers.TryAcquire(ctx, run.Marker{
		Player:     desc.Player,
		Year:       desc.Year,
		RunID:      desc.ID,
		AcquiredAt: desc.StartedAt,
		ExpiresAt:  desc.StartedAt.Add(s.cfg.Timeout),
	}, desc.StartedAt)
	if err != nil {
		return run.Descriptor{}, fmt.Errorf("acquire run marker: %w", err)
	}
	if !acquired {
		s.logger.InfoContext(ctx, "run already active, rejecting", "player", desc.Player, "year", desc.Year)
		newProgressReporter(s.notifier, desc.Observer, s.logger).emit(ctx, run.Simple(run.EventBusy))
		return run.Descriptor{}, fmt.Errorf("%w: %s", ErrRunBusy, desc.Key())
	}

	metrics.RunsStarted.Inc()
	metrics.ActiveRuns.Inc()
	return desc, nil
}

func (s *OrchestratorService) resolveFlag(
	ctx context.Context,
	given *bool,
	exists func(ctx context.Context, player string, year int) (bool, error),
	desc run.Descriptor,
) (bool, error) {
	if given != nil {
		return *given, nil
	}
	return exists(ctx, desc.Player, desc.Year)
}

// runExecution is the mutable state of one workflow walk.
type runExecution struct {
	desc    run.Descriptor
	state   run.State
	path    []run.State
	ingest  *IngestResult
	facts   []facts.Fact
	err     error
	failure run.State
}

func (s *OrchestratorService) execute(ctx context.Context, desc run.Descriptor) RunOutcome {
	ctx, span := startUsecaseSpan(ctx, "usecase.OrchestratorService.Execute", periodAttributes(desc.Player, desc.Year)...)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	defer s.release(ctx, desc)

	logger := s.logger.With("run_id", desc.ID, "player", desc.Player, "year", desc.Year)
	exec := &runExecution{desc: desc, state: run.StateAssignVariables}

	for !exec.state.Terminal() {
		exec.path = append(exec.path, exec.state)
		started := time.Now()
		condition, err := s.step(ctx, exec, logger)
		metrics.ObserveStage(string(exec.state), started)

		if err != nil {
			handler, caught := catchState(exec.state)
			if !caught {
				logger.ErrorContext(ctx, "uncaught workflow error", "state", string(exec.state), "error", err)
			}
			logger.WarnContext(ctx, "stage failed", "state", string(exec.state), "error", err)
			exec.err = err
			exec.failure = exec.state
			exec.state = handler
			continue
		}

		next, err := nextState(exec.state, condition)
		if err != nil {
			exec.err = err
			exec.failure = exec.state
			exec.state = run.StateNotifyFailure
			continue
		}
		exec.state = next
	}
	exec.path = append(exec.path, exec.state)

	outcome := "succeeded"
	if exec.state == run.StateFailed {
		outcome = "failed"
	}
	metrics.RunsFinished.WithLabelValues(outcome).Inc()
	logger.InfoContext(ctx, "run finished",
		"state", string(exec.state),
		"duration", time.Since(desc.StartedAt).String(),
	)

	return RunOutcome{
		Descriptor: desc,
		State:      exec.state,
		Path:       exec.path,
		Ingest:     exec.ingest,
		Facts:      exec.facts,
		Err:        exec.err,
	}
}

func (s *OrchestratorService) step(ctx context.Context, exec *runExecution, logger *logging.Logger) (run.Condition, error) {
	desc := exec.desc
	switch exec.state {
	case run.StateAssignVariables:
		logger.InfoContext(ctx, "run started",
			"routing", desc.Routing,
			"summary_exists", desc.SummaryExists,
			"final_exists", desc.FinalExists,
		)
		return run.ConditionAlways, nil

	case run.StateCheckFinalExists:
		return boolCondition(desc.FinalExists), nil

	case run.StateCheckSummaryExists:
		if desc.SummaryExists {
			// Stored records may be incomplete; the summary is reused as is.
			logger.WarnContext(ctx, "summary exists, skipping ingest and aggregate")
		}
		return boolCondition(desc.SummaryExists), nil

	case run.StateIngest:
		result, err := s.ingest.Ingest(ctx, IngestInput{
			Player:   desc.Player,
			Year:     desc.Year,
			Routing:  desc.Routing,
			Observer: desc.Observer,
		})
		if err != nil {
			return "", err
		}
		exec.ingest = &result
		if !result.Complete {
			logger.WarnContext(ctx, "period incomplete after ingest",
				"discovered", result.Discovered,
				"persisted", result.Persisted,
			)
		}
		return run.ConditionDone, nil

	case run.StateAggregate:
		if _, err := s.aggregate.Aggregate(ctx, desc.Player, desc.Year); err != nil {
			return "", err
		}
		return run.ConditionDone, nil

	case run.StateGenerateFacts:
		items, err := s.facts.Generate(ctx, desc)
		if err != nil {
			return "", err
		}
		exec.facts = items
		return run.ConditionDone, nil

	case run.StateNotifyFailure:
		// The run context may already be expired.
		notifyCtx := context.WithoutCancel(ctx)
		logger.ErrorContext(notifyCtx, "run failed", "failed_state", string(exec.failure), "error", exec.err)
		newProgressReporter(s.notifier, desc.Observer, logger).emit(notifyCtx, run.Fail(exec.err))
		return run.ConditionAlways, nil

	default:
		return "", fmt.Errorf("unknown workflow state %q", exec.state)
	}
}

func (s *OrchestratorService) release(ctx context.Context, desc run.Descriptor) {
	metrics.ActiveRuns.Dec()
	if err := s.markers.Release(context.WithoutCancel(ctx), desc.Key(), desc.ID); err != nil {
		s.logger.ErrorContext(ctx, "release run marker failed", "run_id", desc.ID, "error", err)
	}
}
