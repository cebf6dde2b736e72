package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/rift-rewind/internal/domain/facts"
	"github.com/riskibarqy/rift-rewind/internal/domain/run"
	"github.com/riskibarqy/rift-rewind/internal/platform/logging"
)

// DefaultFactResults is the number of retrieval results requested per run.
const DefaultFactResults = 15

// FactGenerator is the retrieval-and-generation service. It returns the
// model's raw text output.
type FactGenerator interface {
	RetrieveAndGenerate(ctx context.Context, player string, year, maxResults int) (string, error)
}

var factArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

type FactsService struct {
	generator  FactGenerator
	facts      facts.Repository
	notifier   Notifier
	maxResults int
	logger     *logging.Logger
}

func NewFactsService(generator FactGenerator, repo facts.Repository, notifier Notifier, logger *logging.Logger) *FactsService {
	if logger == nil {
		logger = logging.Default()
	}
	if notifier == nil {
		notifier = NewNoopNotifier()
	}
	return &FactsService{
		generator:  generator,
		facts:      repo,
		notifier:   notifier,
		maxResults: DefaultFactResults,
		logger:     logger.Named("facts"),
	}
}

// Generate returns the final facts for the run's period, generating and
// storing them when the run does not already have them. On success the
// observer receives COMPLETE with the facts as result.
func (s *FactsService) Generate(ctx context.Context, desc run.Descriptor) ([]facts.Fact, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FactsService.Generate", periodAttributes(desc.Player, desc.Year)...)
	defer span.End()

	logger := s.logger.With("player", desc.Player, "year", desc.Year, "run_id", desc.ID)
	progress := newProgressReporter(s.notifier, desc.Observer, logger)

	if desc.FinalExists {
		items, ok, err := s.facts.Get(ctx, desc.Player, desc.Year)
		if err != nil {
			return nil, fmt.Errorf("read final facts: %w", err)
		}
		if ok {
			logger.InfoContext(ctx, "reusing stored facts", "count", len(items))
			progress.emit(ctx, run.Complete(items))
			return items, nil
		}
		logger.WarnContext(ctx, "final facts flagged but not stored, generating")
	}

	progress.emit(ctx, run.Simple(run.EventGeneratingFacts))

	output, err := s.generator.RetrieveAndGenerate(ctx, desc.Player, desc.Year, s.maxResults)
	if err != nil {
		return nil, fmt.Errorf("generate facts: %w", err)
	}

	items, err := ExtractFacts(output)
	if err != nil {
		logger.WarnContext(ctx, "fact output could not be parsed", "output_length", len(output))
		return nil, err
	}

	if err := s.facts.Put(ctx, desc.Player, desc.Year, items); err != nil {
		return nil, fmt.Errorf("write facts: %w", err)
	}

	logger.InfoContext(ctx, "facts generated", "count", len(items))
	progress.emit(ctx, run.Complete(items))
	return items, nil
}

// ExtractFacts parses the generator output as a JSON array, falling back to
// the outermost bracketed span when the model wraps it in prose.
func ExtractFacts(output string) ([]facts.Fact, error) {
	output = strings.TrimSpace(output)

	var items []facts.Fact
	if err := sonic.UnmarshalString(output, &items); err == nil {
		return nonNilFacts(items), nil
	}

	span := factArrayPattern.FindString(output)
	if span == "" {
		return nil, fmt.Errorf("%w: no array found", ErrFactsMalformed)
	}
	if err := sonic.UnmarshalString(span, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFactsMalformed, err)
	}
	return nonNilFacts(items), nil
}

func nonNilFacts(items []facts.Fact) []facts.Fact {
	if items == nil {
		return []facts.Fact{}
	}
	return items
}
