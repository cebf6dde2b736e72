package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/rift-rewind/external/ddragon"
	"github.com/riskibarqy/rift-rewind/external/factgen"
	"github.com/riskibarqy/rift-rewind/external/riot"
	"github.com/riskibarqy/rift-rewind/internal/config"
	"github.com/riskibarqy/rift-rewind/internal/domain/facts"
	"github.com/riskibarqy/rift-rewind/internal/domain/run"
	"github.com/riskibarqy/rift-rewind/internal/domain/summary"
	"github.com/riskibarqy/rift-rewind/internal/infrastructure/notify"
	"github.com/riskibarqy/rift-rewind/internal/infrastructure/objectstore"
	"github.com/riskibarqy/rift-rewind/internal/infrastructure/repository/blob"
	"github.com/riskibarqy/rift-rewind/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/rift-rewind/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/rift-rewind/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/rift-rewind/internal/interfaces/httpapi"
	"github.com/riskibarqy/rift-rewind/internal/metrics"
	"github.com/riskibarqy/rift-rewind/internal/platform/logging"
	"github.com/riskibarqy/rift-rewind/internal/platform/resilience"
	"github.com/riskibarqy/rift-rewind/internal/usecase"
)

const (
	reportCacheTTL    = 5 * time.Minute
	runDrainTimeout   = 30 * time.Second
	hubHandshakeLimit = 10 * time.Second
)

// Pipeline holds the wired stages shared by the API server and the CLI.
type Pipeline struct {
	Config       config.Config
	Records      *blob.RecordRepository
	Summaries    summary.Repository
	Facts        facts.Repository
	Markers      run.MarkerRepository
	Accounts     *usecase.AccountService
	Ingestion    *usecase.IngestionService
	Aggregation  *usecase.AggregationService
	FactsStage   *usecase.FactsService
	Orchestrator *usecase.OrchestratorService
	Reports      *usecase.ReportService

	closers []func() error
}

// NewPipeline builds storage, upstream clients and services. Progress events
// go to notifier.
func NewPipeline(ctx context.Context, cfg config.Config, notifier usecase.Notifier, logger *logging.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = logging.Default()
	}
	p := &Pipeline{Config: cfg}

	if err := cfg.RequireRiot(); err != nil {
		logger.Warn("riot upstream not configured", "error", err)
	}
	if err := cfg.RequireFactGen(); err != nil {
		logger.Warn("fact generation upstream not configured", "error", err)
	}

	store, err := newObjectStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	markers, err := p.newMarkerRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	p.Records = blob.NewRecordRepository(store)
	p.Summaries = cache.NewSummaryRepository(blob.NewSummaryRepository(store), reportCacheTTL)
	p.Facts = cache.NewFactsRepository(blob.NewFactsRepository(store), reportCacheTTL)
	p.Markers = markers

	riotClient := riot.NewClient(riot.ClientConfig{
		BaseURL:           cfg.RiotBaseURL,
		APIKey:            cfg.RiotAPIKey,
		Timeout:           cfg.RiotTimeout,
		MaxRetries:        cfg.RiotMaxRetries,
		RequestsPerSecond: cfg.RiotRequestsPerSecond,
		Logger:            logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.RiotCircuitEnabled,
			FailureThreshold: cfg.RiotCircuitFailureCount,
			OpenTimeout:      cfg.RiotCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.RiotCircuitHalfOpenMaxReq,
		},
	})
	staticData := ddragon.NewClient(ddragon.ClientConfig{
		BaseURL:   cfg.DDragonBaseURL,
		QueuesURL: cfg.DDragonQueuesURL,
		Locale:    cfg.DDragonLocale,
		Timeout:   cfg.DDragonTimeout,
		CacheTTL:  cfg.LookupCacheTTL,
		Logger:    logger,
	})
	generator := factgen.NewClient(factgen.ClientConfig{
		Endpoint:        cfg.FactGenEndpoint,
		Token:           cfg.FactGenToken,
		KnowledgeBaseID: cfg.FactGenKnowledgeBaseID,
		ModelID:         cfg.FactGenModelID,
		Timeout:         cfg.FactGenTimeout,
		Logger:          logger,
		CircuitBreaker:  resilience.DefaultCircuitBreakerConfig(),
	})

	p.Accounts = usecase.NewAccountService(riotClient, p.Summaries, p.Facts, logger)
	p.Ingestion = usecase.NewIngestionService(
		riotClient,
		p.Records,
		usecase.NewNormalizer(logger),
		notifier,
		usecase.IngestionConfig{
			PageSize: cfg.IngestPageSize,
			Retry: resilience.RetryPolicy{
				MaxAttempts: cfg.IngestMaxAttempts,
				Backoff:     cfg.IngestRateLimitBackoff,
				Multiplier:  1,
			},
		},
		logger,
	)
	p.Aggregation = usecase.NewAggregationService(p.Records, p.Summaries, staticData, logger)
	p.FactsStage = usecase.NewFactsService(generator, p.Facts, notifier, logger)
	p.Reports = usecase.NewReportService(p.Summaries, p.Facts)

	p.Orchestrator, err = usecase.NewOrchestratorService(
		p.Ingestion,
		p.Aggregation,
		p.FactsStage,
		p.Markers,
		p.Summaries,
		p.Facts,
		notifier,
		usecase.OrchestratorConfig{
			Timeout: cfg.RunTimeout,
			Workers: cfg.RunWorkers,
		},
		logger,
	)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	p.closers = append(p.closers, func() error {
		return p.Orchestrator.Close(runDrainTimeout)
	})

	return p, nil
}

// Close drains in-flight runs and releases the database pool.
func (p *Pipeline) Close() error {
	var errs []error
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func newObjectStore(ctx context.Context, cfg config.Config) (objectstore.Store, error) {
	switch cfg.ObjectStore {
	case config.ObjectStoreMinio:
		store, err := objectstore.NewMinioStore(ctx, objectstore.MinioConfig{
			Endpoint:        cfg.ObjectStoreEndpoint,
			AccessKeyID:     cfg.ObjectStoreAccessKey,
			SecretAccessKey: cfg.ObjectStoreSecretKey,
			Bucket:          cfg.ObjectStoreBucket,
			Region:          cfg.ObjectStoreRegion,
			UseSSL:          cfg.ObjectStoreUseSSL,
			CreateBucket:    cfg.ObjectStoreAutoCreate,
		})
		if err != nil {
			return nil, fmt.Errorf("init object store: %w", err)
		}
		return store, nil
	default:
		return objectstore.NewMemoryStore(), nil
	}
}

func (p *Pipeline) newMarkerRepository(ctx context.Context, cfg config.Config) (run.MarkerRepository, error) {
	if cfg.MarkerStore != config.MarkerStorePostgres {
		return memory.NewRunMarkerRepository(), nil
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	p.closers = append(p.closers, db.Close)
	return postgres.NewRunMarkerRepository(db), nil
}

// Server is the HTTP front door plus the pipeline it drives.
type Server struct {
	HTTP     *http.Server
	Pipeline *Pipeline
	Hub      *notify.Hub
}

func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	hub := notify.NewHub(notify.HubConfig{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		HandshakeTimeout: hubHandshakeLimit,
		Logger:           logger,
	})

	pipeline, err := NewPipeline(ctx, cfg, hub, logger)
	if err != nil {
		hub.Close()
		return nil, err
	}

	handler := httpapi.NewHandler(pipeline.Accounts, pipeline.Orchestrator, pipeline.Reports, logger)
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Observers:          hub,
		Metrics:            metrics.Handler(),
	}, logger)

	return &Server{
		HTTP: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		Pipeline: pipeline,
		Hub:      hub,
	}, nil
}

// Shutdown stops accepting requests, drains runs, then drops observers.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.HTTP.Shutdown(ctx)
	err = errors.Join(err, s.Pipeline.Close())
	s.Hub.Close()
	return err
}
