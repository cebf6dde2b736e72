// Command pipeline runs the year-in-review workflow, or a single stage of it,
// from the terminal. Progress events are written to the log.
//
// Usage:
//
//	rift-pipeline lookup --riot-id "Faker#KR1" --region kr
//	rift-pipeline run --puuid <puuid> --year 2024 --routing asia
//	rift-pipeline ingest --puuid <puuid> --year 2024 --routing asia
//	rift-pipeline aggregate --puuid <puuid> --year 2024
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/riskibarqy/rift-rewind/internal/app"
	"github.com/riskibarqy/rift-rewind/internal/config"
	"github.com/riskibarqy/rift-rewind/internal/infrastructure/notify"
	"github.com/riskibarqy/rift-rewind/internal/observability"
	"github.com/riskibarqy/rift-rewind/internal/platform/logging"
	"github.com/riskibarqy/rift-rewind/internal/usecase"
	"github.com/spf13/cobra"
)

var validate = validator.New()

type periodFlags struct {
	PUUID   string `validate:"required"`
	Year    int    `validate:"gte=2010,lte=2100"`
	Routing string `validate:"omitempty,oneof=americas europe asia sea"`
}

func main() {
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:          "rift-pipeline",
		Short:        "Year-in-review pipeline CLI",
		SilenceUsage: true,
	}

	root.AddCommand(lookupCmd())
	root.AddCommand(runCmd())
	root.AddCommand(ingestCmd())
	root.AddCommand(aggregateCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func lookupCmd() *cobra.Command {
	var riotID, region string
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Resolve a Riot id to a puuid and routing value",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPipeline(func(ctx context.Context, p *app.Pipeline, logger *logging.Logger) error {
				res, err := p.Accounts.Resolve(ctx, riotID, region)
				if err != nil {
					return err
				}
				logger.Info("account resolved",
					"puuid", res.Account.PUUID,
					"routing", res.RoutingValue,
					"year", res.Year,
					"summary_exists", res.SummaryExists,
					"final_exists", res.FinalExists,
				)
				fmt.Println(res.Account.PUUID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&riotID, "riot-id", "", "Riot id as GameName#TAG")
	cmd.Flags().StringVar(&region, "region", "na1", "Platform region (na1, euw1, kr, ...)")
	_ = cmd.MarkFlagRequired("riot-id")
	return cmd
}

func runCmd() *cobra.Command {
	var flags periodFlags
	var summaryExists, finalExists string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full workflow for one player and year",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validate.Struct(flags); err != nil {
				return fmt.Errorf("invalid flags: %w", err)
			}
			req := usecase.RunRequest{
				Player:  flags.PUUID,
				Year:    flags.Year,
				Routing: flags.Routing,
			}
			var err error
			if req.SummaryExists, err = parseOptionalBool("summary-exists", summaryExists); err != nil {
				return err
			}
			if req.FinalExists, err = parseOptionalBool("final-exists", finalExists); err != nil {
				return err
			}

			return withPipeline(func(ctx context.Context, p *app.Pipeline, logger *logging.Logger) error {
				start := time.Now()
				outcome, err := p.Orchestrator.Execute(ctx, req)
				logger.Info("run finished",
					"run_id", outcome.Descriptor.ID,
					"state", outcome.State,
					"path", outcome.Path,
					"facts", len(outcome.Facts),
					"duration", time.Since(start).Round(time.Millisecond),
				)
				return err
			})
		},
	}
	bindPeriodFlags(cmd, &flags)
	cmd.Flags().StringVar(&summaryExists, "summary-exists", "", "Override summary existence check (true|false)")
	cmd.Flags().StringVar(&finalExists, "final-exists", "", "Override facts existence check (true|false)")
	return cmd
}

func ingestCmd() *cobra.Command {
	var flags periodFlags
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Fetch and store missing games for one player and year",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validate.Struct(flags); err != nil {
				return fmt.Errorf("invalid flags: %w", err)
			}
			return withPipeline(func(ctx context.Context, p *app.Pipeline, logger *logging.Logger) error {
				result, err := p.Ingestion.Ingest(ctx, usecase.IngestInput{
					Player:  flags.PUUID,
					Year:    flags.Year,
					Routing: flags.Routing,
				})
				if err != nil {
					return err
				}
				logger.Info("ingest finished",
					"complete", result.Complete,
					"discovered", result.Discovered,
					"persisted", result.Persisted,
					"fetched", result.Fetched,
					"skipped", result.Skipped,
				)
				return nil
			})
		},
	}
	bindPeriodFlags(cmd, &flags)
	return cmd
}

func aggregateCmd() *cobra.Command {
	var flags periodFlags
	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Rebuild the summary document from stored games",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validate.Struct(flags); err != nil {
				return fmt.Errorf("invalid flags: %w", err)
			}
			return withPipeline(func(ctx context.Context, p *app.Pipeline, logger *logging.Logger) error {
				doc, err := p.Aggregation.Aggregate(ctx, flags.PUUID, flags.Year)
				if err != nil {
					return err
				}
				logger.Info("aggregate finished",
					"games", doc.Summary.Global.TotalGames,
					"win_rate", doc.Summary.Global.WinRate,
					"champions", len(doc.Summary.Champions),
				)
				return nil
			})
		},
	}
	bindPeriodFlags(cmd, &flags)
	return cmd
}

func bindPeriodFlags(cmd *cobra.Command, flags *periodFlags) {
	cmd.Flags().StringVar(&flags.PUUID, "puuid", "", "Player puuid")
	cmd.Flags().IntVar(&flags.Year, "year", usecase.DefaultYear(time.Now()), "Calendar year")
	cmd.Flags().StringVar(&flags.Routing, "routing", "americas", "Routing value (americas, europe, asia, sea)")
	_ = cmd.MarkFlagRequired("puuid")
}

func parseOptionalBool(name, raw string) (*bool, error) {
	switch raw {
	case "":
		return nil, nil
	case "true":
		v := true
		return &v, nil
	case "false":
		v := false
		return &v, nil
	default:
		return nil, fmt.Errorf("--%s must be true or false", name)
	}
}

func withPipeline(fn func(ctx context.Context, p *app.Pipeline, logger *logging.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewJSON(cfg.LogLevel).With("service", cfg.ServiceName, "cmd", "pipeline")
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetry, err := observability.Start(cfg, logger)
	if err != nil {
		return fmt.Errorf("start telemetry: %w", err)
	}
	defer func() {
		if err := telemetry.Shutdown(context.Background()); err != nil {
			logger.Warn("shutdown telemetry", "error", err)
		}
	}()

	p, err := app.NewPipeline(ctx, cfg, notify.NewLogSink(logger), logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := p.Close(); err != nil {
			logger.Warn("close pipeline", "error", err)
		}
	}()

	if err := fn(ctx, p, logger); err != nil {
		logger.Error("command failed", "error", err)
		return err
	}
	return nil
}
