package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/rift-rewind/internal/domain/account"
	"github.com/riskibarqy/rift-rewind/internal/domain/facts"
	"github.com/riskibarqy/rift-rewind/internal/domain/run"
	"github.com/riskibarqy/rift-rewind/internal/domain/summary"
	"github.com/riskibarqy/rift-rewind/internal/platform/logging"
	"github.com/riskibarqy/rift-rewind/internal/usecase"
)

type AccountResolver interface {
	Resolve(ctx context.Context, riotID, region string) (account.Resolution, error)
}

type RunSubmitter interface {
	Submit(ctx context.Context, req usecase.RunRequest) (run.Descriptor, error)
	ListActive(ctx context.Context) ([]run.Marker, error)
}

type ReportReader interface {
	GetSummary(ctx context.Context, player string, year int) (summary.Document, error)
	GetFacts(ctx context.Context, player string, year int) ([]facts.Fact, error)
}

type Handler struct {
	accounts  AccountResolver
	runs      RunSubmitter
	reports   ReportReader
	logger    *logging.Logger
	validator *validator.Validate
}

func NewHandler(accounts AccountResolver, runs RunSubmitter, reports ReportReader, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		accounts:  accounts,
		runs:      runs,
		reports:   reports,
		logger:    logger.Named("httpapi"),
		validator: validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) LookupAccount(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LookupAccount")
	defer span.End()

	var req lookupAccountRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	resolution, err := h.accounts.Resolve(ctx, req.RiotID, req.Region)
	if err != nil {
		h.logger.WarnContext(ctx, "lookup account failed", "riot_id", req.RiotID, "region", req.Region, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, resolutionToDTO(resolution))
}

func (h *Handler) StartRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartRun")
	defer span.End()

	var req startRunRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	desc, err := h.runs.Submit(ctx, usecase.RunRequest{
		Player:        req.PUUID,
		Year:          req.Year,
		Routing:       req.RoutingValue,
		Observer:      req.ConnectionID,
		SummaryExists: req.SummaryExists,
		FinalExists:   req.FinalExists,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "start run failed", "player", req.PUUID, "year", req.Year, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusAccepted, runAcceptedDTO{
		RunID:     desc.ID,
		PUUID:     desc.Player,
		Year:      desc.Year,
		StartedAt: desc.StartedAt,
	})
}

func (h *Handler) ListActiveRuns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListActiveRuns")
	defer span.End()

	markers, err := h.runs.ListActive(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list active runs failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]activeRunDTO, 0, len(markers))
	for _, m := range markers {
		items = append(items, markerToDTO(m))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSummary")
	defer span.End()

	player, year, err := periodFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	doc, err := h.reports.GetSummary(ctx, player, year)
	if err != nil {
		h.logger.WarnContext(ctx, "get summary failed", "player", player, "year", year, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, doc)
}

func (h *Handler) GetFacts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFacts")
	defer span.End()

	player, year, err := periodFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.reports.GetFacts(ctx, player, year)
	if err != nil {
		h.logger.WarnContext(ctx, "get facts failed", "player", player, "year", year, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, out any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, out)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func periodFromPath(r *http.Request) (string, int, error) {
	player := strings.TrimSpace(r.PathValue("puuid"))
	if player == "" {
		return "", 0, fmt.Errorf("%w: puuid is required", usecase.ErrInvalidInput)
	}
	year, err := strconv.Atoi(strings.TrimSpace(r.PathValue("year")))
	if err != nil || year <= 0 {
		return "", 0, fmt.Errorf("%w: year must be a positive integer", usecase.ErrInvalidInput)
	}
	return player, year, nil
}
