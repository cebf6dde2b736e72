package factgen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/rift-rewind/internal/metrics"
	"github.com/riskibarqy/rift-rewind/internal/platform/logging"
	"github.com/riskibarqy/rift-rewind/internal/platform/resilience"
	"github.com/riskibarqy/rift-rewind/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxResponseBytes = 2 << 20

type ClientConfig struct {
	HTTPClient      *http.Client
	Endpoint        string
	Token           string
	KnowledgeBaseID string
	ModelID         string
	Timeout         time.Duration
	Logger          *logging.Logger
	CircuitBreaker  resilience.CircuitBreakerConfig
}

// Client calls a retrieval-and-generation service that answers a prompt
// over the stored summaries filtered to one player and year.
type Client struct {
	httpClient      *http.Client
	endpoint        string
	token           string
	knowledgeBaseID string
	modelID         string
	logger          *logging.Logger
	breaker         *resilience.CircuitBreaker
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 2 * time.Minute
	}

	return &Client{
		httpClient:      httpClient,
		endpoint:        strings.TrimSpace(cfg.Endpoint),
		token:           strings.TrimSpace(cfg.Token),
		knowledgeBaseID: strings.TrimSpace(cfg.KnowledgeBaseID),
		modelID:         strings.TrimSpace(cfg.ModelID),
		logger:          logger.Named("factgen"),
		breaker:         resilience.NewCircuitBreaker(resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)),
	}
}

type filter struct {
	PUUID string `json:"puuid"`
	Year  int    `json:"year"`
}

type generateRequest struct {
	Input           string `json:"input"`
	KnowledgeBaseID string `json:"knowledgeBaseId,omitempty"`
	ModelID         string `json:"modelId,omitempty"`
	NumberOfResults int    `json:"numberOfResults"`
	Filter          filter `json:"filter"`
}

type generateResponse struct {
	Output struct {
		Text string `json:"text"`
	} `json:"output"`
}

func (c *Client) RetrieveAndGenerate(ctx context.Context, player string, year, maxResults int) (string, error) {
	if c.endpoint == "" {
		return "", fmt.Errorf("%w: fact generation endpoint is not configured", usecase.ErrDependencyUnavailable)
	}
	if err := c.breaker.Allow(); err != nil {
		return "", fmt.Errorf("%w: fact generation is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(generateRequest{
		Input:           Prompt,
		KnowledgeBaseID: c.knowledgeBaseID,
		ModelID:         c.modelID,
		NumberOfResults: maxResults,
		Filter:          filter{PUUID: player, Year: year},
	}); err != nil {
		return "", crerr.Wrap(err, "encode generation request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(buf.B))
	if err != nil {
		return "", crerr.Wrap(err, "build generation request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream("factgen", "error", started)
		c.breaker.RecordFailure()
		return "", crerr.Wrap(err, "send generation request")
	}
	defer resp.Body.Close()
	metrics.ObserveUpstream("factgen", strconv.Itoa(resp.StatusCode), started)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.breaker.RecordFailure()
		return "", crerr.Wrap(err, "read generation response")
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		c.breaker.RecordFailure()
		return "", crerr.Newf("generation service status=%d", resp.StatusCode)
	}
	c.breaker.RecordSuccess()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", crerr.Newf("generation service status=%d body=%s", resp.StatusCode, abbreviate(raw))
	}

	var out generateResponse
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return "", crerr.Wrap(err, "decode generation response")
	}
	c.logger.DebugContext(ctx, "facts generated", "player", player, "year", year, "output_length", len(out.Output.Text))
	return out.Output.Text, nil
}

func abbreviate(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
