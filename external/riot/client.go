package riot

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/rift-rewind/internal/metrics"
	"github.com/riskibarqy/rift-rewind/internal/platform/logging"
	"github.com/riskibarqy/rift-rewind/internal/platform/resilience"
	"github.com/riskibarqy/rift-rewind/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

const (
	// routingPlaceholder is replaced by the routing value in BaseURL.
	routingPlaceholder = "{routing}"
	defaultBaseURL     = "https://" + routingPlaceholder + ".api.riotgames.com"
	defaultRPS         = 20
	maxResponseBytes   = 6 << 20
)

var errRiotTransient = crerr.New("riot api transient failure")

// StatusError is a non-2xx answer other than 429.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("riot api status=%d body=%s", e.StatusCode, e.Body)
}

type ClientConfig struct {
	HTTPClient *http.Client
	// BaseURL may contain {routing}; without it every routing value hits
	// the same host.
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerSecond float64
	Logger            *logging.Logger
	CircuitBreaker    resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	maxRetries int
	limiter    *rate.Limiter
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	flight     resilience.SingleFlight[[]byte]
	sleep      resilience.Sleeper
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
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRPS
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		maxRetries: max(cfg.MaxRetries, 0),
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger.Named("riot"),
		breaker:    resilience.NewCircuitBreaker(resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)),
		sleep:      resilience.SleepContext,
	}
}

func (c *Client) hostFor(routing string) (string, error) {
	routing = strings.ToLower(strings.TrimSpace(routing))
	if !strings.Contains(c.baseURL, routingPlaceholder) {
		return c.baseURL, nil
	}
	if routing == "" {
		return "", fmt.Errorf("%w: routing value is required", usecase.ErrInvalidInput)
	}
	return strings.ReplaceAll(c.baseURL, routingPlaceholder, routing), nil
}

// getJSON performs a GET against the routing host and decodes the body into
// target. Concurrent identical requests share one upstream call.
func (c *Client) getJSON(ctx context.Context, operation, routing, path string, query url.Values, target any) error {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "riot circuit breaker rejected request", "state", c.breaker.State())
		return fmt.Errorf("%w: riot api is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	host, err := c.hostFor(routing)
	if err != nil {
		return err
	}
	fullURL := host + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, err, _ := c.flight.Do(fullURL, func() ([]byte, error) {
		raw, reqErr := c.executeRequest(ctx, operation, fullURL)
		c.breaker.Record(reqErr != nil && stderrors.Is(reqErr, errRiotTransient))
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrapf(err, "decode %s payload", operation)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, operation, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		raw, retryable, err := c.do(ctx, operation, fullURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !retryable || attempt == c.maxRetries {
			break
		}
		if err := c.sleep(ctx, time.Duration(attempt+1)*time.Second); err != nil {
			return nil, err
		}
	}

	c.logger.WarnContext(ctx, "riot request failed", "operation", operation, "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// do sends one request. Only transport failures are retryable here; 429 is
// returned as ErrRateLimited so callers own the rate-limit backoff.
func (c *Client) do(ctx context.Context, operation, fullURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, false, crerr.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Riot-Token", c.apiKey)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream("riot_"+operation, "error", started)
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, fmt.Errorf("%w: send request: %s", errRiotTransient, sanitize(err.Error(), c.apiKey))
	}
	defer resp.Body.Close()
	metrics.ObserveUpstream("riot_"+operation, strconv.Itoa(resp.StatusCode), started)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, true, fmt.Errorf("%w: read response body: %v", errRiotTransient, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return raw, false, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, false, fmt.Errorf("%w: retry-after=%s", usecase.ErrRateLimited, resp.Header.Get("Retry-After"))
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, fmt.Errorf("%w: %w", usecase.ErrNotFound, &StatusError{StatusCode: resp.StatusCode, Body: abbreviateBody(raw)})
	case resp.StatusCode >= http.StatusInternalServerError:
		// Counted by the breaker, but a status answer is final for this id.
		return nil, false, fmt.Errorf("%w: %w", errRiotTransient, &StatusError{StatusCode: resp.StatusCode, Body: abbreviateBody(raw)})
	default:
		return nil, false, &StatusError{StatusCode: resp.StatusCode, Body: abbreviateBody(raw)}
	}
}

func sanitize(value, key string) string {
	value = strings.TrimSpace(value)
	if key != "" {
		value = strings.ReplaceAll(value, key, "REDACTED")
	}
	return value
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
