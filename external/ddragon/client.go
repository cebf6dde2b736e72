package ddragon

import (
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
	"github.com/riskibarqy/rift-rewind/internal/platform/cache"
	"github.com/riskibarqy/rift-rewind/internal/platform/logging"
	"github.com/riskibarqy/rift-rewind/internal/usecase"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultBaseURL   = "https://ddragon.leagueoflegends.com"
	defaultQueuesURL = "https://static.developer.riotgames.com/docs/lol/queues.json"
	defaultCacheTTL  = 24 * time.Hour
	maxResponseBytes = 16 << 20
)

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	QueuesURL  string
	Locale     string
	Timeout    time.Duration
	CacheTTL   time.Duration
	Logger     *logging.Logger
}

// Client loads static game data and serves it as aggregation lookups.
type Client struct {
	httpClient *http.Client
	baseURL    string
	queuesURL  string
	locale     string
	cache      *cache.Store[usecase.Lookups]
	logger     *logging.Logger
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
		httpClient.Timeout = 30 * time.Second
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	queuesURL := strings.TrimSpace(cfg.QueuesURL)
	if queuesURL == "" {
		queuesURL = defaultQueuesURL
	}
	locale := strings.TrimSpace(cfg.Locale)
	if locale == "" {
		locale = "en_US"
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		queuesURL:  queuesURL,
		locale:     locale,
		cache:      cache.NewStore[usecase.Lookups](ttl),
		logger:     logger.Named("ddragon"),
	}
}

// Patches returns the end-of-year and first patch names for year.
func Patches(year int) (latest, first string) {
	base := year - 2010
	return fmt.Sprintf("%d.24.1", base), fmt.Sprintf("%d.1.1", base)
}

// Lookups loads every table for year. Any failed table fails the load.
func (c *Client) Lookups(ctx context.Context, year int) (usecase.Lookups, error) {
	return c.cache.GetOrLoad(ctx, strconv.Itoa(year), func(ctx context.Context) (usecase.Lookups, error) {
		return c.load(ctx, year)
	})
}

func (c *Client) load(ctx context.Context, year int) (usecase.Lookups, error) {
	latest, first := Patches(year)
	var out usecase.Lookups

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		items, err := c.items(ctx, latest)
		out.ItemsLatest = items
		return err
	})
	p.Go(func(ctx context.Context) error {
		items, err := c.items(ctx, first)
		out.ItemsFirst = items
		return err
	})
	p.Go(func(ctx context.Context) error {
		spells, err := c.spells(ctx, latest)
		out.Spells = spells
		return err
	})
	p.Go(func(ctx context.Context) error {
		styles, err := c.runeStyles(ctx, latest)
		out.RuneStyles = styles
		return err
	})
	p.Go(func(ctx context.Context) error {
		queues, err := c.queues(ctx)
		out.Queues = queues
		return err
	})
	if err := p.Wait(); err != nil {
		return usecase.Lookups{}, fmt.Errorf("%w: load static data year=%d: %w", usecase.ErrDependencyUnavailable, year, err)
	}

	c.logger.InfoContext(ctx, "static data loaded",
		"year", year,
		"items", len(out.ItemsLatest),
		"spells", len(out.Spells),
		"rune_styles", len(out.RuneStyles),
		"queues", len(out.Queues),
	)
	return out, nil
}

func (c *Client) dataURL(patch, file string) string {
	return fmt.Sprintf("%s/cdn/%s/data/%s/%s", c.baseURL, patch, c.locale, file)
}

type itemFile struct {
	Data map[string]struct {
		Name string `json:"name"`
	} `json:"data"`
}

func (c *Client) items(ctx context.Context, patch string) (map[int]string, error) {
	var payload itemFile
	if err := c.getJSON(ctx, "items", c.dataURL(patch, "item.json"), &payload); err != nil {
		return nil, err
	}
	out := make(map[int]string, len(payload.Data))
	for key, item := range payload.Data {
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		out[id] = item.Name
	}
	return out, nil
}

type summonerFile struct {
	Data map[string]struct {
		Key  string `json:"key"`
		Name string `json:"name"`
	} `json:"data"`
}

func (c *Client) spells(ctx context.Context, patch string) (map[int]string, error) {
	var payload summonerFile
	if err := c.getJSON(ctx, "spells", c.dataURL(patch, "summoner.json"), &payload); err != nil {
		return nil, err
	}
	out := make(map[int]string, len(payload.Data))
	for _, spell := range payload.Data {
		id, err := strconv.Atoi(spell.Key)
		if err != nil {
			continue
		}
		out[id] = spell.Name
	}
	return out, nil
}

type runeStyle struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (c *Client) runeStyles(ctx context.Context, patch string) (map[int]string, error) {
	var payload []runeStyle
	if err := c.getJSON(ctx, "runes", c.dataURL(patch, "runesReforged.json"), &payload); err != nil {
		return nil, err
	}
	out := make(map[int]string, len(payload))
	for _, style := range payload {
		out[style.ID] = style.Name
	}
	return out, nil
}

type queue struct {
	QueueID     int     `json:"queueId"`
	Map         string  `json:"map"`
	Description *string `json:"description"`
	Notes       *string `json:"notes"`
}

func (q queue) label() string {
	label := q.Map
	if q.Description != nil {
		label += ": " + *q.Description
	}
	if q.Notes != nil {
		label += " (" + *q.Notes + ")"
	}
	return label
}

func (c *Client) queues(ctx context.Context) (map[int]string, error) {
	var payload []queue
	if err := c.getJSON(ctx, "queues", c.queuesURL, &payload); err != nil {
		return nil, err
	}
	out := make(map[int]string, len(payload))
	for _, q := range payload {
		out[q.QueueID] = q.label()
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, table, url string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return crerr.Wrapf(err, "build %s request", table)
	}
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream("ddragon_"+table, "error", started)
		return crerr.Wrapf(err, "fetch %s", table)
	}
	defer resp.Body.Close()
	metrics.ObserveUpstream("ddragon_"+table, strconv.Itoa(resp.StatusCode), started)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return crerr.Wrapf(err, "read %s", table)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return crerr.Newf("fetch %s: status=%d url=%s", table, resp.StatusCode, url)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrapf(err, "decode %s", table)
	}
	return nil
}
