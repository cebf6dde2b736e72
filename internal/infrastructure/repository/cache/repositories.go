package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/riskibarqy/rift-rewind/internal/domain/facts"
	"github.com/riskibarqy/rift-rewind/internal/domain/summary"
	basecache "github.com/riskibarqy/rift-rewind/internal/platform/cache"
)

func periodKey(prefix, player string, year int) string {
	return prefix + ":" + player + ":" + strconv.Itoa(year)
}

type cachedSummary struct {
	value  summary.Document
	exists bool
}

// SummaryRepository caches summary reads in front of object storage. Put
// invalidates the period.
type SummaryRepository struct {
	next  summary.Repository
	cache *basecache.Store[cachedSummary]
}

func NewSummaryRepository(next summary.Repository, ttl time.Duration) *SummaryRepository {
	return &SummaryRepository{next: next, cache: basecache.NewStore[cachedSummary](ttl)}
}

func (r *SummaryRepository) Exists(ctx context.Context, player string, year int) (bool, error) {
	if cached, ok := r.cache.Get(ctx, periodKey("summary", player, year)); ok {
		return cached.exists, nil
	}
	return r.next.Exists(ctx, player, year)
}

func (r *SummaryRepository) Get(ctx context.Context, player string, year int) (summary.Document, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, periodKey("summary", player, year), func(ctx context.Context) (cachedSummary, error) {
		doc, exists, err := r.next.Get(ctx, player, year)
		if err != nil {
			return cachedSummary{}, err
		}
		return cachedSummary{value: doc, exists: exists}, nil
	})
	if err != nil {
		return summary.Document{}, false, err
	}
	return v.value, v.exists, nil
}

func (r *SummaryRepository) Put(ctx context.Context, year int, doc summary.Document) error {
	if err := r.next.Put(ctx, year, doc); err != nil {
		return err
	}
	r.cache.Delete(ctx, periodKey("summary", doc.PlayerPUUID, year))
	return nil
}

type cachedFacts struct {
	value  []facts.Fact
	exists bool
}

type FactsRepository struct {
	next  facts.Repository
	cache *basecache.Store[cachedFacts]
}

func NewFactsRepository(next facts.Repository, ttl time.Duration) *FactsRepository {
	return &FactsRepository{next: next, cache: basecache.NewStore[cachedFacts](ttl)}
}

func (r *FactsRepository) Exists(ctx context.Context, player string, year int) (bool, error) {
	if cached, ok := r.cache.Get(ctx, periodKey("facts", player, year)); ok {
		return cached.exists, nil
	}
	return r.next.Exists(ctx, player, year)
}

func (r *FactsRepository) Get(ctx context.Context, player string, year int) ([]facts.Fact, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, periodKey("facts", player, year), func(ctx context.Context) (cachedFacts, error) {
		items, exists, err := r.next.Get(ctx, player, year)
		if err != nil {
			return cachedFacts{}, err
		}
		return cachedFacts{value: append([]facts.Fact(nil), items...), exists: exists}, nil
	})
	if err != nil {
		return nil, false, err
	}
	return append([]facts.Fact(nil), v.value...), v.exists, nil
}

func (r *FactsRepository) Put(ctx context.Context, player string, year int, items []facts.Fact) error {
	if err := r.next.Put(ctx, player, year, items); err != nil {
		return err
	}
	r.cache.Delete(ctx, periodKey("facts", player, year))
	return nil
}
