package blob

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/rift-rewind/internal/domain/match"
	"github.com/riskibarqy/rift-rewind/internal/infrastructure/objectstore"
	"github.com/sourcegraph/conc/pool"
)

const defaultReadConcurrency = 8

// RecordKey is the storage key of one normalized game.
func RecordKey(player string, record match.Record) string {
	date := record.StorageDate()
	return fmt.Sprintf("%s/stats/%04d/%02d/%02d/%s", player, date.Year(), int(date.Month()), date.Day(), record.GameID)
}

func recordPrefix(player string, year int) string {
	return fmt.Sprintf("%s/stats/%04d/", player, year)
}

type RecordRepository struct {
	store       objectstore.Store
	concurrency int
}

func NewRecordRepository(store objectstore.Store) *RecordRepository {
	return &RecordRepository{store: store, concurrency: defaultReadConcurrency}
}

func (r *RecordRepository) Put(ctx context.Context, player string, record match.Record) error {
	if strings.TrimSpace(player) == "" || strings.TrimSpace(record.GameID) == "" {
		return fmt.Errorf("player and game id are required")
	}
	key := RecordKey(player, record)
	if err := putJSON(ctx, r.store, key, record); err != nil {
		return crerr.Wrapf(err, "store record %s", key)
	}
	return nil
}

func (r *RecordRepository) ListGameIDs(ctx context.Context, player string, year int) ([]string, error) {
	keys, err := r.store.List(ctx, recordPrefix(player, year))
	if err != nil {
		return nil, crerr.Wrapf(err, "list records player=%s year=%d", player, year)
	}
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		out = append(out, path.Base(key))
	}
	return out, nil
}

// ListByPeriod reads every record of the year in key order: date, then game id.
func (r *RecordRepository) ListByPeriod(ctx context.Context, player string, year int) ([]match.Record, error) {
	keys, err := r.store.List(ctx, recordPrefix(player, year))
	if err != nil {
		return nil, crerr.Wrapf(err, "list records player=%s year=%d", player, year)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	records := make([]match.Record, len(keys))
	p := pool.New().WithContext(ctx).WithCancelOnError().WithMaxGoroutines(r.concurrency)
	for i, key := range keys {
		p.Go(func(ctx context.Context) error {
			raw, err := r.store.Get(ctx, key)
			if err != nil {
				return crerr.Wrapf(err, "read record %s", key)
			}
			if err := sonic.Unmarshal(raw, &records[i]); err != nil {
				return crerr.Wrapf(err, "decode record %s", key)
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}
