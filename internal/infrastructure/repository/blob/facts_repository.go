package blob

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/rift-rewind/internal/domain/facts"
	"github.com/riskibarqy/rift-rewind/internal/infrastructure/objectstore"
)

func FactsKey(player string, year int) string {
	return fmt.Sprintf("player_facts/%s/%d.json", player, year)
}

type FactsRepository struct {
	store objectstore.Store
}

func NewFactsRepository(store objectstore.Store) *FactsRepository {
	return &FactsRepository{store: store}
}

func (r *FactsRepository) Exists(ctx context.Context, player string, year int) (bool, error) {
	ok, err := r.store.Head(ctx, FactsKey(player, year))
	if err != nil {
		return false, crerr.Wrapf(err, "head facts player=%s year=%d", player, year)
	}
	return ok, nil
}

func (r *FactsRepository) Get(ctx context.Context, player string, year int) ([]facts.Fact, bool, error) {
	raw, err := r.store.Get(ctx, FactsKey(player, year))
	if errors.Is(err, objectstore.ErrObjectNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, crerr.Wrapf(err, "read facts player=%s year=%d", player, year)
	}

	var items []facts.Fact
	if err := sonic.Unmarshal(raw, &items); err != nil {
		return nil, false, crerr.Wrapf(err, "decode facts player=%s year=%d", player, year)
	}
	if items == nil {
		items = []facts.Fact{}
	}
	return items, true, nil
}

func (r *FactsRepository) Put(ctx context.Context, player string, year int, items []facts.Fact) error {
	if player == "" {
		return fmt.Errorf("facts player is required")
	}
	if items == nil {
		items = []facts.Fact{}
	}
	if err := putJSON(ctx, r.store, FactsKey(player, year), items); err != nil {
		return crerr.Wrapf(err, "store facts player=%s year=%d", player, year)
	}
	return nil
}
