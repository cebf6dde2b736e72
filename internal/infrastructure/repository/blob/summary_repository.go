package blob

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/rift-rewind/internal/domain/summary"
	"github.com/riskibarqy/rift-rewind/internal/infrastructure/objectstore"
)

func SummaryKey(player string, year int) string {
	return fmt.Sprintf("summary/%s/final_summary_%d.json", player, year)
}

// MetadataKey is the indexing sidecar of a summary object.
func MetadataKey(player string, year int) string {
	return SummaryKey(player, year) + ".metadata.json"
}

type SummaryRepository struct {
	store objectstore.Store
}

func NewSummaryRepository(store objectstore.Store) *SummaryRepository {
	return &SummaryRepository{store: store}
}

func (r *SummaryRepository) Exists(ctx context.Context, player string, year int) (bool, error) {
	ok, err := r.store.Head(ctx, SummaryKey(player, year))
	if err != nil {
		return false, crerr.Wrapf(err, "head summary player=%s year=%d", player, year)
	}
	return ok, nil
}

func (r *SummaryRepository) Get(ctx context.Context, player string, year int) (summary.Document, bool, error) {
	raw, err := r.store.Get(ctx, SummaryKey(player, year))
	if errors.Is(err, objectstore.ErrObjectNotFound) {
		return summary.Document{}, false, nil
	}
	if err != nil {
		return summary.Document{}, false, crerr.Wrapf(err, "read summary player=%s year=%d", player, year)
	}

	var doc summary.Document
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return summary.Document{}, false, crerr.Wrapf(err, "decode summary player=%s year=%d", player, year)
	}
	return doc, true, nil
}

// Put writes the document first and the sidecar second; a missing sidecar
// is repaired by the next aggregation.
func (r *SummaryRepository) Put(ctx context.Context, year int, doc summary.Document) error {
	player := doc.PlayerPUUID
	if player == "" {
		return fmt.Errorf("summary player is required")
	}
	if err := putJSON(ctx, r.store, SummaryKey(player, year), doc); err != nil {
		return crerr.Wrapf(err, "store summary player=%s year=%d", player, year)
	}

	meta := summary.Metadata{Attributes: summary.MetadataAttributes{PUUID: player, Year: year}}
	if err := putJSON(ctx, r.store, MetadataKey(player, year), meta); err != nil {
		return crerr.Wrapf(err, "store summary metadata player=%s year=%d", player, year)
	}
	return nil
}
