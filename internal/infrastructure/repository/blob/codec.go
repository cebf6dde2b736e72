package blob

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/rift-rewind/internal/infrastructure/objectstore"
	"github.com/valyala/bytebufferpool"
)

const contentTypeJSON = "application/json"

// putJSON encodes value into a pooled buffer and writes it under key.
func putJSON(ctx context.Context, store objectstore.Store, key string, value any) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(value); err != nil {
		return err
	}
	return store.Put(ctx, key, buf.B, contentTypeJSON)
}
