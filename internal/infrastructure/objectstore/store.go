package objectstore

import (
	"context"
	"errors"
)

var ErrObjectNotFound = errors.New("object not found")

// Store is a flat key/value object store with prefix listing.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Get returns ErrObjectNotFound for a missing key.
	Get(ctx context.Context, key string) ([]byte, error)
	Head(ctx context.Context, key string) (bool, error)
	// List returns every key under prefix in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)
}
