package summary

import "context"

// Repository stores one summary document per (player, year).
type Repository interface {
	Exists(ctx context.Context, player string, year int) (bool, error)
	Get(ctx context.Context, player string, year int) (Document, bool, error)
	Put(ctx context.Context, year int, doc Document) error
}
