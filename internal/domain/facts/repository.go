package facts

import "context"

// Repository stores the final fact list per (player, year).
type Repository interface {
	Exists(ctx context.Context, player string, year int) (bool, error)
	Get(ctx context.Context, player string, year int) ([]Fact, bool, error)
	Put(ctx context.Context, player string, year int, items []Fact) error
}
