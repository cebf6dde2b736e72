package match

import "context"

// Repository persists normalized records per (player, year).
type Repository interface {
	ListGameIDs(ctx context.Context, player string, year int) ([]string, error)
	ListByPeriod(ctx context.Context, player string, year int) ([]Record, error)
	Put(ctx context.Context, player string, record Record) error
}
