package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrRateLimited is returned by the game-data API when it throttles.
	ErrRateLimited = errors.New("rate limited by upstream")
	// ErrRunBusy rejects a run while another run owns the same period.
	ErrRunBusy = errors.New("run already active for period")
	// ErrRetriesExhausted ends ingestion when a game stays rate limited.
	ErrRetriesExhausted = errors.New("rate limit retries exhausted")
	ErrNoRecords        = errors.New("no game records for period")
	ErrFactsMalformed   = errors.New("fact output is not a json array")
)
