package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/rift-rewind/internal/domain/run"
	qb "github.com/riskibarqy/rift-rewind/internal/platform/querybuilder"
)

const runMarkersTable = "run_markers"

var runMarkerSelectColumns = []string{
	"player_id",
	"year",
	"run_id",
	"acquired_at",
	"expires_at",
}

// RunMarkerRepository guards (player, year) with one row per period. The
// conditional upsert makes acquisition atomic across API replicas.
type RunMarkerRepository struct {
	db *sqlx.DB
}

func NewRunMarkerRepository(db *sqlx.DB) *RunMarkerRepository {
	return &RunMarkerRepository{db: db}
}

func (r *RunMarkerRepository) TryAcquire(ctx context.Context, marker run.Marker, now time.Time) (bool, error) {
	query, args, err := buildAcquireQuery(marker, now)
	if err != nil {
		return false, fmt.Errorf("build acquire run marker query: %w", err)
	}

	var owner string
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&owner); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("acquire run marker key=%s: %w", marker.Key(), err)
	}
	return owner == marker.RunID, nil
}

func (r *RunMarkerRepository) Release(ctx context.Context, key run.Key, runID string) error {
	query, args, err := qb.DeleteFrom(runMarkersTable).
		Where(
			qb.Eq("player_id", key.Player),
			qb.Eq("year", key.Year),
			qb.Eq("run_id", runID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build release run marker query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("release run marker key=%s run_id=%s: %w", key, runID, err)
	}
	return nil
}

func (r *RunMarkerRepository) ListActive(ctx context.Context, now time.Time) ([]run.Marker, error) {
	query, args, err := qb.Select(runMarkerSelectColumns...).From(runMarkersTable).
		Where(qb.Expr("expires_at > ?", now.UTC())).
		OrderBy("acquired_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select active run markers query: %w", err)
	}

	var rows []runMarkerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select active run markers: %w", err)
	}

	out := make([]run.Marker, 0, len(rows))
	for _, row := range rows {
		out = append(out, run.Marker{
			Player:     row.PlayerID,
			Year:       row.Year,
			RunID:      row.RunID,
			AcquiredAt: row.AcquiredAt.UTC(),
			ExpiresAt:  row.ExpiresAt.UTC(),
		})
	}
	return out, nil
}

// buildAcquireQuery inserts the marker or takes over an expired one. No row
// comes back when a live marker holds the key.
func buildAcquireQuery(marker run.Marker, now time.Time) (string, []any, error) {
	model := runMarkerTableModel{
		PlayerID:   marker.Player,
		Year:       marker.Year,
		RunID:      marker.RunID,
		AcquiredAt: marker.AcquiredAt.UTC(),
		ExpiresAt:  marker.ExpiresAt.UTC(),
	}

	insert, err := qb.InsertModel(runMarkersTable, model)
	if err != nil {
		return "", nil, err
	}
	return insert.Suffix(`ON CONFLICT (player_id, year)
DO UPDATE SET
    run_id = EXCLUDED.run_id,
    acquired_at = EXCLUDED.acquired_at,
    expires_at = EXCLUDED.expires_at
WHERE run_markers.expires_at <= ?
RETURNING run_id`, now.UTC()).ToSQL()
}
