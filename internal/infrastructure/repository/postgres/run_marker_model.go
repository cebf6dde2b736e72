package postgres

import "time"

type runMarkerTableModel struct {
	PlayerID   string    `db:"player_id"`
	Year       int       `db:"year"`
	RunID      string    `db:"run_id"`
	AcquiredAt time.Time `db:"acquired_at"`
	ExpiresAt  time.Time `db:"expires_at"`
}
