package run

import (
	"fmt"
	"time"
)

// Key identifies one (player, year) period.
type Key struct {
	Player string
	Year   int
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%d", k.Player, k.Year)
}

// Descriptor is the in-flight unit of one pipeline run.
type Descriptor struct {
	ID            string
	Player        string
	Year          int
	SummaryExists bool
	FinalExists   bool
	Routing       string
	Observer      string
	StartedAt     time.Time
}

func (d Descriptor) Key() Key {
	return Key{Player: d.Player, Year: d.Year}
}

// Marker guards a period against concurrent runs.
type Marker struct {
	Player     string
	Year       int
	RunID      string
	AcquiredAt time.Time
	ExpiresAt  time.Time
}

func (m Marker) Key() Key {
	return Key{Player: m.Player, Year: m.Year}
}

// Expired reports whether the marker may be taken over at now.
func (m Marker) Expired(now time.Time) bool {
	return !m.ExpiresAt.IsZero() && !now.Before(m.ExpiresAt)
}
