package usecase

import (
	"context"
	"strconv"
)

// Lookups resolves static game ids to display names for one year.
type Lookups struct {
	ItemsLatest map[int]string
	ItemsFirst  map[int]string
	Spells      map[int]string
	RuneStyles  map[int]string
	Queues      map[int]string
}

// LookupProvider loads the static tables used by aggregation.
type LookupProvider interface {
	Lookups(ctx context.Context, year int) (Lookups, error)
}

// Item prefers the end-of-year patch name, then the first patch of the year.
func (l Lookups) Item(id int) string {
	if name, ok := l.ItemsLatest[id]; ok && name != "" {
		return name
	}
	if name, ok := l.ItemsFirst[id]; ok && name != "" {
		return name
	}
	return strconv.Itoa(id)
}

func (l Lookups) Spell(id int) string {
	return resolveName(l.Spells, id)
}

func (l Lookups) RuneStyle(id int) string {
	return resolveName(l.RuneStyles, id)
}

func (l Lookups) Mode(queueID int) string {
	return resolveName(l.Queues, queueID)
}

func resolveName(names map[int]string, id int) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return strconv.Itoa(id)
}
