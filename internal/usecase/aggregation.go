package usecase

import (
	"time"

	"github.com/riskibarqy/rift-rewind/internal/domain/match"
	"github.com/riskibarqy/rift-rewind/internal/domain/summary"
)

// gameRow is a record with the derived fields used by every breakdown.
type gameRow struct {
	match.Record
	date           time.Time
	mode           string
	kda            float64
	csPerMin       float64
	dmgPerMin      float64
	dmgTakenPerMin float64
	hours          float64
}

func deriveRow(record match.Record, lookups Lookups) gameRow {
	minutes := float64(record.GameDuration) / 60
	return gameRow{
		Record:         record,
		date:           record.CreatedAt(),
		mode:           lookups.Mode(record.QueueID),
		kda:            KDA(record.Kills, record.Deaths, record.Assists),
		csPerMin:       perMinute(float64(record.TotalMinionsKilled+record.NeutralMinionsKilled), minutes),
		dmgPerMin:      perMinute(float64(record.TotalDamageDealtToChampions), minutes),
		dmgTakenPerMin: perMinute(float64(record.TotalDamageTaken), minutes),
		hours:          float64(record.GameDuration) / 3600,
	}
}

// KDA is (kills+assists)/deaths with deaths floored at 1.
func KDA(kills, deaths, assists int) float64 {
	return float64(kills+assists) / float64(max(deaths, 1))
}

func perMinute(value, minutes float64) float64 {
	if minutes <= 0 {
		return 0
	}
	return value / minutes
}

// Aggregate builds the summary document for one player's period. It is a
// pure function of records and lookups.
func Aggregate(player string, records []match.Record, lookups Lookups) summary.Document {
	rows := make([]gameRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, deriveRow(record, lookups))
	}

	global := globalSummary(rows)
	global.LongestWinStreak, global.LongestLoseStreak = longestStreaks(rows)

	return summary.Document{
		PlayerPUUID: player,
		Summary: summary.Summary{
			Global:          global,
			Champions:       championSummary(rows, lookups),
			Roles:           roleSummary(rows),
			Items:           itemSummary(rows, lookups),
			Spells:          spellSummary(rows, lookups),
			Runes:           runeSummary(rows, lookups),
			ActivityByHour:  hourActivity(rows),
			ActivityByMonth: monthActivity(rows),
		},
	}
}

// ordered keeps groups in first-encountered order.
type ordered[K comparable, V any] struct {
	keys   []K
	values map[K]*V
}

func newOrdered[K comparable, V any]() *ordered[K, V] {
	return &ordered[K, V]{values: make(map[K]*V)}
}

func (o *ordered[K, V]) get(key K) *V {
	if v, ok := o.values[key]; ok {
		return v
	}
	v := new(V)
	o.keys = append(o.keys, key)
	o.values[key] = v
	return v
}

func (o *ordered[K, V]) each(fn func(key K, value *V)) {
	for _, key := range o.keys {
		fn(key, o.values[key])
	}
}

// stats accumulates the running sums shared by the breakdowns.
type stats struct {
	games          int
	wins           int
	kda            float64
	csPerMin       float64
	dmgPerMin      float64
	dmgTakenPerMin float64
	duration       float64
	gold           float64
	vision         float64
	hours          float64
	maxGold        int
	maxVision      int
}

func (s *stats) add(row gameRow) {
	if s.games == 0 || row.GoldEarned > s.maxGold {
		s.maxGold = row.GoldEarned
	}
	if s.games == 0 || row.VisionScore > s.maxVision {
		s.maxVision = row.VisionScore
	}
	s.games++
	if row.Win {
		s.wins++
	}
	s.kda += row.kda
	s.csPerMin += row.csPerMin
	s.dmgPerMin += row.dmgPerMin
	s.dmgTakenPerMin += row.dmgTakenPerMin
	s.duration += float64(row.GameDuration)
	s.gold += float64(row.GoldEarned)
	s.vision += float64(row.VisionScore)
	s.hours += row.hours
}

func (s *stats) winRate() float64 {
	return mean(float64(s.wins), s.games)
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func globalSummary(rows []gameRow) summary.Global {
	var total stats
	modes := newOrdered[string, stats]()
	for _, row := range rows {
		total.add(row)
		modes.get(row.mode).add(row)
	}

	out := summary.Global{
		TotalGames:       total.games,
		TotalWins:        total.wins,
		TotalHoursPlayed: total.hours,
		WinRate:          total.winRate(),
		Modes:            make([]summary.GlobalMode, 0, len(modes.keys)),
	}
	modes.each(func(mode string, s *stats) {
		out.Modes = append(out.Modes, summary.GlobalMode{
			GameMode:             mode,
			GamesPlayed:          s.games,
			WinRate:              s.winRate(),
			AvgKDA:               mean(s.kda, s.games),
			AvgCSPerMin:          mean(s.csPerMin, s.games),
			AvgDamagePerMin:      mean(s.dmgPerMin, s.games),
			AvgDamageTakenPerMin: mean(s.dmgTakenPerMin, s.games),
			AvgGameDuration:      mean(s.duration, s.games),
			HighestGold:          s.maxGold,
			HighestVision:        s.maxVision,
		})
	})
	return out
}
