package usecase

import (
	"slices"
	"sort"

	"github.com/riskibarqy/rift-rewind/internal/domain/summary"
)

// topComboChampions is how many champions are listed per spell or rune combo.
const topComboChampions = 5

type championGroup struct {
	stats
	best *gameRow
}

func championSummary(rows []gameRow, lookups Lookups) []summary.ChampionSummary {
	champions := newOrdered[string, ordered[string, championGroup]]()
	for i := range rows {
		row := &rows[i]
		modes := champions.get(row.ChampionName)
		if modes.values == nil {
			*modes = *newOrdered[string, championGroup]()
		}
		group := modes.get(row.mode)
		group.add(*row)
		if group.best == nil || row.kda > group.best.kda {
			group.best = row
		}
	}

	out := make([]summary.ChampionSummary, 0, len(champions.keys))
	champions.each(func(name string, modes *ordered[string, championGroup]) {
		entry := summary.ChampionSummary{ChampionName: name}
		modes.each(func(mode string, g *championGroup) {
			entry.Modes = append(entry.Modes, summary.ChampionMode{
				GameMode:    mode,
				GamesPlayed: g.games,
				WinRate:     g.winRate(),
				AvgKDA:      mean(g.kda, g.games),
				AvgCSPerMin: mean(g.csPerMin, g.games),
				BestGame:    bestGame(*g.best, lookups),
			})
		})
		out = append(out, entry)
	})
	return out
}

func bestGame(row gameRow, lookups Lookups) summary.BestGame {
	return summary.BestGame{
		Kills:         row.Kills,
		Deaths:        row.Deaths,
		Assists:       row.Assists,
		KDA:           row.kda,
		Win:           row.Win,
		GameDate:      row.date,
		GameMode:      row.mode,
		PrimaryRune:   lookups.RuneStyle(row.Perks.PrimaryStyle),
		SecondaryRune: lookups.RuneStyle(row.Perks.SubStyle),
		SummonerSpells: [2]string{
			lookups.Spell(row.Summoner1ID),
			lookups.Spell(row.Summoner2ID),
		},
	}
}

type itemKey struct {
	id   int
	mode string
}

func itemSummary(rows []gameRow, lookups Lookups) []summary.ItemSummary {
	items := newOrdered[string, ordered[itemKey, stats]]()
	for _, row := range rows {
		for _, id := range row.Items {
			if id == 0 {
				continue
			}
			modes := items.get(lookups.Item(id))
			if modes.values == nil {
				*modes = *newOrdered[itemKey, stats]()
			}
			modes.get(itemKey{id: id, mode: row.mode}).add(row)
		}
	}

	out := make([]summary.ItemSummary, 0, len(items.keys))
	items.each(func(name string, modes *ordered[itemKey, stats]) {
		entry := summary.ItemSummary{ItemName: name}
		modes.each(func(key itemKey, s *stats) {
			entry.Modes = append(entry.Modes, summary.ItemMode{
				GameMode:             key.mode,
				UsageCount:           s.games,
				WinRate:              s.winRate(),
				AvgKDA:               mean(s.kda, s.games),
				AvgGoldEarned:        mean(s.gold, s.games),
				AvgVisionScore:       mean(s.vision, s.games),
				AvgDamagePerMin:      mean(s.dmgPerMin, s.games),
				AvgDamageTakenPerMin: mean(s.dmgTakenPerMin, s.games),
			})
		})
		out = append(out, entry)
	})
	return out
}

// comboKey identifies a pair of ids (spells or rune styles) in one mode.
type comboKey struct {
	first  int
	second int
	mode   string
}

type namePair struct {
	first  string
	second string
}

type comboGroup struct {
	stats
	champions *ordered[string, int]
}

func (g *comboGroup) add(row gameRow) {
	g.stats.add(row)
	if g.champions == nil {
		g.champions = newOrdered[string, int]()
	}
	*g.champions.get(row.ChampionName)++
}

func (g *comboGroup) topChampions() []summary.ChampionUsage {
	usage := make([]summary.ChampionUsage, 0, len(g.champions.keys))
	g.champions.each(func(name string, count *int) {
		usage = append(usage, summary.ChampionUsage{ChampionName: name, GamesPlayed: *count})
	})
	sort.SliceStable(usage, func(i, j int) bool {
		return usage[i].GamesPlayed > usage[j].GamesPlayed
	})
	if len(usage) > topComboChampions {
		usage = usage[:topComboChampions]
	}
	return usage
}

func (g *comboGroup) toMode(mode string) summary.ComboMode {
	return summary.ComboMode{
		GameMode:   mode,
		ComboCount: g.games,
		WinRate:    g.winRate(),
		AvgKDA:     mean(g.kda, g.games),
		Champions:  g.topChampions(),
	}
}

// comboBreakdown groups rows by an id pair and mode, then by the resolved names.
func comboBreakdown(rows []gameRow, ids func(gameRow) (int, int), names func(int, int) namePair) *ordered[namePair, ordered[comboKey, comboGroup]] {
	combos := newOrdered[namePair, ordered[comboKey, comboGroup]]()
	for _, row := range rows {
		first, second := ids(row)
		modes := combos.get(names(first, second))
		if modes.values == nil {
			*modes = *newOrdered[comboKey, comboGroup]()
		}
		modes.get(comboKey{first: first, second: second, mode: row.mode}).add(row)
	}
	return combos
}

func spellSummary(rows []gameRow, lookups Lookups) []summary.SpellSummary {
	combos := comboBreakdown(rows,
		func(row gameRow) (int, int) { return row.Summoner1ID, row.Summoner2ID },
		func(a, b int) namePair { return namePair{lookups.Spell(a), lookups.Spell(b)} },
	)
	out := make([]summary.SpellSummary, 0, len(combos.keys))
	combos.each(func(names namePair, modes *ordered[comboKey, comboGroup]) {
		entry := summary.SpellSummary{Spell1Name: names.first, Spell2Name: names.second}
		modes.each(func(key comboKey, g *comboGroup) {
			entry.Modes = append(entry.Modes, g.toMode(key.mode))
		})
		out = append(out, entry)
	})
	return out
}

func runeSummary(rows []gameRow, lookups Lookups) []summary.RuneSummary {
	combos := comboBreakdown(rows,
		func(row gameRow) (int, int) { return row.Perks.PrimaryStyle, row.Perks.SubStyle },
		func(a, b int) namePair { return namePair{lookups.RuneStyle(a), lookups.RuneStyle(b)} },
	)
	out := make([]summary.RuneSummary, 0, len(combos.keys))
	combos.each(func(names namePair, modes *ordered[comboKey, comboGroup]) {
		entry := summary.RuneSummary{PrimaryStyle: names.first, SubStyle: names.second}
		modes.each(func(key comboKey, g *comboGroup) {
			entry.Modes = append(entry.Modes, g.toMode(key.mode))
		})
		out = append(out, entry)
	})
	return out
}

func roleSummary(rows []gameRow) []summary.RoleSummary {
	roles := newOrdered[string, ordered[string, stats]]()
	for _, row := range rows {
		modes := roles.get(row.TeamPosition)
		if modes.values == nil {
			*modes = *newOrdered[string, stats]()
		}
		modes.get(row.mode).add(row)
	}

	out := make([]summary.RoleSummary, 0, len(roles.keys))
	roles.each(func(position string, modes *ordered[string, stats]) {
		entry := summary.RoleSummary{TeamPosition: position}
		modes.each(func(mode string, s *stats) {
			entry.Modes = append(entry.Modes, summary.RoleMode{
				GameMode:    mode,
				GamesPlayed: s.games,
				WinRate:     s.winRate(),
				AvgKDA:      mean(s.kda, s.games),
			})
		})
		out = append(out, entry)
	})
	return out
}

// activity counts games per bucket and mode; buckets come back ascending.
func activity(rows []gameRow, bucket func(gameRow) int) ([]int, map[int][]summary.ActivityMode) {
	buckets := newOrdered[int, ordered[string, int]]()
	for _, row := range rows {
		modes := buckets.get(bucket(row))
		if modes.values == nil {
			*modes = *newOrdered[string, int]()
		}
		*modes.get(row.mode)++
	}

	keys := slices.Clone(buckets.keys)
	slices.Sort(keys)
	out := make(map[int][]summary.ActivityMode, len(keys))
	buckets.each(func(key int, modes *ordered[string, int]) {
		modes.each(func(mode string, count *int) {
			out[key] = append(out[key], summary.ActivityMode{GameMode: mode, GamesPlayed: *count})
		})
	})
	return keys, out
}

func hourActivity(rows []gameRow) []summary.HourActivity {
	keys, modes := activity(rows, func(row gameRow) int { return row.date.Hour() })
	out := make([]summary.HourActivity, 0, len(keys))
	for _, hour := range keys {
		out = append(out, summary.HourActivity{Hour: hour, Modes: modes[hour]})
	}
	return out
}

func monthActivity(rows []gameRow) []summary.MonthActivity {
	keys, modes := activity(rows, func(row gameRow) int { return int(row.date.Month()) })
	out := make([]summary.MonthActivity, 0, len(keys))
	for _, month := range keys {
		out = append(out, summary.MonthActivity{Month: month, Modes: modes[month]})
	}
	return out
}
