package usecase

import (
	"strings"

	"github.com/riskibarqy/rift-rewind/internal/domain/match"
	"github.com/riskibarqy/rift-rewind/internal/platform/logging"
)

// Normalizer turns raw match payloads into per-player records.
type Normalizer struct {
	logger *logging.Logger
}

func NewNormalizer(logger *logging.Logger) *Normalizer {
	if logger == nil {
		logger = logging.Default()
	}
	return &Normalizer{logger: logger}
}

// Normalize returns nil when the player did not take part in the game or a
// required field is missing. It never fails.
func (n *Normalizer) Normalize(raw match.RawGame, player string) *match.Record {
	player = strings.TrimSpace(player)
	gameID := strings.TrimSpace(raw.Metadata.MatchID)

	var participant *match.RawParticipant
	for i := range raw.Info.Participants {
		if raw.Info.Participants[i].PUUID == player {
			participant = &raw.Info.Participants[i]
			break
		}
	}
	if participant == nil {
		n.logger.Warn("player not found in match participants", "match_id", gameID, "player", player)
		return nil
	}

	f := &fields{}
	if gameID == "" {
		f.missing = "metadata.matchId"
	}
	info := raw.Info
	p := participant

	record := match.Record{
		GameID:                      gameID,
		GameCreation:                required(f, "info.gameCreation", info.GameCreation),
		GameDuration:                required(f, "info.gameDuration", info.GameDuration),
		GameMode:                    required(f, "info.gameMode", info.GameMode),
		QueueID:                     required(f, "info.queueId", info.QueueID),
		ChampionName:                required(f, "championName", p.ChampionName),
		ChampionID:                  required(f, "championId", p.ChampionID),
		TeamPosition:                required(f, "teamPosition", p.TeamPosition),
		IndividualPosition:          required(f, "individualPosition", p.IndividualPosition),
		Kills:                       required(f, "kills", p.Kills),
		Deaths:                      required(f, "deaths", p.Deaths),
		Assists:                     required(f, "assists", p.Assists),
		TotalMinionsKilled:          required(f, "totalMinionsKilled", p.TotalMinionsKilled),
		NeutralMinionsKilled:        required(f, "neutralMinionsKilled", p.NeutralMinionsKilled),
		GoldEarned:                  required(f, "goldEarned", p.GoldEarned),
		TotalDamageDealtToChampions: required(f, "totalDamageDealtToChampions", p.TotalDamageDealtToChampions),
		TotalDamageTaken:            required(f, "totalDamageTaken", p.TotalDamageTaken),
		VisionScore:                 required(f, "visionScore", p.VisionScore),
		Win:                         required(f, "win", p.Win),
		Items: [match.ItemSlots]int{
			required(f, "item0", p.Item0),
			required(f, "item1", p.Item1),
			required(f, "item2", p.Item2),
			required(f, "item3", p.Item3),
			required(f, "item4", p.Item4),
			required(f, "item5", p.Item5),
			required(f, "item6", p.Item6),
		},
		Summoner1ID: required(f, "summoner1Id", p.Summoner1ID),
		Summoner2ID: required(f, "summoner2Id", p.Summoner2ID),
		Perks:       normalizePerks(f, p.Perks),
	}

	if f.missing != "" {
		n.logger.Warn("match payload missing required field",
			"match_id", gameID,
			"player", player,
			"field", f.missing,
		)
		return nil
	}

	return &record
}

// fields remembers the first missing field seen while reading a payload.
type fields struct {
	missing string
}

func required[T any](f *fields, name string, value *T) T {
	if value == nil {
		if f.missing == "" {
			f.missing = name
		}
		var zero T
		return zero
	}
	return *value
}

func normalizePerks(f *fields, perks *match.RawPerks) match.Perks {
	if perks == nil {
		required[int](f, "perks", nil)
		return match.Perks{}
	}
	if len(perks.Styles) < 2 {
		required[int](f, "perks.styles", nil)
		return match.Perks{}
	}

	primary := perks.Styles[0]
	out := match.Perks{
		PrimaryStyle: required(f, "perks.styles[0].style", primary.Style),
		SubStyle:     required(f, "perks.styles[1].style", perks.Styles[1].Style),
	}
	if len(primary.Selections) == 0 {
		required[int](f, "perks.styles[0].selections", nil)
		return out
	}
	out.PrimaryPerk = required(f, "perks.styles[0].selections[0].perk", primary.Selections[0].Perk)
	return out
}
