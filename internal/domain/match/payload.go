package match

// RawGame is the upstream match payload. Pointer fields distinguish a
// missing value from a zero value.
type RawGame struct {
	Metadata RawMetadata `json:"metadata"`
	Info     RawInfo     `json:"info"`
}

type RawMetadata struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"`
}

type RawInfo struct {
	GameCreation       *int64           `json:"gameCreation"`
	GameDuration       *int64           `json:"gameDuration"`
	GameStartTimestamp *int64           `json:"gameStartTimestamp"`
	GameMode           *string          `json:"gameMode"`
	QueueID            *int             `json:"queueId"`
	Participants       []RawParticipant `json:"participants"`
}

type RawParticipant struct {
	PUUID                       string    `json:"puuid"`
	ChampionName                *string   `json:"championName"`
	ChampionID                  *int      `json:"championId"`
	TeamPosition                *string   `json:"teamPosition"`
	IndividualPosition          *string   `json:"individualPosition"`
	Kills                       *int      `json:"kills"`
	Deaths                      *int      `json:"deaths"`
	Assists                     *int      `json:"assists"`
	TotalMinionsKilled          *int      `json:"totalMinionsKilled"`
	NeutralMinionsKilled        *int      `json:"neutralMinionsKilled"`
	GoldEarned                  *int      `json:"goldEarned"`
	TotalDamageDealtToChampions *int      `json:"totalDamageDealtToChampions"`
	TotalDamageTaken            *int      `json:"totalDamageTaken"`
	VisionScore                 *int      `json:"visionScore"`
	Win                         *bool     `json:"win"`
	Item0                       *int      `json:"item0"`
	Item1                       *int      `json:"item1"`
	Item2                       *int      `json:"item2"`
	Item3                       *int      `json:"item3"`
	Item4                       *int      `json:"item4"`
	Item5                       *int      `json:"item5"`
	Item6                       *int      `json:"item6"`
	Summoner1ID                 *int      `json:"summoner1Id"`
	Summoner2ID                 *int      `json:"summoner2Id"`
	Perks                       *RawPerks `json:"perks"`
}

type RawPerks struct {
	Styles []RawPerkStyle `json:"styles"`
}

type RawPerkStyle struct {
	Description string             `json:"description"`
	Style       *int               `json:"style"`
	Selections  []RawPerkSelection `json:"selections"`
}

type RawPerkSelection struct {
	Perk *int `json:"perk"`
}
