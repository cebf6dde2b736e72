package summary

import "time"

// Document is the aggregated year-in-review for one player and year.
type Document struct {
	PlayerPUUID string  `json:"playerPUUID"`
	Summary     Summary `json:"summary"`
}

type Summary struct {
	Global          Global            `json:"global"`
	Champions       []ChampionSummary `json:"champions"`
	Roles           []RoleSummary     `json:"roles"`
	Items           []ItemSummary     `json:"items"`
	Spells          []SpellSummary    `json:"spells"`
	Runes           []RuneSummary     `json:"runes"`
	ActivityByHour  []HourActivity    `json:"activityByHour"`
	ActivityByMonth []MonthActivity   `json:"activityByMonth"`
}

type Global struct {
	TotalGames        int          `json:"totalGames"`
	TotalWins         int          `json:"totalWins"`
	TotalHoursPlayed  float64      `json:"totalHoursPlayed"`
	WinRate           float64      `json:"winRate"`
	LongestWinStreak  Streak       `json:"longestWinStreak"`
	LongestLoseStreak Streak       `json:"longestLoseStreak"`
	Modes             []GlobalMode `json:"modes"`
}

type GlobalMode struct {
	GameMode             string  `json:"gameMode"`
	GamesPlayed          int     `json:"gamesPlayed"`
	WinRate              float64 `json:"winRate"`
	AvgKDA               float64 `json:"avgKDA"`
	AvgCSPerMin          float64 `json:"avgCSperMin"`
	AvgDamagePerMin      float64 `json:"avgDamagePerMin"`
	AvgDamageTakenPerMin float64 `json:"avgDamageTakenPerMin"`
	AvgGameDuration      float64 `json:"avgGameDuration"`
	HighestGold          int     `json:"highestGold"`
	HighestVision        int     `json:"highestVision"`
}

// Streak is a run of consecutive games with the same outcome. Dates are nil
// when no such run exists.
type Streak struct {
	Length    int        `json:"length"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

type ChampionSummary struct {
	ChampionName string         `json:"championName"`
	Modes        []ChampionMode `json:"modes"`
}

type ChampionMode struct {
	GameMode    string   `json:"gameMode"`
	GamesPlayed int      `json:"gamesPlayed"`
	WinRate     float64  `json:"winRate"`
	AvgKDA      float64  `json:"avgKDA"`
	AvgCSPerMin float64  `json:"avgCSperMin"`
	BestGame    BestGame `json:"bestGame"`
}

type BestGame struct {
	Kills          int       `json:"kills"`
	Deaths         int       `json:"deaths"`
	Assists        int       `json:"assists"`
	KDA            float64   `json:"kda"`
	Win            bool      `json:"win"`
	GameDate       time.Time `json:"gameDate"`
	GameMode       string    `json:"gameMode"`
	PrimaryRune    string    `json:"primaryRune"`
	SecondaryRune  string    `json:"secondaryRune"`
	SummonerSpells [2]string `json:"summonerSpells"`
}

type ItemSummary struct {
	ItemName string     `json:"itemName"`
	Modes    []ItemMode `json:"modes"`
}

type ItemMode struct {
	GameMode             string  `json:"gameMode"`
	UsageCount           int     `json:"usageCount"`
	WinRate              float64 `json:"winRate"`
	AvgKDA               float64 `json:"avgKDA"`
	AvgGoldEarned        float64 `json:"avgGoldEarned"`
	AvgVisionScore       float64 `json:"avgVisionScore"`
	AvgDamagePerMin      float64 `json:"avgDamagePerMin"`
	AvgDamageTakenPerMin float64 `json:"avgDamageTakenPerMin"`
}

// ComboMode is shared by spell and rune combinations.
type ComboMode struct {
	GameMode   string          `json:"gameMode"`
	ComboCount int             `json:"comboCount"`
	WinRate    float64         `json:"winRate"`
	AvgKDA     float64         `json:"avgKDA"`
	Champions  []ChampionUsage `json:"champions"`
}

type ChampionUsage struct {
	ChampionName string `json:"championName"`
	GamesPlayed  int    `json:"gamesPlayed"`
}

type SpellSummary struct {
	Spell1Name string      `json:"spell1Name"`
	Spell2Name string      `json:"spell2Name"`
	Modes      []ComboMode `json:"modes"`
}

type RuneSummary struct {
	PrimaryStyle string      `json:"primaryStyle"`
	SubStyle     string      `json:"subStyle"`
	Modes        []ComboMode `json:"modes"`
}

type RoleSummary struct {
	TeamPosition string     `json:"teamPosition"`
	Modes        []RoleMode `json:"modes"`
}

type RoleMode struct {
	GameMode    string  `json:"gameMode"`
	GamesPlayed int     `json:"gamesPlayed"`
	WinRate     float64 `json:"winRate"`
	AvgKDA      float64 `json:"avgKDA"`
}

type ActivityMode struct {
	GameMode    string `json:"gameMode"`
	GamesPlayed int    `json:"gamesPlayed"`
}

type HourActivity struct {
	Hour  int            `json:"hour"`
	Modes []ActivityMode `json:"modes"`
}

type MonthActivity struct {
	Month int            `json:"month"`
	Modes []ActivityMode `json:"modes"`
}

// Metadata is the sidecar written next to the summary for downstream indexing.
type Metadata struct {
	Attributes MetadataAttributes `json:"metadataAttributes"`
}

type MetadataAttributes struct {
	PUUID string `json:"puuid"`
	Year  int    `json:"year"`
}
