package match

import "time"

// ItemSlots is the number of final inventory slots on a participant.
const ItemSlots = 7

// Perks keeps the rune style selection of one game.
type Perks struct {
	PrimaryStyle int `json:"primaryStyle"`
	SubStyle     int `json:"subStyle"`
	PrimaryPerk  int `json:"primaryPerk"`
}

// Record is one player's normalized participation in one game.
type Record struct {
	GameID                      string         `json:"matchId"`
	GameCreation                int64          `json:"gameCreation"`
	GameDuration                int64          `json:"gameDuration"`
	GameMode                    string         `json:"gameMode"`
	QueueID                     int            `json:"queueId"`
	ChampionName                string         `json:"championName"`
	ChampionID                  int            `json:"championId"`
	TeamPosition                string         `json:"teamPosition"`
	IndividualPosition          string         `json:"individualPosition"`
	Kills                       int            `json:"kills"`
	Deaths                      int            `json:"deaths"`
	Assists                     int            `json:"assists"`
	TotalMinionsKilled          int            `json:"totalMinionsKilled"`
	NeutralMinionsKilled        int            `json:"neutralMinionsKilled"`
	GoldEarned                  int            `json:"goldEarned"`
	TotalDamageDealtToChampions int            `json:"totalDamageDealtToChampions"`
	TotalDamageTaken            int            `json:"totalDamageTaken"`
	VisionScore                 int            `json:"visionScore"`
	Win                         bool           `json:"win"`
	Items                       [ItemSlots]int `json:"items"`
	Summoner1ID                 int            `json:"summoner1Id"`
	Summoner2ID                 int            `json:"summoner2Id"`
	Perks                       Perks          `json:"perks"`
}

// CreatedAt returns the game creation time in UTC.
func (r Record) CreatedAt() time.Time {
	return time.UnixMilli(r.GameCreation).UTC()
}

// StorageDate is the date used to place the record under its period prefix.
// It follows creation time, the same clock the id listing window filters on,
// so a game listed for a year is always stored under that year.
func (r Record) StorageDate() time.Time {
	return r.CreatedAt()
}

// Window is a half-open [Start, End) time range.
type Window struct {
	Start time.Time
	End   time.Time
}

// YearWindow returns [Jan 1 year, Jan 1 year+1) in UTC.
func YearWindow(year int) Window {
	return Window{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}
