package account

// Account is a Riot identity resolved from a game name and tag line.
type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// Resolution is what the front door needs to start a run for an account.
type Resolution struct {
	Account       Account `json:"account"`
	Region        string  `json:"region"`
	RoutingValue  string  `json:"routingValue"`
	Year          int     `json:"year"`
	SummaryExists bool    `json:"summaryExists"`
	FinalExists   bool    `json:"finalExists"`
}
