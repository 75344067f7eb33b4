package footballdata

import "encoding/json"

// Payload shapes of the football-data.org v1 fixtures endpoint.

// fixturesEnvelope keeps the items raw so one bad record does not reject the
// whole list.
type fixturesEnvelope struct {
	Count    int                `json:"count"`
	Fixtures *[]json.RawMessage `json:"fixtures"`
}

// fixtureHeader is the lenient view of a record that failed to decode, used to
// name it in the refresh report.
type fixtureHeader struct {
	Status       string `json:"status"`
	HomeTeamName string `json:"homeTeamName"`
	AwayTeamName string `json:"awayTeamName"`
}

type fixtureItem struct {
	Date         string         `json:"date"`
	Status       string         `json:"status"`
	Matchday     int            `json:"matchday"`
	HomeTeamName string         `json:"homeTeamName"`
	AwayTeamName string         `json:"awayTeamName"`
	Result       *fixtureResult `json:"result"`
}

type fixtureResult struct {
	GoalsHomeTeam *int      `json:"goalsHomeTeam"`
	GoalsAwayTeam *int      `json:"goalsAwayTeam"`
	HalfTime      *halfTime `json:"halfTime"`
}

type halfTime struct {
	GoalsHomeTeam *int `json:"goalsHomeTeam"`
	GoalsAwayTeam *int `json:"goalsAwayTeam"`
}
