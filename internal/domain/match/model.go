package match

import (
	"strings"
	"time"

	"github.com/gosimple/unidecode"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusTimed     = "TIMED"
	StatusInPlay    = "IN_PLAY"
	StatusFinished  = "FINISHED"
	StatusPostponed = "POSTPONED"
	StatusCanceled  = "CANCELED"
)

// Match is one configured pairing, home side first.
type Match struct {
	Home string
	Away string
}

// Key identifies a match independent of accents, case and surrounding spaces
// in the team names, so configured and provider-reported names correlate.
type Key struct {
	Home string
	Away string
}

// Result is the final score of a finished match as reported by the provider.
type Result struct {
	Match     Match
	HomeGoals int
	AwayGoals int
	Date      time.Time
}

func New(home, away string) Match {
	return Match{
		Home: strings.TrimSpace(home),
		Away: strings.TrimSpace(away),
	}
}

func (m Match) Key() Key {
	return Key{
		Home: NormalizeTeamName(m.Home),
		Away: NormalizeTeamName(m.Away),
	}
}

// String renders the legacy "{home}-{away}" identifier.
func (m Match) String() string {
	return m.Home + "-" + m.Away
}

func (m Match) Label() string {
	return m.Home + " vs. " + m.Away
}

func (k Key) String() string {
	return k.Home + "-" + k.Away
}

func (r Result) Key() Key {
	return r.Match.Key()
}

// NormalizeTeamName folds a team name to a comparable form: "  Österreich " and
// "osterreich" normalize to the same value.
func NormalizeTeamName(name string) string {
	folded := unidecode.Unidecode(strings.TrimSpace(name))
	return strings.ToLower(strings.Join(strings.Fields(folded), " "))
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsFinishedStatus(status string) bool {
	return NormalizeStatus(status) == StatusFinished
}
