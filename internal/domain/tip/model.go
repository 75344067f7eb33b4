package tip

import "fmt"

// Tip is a predicted final score.
type Tip struct {
	HomeGoals int
	AwayGoals int
}

func New(homeGoals, awayGoals int) Tip {
	return Tip{HomeGoals: homeGoals, AwayGoals: awayGoals}
}

func (t Tip) String() string {
	return fmt.Sprintf("%d-%d", t.HomeGoals, t.AwayGoals)
}

// Outcome is the sign of a score: home win, draw or away win.
type Outcome int

const (
	OutcomeAwayWin Outcome = iota - 1
	OutcomeDraw
	OutcomeHomeWin
)

func OutcomeOf(homeGoals, awayGoals int) Outcome {
	switch {
	case homeGoals > awayGoals:
		return OutcomeHomeWin
	case homeGoals < awayGoals:
		return OutcomeAwayWin
	default:
		return OutcomeDraw
	}
}

func (o Outcome) String() string {
	switch o {
	case OutcomeHomeWin:
		return "home_win"
	case OutcomeAwayWin:
		return "away_win"
	default:
		return "draw"
	}
}
