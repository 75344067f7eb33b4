package tip

import (
	"errors"
	"fmt"
)

var ErrNegativeGoals = errors.New("goals must not be negative")

// Award classifies how well a tip matched the final score.
type Award string

const (
	AwardExactScore Award = "exact_score"
	AwardOutcome    Award = "outcome"
	AwardMiss       Award = "miss"
)

// Rules stores the points granted per award.
type Rules struct {
	ExactScorePoints int
	OutcomePoints    int
}

func DefaultRules() Rules {
	return Rules{
		ExactScorePoints: 2,
		OutcomePoints:    1,
	}
}

func Validate(t Tip) error {
	if t.HomeGoals < 0 || t.AwayGoals < 0 {
		return fmt.Errorf("%w: tip=%s", ErrNegativeGoals, t)
	}
	return nil
}

// Classify compares a tip with the actual goals. An exact score always wins over
// the outcome check.
func Classify(t Tip, homeGoals, awayGoals int) Award {
	if t.HomeGoals == homeGoals && t.AwayGoals == awayGoals {
		return AwardExactScore
	}
	if OutcomeOf(t.HomeGoals, t.AwayGoals) == OutcomeOf(homeGoals, awayGoals) {
		return AwardOutcome
	}
	return AwardMiss
}

func (r Rules) Points(award Award) int {
	switch award {
	case AwardExactScore:
		return r.ExactScorePoints
	case AwardOutcome:
		return r.OutcomePoints
	default:
		return 0
	}
}

// Score classifies the tip and returns the points it earns under r.
func (r Rules) Score(t Tip, homeGoals, awayGoals int) int {
	return r.Points(Classify(t, homeGoals, awayGoals))
}
