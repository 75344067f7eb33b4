package usecase

import (
	"context"
	"time"
)

// ExternalFixture is one fixture as reported by the results provider. Goals are
// nil when the provider sent no result block. Malformed carries the reason when
// the provider record could not be decoded; such fixtures are never scored.
type ExternalFixture struct {
	Status       string
	HomeTeamName string
	AwayTeamName string
	Date         time.Time
	HomeGoals    *int
	AwayGoals    *int
	Malformed    string
}

// ResultProvider fetches the current fixture list of the tracked competition.
type ResultProvider interface {
	FetchFixtures(ctx context.Context) ([]ExternalFixture, error)
}
