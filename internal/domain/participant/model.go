package participant

import "strings"

// State tracks where a participant is in the tip lifecycle.
type State string

const (
	StateRegistered   State = "registered"
	StateTipsPending  State = "tips_pending"
	StateTipsComplete State = "tips_complete"
	StateScored       State = "scored"
)

// User is a registered player of the tip game.
type User struct {
	ShortCode string
	GivenName string
	SurName   string
}

func (u User) FullName() string {
	return strings.TrimSpace(u.GivenName + " " + u.SurName)
}
