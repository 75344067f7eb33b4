package participant

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/tippspiel/internal/domain/match"
	"github.com/riskibarqy/tippspiel/internal/domain/tip"
)

var (
	ErrTipOverflow      = errors.New("cannot add more tips than defined matches")
	ErrTipCountMismatch = errors.New("tip count does not match defined matches")
)

// Sheet collects a participant's tips in match order. Tips stay pending and
// invisible to scoring until one tip per defined match was submitted.
type Sheet struct {
	pending []tip.Tip
	bound   map[match.Key]tip.Tip
}

// Add appends t and binds the sheet once it holds one tip per match.
// It reports whether this call completed the sheet.
func (s *Sheet) Add(t tip.Tip, matches []match.Match) (bool, error) {
	if len(s.pending) >= len(matches) {
		return false, fmt.Errorf("%w: matches=%d tips=%d", ErrTipOverflow, len(matches), len(s.pending))
	}

	s.pending = append(s.pending, t)
	if len(s.pending) < len(matches) {
		return false, nil
	}

	bound, err := Bind(s.pending, matches)
	if err != nil {
		s.pending = s.pending[:len(s.pending)-1]
		return false, err
	}
	s.bound = bound
	return true, nil
}

func (s *Sheet) Complete() bool {
	return s.bound != nil
}

func (s *Sheet) PendingCount() int {
	return len(s.pending)
}

// TipFor returns the bound tip for key. Pending tips are never returned.
func (s *Sheet) TipFor(key match.Key) (tip.Tip, bool) {
	if s.bound == nil {
		return tip.Tip{}, false
	}
	t, ok := s.bound[key]
	return t, ok
}

// Bind zips tips onto matches positionally. Both sequences must have equal length.
// When a match is defined twice the later tip wins, as both share one key.
func Bind(tips []tip.Tip, matches []match.Match) (map[match.Key]tip.Tip, error) {
	if len(tips) != len(matches) {
		return nil, fmt.Errorf("%w: matches=%d tips=%d", ErrTipCountMismatch, len(matches), len(tips))
	}

	out := make(map[match.Key]tip.Tip, len(matches))
	for i, item := range matches {
		out[item.Key()] = tips[i]
	}
	return out, nil
}
