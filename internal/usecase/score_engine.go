package usecase

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/riskibarqy/tippspiel/internal/domain/match"
	"github.com/riskibarqy/tippspiel/internal/domain/participant"
	"github.com/riskibarqy/tippspiel/internal/domain/tip"
	"github.com/riskibarqy/tippspiel/internal/platform/logging"
)

// ScoreEngine owns the match list, the user registry and the latest results,
// and derives points from them. All methods are safe for concurrent use; reads
// never observe a half-applied refresh.
type ScoreEngine struct {
	mu       sync.RWMutex
	provider ResultProvider
	rules    tip.Rules
	logger   *logging.Logger
	now      func() time.Time

	matches     []match.Match
	tipsOpened  bool
	order       []string
	users       map[string]*userEntry
	results     map[match.Key]match.Result
	labelWidth  int
	refreshedAt time.Time
}

type userEntry struct {
	user   participant.User
	sheet  participant.Sheet
	points int
	scored bool
}

// Standing is one row of the ranking table.
type Standing struct {
	Points    int
	FullName  string
	ShortCode string
}

// MatchStat is the per-match breakdown of a user's points.
type MatchStat struct {
	Match     match.Match
	Points    int
	Award     tip.Award
	HomeGoals int
	AwayGoals int
	Tip       tip.Tip
}

func (s MatchStat) Label() string {
	return s.Match.Label()
}

// SkippedFixture is a finished fixture that could not be turned into a result.
type SkippedFixture struct {
	Match  string
	Reason string
}

// RefreshReport summarizes one results refresh.
type RefreshReport struct {
	Fetched     int
	Finished    int
	Skipped     []SkippedFixture
	Unmatched   []match.Match
	RefreshedAt time.Time
}

type EngineOption func(*ScoreEngine)

func WithLogger(logger *logging.Logger) EngineOption {
	return func(e *ScoreEngine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func WithClock(now func() time.Time) EngineOption {
	return func(e *ScoreEngine) {
		if now != nil {
			e.now = now
		}
	}
}

func WithRules(rules tip.Rules) EngineOption {
	return func(e *ScoreEngine) {
		e.rules = rules
	}
}

func NewScoreEngine(provider ResultProvider, opts ...EngineOption) *ScoreEngine {
	e := &ScoreEngine{
		provider: provider,
		rules:    tip.DefaultRules(),
		logger:   logging.Default(),
		now:      time.Now,
		users:    make(map[string]*userEntry),
		results:  make(map[match.Key]match.Result),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DefineMatch appends a match to the ordered match list.
func (e *ScoreEngine) DefineMatch(home, away string) error {
	item := match.New(home, away)
	if item.Home == "" || item.Away == "" {
		return fmt.Errorf("%w: home and away team names are required", ErrInvalidInput)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.tipsOpened {
		return fmt.Errorf("%w: match=%s", ErrMatchesFrozen, item)
	}
	for _, existing := range e.matches {
		if existing.Key() == item.Key() {
			e.logger.Warn("duplicate match definition, tips will share one key", "match", item.String())
			break
		}
	}

	e.matches = append(e.matches, item)
	return nil
}

func (e *ScoreEngine) Matches() []match.Match {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return slices.Clone(e.matches)
}

// AddUser registers a user under shortCode. Registering an existing code
// replaces the user and discards its tips, keeping its position in the roster.
func (e *ScoreEngine) AddUser(givenName, surName, shortCode string) error {
	shortCode = strings.TrimSpace(shortCode)
	if shortCode == "" {
		return fmt.Errorf("%w: short code is required", ErrInvalidInput)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.users[shortCode]; exists {
		e.logger.Warn("user registered twice, previous entry replaced", "user", shortCode)
	} else {
		e.order = append(e.order, shortCode)
	}

	e.users[shortCode] = &userEntry{
		user: participant.User{
			ShortCode: shortCode,
			GivenName: strings.TrimSpace(givenName),
			SurName:   strings.TrimSpace(surName),
		},
	}
	return nil
}

// AddUserTip appends t to the user's tips. Once the user holds one tip per
// defined match the tips are bound to the matches and points reset to zero.
func (e *ScoreEngine) AddUserTip(shortCode string, t tip.Tip) error {
	if err := tip.Validate(t); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	item, err := e.lookup(shortCode)
	if err != nil {
		return err
	}

	completed, err := item.sheet.Add(t, e.matches)
	if err != nil {
		return fmt.Errorf("add tip for user=%s: %w", item.user.ShortCode, err)
	}
	e.tipsOpened = true

	if completed {
		item.points = 0
		item.scored = false
		e.logger.Debug("tips bound to matches", "user", item.user.ShortCode, "matches", len(e.matches))
	}
	return nil
}

// RefreshResults replaces the result mapping with the provider's finished
// fixtures. On any error the previous results stay in place.
func (e *ScoreEngine) RefreshResults(ctx context.Context) (RefreshReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoreEngine.RefreshResults")
	defer span.End()

	if e.provider == nil {
		return RefreshReport{}, fmt.Errorf("%w: no result provider configured", ErrDependencyUnavailable)
	}

	fixtures, err := e.provider.FetchFixtures(ctx)
	if err != nil {
		return RefreshReport{}, fmt.Errorf("fetch fixtures: %w", err)
	}

	results, report, err := buildResults(fixtures)
	for _, skipped := range report.Skipped {
		e.logger.WarnContext(ctx, "skip malformed finished fixture", "match", skipped.Match, "reason", skipped.Reason)
	}
	if err != nil {
		return report, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	defined := make(map[match.Key]struct{}, len(e.matches))
	for _, item := range e.matches {
		defined[item.Key()] = struct{}{}
	}

	width := 0
	for _, result := range results {
		if _, ok := defined[result.Key()]; !ok {
			report.Unmatched = append(report.Unmatched, result.Match)
		}
		width = max(width, utf8.RuneCountInString(result.Match.String()))
	}
	slices.SortFunc(report.Unmatched, func(a, b match.Match) int {
		return cmp.Compare(a.String(), b.String())
	})
	for _, item := range report.Unmatched {
		e.logger.WarnContext(ctx, "result does not correlate with any defined match", "match", item.String())
	}

	e.results = results
	e.labelWidth = width
	e.refreshedAt = e.now().UTC()
	for _, item := range e.users {
		item.scored = false
	}

	report.RefreshedAt = e.refreshedAt
	e.logger.InfoContext(ctx, "results refreshed",
		"fetched", report.Fetched,
		"finished", report.Finished,
		"results", len(results),
		"skipped", len(report.Skipped),
		"unmatched", len(report.Unmatched),
	)
	return report, nil
}

// buildResults keeps finished fixtures only. Malformed finished fixtures are
// skipped unless none of them is usable, which fails the whole batch.
func buildResults(fixtures []ExternalFixture) (map[match.Key]match.Result, RefreshReport, error) {
	report := RefreshReport{Fetched: len(fixtures)}

	sorted := slices.Clone(fixtures)
	slices.SortStableFunc(sorted, func(a, b ExternalFixture) int {
		return b.Date.Compare(a.Date)
	})

	out := make(map[match.Key]match.Result, len(sorted))
	for _, item := range sorted {
		if !countsAsFinished(item) {
			continue
		}
		report.Finished++

		result, reason := toResult(item)
		if reason != "" {
			report.Skipped = append(report.Skipped, SkippedFixture{
				Match:  match.New(item.HomeTeamName, item.AwayTeamName).String(),
				Reason: reason,
			})
			continue
		}

		// fixtures are sorted newest first, keep the most recent result per key
		if _, exists := out[result.Key()]; exists {
			continue
		}
		out[result.Key()] = result
	}

	if report.Finished > 0 && len(out) == 0 {
		return nil, report, fmt.Errorf("%w: all %d finished fixtures are malformed", ErrMalformedPayload, report.Finished)
	}
	return out, report, nil
}

// countsAsFinished also admits undecodable records whose status is unknown,
// so they are reported instead of silently dropped.
func countsAsFinished(item ExternalFixture) bool {
	if match.IsFinishedStatus(item.Status) {
		return true
	}
	return item.Malformed != "" && strings.TrimSpace(item.Status) == ""
}

func toResult(item ExternalFixture) (match.Result, string) {
	m := match.New(item.HomeTeamName, item.AwayTeamName)
	switch {
	case item.Malformed != "":
		return match.Result{}, item.Malformed
	case m.Home == "" || m.Away == "":
		return match.Result{}, "missing team name"
	case item.HomeGoals == nil || item.AwayGoals == nil:
		return match.Result{}, "missing result"
	case *item.HomeGoals < 0 || *item.AwayGoals < 0:
		return match.Result{}, "negative goals"
	}
	return match.Result{
		Match:     m,
		HomeGoals: *item.HomeGoals,
		AwayGoals: *item.AwayGoals,
		Date:      item.Date,
	}, ""
}

// ComputePoints recomputes the user's total from the bound tips and the
// current results. Repeated calls yield the same total.
func (e *ScoreEngine) ComputePoints(shortCode string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	item, err := e.lookup(shortCode)
	if err != nil {
		return 0, err
	}
	e.score(item)
	return item.points, nil
}

// ComputeAllPoints recomputes every registered user.
func (e *ScoreEngine) ComputeAllPoints() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, code := range e.order {
		e.score(e.users[code])
	}
}

func (e *ScoreEngine) score(item *userEntry) {
	total := 0
	for key, result := range e.results {
		t, ok := item.sheet.TipFor(key)
		if !ok {
			continue
		}
		total += e.rules.Score(t, result.HomeGoals, result.AwayGoals)
	}
	item.points = total
	item.scored = item.sheet.Complete()
}

// ListUsers returns the registered users in registration order.
func (e *ScoreEngine) ListUsers() []participant.User {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]participant.User, 0, len(e.order))
	for _, code := range e.order {
		out = append(out, e.users[code].user)
	}
	return out
}

// RankedResults orders users by points, highest first. Ties keep registration order.
func (e *ScoreEngine) RankedResults() []Standing {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Standing, 0, len(e.order))
	for _, code := range e.order {
		item := e.users[code]
		out = append(out, Standing{
			Points:    item.points,
			FullName:  item.user.FullName(),
			ShortCode: item.user.ShortCode,
		})
	}
	slices.SortStableFunc(out, func(a, b Standing) int {
		return cmp.Compare(b.Points, a.Points)
	})
	return out
}

// StatsFor lists, in match definition order, every match that has both a
// result and a bound tip of the user.
func (e *ScoreEngine) StatsFor(shortCode string) ([]MatchStat, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	item, err := e.lookup(shortCode)
	if err != nil {
		return nil, err
	}

	seen := make(map[match.Key]struct{}, len(e.matches))
	out := make([]MatchStat, 0, len(e.results))
	for _, defined := range e.matches {
		key := defined.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		result, ok := e.results[key]
		if !ok {
			continue
		}
		t, ok := item.sheet.TipFor(key)
		if !ok {
			continue
		}

		award := tip.Classify(t, result.HomeGoals, result.AwayGoals)
		out = append(out, MatchStat{
			Match:     result.Match,
			Points:    e.rules.Points(award),
			Award:     award,
			HomeGoals: result.HomeGoals,
			AwayGoals: result.AwayGoals,
			Tip:       t,
		})
	}
	return out, nil
}

func (e *ScoreEngine) User(shortCode string) (participant.User, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	item, err := e.lookup(shortCode)
	if err != nil {
		return participant.User{}, err
	}
	return item.user, nil
}

func (e *ScoreEngine) State(shortCode string) (participant.State, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	item, err := e.lookup(shortCode)
	if err != nil {
		return "", err
	}
	switch {
	case item.scored:
		return participant.StateScored, nil
	case item.sheet.Complete():
		return participant.StateTipsComplete, nil
	case item.sheet.PendingCount() > 0:
		return participant.StateTipsPending, nil
	default:
		return participant.StateRegistered, nil
	}
}

// ResultLabelWidth is the longest "{home}-{away}" identifier among the current
// results, used to align console output.
func (e *ScoreEngine) ResultLabelWidth() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.labelWidth
}

func (e *ScoreEngine) RefreshedAt() time.Time {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.refreshedAt
}

func (e *ScoreEngine) lookup(shortCode string) (*userEntry, error) {
	shortCode = strings.TrimSpace(shortCode)
	item, ok := e.users[shortCode]
	if !ok {
		return nil, fmt.Errorf("%w: user=%s", ErrNotFound, shortCode)
	}
	return item, nil
}
