// Package recommendation scores activities against a weather observation and
// selects a diversified, ordered subset.
package recommendation

import (
	"sort"
	"strings"
	"time"

	"github.com/shuv1824/weatherwise/internal/types"
)

const (
	baselineScore = 50
	minScore      = 0
	maxScore      = 100

	// DefaultMaxResults caps the number of returned recommendations
	DefaultMaxResults = 15
	// DefaultPerCategory is how many entries each category gets before backfill
	DefaultPerCategory = 2

	fallbackReason = "Weather is suitable for this activity"
	reasonSep      = ". "
)

// Engine is immutable after construction and safe for concurrent use.
type Engine struct {
	maxResults  int
	perCategory int
	now         func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithMaxResults sets the result cap. Values below 1 are ignored.
func WithMaxResults(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxResults = n
		}
	}
}

// WithPerCategory sets the per-category quota of the first diversification pass.
func WithPerCategory(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.perCategory = n
		}
	}
}

// WithClock overrides the clock used by the time-of-day rule.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine returns an Engine with the default caps and the wall clock
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		maxResults:  DefaultMaxResults,
		perCategory: DefaultPerCategory,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxResults returns the configured result cap
func (e *Engine) MaxResults() int {
	return e.maxResults
}

// Score rates every activity for the given weather and returns the diversified
// top selection ordered by descending score. A nil weather or an empty activity
// list yields an empty slice. Nil activities are skipped.
func (e *Engine) Score(weather *types.Weather, activities []*types.Activity) []types.Recommendation {
	if weather == nil || len(activities) == 0 {
		return []types.Recommendation{}
	}

	now := e.now()

	scored := make([]types.Recommendation, 0, len(activities))
	for _, activity := range activities {
		if activity == nil {
			continue
		}
		scored = append(scored, e.scoreOne(weather, activity, now))
	}

	sortByScore(scored)
	selected := e.diversify(scored)
	sortByScore(selected)

	return selected
}

func (e *Engine) scoreOne(weather *types.Weather, activity *types.Activity, now time.Time) types.Recommendation {
	score := baselineScore
	var reasons []string

	for _, r := range rules {
		score, reasons = r(weather, activity, now, score, reasons)
	}

	return types.Recommendation{
		Activity: activity,
		Score:    clamp(score),
		Reason:   buildReason(reasons),
	}
}

func clamp(score int) int {
	if score > maxScore {
		return maxScore
	}
	if score < minScore {
		return minScore
	}
	return score
}

func buildReason(reasons []string) string {
	if len(reasons) == 0 {
		return fallbackReason
	}
	return strings.Join(reasons, reasonSep)
}

// sortByScore orders descending; ties keep their relative order
func sortByScore(recs []types.Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
}
