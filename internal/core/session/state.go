// Package session models the dashboard's interactive state as an immutable value advanced by
// Reduce. Each user action and each query completion is exactly one transition
package session

import (
	"trendscope/internal/core/trend"
)

// Bounds constrains the selectable year range
type Bounds struct {
	MinYear int
	MaxYear int
}

// DefaultBounds matches the dashboard year pickers
var DefaultBounds = Bounds{MinYear: 2005, MaxYear: 2025}

// DefaultRange is the range a fresh session starts with
var DefaultRange = trend.YearRange{Start: 2020, End: 2024}

// Outcome is the last query's result as shown to the user
type Outcome struct {
	QueryID  string
	Range    trend.YearRange
	Mode     trend.LogicMode
	Response trend.TrendResponse
}

// State is the whole session. Values are never mutated in place
type State struct {
	Tags     trend.TagSet
	Selected trend.TagSet
	Mode     trend.LogicMode
	Range    trend.YearRange
	Bounds   Bounds

	Loading bool
	// RequestID increases on every accepted submit; completions carrying another id are stale
	RequestID uint64

	Result *Outcome
	Err    error
}

// New returns a fresh session for bounds with the default range clamped into them
func New(b Bounds, initial trend.YearRange) State {
	if !initial.Ordered() || !initial.Within(b.MinYear, b.MaxYear) {
		initial = trend.YearRange{Start: b.MinYear, End: b.MaxYear}
	}
	return State{Mode: trend.ModeNone, Range: initial, Bounds: b}
}

// Effective returns the tags a submit would query: all tags for NONE, the selection otherwise
func (s State) Effective() []string {
	if s.Mode.Merged() {
		return s.Selected.Slice()
	}
	return s.Tags.Slice()
}
