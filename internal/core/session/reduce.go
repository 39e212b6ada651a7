package session

import (
	"trendscope/internal/core/trend"
	perr "trendscope/internal/platform/errors"
)

// ErrStale marks a completion discarded by the request id guard
var ErrStale = perr.Conflictf("stale completion discarded")

// Action is one session transition
type Action interface {
	apply(State) (State, *Fetch, error)
}

// Fetch is the side effect a Submit asks the caller to run; its result comes back as Completed
type Fetch struct {
	RequestID uint64
	Tags      []string
	Mode      trend.LogicMode
	Range     trend.YearRange
}

// Reduce applies a to s. On error the returned state equals s
func Reduce(s State, a Action) (State, *Fetch, error) {
	next, fx, err := a.apply(s)
	if err != nil {
		return s, nil, err
	}
	return next, fx, nil
}

// AddTag normalizes Raw and appends it; blanks and duplicates are ignored
type AddTag struct{ Raw string }

func (a AddTag) apply(s State) (State, *Fetch, error) {
	s.Tags, _ = s.Tags.Add(a.Raw)
	return s, nil, nil
}

// RemoveTag drops Tag from both the tag set and the selection
type RemoveTag struct{ Tag string }

func (a RemoveTag) apply(s State) (State, *Fetch, error) {
	s.Tags, _ = s.Tags.Remove(a.Tag)
	s.Selected, _ = s.Selected.Remove(a.Tag)
	return s, nil, nil
}

// ToggleSelect flips Tag in the selection; no-op under NONE or for unknown tags
type ToggleSelect struct{ Tag string }

func (a ToggleSelect) apply(s State) (State, *Fetch, error) {
	if !s.Mode.Merged() || !s.Tags.Contains(a.Tag) {
		return s, nil, nil
	}
	s.Selected = s.Selected.Toggle(a.Tag)
	return s, nil, nil
}

// SetMode switches the logic mode; switching to NONE clears the selection
type SetMode struct{ Mode trend.LogicMode }

func (a SetMode) apply(s State) (State, *Fetch, error) {
	switch a.Mode {
	case trend.ModeNone:
		s.Selected = trend.TagSet{}
	case trend.ModeAnd, trend.ModeOr, trend.ModeNot:
	default:
		return s, nil, perr.Validationf("mode", "unknown logic mode %q", a.Mode)
	}
	s.Mode = a.Mode
	return s, nil, nil
}

// SetRange replaces the year range when ordered and within bounds
type SetRange struct{ Range trend.YearRange }

func (a SetRange) apply(s State) (State, *Fetch, error) {
	if !a.Range.Ordered() {
		return s, nil, perr.Validationf("end_year", "start year %d must be before end year %d", a.Range.Start, a.Range.End)
	}
	if !a.Range.Within(s.Bounds.MinYear, s.Bounds.MaxYear) {
		return s, nil, perr.Validationf("start_year", "years must be within %d-%d", s.Bounds.MinYear, s.Bounds.MaxYear)
	}
	s.Range = a.Range
	return s, nil, nil
}

// Submit starts a query. Rejected while another is outstanding, never queued
type Submit struct{}

func (Submit) apply(s State) (State, *Fetch, error) {
	if s.Loading {
		return s, nil, perr.Conflictf("a query is already in flight")
	}
	if err := CanSubmit(s); err != nil {
		return s, nil, err
	}
	s.Loading = true
	s.RequestID++
	s.Err = nil
	return s, &Fetch{RequestID: s.RequestID, Tags: s.Effective(), Mode: s.Mode, Range: s.Range}, nil
}

// CanSubmit reports the validation error a Submit would hit, ignoring the loading flag
func CanSubmit(s State) error {
	if s.Tags.Len() == 0 {
		return perr.Validationf("tags", "add at least one tag")
	}
	if s.Mode.Merged() && s.Selected.Len() == 0 {
		return perr.Validationf("selected_tags", "select at least one tag to apply %s", s.Mode)
	}
	return nil
}

// Completed delivers the outcome of the fetch stamped RequestID. A success replaces the
// result wholesale; a failure keeps the prior result and records Err
type Completed struct {
	RequestID uint64
	Outcome   *Outcome
	Err       error
}

func (a Completed) apply(s State) (State, *Fetch, error) {
	if !s.Loading || a.RequestID != s.RequestID {
		return s, nil, ErrStale
	}
	s.Loading = false
	if a.Err != nil {
		s.Err = a.Err
		return s, nil, nil
	}
	s.Result = a.Outcome
	s.Err = nil
	return s, nil, nil
}

// ClearError dismisses the error banner
type ClearError struct{}

func (ClearError) apply(s State) (State, *Fetch, error) {
	s.Err = nil
	return s, nil, nil
}

// Reset returns to a fresh session. RequestID keeps counting so an outstanding fetch is discarded
type Reset struct{ Initial trend.YearRange }

func (a Reset) apply(s State) (State, *Fetch, error) {
	next := New(s.Bounds, a.Initial)
	next.RequestID = s.RequestID
	return next, nil, nil
}
