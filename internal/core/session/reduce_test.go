package session

import (
	stderrs "errors"
	"reflect"
	"testing"

	"trendscope/internal/core/trend"
	perr "trendscope/internal/platform/errors"
)

func fresh() State { return New(DefaultBounds, DefaultRange) }

func must(t *testing.T, s State, a Action) State {
	t.Helper()
	next, _, err := Reduce(s, a)
	if err != nil {
		t.Fatalf("Reduce(%T): %v", a, err)
	}
	return next
}

func TestNew_ClampsInvalidRange(t *testing.T) {
	t.Parallel()
	s := New(DefaultBounds, trend.YearRange{Start: 2024, End: 2020})
	if s.Range != (trend.YearRange{Start: 2005, End: 2025}) || s.Mode != trend.ModeNone {
		t.Fatalf("unexpected fresh state: %+v", s)
	}
	if fresh().Range != DefaultRange {
		t.Fatalf("default range not kept")
	}
}

func TestTags_AddRemove(t *testing.T) {
	t.Parallel()
	s := fresh()
	s = must(t, s, AddTag{Raw: " Cats "})
	s = must(t, s, AddTag{Raw: "cats"})
	s = must(t, s, AddTag{Raw: "dogs"})
	if got := s.Tags.Slice(); !reflect.DeepEqual(got, []string{"cats", "dogs"}) {
		t.Fatalf("tags = %v", got)
	}

	s = must(t, s, SetMode{Mode: trend.ModeAnd})
	s = must(t, s, ToggleSelect{Tag: "dogs"})
	s = must(t, s, RemoveTag{Tag: "dogs"})
	if s.Tags.Contains("dogs") || s.Selected.Contains("dogs") {
		t.Fatalf("RemoveTag should clear selection too: %+v", s)
	}
}

func TestToggleSelect_Rules(t *testing.T) {
	t.Parallel()
	s := must(t, fresh(), AddTag{Raw: "cats"})

	s = must(t, s, ToggleSelect{Tag: "cats"})
	if s.Selected.Len() != 0 {
		t.Fatalf("toggle must be a no-op under NONE")
	}

	s = must(t, s, SetMode{Mode: trend.ModeOr})
	s = must(t, s, ToggleSelect{Tag: "unknown"})
	if s.Selected.Len() != 0 {
		t.Fatalf("unknown tags cannot be selected")
	}
	s = must(t, s, ToggleSelect{Tag: "cats"})
	if !s.Selected.Contains("cats") {
		t.Fatalf("cats should be selected")
	}
	s = must(t, s, ToggleSelect{Tag: "cats"})
	if s.Selected.Len() != 0 {
		t.Fatalf("second toggle should deselect")
	}
}

func TestSetMode_NoneClearsSelection(t *testing.T) {
	t.Parallel()
	s := must(t, fresh(), AddTag{Raw: "cats"})
	s = must(t, s, SetMode{Mode: trend.ModeNot})
	s = must(t, s, ToggleSelect{Tag: "cats"})
	s = must(t, s, SetMode{Mode: trend.ModeAnd})
	if s.Selected.Len() != 1 {
		t.Fatalf("switching between logic modes keeps the selection")
	}
	s = must(t, s, SetMode{Mode: trend.ModeNone})
	if s.Selected.Len() != 0 {
		t.Fatalf("NONE should clear the selection")
	}
	if _, _, err := Reduce(s, SetMode{Mode: "XOR"}); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("unknown mode should fail validation, got %v", err)
	}
}

func TestSetRange(t *testing.T) {
	t.Parallel()
	s := fresh()
	cases := []struct {
		r  trend.YearRange
		ok bool
	}{
		{trend.YearRange{Start: 2010, End: 2015}, true},
		{trend.YearRange{Start: 2015, End: 2015}, false},
		{trend.YearRange{Start: 2016, End: 2015}, false},
		{trend.YearRange{Start: 2004, End: 2015}, false},
		{trend.YearRange{Start: 2010, End: 2026}, false},
	}
	for _, c := range cases {
		next, _, err := Reduce(s, SetRange{Range: c.r})
		if c.ok && (err != nil || next.Range != c.r) {
			t.Fatalf("SetRange(%+v) err=%v range=%+v", c.r, err, next.Range)
		}
		if !c.ok && (!perr.IsCode(err, perr.ErrorCodeValidation) || next.Range != s.Range) {
			t.Fatalf("SetRange(%+v) should be rejected, err=%v", c.r, err)
		}
	}
}

func TestSubmit_Validation(t *testing.T) {
	t.Parallel()
	if _, fx, err := Reduce(fresh(), Submit{}); !perr.IsCode(err, perr.ErrorCodeValidation) || fx != nil {
		t.Fatalf("submit without tags should fail validation, got %v", err)
	}

	s := must(t, fresh(), AddTag{Raw: "cats"})
	s = must(t, s, SetMode{Mode: trend.ModeAnd})
	next, fx, err := Reduce(s, Submit{})
	if !perr.IsCode(err, perr.ErrorCodeValidation) || fx != nil || next.Loading {
		t.Fatalf("AND with empty selection should fail before any fetch, got %v", err)
	}
	if e, _ := perr.As(err); e.Field() != "selected_tags" {
		t.Fatalf("field = %q", e.Field())
	}
}

func TestSubmit_EffectAndBusy(t *testing.T) {
	t.Parallel()
	s := must(t, fresh(), AddTag{Raw: "cats"})
	s = must(t, s, AddTag{Raw: "dogs"})
	s = must(t, s, SetMode{Mode: trend.ModeOr})
	s = must(t, s, ToggleSelect{Tag: "dogs"})
	s.Err = stderrs.New("old banner")

	next, fx, err := Reduce(s, Submit{})
	if err != nil || fx == nil {
		t.Fatalf("submit: fx=%v err=%v", fx, err)
	}
	if !next.Loading || next.RequestID != 1 || next.Err != nil {
		t.Fatalf("unexpected state after submit: %+v", next)
	}
	if !reflect.DeepEqual(fx.Tags, []string{"dogs"}) || fx.Mode != trend.ModeOr || fx.RequestID != 1 {
		t.Fatalf("unexpected fetch: %+v", fx)
	}

	again, fx2, err := Reduce(next, Submit{})
	if !perr.IsCode(err, perr.ErrorCodeConflict) || fx2 != nil || again.RequestID != 1 {
		t.Fatalf("second submit while loading must be rejected, got %v", err)
	}
}

func TestCompleted_SuccessReplacesResult(t *testing.T) {
	t.Parallel()
	s := must(t, fresh(), AddTag{Raw: "cats"})
	s.Result = &Outcome{QueryID: "old"}
	s, fx, _ := Reduce(s, Submit{})

	out := &Outcome{QueryID: "new", Response: trend.TrendResponse{Series: []trend.SeriesData{{Tag: "cats"}}}}
	s = must(t, s, Completed{RequestID: fx.RequestID, Outcome: out})
	if s.Loading || s.Result != out || s.Err != nil {
		t.Fatalf("unexpected state: %+v", s)
	}
}

func TestCompleted_FailureKeepsPriorResult(t *testing.T) {
	t.Parallel()
	prior := &Outcome{QueryID: "prior"}
	s := must(t, fresh(), AddTag{Raw: "cats"})
	s.Result = prior
	s, fx, _ := Reduce(s, Submit{})

	fail := perr.FetchFailed(stderrs.New("timeout"), "trend source unavailable")
	s = must(t, s, Completed{RequestID: fx.RequestID, Err: fail})
	if s.Loading || s.Result != prior || !perr.IsCode(s.Err, perr.ErrorCodeDataFetchFailed) {
		t.Fatalf("unexpected state: %+v", s)
	}

	s = must(t, s, ClearError{})
	if s.Err != nil {
		t.Fatalf("ClearError should drop the banner")
	}
}

func TestCompleted_StaleDiscarded(t *testing.T) {
	t.Parallel()
	s := must(t, fresh(), AddTag{Raw: "cats"})

	if _, _, err := Reduce(s, Completed{RequestID: 0}); !stderrs.Is(err, ErrStale) {
		t.Fatalf("completion while idle should be stale, got %v", err)
	}

	s, fx1, _ := Reduce(s, Submit{})
	s = must(t, s, Reset{Initial: DefaultRange})
	s = must(t, s, AddTag{Raw: "dogs"})
	s, fx2, _ := Reduce(s, Submit{})
	if fx2.RequestID <= fx1.RequestID {
		t.Fatalf("request ids must increase: %d then %d", fx1.RequestID, fx2.RequestID)
	}

	next, _, err := Reduce(s, Completed{RequestID: fx1.RequestID, Outcome: &Outcome{QueryID: "stale"}})
	if !stderrs.Is(err, ErrStale) || !next.Loading || next.Result != nil {
		t.Fatalf("stale completion must be discarded, got %v %+v", err, next)
	}

	s = must(t, s, Completed{RequestID: fx2.RequestID, Outcome: &Outcome{QueryID: "fresh"}})
	if s.Result.QueryID != "fresh" {
		t.Fatalf("current completion should apply")
	}
}

func TestReset(t *testing.T) {
	t.Parallel()
	s := must(t, fresh(), AddTag{Raw: "cats"})
	s = must(t, s, SetMode{Mode: trend.ModeAnd})
	s = must(t, s, SetRange{Range: trend.YearRange{Start: 2006, End: 2008}})
	s.RequestID = 7
	s = must(t, s, Reset{Initial: DefaultRange})
	if s.Tags.Len() != 0 || s.Mode != trend.ModeNone || s.Range != DefaultRange || s.RequestID != 7 {
		t.Fatalf("unexpected reset state: %+v", s)
	}
}

func TestReduce_ErrorKeepsState(t *testing.T) {
	t.Parallel()
	s := must(t, fresh(), AddTag{Raw: "cats"})
	next, _, err := Reduce(s, SetRange{Range: trend.YearRange{Start: 1, End: 0}})
	if err == nil || !reflect.DeepEqual(next, s) {
		t.Fatalf("failed transition must return the input state")
	}
}
