package query

import (
	"strings"
	"testing"

	"trendscope/internal/core/trend"
)

var span = trend.YearRange{Start: 2020, End: 2024}

func TestBuild_NoneExpectsOneSeriesPerTag(t *testing.T) {
	t.Parallel()
	for _, tags := range [][]string{{"cats"}, {"cats", "dogs"}, {"a", "b", "c", "d", "e"}} {
		req := Build(tags, span, trend.ModeNone)
		if req.ExpectedSeries != len(tags) {
			t.Fatalf("tags=%v ExpectedSeries=%d", tags, req.ExpectedSeries)
		}
		if req.Label != "" {
			t.Fatalf("NONE should not request a merged label, got %q", req.Label)
		}
		if !strings.Contains(req.Prompt, "["+strings.Join(tags, ", ")+"]") {
			t.Fatalf("prompt should list tags in order:\n%s", req.Prompt)
		}
	}
}

func TestBuild_LogicModesExpectOneSeries(t *testing.T) {
	t.Parallel()
	cases := []struct {
		mode   trend.LogicMode
		label  string
		phrase string
	}{
		{trend.ModeAnd, "Merged: cats & dogs", "[cats AND dogs]"},
		{trend.ModeOr, "Merged: cats | dogs", "[cats OR dogs]"},
		{trend.ModeNot, "Excluding: cats, dogs", "do NOT have any of these tags: [cats, dogs]"},
	}
	for _, c := range cases {
		req := Build([]string{"cats", "dogs"}, span, c.mode)
		if req.ExpectedSeries != 1 {
			t.Fatalf("%s ExpectedSeries=%d, want 1", c.mode, req.ExpectedSeries)
		}
		if req.Label != c.label {
			t.Fatalf("%s label=%q, want %q", c.mode, req.Label, c.label)
		}
		if !strings.Contains(req.Prompt, c.phrase) || !strings.Contains(req.Prompt, "exactly one series") {
			t.Fatalf("%s prompt missing phrase %q:\n%s", c.mode, c.phrase, req.Prompt)
		}
	}
}

func TestBuild_EmptyUnderLogicModeIsSoft(t *testing.T) {
	t.Parallel()
	req := Build(nil, span, trend.ModeAnd)
	if req.ExpectedSeries != 0 || len(req.Tags) != 0 || req.Schema == nil {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestBuild_EmbedsRangeAndSchema(t *testing.T) {
	t.Parallel()
	req := Build([]string{"cats"}, trend.YearRange{Start: 2010, End: 2012}, trend.ModeNone)
	if !strings.Contains(req.Prompt, "January 2010 to December 2012") {
		t.Fatalf("prompt missing range:\n%s", req.Prompt)
	}
	s := req.Schema
	if s.Type != TypeObject || len(s.Required) != 1 || s.Required[0] != FieldSeries {
		t.Fatalf("root schema mismatch: %+v", s)
	}
	item := s.Properties[FieldSeries].Items
	if item == nil || len(item.Required) != 5 {
		t.Fatalf("series item schema mismatch: %+v", item)
	}
	point := item.Properties[FieldData].Items
	if point == nil || point.Properties[FieldCount].Type != TypeInteger {
		t.Fatalf("data point schema mismatch: %+v", point)
	}
}

func TestBuild_CopiesTags(t *testing.T) {
	t.Parallel()
	tags := []string{"cats"}
	req := Build(tags, span, trend.ModeNone)
	tags[0] = "mutated"
	if req.Tags[0] != "cats" {
		t.Fatalf("Build must not alias the caller's slice")
	}
	if SeriesSchema() == SeriesSchema() {
		t.Fatalf("SeriesSchema should return fresh copies")
	}
}
