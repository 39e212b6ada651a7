// Package domain holds DTOs and ports for the dashboard session
package domain

import (
	"trendscope/internal/core/chart"
	"trendscope/internal/core/trend"
)

// TagInput names one tag
type TagInput struct {
	Tag string `json:"tag" validate:"required,notblank,max=64" example:"cats"`
}

// ModeInput switches the logic mode
type ModeInput struct {
	Mode string `json:"mode" validate:"required,oneof=none and or not NONE AND OR NOT" example:"AND"`
}

// RangeInput replaces the year range
type RangeInput struct {
	StartYear int `json:"start_year" validate:"required" example:"2020"`
	EndYear   int `json:"end_year" validate:"required" example:"2024"`
}

// ErrorView is the error banner
type ErrorView struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ResultView is the last successful query as the chart renders it
type ResultView struct {
	QueryID   string             `json:"query_id"`
	Mode      trend.LogicMode    `json:"mode"`
	StartYear int                `json:"start_year"`
	EndYear   int                `json:"end_year"`
	Series    []trend.SeriesData `json:"series"`
	Rows      []chart.Row        `json:"rows"`
	Insights  []chart.Insight    `json:"insights"`
}

// View is the session as the dashboard renders it
type View struct {
	Tags         []string        `json:"tags"`
	SelectedTags []string        `json:"selected_tags"`
	Mode         trend.LogicMode `json:"mode"`
	StartYear    int             `json:"start_year"`
	EndYear      int             `json:"end_year"`
	MinYear      int             `json:"min_year"`
	MaxYear      int             `json:"max_year"`

	Loading   bool   `json:"loading"`
	RequestID uint64 `json:"request_id"`

	// CanSubmit mirrors the submit button; SubmitHint says why it is disabled
	CanSubmit  bool   `json:"can_submit"`
	SubmitHint string `json:"submit_hint,omitempty"`

	Result *ResultView `json:"result,omitempty"`
	Error  *ErrorView  `json:"error,omitempty"`
}
