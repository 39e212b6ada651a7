// Package domain holds DTOs and ports for trend queries
package domain

import (
	"time"

	"trendscope/internal/core/chart"
	"trendscope/internal/core/query"
	"trendscope/internal/core/trend"
)

// QueryInput is one dashboard query
type QueryInput struct {
	Tags         []string `json:"tags" validate:"required,min=1,max=20,dive,notblank,max=64" example:"cats,dogs"`
	SelectedTags []string `json:"selected_tags,omitempty" validate:"omitempty,max=20,dive,notblank,max=64" example:"cats"`
	Mode         string   `json:"mode,omitempty" validate:"omitempty,oneof=none and or not NONE AND OR NOT" example:"NONE"`
	StartYear    int      `json:"start_year,omitempty" validate:"omitempty,min=1900,max=2100" example:"2020"`
	EndYear      int      `json:"end_year,omitempty" validate:"omitempty,min=1900,max=2100" example:"2024"`
	Axis         string   `json:"axis,omitempty" validate:"omitempty,oneof=first union" example:"first"`
}

// QueryResult is the settled answer to a query, ready for the chart and summary cards
type QueryResult struct {
	QueryID        string             `json:"query_id"`
	Mode           trend.LogicMode    `json:"mode"`
	StartYear      int                `json:"start_year"`
	EndYear        int                `json:"end_year"`
	Tags           []string           `json:"tags"`
	ExpectedSeries int                `json:"expected_series"`
	Series         []trend.SeriesData `json:"series"`
	Rows           []chart.Row        `json:"rows"`
	Insights       []chart.Insight    `json:"insights"`
	CSVFilename    string             `json:"csv_filename"`
	Warnings       []string           `json:"warnings,omitempty"`
	DurationMs     int64              `json:"duration_ms"`
}

// ExportInput carries series already on screen back for CSV export
type ExportInput struct {
	Series    []trend.SeriesData `json:"series" validate:"dive"`
	StartYear int                `json:"start_year" validate:"required" example:"2020"`
	EndYear   int                `json:"end_year" validate:"required,gtfield=StartYear" example:"2024"`
	Mode      string             `json:"mode,omitempty" validate:"omitempty,oneof=none and or not NONE AND OR NOT" example:"AND"`
	Axis      string             `json:"axis,omitempty" validate:"omitempty,oneof=first union"`
}

// Export is a rendered CSV artifact
type Export struct {
	Filename string
	CSV      string
}

// PromptPreview is the request a query would send, without sending it
type PromptPreview struct {
	Prompt         string        `json:"prompt"`
	Schema         *query.Schema `json:"schema"`
	EffectiveTags  []string      `json:"effective_tags"`
	ExpectedSeries int           `json:"expected_series"`
	Label          string        `json:"label,omitempty"`
}

// Outcome labels for metrics and the journal
const (
	OutcomeOK          = "ok"
	OutcomeValidation  = "validation"
	OutcomeFetchFailed = "fetch_failed"
	OutcomeMalformed   = "malformed"
)

// Outcome is one journal entry; never carries trend data
type Outcome struct {
	QueryID     string    `json:"query_id"`
	Mode        string    `json:"mode"`
	Tags        []string  `json:"tags"`
	StartYear   int       `json:"start_year"`
	EndYear     int       `json:"end_year"`
	Outcome     string    `json:"outcome"`
	SeriesCount int       `json:"series_count"`
	DurationMs  int64     `json:"duration_ms"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
