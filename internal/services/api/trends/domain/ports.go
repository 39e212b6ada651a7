package domain

import (
	"context"

	"trendscope/internal/core/query"
	"trendscope/internal/core/trend"
)

// Generator is the external trend source. Every failure must surface as DataFetchFailed
type Generator interface {
	Generate(ctx context.Context, prompt string, schema *query.Schema) (string, error)
}

// Journal records query outcomes for diagnosis
type Journal interface {
	Record(ctx context.Context, o Outcome) error
	Recent(ctx context.Context, limit int) ([]Outcome, error)
}

// Fetcher is the narrow port the dashboard session runs its fetch effects through
type Fetcher interface {
	Fetch(ctx context.Context, tags []string, r trend.YearRange, mode trend.LogicMode) (QueryResult, error)
}

// ServicePort defines the service contract for trends
type ServicePort interface {
	Fetcher
	Query(ctx context.Context, in QueryInput) (QueryResult, error)
	Export(ctx context.Context, in ExportInput) (Export, error)
	Prompt(ctx context.Context, in QueryInput) (PromptPreview, error)
	Outcomes(ctx context.Context, limit int) ([]Outcome, error)
}
