// Package service contains the trend query workflow: validate, build, generate, normalize, reshape
package service

import (
	"context"
	"time"

	"trendscope/internal/core/chart"
	"trendscope/internal/core/query"
	"trendscope/internal/core/series"
	"trendscope/internal/core/session"
	"trendscope/internal/core/trend"
	perr "trendscope/internal/platform/errors"
	"trendscope/internal/platform/logger"
	"trendscope/internal/platform/metrics"
	ptime "trendscope/internal/platform/time"
	"trendscope/internal/services/api/trends/domain"

	"github.com/google/uuid"
)

// Service defines the service contract for trends
type Service interface{ domain.ServicePort }

// Options tunes the service
type Options struct {
	Bounds       session.Bounds
	DefaultRange trend.YearRange

	// JournalTimeout bounds the detached journal write after a query settles
	JournalTimeout time.Duration
}

// Svc implements the Service interface
type Svc struct {
	gen     domain.Generator
	journal domain.Journal
	clock   ptime.Clock
	opts    Options
	newID   func() string
}

// New creates a trends service. A nil journal becomes a no-op and a nil clock the wall clock
func New(gen domain.Generator, journal domain.Journal, clock ptime.Clock, opts Options) *Svc {
	if gen == nil {
		panic("trends.Service requires a non nil Generator")
	}
	if journal == nil {
		journal = NopJournal{}
	}
	if clock == nil {
		clock = ptime.System{}
	}
	if opts.Bounds == (session.Bounds{}) {
		opts.Bounds = session.DefaultBounds
	}
	if opts.DefaultRange == (trend.YearRange{}) {
		opts.DefaultRange = session.DefaultRange
	}
	if opts.JournalTimeout <= 0 {
		opts.JournalTimeout = 2 * time.Second
	}
	return &Svc{gen: gen, journal: journal, clock: clock, opts: opts, newID: uuid.NewString}
}

// plan is a validated query
type plan struct {
	tags []string
	mode trend.LogicMode
	rng  trend.YearRange
	axis chart.Axis
}

// validate applies the dashboard rules; every failure is a Validation error naming the field
func (s *Svc) validate(in domain.QueryInput) (plan, error) {
	mode, ok := trend.ParseMode(in.Mode)
	if !ok {
		return plan{}, perr.Validationf("mode", "unknown logic mode %q", in.Mode)
	}
	axis, err := parseAxis(in.Axis)
	if err != nil {
		return plan{}, err
	}
	tags := trend.NewTagSet(in.Tags...)
	if tags.Len() == 0 {
		return plan{}, perr.Validationf("tags", "add at least one tag")
	}

	p := plan{mode: mode, axis: axis}
	if mode.Merged() {
		sel := trend.NewTagSet(in.SelectedTags...)
		if sel.Len() == 0 {
			return plan{}, perr.Validationf("selected_tags", "select at least one tag to apply %s", mode)
		}
		for _, t := range sel.Slice() {
			if !tags.Contains(t) {
				return plan{}, perr.Validationf("selected_tags", "%q is not one of the tags", t)
			}
		}
		p.tags = sel.Slice()
	} else {
		p.tags = tags.Slice()
	}

	p.rng = trend.YearRange{Start: in.StartYear, End: in.EndYear}
	if p.rng == (trend.YearRange{}) {
		p.rng = s.opts.DefaultRange
	}
	if err := s.checkRange(p.rng); err != nil {
		return plan{}, err
	}
	return p, nil
}

func (s *Svc) checkRange(r trend.YearRange) error {
	if !r.Ordered() {
		return perr.Validationf("end_year", "start year %d must be before end year %d", r.Start, r.End)
	}
	b := s.opts.Bounds
	if !r.Within(b.MinYear, b.MaxYear) {
		return perr.Validationf("start_year", "years must be within %d-%d", b.MinYear, b.MaxYear)
	}
	return nil
}

func parseAxis(s string) (chart.Axis, error) {
	switch s {
	case "", "first":
		return chart.AxisFirst, nil
	case "union":
		return chart.AxisUnion, nil
	default:
		return chart.AxisFirst, perr.Validationf("axis", "unknown axis %q", s)
	}
}

// Query validates in, asks the trend source and shapes the reply for the dashboard
func (s *Svc) Query(ctx context.Context, in domain.QueryInput) (domain.QueryResult, error) {
	id := s.newID()
	ctx = logger.WithQuery(ctx, id)
	start := s.clock.Now()

	p, err := s.validate(in)
	if err != nil {
		mode, _ := trend.ParseMode(in.Mode)
		s.settle(ctx, id, start, plan{mode: mode, tags: in.Tags, rng: trend.YearRange{Start: in.StartYear, End: in.EndYear}}, 0, err)
		return domain.QueryResult{}, err
	}
	return s.run(ctx, id, start, p)
}

// Fetch runs an already validated query; the dashboard session uses it for its fetch effect
func (s *Svc) Fetch(ctx context.Context, tags []string, r trend.YearRange, mode trend.LogicMode) (domain.QueryResult, error) {
	id := s.newID()
	ctx = logger.WithQuery(ctx, id)
	start := s.clock.Now()
	p := plan{tags: tags, mode: mode, rng: r, axis: chart.AxisFirst}
	if len(tags) == 0 {
		err := perr.Validationf("tags", "add at least one tag")
		s.settle(ctx, id, start, p, 0, err)
		return domain.QueryResult{}, err
	}
	return s.run(ctx, id, start, p)
}

func (s *Svc) run(ctx context.Context, id string, start time.Time, p plan) (domain.QueryResult, error) {
	req := query.Build(p.tags, p.rng, p.mode)

	raw, err := s.gen.Generate(ctx, req.Prompt, req.Schema)
	if err != nil {
		if !perr.IsCode(err, perr.ErrorCodeDataFetchFailed) {
			err = perr.FetchFailed(err, "trend source call failed")
		}
		s.settle(ctx, id, start, p, 0, err)
		return domain.QueryResult{}, err
	}

	resp, err := series.Normalize(raw)
	if err != nil {
		s.settle(ctx, id, start, p, 0, err)
		return domain.QueryResult{}, err
	}

	var warnings []string
	for _, w := range series.Check(resp, req.ExpectedSeries) {
		warnings = append(warnings, w.String())
	}
	if len(warnings) > 0 {
		logger.C(ctx).Warn().Strs("warnings", warnings).Msg("reply deviates from the requested shape")
	}

	elapsed := s.settle(ctx, id, start, p, len(resp.Series), nil)
	return domain.QueryResult{
		QueryID:        id,
		Mode:           p.mode,
		StartYear:      p.rng.Start,
		EndYear:        p.rng.End,
		Tags:           p.tags,
		ExpectedSeries: req.ExpectedSeries,
		Series:         nonNil(resp.Series),
		Rows:           chart.RowsOn(p.axis, resp.Series),
		Insights:       chart.Insights(resp.Series),
		CSVFilename:    chart.ExportFilename(p.rng, p.mode),
		Warnings:       warnings,
		DurationMs:     elapsed.Milliseconds(),
	}, nil
}

// settle logs, records metrics and journals one outcome; returns the elapsed time
func (s *Svc) settle(ctx context.Context, id string, start time.Time, p plan, n int, err error) time.Duration {
	elapsed := ptime.Since(s.clock, start)
	outcome := outcomeOf(err)
	mode := string(p.mode)
	if mode == "" {
		mode = string(trend.ModeNone)
	}

	log := logger.C(ctx)
	ev := log.Info()
	if err != nil {
		ev = log.Warn().Err(err)
	}
	ev.Str("component", "trends").
		Str("mode", mode).
		Strs("tags", p.tags).
		Str("outcome", outcome).
		Int("series", n).
		Int64("duration_ms", elapsed.Milliseconds()).
		Msg("trend query settled")

	metrics.RecordQuery(p.mode.Slug(), outcome, n, elapsed)

	entry := domain.Outcome{
		QueryID:     id,
		Mode:        mode,
		Tags:        p.tags,
		StartYear:   p.rng.Start,
		EndYear:     p.rng.End,
		Outcome:     outcome,
		SeriesCount: n,
		DurationMs:  elapsed.Milliseconds(),
		CreatedAt:   s.clock.Now().UTC(),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	jctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.JournalTimeout)
	defer cancel()
	if jerr := s.journal.Record(jctx, entry); jerr != nil {
		metrics.RecordJournalError()
		log.Error().Err(jerr).Str("component", "journal").Msg("journal write failed")
	}
	return elapsed
}

func outcomeOf(err error) string {
	switch perr.CodeOf(err) {
	case perr.ErrorCodeValidation, perr.ErrorCodeInvalidArgument:
		return domain.OutcomeValidation
	case perr.ErrorCodeMalformedResponse:
		return domain.OutcomeMalformed
	}
	if err == nil {
		return domain.OutcomeOK
	}
	return domain.OutcomeFetchFailed
}

// Export renders series as CSV with the dashboard filename
func (s *Svc) Export(_ context.Context, in domain.ExportInput) (domain.Export, error) {
	mode, ok := trend.ParseMode(in.Mode)
	if !ok {
		return domain.Export{}, perr.Validationf("mode", "unknown logic mode %q", in.Mode)
	}
	axis, err := parseAxis(in.Axis)
	if err != nil {
		return domain.Export{}, err
	}
	r := trend.YearRange{Start: in.StartYear, End: in.EndYear}
	if !r.Ordered() {
		return domain.Export{}, perr.Validationf("end_year", "start year %d must be before end year %d", r.Start, r.End)
	}
	return domain.Export{
		Filename: chart.ExportFilename(r, mode),
		CSV:      chart.CSVOn(axis, in.Series),
	}, nil
}

// Prompt previews the request a query would send; no external call
func (s *Svc) Prompt(_ context.Context, in domain.QueryInput) (domain.PromptPreview, error) {
	p, err := s.validate(in)
	if err != nil {
		return domain.PromptPreview{}, err
	}
	req := query.Build(p.tags, p.rng, p.mode)
	return domain.PromptPreview{
		Prompt:         req.Prompt,
		Schema:         req.Schema,
		EffectiveTags:  req.Tags,
		ExpectedSeries: req.ExpectedSeries,
		Label:          req.Label,
	}, nil
}

// Outcomes lists the most recent journal entries
func (s *Svc) Outcomes(ctx context.Context, limit int) ([]domain.Outcome, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.journal.Recent(ctx, limit)
}

func nonNil(s []trend.SeriesData) []trend.SeriesData {
	if s == nil {
		return []trend.SeriesData{}
	}
	return s
}
