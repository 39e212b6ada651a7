// Package service runs the process-wide dashboard session: one writer, one outstanding fetch
package service

import (
	"context"
	"sync"
	"time"

	"trendscope/internal/core/chart"
	"trendscope/internal/core/session"
	"trendscope/internal/core/trend"
	perr "trendscope/internal/platform/errors"
	"trendscope/internal/platform/logger"
	"trendscope/internal/platform/metrics"
	"trendscope/internal/services/api/session/domain"
	trendsdom "trendscope/internal/services/api/trends/domain"
)

// Service defines the service contract for the session
type Service interface{ domain.ServicePort }

// Options tunes the runner
type Options struct {
	Bounds  session.Bounds
	Initial trend.YearRange

	// FetchTimeout bounds one fetch effect
	FetchTimeout time.Duration
}

// Runner applies actions under a single-writer lock and executes fetch effects asynchronously
type Runner struct {
	fetcher trendsdom.Fetcher
	opts    Options
	base    context.Context

	mu      sync.Mutex
	st      session.State
	done    chan struct{}
	running int // fetch goroutines not yet returned, stale ones included
	closed  bool
	wg      sync.WaitGroup
}

// New creates a runner. Fetches derive from base, so canceling base aborts them
func New(base context.Context, fetcher trendsdom.Fetcher, opts Options) *Runner {
	if fetcher == nil {
		panic("session.Runner requires a non nil Fetcher")
	}
	if base == nil {
		base = context.Background()
	}
	if opts.Bounds == (session.Bounds{}) {
		opts.Bounds = session.DefaultBounds
	}
	if opts.Initial == (trend.YearRange{}) {
		opts.Initial = session.DefaultRange
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 90 * time.Second
	}
	done := make(chan struct{})
	close(done)
	return &Runner{
		fetcher: fetcher,
		opts:    opts,
		base:    base,
		st:      session.New(opts.Bounds, opts.Initial),
		done:    done,
	}
}

// View returns the current state
func (r *Runner) View() domain.View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return toView(r.st)
}

// Dispatch applies a non-fetching action. Submit must go through Submit
func (r *Runner) Dispatch(a session.Action) (domain.View, error) {
	switch act := a.(type) {
	case session.Submit:
		return r.Submit(context.Background(), false)
	case session.Reset:
		if act.Initial == (trend.YearRange{}) {
			a = session.Reset{Initial: r.opts.Initial}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	next, _, err := session.Reduce(r.st, a)
	if err != nil {
		return toView(r.st), err
	}
	r.st = next
	return toView(r.st), nil
}

// Submit starts a fetch. With wait it blocks until the fetch settles or ctx ends
func (r *Runner) Submit(ctx context.Context, wait bool) (domain.View, error) {
	r.mu.Lock()
	if r.closed {
		v := toView(r.st)
		r.mu.Unlock()
		return v, perr.Unavailablef("session is shutting down")
	}
	next, fx, err := session.Reduce(r.st, session.Submit{})
	if err != nil {
		v := toView(r.st)
		r.mu.Unlock()
		return v, err
	}
	r.st = next
	r.done = make(chan struct{})
	done := r.done
	v := toView(r.st)
	r.running++
	metrics.SetInFlight(true)
	r.wg.Add(1)
	r.mu.Unlock()

	logger.C(ctx).Info().
		Str("component", "session").
		Uint64("request_id", fx.RequestID).
		Str("mode", string(fx.Mode)).
		Strs("tags", fx.Tags).
		Msg("fetch started")

	go r.run(logger.RequestID(ctx), fx, done)

	if !wait {
		return v, nil
	}
	return r.await(ctx, done)
}

// Wait blocks until no fetch is outstanding or ctx ends
func (r *Runner) Wait(ctx context.Context) (domain.View, error) {
	r.mu.Lock()
	if !r.st.Loading {
		v := toView(r.st)
		r.mu.Unlock()
		return v, nil
	}
	done := r.done
	r.mu.Unlock()
	return r.await(ctx, done)
}

func (r *Runner) await(ctx context.Context, done <-chan struct{}) (domain.View, error) {
	select {
	case <-done:
		return r.View(), nil
	case <-ctx.Done():
		return r.View(), perr.Wrap(ctx.Err(), perr.ErrorCodeUnavailable, "stopped waiting for the fetch")
	}
}

// run executes one fetch effect and feeds the completion back through the reducer
func (r *Runner) run(reqID string, fx *session.Fetch, done chan struct{}) {
	defer r.wg.Done()
	defer close(done)

	ctx, cancel := context.WithTimeout(logger.WithRequest(r.base, reqID), r.opts.FetchTimeout)
	defer cancel()

	res, err := r.fetcher.Fetch(ctx, fx.Tags, fx.Range, fx.Mode)
	c := session.Completed{RequestID: fx.RequestID, Err: err}
	if err == nil {
		c.Outcome = &session.Outcome{
			QueryID:  res.QueryID,
			Range:    fx.Range,
			Mode:     fx.Mode,
			Response: trend.TrendResponse{Series: res.Series},
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.running--
	metrics.SetInFlight(r.running > 0)
	next, _, rerr := session.Reduce(r.st, c)
	if rerr != nil {
		metrics.RecordStale()
		logger.C(ctx).Info().Str("component", "session").Uint64("request_id", fx.RequestID).
			Uint64("current", r.st.RequestID).Msg("stale completion discarded")
		return
	}
	r.st = next
}

// Export renders the current result as CSV named after the current filters
func (r *Runner) Export() (string, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.st.Result == nil {
		return "", "", perr.NotFoundf("no result to export yet")
	}
	return chart.ExportFilename(r.st.Range, r.st.Mode), chart.CSV(r.st.Result.Response.Series), nil
}

// Close refuses further submits and waits for outstanding fetches; cancel base first to abort them
func (r *Runner) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.wg.Wait()
}

func toView(s session.State) domain.View {
	v := domain.View{
		Tags:         s.Tags.Slice(),
		SelectedTags: s.Selected.Slice(),
		Mode:         s.Mode,
		StartYear:    s.Range.Start,
		EndYear:      s.Range.End,
		MinYear:      s.Bounds.MinYear,
		MaxYear:      s.Bounds.MaxYear,
		Loading:      s.Loading,
		RequestID:    s.RequestID,
	}
	if err := session.CanSubmit(s); err != nil {
		v.SubmitHint = perr.WireFrom(err).Message
	} else {
		v.CanSubmit = !s.Loading
	}
	if s.Result != nil {
		series := s.Result.Response.Series
		if series == nil {
			series = []trend.SeriesData{}
		}
		v.Result = &domain.ResultView{
			QueryID:   s.Result.QueryID,
			Mode:      s.Result.Mode,
			StartYear: s.Result.Range.Start,
			EndYear:   s.Result.Range.End,
			Series:    series,
			Rows:      chart.Rows(series),
			Insights:  chart.Insights(series),
		}
	}
	if s.Err != nil {
		w := perr.WireFrom(s.Err)
		v.Error = &domain.ErrorView{Code: int(w.Code), Kind: w.Kind, Message: w.Message}
	}
	return v
}
