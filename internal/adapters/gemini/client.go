package gemini

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"trendscope/internal/core/query"
	"trendscope/internal/platform/config"
	perr "trendscope/internal/platform/errors"
	"trendscope/internal/platform/logger"
	"trendscope/internal/platform/metrics"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

const (
	defaultModel   = "gemini-3-flash-preview"
	defaultTimeout = 60 * time.Second
	defaultRPS     = 1.0
	defaultBurst   = 2
)

// Options configures the Client
type Options struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration

	// RPS and Burst shape the outbound token bucket; RPS <= 0 disables limiting
	RPS   float64
	Burst int
}

// OptionsFrom reads GEMINI_* keys from c
func OptionsFrom(c config.Conf) Options {
	g := c.Prefix("GEMINI_")
	return Options{
		APIKey:  g.MayString("API_KEY", ""),
		Model:   g.MayString("MODEL", defaultModel),
		BaseURL: g.MayString("BASE_URL", ""),
		Timeout: g.MayDuration("TIMEOUT", defaultTimeout),
		RPS:     g.MayFloat64("RPS", defaultRPS),
		Burst:   g.MayIntIn("BURST", defaultBurst, 1, 100),
	}
}

// models is the slice of the SDK the client calls; *genai.Models satisfies it
type models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client generates trend replies through Gemini
type Client struct {
	api     models
	opts    Options
	limiter *rate.Limiter
	log     logger.Logger
	now     func() time.Time
}

// ErrNotConfigured is returned by Generate when no API key was provided
var ErrNotConfigured = errors.New("gemini api key not configured")

// New builds a Client. A missing key yields a client that reports not ready and fails every call
func New(ctx context.Context, o Options) (*Client, error) {
	c := newClient(nil, o)
	if strings.TrimSpace(c.opts.APIKey) == "" {
		c.log.Warn().Msg("no api key; trend queries will fail until one is configured")
		metrics.SetSourceConfigured(false)
		return c, nil
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      c.opts.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: c.opts.BaseURL},
	})
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "gemini client")
	}
	c.api = gc.Models
	metrics.SetSourceConfigured(true)
	c.log.Info().Str("model", c.opts.Model).Float64("rps", c.opts.RPS).Int("burst", c.opts.Burst).Msg("gemini ready")
	return c, nil
}

func newClient(api models, o Options) *Client {
	if o.Model == "" {
		o.Model = defaultModel
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.Burst <= 0 {
		o.Burst = defaultBurst
	}
	lim := rate.NewLimiter(rate.Inf, 0)
	if o.RPS > 0 {
		lim = rate.NewLimiter(rate.Limit(o.RPS), o.Burst)
	}
	return &Client{
		api:     api,
		opts:    o,
		limiter: lim,
		log:     *logger.Named("gemini"),
		now:     time.Now,
	}
}

// Ready reports whether the client can reach the API at all
func (c *Client) Ready() bool { return c != nil && c.api != nil }

// Model returns the configured model name
func (c *Client) Model() string { return c.opts.Model }

// Generate sends prompt with schema as the response contract and returns the raw reply text
func (c *Client) Generate(ctx context.Context, prompt string, schema *query.Schema) (string, error) {
	if !c.Ready() {
		return "", perr.FetchFailed(ErrNotConfigured, "trend source unavailable")
	}

	waitStart := c.now()
	if err := c.limiter.Wait(ctx); err != nil {
		return "", perr.FetchFailed(err, "trend source rate limit wait")
	}
	metrics.RecordRateWait(c.now().Sub(waitStart))

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   toSchema(schema),
	}

	start := c.now()
	resp, err := c.api.GenerateContent(ctx, c.opts.Model, genai.Text(prompt), cfg)
	elapsed := c.now().Sub(start)
	log := logger.C(ctx).With().Str("component", "gemini").Str("model", c.opts.Model).Logger()

	if err != nil {
		status := statusOf(ctx, err)
		metrics.RecordSourceCall(c.opts.Model, status, elapsed)
		log.Warn().Err(err).Str("status", status).Dur("elapsed", elapsed).Msg("generate failed")
		return "", perr.FetchFailed(err, "trend source call failed (%s)", status)
	}

	text := ""
	if resp != nil {
		text = resp.Text()
	}
	if strings.TrimSpace(text) == "" {
		metrics.RecordSourceCall(c.opts.Model, "empty", elapsed)
		log.Warn().Dur("elapsed", elapsed).Msg("generate returned no text")
		return "", perr.FetchFailed(errors.New("empty reply"), "trend source returned no content")
	}

	metrics.RecordSourceCall(c.opts.Model, "ok", elapsed)
	log.Debug().Dur("elapsed", elapsed).Int("bytes", len(text)).Msg("generate ok")
	return text, nil
}

// statusOf labels a failed call for metrics and logs
func statusOf(ctx context.Context, err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code > 0 {
		return strconv.Itoa(apiErr.Code)
	}
	var apiErrP *genai.APIError
	if errors.As(err, &apiErrP) && apiErrP != nil && apiErrP.Code > 0 {
		return strconv.Itoa(apiErrP.Code)
	}
	return "error"
}
