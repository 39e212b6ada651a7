package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"trendscope/internal/platform/metrics"
	"trendscope/internal/platform/net/middleware"
)

// StackOptions tunes the baseline stack
type StackOptions struct {
	// Origins allowed by CORS, empty means any
	Origins []string

	// Timeout bounds each request, 0 disables it
	Timeout time.Duration

	// Slow marks access log lines as warn
	Slow time.Duration
}

// CommonStack returns the baseline middleware slice mounted at the root router
// order matters: ids first so the access log and panic envelope carry them
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	mw := []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.RequestLogger,
		middleware.AccessLogZerolog(middleware.AccessLogOptions{
			Slow:    o.Slow,
			Observe: metrics.RecordHTTP,
		}),
		middleware.RecoverJSON,
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.Origins}),
		middleware.NoCache(),
		middleware.StripSlashes(),
		middleware.Compress(flate.BestSpeed, "application/json", "text/csv"),
	}
	if o.Timeout > 0 {
		mw = append(mw, middleware.Timeout(o.Timeout))
	}
	return mw
}
