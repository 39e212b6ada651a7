// Package api provides the HTTP API for the application
package api

import (
	"context"
	"time"

	"trendscope/internal/platform/config"
	"trendscope/internal/platform/logger"
	"trendscope/internal/platform/metrics"
	phttp "trendscope/internal/platform/net/http"
	"trendscope/internal/platform/store"

	"trendscope/internal/modkit"
	"trendscope/internal/modkit/httpkit"
	"trendscope/internal/modkit/module"
	"trendscope/internal/modkit/swaggerkit"

	metahttp "trendscope/internal/services/api/meta/http"
	metamod "trendscope/internal/services/api/meta/module"
	sessionmod "trendscope/internal/services/api/session/module"
	trendsdom "trendscope/internal/services/api/trends/domain"
	trendsmod "trendscope/internal/services/api/trends/module"
)

// Options are the API options
type Options struct {
	// Config is the CORE_ scoped root; modules read their own sub prefixes
	Config    config.Conf
	Store     *store.Store
	Logger    *logger.Logger
	Generator trendsdom.Generator

	// Base is canceled at shutdown and aborts in-flight session fetches
	Base context.Context

	EnableSwagger  bool
	EnableProfiler bool
	Origins        []string
}

// Mount mounts the API service onto the given router. The returned func blocks until
// background session work has drained; call it after Base is canceled
func Mount(r phttp.Router, opt Options) (wait func()) {
	deps := modkit.Deps{
		Cfg:  opt.Config,
		Base: opt.Base,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}
	if opt.Store.PGEnabled() {
		deps.PG = opt.Store.PG
	}

	// trends owns the query path; session consumes it through the Fetcher port
	trends := trendsmod.New(deps, modkit.WithPorts(trendsmod.Ports{Generator: opt.Generator}))
	fetcher := module.MustPortsOf[trendsdom.Fetcher](trends)
	session := sessionmod.New(deps, modkit.WithPorts(sessionmod.Ports{Fetcher: fetcher}))

	var meta metamod.Ports
	if s, ok := opt.Generator.(metahttp.Readier); ok {
		meta.Source = s
	}

	mods := []module.Module{
		metamod.New(deps, modkit.WithPorts(meta)),
		trends,
		session,
	}

	apiCfg := opt.Config.Prefix("API_")
	stack := httpkit.CommonStack(httpkit.StackOptions{
		Origins: opt.Origins,
		Slow:    apiCfg.MayDuration("SLOW_REQUEST", 2*time.Second),
	})

	r.Handle("/metrics", metrics.Handler())
	swaggerkit.Mount(r, swaggerkit.Options{Enabled: opt.EnableSwagger})
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name for cross-module lookups
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})

	closer, _ := session.(interface{ Close() })
	return func() {
		if closer != nil {
			closer.Close()
		}
	}
}
