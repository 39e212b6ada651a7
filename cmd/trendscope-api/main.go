// @title         Trendscope API
// @version       0.1.0
// @description   Simulated YouTube tag popularity with logic-mode merging, charts and CSV export

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"trendscope/internal/adapters/gemini"
	"trendscope/internal/platform/config"
	"trendscope/internal/platform/logger"
	phttp "trendscope/internal/platform/net/http"
	"trendscope/internal/platform/store"

	"trendscope/internal/services/api"

	"golang.org/x/sync/errgroup"
)

func main() {
	// .env first so LOG_* and CORE_* are visible to everything below
	loaded, dotErr := config.LoadDotenv()

	logger.Init(logger.FromEnv())
	l := logger.Get()
	if dotErr != nil {
		l.Warn().Err(dotErr).Msg("dotenv load failed")
	} else if len(loaded) > 0 {
		l.Debug().Strs("files", loaded).Msg("dotenv loaded")
	}

	cfg := config.New().Prefix("CORE_")
	apiCfg := cfg.Prefix("API_")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// postgres is optional and only backs the outcome journal
	st, err := store.Open(ctx, store.ConfigFrom(cfg, "trendscope"), store.WithLogger(*l))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	gen, err := gemini.New(ctx, gemini.OptionsFrom(cfg))
	if err != nil {
		l.Fatal().Err(err).Msg("gemini client failed")
	}

	// http server (reads CORE_API_PORT and the CORE_API_*_TIMEOUT keys)
	srv := phttp.NewServer(cfg)

	g, gctx := errgroup.WithContext(ctx)

	drain := api.Mount(srv.Router(), api.Options{
		Config:         cfg,
		Store:          st,
		Logger:         l,
		Generator:      gen,
		Base:           gctx,
		EnableSwagger:  apiCfg.MayBool("ENABLE_SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("ENABLE_PPROF", false),
		Origins:        apiCfg.MayCSV("CORS_ORIGINS", nil),
	})

	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		drain()
		l.Info().Msg("session drained")
		return nil
	})

	if err := g.Wait(); err != nil {
		l.Error().Err(err).Msg("http server stopped")
		os.Exit(1)
	}
	l.Info().Msg("server exited properly")
}
