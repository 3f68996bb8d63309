package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"guia/internal/platform/config"
	"guia/internal/platform/logger"
	phttp "guia/internal/platform/net/http"

	trackermod "guia/internal/services/tracker/module"
)

func main() {
	// service-scoped config for HTTP etc (CORE_TRACKER_*)
	root := config.New()
	httpCfg := root.Prefix("CORE_TRACKER_")

	// bring up logging early
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// http server (reads CORE_TRACKER_PORT / CORE_TRACKER_ADDR)
	srv := phttp.NewServer(httpCfg)

	tracker := trackermod.New(trackermod.FromConfig(root))
	tracker.MountRoutes(srv.Router())

	// dispatcher timers live for the process lifetime
	go func() {
		if err := tracker.Run(ctx); err != nil && ctx.Err() == nil {
			l.Error().Err(err).Msg("tracker stopped")
		}
	}()

	// drain the listener when the signal context ends
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			l.Error().Err(err).Msg("shutdown failed")
		}
	}()

	l.Info().Str("addr", srv.Addr()).Msg("guia tracker listening")
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
