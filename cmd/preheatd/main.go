package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mohammed-shakir/preheat-window/internal/core/config"
	"github.com/mohammed-shakir/preheat-window/internal/core/router"
	"github.com/mohammed-shakir/preheat-window/internal/core/server"
	"github.com/mohammed-shakir/preheat-window/internal/logger"
	"github.com/mohammed-shakir/preheat-window/internal/metrics"
	"github.com/mohammed-shakir/preheat-window/pkg/preheat"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	addrFlag := flag.String("addr", "", "listen address (overrides ADDR)")
	flag.Parse()

	cfg := config.FromEnv()
	if *addrFlag != "" {
		cfg.Addr = strings.TrimSpace(*addrFlag)
	}

	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   cfg.LogConsole,
		SampleN:   cfg.LogSampleN,
		View:      cfg.View,
		Component: "preheatd",
	}, os.Stdout)
	appLog := logger.NewSlog(&zl)

	mp := metrics.Init(metrics.Config{
		Enabled: cfg.MetricsEnabled,
		Build: metrics.BuildInfo{
			Version:  Version,
			Revision: os.Getenv("BUILD_REVISION"),
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := build(ctx, cfg, appLog, mp.Registerer())
	if err != nil {
		appLog.Error("setup failed", "err", err)
		return 1
	}
	defer app.close()

	appLog.Info("starting preheatd",
		"addr", cfg.Addr,
		"version", Version,
		"view", cfg.View,
		"layout", cfg.Layout.Kind,
		"sinks", strings.Join(cfg.Sinks, ","),
	)

	app.ctl.Enable()
	defer func() { _ = app.ctl.Close() }()

	handlers := router.New(app.ctl, app.scroller, appLog, mp.Registerer())
	for _, fn := range app.resets {
		handlers.OnReset(fn)
	}
	deps := server.Deps{
		Handlers: handlers,
		Metrics:  mp,
		Ready:    app.ready,
	}
	if err := server.Run(ctx, cfg, appLog, deps); err != nil {
		appLog.Error("server error", "err", err)
		return 1
	}
	appLog.Info("server stopped", "preheated", len(app.ctl.CurrentPreheatSet()))
	return 0
}

// compile-time check that the controller satisfies the HTTP surface
var _ router.Controller = (*preheat.Controller)(nil)
