package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mohammed-shakir/preheat-window/internal/core/config"
	"github.com/mohammed-shakir/preheat-window/internal/core/health"
	"github.com/mohammed-shakir/preheat-window/internal/core/model"
	"github.com/mohammed-shakir/preheat-window/internal/host"
	"github.com/mohammed-shakir/preheat-window/internal/layout"
	"github.com/mohammed-shakir/preheat-window/internal/layout/cached"
	"github.com/mohammed-shakir/preheat-window/internal/layout/grid"
	"github.com/mohammed-shakir/preheat-window/internal/layout/list"
	"github.com/mohammed-shakir/preheat-window/internal/sink"
	"github.com/mohammed-shakir/preheat-window/internal/sink/kafkapub"
	"github.com/mohammed-shakir/preheat-window/internal/sink/redisset"
	"github.com/mohammed-shakir/preheat-window/internal/sink/redisstore"
	"github.com/mohammed-shakir/preheat-window/pkg/preheat"
)

type app struct {
	ctl      *preheat.Controller
	scroller *host.Scroller
	layout   *cached.Layout
	ready    map[string]health.Checker
	resets   []func(context.Context) error
	closers  []func() error
	log      *slog.Logger
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close", "err", err)
		}
	}
}

func buildGeometry(cfg config.Config, axis model.Axis) (layout.Geometry, error) {
	cross := cfg.ViewportWidth
	if axis == model.Horizontal {
		cross = cfg.ViewportHeight
	}
	switch cfg.Layout.Kind {
	case "list":
		return list.New(list.Config{
			Axis:         axis,
			Sections:     cfg.Layout.Sections,
			RowExtent:    cfg.Layout.RowExtent,
			HeaderExtent: cfg.Layout.HeaderExtent,
			CrossExtent:  cross,
		})
	case "grid":
		return grid.New(grid.Config{
			Axis:         axis,
			Sections:     cfg.Layout.Sections,
			Columns:      cfg.Layout.Columns,
			CrossExtent:  cross,
			Spacing:      cfg.Layout.Spacing,
			HeaderExtent: cfg.Layout.HeaderExtent,
		})
	default:
		return nil, fmt.Errorf("unknown layout kind %q", cfg.Layout.Kind)
	}
}

func build(ctx context.Context, cfg config.Config, log *slog.Logger, reg prometheus.Registerer) (*app, error) {
	axis, err := cfg.ScrollAxis()
	if err != nil {
		return nil, err
	}
	geom, err := buildGeometry(cfg, axis)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	sc := host.NewScroller(geom.ContentSize(), model.Size{W: cfg.ViewportWidth, H: cfg.ViewportHeight})
	lay, err := cached.New(layout.NewView(geom, sc), cfg.Layout.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("layout cache: %w", err)
	}

	a := &app{scroller: sc, layout: lay, ready: map[string]health.Checker{}, log: log}
	sinks, err := buildSinks(ctx, cfg, log, reg, a)
	if err != nil {
		a.close()
		return nil, err
	}

	ctl, err := preheat.New(sc, lay, sinks, preheat.Config{
		Axis:                 axis,
		WindowRatio:          cfg.WindowRatio,
		UpdateThresholdRatio: cfg.UpdateThresholdRatio,
	}, preheat.WithLogger(log), preheat.WithRegisterer(reg), preheat.WithName(cfg.View))
	if err != nil {
		a.close()
		return nil, err
	}
	a.ctl = ctl
	return a, nil
}

func buildSinks(ctx context.Context, cfg config.Config, log *slog.Logger, reg prometheus.Registerer, a *app) (sink.Multi, error) {
	var out sink.Multi
	ops := sink.NewOpMetrics(reg)

	for _, name := range cfg.Sinks {
		switch name {
		case "log":
			out = append(out, &sink.Logging{Log: log, View: cfg.View, SampleRate: cfg.LogDeltaSample})
		case "redis":
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			rc, err := redisstore.New(pingCtx, cfg.Redis.Addr, redisOptions(cfg.Redis)...)
			cancel()
			if err != nil {
				return nil, fmt.Errorf("redis sink: %w", err)
			}
			rc.SetObserver(ops)
			a.closers = append(a.closers, rc.Close)
			a.ready["redis"] = rc.Ping
			rs := redisset.New(rc, redisset.Config{
				View:      cfg.View,
				TTL:       cfg.Redis.KeyTTL,
				OpTimeout: cfg.Redis.OpTimeout,
			}, log)
			a.resets = append(a.resets, rs.Clear)
			out = append(out, rs)
		case "kafka":
			pub, err := kafkapub.New(kafkapub.Config{
				Brokers: cfg.Kafka.Brokers,
				Topic:   cfg.Kafka.Topic,
				View:    cfg.View,
				Queue:   cfg.Kafka.Queue,
			}, log, ops)
			if err != nil {
				return nil, fmt.Errorf("kafka sink: %w", err)
			}
			a.closers = append(a.closers, pub.Close)
			out = append(out, pub)
		default:
			return nil, fmt.Errorf("unknown sink driver %q", name)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("no sink drivers configured")
	}
	return out, nil
}

func redisOptions(c config.RedisCfg) []redisstore.Option {
	var opts []redisstore.Option
	if c.PoolSize > 0 {
		opts = append(opts, redisstore.WithPoolSize(c.PoolSize))
	}
	if c.MinIdleConns > 0 {
		opts = append(opts, redisstore.WithMinIdleConns(c.MinIdleConns))
	}
	if c.DialTimeout > 0 {
		opts = append(opts, redisstore.WithDialTimeout(c.DialTimeout))
	}
	if c.ReadTimeout > 0 {
		opts = append(opts, redisstore.WithReadTimeout(c.ReadTimeout))
	}
	if c.WriteTimeout > 0 {
		opts = append(opts, redisstore.WithWriteTimeout(c.WriteTimeout))
	}
	return opts
}
