package config

import (
	"slices"
	"testing"
	"time"

	"github.com/mohammed-shakir/preheat-window/internal/core/model"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"WINDOW_RATIO", "UPDATE_THRESHOLD_RATIO", "LAYOUT_KIND", "SINK_DRIVERS", "LAYOUT_SECTIONS"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	if cfg.WindowRatio != 1.0 || cfg.UpdateThresholdRatio != 0.33 {
		t.Fatalf("ratios=%g/%g", cfg.WindowRatio, cfg.UpdateThresholdRatio)
	}
	if cfg.Layout.Kind != "grid" || !slices.Equal(cfg.Layout.Sections, []int{120}) {
		t.Fatalf("layout=%+v", cfg.Layout)
	}
	if !cfg.HasSink("log") || cfg.HasSink("redis") {
		t.Fatalf("sinks=%v", cfg.Sinks)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("WINDOW_RATIO", "1.5")
	t.Setenv("UPDATE_THRESHOLD_RATIO", "0.5")
	t.Setenv("SCROLL_AXIS", "Horizontal")
	t.Setenv("LAYOUT_KIND", "LIST")
	t.Setenv("LAYOUT_SECTIONS", "40, 25,x,-3,,60")
	t.Setenv("SINK_DRIVERS", "log, Redis ,kafka")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")
	t.Setenv("REDIS_KEY_TTL", "90s")
	t.Setenv("LOG_CONSOLE", "yes")
	t.Setenv("GRID_COLUMNS", "nope")
	t.Setenv("REDIS_POOL_SIZE", "8")
	t.Setenv("REDIS_MIN_IDLE_CONNS", "1")
	t.Setenv("REDIS_DIAL_TIMEOUT", "750ms")
	t.Setenv("REDIS_READ_TIMEOUT", "200ms")
	t.Setenv("REDIS_WRITE_TIMEOUT", "300ms")
	t.Setenv("LOG_DELTA_SAMPLE", "0.05")

	cfg := FromEnv()
	if cfg.WindowRatio != 1.5 || cfg.UpdateThresholdRatio != 0.5 {
		t.Fatalf("ratios=%g/%g", cfg.WindowRatio, cfg.UpdateThresholdRatio)
	}
	if cfg.Axis != "horizontal" || cfg.Layout.Kind != "list" {
		t.Fatalf("axis=%q kind=%q", cfg.Axis, cfg.Layout.Kind)
	}
	if !slices.Equal(cfg.Layout.Sections, []int{40, 25, 60}) {
		t.Fatalf("sections=%v", cfg.Layout.Sections)
	}
	if !slices.Equal(cfg.Sinks, []string{"log", "redis", "kafka"}) {
		t.Fatalf("sinks=%v", cfg.Sinks)
	}
	if !slices.Equal(cfg.Kafka.Brokers, []string{"a:9092", "b:9092"}) {
		t.Fatalf("brokers=%v", cfg.Kafka.Brokers)
	}
	if cfg.Redis.KeyTTL != 90*time.Second || !cfg.LogConsole {
		t.Fatalf("ttl=%v console=%v", cfg.Redis.KeyTTL, cfg.LogConsole)
	}
	if cfg.Layout.Columns != 4 {
		t.Fatalf("bad GRID_COLUMNS must fall back to default, got %d", cfg.Layout.Columns)
	}
	r := cfg.Redis
	if r.PoolSize != 8 || r.MinIdleConns != 1 || r.DialTimeout != 750*time.Millisecond ||
		r.ReadTimeout != 200*time.Millisecond || r.WriteTimeout != 300*time.Millisecond {
		t.Fatalf("redis=%+v", r)
	}
	if cfg.LogDeltaSample != 0.05 {
		t.Fatalf("delta sample=%g", cfg.LogDeltaSample)
	}
}

func TestScrollAxis(t *testing.T) {
	cases := map[string]model.Axis{"vertical": model.Vertical, "y": model.Vertical, "horizontal": model.Horizontal, "x": model.Horizontal}
	for in, want := range cases {
		got, err := Config{Axis: in}.ScrollAxis()
		if err != nil || got != want {
			t.Fatalf("%q: got %v err=%v", in, got, err)
		}
	}
	if _, err := (Config{Axis: "diagonal"}).ScrollAxis(); err == nil {
		t.Fatal("expected error for unknown axis")
	}
}
