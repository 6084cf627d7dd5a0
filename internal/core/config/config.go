// Package config loads daemon settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mohammed-shakir/preheat-window/internal/core/model"
)

type LayoutCfg struct {
	Kind         string // list or grid
	Sections     []int
	RowExtent    float64
	HeaderExtent float64
	Columns      int
	Spacing      float64
	CacheSize    int
}

type RedisCfg struct {
	Addr      string
	KeyTTL    time.Duration
	OpTimeout time.Duration

	// zero values keep the client defaults
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type KafkaCfg struct {
	Brokers []string
	Topic   string
	Queue   int
}

type Config struct {
	Addr                 string
	LogLevel             string
	LogConsole           bool
	LogSampleN           int
	LogDeltaSample       float64
	MetricsEnabled       bool
	View                 string
	Axis                 string
	WindowRatio          float64
	UpdateThresholdRatio float64
	ViewportWidth        float64
	ViewportHeight       float64
	Layout               LayoutCfg
	Sinks                []string
	Redis                RedisCfg
	Kafka                KafkaCfg
}

func FromEnv() Config {
	return Config{
		Addr:                 getenv("ADDR", ":8090"),
		LogLevel:             getenv("LOG_LEVEL", "info"),
		LogConsole:           getbool("LOG_CONSOLE", false),
		LogSampleN:           getint("LOG_SAMPLE_N", 0),
		LogDeltaSample:       getfloat("LOG_DELTA_SAMPLE", 1),
		MetricsEnabled:       getbool("METRICS_ENABLED", true),
		View:                 getenv("VIEW_NAME", "default"),
		Axis:                 strings.ToLower(getenv("SCROLL_AXIS", "vertical")),
		WindowRatio:          getfloat("WINDOW_RATIO", 1.0),
		UpdateThresholdRatio: getfloat("UPDATE_THRESHOLD_RATIO", 0.33),
		ViewportWidth:        getfloat("VIEWPORT_WIDTH", 375),
		ViewportHeight:       getfloat("VIEWPORT_HEIGHT", 667),
		Layout: LayoutCfg{
			Kind:         strings.ToLower(getenv("LAYOUT_KIND", "grid")),
			Sections:     parseInts(getenv("LAYOUT_SECTIONS", "120")),
			RowExtent:    getfloat("ROW_EXTENT", 93),
			HeaderExtent: getfloat("HEADER_EXTENT", 0),
			Columns:      getint("GRID_COLUMNS", 4),
			Spacing:      getfloat("GRID_SPACING", 1),
			CacheSize:    getint("LAYOUT_CACHE_SIZE", 256),
		},
		Sinks: splitList(getenv("SINK_DRIVERS", "log")),
		Redis: RedisCfg{
			Addr:      getenv("REDIS_ADDR", "localhost:6379"),
			KeyTTL:    getduration("REDIS_KEY_TTL", 10*time.Minute),
			OpTimeout: getduration("SINK_OP_TIMEOUT", 250*time.Millisecond),

			PoolSize:     getint("REDIS_POOL_SIZE", 0),
			MinIdleConns: getint("REDIS_MIN_IDLE_CONNS", 0),
			DialTimeout:  getduration("REDIS_DIAL_TIMEOUT", 0),
			ReadTimeout:  getduration("REDIS_READ_TIMEOUT", 0),
			WriteTimeout: getduration("REDIS_WRITE_TIMEOUT", 0),
		},
		Kafka: KafkaCfg{
			Brokers: splitList(getenv("KAFKA_BROKERS", "localhost:9092")),
			Topic:   getenv("KAFKA_TOPIC", "preheat-deltas"),
			Queue:   getint("KAFKA_QUEUE", 1024),
		},
	}
}

// ScrollAxis parses Axis; unknown names are a configuration error.
func (c Config) ScrollAxis() (model.Axis, error) {
	switch c.Axis {
	case "vertical", "v", "y":
		return model.Vertical, nil
	case "horizontal", "h", "x":
		return model.Horizontal, nil
	default:
		return 0, fmt.Errorf("unknown scroll axis %q", c.Axis)
	}
}

// HasSink reports whether the named sink driver is configured.
func (c Config) HasSink(name string) bool {
	for _, s := range c.Sinks {
		if s == name {
			return true
		}
	}
	return false
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// parse "40,25,60" into section sizes, skipping junk and negatives
func parseInts(s string) []int {
	var out []int
	for p := range strings.SplitSeq(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			continue
		}
		out = append(out, n)
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		if x := strings.ToLower(strings.TrimSpace(p)); x != "" {
			out = append(out, x)
		}
	}
	return out
}
