// Package sink holds preheat sinks that do not talk to external systems, and
// the metrics shared by those that do.
package sink

import (
	"log/slog"
	"strconv"
	"sync/atomic"

	xx "github.com/cespare/xxhash/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mohammed-shakir/preheat-window/internal/core/model"
	"github.com/mohammed-shakir/preheat-window/pkg/preheat"
)

// Multi forwards every delta to each sink in order.
type Multi []preheat.Sink

func (m Multi) OnPreheatSetChanged(added, removed []model.ItemID) {
	for _, s := range m {
		s.OnPreheatSetChanged(added, removed)
	}
}

// Logging writes deltas to a logger. SampleRate in (0,1) keeps a stable
// hash-selected fraction of deltas; 0 or >=1 logs all of them.
type Logging struct {
	Log        *slog.Logger
	View       string
	SampleRate float64

	seq atomic.Uint64
}

func (l *Logging) OnPreheatSetChanged(added, removed []model.ItemID) {
	n := l.seq.Add(1)
	if !shouldLog(l.SampleRate, l.View+":"+strconv.FormatUint(n, 10)) {
		return
	}
	log := l.Log
	if log == nil {
		log = slog.Default()
	}
	log.Debug("preheat delta",
		"view", l.View,
		"seq", n,
		"added", len(added),
		"removed", len(removed),
		"first_added", firstID(added),
	)
}

func firstID(ids []model.ItemID) string {
	if len(ids) == 0 {
		return ""
	}
	return ids[0].String()
}

func shouldLog(sample float64, key string) bool {
	if sample <= 0 || sample >= 1 {
		return true
	}
	const denom = 10000 // 0.01 => 100/10000
	threshold := uint64(sample*denom + 0.5)
	if threshold == 0 {
		return false
	}
	return (xx.Sum64String(key) % denom) < threshold
}

// OpMetrics counts external sink operations. A nil *OpMetrics is a no-op.
type OpMetrics struct {
	ops *prometheus.CounterVec
}

func NewOpMetrics(r prometheus.Registerer) *OpMetrics {
	ops := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preheat_sink_ops_total",
			Help: "External sink operations by sink, op and result.",
		},
		[]string{"sink", "op", "result"},
	)
	if r != nil {
		r.MustRegister(ops)
	}
	return &OpMetrics{ops: ops}
}

func (m *OpMetrics) Observe(sink, op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ops.WithLabelValues(sink, op, result).Inc()
}

// Vec exposes the underlying counter for tests and custom exporters.
func (m *OpMetrics) Vec() *prometheus.CounterVec { return m.ops }
