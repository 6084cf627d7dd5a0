package preheat

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metricSet struct {
	recomputes *prometheus.CounterVec
	added      prometheus.Counter
	removed    prometheus.Counter
	setSize    prometheus.Gauge
	duration   prometheus.Observer
}

func newMetricSet(r prometheus.Registerer, view string) *metricSet {
	labels := prometheus.Labels{"view": view}
	recomputes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "preheat_recompute_total",
			Help:        "Recompute cycles by result (computed, skipped, cleared).",
			ConstLabels: labels,
		},
		[]string{"result"},
	)
	added := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "preheat_items_added_total",
		Help:        "Items added to the preheat set.",
		ConstLabels: labels,
	})
	removed := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "preheat_items_removed_total",
		Help:        "Items removed from the preheat set.",
		ConstLabels: labels,
	})
	setSize := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "preheat_set_size",
		Help:        "Current number of preheated items.",
		ConstLabels: labels,
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:        "preheat_recompute_seconds",
		Help:        "Time spent computing one preheat window.",
		ConstLabels: labels,
		Buckets:     prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
	})
	if r != nil {
		r.MustRegister(recomputes, added, removed, setSize, duration)
	}
	return &metricSet{
		recomputes: recomputes,
		added:      added,
		removed:    removed,
		setSize:    setSize,
		duration:   duration,
	}
}

func (m *metricSet) observeDelta(result string, added, removed, size int, seconds float64) {
	m.recomputes.WithLabelValues(result).Inc()
	m.added.Add(float64(added))
	m.removed.Add(float64(removed))
	m.setSize.Set(float64(size))
	if result == resultComputed {
		m.duration.Observe(seconds)
	}
}
