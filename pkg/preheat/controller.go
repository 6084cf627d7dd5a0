package preheat

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mohammed-shakir/preheat-window/internal/core/model"
	"github.com/mohammed-shakir/preheat-window/internal/geometry"
	"github.com/mohammed-shakir/preheat-window/internal/tracker"
	"github.com/mohammed-shakir/preheat-window/internal/window"
)

const (
	resultComputed = "computed"
	resultSkipped  = "skipped"
	resultCleared  = "cleared"
)

type state int

const (
	stateDisabled state = iota
	stateEnabled
)

func (s state) String() string {
	if s == stateEnabled {
		return "enabled"
	}
	return "disabled"
}

type Option func(*options)

type options struct {
	logger   *slog.Logger
	register prometheus.Registerer
	name     string
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRegisterer registers the controller metrics on r. Without it metrics
// are collected but not exported.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *options) { o.register = r }
}

// WithName labels logs and metrics with the host view name.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// Controller wires viewport changes through the window calculator and the
// preheat set tracker into a Sink. It starts disabled.
//
// All methods are safe for concurrent use; state changes are serialized and
// the Sink is called while the controller lock is held.
type Controller struct {
	mu sync.Mutex

	src    ViewportSource
	layout LayoutQuery
	sink   Sink
	cfg    Config

	state       state
	previous    model.NullPoint
	tracker     *tracker.Tracker
	unsubscribe func()

	name string
	log  *slog.Logger
	ms   *metricSet
}

func New(src ViewportSource, layout LayoutQuery, sink Sink, cfg Config, opts ...Option) (*Controller, error) {
	switch {
	case src == nil:
		return nil, fmt.Errorf("%w: viewport source", ErrNilDependency)
	case layout == nil:
		return nil, fmt.Errorf("%w: layout query", ErrNilDependency)
	case sink == nil:
		return nil, fmt.Errorf("%w: sink", ErrNilDependency)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ar, ok := layout.(AxisReporter); ok && ar.Axis() != cfg.Axis {
		return nil, fmt.Errorf("%w: layout=%v config=%v", ErrAxisMismatch, ar.Axis(), cfg.Axis)
	}

	o := options{name: "default"}
	for _, f := range opts {
		f(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	return &Controller{
		src:     src,
		layout:  layout,
		sink:    sink,
		cfg:     cfg,
		tracker: tracker.New(),
		name:    o.name,
		log:     o.logger.With("component", "preheat", "view", o.name),
		ms:      newMetricSet(o.register, o.name),
	}, nil
}

func (c *Controller) Name() string { return c.name }

func (c *Controller) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == stateEnabled
}

func (c *Controller) Enable() { c.SetEnabled(true) }

func (c *Controller) Disable() { c.SetEnabled(false) }

// SetEnabled moves the controller between its two states. Enabling subscribes
// to the viewport source and computes immediately; disabling unsubscribes and
// reports every preheated item as removed.
func (c *Controller) SetEnabled(on bool) {
	to := stateDisabled
	if on {
		to = stateEnabled
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transition(to)
}

func (c *Controller) transition(to state) {
	from := c.state
	if from == to {
		return
	}
	c.state = to
	c.log.Info("preheat state change", "from", from.String(), "to", to.String())

	switch to {
	case stateEnabled:
		c.unsubscribe = c.src.Subscribe(c.onViewportChange)
		c.recompute(c.src.Offset())
	case stateDisabled:
		if c.unsubscribe != nil {
			c.unsubscribe()
			c.unsubscribe = nil
		}
		c.previous = model.NullPoint{}
		d := c.tracker.Propose(nil, model.Forward)
		c.ms.observeDelta(resultCleared, 0, len(d.Removed), 0, 0)
		c.sink.OnPreheatSetChanged(d.Added, d.Removed)
	}
}

// Reset drops the current prediction without notifying removals. When enabled
// a fresh prediction is computed as if this were the first scroll event.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tracker.Reset()
	c.previous = model.NullPoint{}
	c.ms.setSize.Set(0)
	if c.state == stateEnabled {
		c.recompute(c.src.Offset())
	}
}

// CurrentPreheatSet returns the preheated items in their last computed order.
func (c *Controller) CurrentPreheatSet() []model.ItemID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tracker.Current()
}

func (c *Controller) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// SetWindowRatio takes effect on the next recompute cycle.
func (c *Controller) SetWindowRatio(v float64) error {
	if err := validateWindowRatio(v); err != nil {
		return err
	}
	c.mu.Lock()
	c.cfg.WindowRatio = v
	c.mu.Unlock()
	return nil
}

// SetUpdateThresholdRatio takes effect on the next recompute cycle.
func (c *Controller) SetUpdateThresholdRatio(v float64) error {
	if err := validateThresholdRatio(v); err != nil {
		return err
	}
	c.mu.Lock()
	c.cfg.UpdateThresholdRatio = v
	c.mu.Unlock()
	return nil
}

// Close disables the controller, releasing its viewport subscription.
func (c *Controller) Close() error {
	c.Disable()
	return nil
}

func (c *Controller) onViewportChange(offset model.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != stateEnabled {
		return
	}
	c.recompute(offset)
}

func (c *Controller) recompute(offset model.Point) {
	start := time.Now()

	vp := model.Viewport{
		Origin: offset,
		Size: model.Size{
			W: c.layout.ViewportExtent(model.Horizontal),
			H: c.layout.ViewportExtent(model.Vertical),
		},
		Axis: c.cfg.Axis,
	}
	calc := window.Calculator{
		WindowRatio:    c.cfg.WindowRatio,
		ThresholdRatio: c.cfg.UpdateThresholdRatio,
	}

	plan, ok := calc.Step(vp, c.previous)
	if !ok {
		c.ms.recomputes.WithLabelValues(resultSkipped).Inc()
		return
	}

	visible := c.layout.CurrentlyVisibleItems()
	candidates := geometry.Subtract(c.layout.ItemsIntersecting(plan.Region), visible)
	d := c.tracker.Propose(candidates, plan.Direction)
	c.previous = model.SomePoint(offset)

	c.ms.observeDelta(resultComputed, len(d.Added), len(d.Removed), c.tracker.Len(), time.Since(start).Seconds())
	c.log.Debug("preheat window computed",
		"offset_x", offset.X,
		"offset_y", offset.Y,
		"direction", plan.Direction.String(),
		"region", plan.Region.String(),
		"added", len(d.Added),
		"removed", len(d.Removed),
		"size", c.tracker.Len(),
	)
	c.sink.OnPreheatSetChanged(d.Added, d.Removed)
}
