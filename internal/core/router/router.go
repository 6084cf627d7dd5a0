// Package router exposes the preheat controller and its simulated viewport
// over HTTP.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mohammed-shakir/preheat-window/internal/core/middleware"
	"github.com/mohammed-shakir/preheat-window/internal/core/model"
	"github.com/mohammed-shakir/preheat-window/pkg/preheat"
)

// Controller is the part of *preheat.Controller the handlers drive.
type Controller interface {
	Name() string
	Enabled() bool
	Enable()
	Disable()
	Reset()
	CurrentPreheatSet() []model.ItemID
	Config() preheat.Config
	SetWindowRatio(v float64) error
	SetUpdateThresholdRatio(v float64) error
}

// Viewport moves the simulated scroll position.
type Viewport interface {
	Offset() model.Point
	ScrollTo(p model.Point) model.Point
	ScrollBy(dx, dy float64) model.Point
}

type State struct {
	View           string         `json:"view"`
	Enabled        bool           `json:"enabled"`
	Axis           string         `json:"axis"`
	OffsetX        float64        `json:"offset_x"`
	OffsetY        float64        `json:"offset_y"`
	WindowRatio    float64        `json:"window_ratio"`
	ThresholdRatio float64        `json:"threshold_ratio"`
	Items          []model.ItemID `json:"items"`
}

type Handlers struct {
	ctl     Controller
	vp      Viewport
	log     *slog.Logger
	reqs    *prometheus.CounterVec
	dur     *prometheus.HistogramVec
	onReset []func(context.Context) error
}

// New builds the handlers. r may be nil.
func New(ctl Controller, vp Viewport, log *slog.Logger, r prometheus.Registerer) *Handlers {
	if log == nil {
		log = slog.Default()
	}
	reqs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preheat_http_requests_total",
			Help: "Harness HTTP requests by route and status code.",
		},
		[]string{"route", "code"},
	)
	dur := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "preheat_http_request_seconds",
			Help:    "Harness HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	if r != nil {
		r.MustRegister(reqs, dur)
	}
	return &Handlers{ctl: ctl, vp: vp, log: log, reqs: reqs, dur: dur}
}

// OnReset registers fn to run before the controller is reset. Sinks that
// mirror the preheat set elsewhere use it to drop state the reset will not
// report as removed.
func (h *Handlers) OnReset(fn func(context.Context) error) {
	h.onReset = append(h.onReset, fn)
}

// Mount registers the preheat routes on r.
func (h *Handlers) Mount(r chi.Router) {
	r.Get("/preheat", h.observe("/preheat", h.getState))
	r.Post("/scroll", h.observe("/scroll", h.postScroll))
	r.Post("/enable", h.observe("/enable", h.postEnable))
	r.Post("/disable", h.observe("/disable", h.postDisable))
	r.Post("/reset", h.observe("/reset", h.postReset))
	r.Put("/config", h.observe("/config", h.putConfig))
}

func (h *Handlers) observe(route string, fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &middleware.StatusWriter{ResponseWriter: w, Code: http.StatusOK}
		fn(sw, r)
		h.reqs.WithLabelValues(route, strconv.Itoa(sw.Code)).Inc()
		h.dur.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func (h *Handlers) state() State {
	cfg := h.ctl.Config()
	off := h.vp.Offset()
	items := h.ctl.CurrentPreheatSet()
	if items == nil {
		items = []model.ItemID{}
	}
	return State{
		View:           h.ctl.Name(),
		Enabled:        h.ctl.Enabled(),
		Axis:           cfg.Axis.String(),
		OffsetX:        off.X,
		OffsetY:        off.Y,
		WindowRatio:    cfg.WindowRatio,
		ThresholdRatio: cfg.UpdateThresholdRatio,
		Items:          items,
	}
}

func (h *Handlers) writeState(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.state()); err != nil {
		h.log.Warn("encode state", "err", err)
	}
}

func (h *Handlers) getState(w http.ResponseWriter, _ *http.Request) { h.writeState(w) }

// postScroll accepts either an absolute offset (x, y) or a relative move
// (dx, dy). Missing coordinates keep their current value.
func (h *Handlers) postScroll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	abs := q.Has("x") || q.Has("y")
	rel := q.Has("dx") || q.Has("dy")
	switch {
	case abs && rel:
		http.Error(w, "use either x/y or dx/dy, not both", http.StatusBadRequest)
		return
	case !abs && !rel:
		http.Error(w, "missing scroll parameters: x/y or dx/dy", http.StatusBadRequest)
		return
	}

	cur := h.vp.Offset()
	if abs {
		x, err := optFloat(q.Get("x"), cur.X)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid x: %v", err), http.StatusBadRequest)
			return
		}
		y, err := optFloat(q.Get("y"), cur.Y)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid y: %v", err), http.StatusBadRequest)
			return
		}
		h.vp.ScrollTo(model.Point{X: x, Y: y})
	} else {
		dx, err := optFloat(q.Get("dx"), 0)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid dx: %v", err), http.StatusBadRequest)
			return
		}
		dy, err := optFloat(q.Get("dy"), 0)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid dy: %v", err), http.StatusBadRequest)
			return
		}
		h.vp.ScrollBy(dx, dy)
	}
	h.writeState(w)
}

func (h *Handlers) postEnable(w http.ResponseWriter, _ *http.Request) {
	h.ctl.Enable()
	h.writeState(w)
}

func (h *Handlers) postDisable(w http.ResponseWriter, _ *http.Request) {
	h.ctl.Disable()
	h.writeState(w)
}

func (h *Handlers) postReset(w http.ResponseWriter, r *http.Request) {
	for _, fn := range h.onReset {
		if err := fn(r.Context()); err != nil {
			h.log.Warn("reset hook failed", "err", err)
		}
	}
	h.ctl.Reset()
	h.writeState(w)
}

// putConfig validates both ratios before applying either, so a rejected
// request leaves the configuration untouched.
func (h *Handlers) putConfig(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("window_ratio") && !q.Has("threshold_ratio") {
		http.Error(w, "missing parameters: window_ratio and/or threshold_ratio", http.StatusBadRequest)
		return
	}
	next := h.ctl.Config()
	var err error
	if next.WindowRatio, err = optFloat(q.Get("window_ratio"), next.WindowRatio); err != nil {
		http.Error(w, fmt.Sprintf("invalid window_ratio: %v", err), http.StatusBadRequest)
		return
	}
	if next.UpdateThresholdRatio, err = optFloat(q.Get("threshold_ratio"), next.UpdateThresholdRatio); err != nil {
		http.Error(w, fmt.Sprintf("invalid threshold_ratio: %v", err), http.StatusBadRequest)
		return
	}
	if err := next.Validate(); err != nil {
		h.configError(w, err)
		return
	}
	if err := h.ctl.SetWindowRatio(next.WindowRatio); err != nil {
		h.configError(w, err)
		return
	}
	if err := h.ctl.SetUpdateThresholdRatio(next.UpdateThresholdRatio); err != nil {
		h.configError(w, err)
		return
	}
	h.log.Info("preheat config updated",
		"window_ratio", next.WindowRatio,
		"threshold_ratio", next.UpdateThresholdRatio,
	)
	h.writeState(w)
}

func (h *Handlers) configError(w http.ResponseWriter, err error) {
	if errors.Is(err, preheat.ErrInvalidConfig) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	h.log.Error("config update failed", "err", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func optFloat(s string, def float64) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("not a finite number")
	}
	return v, nil
}
