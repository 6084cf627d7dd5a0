// Package preheat predicts which off-screen items of a scrolling list or grid
// are about to become visible and reports changes to that prediction.
package preheat

import (
	"errors"
	"fmt"
	"math"

	"github.com/mohammed-shakir/preheat-window/internal/core/model"
)

type (
	ItemID = model.ItemID
	Point  = model.Point
	Rect   = model.Rect
	Axis   = model.Axis
)

const (
	Vertical   = model.Vertical
	Horizontal = model.Horizontal
)

const (
	DefaultWindowRatio          = 1.0
	DefaultUpdateThresholdRatio = 0.33
)

var (
	ErrInvalidConfig = errors.New("preheat: invalid config")
	ErrAxisMismatch  = errors.New("preheat: layout axis does not match config axis")
	ErrNilDependency = errors.New("preheat: nil dependency")
)

// LayoutQuery answers geometry questions about the host view. Results must be
// deterministic for a given layout state and region.
type LayoutQuery interface {
	ItemsIntersecting(r model.Rect) []model.ItemID
	CurrentlyVisibleItems() []model.ItemID
	ViewportExtent(axis model.Axis) float64
}

// AxisReporter is implemented by layouts bound to a single scroll axis.
type AxisReporter interface {
	Axis() model.Axis
}

// ViewportSource reports the scroll offset and notifies on changes.
type ViewportSource interface {
	Offset() model.Point
	Subscribe(fn func(model.Point)) (unsubscribe func())
}

// Sink receives every recomputed delta, including empty ones: a recompute that
// changes nothing still calls OnPreheatSetChanged with two empty slices.
// Sinks run synchronously on the event path and must not call back into the
// Controller.
type Sink interface {
	OnPreheatSetChanged(added, removed []model.ItemID)
}

type SinkFunc func(added, removed []model.ItemID)

func (f SinkFunc) OnPreheatSetChanged(added, removed []model.ItemID) { f(added, removed) }

type Config struct {
	Axis                 model.Axis
	WindowRatio          float64
	UpdateThresholdRatio float64
}

func DefaultConfig() Config {
	return Config{
		Axis:                 model.Vertical,
		WindowRatio:          DefaultWindowRatio,
		UpdateThresholdRatio: DefaultUpdateThresholdRatio,
	}
}

func (c Config) Validate() error {
	if !c.Axis.Valid() {
		return fmt.Errorf("%w: unknown axis %v", ErrInvalidConfig, c.Axis)
	}
	if err := validateWindowRatio(c.WindowRatio); err != nil {
		return err
	}
	return validateThresholdRatio(c.UpdateThresholdRatio)
}

func validateWindowRatio(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%w: window ratio must be positive, got %g", ErrInvalidConfig, v)
	}
	return nil
}

func validateThresholdRatio(v float64) error {
	if math.IsNaN(v) || v <= 0 || v > 1 {
		return fmt.Errorf("%w: update threshold ratio must be in (0,1], got %g", ErrInvalidConfig, v)
	}
	return nil
}
