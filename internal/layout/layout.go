// Package layout adapts host view geometry to the preheat layout query.
// Concrete geometries (list, grid) only answer "which items lie in this
// rectangle"; windowing stays in the preheat core.
package layout

import (
	"errors"
	"math"

	"github.com/mohammed-shakir/preheat-window/internal/core/model"
	"github.com/mohammed-shakir/preheat-window/internal/host"
)

var ErrInvalidGeometry = errors.New("layout: invalid geometry")

type Geometry interface {
	// ItemsIn returns the items whose frames intersect r in ascending order.
	ItemsIn(r model.Rect) []model.ItemID
	Frame(id model.ItemID) (model.Rect, bool)
	ContentSize() model.Size
	Axis() model.Axis
}

// View answers layout queries for one geometry scrolled by one scroller.
type View struct {
	geom     Geometry
	scroller *host.Scroller
}

func NewView(g Geometry, s *host.Scroller) *View {
	return &View{geom: g, scroller: s}
}

func (v *View) ItemsIntersecting(r model.Rect) []model.ItemID {
	return v.geom.ItemsIn(r)
}

func (v *View) CurrentlyVisibleItems() []model.ItemID {
	return v.geom.ItemsIn(v.scroller.Bounds())
}

func (v *View) ViewportExtent(axis model.Axis) float64 {
	return v.scroller.Viewport().Along(axis)
}

func (v *View) Axis() model.Axis { return v.geom.Axis() }

func (v *View) Geometry() Geometry { return v.geom }

// Span maps r onto (along, cross) intervals for the given axis.
func Span(r model.Rect, axis model.Axis) (a0, a1, c0, c1 float64) {
	if axis == model.Horizontal {
		return r.X, r.MaxX(), r.Y, r.MaxY()
	}
	return r.Y, r.MaxY(), r.X, r.MaxX()
}

// Place builds a frame from (along, cross) coordinates for the given axis.
func Place(axis model.Axis, along, cross, alongLen, crossLen float64) model.Rect {
	if axis == model.Horizontal {
		return model.Rect{X: along, Y: cross, W: alongLen, H: crossLen}
	}
	return model.Rect{X: cross, Y: along, W: crossLen, H: alongLen}
}

// Lines returns a conservative [lo, hi] range of line indices, out of n lines
// of length cell repeating every pitch from start, that may overlap [a0, a1).
// Callers confirm each candidate against its exact frame. ok is false when
// nothing can overlap.
func Lines(a0, a1, start, cell, pitch float64, n int) (lo, hi int, ok bool) {
	if n <= 0 || pitch <= 0 || !(a1 > a0) {
		return 0, 0, false
	}
	// clip to the laid-out span so huge or infinite edges never reach int
	a0 = max(a0, start)
	a1 = min(a1, start+float64(n)*pitch)
	if a1 <= a0 {
		return 0, 0, false
	}
	lo = int(math.Floor((a0 - start - cell) / pitch))
	hi = int(math.Ceil((a1 - start) / pitch))
	lo = max(lo, 0)
	hi = min(hi, n-1)
	return lo, hi, lo <= hi
}
