// Package window computes the lookahead region ahead of a scrolling viewport
// and throttles how often it is recomputed.
package window

import (
	"github.com/mohammed-shakir/preheat-window/internal/core/model"
	"github.com/mohammed-shakir/preheat-window/internal/geometry"
)

// ShouldRecompute reports whether the offset moved far enough since previous.
// The first call (previous unset) always recomputes.
func ShouldRecompute(current model.Point, previous model.NullPoint, extent, thresholdRatio float64) bool {
	if !previous.Valid {
		return true
	}
	return geometry.Distance(current, previous.Point) > extent*thresholdRatio
}

// MaxRegionLength caps the lookahead length. Beyond 2^53 pixel edges are no
// longer exact and a backward region would start at -Inf.
const MaxRegionLength = 1 << 53

// Region returns the pixel-aligned area abutting vp on its leading edge in the
// direction of travel. Its length along the axis is windowRatio times the
// viewport extent, capped at MaxRegionLength; on the cross axis it matches the
// viewport.
func Region(vp model.Viewport, dir model.Direction, windowRatio float64) model.Rect {
	extent := vp.Extent()
	length := min(extent*windowRatio, MaxRegionLength)

	r := vp.Rect()
	switch vp.Axis {
	case model.Horizontal:
		r.W = length
		if dir == model.Forward {
			r.X = vp.Origin.X + extent
		} else {
			r.X = vp.Origin.X - length
		}
	default:
		r.H = length
		if dir == model.Forward {
			r.Y = vp.Origin.Y + extent
		} else {
			r.Y = vp.Origin.Y - length
		}
	}
	return r.Integral()
}

// Plan is the outcome of one calculator step that warrants a layout query.
type Plan struct {
	Direction model.Direction
	Region    model.Rect
}

type Calculator struct {
	WindowRatio    float64
	ThresholdRatio float64
}

// Step decides whether vp moved enough since previous and, if so, where to look.
func (c Calculator) Step(vp model.Viewport, previous model.NullPoint) (Plan, bool) {
	if !ShouldRecompute(vp.Origin, previous, vp.Extent(), c.ThresholdRatio) {
		return Plan{}, false
	}
	dir := geometry.ClassifyDirection(vp.Origin, previous, vp.Axis)
	return Plan{
		Direction: dir,
		Region:    Region(vp, dir, c.WindowRatio),
	}, true
}
