// Package model defines core domain types shared across the module.
package model

import (
	"fmt"
	"math"
)

type Axis int

const (
	Vertical Axis = iota
	Horizontal
)

func (a Axis) String() string {
	switch a {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

func (a Axis) Valid() bool { return a == Vertical || a == Horizontal }

// Forward means the content offset grows along the scroll axis.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

type Point struct {
	X, Y float64
}

// Along returns the coordinate on the given axis.
func (p Point) Along(a Axis) float64 {
	if a == Horizontal {
		return p.X
	}
	return p.Y
}

// NullPoint is a Point that may be unset. The zero value is unset.
type NullPoint struct {
	Point Point
	Valid bool
}

func SomePoint(p Point) NullPoint { return NullPoint{Point: p, Valid: true} }

type Size struct {
	W, H float64
}

func (s Size) Along(a Axis) float64 {
	if a == Horizontal {
		return s.W
	}
	return s.H
}

// Rect is a half-open rectangle [X, X+W) x [Y, Y+H).
type Rect struct {
	X, Y float64
	W, H float64
}

func RectOf(origin Point, size Size) Rect {
	return Rect{X: origin.X, Y: origin.Y, W: size.W, H: size.H}
}

func (r Rect) MaxX() float64 { return r.X + r.W }
func (r Rect) MaxY() float64 { return r.Y + r.H }

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Min returns the leading edge on the given axis.
func (r Rect) Min(a Axis) float64 {
	if a == Horizontal {
		return r.X
	}
	return r.Y
}

// Max returns the trailing edge on the given axis (exclusive).
func (r Rect) Max(a Axis) float64 {
	if a == Horizontal {
		return r.MaxX()
	}
	return r.MaxY()
}

func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.MaxX() && o.X < r.MaxX() && r.Y < o.MaxY() && o.Y < r.MaxY()
}

// Integral returns the smallest rectangle with integer edges containing r.
func (r Rect) Integral() Rect {
	if r.Empty() {
		return Rect{X: math.Floor(r.X), Y: math.Floor(r.Y)}
	}
	x0, y0 := math.Floor(r.X), math.Floor(r.Y)
	x1, y1 := math.Ceil(r.MaxX()), math.Ceil(r.MaxY())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func (r Rect) String() string {
	return fmt.Sprintf("{x=%g y=%g w=%g h=%g}", r.X, r.Y, r.W, r.H)
}

// Viewport is the visible window snapshot taken at a scroll event.
type Viewport struct {
	Origin Point
	Size   Size
	Axis   Axis
}

func (v Viewport) Rect() Rect { return RectOf(v.Origin, v.Size) }

// Extent is the viewport length along its scroll axis.
func (v Viewport) Extent() float64 { return v.Size.Along(v.Axis) }

// ItemID addresses one element of a sectioned list or grid.
type ItemID struct {
	Section int `json:"section"`
	Index   int `json:"index"`
}

func (id ItemID) Less(o ItemID) bool {
	if id.Section != o.Section {
		return id.Section < o.Section
	}
	return id.Index < o.Index
}

// Compare returns -1, 0 or +1 by (Section, Index).
func (id ItemID) Compare(o ItemID) int {
	switch {
	case id.Less(o):
		return -1
	case o.Less(id):
		return 1
	default:
		return 0
	}
}

func (id ItemID) String() string { return fmt.Sprintf("%d:%d", id.Section, id.Index) }
