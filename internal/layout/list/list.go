// Package list lays out sectioned single-column lists.
package list

import (
	"fmt"

	"github.com/mohammed-shakir/preheat-window/internal/core/model"
	"github.com/mohammed-shakir/preheat-window/internal/layout"
)

type Config struct {
	Axis model.Axis
	// Sections holds the item count of each section.
	Sections     []int
	RowExtent    float64
	HeaderExtent float64
	// CrossExtent is the row breadth across the scroll axis.
	CrossExtent float64
}

type Geometry struct {
	cfg    Config
	starts []float64 // leading edge of each section's first row
	length float64
}

var _ layout.Geometry = (*Geometry)(nil)

func New(cfg Config) (*Geometry, error) {
	if !cfg.Axis.Valid() {
		return nil, fmt.Errorf("%w: axis %v", layout.ErrInvalidGeometry, cfg.Axis)
	}
	if cfg.RowExtent <= 0 || cfg.CrossExtent <= 0 || cfg.HeaderExtent < 0 {
		return nil, fmt.Errorf("%w: row=%g cross=%g header=%g",
			layout.ErrInvalidGeometry, cfg.RowExtent, cfg.CrossExtent, cfg.HeaderExtent)
	}
	g := &Geometry{cfg: cfg, starts: make([]float64, len(cfg.Sections))}
	pos := 0.0
	for s, n := range cfg.Sections {
		if n < 0 {
			return nil, fmt.Errorf("%w: section %d has %d items", layout.ErrInvalidGeometry, s, n)
		}
		pos += cfg.HeaderExtent
		g.starts[s] = pos
		pos += float64(n) * cfg.RowExtent
	}
	g.length = pos
	return g, nil
}

func (g *Geometry) Axis() model.Axis { return g.cfg.Axis }

func (g *Geometry) ContentSize() model.Size {
	if g.cfg.Axis == model.Horizontal {
		return model.Size{W: g.length, H: g.cfg.CrossExtent}
	}
	return model.Size{W: g.cfg.CrossExtent, H: g.length}
}

func (g *Geometry) Frame(id model.ItemID) (model.Rect, bool) {
	if id.Section < 0 || id.Section >= len(g.cfg.Sections) || id.Index < 0 || id.Index >= g.cfg.Sections[id.Section] {
		return model.Rect{}, false
	}
	along := g.starts[id.Section] + float64(id.Index)*g.cfg.RowExtent
	return layout.Place(g.cfg.Axis, along, 0, g.cfg.RowExtent, g.cfg.CrossExtent), true
}

func (g *Geometry) ItemsIn(r model.Rect) []model.ItemID {
	if r.Empty() {
		return nil
	}
	a0, a1, c0, c1 := layout.Span(r, g.cfg.Axis)
	if c1 <= 0 || c0 >= g.cfg.CrossExtent {
		return nil
	}
	var out []model.ItemID
	for s, n := range g.cfg.Sections {
		lo, hi, ok := layout.Lines(a0, a1, g.starts[s], g.cfg.RowExtent, g.cfg.RowExtent, n)
		if !ok {
			continue
		}
		for i := lo; i <= hi; i++ {
			id := model.ItemID{Section: s, Index: i}
			if f, _ := g.Frame(id); f.Intersects(r) {
				out = append(out, id)
			}
		}
	}
	return out
}
