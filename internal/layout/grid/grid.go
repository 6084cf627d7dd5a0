// Package grid lays out sectioned grids of equally sized cells.
package grid

import (
	"fmt"

	"github.com/mohammed-shakir/preheat-window/internal/core/model"
	"github.com/mohammed-shakir/preheat-window/internal/layout"
)

type Config struct {
	Axis     model.Axis
	Sections []int
	// Columns is the number of cells across the scroll axis.
	Columns int
	// CrossExtent is the grid breadth across the scroll axis; cells share it
	// evenly after Spacing.
	CrossExtent float64
	// CellExtent is the cell length along the scroll axis. Zero makes cells square.
	CellExtent   float64
	Spacing      float64
	HeaderExtent float64
}

type Geometry struct {
	cfg    Config
	cross  float64 // cell breadth
	along  float64 // cell length
	starts []float64
	rows   []int
	length float64
}

var _ layout.Geometry = (*Geometry)(nil)

func New(cfg Config) (*Geometry, error) {
	if !cfg.Axis.Valid() {
		return nil, fmt.Errorf("%w: axis %v", layout.ErrInvalidGeometry, cfg.Axis)
	}
	if cfg.Columns <= 0 || cfg.CrossExtent <= 0 || cfg.Spacing < 0 || cfg.HeaderExtent < 0 || cfg.CellExtent < 0 {
		return nil, fmt.Errorf("%w: columns=%d cross=%g spacing=%g",
			layout.ErrInvalidGeometry, cfg.Columns, cfg.CrossExtent, cfg.Spacing)
	}
	cross := (cfg.CrossExtent - cfg.Spacing*float64(cfg.Columns-1)) / float64(cfg.Columns)
	if cross <= 0 {
		return nil, fmt.Errorf("%w: spacing leaves no room for %d columns", layout.ErrInvalidGeometry, cfg.Columns)
	}
	along := cfg.CellExtent
	if along == 0 {
		along = cross
	}

	g := &Geometry{
		cfg:    cfg,
		cross:  cross,
		along:  along,
		starts: make([]float64, len(cfg.Sections)),
		rows:   make([]int, len(cfg.Sections)),
	}
	pitch := along + cfg.Spacing
	pos := 0.0
	for s, n := range cfg.Sections {
		if n < 0 {
			return nil, fmt.Errorf("%w: section %d has %d items", layout.ErrInvalidGeometry, s, n)
		}
		rows := (n + cfg.Columns - 1) / cfg.Columns
		pos += cfg.HeaderExtent
		g.starts[s] = pos
		g.rows[s] = rows
		if rows > 0 {
			pos += float64(rows)*pitch - cfg.Spacing
		}
	}
	g.length = pos
	return g, nil
}

func (g *Geometry) Axis() model.Axis { return g.cfg.Axis }

// CellSize is the (along, cross) size of one cell.
func (g *Geometry) CellSize() (along, cross float64) { return g.along, g.cross }

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
	row, col := id.Index/g.cfg.Columns, id.Index%g.cfg.Columns
	along := g.starts[id.Section] + float64(row)*(g.along+g.cfg.Spacing)
	cross := float64(col) * (g.cross + g.cfg.Spacing)
	return layout.Place(g.cfg.Axis, along, cross, g.along, g.cross), true
}

func (g *Geometry) ItemsIn(r model.Rect) []model.ItemID {
	if r.Empty() {
		return nil
	}
	a0, a1, c0, c1 := layout.Span(r, g.cfg.Axis)
	clo, chi, ok := layout.Lines(c0, c1, 0, g.cross, g.cross+g.cfg.Spacing, g.cfg.Columns)
	if !ok {
		return nil
	}
	var out []model.ItemID
	for s, n := range g.cfg.Sections {
		lo, hi, ok := layout.Lines(a0, a1, g.starts[s], g.along, g.along+g.cfg.Spacing, g.rows[s])
		if !ok {
			continue
		}
		for row := lo; row <= hi; row++ {
			for col := clo; col <= chi; col++ {
				idx := row*g.cfg.Columns + col
				if idx >= n {
					break
				}
				id := model.ItemID{Section: s, Index: idx}
				if f, _ := g.Frame(id); f.Intersects(r) {
					out = append(out, id)
				}
			}
		}
	}
	return out
}
