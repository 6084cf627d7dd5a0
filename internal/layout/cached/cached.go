// Package cached memoizes region queries of a layout between layout changes.
package cached

import (
	"slices"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mohammed-shakir/preheat-window/internal/core/model"
	"github.com/mohammed-shakir/preheat-window/pkg/preheat"
)

// Inner is the layout being cached. It must be bound to one scroll axis.
type Inner interface {
	preheat.LayoutQuery
	preheat.AxisReporter
}

// Layout caches ItemsIntersecting by region. Regions are pixel-aligned, so
// scrolling back and forth over the same content hits the cache. Call
// Invalidate whenever the underlying geometry changes.
type Layout struct {
	inner  Inner
	lru    *lru.Cache[model.Rect, []model.ItemID]
	hits   atomic.Uint64
	misses atomic.Uint64
}

var _ Inner = (*Layout)(nil)

func New(inner Inner, size int) (*Layout, error) {
	if size <= 0 {
		size = 256
	}
	c, err := lru.New[model.Rect, []model.ItemID](size)
	if err != nil {
		return nil, err
	}
	return &Layout{inner: inner, lru: c}, nil
}

func (l *Layout) ItemsIntersecting(r model.Rect) []model.ItemID {
	if ids, ok := l.lru.Get(r); ok {
		l.hits.Add(1)
		return slices.Clone(ids)
	}
	l.misses.Add(1)
	ids := l.inner.ItemsIntersecting(r)
	l.lru.Add(r, slices.Clone(ids))
	return ids
}

// visibility depends on the live offset, never cached
func (l *Layout) CurrentlyVisibleItems() []model.ItemID {
	return l.inner.CurrentlyVisibleItems()
}

func (l *Layout) ViewportExtent(axis model.Axis) float64 {
	return l.inner.ViewportExtent(axis)
}

func (l *Layout) Axis() model.Axis { return l.inner.Axis() }

func (l *Layout) Invalidate() { l.lru.Purge() }

func (l *Layout) Stats() (hits, misses uint64) {
	return l.hits.Load(), l.misses.Load()
}

func (l *Layout) Len() int { return l.lru.Len() }
