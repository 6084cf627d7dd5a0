// Package host simulates the scrolling side of a host view: it owns the
// content offset and notifies subscribers when it changes.
package host

import (
	"sync"

	"github.com/mohammed-shakir/preheat-window/internal/core/model"
)

// Scroller keeps the content offset clamped to [0, content-viewport] on both axes.
type Scroller struct {
	mu       sync.Mutex
	offset   model.Point
	content  model.Size
	viewport model.Size
	subs     map[uint64]func(model.Point)
	nextID   uint64
}

func NewScroller(content, viewport model.Size) *Scroller {
	return &Scroller{
		content:  content,
		viewport: viewport,
		subs:     make(map[uint64]func(model.Point)),
	}
}

func (s *Scroller) Offset() model.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset
}

func (s *Scroller) Viewport() model.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

// Bounds is the visible rectangle in content coordinates.
func (s *Scroller) Bounds() model.Rect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.RectOf(s.offset, s.viewport)
}

// Subscribe registers fn for offset changes. The returned func is idempotent.
// Handlers run on the goroutine that moved the offset, outside the scroller lock.
func (s *Scroller) Subscribe(fn func(model.Point)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *Scroller) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// ScrollTo moves to p (clamped). Subscribers are notified only when the offset
// actually changes.
func (s *Scroller) ScrollTo(p model.Point) model.Point {
	s.mu.Lock()
	next := s.clamp(p)
	if next == s.offset {
		s.mu.Unlock()
		return next
	}
	s.offset = next
	fns := make([]func(model.Point), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
	return next
}

func (s *Scroller) ScrollBy(dx, dy float64) model.Point {
	cur := s.Offset()
	return s.ScrollTo(model.Point{X: cur.X + dx, Y: cur.Y + dy})
}

// SetContentSize updates the scrollable area, re-clamping the offset.
func (s *Scroller) SetContentSize(content model.Size) model.Point {
	s.mu.Lock()
	s.content = content
	cur := s.offset
	s.mu.Unlock()
	return s.ScrollTo(cur)
}

func (s *Scroller) clamp(p model.Point) model.Point {
	maxX := max(s.content.W-s.viewport.W, 0)
	maxY := max(s.content.H-s.viewport.H, 0)
	return model.Point{
		X: min(max(p.X, 0), maxX),
		Y: min(max(p.Y, 0), maxY),
	}
}
