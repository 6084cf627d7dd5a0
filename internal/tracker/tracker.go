// Package tracker owns the current preheat set and computes deltas against
// newly proposed candidate sets.
package tracker

import (
	"slices"

	"github.com/mohammed-shakir/preheat-window/internal/core/model"
	"github.com/mohammed-shakir/preheat-window/internal/geometry"
)

// Delta is the change between two successive preheat sets. Added is ordered
// by scroll direction so items nearest the leading edge come first.
type Delta struct {
	Added   []model.ItemID
	Removed []model.ItemID
}

func (d Delta) Empty() bool { return len(d.Added) == 0 && len(d.Removed) == 0 }

// Tracker is not safe for concurrent use; callers serialize access.
type Tracker struct {
	order []model.ItemID
	set   map[model.ItemID]struct{}
}

func New() *Tracker {
	return &Tracker{set: make(map[model.ItemID]struct{})}
}

// Propose replaces the current set with candidates and returns what changed.
func (t *Tracker) Propose(candidates []model.ItemID, dir model.Direction) Delta {
	next := geometry.Dedupe(candidates)
	geometry.SortItems(next, dir)

	nextSet := make(map[model.ItemID]struct{}, len(next))
	for _, id := range next {
		nextSet[id] = struct{}{}
	}

	added := make([]model.ItemID, 0, len(next))
	for _, id := range next {
		if _, ok := t.set[id]; !ok {
			added = append(added, id)
		}
	}

	var removed []model.ItemID
	for _, id := range t.order {
		if _, ok := nextSet[id]; !ok {
			removed = append(removed, id)
		}
	}
	// removal order carries no meaning; keep it stable for consumers and tests
	slices.SortFunc(removed, func(a, b model.ItemID) int { return a.Compare(b) })

	t.order = next
	t.set = nextSet
	return Delta{Added: added, Removed: removed}
}

// Reset forgets the current set without producing a delta.
func (t *Tracker) Reset() {
	t.order = nil
	t.set = make(map[model.ItemID]struct{})
}

// Current returns a copy of the set in its last computed order.
func (t *Tracker) Current() []model.ItemID {
	return slices.Clone(t.order)
}

func (t *Tracker) Len() int { return len(t.order) }

func (t *Tracker) Contains(id model.ItemID) bool {
	_, ok := t.set[id]
	return ok
}
