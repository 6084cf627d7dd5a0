// Package geometry holds small planar helpers used by the window calculator.
package geometry

import (
	"math"
	"slices"

	"github.com/mohammed-shakir/preheat-window/internal/core/model"
)

// Distance is the euclidean distance between a and b.
func Distance(a, b model.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// ClassifyDirection compares the axis coordinate of current against previous.
// Ties and an unset previous resolve to Forward.
func ClassifyDirection(current model.Point, previous model.NullPoint, axis model.Axis) model.Direction {
	if !previous.Valid {
		return model.Forward
	}
	if current.Along(axis) >= previous.Point.Along(axis) {
		return model.Forward
	}
	return model.Backward
}

// SortItems orders ids in place: ascending for Forward, descending for Backward.
func SortItems(ids []model.ItemID, dir model.Direction) {
	if dir == model.Backward {
		slices.SortStableFunc(ids, func(a, b model.ItemID) int { return b.Compare(a) })
		return
	}
	slices.SortStableFunc(ids, func(a, b model.ItemID) int { return a.Compare(b) })
}

// Dedupe drops repeated ids, keeping the first occurrence.
func Dedupe(ids []model.ItemID) []model.ItemID {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[model.ItemID]struct{}, len(ids))
	out := make([]model.ItemID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Subtract returns the members of ids not present in drop, preserving order.
func Subtract(ids, drop []model.ItemID) []model.ItemID {
	if len(drop) == 0 {
		return ids
	}
	skip := make(map[model.ItemID]struct{}, len(drop))
	for _, id := range drop {
		skip[id] = struct{}{}
	}
	out := make([]model.ItemID, 0, len(ids))
	for _, id := range ids {
		if _, ok := skip[id]; ok {
			continue
		}
		out = append(out, id)
	}
	return out
}
