package tracker

import (
	"slices"
	"testing"

	"github.com/mohammed-shakir/preheat-window/internal/core/model"
)

var (
	itemA = model.ItemID{Section: 0, Index: 1}
	itemB = model.ItemID{Section: 0, Index: 2}
	itemC = model.ItemID{Section: 0, Index: 3}
	itemD = model.ItemID{Section: 0, Index: 4}
)

func TestPropose_AddedAndRemoved(t *testing.T) {
	tr := New()
	first := tr.Propose([]model.ItemID{itemC, itemA, itemB}, model.Forward)
	if !slices.Equal(first.Added, []model.ItemID{itemA, itemB, itemC}) {
		t.Fatalf("initial added=%v", first.Added)
	}
	if len(first.Removed) != 0 {
		t.Fatalf("initial removed=%v want none", first.Removed)
	}

	d := tr.Propose([]model.ItemID{itemB, itemC, itemD}, model.Forward)
	if !slices.Equal(d.Added, []model.ItemID{itemD}) {
		t.Fatalf("added=%v want [D]", d.Added)
	}
	if !slices.Equal(d.Removed, []model.ItemID{itemA}) {
		t.Fatalf("removed=%v want [A]", d.Removed)
	}
	if got := tr.Current(); !slices.Equal(got, []model.ItemID{itemB, itemC, itemD}) {
		t.Fatalf("current=%v want [B C D]", got)
	}
}

func TestPropose_BackwardOrdersAddedDescending(t *testing.T) {
	tr := New()
	d := tr.Propose([]model.ItemID{itemA, itemC, {Section: 1, Index: 0}, itemB}, model.Backward)
	want := []model.ItemID{{Section: 1, Index: 0}, itemC, itemB, itemA}
	if !slices.Equal(d.Added, want) {
		t.Fatalf("added=%v want %v", d.Added, want)
	}
	if !slices.Equal(tr.Current(), want) {
		t.Fatalf("current=%v want %v", tr.Current(), want)
	}
}

func TestPropose_DeduplicatesCandidates(t *testing.T) {
	tr := New()
	d := tr.Propose([]model.ItemID{itemA, itemA, itemB, itemA}, model.Forward)
	if !slices.Equal(d.Added, []model.ItemID{itemA, itemB}) {
		t.Fatalf("added=%v", d.Added)
	}
	if tr.Len() != 2 {
		t.Fatalf("len=%d want 2", tr.Len())
	}
}

func TestPropose_SameSetIsEmptyDelta(t *testing.T) {
	tr := New()
	tr.Propose([]model.ItemID{itemA, itemB}, model.Forward)
	d := tr.Propose([]model.ItemID{itemB, itemA}, model.Backward)
	if !d.Empty() {
		t.Fatalf("expected empty delta, got %+v", d)
	}
	// order follows the latest direction
	if !slices.Equal(tr.Current(), []model.ItemID{itemB, itemA}) {
		t.Fatalf("current=%v", tr.Current())
	}
}

func TestPropose_EmptyCandidatesRemovesAll(t *testing.T) {
	tr := New()
	tr.Propose([]model.ItemID{itemC, itemA, itemB}, model.Backward)
	d := tr.Propose(nil, model.Forward)
	if len(d.Added) != 0 {
		t.Fatalf("added=%v want none", d.Added)
	}
	if !slices.Equal(d.Removed, []model.ItemID{itemA, itemB, itemC}) {
		t.Fatalf("removed=%v", d.Removed)
	}
	if tr.Len() != 0 {
		t.Fatalf("len=%d want 0", tr.Len())
	}
}

func TestReset_ClearsWithoutDelta(t *testing.T) {
	tr := New()
	tr.Propose([]model.ItemID{itemA, itemB}, model.Forward)
	tr.Reset()
	if tr.Len() != 0 || tr.Contains(itemA) {
		t.Fatalf("reset left state behind: %v", tr.Current())
	}
	// after reset every candidate is new again
	d := tr.Propose([]model.ItemID{itemA}, model.Forward)
	if !slices.Equal(d.Added, []model.ItemID{itemA}) || len(d.Removed) != 0 {
		t.Fatalf("delta after reset=%+v", d)
	}
}

func TestCurrent_ReturnsCopy(t *testing.T) {
	tr := New()
	tr.Propose([]model.ItemID{itemA}, model.Forward)
	cur := tr.Current()
	cur[0] = itemD
	if !tr.Contains(itemA) || tr.Current()[0] != itemA {
		t.Fatal("mutating Current() result leaked into tracker")
	}
}
