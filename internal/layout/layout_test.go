package layout_test

import (
	"math"
	"slices"
	"testing"

	"github.com/mohammed-shakir/preheat-window/internal/core/model"
	"github.com/mohammed-shakir/preheat-window/internal/host"
	"github.com/mohammed-shakir/preheat-window/internal/layout"
	"github.com/mohammed-shakir/preheat-window/internal/layout/list"
)

func TestView_VisibleItemsFollowScroller(t *testing.T) {
	g, err := list.New(list.Config{Axis: model.Vertical, Sections: []int{100}, RowExtent: 10, CrossExtent: 50})
	if err != nil {
		t.Fatalf("list.New: %v", err)
	}
	s := host.NewScroller(g.ContentSize(), model.Size{W: 50, H: 30})
	v := layout.NewView(g, s)

	want := []model.ItemID{{Index: 0}, {Index: 1}, {Index: 2}}
	if got := v.CurrentlyVisibleItems(); !slices.Equal(got, want) {
		t.Fatalf("visible=%v want %v", got, want)
	}
	s.ScrollTo(model.Point{Y: 95})
	want = []model.ItemID{{Index: 9}, {Index: 10}, {Index: 11}, {Index: 12}}
	if got := v.CurrentlyVisibleItems(); !slices.Equal(got, want) {
		t.Fatalf("visible=%v want %v", got, want)
	}
	if v.ViewportExtent(model.Vertical) != 30 || v.ViewportExtent(model.Horizontal) != 50 {
		t.Fatal("viewport extent mismatch")
	}
	if v.Axis() != model.Vertical || v.Geometry() != layout.Geometry(g) {
		t.Fatal("view does not expose its geometry")
	}
}

func TestLines(t *testing.T) {
	lo, hi, ok := layout.Lines(25, 45, 0, 10, 10, 100)
	if !ok || lo > 2 || hi < 4 {
		t.Fatalf("lo=%d hi=%d ok=%v must cover lines 2..4", lo, hi, ok)
	}
	if _, _, ok := layout.Lines(25, 45, 0, 10, 10, 0); ok {
		t.Fatal("no lines must report !ok")
	}
	if _, _, ok := layout.Lines(2000, 2100, 0, 10, 10, 100); ok {
		t.Fatal("range past the end must report !ok")
	}
	if _, _, ok := layout.Lines(-50, -10, 0, 10, 10, 100); ok {
		t.Fatal("range before the start must report !ok")
	}
}

func TestLines_HugeAndInfiniteEdges(t *testing.T) {
	cases := []struct {
		name   string
		a0, a1 float64
		lo, hi int
	}{
		{"huge end", 100, 1e23, 9, 99},
		{"infinite end", 100, math.Inf(1), 9, 99},
		{"infinite start", math.Inf(-1), 100, 0, 10},
		{"both infinite", math.Inf(-1), math.Inf(1), 0, 99},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lo, hi, ok := layout.Lines(tc.a0, tc.a1, 0, 10, 10, 100)
			if !ok || lo != tc.lo || hi != tc.hi {
				t.Fatalf("lo=%d hi=%d ok=%v want %d..%d", lo, hi, ok, tc.lo, tc.hi)
			}
		})
	}
	if _, _, ok := layout.Lines(math.NaN(), 100, 0, 10, 10, 100); ok {
		t.Fatal("NaN edge must report !ok")
	}
}
