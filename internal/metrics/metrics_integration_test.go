package metrics

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mohammed-shakir/preheat-window/internal/core/model"
	"github.com/mohammed-shakir/preheat-window/internal/host"
	"github.com/mohammed-shakir/preheat-window/internal/layout"
	"github.com/mohammed-shakir/preheat-window/internal/layout/list"
	"github.com/mohammed-shakir/preheat-window/internal/sink"
	"github.com/mohammed-shakir/preheat-window/pkg/preheat"
)

func assertHasMetricLine(t *testing.T, body, metric string, wantLabels ...string) {
	t.Helper()
	for ln := range strings.SplitSeq(body, "\n") {
		if !strings.HasPrefix(ln, metric+"{") {
			continue
		}
		ok := true
		for _, s := range wantLabels {
			if !strings.Contains(ln, s) {
				ok = false
				break
			}
		}
		if ok && (len(ln) > 0 && ln[len(ln)-1] >= '0' && ln[len(ln)-1] <= '9') {
			return
		}
	}
	t.Fatalf("expected a %s line with labels %v; got:\n%s", metric, wantLabels, body)
}

func Test_PreheatMetrics_CustomRegistry_Smoke(t *testing.T) {
	p := Init(Config{Enabled: true, Build: BuildInfo{Version: "test"}})

	g, err := list.New(list.Config{Axis: model.Vertical, Sections: []int{50}, RowExtent: 10, CrossExtent: 100})
	if err != nil {
		t.Fatalf("list.New: %v", err)
	}
	sc := host.NewScroller(g.ContentSize(), model.Size{W: 100, H: 100})
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ops := sink.NewOpMetrics(p.Registerer())
	ops.Observe("redis", "apply", errors.New("down"))

	ctl, err := preheat.New(sc, layout.NewView(g, sc), &sink.Logging{Log: log, View: "feed"}, preheat.DefaultConfig(),
		preheat.WithRegisterer(p.Registerer()), preheat.WithName("feed"), preheat.WithLogger(log))
	if err != nil {
		t.Fatalf("preheat.New: %v", err)
	}
	ctl.Enable()
	sc.ScrollTo(model.Point{Y: 10}) // below threshold
	sc.ScrollTo(model.Point{Y: 100})
	ctl.Disable()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	p.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	body := rr.Body.String()
	mustContain := []string{
		`preheat_recompute_seconds_bucket`,
		`preheat_set_size{view="feed"} 0`,
		`go_goroutines`,
	}
	for _, s := range mustContain {
		if !strings.Contains(body, s) {
			t.Fatalf("expected metrics to contain %q;\n---\n%s", s, body)
		}
	}

	assertHasMetricLine(t, body, "preheat_recompute_total", `result="computed"`, `view="feed"`)
	assertHasMetricLine(t, body, "preheat_recompute_total", `result="skipped"`, `view="feed"`)
	assertHasMetricLine(t, body, "preheat_recompute_total", `result="cleared"`, `view="feed"`)
	assertHasMetricLine(t, body, "preheat_items_removed_total", `view="feed"`)
	assertHasMetricLine(t, body, "preheat_sink_ops_total", `sink="redis"`, `result="error"`)
	assertHasMetricLine(t, body, "preheat_build_info", `version="test"`)
}
