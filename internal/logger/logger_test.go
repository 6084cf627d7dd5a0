package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]any{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("decode %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestSlogBridge_FieldsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	zl := Build(Config{Level: "info", View: "photos", Component: "preheat"}, &buf)
	l := NewSlog(&zl).With("axis", "vertical")

	ctx := WithRequestID(context.Background(), "req-1")
	l.DebugContext(ctx, "dropped")
	l.InfoContext(ctx, "kept", "added", 3, "ratio", 0.5, "enabled", true)

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("lines=%d want 1: %s", len(lines), buf.String())
	}
	m := lines[0]
	checks := map[string]any{
		"msg":        "kept",
		"level":      "info",
		"view":       "photos",
		"component":  "preheat",
		"request_id": "req-1",
		"axis":       "vertical",
		"added":      float64(3),
		"ratio":      0.5,
		"enabled":    true,
	}
	for k, want := range checks {
		if m[k] != want {
			t.Fatalf("field %s=%v want %v (line %v)", k, m[k], want, m)
		}
	}
	if _, ok := m["timestamp"]; !ok {
		t.Fatal("missing timestamp")
	}
}

func TestBuild_DebugLevelEmitsDebug(t *testing.T) {
	var buf bytes.Buffer
	zl := Build(Config{Level: "DEBUG"}, &buf)
	NewSlog(&zl).Debug("visible")
	if !strings.Contains(buf.String(), `"msg":"visible"`) {
		t.Fatalf("debug line missing: %s", buf.String())
	}
}

func TestContextHelpers_IgnoreEmpty(t *testing.T) {
	ctx := context.Background()
	if WithView(ctx, "") != ctx || WithComponent(ctx, "") != ctx {
		t.Fatal("empty values must not wrap the context")
	}
	if id := NewID(); len(id) != 16 {
		t.Fatalf("id=%q want 16 hex chars", id)
	}
	if got := FromContext(WithRequestID(ctx, ""), nil); got == nil {
		t.Fatal("FromContext returned nil")
	}
}
