package keys

import (
	"errors"
	"strings"
	"testing"

	"github.com/mohammed-shakir/preheat-window/internal/core/model"
)

func TestSetKey_Shape(t *testing.T) {
	k := SetKey("  photo grid  ")
	if !strings.HasPrefix(k, "preheat:photo_grid:set:v=") {
		t.Fatalf("key=%q", k)
	}
	if got := len(k) - strings.LastIndex(k, "v=") - 2; got != 16 {
		t.Fatalf("hash suffix len=%d want 16 (%q)", got, k)
	}
}

func TestKeys_DistinctAfterSanitize(t *testing.T) {
	a, b := SetKey("feed/a"), SetKey("feed?a")
	if a == b {
		t.Fatalf("sanitized views collided: %q", a)
	}
	if SetKey("feed") == QueueKey("feed") {
		t.Fatal("set and queue keys must differ")
	}
}

func TestKey_EmptyViewAndTruncation(t *testing.T) {
	if k := QueueKey(""); !strings.HasPrefix(k, "preheat:default:queue:") {
		t.Fatalf("key=%q", k)
	}
	long := strings.Repeat("x", 200)
	k := SetKey(long)
	if strings.Contains(k, strings.Repeat("x", maxViewLen+1)) {
		t.Fatalf("view not truncated: %q", k)
	}
}

func TestMember_RoundTrip(t *testing.T) {
	ids := []model.ItemID{{Section: 0, Index: 0}, {Section: 3, Index: 117}}
	got, err := ParseMembers(Members(ids))
	if err != nil {
		t.Fatalf("ParseMembers: %v", err)
	}
	if len(got) != 2 || got[0] != ids[0] || got[1] != ids[1] {
		t.Fatalf("got=%v", got)
	}
}

func TestParseMember_Errors(t *testing.T) {
	for _, s := range []string{"", "12", "a:1", "1:b", "1:"} {
		if _, err := ParseMember(s); !errors.Is(err, ErrBadMember) {
			t.Fatalf("ParseMember(%q) err=%v want ErrBadMember", s, err)
		}
	}
}
