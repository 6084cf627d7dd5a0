// Package keys builds the Redis key names and member encodings used by the
// preheat sinks.
package keys

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"

	"github.com/mohammed-shakir/preheat-window/internal/core/model"
)

const prefix = "preheat"

const maxViewLen = 64

var ErrBadMember = errors.New("keys: malformed item member")

// SetKey names the Redis set holding a view's current preheat set.
func SetKey(view string) string { return key(view, "set") }

// QueueKey names the Redis list of items queued for warming, in the order the
// controller reported them.
func QueueKey(view string) string { return key(view, "queue") }

func key(view, kind string) string {
	raw := strings.TrimSpace(view)
	safe := sanitize(raw)
	if len(safe) > maxViewLen {
		safe = safe[:maxViewLen]
	}
	// the hash keeps views distinct after sanitizing and truncation
	return fmt.Sprintf("%s:%s:%s:v=%016x", prefix, safe, kind, xxhash.Sum64String(raw))
}

func sanitize(s string) string {
	if s == "" {
		return "default"
	}
	var b strings.Builder
	b.Grow(len(s))
	var prev rune
	for _, r := range s {
		var out rune
		switch {
		case unicode.IsSpace(r):
			out = '_'
		case isAlphaNum(r) || r == '_' || r == '-' || r == '.':
			out = r
		default:
			out = '-'
		}
		if (out == '_' || out == '-') && out == prev {
			continue
		}
		b.WriteRune(out)
		prev = out
	}
	return b.String()
}

func isAlphaNum(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// Member encodes an item as "section:index".
func Member(id model.ItemID) string { return id.String() }

func Members(ids []model.ItemID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = Member(id)
	}
	return out
}

func ParseMember(s string) (model.ItemID, error) {
	sec, idx, ok := strings.Cut(s, ":")
	if !ok {
		return model.ItemID{}, fmt.Errorf("%w: %q", ErrBadMember, s)
	}
	si, err := strconv.Atoi(sec)
	if err != nil {
		return model.ItemID{}, fmt.Errorf("%w: section of %q: %w", ErrBadMember, s, err)
	}
	ii, err := strconv.Atoi(idx)
	if err != nil {
		return model.ItemID{}, fmt.Errorf("%w: index of %q: %w", ErrBadMember, s, err)
	}
	return model.ItemID{Section: si, Index: ii}, nil
}

func ParseMembers(ss []string) ([]model.ItemID, error) {
	out := make([]model.ItemID, 0, len(ss))
	for _, s := range ss {
		id, err := ParseMember(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
