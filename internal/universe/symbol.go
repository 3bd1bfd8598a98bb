package universe

import (
	"sort"
	"strings"
)

// listingSeparators are the class/series separators used by exchange listings
// and by the various price providers.
const listingSeparators = "./- "

// Normalize trims and upper-cases a raw symbol and replaces any class separator
// with sep, the separator expected by the price provider. Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string, sep rune) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(listingSeparators, r) {
			return sep
		}
		return r
	}, s)
}

// Qualify normalizes raw and appends an exchange suffix such as ".L".
// A suffix already present on raw is not doubled.
func Qualify(raw string, sep rune, suffix string) string {
	if suffix == "" {
		return Normalize(raw, sep)
	}
	base := strings.TrimSpace(raw)
	if len(base) > len(suffix) && strings.EqualFold(base[len(base)-len(suffix):], suffix) {
		base = base[:len(base)-len(suffix)]
	}
	return Normalize(base, sep) + strings.ToUpper(suffix)
}

// Snapshot is the deduplicated set of symbols in scope for one run.
type Snapshot struct {
	set map[string]struct{}
}

// NewSnapshot builds a snapshot from already-normalized symbols.
// Blank entries are ignored and case differences collapse.
func NewSnapshot(symbols ...string) *Snapshot {
	s := &Snapshot{set: make(map[string]struct{}, len(symbols))}
	s.Add(symbols...)
	return s
}

// Add inserts symbols into the snapshot.
func (s *Snapshot) Add(symbols ...string) {
	for _, sym := range symbols {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym == "" {
			continue
		}
		s.set[sym] = struct{}{}
	}
}

// Len returns the number of distinct symbols.
func (s *Snapshot) Len() int { return len(s.set) }

// Contains reports whether sym is in the snapshot.
func (s *Snapshot) Contains(sym string) bool {
	_, ok := s.set[strings.ToUpper(strings.TrimSpace(sym))]
	return ok
}

// Symbols returns the symbols in lexical order.
func (s *Snapshot) Symbols() []string {
	out := make([]string, 0, len(s.set))
	for sym := range s.set {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}
