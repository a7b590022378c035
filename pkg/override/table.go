package override

import (
	"cmp"
	"slices"
	"strings"

	"github.com/dmitrymomot/waffle/pkg/feature"
)

// Sep separates the type and method parts of a compound key.
const Sep = "::"

// Entry is one source -> target pair of a Table.
type Entry struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Table is a merged override mapping. It is immutable once built and safe
// for concurrent reads.
type Table struct {
	entries map[string]string
}

// BuildTable merges the mapping picked from each enabled feature in order.
// On a key collision the later feature wins. Disabled features and
// malformed entries contribute nothing.
func BuildTable(features []feature.Feature, pick func(feature.Feature) map[string]string) *Table {
	t := &Table{entries: make(map[string]string)}
	for _, f := range features {
		if f == nil || !f.Enabled() {
			continue
		}
		for src, dst := range pick(f) {
			if !validKey(src) || !validKey(dst) {
				continue
			}
			t.entries[src] = dst
		}
	}
	return t
}

// validKey accepts "Type" and "Type::method" with non-empty parts.
func validKey(key string) bool {
	if strings.TrimSpace(key) == "" {
		return false
	}
	typ, method, found := strings.Cut(key, Sep)
	if typ == "" {
		return false
	}
	return !found || method != ""
}

// Resolve looks key up exactly, then by its type part. Absence is reported
// with ok == false and is the normal outcome.
func (t *Table) Resolve(key string) (target string, ok bool) {
	if t == nil || len(t.entries) == 0 {
		return "", false
	}
	if target, ok = t.entries[key]; ok {
		return target, true
	}
	if typ, _, found := strings.Cut(key, Sep); found && typ != "" {
		target, ok = t.entries[typ]
	}
	return target, ok
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns a copy of the table ordered by source.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, 0, len(t.entries))
	for src, dst := range t.entries {
		out = append(out, Entry{Source: src, Target: dst})
	}
	slices.SortFunc(out, func(a, b Entry) int { return cmp.Compare(a.Source, b.Source) })
	return out
}

// SplitKey splits a compound key into its type and method parts.
// The method is empty for a bare type.
func SplitKey(key string) (typ, method string) {
	typ, method, _ = strings.Cut(key, Sep)
	return typ, method
}
