// Package xdmfunc implements the two XPath 3.1 higher-order item kinds
// that are not plain functions: maps and arrays (spec.md §5), plus the
// Function/Closure representation the interpreter calls through. Maps and
// arrays are persistent (every "put"/"put-at" returns a new value sharing
// structure with the original); since no HAMT/persistent-collection
// library appears anywhere in the example corpus, this package hand-rolls
// copy-on-write semantics atop github.com/wk8/go-ordered-map/v2 (for the
// insertion-order guarantee XDM maps make observable via map:for-each) and
// plain slices for arrays, a deliberate simplification recorded in
// DESIGN.md rather than a true structural-sharing persistent structure.
package xdmfunc

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"xpath31/pkg/atomic"
	"xpath31/pkg/sequence"
	"xpath31/pkg/xdmerr"
)

// mapKey is the canonical string form used to dedupe and look up map
// entries. Two atomic values that op:eq would consider equal (after the
// usual numeric promotion) must produce the same mapKey; this is the
// Atomic kind's numeric class plus its canonical lexical form, which holds
// for every kind this engine supports except NaN (NaN keys are permitted,
// each compares only to itself, matching spec.md §5).
func mapKey(a atomic.Atomic) string {
	if a.Kind().IsNumeric() {
		d, err := a.CastToDouble()
		if err == nil {
			if d.IsNaN() {
				return "NaN#unique"
			}
			// Canonicalize through xs:double so 1 (integer), 1.0 (decimal)
			// and 1.0e0 (double) collapse to the same key, matching
			// op:eq's numeric promotion. Values beyond double precision
			// lose distinguishing digits as map keys — a documented
			// simplification (DESIGN.md).
			return "num:" + d.String()
		}
	}
	return a.Kind().String() + ":" + a.String()
}

type mapEntry struct {
	key   atomic.Atomic
	value sequence.Sequence
}

// Map is an immutable, insertion-ordered key/value structure (spec.md §5).
// Every mutating operation (Put) returns a new Map; the underlying
// OrderedMap is copied on write so a Map handed to a caller is never
// mutated out from under it.
type Map struct {
	entries *orderedmap.OrderedMap[string, mapEntry]
}

// EmptyMap is the map with no entries.
var EmptyMap = Map{entries: orderedmap.New[string, mapEntry]()}

// Size returns the number of entries.
func (m Map) Size() int {
	if m.entries == nil {
		return 0
	}
	return m.entries.Len()
}

// Get implements map:get: looks up key, reporting whether it was present.
func (m Map) Get(key atomic.Atomic) (sequence.Sequence, bool) {
	if m.entries == nil {
		return sequence.Empty, false
	}
	e, ok := m.entries.Get(mapKey(key))
	if !ok {
		return sequence.Empty, false
	}
	return e.value, true
}

// Contains implements map:contains.
func (m Map) Contains(key atomic.Atomic) bool {
	_, ok := m.Get(key)
	return ok
}

// Put implements map:put: returns a new Map with key bound to value,
// overwriting any existing entry for an equal key while preserving its
// original insertion position (matching fn:map-put's documented behavior).
func (m Map) Put(key atomic.Atomic, value sequence.Sequence) Map {
	cp := m.clone()
	cp.entries.Set(mapKey(key), mapEntry{key: key, value: value})
	return cp
}

// Remove implements map:remove.
func (m Map) Remove(key atomic.Atomic) Map {
	cp := m.clone()
	cp.entries.Delete(mapKey(key))
	return cp
}

// Keys returns every key, in insertion order.
func (m Map) Keys() []atomic.Atomic {
	if m.entries == nil {
		return nil
	}
	out := make([]atomic.Atomic, 0, m.entries.Len())
	for pair := m.entries.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value.key)
	}
	return out
}

// ForEach calls f for every entry in insertion order, stopping at the
// first error.
func (m Map) ForEach(f func(key atomic.Atomic, value sequence.Sequence) *xdmerr.Error) *xdmerr.Error {
	if m.entries == nil {
		return nil
	}
	for pair := m.entries.Oldest(); pair != nil; pair = pair.Next() {
		if err := f(pair.Value.key, pair.Value.value); err != nil {
			return err
		}
	}
	return nil
}

// Merge implements map:merge's default ("use-first") duplicate policy:
// entries from earlier maps in the sequence win. XQDY0137 is reserved for
// the "use-first"-is-not-default strict duplicate policy, which this
// engine does not expose as an option (spec.md §5 lists map:merge options
// as a Non-goal beyond the default policy).
func Merge(maps []Map) Map {
	cp := EmptyMap.clone()
	for _, m := range maps {
		if m.entries == nil {
			continue
		}
		for pair := m.entries.Oldest(); pair != nil; pair = pair.Next() {
			if _, exists := cp.entries.Get(pair.Key); !exists {
				cp.entries.Set(pair.Key, pair.Value)
			}
		}
	}
	return cp
}

func (m Map) clone() Map {
	cp := orderedmap.New[string, mapEntry]()
	if m.entries != nil {
		for pair := m.entries.Oldest(); pair != nil; pair = pair.Next() {
			cp.Set(pair.Key, pair.Value)
		}
	}
	return Map{entries: cp}
}

// NewMap constructs a Map from key/value pairs, reporting XQDY0137 if two
// distinct input entries carry equal keys (fn:map's entries must be
// distinct, unlike Put's last-write-wins semantics).
func NewMap(keys []atomic.Atomic, values []sequence.Sequence) (Map, *xdmerr.Error) {
	m := EmptyMap.clone()
	for i, k := range keys {
		mk := mapKey(k)
		if _, exists := m.entries.Get(mk); exists {
			return Map{}, xdmerr.DuplicateMapKeyf("duplicate map key %s", k.String())
		}
		m.entries.Set(mk, mapEntry{key: k, value: values[i]})
	}
	return m, nil
}
