package sequence

import (
	"xpath31/pkg/atomic"
	"xpath31/pkg/xdmerr"
)

// MaxRangeMaterialize bounds how large a Range sequence (from the "to"
// operator) can be expanded into a concrete item slice. Ranges wider than
// this raise FOAR0002-equivalent overflow rather than allocate an
// unreasonable slice; 2^25 (~33M) comfortably covers realistic XPath
// "1 to N" loops while still catching runaway ranges (spec.md §5).
const MaxRangeMaterialize = 1 << 25

type seqKind byte

const (
	seqEmpty seqKind = iota
	seqOne
	seqRange
	seqMany
)

// Sequence is an immutable, flattened, ordered list of items (spec.md §5).
// It has four representations chosen by the constructor used: Empty, a
// single item, a lazy integer range (kept unmaterialized until needed,
// since "1 to 1000000" is common in XPath and need not allocate), or a
// general materialized slice.
type Sequence struct {
	kind    seqKind
	one     Item
	rangeLo int64
	rangeHi int64
	items   []Item
}

// Empty is the empty sequence.
var Empty = Sequence{kind: seqEmpty}

// One wraps a single item as a length-1 sequence.
func One(it Item) Sequence { return Sequence{kind: seqOne, one: it} }

// OneAtomic is a convenience for the common case of a single atomic value.
func OneAtomic(a atomic.Atomic) Sequence { return One(AtomicItem(a)) }

// Range constructs the sequence produced by "lo to hi" (empty if lo > hi),
// kept lazily unmaterialized.
func Range(lo, hi int64) Sequence {
	if lo > hi {
		return Empty
	}
	return Sequence{kind: seqRange, rangeLo: lo, rangeHi: hi}
}

// Many constructs a sequence from an already-flattened item slice. Callers
// must ensure items contains no nested sequences (flattening happens at
// construction time throughout this package, never lazily).
func Many(items []Item) Sequence {
	switch len(items) {
	case 0:
		return Empty
	case 1:
		return One(items[0])
	}
	return Sequence{kind: seqMany, items: items}
}

// Len reports the sequence's item count without materializing a Range.
func (s Sequence) Len() int {
	switch s.kind {
	case seqEmpty:
		return 0
	case seqOne:
		return 1
	case seqRange:
		return int(s.rangeHi - s.rangeLo + 1)
	case seqMany:
		return len(s.items)
	}
	return 0
}

// IsEmpty reports whether the sequence has no items.
func (s Sequence) IsEmpty() bool { return s.Len() == 0 }

// At returns the i'th item (0-based), materializing a Range item lazily.
func (s Sequence) At(i int) Item {
	switch s.kind {
	case seqOne:
		return s.one
	case seqRange:
		return AtomicItem(atomic.IntegerFromInt64(s.rangeLo + int64(i)))
	case seqMany:
		return s.items[i]
	}
	panic("sequence: At called on empty sequence")
}

// Items materializes the sequence as a concrete item slice. Ranges wider
// than MaxRangeMaterialize raise an overflow error rather than allocate.
func (s Sequence) Items() ([]Item, *xdmerr.Error) {
	switch s.kind {
	case seqEmpty:
		return nil, nil
	case seqOne:
		return []Item{s.one}, nil
	case seqRange:
		n := s.rangeHi - s.rangeLo + 1
		if n > MaxRangeMaterialize {
			return nil, xdmerr.Overflowf("range %d to %d exceeds the maximum materializable sequence length", s.rangeLo, s.rangeHi)
		}
		items := make([]Item, n)
		for i := int64(0); i < n; i++ {
			items[i] = AtomicItem(atomic.IntegerFromInt64(s.rangeLo + i))
		}
		return items, nil
	case seqMany:
		return s.items, nil
	}
	return nil, nil
}

// Concat implements sequence construction via the comma operator: flattens
// its arguments into one sequence (spec.md §5 "concatenation never
// nests").
func Concat(parts ...Sequence) (Sequence, *xdmerr.Error) {
	total := 0
	for _, p := range parts {
		total += p.Len()
	}
	if total == 0 {
		return Empty, nil
	}
	out := make([]Item, 0, total)
	for _, p := range parts {
		items, err := p.Items()
		if err != nil {
			return Sequence{}, err
		}
		out = append(out, items...)
	}
	return Many(out), nil
}

// Atomize implements fn:data over a whole sequence: every item's typed
// value, concatenated.
func (s Sequence) Atomize() (Sequence, *xdmerr.Error) {
	items, err := s.Items()
	if err != nil {
		return Sequence{}, err
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		values, aerr := it.Atomize()
		if aerr != nil {
			return Sequence{}, aerr
		}
		for _, v := range values {
			out = append(out, AtomicItem(v))
		}
	}
	return Many(out), nil
}

// EffectiveBooleanValue implements fn:boolean's coercion rules (spec.md §5):
// empty sequence is false; a sequence starting with a node is true; a
// single atomic boolean/string/numeric follows its own rules; any other
// shape (e.g. two atomics, or a function item) is a type error.
func (s Sequence) EffectiveBooleanValue() (bool, *xdmerr.Error) {
	if s.IsEmpty() {
		return false, nil
	}
	first := s.At(0)
	if first.Kind() == ItemNode {
		return true, nil
	}
	if s.Len() > 1 {
		return false, xdmerr.Typef("effective boolean value is undefined for a sequence of more than one item unless the first item is a node")
	}
	if first.Kind() == ItemFunction {
		return false, xdmerr.Typef("effective boolean value is undefined for a function item")
	}
	a := first.Atomic()
	switch a.Kind() {
	case atomic.KindBoolean:
		return a.BoolValue(), nil
	case atomic.KindString, atomic.KindUntyped:
		return a.String() != "", nil
	}
	if a.Kind().IsNumeric() {
		if a.IsNaN() {
			return false, nil
		}
		eq, eerr := a.Eq(zeroOf(a), nil, 0)
		if eerr != nil {
			return false, eerr
		}
		return !eq, nil
	}
	return false, xdmerr.Typef("effective boolean value is undefined for a value of type %s", a.Kind())
}

func zeroOf(a atomic.Atomic) atomic.Atomic {
	switch a.Kind() {
	case atomic.KindInteger:
		return atomic.IntegerFromInt64(0)
	case atomic.KindDecimal:
		z, _ := atomic.IntegerFromInt64(0).CastToDecimal()
		return z
	case atomic.KindFloat:
		return atomic.Float(0)
	case atomic.KindDouble:
		return atomic.Double(0)
	}
	return a
}
