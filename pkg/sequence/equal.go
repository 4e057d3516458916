package sequence

import "xpath31/pkg/atomic"

// DeepEqual implements fn:deep-equal's default (no options) comparison:
// same length, and pairwise deep-equal items. Atomic items compare via
// value equality (NaN equals NaN here, unlike op:eq, per fn:deep-equal's
// special case); node items compare by string-value only, a simplification,
// since full deep-equal node comparison requires
// structural tree comparison that belongs to pkg/xot's eventual
// implementation, not this package.
func DeepEqual(a, b Sequence, collator atomic.Collator) (bool, error) {
	if a.Len() != b.Len() {
		return false, nil
	}
	ai, err := a.Items()
	if err != nil {
		return false, err
	}
	bi, err := b.Items()
	if err != nil {
		return false, err
	}
	for i := range ai {
		eq, eerr := deepEqualItem(ai[i], bi[i], collator)
		if eerr != nil {
			return false, eerr
		}
		if !eq {
			return false, nil
		}
	}
	return true, nil
}

func deepEqualItem(a, b Item, collator atomic.Collator) (bool, error) {
	if a.Kind() != b.Kind() {
		return false, nil
	}
	switch a.Kind() {
	case ItemAtomic:
		av, bv := a.Atomic(), b.Atomic()
		if av.IsNaN() && bv.IsNaN() {
			return true, nil
		}
		// No dynamic context is available here, so offset-naive temporal
		// operands compare as UTC; callers needing the configured implicit
		// timezone should resolve it before invoking deep-equal.
		eq, err := av.Eq(bv, collator, 0)
		if err != nil {
			// Values of incomparable type/kind are simply unequal for
			// fn:deep-equal, which never raises a comparison error.
			return false, nil
		}
		return eq, nil
	case ItemNode:
		return a.Node().StringValue() == b.Node().StringValue(), nil
	case ItemFunction:
		return false, nil // function items are never deep-equal (spec.md §5)
	}
	return false, nil
}
