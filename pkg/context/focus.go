package context

import "xpath31/pkg/sequence"

// Focus is the interpreter's context-item/position/size triple, pushed
// and popped around each predicate candidate's evaluation (spec.md
// §4.3, §4.4). It is a plain value type: the interpreter copies it
// on and off its focus stack rather than mutating shared
// state, so a predicate evaluated against item 3 of a sequence can never
// observe the position left behind by a sibling predicate.
type Focus struct {
	Item     sequence.Item
	Position int // 1-based, per XPath's position() contract
	Size     int
}

// NewFocus constructs a Focus for one step of an iteration over seq,
// positioned at the given 1-based index.
func NewFocus(seq sequence.Sequence, position int) Focus {
	return Focus{
		Item:     seq.At(position - 1),
		Position: position,
		Size:     seq.Len(),
	}
}
