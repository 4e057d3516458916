package xdmfunc

import (
	"xpath31/pkg/sequence"
	"xpath31/pkg/xdmerr"
)

// Array is an immutable, 1-indexed (at the XPath surface; 0-indexed
// internally) ordered list of sequence members (spec.md §5). Every
// mutating operation copies the backing slice, giving value semantics
// without a true persistent/structural-sharing vector — the same
// simplification Map makes, recorded once in DESIGN.md for both.
type Array struct {
	members []sequence.Sequence
}

// EmptyArray is the array with no members.
var EmptyArray = Array{}

// NewArray constructs an array from its members in order.
func NewArray(members []sequence.Sequence) Array {
	cp := make([]sequence.Sequence, len(members))
	copy(cp, members)
	return Array{members: cp}
}

// Size returns the member count.
func (a Array) Size() int { return len(a.members) }

// Get implements array:get with a 1-based XPath index.
func (a Array) Get(index int) (sequence.Sequence, *xdmerr.Error) {
	if index < 1 || index > len(a.members) {
		return sequence.Empty, xdmerr.OutOfRangef("array index %d out of bounds (array has %d members)", index, len(a.members))
	}
	return a.members[index-1], nil
}

// Put implements array:put: a new Array with the member at index replaced.
func (a Array) Put(index int, value sequence.Sequence) (Array, *xdmerr.Error) {
	if index < 1 || index > len(a.members) {
		return Array{}, xdmerr.OutOfRangef("array index %d out of bounds (array has %d members)", index, len(a.members))
	}
	cp := make([]sequence.Sequence, len(a.members))
	copy(cp, a.members)
	cp[index-1] = value
	return Array{members: cp}, nil
}

// InsertBefore implements array:insert-before: a new Array with value
// inserted so it becomes member number index (1-based; index == Size()+1
// appends).
func (a Array) InsertBefore(index int, value sequence.Sequence) (Array, *xdmerr.Error) {
	if index < 1 || index > len(a.members)+1 {
		return Array{}, xdmerr.OutOfRangef("array insertion index %d out of bounds", index)
	}
	cp := make([]sequence.Sequence, 0, len(a.members)+1)
	cp = append(cp, a.members[:index-1]...)
	cp = append(cp, value)
	cp = append(cp, a.members[index-1:]...)
	return Array{members: cp}, nil
}

// Remove implements array:remove.
func (a Array) Remove(index int) (Array, *xdmerr.Error) {
	if index < 1 || index > len(a.members) {
		return Array{}, xdmerr.OutOfRangef("array index %d out of bounds (array has %d members)", index, len(a.members))
	}
	cp := make([]sequence.Sequence, 0, len(a.members)-1)
	cp = append(cp, a.members[:index-1]...)
	cp = append(cp, a.members[index:]...)
	return Array{members: cp}, nil
}

// Append implements array:append: a new Array with value added as a single
// trailing member (not flattened into it, unlike sequence concatenation).
func (a Array) Append(value sequence.Sequence) Array {
	cp := make([]sequence.Sequence, len(a.members)+1)
	copy(cp, a.members)
	cp[len(a.members)] = value
	return Array{members: cp}
}

// Members returns the array's members in order. Callers must not mutate
// the returned slice; it may alias internal storage.
func (a Array) Members() []sequence.Sequence { return a.members }

// Join implements array:join: concatenates the members of each array in
// arrs, in order, into one array.
func Join(arrs []Array) Array {
	total := 0
	for _, a := range arrs {
		total += len(a.members)
	}
	out := make([]sequence.Sequence, 0, total)
	for _, a := range arrs {
		out = append(out, a.members...)
	}
	return Array{members: out}
}

// Flatten implements the one-level case of array:flatten: concatenates
// every member sequence into one flat sequence. A member that is itself an
// array (surfaced as a function item) is passed through as a single item
// rather than recursed into; full recursive flattening requires the
// function-item call protocol in internal/interp and is layered on top of
// this by the library function, not by this package.
func (a Array) Flatten() (sequence.Sequence, *xdmerr.Error) {
	var out []sequence.Item
	for _, m := range a.members {
		items, err := m.Items()
		if err != nil {
			return sequence.Sequence{}, err
		}
		out = append(out, items...)
	}
	return sequence.Many(out), nil
}
