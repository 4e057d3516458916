// Package sequence implements the XDM sequence: XPath's single value model,
// where every expression evaluates to an ordered, flattened list of zero or
// more items (spec.md §5). A Sequence is immutable; every operation that
// "changes" one returns a new Sequence, following the same value-semantics
// discipline as pkg/atomic.
package sequence

import (
	"xpath31/pkg/atomic"
	"xpath31/pkg/xdmerr"
)

// ItemKind tags which of the three item varieties (spec.md §5: atomic
// value, node, function item) an Item holds.
type ItemKind byte

const (
	ItemAtomic ItemKind = iota
	ItemNode
	ItemFunction
)

// Node is the minimal surface a document-arena node handle must expose for
// sequence-level operations (document order, atomization). The full axis
// and accessor contract lives in pkg/xot; Node here is intentionally
// narrow so this package does not need to import pkg/xot's larger surface.
type Node interface {
	// DocumentOrderKey returns a value two nodes can compare to determine
	// document order; equal nodes must return equal keys.
	DocumentOrderKey() (docID uint64, order uint64)
	// TypedValue returns the node's atomized value (spec.md §5 atomization:
	// element/document nodes may atomize to more than one atomic value,
	// hence a slice).
	TypedValue() []atomic.Atomic
	// StringValue returns the node's string-value, used by fn:string and
	// by atomization fallback when no richer typed value is available.
	StringValue() string
}

// Callable is the minimal surface a function item exposes to this package:
// enough to report arity for effective-boolean-value/atomization error
// messages. The calling convention itself lives in pkg/xdmfunc and
// internal/interp; Sequence never invokes a function, so the cycle
// xdmfunc -> sequence -> xdmfunc never closes.
type Callable interface {
	Arity() int
	Name() string
}

// Item is a single member of a Sequence: exactly one of an Atomic, a Node,
// or a Callable, tagged by Kind.
type Item struct {
	kind     ItemKind
	atomic   atomic.Atomic
	node     Node
	function Callable
}

// AtomicItem wraps an atomic value as a sequence item.
func AtomicItem(a atomic.Atomic) Item { return Item{kind: ItemAtomic, atomic: a} }

// NodeItem wraps a node handle as a sequence item.
func NodeItem(n Node) Item { return Item{kind: ItemNode, node: n} }

// FunctionItem wraps a callable as a sequence item.
func FunctionItem(f Callable) Item { return Item{kind: ItemFunction, function: f} }

// Kind reports which variety of item this is.
func (it Item) Kind() ItemKind { return it.kind }

// Atomic returns the wrapped atomic value; callers must check Kind first.
func (it Item) Atomic() atomic.Atomic { return it.atomic }

// Node returns the wrapped node handle; callers must check Kind first.
func (it Item) Node() Node { return it.node }

// Function returns the wrapped callable; callers must check Kind first.
func (it Item) Function() Callable { return it.function }

// Atomize implements fn:data / the atomization step (spec.md §5): nodes
// expand to their typed value (possibly >1 atomic value for list-typed
// content), atomic items pass through unchanged, and function items cannot
// be atomized (FOTY0013 in the full spec; this module reports it as a type
// error since that code is outside the error surface spec.md §6 lists).
func (it Item) Atomize() ([]atomic.Atomic, *xdmerr.Error) {
	switch it.kind {
	case ItemAtomic:
		return []atomic.Atomic{it.atomic}, nil
	case ItemNode:
		return it.node.TypedValue(), nil
	case ItemFunction:
		return nil, xdmerr.Typef("a function item has no typed value and cannot be atomized")
	}
	return nil, xdmerr.Typef("unknown item kind")
}
