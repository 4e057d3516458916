// Package xot defines the contract an external document-arena
// implementation must satisfy for this engine to evaluate paths over it.
// XPath 3.1 evaluates against an XDM data model instance, but building and
// owning that tree (parsing XML, maintaining document order, namespace
// tables) is deliberately out of scope for this module (spec.md §1
// Non-goals): the engine consumes node handles through this interface and
// never constructs nodes itself. A host application supplies the
// implementation, the same "external collaborator" shape go-dws uses for
// its FFI/host-call boundary.
package xot

import "xpath31/pkg/atomic"

// NodeKind tags the seven XDM node kinds.
type NodeKind byte

const (
	NodeKindAny NodeKind = iota // wildcard node() test, matches every kind below
	NodeKindDocument
	NodeKindElement
	NodeKindAttribute
	NodeKindText
	NodeKindComment
	NodeKindProcessingInstruction
	NodeKindNamespace
)

func (k NodeKind) String() string {
	switch k {
	case NodeKindDocument:
		return "document-node"
	case NodeKindElement:
		return "element"
	case NodeKindAttribute:
		return "attribute"
	case NodeKindText:
		return "text"
	case NodeKindComment:
		return "comment"
	case NodeKindProcessingInstruction:
		return "processing-instruction"
	case NodeKindNamespace:
		return "namespace"
	}
	return "node"
}

// Axis enumerates the thirteen XPath axes (spec.md §4.4).
type Axis byte

const (
	AxisChild Axis = iota
	AxisDescendant
	AxisDescendantOrSelf
	AxisParent
	AxisAncestor
	AxisAncestorOrSelf
	AxisFollowing
	AxisFollowingSibling
	AxisPreceding
	AxisPrecedingSibling
	AxisSelf
	AxisAttribute
	AxisNamespace
)

// Node is the full contract the interpreter's path evaluator needs from a
// document-arena node handle: identity comparable by Go equality (==),
// enough accessors to compute axes, document order, and atomization.
type Node interface {
	// Kind reports the node's XDM kind.
	Kind() NodeKind

	// Name returns the node's expanded QName; zero value for kinds without
	// a name (text, comment, document).
	Name() atomic.QName

	// Parent returns the node's parent, or nil/false at the document root
	// or for a parentless node.
	Parent() (Node, bool)

	// Children returns the node's children in document order (element and
	// document nodes only; empty for every other kind).
	Children() []Node

	// Attributes returns the node's attribute nodes (element nodes only).
	Attributes() []Node

	// Namespaces returns the in-scope namespace nodes (element nodes only).
	Namespaces() []Node

	// DocumentOrderKey returns a pair (docID, order) such that comparing
	// two nodes' keys lexicographically (docID first) yields document
	// order across the whole forest the engine was given, per spec.md §4.4
	// "document order is defined across every document the dynamic context
	// references, not just within one tree".
	DocumentOrderKey() (docID uint64, order uint64)

	// StringValue returns the node's string-value (spec.md §5).
	StringValue() string

	// TypedValue returns the node's atomized typed value; for an untyped
	// (schema-less) node this is a single Untyped atomic wrapping
	// StringValue().
	TypedValue() []atomic.Atomic
}

// Document is the root handle a DynamicContext is constructed from: the
// document node itself plus a stable document identifier used by
// DocumentOrderKey to order nodes across multiple documents (spec.md §4.4
// fn:doc / collections may pull in more than one).
type Document interface {
	Root() Node
	ID() uint64
}
