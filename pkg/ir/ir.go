// Package ir defines the intermediate representation internal/compiler
// consumes: an expression tree built by a translator external to this
// module (an XPath 3.1 parser is out of scope, spec.md §1 Non-goals) from
// a parsed query into the shapes spec.md §4.5 names as the compiler's
// input — variables by name, literal atomics, binary ops, if, for, let,
// sequence construction, step paths, function definitions, and function
// calls.
//
// Every node shape here mirrors go-dws's ast package (a Node base
// interface carrying position/debug information, with expression kinds as
// concrete struct types implementing a marker method), generalized from
// a statement-and-expression language to XPath's pure expression tree: an
// IR program is a single Expr, and binding forms (let, for, inline
// function) are themselves expressions rather than statements.
package ir

import "xpath31/pkg/span"

// Node is the base interface every IR node implements.
type Node interface {
	// Span reports the node's source range, carried through to the
	// instructions the compiler emits for it (spec.md §4.5 "span
	// preservation").
	Span() span.Span

	// String renders the node for debugging and compiler error messages.
	String() string
}

// Expr is any IR node that denotes a (possibly empty) XDM sequence.
type Expr interface {
	Node
	exprNode()
}

// baseNode factors the Span bookkeeping every concrete Expr embeds,
// matching the embedding go-dws's ast nodes use for their Token field.
type baseNode struct {
	Span_ span.Span
}

func (b baseNode) Span() span.Span { return b.Span_ }
