// Package program is the compiled, runnable form of an XPath expression: a
// table of InlineFunctions (one per inline-function-expression or [] map/
// array constructor lambda the compiler introduces, plus the top-level
// expression as the last entry), modeled on go-dws's separation between
// FunctionObject (static metadata) and Chunk (its code), generalized since
// XPath programs are a flat function table rather than a single script
// entry point with nested procedure declarations.
package program

import (
	"xpath31/internal/bytecode"
	"xpath31/pkg/xot"
)

// StepKind distinguishes the path-step varieties OpAxisStep dispatches on.
type StepKind byte

const (
	StepChild StepKind = iota
	StepDescendant
	StepDescendantOrSelf
	StepParent
	StepAncestor
	StepAncestorOrSelf
	StepFollowing
	StepFollowingSibling
	StepPreceding
	StepPrecedingSibling
	StepSelf
	StepAttribute
	StepNamespace
)

// Step describes one compiled path step: which axis to iterate and what
// node test to apply, referenced from OpAxisStep by index into the
// InlineFunction's Steps table (keeping the instruction itself a fixed
// 16-bit operand regardless of how complex the node test is).
type Step struct {
	Axis     StepKind
	NameTest string      // "" means no name test (a wildcard or kind test only)
	KindTest xot.NodeKind // NodeKindAny means any kind
}

// CastType describes a SequenceType target for OpCastAs/OpCastableAs/
// OpInstanceOf/OpTreatAs, referenced by index from the InlineFunction's
// CastTypes table for the same reason Step is table-indexed.
type CastType struct {
	AtomicKind   string // e.g. "xs:integer"; resolved against pkg/atomic by the interpreter
	Occurrence   Occurrence
	IsSequenceOf bool // true for "item()*" style tests rather than a single atomic type
}

// Occurrence is the sequence-type occurrence indicator (spec.md
// supplemented feature, grounded on xee-interpreter's
// src/sequence/occurrence.rs: ExactlyOne / ZeroOrOne / ZeroOrMore /
// OneOrMore).
type Occurrence byte

const (
	OccurrenceExactlyOne Occurrence = iota
	OccurrenceZeroOrOne
	OccurrenceZeroOrMore
	OccurrenceOneOrMore
)

func (o Occurrence) String() string {
	switch o {
	case OccurrenceExactlyOne:
		return ""
	case OccurrenceZeroOrOne:
		return "?"
	case OccurrenceZeroOrMore:
		return "*"
	case OccurrenceOneOrMore:
		return "+"
	}
	return ""
}

// UpvalueDef describes how a closure captures one free variable when
// OpMakeClosure constructs it: from a local slot in the creating frame
// (IsLocal true) or from an upvalue already captured by the creating
// frame's own closure (IsLocal false) — the same shape as go-dws's
// bytecode.UpvalueDef, generalized from DWScript's nested-procedure
// closures to XPath's inline-function-expression closures.
type UpvalueDef struct {
	IsLocal bool
	Index   int
}

// CallTarget describes what one OpCall instruction invokes, resolved once
// at compile time (spec.md §4.7 "resolve function by (namespace, local,
// arity)"): either a built-in the interpreter looks up in its
// pkg/library.Registry by the resolution triple, or a function the
// compiler has itself placed in this Program's function table (a
// statically declared named function or another inline-function
// expression called by its static name). OpCall's operand indexes into
// the calling InlineFunction's CallTargets table, the same table-indexed
// pattern Step and CastType use, so the instruction stays a fixed 16-bit
// operand regardless of how the callee was resolved.
type CallTarget struct {
	Namespace         string
	Local             string
	Arity             int
	IsProgramFunction bool
	FunctionIndex     int // valid when IsProgramFunction
}

// InlineFunction is one compiled function: its bytecode chunk plus the
// side tables OpAxisStep/OpCastAs/etc index into, and how it captures the
// upvalues it closes over from its defining scope (used by OpMakeClosure
// to build the Closure at the call site that constructs it).
type InlineFunction struct {
	Name         string
	ParamNames   []string
	Chunk        *bytecode.Chunk
	Steps        []Step
	CastTypes    []CastType
	CallTargets  []CallTarget
	ClosureNames []string     // names captured as upvalues, in capture order
	Upvalues     []UpvalueDef // capture descriptors, same order as ClosureNames
	LocalCount   int
}

// Program is a compiled, runnable XPath expression: every InlineFunction
// the compiler introduced, with the last entry being the top-level main
// expression (spec.md §4.5's "a Program is a vector of InlineFunctions;
// the last is main").
type Program struct {
	Functions []*InlineFunction

	// Globals names the variable bound to each OpGetGlobal slot, in slot
	// order: a context-declared external variable (spec.md §4.7) or a
	// statically declared one with no enclosing local scope. The
	// interpreter resolves each by name against the DynamicContext once,
	// before execution, rather than the compiler baking in an address
	// that depends on evaluation-time bindings it cannot see.
	Globals []string
}

// Main returns the program's entry point.
func (p *Program) Main() *InlineFunction {
	if len(p.Functions) == 0 {
		return nil
	}
	return p.Functions[len(p.Functions)-1]
}
