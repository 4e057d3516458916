package ir

import (
	"fmt"
	"strings"

	"xpath31/pkg/atomic"
	"xpath31/pkg/program"
	"xpath31/pkg/span"
	"xpath31/pkg/xot"
)

// Literal is a literal atomic value (an integer, string, double, ...
// literal in the source query).
type Literal struct {
	baseNode
	Value atomic.Atomic
}

func NewLiteral(sp span.Span, v atomic.Atomic) *Literal { return &Literal{baseNode{sp}, v} }
func (l *Literal) exprNode()                            {}
func (l *Literal) String() string                       { return l.Value.String() }

// EmptySequence is the literal empty-sequence expression "()".
type EmptySequence struct {
	baseNode
}

func NewEmptySequence(sp span.Span) *EmptySequence { return &EmptySequence{baseNode{sp}} }
func (e *EmptySequence) exprNode()                 {}
func (e *EmptySequence) String() string            { return "()" }

// VarRef references an in-scope variable by name (a "let"/"for" binding,
// a function parameter, or a context-declared external variable).
type VarRef struct {
	baseNode
	Name string
}

func NewVarRef(sp span.Span, name string) *VarRef { return &VarRef{baseNode{sp}, name} }
func (v *VarRef) exprNode()                        {}
func (v *VarRef) String() string                   { return "$" + v.Name }

// BinOp is the fixed set of binary operators the compiler lowers directly
// to an opcode (arithmetic, value/general comparison, node comparison,
// boolean, and sequence-combination operators all share this shape since
// they all take exactly two operand expressions).
type BinOp string

const (
	OpPlus  BinOp = "+"
	OpMinus BinOp = "-"
	OpTimes BinOp = "*"
	OpDiv   BinOp = "div"
	OpIDiv  BinOp = "idiv"
	OpMod   BinOp = "mod"

	OpValueEq BinOp = "eq"
	OpValueNe BinOp = "ne"
	OpValueLt BinOp = "lt"
	OpValueLe BinOp = "le"
	OpValueGt BinOp = "gt"
	OpValueGe BinOp = "ge"

	OpGeneralEq BinOp = "="
	OpGeneralNe BinOp = "!="
	OpGeneralLt BinOp = "<"
	OpGeneralLe BinOp = "<="
	OpGeneralGt BinOp = ">"
	OpGeneralGe BinOp = ">="

	OpNodeIs     BinOp = "is"
	OpNodeBefore BinOp = "<<"
	OpNodeAfter  BinOp = ">>"

	OpAnd BinOp = "and"
	OpOr  BinOp = "or"

	OpConcatSeq BinOp = ","
	OpRange     BinOp = "to"
	OpUnion     BinOp = "union"
	OpIntersect BinOp = "intersect"
	OpExcept    BinOp = "except"
)

// Binary applies a BinOp to two operand expressions.
type Binary struct {
	baseNode
	Op          BinOp
	Left, Right Expr
}

func NewBinary(sp span.Span, op BinOp, left, right Expr) *Binary {
	return &Binary{baseNode{sp}, op, left, right}
}
func (b *Binary) exprNode() {}
func (b *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

// Not negates its operand's effective boolean value.
type Not struct {
	baseNode
	Operand Expr
}

func NewNot(sp span.Span, operand Expr) *Not { return &Not{baseNode{sp}, operand} }
func (n *Not) exprNode()                     {}
func (n *Not) String() string                { return "not(" + n.Operand.String() + ")" }

// Negate is unary minus.
type Negate struct {
	baseNode
	Operand Expr
}

func NewNegate(sp span.Span, operand Expr) *Negate { return &Negate{baseNode{sp}, operand} }
func (n *Negate) exprNode()                        {}
func (n *Negate) String() string                   { return "-" + n.Operand.String() }

// If is a conditional expression; Else is always present (the empty
// sequence when the source query omitted it), so the compiler never has
// to special-case a missing branch.
type If struct {
	baseNode
	Cond, Then, Else Expr
}

func NewIf(sp span.Span, cond, then, els Expr) *If { return &If{baseNode{sp}, cond, then, els} }
func (i *If) exprNode()                            {}
func (i *If) String() string {
	return fmt.Sprintf("if (%s) then %s else %s", i.Cond, i.Then, i.Else)
}

// LetBinding is one name/value pair inside a Let expression.
type LetBinding struct {
	Name  string
	Value Expr
}

// Let introduces one or more bindings, evaluated left to right, each
// visible to the bindings after it and to Body (spec.md §4.5 "let").
type Let struct {
	baseNode
	Bindings []LetBinding
	Body     Expr
}

func NewLet(sp span.Span, bindings []LetBinding, body Expr) *Let {
	return &Let{baseNode{sp}, bindings, body}
}
func (l *Let) exprNode() {}
func (l *Let) String() string {
	var parts []string
	for _, b := range l.Bindings {
		parts = append(parts, fmt.Sprintf("$%s := %s", b.Name, b.Value))
	}
	return fmt.Sprintf("let %s return %s", strings.Join(parts, ", "), l.Body)
}

// ForBinding is one name/source pair inside a For expression.
type ForBinding struct {
	Name       string
	PositionAs string // "" if the clause has no "at $p" positional binding
	Source     Expr
}

// For is the FLWOR "for" clause: it iterates every binding's source
// sequence (nested left to right, innermost varies fastest) and
// evaluates Body once per combination.
type For struct {
	baseNode
	Bindings []ForBinding
	Body     Expr
}

func NewFor(sp span.Span, bindings []ForBinding, body Expr) *For {
	return &For{baseNode{sp}, bindings, body}
}
func (f *For) exprNode() {}
func (f *For) String() string {
	var parts []string
	for _, b := range f.Bindings {
		parts = append(parts, fmt.Sprintf("$%s in %s", b.Name, b.Source))
	}
	return fmt.Sprintf("for %s return %s", strings.Join(parts, ", "), f.Body)
}

// Quantified is "some"/"every $x in ... satisfies ...".
type Quantified struct {
	baseNode
	Universal bool // false = "some", true = "every"
	Bindings  []ForBinding
	Predicate Expr
}

func NewQuantified(sp span.Span, universal bool, bindings []ForBinding, pred Expr) *Quantified {
	return &Quantified{baseNode{sp}, universal, bindings, pred}
}
func (q *Quantified) exprNode() {}
func (q *Quantified) String() string {
	kw := "some"
	if q.Universal {
		kw = "every"
	}
	var parts []string
	for _, b := range q.Bindings {
		parts = append(parts, fmt.Sprintf("$%s in %s", b.Name, b.Source))
	}
	return fmt.Sprintf("%s %s satisfies %s", kw, strings.Join(parts, ", "), q.Predicate)
}

// SequenceExpr is an explicit sequence constructor "(e1, e2, ...)"; unlike
// Binary(OpConcatSeq, ...) pairs this keeps an arbitrary-arity list intact
// for the compiler to emit as one flat OpConcat run.
type SequenceExpr struct {
	baseNode
	Items []Expr
}

func NewSequenceExpr(sp span.Span, items []Expr) *SequenceExpr {
	return &SequenceExpr{baseNode{sp}, items}
}
func (s *SequenceExpr) exprNode() {}
func (s *SequenceExpr) String() string {
	var parts []string
	for _, it := range s.Items {
		parts = append(parts, it.String())
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// RangeExpr is "lo to hi".
type RangeExpr struct {
	baseNode
	Lo, Hi Expr
}

func NewRangeExpr(sp span.Span, lo, hi Expr) *RangeExpr { return &RangeExpr{baseNode{sp}, lo, hi} }
func (r *RangeExpr) exprNode()                          {}
func (r *RangeExpr) String() string                     { return fmt.Sprintf("%s to %s", r.Lo, r.Hi) }

// NodeTest describes what a Step accepts: a wildcard, a kind test
// (node(), text(), ...), or a name test.
type NodeTest struct {
	Kind xot.NodeKind // NodeKindAny for "*" or no kind restriction
	Name string       // "" for a pure kind/wildcard test
}

// Step is one path step: an axis plus a node test plus zero or more
// predicates, evaluated left to right (spec.md §4.4).
type Step struct {
	Axis       program.StepKind
	Test       NodeTest
	Predicates []Expr
}

// PathExpr is a sequence of Steps evaluated against a context sequence;
// Root, when non-nil, is evaluated first to seed the context ("/" or
// "//" at the start of the path); a relative path leaves Root nil and the
// first step runs against the ambient context item.
type PathExpr struct {
	baseNode
	Root  Expr // nil for a relative path
	Steps []Step
}

func NewPathExpr(sp span.Span, root Expr, steps []Step) *PathExpr {
	return &PathExpr{baseNode{sp}, root, steps}
}
func (p *PathExpr) exprNode() {}
func (p *PathExpr) String() string {
	var b strings.Builder
	if p.Root != nil {
		b.WriteString(p.Root.String())
	}
	for _, s := range p.Steps {
		b.WriteString("/")
		b.WriteString(s.Test.Name)
	}
	return b.String()
}

// Param is one formal parameter of a FunctionDef.
type Param struct {
	Name string
	Type program.CastType // parameter's declared sequence type
}

// FunctionDef is an inline function expression ("function($x) { ... }");
// the compiler emits it as its own InlineFunction and, at the definition
// site, an OpMakeClosure capturing the free variables named in Closes.
type FunctionDef struct {
	baseNode
	Params  []Param
	Body    Expr
	Closes  []string // free variable names captured from the enclosing scope
	DeclaredName string // "" for an anonymous inline function
}

func NewFunctionDef(sp span.Span, params []Param, body Expr, closes []string, name string) *FunctionDef {
	return &FunctionDef{baseNode{sp}, params, body, closes, name}
}
func (f *FunctionDef) exprNode() {}
func (f *FunctionDef) String() string {
	var names []string
	for _, p := range f.Params {
		names = append(names, "$"+p.Name)
	}
	return fmt.Sprintf("function(%s) { %s }", strings.Join(names, ", "), f.Body)
}

// Call invokes a function, either a statically resolved named function
// (Callee == nil, Name set to its qualified name) or a dynamically
// computed function item (Callee != nil, "$f(...)" / "$f(...)" syntax).
type Call struct {
	baseNode
	Name     string // qualified name; "" when Callee is set
	Callee   Expr   // non-nil for a dynamic call
	Args     []Expr
}

func NewCall(sp span.Span, name string, callee Expr, args []Expr) *Call {
	return &Call{baseNode{sp}, name, callee, args}
}
func (c *Call) exprNode() {}
func (c *Call) String() string {
	var parts []string
	for _, a := range c.Args {
		parts = append(parts, a.String())
	}
	target := c.Name
	if c.Callee != nil {
		target = c.Callee.String()
	}
	return fmt.Sprintf("%s(%s)", target, strings.Join(parts, ", "))
}

// MapConstructor is "map{ k1: v1, k2: v2, ... }".
type MapConstructor struct {
	baseNode
	Keys, Values []Expr
}

func NewMapConstructor(sp span.Span, keys, values []Expr) *MapConstructor {
	return &MapConstructor{baseNode{sp}, keys, values}
}
func (m *MapConstructor) exprNode()  {}
func (m *MapConstructor) String() string {
	var parts []string
	for i := range m.Keys {
		parts = append(parts, fmt.Sprintf("%s: %s", m.Keys[i], m.Values[i]))
	}
	return "map{" + strings.Join(parts, ", ") + "}"
}

// ArrayConstructor is "[e1, e2, ...]" (square form, Curly == false, each
// Members entry is its own array member) or "array{ expr }" (curly form,
// Curly == true, Members holds the single expression whose sequence
// becomes the array's members).
type ArrayConstructor struct {
	baseNode
	Members []Expr
	Curly   bool // true for "array{ expr }", false for "[ e1, e2, ... ]"
}

func NewArrayConstructor(sp span.Span, members []Expr, curly bool) *ArrayConstructor {
	return &ArrayConstructor{baseNode{sp}, members, curly}
}
func (a *ArrayConstructor) exprNode() {}
func (a *ArrayConstructor) String() string {
	var parts []string
	for _, m := range a.Members {
		parts = append(parts, m.String())
	}
	if a.Curly {
		return "array{" + strings.Join(parts, ", ") + "}"
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// CastExpr, CastableExpr, InstanceOfExpr, TreatAsExpr share the same
// shape: an operand plus a target sequence type (spec.md §4.3).
type CastExpr struct {
	baseNode
	Operand Expr
	Target  program.CastType
}

func NewCastExpr(sp span.Span, operand Expr, target program.CastType) *CastExpr {
	return &CastExpr{baseNode{sp}, operand, target}
}
func (c *CastExpr) exprNode()  {}
func (c *CastExpr) String() string { return fmt.Sprintf("%s cast as %s", c.Operand, c.Target.AtomicKind) }

type CastableExpr struct {
	baseNode
	Operand Expr
	Target  program.CastType
}

func NewCastableExpr(sp span.Span, operand Expr, target program.CastType) *CastableExpr {
	return &CastableExpr{baseNode{sp}, operand, target}
}
func (c *CastableExpr) exprNode() {}
func (c *CastableExpr) String() string {
	return fmt.Sprintf("%s castable as %s", c.Operand, c.Target.AtomicKind)
}

type InstanceOfExpr struct {
	baseNode
	Operand Expr
	Target  program.CastType
}

func NewInstanceOfExpr(sp span.Span, operand Expr, target program.CastType) *InstanceOfExpr {
	return &InstanceOfExpr{baseNode{sp}, operand, target}
}
func (i *InstanceOfExpr) exprNode() {}
func (i *InstanceOfExpr) String() string {
	return fmt.Sprintf("%s instance of %s", i.Operand, i.Target.AtomicKind)
}

type TreatAsExpr struct {
	baseNode
	Operand Expr
	Target  program.CastType
}

func NewTreatAsExpr(sp span.Span, operand Expr, target program.CastType) *TreatAsExpr {
	return &TreatAsExpr{baseNode{sp}, operand, target}
}
func (t *TreatAsExpr) exprNode() {}
func (t *TreatAsExpr) String() string {
	return fmt.Sprintf("%s treat as %s", t.Operand, t.Target.AtomicKind)
}

// ContextItemExpr is the lone "." expression.
type ContextItemExpr struct {
	baseNode
}

func NewContextItemExpr(sp span.Span) *ContextItemExpr { return &ContextItemExpr{baseNode{sp}} }
func (c *ContextItemExpr) exprNode()                   {}
func (c *ContextItemExpr) String() string              { return "." }
