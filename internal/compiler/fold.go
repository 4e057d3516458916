package compiler

import (
	"xpath31/pkg/atomic"
	"xpath31/pkg/ir"
	"xpath31/pkg/sequence"
	"xpath31/pkg/span"
	"xpath31/pkg/xdmerr"
)

// foldBinary evaluates a Binary expression over two Literal operands at
// compile time, mirroring go-dws's evaluateBinary/literalValue constant-
// folding pass (compiler_core.go): folding only ever touches literals, is
// skipped on any operator this table doesn't know or any runtime error
// the operation would raise, and is purely an optimization (spec.md §4.5
// "folding optional") — a binary op the fold can't handle still compiles
// correctly by falling through to the runtime opcode.
func foldBinary(sp span.Span, op ir.BinOp, l, r *ir.Literal) (*ir.Literal, bool) {
	a, b := l.Value, r.Value
	switch op {
	case ir.OpPlus:
		return foldArith(sp, a, b, atomic.Atomic.Add)
	case ir.OpMinus:
		return foldArith(sp, a, b, atomic.Atomic.Sub)
	case ir.OpTimes:
		return foldArith(sp, a, b, atomic.Atomic.Mul)
	case ir.OpDiv:
		return foldArith(sp, a, b, atomic.Atomic.Div)
	case ir.OpIDiv:
		return foldArith(sp, a, b, atomic.Atomic.IDiv)
	case ir.OpMod:
		return foldArith(sp, a, b, atomic.Atomic.Mod)

	case ir.OpValueEq, ir.OpGeneralEq:
		return foldCompare(sp, a, b, atomic.Atomic.Eq)
	case ir.OpValueNe, ir.OpGeneralNe:
		return foldCompare(sp, a, b, atomic.Atomic.Ne)
	case ir.OpValueLt, ir.OpGeneralLt:
		return foldCompare(sp, a, b, atomic.Atomic.Lt)
	case ir.OpValueLe, ir.OpGeneralLe:
		return foldCompare(sp, a, b, atomic.Atomic.Le)
	case ir.OpValueGt, ir.OpGeneralGt:
		return foldCompare(sp, a, b, atomic.Atomic.Gt)
	case ir.OpValueGe, ir.OpGeneralGe:
		return foldCompare(sp, a, b, atomic.Atomic.Ge)
	}
	return nil, false
}

func foldArith(sp span.Span, a, b atomic.Atomic, op func(atomic.Atomic, atomic.Atomic) (atomic.Atomic, *xdmerr.Error)) (*ir.Literal, bool) {
	v, err := op(a, b)
	if err != nil {
		return nil, false
	}
	return ir.NewLiteral(sp, v), true
}

// foldCompare folds a comparison using the codepoint collation, the
// default every engine-internal fold runs under; a comparison under an
// explicit collation is never a compile-time constant here since the
// collation itself comes from the static context, not the literal pair.
// Temporal pairs are not folded: an offset-naive value compares under the
// dynamic context's implicit timezone, which is unknown at compile time.
func foldCompare(sp span.Span, a, b atomic.Atomic, op func(atomic.Atomic, atomic.Atomic, atomic.Collator, int32) (bool, *xdmerr.Error)) (*ir.Literal, bool) {
	if a.Kind().IsTemporal() || b.Kind().IsTemporal() {
		return nil, false
	}
	v, err := op(a, b, atomic.DefaultCollator, 0)
	if err != nil {
		return nil, false
	}
	return ir.NewLiteral(sp, atomic.Boolean(v)), true
}

// foldNot evaluates Not over a Literal operand using the same effective-
// boolean-value rule the runtime OpNot would apply (spec.md §3), via a
// throwaway one-item sequence rather than duplicating the EBV rule table
// here.
func foldNot(sp span.Span, operand *ir.Literal) (*ir.Literal, bool) {
	ebv, err := sequence.OneAtomic(operand.Value).EffectiveBooleanValue()
	if err != nil {
		return nil, false
	}
	return ir.NewLiteral(sp, atomic.Boolean(!ebv)), true
}

// foldNegate evaluates unary minus over a Literal operand.
func foldNegate(sp span.Span, operand *ir.Literal) (*ir.Literal, bool) {
	v, err := operand.Value.Negate()
	if err != nil {
		return nil, false
	}
	return ir.NewLiteral(sp, v), true
}
