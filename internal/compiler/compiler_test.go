package compiler

import (
	"testing"

	"xpath31/internal/bytecode"
	"xpath31/pkg/atomic"
	"xpath31/pkg/context"
	"xpath31/pkg/ir"
	"xpath31/pkg/library"
	"xpath31/pkg/program"
	"xpath31/pkg/span"
)

func defaultStatic() *context.StaticContext {
	return context.NewStaticContextBuilder().
		DefaultFunctionNamespace(library.FnNamespace).
		Build()
}

func opcodes(t *testing.T, code []bytecode.Instruction) []bytecode.OpCode {
	t.Helper()
	ops := make([]bytecode.OpCode, len(code))
	for i, in := range code {
		ops[i] = in.Op
	}
	return ops
}

func assertOps(t *testing.T, got []bytecode.Instruction, want ...bytecode.OpCode) {
	t.Helper()
	gotOps := opcodes(t, got)
	if len(gotOps) != len(want) {
		t.Fatalf("opcode count = %d, want %d\ngot:  %v\nwant: %v", len(gotOps), len(want), gotOps, want)
	}
	for i := range want {
		if gotOps[i] != want[i] {
			t.Fatalf("op[%d] = %s, want %s\ngot:  %v\nwant: %v", i, gotOps[i], want[i], gotOps, want)
		}
	}
}

func TestCompileLiteralEmitsOneConstant(t *testing.T) {
	expr := ir.NewLiteral(span.Span{}, atomic.IntegerFromInt64(42))
	prog, err := Compile(expr, defaultStatic(), library.DefaultRegistry)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	main := prog.Main()
	assertOps(t, main.Chunk.Code, bytecode.OpConstant, bytecode.OpReturn)
	if len(main.Chunk.Constants) != 1 {
		t.Fatalf("constants = %d, want 1", len(main.Chunk.Constants))
	}
}

func TestCompileEmptySequence(t *testing.T) {
	expr := ir.NewEmptySequence(span.Span{})
	prog, err := Compile(expr, defaultStatic(), library.DefaultRegistry)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	assertOps(t, prog.Main().Chunk.Code, bytecode.OpEmptySeq, bytecode.OpReturn)
}

func TestCompileBinaryFoldsConstantOperands(t *testing.T) {
	one := ir.NewLiteral(span.Span{}, atomic.IntegerFromInt64(1))
	two := ir.NewLiteral(span.Span{}, atomic.IntegerFromInt64(2))
	expr := ir.NewBinary(span.Span{}, ir.OpPlus, one, two)
	prog, err := Compile(expr, defaultStatic(), library.DefaultRegistry)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	// Folded to a single constant; OpAdd never appears.
	assertOps(t, prog.Main().Chunk.Code, bytecode.OpConstant, bytecode.OpReturn)
}

func TestCompileBinaryNonConstantEmitsOperator(t *testing.T) {
	x := ir.NewVarRef(span.Span{}, "x")
	one := ir.NewLiteral(span.Span{}, atomic.IntegerFromInt64(1))
	expr := ir.NewBinary(span.Span{}, ir.OpPlus, x, one)

	static := context.NewStaticContextBuilder().
		DefaultFunctionNamespace(library.FnNamespace).
		Variable("x", context.VarDecl{}).
		Build()
	prog, err := Compile(expr, static, library.DefaultRegistry)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	assertOps(t, prog.Main().Chunk.Code,
		bytecode.OpGetGlobal, bytecode.OpConstant, bytecode.OpAdd, bytecode.OpReturn)
}

func TestCompileAndOrAreEager(t *testing.T) {
	x := ir.NewVarRef(span.Span{}, "x")
	y := ir.NewVarRef(span.Span{}, "y")
	expr := ir.NewBinary(span.Span{}, ir.OpAnd, x, y)

	static := context.NewStaticContextBuilder().
		Variable("x", context.VarDecl{}).
		Variable("y", context.VarDecl{}).
		Build()
	prog, err := Compile(expr, static, library.DefaultRegistry)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	// Both operands compiled unconditionally before OpAnd combines them:
	// no jump opcode appears.
	assertOps(t, prog.Main().Chunk.Code,
		bytecode.OpGetGlobal, bytecode.OpGetGlobal, bytecode.OpAnd, bytecode.OpReturn)
}

func TestCompileVarRefUndeclaredIsCompileError(t *testing.T) {
	expr := ir.NewVarRef(span.Span{}, "nope")
	_, err := Compile(expr, defaultStatic(), library.DefaultRegistry)
	if err == nil {
		t.Fatal("expected a compile error for an undeclared variable")
	}
}

func TestCompileIfEmitsJumpPair(t *testing.T) {
	cond := ir.NewLiteral(span.Span{}, atomic.Boolean(true))
	then := ir.NewLiteral(span.Span{}, atomic.IntegerFromInt64(1))
	els := ir.NewLiteral(span.Span{}, atomic.IntegerFromInt64(2))
	expr := ir.NewIf(span.Span{}, cond, then, els)
	prog, err := Compile(expr, defaultStatic(), library.DefaultRegistry)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	assertOps(t, prog.Main().Chunk.Code,
		bytecode.OpConstant, bytecode.OpJumpIfFalse,
		bytecode.OpConstant, bytecode.OpJump,
		bytecode.OpConstant, bytecode.OpReturn)
}

func TestCompileLetBindsAndReferencesLocal(t *testing.T) {
	bound := ir.NewLiteral(span.Span{}, atomic.IntegerFromInt64(5))
	expr := ir.NewLet(span.Span{}, []ir.LetBinding{{Name: "x", Value: bound}}, ir.NewVarRef(span.Span{}, "x"))
	prog, err := Compile(expr, defaultStatic(), library.DefaultRegistry)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	assertOps(t, prog.Main().Chunk.Code,
		bytecode.OpConstant, bytecode.OpSetLocal, bytecode.OpGetLocal, bytecode.OpReturn)
}

func TestCompileForAccumulatesViaConcat(t *testing.T) {
	src := ir.NewRangeExpr(span.Span{},
		ir.NewLiteral(span.Span{}, atomic.IntegerFromInt64(1)),
		ir.NewLiteral(span.Span{}, atomic.IntegerFromInt64(3)))
	expr := ir.NewFor(span.Span{}, []ir.ForBinding{{Name: "i", Source: src}}, ir.NewVarRef(span.Span{}, "i"))
	prog, err := Compile(expr, defaultStatic(), library.DefaultRegistry)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	code := prog.Main().Chunk.Code
	assertOps(t, code,
		bytecode.OpEmptySeq,
		bytecode.OpConstant, bytecode.OpConstant, bytecode.OpRange,
		bytecode.OpIterInit,
		bytecode.OpIterNext,
		bytecode.OpSetLocal,
		bytecode.OpGetLocal,
		bytecode.OpConcat,
		bytecode.OpLoop,
		bytecode.OpReturn,
	)
	// The exhaustion branch of OpIterNext must land past the loop, on the
	// final OpReturn, not inside the loop body.
	iterNextIdx := 5
	target := iterNextIdx + 1 + int(code[iterNextIdx].SignedOperand())
	if code[target].Op != bytecode.OpReturn {
		t.Fatalf("OpIterNext exhaustion target = %s at %d, want OpReturn", code[target].Op, target)
	}
}

func TestCompileSomeShortCircuitsOnFirstTrue(t *testing.T) {
	src := ir.NewRangeExpr(span.Span{},
		ir.NewLiteral(span.Span{}, atomic.IntegerFromInt64(1)),
		ir.NewLiteral(span.Span{}, atomic.IntegerFromInt64(3)))
	pred := ir.NewLiteral(span.Span{}, atomic.Boolean(true))
	expr := ir.NewQuantified(span.Span{}, false, []ir.ForBinding{{Name: "i", Source: src}}, pred)
	prog, err := Compile(expr, defaultStatic(), library.DefaultRegistry)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	code := prog.Main().Chunk.Code
	var sawIterDrop bool
	for _, in := range code {
		if in.Op == bytecode.OpIterDrop {
			sawIterDrop = true
		}
	}
	if !sawIterDrop {
		t.Fatalf("expected an OpIterDrop cleaning up the early-escape path, got %v", opcodes(t, code))
	}
}

func TestCompileEveryWithoutBindingsTestsPredicateOnce(t *testing.T) {
	pred := ir.NewLiteral(span.Span{}, atomic.Boolean(false))
	expr := ir.NewQuantified(span.Span{}, true, nil, pred)
	prog, err := Compile(expr, defaultStatic(), library.DefaultRegistry)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	// No bindings: the predicate is tested exactly once, with an
	// OpJumpIfFalse escape straight to the "every" false result; a true
	// predicate falls through to the natural (true) result.
	assertOps(t, prog.Main().Chunk.Code,
		bytecode.OpConstant, bytecode.OpJumpIfFalse,
		bytecode.OpConstant, bytecode.OpJump,
		bytecode.OpConstant, bytecode.OpReturn)
}

func TestCompilePathEmitsStepPredicateDedup(t *testing.T) {
	step := ir.Step{
		Test:       ir.NodeTest{Name: "a"},
		Predicates: []ir.Expr{ir.NewLiteral(span.Span{}, atomic.Boolean(true))},
	}
	expr := ir.NewPathExpr(span.Span{}, nil, []ir.Step{step})
	prog, err := Compile(expr, defaultStatic(), library.DefaultRegistry)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	assertOps(t, prog.Main().Chunk.Code,
		bytecode.OpContextItem, bytecode.OpAxisStep,
		bytecode.OpMakeClosure, bytecode.OpPredicate,
		bytecode.OpDocOrderDedup, bytecode.OpReturn)
	if len(prog.Functions) != 2 {
		t.Fatalf("expected the predicate compiled as its own function, got %d functions", len(prog.Functions))
	}
}

func TestCompileFunctionDefEmitsMakeClosure(t *testing.T) {
	body := ir.NewVarRef(span.Span{}, "x")
	fn := ir.NewFunctionDef(span.Span{}, []ir.Param{{Name: "x"}}, body, nil, "")
	prog, err := Compile(fn, defaultStatic(), library.DefaultRegistry)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	assertOps(t, prog.Main().Chunk.Code, bytecode.OpMakeClosure, bytecode.OpReturn)
	if len(prog.Functions) != 2 {
		t.Fatalf("expected 2 functions (the closure body + main), got %d", len(prog.Functions))
	}
	inner := prog.Functions[0]
	assertOps(t, inner.Chunk.Code, bytecode.OpGetLocal, bytecode.OpReturn)
}

func TestCompileCallResolvesBuiltinByArity(t *testing.T) {
	arg := ir.NewLiteral(span.Span{}, atomic.String("hi"))
	call := ir.NewCall(span.Span{}, "fn:string-length", nil, []ir.Expr{arg})
	prog, err := Compile(call, defaultStatic(), library.DefaultRegistry)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	assertOps(t, prog.Main().Chunk.Code, bytecode.OpConstant, bytecode.OpCall, bytecode.OpReturn)
}

func TestCompileCallUnknownFunctionIsCompileError(t *testing.T) {
	call := ir.NewCall(span.Span{}, "fn:not-a-real-function", nil, nil)
	_, err := Compile(call, defaultStatic(), library.DefaultRegistry)
	if err == nil {
		t.Fatal("expected a compile error for an unresolvable static call")
	}
}

func TestCompileDynamicCallEmitsCallDynamic(t *testing.T) {
	callee := ir.NewVarRef(span.Span{}, "f")
	arg := ir.NewLiteral(span.Span{}, atomic.IntegerFromInt64(1))
	call := ir.NewCall(span.Span{}, "", callee, []ir.Expr{arg})
	static := context.NewStaticContextBuilder().Variable("f", context.VarDecl{}).Build()
	prog, err := Compile(call, static, library.DefaultRegistry)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	assertOps(t, prog.Main().Chunk.Code,
		bytecode.OpGetGlobal, bytecode.OpConstant, bytecode.OpCallDynamic, bytecode.OpReturn)
}

func TestCompileMapConstructor(t *testing.T) {
	k := ir.NewLiteral(span.Span{}, atomic.String("a"))
	v := ir.NewLiteral(span.Span{}, atomic.IntegerFromInt64(1))
	expr := ir.NewMapConstructor(span.Span{}, []ir.Expr{k}, []ir.Expr{v})
	prog, err := Compile(expr, defaultStatic(), library.DefaultRegistry)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	assertOps(t, prog.Main().Chunk.Code, bytecode.OpConstant, bytecode.OpConstant, bytecode.OpMakeMap, bytecode.OpReturn)
}

func TestCompileArrayConstructorSquareAndCurly(t *testing.T) {
	member := ir.NewLiteral(span.Span{}, atomic.IntegerFromInt64(1))
	square := ir.NewArrayConstructor(span.Span{}, []ir.Expr{member}, false)
	prog, err := Compile(square, defaultStatic(), library.DefaultRegistry)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	assertOps(t, prog.Main().Chunk.Code, bytecode.OpConstant, bytecode.OpMakeArray, bytecode.OpReturn)

	curly := ir.NewArrayConstructor(span.Span{}, []ir.Expr{member}, true)
	prog, err = Compile(curly, defaultStatic(), library.DefaultRegistry)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	assertOps(t, prog.Main().Chunk.Code, bytecode.OpConstant, bytecode.OpMakeArrayCurly, bytecode.OpReturn)
}

func TestCompileCastExprEmitsCastAs(t *testing.T) {
	operand := ir.NewLiteral(span.Span{}, atomic.String("42"))
	expr := ir.NewCastExpr(span.Span{}, operand, program.CastType{AtomicKind: "xs:integer"})
	prog, err := Compile(expr, defaultStatic(), library.DefaultRegistry)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	assertOps(t, prog.Main().Chunk.Code, bytecode.OpConstant, bytecode.OpCastAs, bytecode.OpReturn)
}

func TestCompileContextItem(t *testing.T) {
	expr := ir.NewContextItemExpr(span.Span{})
	prog, err := Compile(expr, defaultStatic(), library.DefaultRegistry)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	assertOps(t, prog.Main().Chunk.Code, bytecode.OpContextItem, bytecode.OpReturn)
}
