package compiler

import (
	"xpath31/internal/bytecode"
	"xpath31/pkg/atomic"
	"xpath31/pkg/ir"
	"xpath31/pkg/program"
	"xpath31/pkg/span"
	"xpath31/pkg/xdmerr"
)

// binOpcode maps every ir.BinOp to the opcode it lowers to; every operator
// — arithmetic, value/general/node comparison, "and"/"or", and the
// sequence-combination operators — takes exactly its two compiled operands
// and one opcode, "and"/"or" included: both operands are compiled eagerly
// and combined with OpAnd/OpOr rather than short-circuited by a jump,
// matching go-dws's own "and"/"or" compilation (compiler_expressions.go),
// which reserves jump-based short-circuiting for "??" and "if".
var binOpcode = map[ir.BinOp]bytecode.OpCode{
	ir.OpPlus:  bytecode.OpAdd,
	ir.OpMinus: bytecode.OpSub,
	ir.OpTimes: bytecode.OpMul,
	ir.OpDiv:   bytecode.OpDiv,
	ir.OpIDiv:  bytecode.OpIDiv,
	ir.OpMod:   bytecode.OpMod,

	ir.OpValueEq: bytecode.OpValueEq,
	ir.OpValueNe: bytecode.OpValueNe,
	ir.OpValueLt: bytecode.OpValueLt,
	ir.OpValueLe: bytecode.OpValueLe,
	ir.OpValueGt: bytecode.OpValueGt,
	ir.OpValueGe: bytecode.OpValueGe,

	ir.OpGeneralEq: bytecode.OpGeneralEq,
	ir.OpGeneralNe: bytecode.OpGeneralNe,
	ir.OpGeneralLt: bytecode.OpGeneralLt,
	ir.OpGeneralLe: bytecode.OpGeneralLe,
	ir.OpGeneralGt: bytecode.OpGeneralGt,
	ir.OpGeneralGe: bytecode.OpGeneralGe,

	ir.OpNodeIs:     bytecode.OpNodeIs,
	ir.OpNodeBefore: bytecode.OpNodeBefore,
	ir.OpNodeAfter:  bytecode.OpNodeAfter,

	ir.OpAnd: bytecode.OpAnd,
	ir.OpOr:  bytecode.OpOr,

	ir.OpConcatSeq: bytecode.OpConcat,
	ir.OpRange:     bytecode.OpRange,
	ir.OpUnion:     bytecode.OpUnion,
	ir.OpIntersect: bytecode.OpIntersect,
	ir.OpExcept:    bytecode.OpExcept,
}

// compileExpr dispatches on expr's concrete type and emits code that
// leaves exactly one Sequence value on top of the interpreter's value
// stack.
func (c *Compiler) compileExpr(expr ir.Expr) *xdmerr.Error {
	switch e := expr.(type) {
	case *ir.Literal:
		c.emitLiteral(e)
		return nil
	case *ir.EmptySequence:
		c.chunk.Emit(bytecode.MakeSimple(bytecode.OpEmptySeq), e.Span())
		return nil
	case *ir.VarRef:
		return c.compileVarRef(e)
	case *ir.Binary:
		return c.compileBinary(e)
	case *ir.Not:
		return c.compileNot(e)
	case *ir.Negate:
		return c.compileNegate(e)
	case *ir.If:
		return c.compileIf(e)
	case *ir.Let:
		return c.compileLet(e)
	case *ir.For:
		return c.compileForBindings(e.Bindings, e.Body, e.Span())
	case *ir.Quantified:
		return c.compileQuantified(e)
	case *ir.SequenceExpr:
		return c.compileSequenceExpr(e)
	case *ir.RangeExpr:
		return c.compileRangeExpr(e)
	case *ir.PathExpr:
		return c.compilePath(e)
	case *ir.FunctionDef:
		return c.compileFunctionDef(e)
	case *ir.Call:
		return c.compileCall(e)
	case *ir.MapConstructor:
		return c.compileMapConstructor(e)
	case *ir.ArrayConstructor:
		return c.compileArrayConstructor(e)
	case *ir.CastExpr:
		return c.compileCastLike(e.Span(), e.Operand, e.Target, bytecode.OpCastAs)
	case *ir.CastableExpr:
		return c.compileCastLike(e.Span(), e.Operand, e.Target, bytecode.OpCastableAs)
	case *ir.InstanceOfExpr:
		return c.compileCastLike(e.Span(), e.Operand, e.Target, bytecode.OpInstanceOf)
	case *ir.TreatAsExpr:
		return c.compileCastLike(e.Span(), e.Operand, e.Target, bytecode.OpTreatAs)
	case *ir.ContextItemExpr:
		c.chunk.Emit(bytecode.MakeSimple(bytecode.OpContextItem), e.Span())
		return nil
	}
	return compileErrorf(expr.Span(), "compiler: unhandled expression %T", expr)
}

func (c *Compiler) emitLiteral(lit *ir.Literal) {
	idx := c.chunk.AddConstant(lit.Value)
	c.chunk.Emit(bytecode.Make(bytecode.OpConstant, idx), lit.Span())
}

func (c *Compiler) compileVarRef(v *ir.VarRef) *xdmerr.Error {
	if loc, ok := c.resolveLocal(v.Name); ok {
		c.chunk.Emit(bytecode.Make(bytecode.OpGetLocal, loc.slot), v.Span())
		return nil
	}
	if idx, ok := c.resolveUpvalue(v.Name); ok {
		c.chunk.Emit(bytecode.Make(bytecode.OpGetUpvalue, idx), v.Span())
		return nil
	}
	if _, ok := c.root.staticCtx.ResolveVariable(v.Name); !ok {
		return compileErrorf(v.Span(), "undefined variable $%s", v.Name)
	}
	idx := c.root.globalSlot(v.Name)
	c.chunk.Emit(bytecode.Make(bytecode.OpGetGlobal, idx), v.Span())
	return nil
}

func (c *Compiler) compileBinary(b *ir.Binary) *xdmerr.Error {
	if ll, ok := b.Left.(*ir.Literal); ok {
		if rl, ok := b.Right.(*ir.Literal); ok {
			if folded, ok := foldBinary(b.Span(), b.Op, ll, rl); ok {
				c.emitLiteral(folded)
				return nil
			}
		}
	}
	op, ok := binOpcode[b.Op]
	if !ok {
		return compileErrorf(b.Span(), "compiler: unhandled operator %q", b.Op)
	}
	if err := c.compileExpr(b.Left); err != nil {
		return err
	}
	if err := c.compileExpr(b.Right); err != nil {
		return err
	}
	c.chunk.Emit(bytecode.MakeSimple(op), b.Span())
	return nil
}

func (c *Compiler) compileNot(n *ir.Not) *xdmerr.Error {
	if lit, ok := n.Operand.(*ir.Literal); ok {
		if folded, ok := foldNot(n.Span(), lit); ok {
			c.emitLiteral(folded)
			return nil
		}
	}
	if err := c.compileExpr(n.Operand); err != nil {
		return err
	}
	c.chunk.Emit(bytecode.MakeSimple(bytecode.OpNot), n.Span())
	return nil
}

func (c *Compiler) compileNegate(n *ir.Negate) *xdmerr.Error {
	if lit, ok := n.Operand.(*ir.Literal); ok {
		if folded, ok := foldNegate(n.Span(), lit); ok {
			c.emitLiteral(folded)
			return nil
		}
	}
	if err := c.compileExpr(n.Operand); err != nil {
		return err
	}
	c.chunk.Emit(bytecode.MakeSimple(bytecode.OpNeg), n.Span())
	return nil
}

// compileIf mirrors go-dws's compileIfExpression jump pattern exactly; Else
// is always present on ir.If (the empty sequence when the source omitted
// one), so there is no missing-branch case to synthesize a default for.
func (c *Compiler) compileIf(i *ir.If) *xdmerr.Error {
	if err := c.compileExpr(i.Cond); err != nil {
		return err
	}
	elseJump := c.chunk.Emit(bytecode.Make(bytecode.OpJumpIfFalse, 0), i.Span())
	if err := c.compileExpr(i.Then); err != nil {
		return err
	}
	endJump := c.chunk.Emit(bytecode.Make(bytecode.OpJump, 0), i.Span())
	c.chunk.PatchJump(elseJump)
	if err := c.compileExpr(i.Else); err != nil {
		return err
	}
	c.chunk.PatchJump(endJump)
	return nil
}

func (c *Compiler) compileLet(l *ir.Let) *xdmerr.Error {
	c.beginScope()
	for _, b := range l.Bindings {
		if err := c.compileExpr(b.Value); err != nil {
			return err
		}
		slot := c.declareLocal(b.Name)
		c.chunk.Emit(bytecode.Make(bytecode.OpSetLocal, slot), l.Span())
	}
	if err := c.compileExpr(l.Body); err != nil {
		return err
	}
	c.endScope()
	return nil
}

func (c *Compiler) compileSequenceExpr(s *ir.SequenceExpr) *xdmerr.Error {
	if len(s.Items) == 0 {
		c.chunk.Emit(bytecode.MakeSimple(bytecode.OpEmptySeq), s.Span())
		return nil
	}
	if err := c.compileExpr(s.Items[0]); err != nil {
		return err
	}
	for _, it := range s.Items[1:] {
		if err := c.compileExpr(it); err != nil {
			return err
		}
		c.chunk.Emit(bytecode.MakeSimple(bytecode.OpConcat), s.Span())
	}
	return nil
}

func (c *Compiler) compileRangeExpr(r *ir.RangeExpr) *xdmerr.Error {
	if err := c.compileExpr(r.Lo); err != nil {
		return err
	}
	if err := c.compileExpr(r.Hi); err != nil {
		return err
	}
	c.chunk.Emit(bytecode.MakeSimple(bytecode.OpRange), r.Span())
	return nil
}

// compileForBindings lowers "for" by recursively wrapping each binding in
// its own iteration level: OpEmptySeq seeds this level's accumulator, the
// loop body (the remaining bindings, innermost varying fastest, or the
// FLWOR Body at the base case) contributes one sequence per iteration, and
// OpConcat folds it into the accumulator — so the net stack effect of one
// full level is +1, identical to compiling any other subexpression, which
// is what lets one level nest inside another with no extra bookkeeping.
func (c *Compiler) compileForBindings(bindings []ir.ForBinding, body ir.Expr, sp span.Span) *xdmerr.Error {
	if len(bindings) == 0 {
		return c.compileExpr(body)
	}
	b := bindings[0]
	c.chunk.Emit(bytecode.MakeSimple(bytecode.OpEmptySeq), sp)
	if err := c.compileExpr(b.Source); err != nil {
		return err
	}
	c.chunk.Emit(bytecode.MakeSimple(bytecode.OpIterInit), sp)
	loopStart := len(c.chunk.Code)
	exhaustJump := c.chunk.Emit(bytecode.Make(bytecode.OpIterNext, 0), sp)

	c.beginScope()
	slot := c.declareLocal(b.Name)
	c.chunk.Emit(bytecode.Make(bytecode.OpSetLocal, slot), sp)
	if b.PositionAs != "" {
		c.chunk.Emit(bytecode.MakeSimple(bytecode.OpIterPosition), sp)
		posSlot := c.declareLocal(b.PositionAs)
		c.chunk.Emit(bytecode.Make(bytecode.OpSetLocal, posSlot), sp)
	}
	err := c.compileForBindings(bindings[1:], body, sp)
	c.endScope()
	if err != nil {
		return err
	}
	c.chunk.Emit(bytecode.MakeSimple(bytecode.OpConcat), sp)
	c.chunk.EmitLoop(loopStart, sp)
	c.chunk.PatchJump(exhaustJump)
	return nil
}

// compileQuantified lowers "some"/"every" over possibly-nested bindings.
// Each nesting level iterates like compileForBindings, but instead of
// accumulating results it tests the predicate (at the innermost level) and
// can escape the whole construct early on the first decisive answer. An
// early escape must first drop every iterator frame it is still inside of,
// innermost first, so each level threads the jump sites it could not
// resolve itself back out to its enclosing level — the same chained-
// cleanup shape go-dws uses for a nested loop's breakJumps, generalized
// from "break out of enclosing while/repeat statements" to "stop iterating
// enclosing for-bindings".
func (c *Compiler) compileQuantified(q *ir.Quantified) *xdmerr.Error {
	escapes, err := c.compileQuantifiedLevel(q.Bindings, q.Predicate, q.Universal, q.Span())
	if err != nil {
		return err
	}
	natural := atomic.Boolean(q.Universal)
	c.chunk.Emit(bytecode.Make(bytecode.OpConstant, c.chunk.AddConstant(natural)), q.Span())
	doneJump := c.chunk.Emit(bytecode.Make(bytecode.OpJump, 0), q.Span())
	for _, j := range escapes {
		c.chunk.PatchJump(j)
	}
	c.chunk.Emit(bytecode.Make(bytecode.OpConstant, c.chunk.AddConstant(atomic.Boolean(!q.Universal))), q.Span())
	c.chunk.PatchJump(doneJump)
	return nil
}

func (c *Compiler) compileQuantifiedLevel(bindings []ir.ForBinding, pred ir.Expr, universal bool, sp span.Span) ([]int, *xdmerr.Error) {
	if len(bindings) == 0 {
		if err := c.compileExpr(pred); err != nil {
			return nil, err
		}
		if universal {
			j := c.chunk.Emit(bytecode.Make(bytecode.OpJumpIfFalse, 0), sp)
			return []int{j}, nil
		}
		contJump := c.chunk.Emit(bytecode.Make(bytecode.OpJumpIfFalse, 0), sp)
		scJump := c.chunk.Emit(bytecode.Make(bytecode.OpJump, 0), sp)
		c.chunk.PatchJump(contJump)
		return []int{scJump}, nil
	}

	b := bindings[0]
	if err := c.compileExpr(b.Source); err != nil {
		return nil, err
	}
	c.chunk.Emit(bytecode.MakeSimple(bytecode.OpIterInit), sp)
	loopStart := len(c.chunk.Code)
	exhaustJump := c.chunk.Emit(bytecode.Make(bytecode.OpIterNext, 0), sp)

	c.beginScope()
	slot := c.declareLocal(b.Name)
	c.chunk.Emit(bytecode.Make(bytecode.OpSetLocal, slot), sp)
	if b.PositionAs != "" {
		c.chunk.Emit(bytecode.MakeSimple(bytecode.OpIterPosition), sp)
		posSlot := c.declareLocal(b.PositionAs)
		c.chunk.Emit(bytecode.Make(bytecode.OpSetLocal, posSlot), sp)
	}
	innerEscapes, err := c.compileQuantifiedLevel(bindings[1:], pred, universal, sp)
	c.endScope()
	if err != nil {
		return nil, err
	}
	c.chunk.EmitLoop(loopStart, sp)

	for _, j := range innerEscapes {
		c.chunk.PatchJump(j)
	}
	var thisEscape []int
	if len(innerEscapes) > 0 {
		c.chunk.Emit(bytecode.MakeSimple(bytecode.OpIterDrop), sp)
		thisEscape = []int{c.chunk.Emit(bytecode.Make(bytecode.OpJump, 0), sp)}
	}
	c.chunk.PatchJump(exhaustJump)
	return thisEscape, nil
}

// compilePath lowers a path expression step by step: each step pops the
// current context sequence, applies its axis and node test (OpAxisStep),
// filters by its predicates in order, then re-sorts into document order
// with duplicates removed (spec.md §4.4) — unconditionally, since a step
// applied to a multi-item context can produce duplicates or disorder
// regardless of axis direction.
func (c *Compiler) compilePath(p *ir.PathExpr) *xdmerr.Error {
	if p.Root != nil {
		if err := c.compileExpr(p.Root); err != nil {
			return err
		}
	} else {
		c.chunk.Emit(bytecode.MakeSimple(bytecode.OpContextItem), p.Span())
	}
	for _, step := range p.Steps {
		idx := c.addStep(program.Step{Axis: step.Axis, NameTest: step.Test.Name, KindTest: step.Test.Kind})
		c.chunk.Emit(bytecode.Make(bytecode.OpAxisStep, idx), p.Span())
		for _, pred := range step.Predicates {
			if err := c.compilePredicateClosure(pred); err != nil {
				return err
			}
			c.chunk.Emit(bytecode.MakeSimple(bytecode.OpPredicate), pred.Span())
		}
		c.chunk.Emit(bytecode.MakeSimple(bytecode.OpDocOrderDedup), p.Span())
	}
	return nil
}

// compilePredicateClosure compiles a predicate as a zero-parameter nested
// function the interpreter invokes once per axis-step candidate, with that
// candidate as the focus item (spec.md §4.3) — the same closure machinery
// FunctionDef uses, since a predicate body can close over the enclosing
// scope's locals exactly as an inline function expression can.
func (c *Compiler) compilePredicateClosure(pred ir.Expr) *xdmerr.Error {
	child := newCompiler(c.root, c, "", nil)
	if err := child.compileExpr(pred); err != nil {
		return err
	}
	child.chunk.Emit(bytecode.MakeSimple(bytecode.OpReturn), pred.Span())
	idx := c.root.addFunction(child.finish())
	c.chunk.Emit(bytecode.Make(bytecode.OpMakeClosure, uint16(idx)), pred.Span())
	return nil
}

// compileFunctionDef compiles an inline function expression as its own
// InlineFunction and, at the definition site, an OpMakeClosure referencing
// it. Closes lists the free variables to pre-seed as upvalue captures
// before compiling the body, so a reference to one inside a deeper nested
// function resolves without re-walking the enclosing chain from scratch.
func (c *Compiler) compileFunctionDef(fd *ir.FunctionDef) *xdmerr.Error {
	child := newCompiler(c.root, c, fd.DeclaredName, fd.Params)
	for _, name := range fd.Closes {
		child.resolveUpvalue(name)
	}
	if err := child.compileExpr(fd.Body); err != nil {
		return err
	}
	child.chunk.Emit(bytecode.MakeSimple(bytecode.OpReturn), fd.Body.Span())
	idx := c.root.addFunction(child.finish())
	c.chunk.Emit(bytecode.Make(bytecode.OpMakeClosure, uint16(idx)), fd.Span())
	return nil
}

// compileCall resolves a static call against the builtin registry, then
// against statically declared functions, by its (namespace, local, arity)
// key (spec.md §4.6/§4.7); a dynamic call ("$f(...)") compiles its callee
// expression instead and leaves resolution to OpCallDynamic at run time.
func (c *Compiler) compileCall(call *ir.Call) *xdmerr.Error {
	if call.Callee != nil {
		if err := c.compileExpr(call.Callee); err != nil {
			return err
		}
		for _, a := range call.Args {
			if err := c.compileExpr(a); err != nil {
				return err
			}
		}
		c.chunk.Emit(bytecode.Make(bytecode.OpCallDynamic, uint16(len(call.Args))), call.Span())
		return nil
	}

	ns, localName := splitQName(call.Name, c.root.staticCtx)
	arity := len(call.Args)
	target := program.CallTarget{Namespace: ns, Local: localName, Arity: arity}
	if _, ok := c.root.registry.Lookup(ns, localName, arity); ok {
		// target.IsProgramFunction already false
	} else if decl, ok := c.root.staticCtx.ResolveFunction(ns, localName, arity); ok {
		target.IsProgramFunction = true
		target.FunctionIndex = c.root.programFunctionIndex(decl.Body)
	} else {
		return compileErrorf(call.Span(), "unknown function %s:%s#%d", ns, localName, arity)
	}
	for _, a := range call.Args {
		if err := c.compileExpr(a); err != nil {
			return err
		}
	}
	idx := c.addCallTarget(target)
	c.chunk.Emit(bytecode.Make(bytecode.OpCall, idx), call.Span())
	return nil
}

func (c *Compiler) compileMapConstructor(m *ir.MapConstructor) *xdmerr.Error {
	for i := range m.Keys {
		if err := c.compileExpr(m.Keys[i]); err != nil {
			return err
		}
		if err := c.compileExpr(m.Values[i]); err != nil {
			return err
		}
	}
	c.chunk.Emit(bytecode.Make(bytecode.OpMakeMap, uint16(len(m.Keys))), m.Span())
	return nil
}

func (c *Compiler) compileArrayConstructor(a *ir.ArrayConstructor) *xdmerr.Error {
	if a.Curly {
		if err := c.compileExpr(a.Members[0]); err != nil {
			return err
		}
		c.chunk.Emit(bytecode.MakeSimple(bytecode.OpMakeArrayCurly), a.Span())
		return nil
	}
	for _, m := range a.Members {
		if err := c.compileExpr(m); err != nil {
			return err
		}
	}
	c.chunk.Emit(bytecode.Make(bytecode.OpMakeArray, uint16(len(a.Members))), a.Span())
	return nil
}

func (c *Compiler) compileCastLike(sp span.Span, operand ir.Expr, target program.CastType, op bytecode.OpCode) *xdmerr.Error {
	if err := c.compileExpr(operand); err != nil {
		return err
	}
	idx := c.addCastType(target)
	c.chunk.Emit(bytecode.Make(op, idx), sp)
	return nil
}
