package interp

import (
	"xpath31/internal/bytecode"
	"xpath31/pkg/atomic"
	"xpath31/pkg/sequence"
	"xpath31/pkg/xdmerr"
)

// run starts execution at the top-level frame pushed by Eval and drives it
// to completion, mirroring go-dws's VM.Run: fetch, decode, execute, repeat
// until the outermost frame returns.
func (it *Interpreter) run() (sequence.Sequence, *xdmerr.Error) {
	return it.execFrame()
}

// execFrame runs the top frame on it.frames until it returns (OpReturn, or
// falling off the end of its chunk, which a well-formed compiled program
// never does — every chunk Compile produces ends with an explicit
// OpReturn, per internal/compiler.Compile and compilePredicateClosure/
// compileFunctionDef), then pops it and reports its value to the caller.
// A nested OpCall/OpCallDynamic/OpMakeClosure-with-immediate-invoke case
// (predicates, higher-order fn:invoke) recurses into execFrame for the
// pushed callee frame before resuming this one.
func (it *Interpreter) execFrame() (sequence.Sequence, *xdmerr.Error) {
	depth := len(it.frames)
	for {
		f := it.currentFrame()
		in, ok := it.opAt(f)
		if !ok {
			it.frames = it.frames[:len(it.frames)-1]
			return sequence.Empty, nil
		}

		switch in.Op {
		case bytecode.OpReturn:
			v, err := it.pop()
			if err != nil {
				return sequence.Empty, err
			}
			it.frames = it.frames[:len(it.frames)-1]
			return v, nil

		case bytecode.OpConstant:
			it.push(sequence.OneAtomic(f.fn.Chunk.Constants[in.Operand]))

		case bytecode.OpEmptySeq:
			it.push(sequence.Empty)

		case bytecode.OpPop:
			if _, err := it.pop(); err != nil {
				return sequence.Empty, err
			}

		case bytecode.OpDup:
			v, err := it.peek()
			if err != nil {
				return sequence.Empty, err
			}
			it.push(v)

		case bytecode.OpGetLocal:
			it.push(f.locals[in.Operand])

		case bytecode.OpSetLocal:
			v, err := it.pop()
			if err != nil {
				return sequence.Empty, err
			}
			f.locals[in.Operand] = v

		case bytecode.OpGetUpvalue:
			if f.closure == nil || int(in.Operand) >= len(f.closure.Upvalues) {
				return sequence.Empty, it.runtimeErrorf("interp: no upvalue at index %d", in.Operand)
			}
			v, ok := f.closure.Upvalues[in.Operand].Get().(sequence.Sequence)
			if !ok {
				return sequence.Empty, it.runtimeErrorf("interp: upvalue %d holds no sequence", in.Operand)
			}
			it.push(v)

		case bytecode.OpGetGlobal:
			if int(in.Operand) >= len(it.globals) {
				return sequence.Empty, it.runtimeErrorf("interp: no global at slot %d", in.Operand)
			}
			it.push(it.globals[in.Operand])

		case bytecode.OpAdd, bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv, bytecode.OpIDiv, bytecode.OpMod:
			if err := it.execArith(in.Op); err != nil {
				return sequence.Empty, err
			}

		case bytecode.OpNeg:
			if err := it.execNeg(); err != nil {
				return sequence.Empty, err
			}

		case bytecode.OpValueEq, bytecode.OpValueNe, bytecode.OpValueLt, bytecode.OpValueLe, bytecode.OpValueGt, bytecode.OpValueGe:
			if err := it.execValueCompare(in.Op); err != nil {
				return sequence.Empty, err
			}

		case bytecode.OpGeneralEq, bytecode.OpGeneralNe, bytecode.OpGeneralLt, bytecode.OpGeneralLe, bytecode.OpGeneralGt, bytecode.OpGeneralGe:
			if err := it.execGeneralCompare(in.Op); err != nil {
				return sequence.Empty, err
			}

		case bytecode.OpNodeIs, bytecode.OpNodeBefore, bytecode.OpNodeAfter:
			if err := it.execNodeCompare(in.Op); err != nil {
				return sequence.Empty, err
			}

		case bytecode.OpAnd:
			if err := it.execAndOr(true); err != nil {
				return sequence.Empty, err
			}

		case bytecode.OpOr:
			if err := it.execAndOr(false); err != nil {
				return sequence.Empty, err
			}

		case bytecode.OpNot:
			if err := it.execNot(); err != nil {
				return sequence.Empty, err
			}

		case bytecode.OpConcat:
			b, err := it.pop()
			if err != nil {
				return sequence.Empty, err
			}
			a, err := it.pop()
			if err != nil {
				return sequence.Empty, err
			}
			res, cerr := sequence.Concat(a, b)
			if cerr != nil {
				return sequence.Empty, cerr
			}
			it.push(res)

		case bytecode.OpRange:
			if err := it.execRange(); err != nil {
				return sequence.Empty, err
			}

		case bytecode.OpUnion, bytecode.OpIntersect, bytecode.OpExcept:
			if err := it.execNodeSetOp(in.Op); err != nil {
				return sequence.Empty, err
			}

		case bytecode.OpJump:
			f.ip += int(in.SignedOperand())

		case bytecode.OpJumpIfFalse:
			v, err := it.pop()
			if err != nil {
				return sequence.Empty, err
			}
			ebv, eerr := v.EffectiveBooleanValue()
			if eerr != nil {
				return sequence.Empty, eerr
			}
			if !ebv {
				f.ip += int(in.SignedOperand())
			}

		case bytecode.OpLoop:
			f.ip += int(in.SignedOperand())

		case bytecode.OpCall:
			if err := it.execCall(f, in.Operand); err != nil {
				return sequence.Empty, err
			}

		case bytecode.OpCallDynamic:
			if err := it.execCallDynamic(int(in.Operand)); err != nil {
				return sequence.Empty, err
			}

		case bytecode.OpMakeClosure:
			if err := it.execMakeClosure(f, int(in.Operand)); err != nil {
				return sequence.Empty, err
			}

		case bytecode.OpContextItem:
			foc, ok := it.currentFocus()
			if !ok {
				return sequence.Empty, it.runtimeErrorf("no context item is defined here")
			}
			it.push(sequence.One(foc.Item))

		case bytecode.OpAxisStep:
			if err := it.execAxisStep(f, in.Operand); err != nil {
				return sequence.Empty, err
			}

		case bytecode.OpPredicate:
			if err := it.execPredicate(); err != nil {
				return sequence.Empty, err
			}

		case bytecode.OpDocOrderDedup:
			if err := it.execDocOrderDedup(); err != nil {
				return sequence.Empty, err
			}

		case bytecode.OpIterInit:
			if err := it.execIterInit(); err != nil {
				return sequence.Empty, err
			}

		case bytecode.OpIterNext:
			if err := it.execIterNext(f, in); err != nil {
				return sequence.Empty, err
			}

		case bytecode.OpIterPosition:
			it.execIterPosition()

		case bytecode.OpIterDrop:
			it.execIterDrop()

		case bytecode.OpCastAs, bytecode.OpCastableAs, bytecode.OpInstanceOf, bytecode.OpTreatAs:
			if err := it.execCastLike(f, in.Op, int(in.Operand)); err != nil {
				return sequence.Empty, err
			}

		case bytecode.OpMakeMap:
			if err := it.execMakeMap(int(in.Operand)); err != nil {
				return sequence.Empty, err
			}

		case bytecode.OpMakeArray:
			if err := it.execMakeArray(int(in.Operand)); err != nil {
				return sequence.Empty, err
			}

		case bytecode.OpMakeArrayCurly:
			if err := it.execMakeArrayCurly(); err != nil {
				return sequence.Empty, err
			}

		// These opcodes are declared for the instruction set's symmetry
		// with the rest of the engine's planned surface, but the compiler
		// never emits them: focus push/pop and position/size access are
		// driven by interpreter-internal logic around OpAxisStep/
		// OpPredicate instead (see execPredicate), map/array element
		// access compiles through OpCallDynamic (see execCallDynamic),
		// and neither tail calls nor a raise expression are part of this
		// engine's compiled surface. Kept as an explicit, named failure
		// rather than an unreachable default case, the same way go-dws's
		// VM.Run reports an opcode its own compiler never reaches.
		case bytecode.OpPushFocus, bytecode.OpPopFocus, bytecode.OpContextPosition, bytecode.OpContextSize,
			bytecode.OpMapGet, bytecode.OpArrayGet, bytecode.OpTailCall, bytecode.OpRaise:
			return sequence.Empty, it.runtimeErrorf("interp: opcode %v not implemented", in.Op)

		default:
			return sequence.Empty, it.runtimeErrorf("interp: unknown opcode %v", in.Op)
		}

		if len(it.frames) < depth {
			// A nested call popped frames past our own (should not happen:
			// execCall/execCallDynamic always restore to depth before
			// returning control here), but guard rather than run past the
			// end of a frame that no longer exists.
			return sequence.Empty, it.runtimeErrorf("interp: frame stack underflow")
		}
	}
}

// singletonAtomic atomizes s, reporting ok=false for the empty sequence
// (callers propagate that to the empty sequence per XPath's singleton-
// operand arithmetic/comparison operators, spec.md §4.1/§4.2) and an error
// for anything with more than one item or an unatomizable item.
func (it *Interpreter) singletonAtomic(s sequence.Sequence) (atomic.Atomic, bool, *xdmerr.Error) {
	if s.IsEmpty() {
		return atomic.Atomic{}, false, nil
	}
	if s.Len() != 1 {
		return atomic.Atomic{}, false, xdmerr.Typef("expected a single item, got a sequence of %d items", s.Len())
	}
	values, err := s.At(0).Atomize()
	if err != nil {
		return atomic.Atomic{}, false, err
	}
	if len(values) != 1 {
		return atomic.Atomic{}, false, xdmerr.Typef("expected a single atomic value")
	}
	return values[0], true, nil
}

func (it *Interpreter) collation() atomic.Collator {
	if coll, err := it.staticCtx.ResolveCollation(""); err == nil && coll != nil {
		return coll
	}
	return atomic.DefaultCollator
}

// implicitTimezone resolves the implicit timezone used to normalize
// offset-naive temporal comparisons (spec.md §4.1, §9 Design Notes): the
// dynamic context's runtime override takes priority, falling back to the
// static context's declared default, falling back to UTC.
func (it *Interpreter) implicitTimezone() int32 {
	if minutes, ok := it.dynCtx.ImplicitTimezone(); ok {
		return minutes
	}
	if d, ok := it.staticCtx.ImplicitTimezone(); ok {
		minutes := int32(d.Seconds / 60)
		if d.Negative {
			minutes = -minutes
		}
		return minutes
	}
	return 0
}

func (it *Interpreter) execArith(op bytecode.OpCode) *xdmerr.Error {
	b, err := it.pop()
	if err != nil {
		return err
	}
	a, err := it.pop()
	if err != nil {
		return err
	}
	av, aok, aerr := it.singletonAtomic(a)
	if aerr != nil {
		return aerr
	}
	bv, bok, berr := it.singletonAtomic(b)
	if berr != nil {
		return berr
	}
	if !aok || !bok {
		it.push(sequence.Empty)
		return nil
	}
	var res atomic.Atomic
	var rerr *xdmerr.Error
	switch op {
	case bytecode.OpAdd:
		res, rerr = av.Add(bv)
	case bytecode.OpSub:
		res, rerr = av.Sub(bv)
	case bytecode.OpMul:
		res, rerr = av.Mul(bv)
	case bytecode.OpDiv:
		res, rerr = av.Div(bv)
	case bytecode.OpIDiv:
		res, rerr = av.IDiv(bv)
	case bytecode.OpMod:
		res, rerr = av.Mod(bv)
	}
	if rerr != nil {
		return rerr
	}
	it.push(sequence.OneAtomic(res))
	return nil
}

func (it *Interpreter) execNeg() *xdmerr.Error {
	a, err := it.pop()
	if err != nil {
		return err
	}
	av, aok, aerr := it.singletonAtomic(a)
	if aerr != nil {
		return aerr
	}
	if !aok {
		it.push(sequence.Empty)
		return nil
	}
	res, rerr := av.Negate()
	if rerr != nil {
		return rerr
	}
	it.push(sequence.OneAtomic(res))
	return nil
}

func (it *Interpreter) execValueCompare(op bytecode.OpCode) *xdmerr.Error {
	b, err := it.pop()
	if err != nil {
		return err
	}
	a, err := it.pop()
	if err != nil {
		return err
	}
	av, aok, aerr := it.singletonAtomic(a)
	if aerr != nil {
		return aerr
	}
	bv, bok, berr := it.singletonAtomic(b)
	if berr != nil {
		return berr
	}
	if !aok || !bok {
		it.push(sequence.Empty)
		return nil
	}
	res, rerr := it.compareOne(op, av, bv, it.collation(), it.implicitTimezone())
	if rerr != nil {
		return rerr
	}
	it.push(sequence.OneAtomic(atomic.Boolean(res)))
	return nil
}

func (it *Interpreter) compareOne(op bytecode.OpCode, a, b atomic.Atomic, coll atomic.Collator, implicitTZMinutes int32) (bool, *xdmerr.Error) {
	switch op {
	case bytecode.OpValueEq, bytecode.OpGeneralEq:
		return a.Eq(b, coll, implicitTZMinutes)
	case bytecode.OpValueNe, bytecode.OpGeneralNe:
		return a.Ne(b, coll, implicitTZMinutes)
	case bytecode.OpValueLt, bytecode.OpGeneralLt:
		return a.Lt(b, coll, implicitTZMinutes)
	case bytecode.OpValueLe, bytecode.OpGeneralLe:
		return a.Le(b, coll, implicitTZMinutes)
	case bytecode.OpValueGt, bytecode.OpGeneralGt:
		return a.Gt(b, coll, implicitTZMinutes)
	case bytecode.OpValueGe, bytecode.OpGeneralGe:
		return a.Ge(b, coll, implicitTZMinutes)
	}
	return false, xdmerr.Typef("interp: unhandled comparison operator %v", op)
}

// execGeneralCompare implements general (existential) comparison: true if
// any pairwise atomized comparison across the two operand sequences holds
// (spec.md §4.2). An empty operand makes the whole comparison false, never
// an error. A pairwise type error is tolerated as long as some other pair
// produces a decisive comparison; only surfaced when every pair errored.
func (it *Interpreter) execGeneralCompare(op bytecode.OpCode) *xdmerr.Error {
	b, err := it.pop()
	if err != nil {
		return err
	}
	a, err := it.pop()
	if err != nil {
		return err
	}
	aItems, aerr := a.Items()
	if aerr != nil {
		return aerr
	}
	bItems, berr := b.Items()
	if berr != nil {
		return berr
	}
	coll := it.collation()
	tz := it.implicitTimezone()
	var anyErr *xdmerr.Error
	tried := false
	for _, ai := range aItems {
		avs, e := ai.Atomize()
		if e != nil {
			anyErr = e
			continue
		}
		for _, av := range avs {
			for _, bi := range bItems {
				bvs, e2 := bi.Atomize()
				if e2 != nil {
					anyErr = e2
					continue
				}
				for _, bv := range bvs {
					ok, cerr := it.compareOne(op, av, bv, coll, tz)
					if cerr != nil {
						anyErr = cerr
						continue
					}
					tried = true
					if ok {
						it.push(sequence.OneAtomic(atomic.Boolean(true)))
						return nil
					}
				}
			}
		}
	}
	if tried || anyErr == nil {
		it.push(sequence.OneAtomic(atomic.Boolean(false)))
		return nil
	}
	return anyErr
}

func (it *Interpreter) execNodeCompare(op bytecode.OpCode) *xdmerr.Error {
	b, err := it.pop()
	if err != nil {
		return err
	}
	a, err := it.pop()
	if err != nil {
		return err
	}
	if a.IsEmpty() || b.IsEmpty() {
		it.push(sequence.Empty)
		return nil
	}
	if a.Len() != 1 || b.Len() != 1 {
		return xdmerr.Typef("a node comparison operand must be a single node")
	}
	ai, bi := a.At(0), b.At(0)
	if ai.Kind() != sequence.ItemNode || bi.Kind() != sequence.ItemNode {
		return xdmerr.Typef("a node comparison operand must be a node")
	}
	adoc, aord := ai.Node().DocumentOrderKey()
	bdoc, bord := bi.Node().DocumentOrderKey()
	var res bool
	switch op {
	case bytecode.OpNodeIs:
		res = adoc == bdoc && aord == bord
	case bytecode.OpNodeBefore:
		res = adoc < bdoc || (adoc == bdoc && aord < bord)
	case bytecode.OpNodeAfter:
		res = adoc > bdoc || (adoc == bdoc && aord > bord)
	}
	it.push(sequence.OneAtomic(atomic.Boolean(res)))
	return nil
}

// execAndOr computes "and"/"or": both operands are already compiled
// eagerly (internal/compiler.binOpcode's doc comment), so this just
// reduces their effective boolean values.
func (it *Interpreter) execAndOr(isAnd bool) *xdmerr.Error {
	b, err := it.pop()
	if err != nil {
		return err
	}
	a, err := it.pop()
	if err != nil {
		return err
	}
	aebv, aerr := a.EffectiveBooleanValue()
	if aerr != nil {
		return aerr
	}
	bebv, berr := b.EffectiveBooleanValue()
	if berr != nil {
		return berr
	}
	var res bool
	if isAnd {
		res = aebv && bebv
	} else {
		res = aebv || bebv
	}
	it.push(sequence.OneAtomic(atomic.Boolean(res)))
	return nil
}

func (it *Interpreter) execNot() *xdmerr.Error {
	a, err := it.pop()
	if err != nil {
		return err
	}
	ebv, eerr := a.EffectiveBooleanValue()
	if eerr != nil {
		return eerr
	}
	it.push(sequence.OneAtomic(atomic.Boolean(!ebv)))
	return nil
}

// execRange implements "lo to hi": either operand empty makes the whole
// range empty, never an error (spec.md §4.2).
func (it *Interpreter) execRange() *xdmerr.Error {
	hi, err := it.pop()
	if err != nil {
		return err
	}
	lo, err := it.pop()
	if err != nil {
		return err
	}
	loA, loOk, loErr := it.singletonAtomic(lo)
	if loErr != nil {
		return loErr
	}
	hiA, hiOk, hiErr := it.singletonAtomic(hi)
	if hiErr != nil {
		return hiErr
	}
	if !loOk || !hiOk {
		it.push(sequence.Empty)
		return nil
	}
	loInt, lerr := loA.CastToInteger()
	if lerr != nil {
		return lerr
	}
	hiInt, herr := hiA.CastToInteger()
	if herr != nil {
		return herr
	}
	it.push(sequence.Range(loInt.IntegerValue().Int64(), hiInt.IntegerValue().Int64()))
	return nil
}
