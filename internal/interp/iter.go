package interp

import (
	"xpath31/internal/bytecode"
	"xpath31/pkg/atomic"
	"xpath31/pkg/sequence"
	"xpath31/pkg/xdmerr"
)

// execIterInit pops the source sequence compiled just before it and opens a
// new iterator frame over it (spec.md §4.5 "for"/"some"/"every").
func (it *Interpreter) execIterInit() *xdmerr.Error {
	seq, err := it.pop()
	if err != nil {
		return err
	}
	it.iters = append(it.iters, iterFrame{seq: seq})
	return nil
}

// execIterNext yields the top iterator's next item as a singleton sequence,
// or closes the frame and takes the branch operand once it is exhausted
// (the same signed-offset convention as OpJump/OpJumpIfFalse).
func (it *Interpreter) execIterNext(f *callFrame, in bytecode.Instruction) *xdmerr.Error {
	if len(it.iters) == 0 {
		return it.runtimeErrorf("interp: ITER_NEXT with no open iterator")
	}
	top := len(it.iters) - 1
	fr := &it.iters[top]
	if fr.idx >= fr.seq.Len() {
		it.iters = it.iters[:top]
		f.ip += int(in.SignedOperand())
		return nil
	}
	it.push(sequence.One(fr.seq.At(fr.idx)))
	fr.idx++
	return nil
}

// execIterPosition pushes the current (just-yielded) 1-based position of
// the innermost open iterator.
func (it *Interpreter) execIterPosition() {
	fr := it.iters[len(it.iters)-1]
	it.push(sequence.OneAtomic(atomic.IntegerFromInt64(int64(fr.idx))))
}

// execIterDrop closes the innermost iterator without touching the value
// stack, for a quantified expression's early escape once its answer is
// already decided (internal/compiler.compileQuantifiedLevel).
func (it *Interpreter) execIterDrop() {
	if len(it.iters) == 0 {
		return
	}
	it.iters = it.iters[:len(it.iters)-1]
}
