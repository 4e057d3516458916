// Package interp executes a compiled pkg/program.Program: a stack machine
// modeled directly on go-dws's internal/bytecode.VM (a value stack, a call-
// frame stack, fetch/decode/execute over a flat Instruction slice), with two
// stacks the teacher's VM has no analogue for — a focus stack (context item/
// position/size, pushed once per predicate candidate, spec.md §4.3) and an
// iterator stack backing OpIterInit/OpIterNext/
// OpIterPosition/OpIterDrop (spec.md §4.5's "for"/"some"/"every"). Every
// value on the value stack is a sequence.Sequence, never a bare item, per
// internal/compiler's design (see that package's doc comment).
package interp

import (
	"time"

	"xpath31/internal/bytecode"
	"xpath31/pkg/context"
	"xpath31/pkg/library"
	"xpath31/pkg/program"
	"xpath31/pkg/sequence"
	"xpath31/pkg/span"
	"xpath31/pkg/xdmerr"
	"xpath31/pkg/xdmfunc"
)

// callFrame is one active function invocation, mirroring go-dws's
// bytecode.callFrame (chunk/ip/locals/closure) with "self" dropped — XPath
// functions have no receiver.
type callFrame struct {
	fn      *program.InlineFunction
	ip      int
	locals  []sequence.Sequence
	closure *xdmfunc.Closure
}

// iterFrame is one open "for"/"some"/"every" iteration, backing
// OpIterInit/OpIterNext/OpIterPosition/OpIterDrop. idx is the 0-based index
// of the next item OpIterNext will yield.
type iterFrame struct {
	seq sequence.Sequence
	idx int
}

// Interpreter holds all run-time state for one Program evaluation. A fresh
// Interpreter is built per Eval call; nothing here is reused across
// evaluations (matching DynamicContext's own "cheap to construct, never
// shared" discipline, pkg/context/dynamic.go).
type Interpreter struct {
	prog      *program.Program
	staticCtx *context.StaticContext
	registry  *library.Registry
	dynCtx    *context.DynamicContext
	now       time.Time

	stack   []sequence.Sequence
	frames  []callFrame
	iters   []iterFrame
	focus   []context.Focus
	globals []sequence.Sequence
}

// Eval runs prog to completion against dynCtx, resolving free function
// calls against registry and static declarations against staticCtx (the
// same pair Compile resolved the program against). Returns the value of the
// top-level expression (spec.md §4.5, §4.7).
func Eval(prog *program.Program, staticCtx *context.StaticContext, registry *library.Registry, dynCtx *context.DynamicContext) (sequence.Sequence, *xdmerr.Error) {
	main := prog.Main()
	if main == nil {
		return sequence.Empty, xdmerr.InvalidValuef("program has no main function")
	}

	it := &Interpreter{
		prog:      prog,
		staticCtx: staticCtx,
		registry:  registry,
		dynCtx:    dynCtx,
		now:       time.Now(),
	}

	globals, err := it.resolveGlobals()
	if err != nil {
		return sequence.Empty, err
	}
	it.globals = globals

	if item, ok := dynCtx.ContextItem(); ok {
		it.focus = append(it.focus, context.Focus{Item: item, Position: 1, Size: 1})
	}

	it.pushFrame(main, nil, nil)
	return it.run()
}

// resolveGlobals binds each of prog.Globals (in slot order) to its value:
// the dynamic context's binding if one was supplied, else the static
// context's declared default, else the empty sequence (spec.md §4.7 does
// not require every declared external variable to be given a value; a
// missing one without a default is simply empty, matching fn:doc-style
// optional-input semantics elsewhere in this engine).
func (it *Interpreter) resolveGlobals() ([]sequence.Sequence, *xdmerr.Error) {
	out := make([]sequence.Sequence, len(it.prog.Globals))
	for i, name := range it.prog.Globals {
		if v, ok := it.dynCtx.Variable(name); ok {
			out[i] = v
			continue
		}
		if decl, ok := it.staticCtx.ResolveVariable(name); ok && decl.HasDefault {
			out[i] = decl.DefaultValue
			continue
		}
		out[i] = sequence.Empty
	}
	return out, nil
}

func (it *Interpreter) pushFrame(fn *program.InlineFunction, args []sequence.Sequence, closure *xdmfunc.Closure) {
	locals := make([]sequence.Sequence, fn.LocalCount)
	copy(locals, args)
	it.frames = append(it.frames, callFrame{fn: fn, locals: locals, closure: closure})
}

func (it *Interpreter) currentFrame() *callFrame {
	return &it.frames[len(it.frames)-1]
}

func (it *Interpreter) push(s sequence.Sequence) {
	it.stack = append(it.stack, s)
}

func (it *Interpreter) pop() (sequence.Sequence, *xdmerr.Error) {
	if len(it.stack) == 0 {
		return sequence.Empty, xdmerr.InvalidValuef("interp: stack underflow")
	}
	v := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	return v, nil
}

func (it *Interpreter) peek() (sequence.Sequence, *xdmerr.Error) {
	if len(it.stack) == 0 {
		return sequence.Empty, xdmerr.InvalidValuef("interp: stack underflow")
	}
	return it.stack[len(it.stack)-1], nil
}

// popArgs pops n values and returns them in their original left-to-right
// (push) order, matching internal/compiler's "push args left to right" call
// convention.
func (it *Interpreter) popArgs(n int) ([]sequence.Sequence, *xdmerr.Error) {
	if len(it.stack) < n {
		return nil, xdmerr.InvalidValuef("interp: stack underflow popping %d args", n)
	}
	args := make([]sequence.Sequence, n)
	copy(args, it.stack[len(it.stack)-n:])
	it.stack = it.stack[:len(it.stack)-n]
	return args, nil
}

func (it *Interpreter) currentFocus() (context.Focus, bool) {
	if len(it.focus) == 0 {
		return context.Focus{}, false
	}
	return it.focus[len(it.focus)-1], true
}

func (it *Interpreter) pushFocus(f context.Focus) { it.focus = append(it.focus, f) }

func (it *Interpreter) popFocus() {
	if len(it.focus) == 0 {
		return
	}
	it.focus = it.focus[:len(it.focus)-1]
}

// env builds the library.Env the current focus and collation expose to a
// built-in call, per pkg/library/descriptor.go's contract.
func (it *Interpreter) env() library.Env {
	e := library.Env{Invoke: it.invokeItem, Now: it.now, ImplicitTimezoneMinutes: it.implicitTimezone()}
	if f, ok := it.currentFocus(); ok {
		e.ContextItem = f.Item
		e.HasContextItem = true
		e.Position = f.Position
		e.Size = f.Size
	}
	if coll, err := it.staticCtx.ResolveCollation(""); err == nil {
		e.Collation = coll
	}
	return e
}

// currentSpan returns the span of the instruction the current frame just
// executed, for attaching to a runtime error raised while handling it.
func (it *Interpreter) currentSpan() span.Span {
	if len(it.frames) == 0 {
		return span.Span{}
	}
	f := it.currentFrame()
	return f.fn.Chunk.SpanAt(f.ip - 1)
}

// opAt decodes the instruction at the current frame's ip and advances past
// it, matching go-dws's Run: "inst := frame.chunk.Code[frame.ip]; frame.ip++".
func (it *Interpreter) opAt(f *callFrame) (bytecode.Instruction, bool) {
	if f.ip >= len(f.fn.Chunk.Code) {
		return bytecode.Instruction{}, false
	}
	in := f.fn.Chunk.Code[f.ip]
	f.ip++
	return in, true
}
