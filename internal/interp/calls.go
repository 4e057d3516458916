package interp

import (
	"xpath31/pkg/library"
	"xpath31/pkg/program"
	"xpath31/pkg/sequence"
	"xpath31/pkg/xdmerr"
	"xpath31/pkg/xdmfunc"
)

// execCall dispatches a statically resolved OpCall: either a built-in
// looked up by its (namespace, local, arity) triple, or a program function
// this compilation placed in the flat function table (spec.md §4.6/§4.7).
// Program functions called this way never carry a closure: only inline
// function expressions (compiled via OpMakeClosure) close over their
// defining scope.
func (it *Interpreter) execCall(f *callFrame, operand uint16) *xdmerr.Error {
	target := f.fn.CallTargets[operand]
	args, err := it.popArgs(target.Arity)
	if err != nil {
		return err
	}
	if target.IsProgramFunction {
		fn := it.prog.Functions[target.FunctionIndex]
		result, rerr := it.callInline(fn, args, nil)
		if rerr != nil {
			return rerr
		}
		it.push(result)
		return nil
	}
	desc, ok := it.registry.Lookup(target.Namespace, target.Local, target.Arity)
	if !ok {
		return it.runtimeErrorf("interp: unresolved call target %s:%s#%d", target.Namespace, target.Local, target.Arity)
	}
	result, rerr := desc.Fn(it.env(), args)
	if rerr != nil {
		return rerr
	}
	it.push(result)
	return nil
}

// execCallDynamic implements a dynamic function call ("$f(...)", including
// map/array postfix lookup "$m(k)"/"$a(i)", which compile through this
// same opcode rather than a dedicated map/array-get one): the callee was
// compiled and pushed before its arguments, so it sits below them on the
// stack (internal/compiler.compileCall's Callee branch).
func (it *Interpreter) execCallDynamic(argc int) *xdmerr.Error {
	args, err := it.popArgs(argc)
	if err != nil {
		return err
	}
	calleeSeq, err := it.pop()
	if err != nil {
		return err
	}
	if calleeSeq.Len() != 1 || calleeSeq.At(0).Kind() != sequence.ItemFunction {
		return xdmerr.Typef("a dynamic call target must be a single function item")
	}
	result, rerr := it.invokeCallable(calleeSeq.At(0).Function(), args)
	if rerr != nil {
		return rerr
	}
	it.push(result)
	return nil
}

// invokeItem backs library.Env.Invoke, letting higher-order built-ins
// (fn:for-each, fn:filter, fn:fold-left/-right in pkg/library/
// higherorder.go) call back into a dynamic function item without that
// package needing to import this one.
func (it *Interpreter) invokeItem(fnItem sequence.Item, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	if fnItem.Kind() != sequence.ItemFunction {
		return sequence.Empty, xdmerr.Typef("invoke requires a function item")
	}
	return it.invokeCallable(fnItem.Function(), args)
}

// invokeCallable dispatches on the concrete xdmfunc.Function a
// sequence.Callable wraps (spec.md §5: inline functions, maps, and arrays
// are all callable function items).
func (it *Interpreter) invokeCallable(c sequence.Callable, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	fn, ok := c.(xdmfunc.Function)
	if !ok {
		return sequence.Empty, xdmerr.Typef("unsupported function item implementation")
	}
	switch fn.Kind() {
	case xdmfunc.FunctionInline:
		inline, closure := fn.Inline()
		return it.callInline(inline, args, closure)

	case xdmfunc.FunctionMap:
		if len(args) != 1 {
			return sequence.Empty, xdmerr.InvalidArgumentf("a map called as a function takes exactly one argument")
		}
		key, ok, kerr := it.singletonAtomic(args[0])
		if kerr != nil {
			return sequence.Empty, kerr
		}
		if !ok {
			return sequence.Empty, xdmerr.InvalidArgumentf("a map key must not be the empty sequence")
		}
		v, found := fn.AsMap().Get(key)
		if !found {
			return sequence.Empty, nil
		}
		return v, nil

	case xdmfunc.FunctionArray:
		if len(args) != 1 {
			return sequence.Empty, xdmerr.InvalidArgumentf("an array called as a function takes exactly one argument")
		}
		idxAtomic, ok, ierr := it.singletonAtomic(args[0])
		if ierr != nil {
			return sequence.Empty, ierr
		}
		if !ok {
			return sequence.Empty, xdmerr.InvalidArgumentf("an array index must not be the empty sequence")
		}
		idxInt, cerr := idxAtomic.CastToInteger()
		if cerr != nil {
			return sequence.Empty, cerr
		}
		return fn.AsArray().Get(int(idxInt.IntegerValue().Int64()))

	case xdmfunc.FunctionStatic:
		// Never actually constructed by this engine (no call site builds a
		// FunctionStatic value), but handled defensively: resolve it the
		// same way a static OpCall would.
		desc, ok := it.registry.Lookup(library.FnNamespace, fn.Name(), fn.Arity())
		if !ok {
			return sequence.Empty, xdmerr.InvalidValuef("unresolved static function reference %s#%d", fn.Name(), fn.Arity())
		}
		return desc.Fn(it.env(), args)
	}
	return sequence.Empty, xdmerr.Typef("interp: unknown function item kind")
}

// callInline runs one inline-function invocation to completion, pushing a
// fresh frame and recursing into execFrame (spec.md §4.5's "a call pushes
// a new frame and resumes the caller with its return value").
func (it *Interpreter) callInline(fn *program.InlineFunction, args []sequence.Sequence, closure *xdmfunc.Closure) (sequence.Sequence, *xdmerr.Error) {
	if len(args) != len(fn.ParamNames) {
		return sequence.Empty, xdmerr.InvalidArgumentf("%s expects %d argument(s), got %d", fn.Name, len(fn.ParamNames), len(args))
	}
	it.pushFrame(fn, args, closure)
	return it.execFrame()
}

// execMakeClosure builds the Closure for InlineFunction idx, capturing
// each free variable it closes over by value rather than by live frame
// reference: XPath's let/for/function-parameter bindings are single-
// assignment, so there is no DWScript-style mutable upvalue to keep open
// across frame boundaries (unlike go-dws's Closure/Upvalue, whose
// captureUpvalue/closeUpvaluesForFrame exist because DWScript variables
// can be reassigned after a nested closure captures them).
func (it *Interpreter) execMakeClosure(f *callFrame, idx int) *xdmerr.Error {
	fn := it.prog.Functions[idx]
	closure := &xdmfunc.Closure{Function: fn, Upvalues: make([]*xdmfunc.Upvalue, len(fn.Upvalues))}
	for i, uv := range fn.Upvalues {
		var val sequence.Sequence
		if uv.IsLocal {
			if uv.Index >= len(f.locals) {
				return it.runtimeErrorf("interp: closure capture of out-of-range local %d", uv.Index)
			}
			val = f.locals[uv.Index]
		} else {
			if f.closure == nil || uv.Index >= len(f.closure.Upvalues) {
				return it.runtimeErrorf("interp: closure capture of out-of-range upvalue %d", uv.Index)
			}
			captured, ok := f.closure.Upvalues[uv.Index].Get().(sequence.Sequence)
			if !ok {
				return it.runtimeErrorf("interp: upvalue %d holds no sequence", uv.Index)
			}
			val = captured
		}
		capturedVal := val
		closure.Upvalues[i] = xdmfunc.NewUpvalue(
			func() any { return capturedVal },
			func(v any) { capturedVal = v.(sequence.Sequence) },
		)
	}
	it.push(sequence.One(sequence.FunctionItem(xdmfunc.InlineFunctionValue(fn, closure))))
	return nil
}
