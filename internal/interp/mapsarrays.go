package interp

import (
	"xpath31/pkg/atomic"
	"xpath31/pkg/sequence"
	"xpath31/pkg/xdmerr"
	"xpath31/pkg/xdmfunc"
)

// execMakeMap builds a map constructor's value: n key/value pairs sit on
// the stack as key, value, key, value, ... in the order
// internal/compiler.compileMapConstructor pushed them.
func (it *Interpreter) execMakeMap(n int) *xdmerr.Error {
	pairs, err := it.popArgs(2 * n)
	if err != nil {
		return err
	}
	keys := make([]atomic.Atomic, n)
	values := make([]sequence.Sequence, n)
	for i := 0; i < n; i++ {
		k, ok, kerr := it.singletonAtomic(pairs[2*i])
		if kerr != nil {
			return kerr
		}
		if !ok {
			return xdmerr.InvalidArgumentf("a map key must not be the empty sequence")
		}
		keys[i] = k
		values[i] = pairs[2*i+1]
	}
	m, merr := xdmfunc.NewMap(keys, values)
	if merr != nil {
		return merr
	}
	it.push(sequence.One(sequence.FunctionItem(xdmfunc.MapFunction(m))))
	return nil
}

// execMakeArray builds the square-array-constructor value "[e1, e2, ...]":
// each compiled member expression contributes one array member verbatim
// (spec.md §5 "square-array members are not flattened").
func (it *Interpreter) execMakeArray(n int) *xdmerr.Error {
	members, err := it.popArgs(n)
	if err != nil {
		return err
	}
	arr := xdmfunc.NewArray(members)
	it.push(sequence.One(sequence.FunctionItem(xdmfunc.ArrayFunction(arr))))
	return nil
}

// execMakeArrayCurly builds the curly-array-constructor value
// "array { expr }": expr's resulting sequence is popped as one value and
// unpacked item by item, each item becoming its own array member (unlike
// the square form, whose members are the already-distinct sub-expressions
// themselves).
func (it *Interpreter) execMakeArrayCurly() *xdmerr.Error {
	v, err := it.pop()
	if err != nil {
		return err
	}
	items, ierr := v.Items()
	if ierr != nil {
		return ierr
	}
	members := make([]sequence.Sequence, len(items))
	for i, item := range items {
		members[i] = sequence.One(item)
	}
	arr := xdmfunc.NewArray(members)
	it.push(sequence.One(sequence.FunctionItem(xdmfunc.ArrayFunction(arr))))
	return nil
}
