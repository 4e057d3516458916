package library

import (
	"xpath31/pkg/atomic"
	"xpath31/pkg/sequence"
	"xpath31/pkg/xdmfunc"
	"xpath31/pkg/xdmerr"
)

// RegisterMapFunctions registers the map: function namespace (spec.md §5:
// map:merge, map:get, map:put, map:size, map:keys, map:contains,
// map:remove, map:for-each), grounded on pkg/xdmfunc.Map.
func RegisterMapFunctions(r *Registry) {
	r.Register(MapNamespace, "merge", 1, "map:merge($maps as map(*)*) as map(*)", KindPlain, mapMerge)
	r.Register(MapNamespace, "get", 2, "map:get($map as map(*), $key as xs:anyAtomicType) as item()*", KindPlain, mapGet)
	r.Register(MapNamespace, "put", 3, "map:put($map as map(*), $key as xs:anyAtomicType, $value as item()*) as map(*)", KindPlain, mapPut)
	r.Register(MapNamespace, "size", 1, "map:size($map as map(*)) as xs:integer", KindPlain, mapSize)
	r.Register(MapNamespace, "keys", 1, "map:keys($map as map(*)) as xs:anyAtomicType*", KindPlain, mapKeys)
	r.Register(MapNamespace, "contains", 2, "map:contains($map as map(*), $key as xs:anyAtomicType) as xs:boolean", KindPlain, mapContains)
	r.Register(MapNamespace, "remove", 2, "map:remove($map as map(*), $key as xs:anyAtomicType) as map(*)", KindPlain, mapRemove)
	r.Register(MapNamespace, "for-each", 2, "map:for-each($map as map(*), $f as function(xs:anyAtomicType, item()*) as item()*) as item()*", KindPlain, mapForEach)
}

// RegisterArrayFunctions registers the array: function namespace
// (spec.md §5: array:get, array:put, array:size, array:join,
// array:flatten, array:for-each, array:append, array:insert-before,
// array:remove), grounded on pkg/xdmfunc.Array.
func RegisterArrayFunctions(r *Registry) {
	r.Register(ArrayNamespace, "get", 2, "array:get($array as array(*), $pos as xs:integer) as item()*", KindPlain, arrayGet)
	r.Register(ArrayNamespace, "put", 3, "array:put($array as array(*), $pos as xs:integer, $member as item()*) as array(*)", KindPlain, arrayPut)
	r.Register(ArrayNamespace, "size", 1, "array:size($array as array(*)) as xs:integer", KindPlain, arraySize)
	r.Register(ArrayNamespace, "join", 1, "array:join($arrays as array(*)*) as array(*)", KindPlain, arrayJoin)
	r.Register(ArrayNamespace, "flatten", 1, "array:flatten($input as item()*) as item()*", KindPlain, arrayFlatten)
	r.Register(ArrayNamespace, "for-each", 2, "array:for-each($array as array(*), $f as function(item()*) as item()*) as array(*)", KindPlain, arrayForEach)
	r.Register(ArrayNamespace, "append", 2, "array:append($array as array(*), $member as item()*) as array(*)", KindPlain, arrayAppend)
	r.Register(ArrayNamespace, "insert-before", 3, "array:insert-before($array as array(*), $pos as xs:integer, $member as item()*) as array(*)", KindPlain, arrayInsertBefore)
	r.Register(ArrayNamespace, "remove", 2, "array:remove($array as array(*), $pos as xs:integer) as array(*)", KindPlain, arrayRemove)
}

func requireMap(args []sequence.Sequence, i int) (xdmfunc.Map, *xdmerr.Error) {
	if args[i].Len() != 1 {
		return xdmfunc.Map{}, xdmerr.Typef("argument %d must be a single map", i+1)
	}
	item := args[i].At(0)
	if item.Kind() != sequence.ItemFunction {
		return xdmfunc.Map{}, xdmerr.Typef("argument %d must be a map", i+1)
	}
	fn, ok := item.Function().(xdmfunc.Function)
	if !ok || fn.Kind() != xdmfunc.FunctionMap {
		return xdmfunc.Map{}, xdmerr.Typef("argument %d must be a map", i+1)
	}
	return fn.AsMap(), nil
}

func requireArray(args []sequence.Sequence, i int) (xdmfunc.Array, *xdmerr.Error) {
	if args[i].Len() != 1 {
		return xdmfunc.Array{}, xdmerr.Typef("argument %d must be a single array", i+1)
	}
	item := args[i].At(0)
	if item.Kind() != sequence.ItemFunction {
		return xdmfunc.Array{}, xdmerr.Typef("argument %d must be an array", i+1)
	}
	fn, ok := item.Function().(xdmfunc.Function)
	if !ok || fn.Kind() != xdmfunc.FunctionArray {
		return xdmfunc.Array{}, xdmerr.Typef("argument %d must be an array", i+1)
	}
	return fn.AsArray(), nil
}

func mapItem(m xdmfunc.Map) sequence.Item {
	return sequence.FunctionItem(xdmfunc.MapFunction(m))
}

func arrayItem(a xdmfunc.Array) sequence.Item {
	return sequence.FunctionItem(xdmfunc.ArrayFunction(a))
}

func mapMerge(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	items, err := args[0].Items()
	if err != nil {
		return sequence.Empty, err
	}
	maps := make([]xdmfunc.Map, 0, len(items))
	for i, it := range items {
		if it.Kind() != sequence.ItemFunction {
			return sequence.Empty, xdmerr.Typef("map:merge argument %d is not a map", i+1)
		}
		fn, ok := it.Function().(xdmfunc.Function)
		if !ok || fn.Kind() != xdmfunc.FunctionMap {
			return sequence.Empty, xdmerr.Typef("map:merge argument %d is not a map", i+1)
		}
		maps = append(maps, fn.AsMap())
	}
	return sequence.One(mapItem(xdmfunc.Merge(maps))), nil
}

func mapGet(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	m, err := requireMap(args, 0)
	if err != nil {
		return sequence.Empty, err
	}
	key, kerr := requiredAtomic(args, 1)
	if kerr != nil {
		return sequence.Empty, kerr
	}
	v, ok := m.Get(key)
	if !ok {
		return sequence.Empty, nil
	}
	return v, nil
}

func mapPut(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	m, err := requireMap(args, 0)
	if err != nil {
		return sequence.Empty, err
	}
	key, kerr := requiredAtomic(args, 1)
	if kerr != nil {
		return sequence.Empty, kerr
	}
	return sequence.One(mapItem(m.Put(key, args[2]))), nil
}

func mapSize(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	m, err := requireMap(args, 0)
	if err != nil {
		return sequence.Empty, err
	}
	return one(atomic.IntegerFromInt64(int64(m.Size())))
}

func mapKeys(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	m, err := requireMap(args, 0)
	if err != nil {
		return sequence.Empty, err
	}
	keys := m.Keys()
	out := make([]sequence.Item, len(keys))
	for i, k := range keys {
		out[i] = sequence.AtomicItem(k)
	}
	return sequence.Many(out), nil
}

func mapContains(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	m, err := requireMap(args, 0)
	if err != nil {
		return sequence.Empty, err
	}
	key, kerr := requiredAtomic(args, 1)
	if kerr != nil {
		return sequence.Empty, kerr
	}
	return one(atomic.Boolean(m.Contains(key)))
}

func mapRemove(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	m, err := requireMap(args, 0)
	if err != nil {
		return sequence.Empty, err
	}
	key, kerr := requiredAtomic(args, 1)
	if kerr != nil {
		return sequence.Empty, kerr
	}
	return sequence.One(mapItem(m.Remove(key))), nil
}

func mapForEach(env Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	if ierr := requireInvoke(env); ierr != nil {
		return sequence.Empty, ierr
	}
	m, err := requireMap(args, 0)
	if err != nil {
		return sequence.Empty, err
	}
	fnItem, ferr := requireFunctionItem(args, 1)
	if ferr != nil {
		return sequence.Empty, ferr
	}
	var parts []sequence.Sequence
	forErr := m.ForEach(func(key atomic.Atomic, value sequence.Sequence) *xdmerr.Error {
		result, ierr := env.Invoke(fnItem, []sequence.Sequence{sequence.OneAtomic(key), value})
		if ierr != nil {
			return ierr
		}
		parts = append(parts, result)
		return nil
	})
	if forErr != nil {
		return sequence.Empty, forErr
	}
	return sequence.Concat(parts...)
}

func arrayGet(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	a, err := requireArray(args, 0)
	if err != nil {
		return sequence.Empty, err
	}
	idx, ierr := requiredInt(args, 1)
	if ierr != nil {
		return sequence.Empty, ierr
	}
	return a.Get(idx)
}

func arrayPut(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	a, err := requireArray(args, 0)
	if err != nil {
		return sequence.Empty, err
	}
	idx, ierr := requiredInt(args, 1)
	if ierr != nil {
		return sequence.Empty, ierr
	}
	out, perr := a.Put(idx, args[2])
	if perr != nil {
		return sequence.Empty, perr
	}
	return sequence.One(arrayItem(out)), nil
}

func arraySize(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	a, err := requireArray(args, 0)
	if err != nil {
		return sequence.Empty, err
	}
	return one(atomic.IntegerFromInt64(int64(a.Size())))
}

func arrayJoin(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	items, err := args[0].Items()
	if err != nil {
		return sequence.Empty, err
	}
	arrs := make([]xdmfunc.Array, 0, len(items))
	for i, it := range items {
		if it.Kind() != sequence.ItemFunction {
			return sequence.Empty, xdmerr.Typef("array:join argument %d is not an array", i+1)
		}
		fn, ok := it.Function().(xdmfunc.Function)
		if !ok || fn.Kind() != xdmfunc.FunctionArray {
			return sequence.Empty, xdmerr.Typef("array:join argument %d is not an array", i+1)
		}
		arrs = append(arrs, fn.AsArray())
	}
	return sequence.One(arrayItem(xdmfunc.Join(arrs))), nil
}

func arrayFlatten(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	items, err := args[0].Items()
	if err != nil {
		return sequence.Empty, err
	}
	var out []sequence.Item
	for _, it := range items {
		if it.Kind() == sequence.ItemFunction {
			if fn, ok := it.Function().(xdmfunc.Function); ok && fn.Kind() == xdmfunc.FunctionArray {
				flat, ferr := fn.AsArray().Flatten()
				if ferr != nil {
					return sequence.Empty, ferr
				}
				flatItems, ierr := flat.Items()
				if ierr != nil {
					return sequence.Empty, ierr
				}
				out = append(out, flatItems...)
				continue
			}
		}
		out = append(out, it)
	}
	return sequence.Many(out), nil
}

func arrayForEach(env Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	if ierr := requireInvoke(env); ierr != nil {
		return sequence.Empty, ierr
	}
	a, err := requireArray(args, 0)
	if err != nil {
		return sequence.Empty, err
	}
	fnItem, ferr := requireFunctionItem(args, 1)
	if ferr != nil {
		return sequence.Empty, ferr
	}
	members := a.Members()
	out := make([]sequence.Sequence, len(members))
	for i, m := range members {
		result, ierr := env.Invoke(fnItem, []sequence.Sequence{m})
		if ierr != nil {
			return sequence.Empty, ierr
		}
		out[i] = result
	}
	return sequence.One(arrayItem(xdmfunc.NewArray(out))), nil
}

func arrayAppend(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	a, err := requireArray(args, 0)
	if err != nil {
		return sequence.Empty, err
	}
	return sequence.One(arrayItem(a.Append(args[1]))), nil
}

func arrayInsertBefore(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	a, err := requireArray(args, 0)
	if err != nil {
		return sequence.Empty, err
	}
	idx, ierr := requiredInt(args, 1)
	if ierr != nil {
		return sequence.Empty, ierr
	}
	out, berr := a.InsertBefore(idx, args[2])
	if berr != nil {
		return sequence.Empty, berr
	}
	return sequence.One(arrayItem(out)), nil
}

func arrayRemove(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	a, err := requireArray(args, 0)
	if err != nil {
		return sequence.Empty, err
	}
	idx, ierr := requiredInt(args, 1)
	if ierr != nil {
		return sequence.Empty, ierr
	}
	out, rerr := a.Remove(idx)
	if rerr != nil {
		return sequence.Empty, rerr
	}
	return sequence.One(arrayItem(out)), nil
}
