package library

import (
	"xpath31/pkg/atomic"
	"xpath31/pkg/sequence"
	"xpath31/pkg/xdmerr"
)

// RegisterSequenceOps registers the sequence built-ins (spec.md §4.6:
// count, empty, exists, reverse, distinct-values, subsequence, index-of).
func RegisterSequenceOps(r *Registry) {
	r.Register(FnNamespace, "count", 1, "fn:count($arg as item()*) as xs:integer", KindPlain, fnCount)
	r.Register(FnNamespace, "empty", 1, "fn:empty($arg as item()*) as xs:boolean", KindPlain, fnEmpty)
	r.Register(FnNamespace, "exists", 1, "fn:exists($arg as item()*) as xs:boolean", KindPlain, fnExists)
	r.Register(FnNamespace, "reverse", 1, "fn:reverse($arg as item()*) as item()*", KindPlain, fnReverse)
	r.Register(FnNamespace, "distinct-values", 1, "fn:distinct-values($arg as xs:anyAtomicType*) as xs:anyAtomicType*", KindCollation, fnDistinctValues)
	r.Register(FnNamespace, "subsequence", 2, "fn:subsequence($src as item()*, $start as xs:double) as item()*", KindPlain, fnSubsequence)
	r.Register(FnNamespace, "subsequence", 3, "fn:subsequence($src as item()*, $start as xs:double, $len as xs:double) as item()*", KindPlain, fnSubsequence)
	r.Register(FnNamespace, "index-of", 2, "fn:index-of($src as xs:anyAtomicType*, $search as xs:anyAtomicType) as xs:integer*", KindCollation, fnIndexOf)
	r.Register(FnNamespace, "head", 1, "fn:head($arg as item()*) as item()?", KindPlain, fnHead)
	r.Register(FnNamespace, "tail", 1, "fn:tail($arg as item()*) as item()*", KindPlain, fnTail)
}

func fnCount(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	return one(atomic.IntegerFromInt64(int64(args[0].Len())))
}

func fnEmpty(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	return one(atomic.Boolean(args[0].IsEmpty()))
}

func fnExists(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	return one(atomic.Boolean(!args[0].IsEmpty()))
}

func fnReverse(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	items, err := args[0].Items()
	if err != nil {
		return sequence.Empty, err
	}
	out := make([]sequence.Item, len(items))
	for i, it := range items {
		out[len(items)-1-i] = it
	}
	return sequence.Many(out), nil
}

func fnDistinctValues(env Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	atomized, err := args[0].Atomize()
	if err != nil {
		return sequence.Empty, err
	}
	items, ierr := atomized.Items()
	if ierr != nil {
		return sequence.Empty, ierr
	}
	collator := env.Collation
	if collator == nil {
		collator = atomic.DefaultCollator
	}
	var out []sequence.Item
	for _, it := range items {
		a := it.Atomic()
		dup := false
		for _, kept := range out {
			k := kept.Atomic()
			eq, eerr := a.Eq(k, collator, env.ImplicitTimezoneMinutes)
			if eerr == nil && eq {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, it)
		}
	}
	return sequence.Many(out), nil
}

func fnSubsequence(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	items, err := args[0].Items()
	if err != nil {
		return sequence.Empty, err
	}
	startArg, serr := requiredAtomic(args, 1)
	if serr != nil {
		return sequence.Empty, serr
	}
	startD, derr := startArg.CastToDouble()
	if derr != nil {
		return sequence.Empty, derr
	}
	start := roundHalfUp(startD.DoubleValue(), 0)

	length := float64(len(items)) - start + 1
	if len(args) > 2 {
		lenArg, lerr := requiredAtomic(args, 2)
		if lerr != nil {
			return sequence.Empty, lerr
		}
		lenD, lderr := lenArg.CastToDouble()
		if lderr != nil {
			return sequence.Empty, lderr
		}
		length = roundHalfUp(lenD.DoubleValue(), 0)
	}

	lo := int(start)
	hi := lo + int(length)
	if lo < 1 {
		lo = 1
	}
	if hi > len(items)+1 {
		hi = len(items) + 1
	}
	if hi <= lo {
		return sequence.Empty, nil
	}
	return sequence.Many(items[lo-1 : hi-1]), nil
}

func fnIndexOf(env Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	items, err := args[0].Items()
	if err != nil {
		return sequence.Empty, err
	}
	search, serr := requiredAtomic(args, 1)
	if serr != nil {
		return sequence.Empty, serr
	}
	collator := env.Collation
	if collator == nil {
		collator = atomic.DefaultCollator
	}
	var out []sequence.Item
	for i, it := range items {
		eq, eerr := it.Atomic().Eq(search, collator, env.ImplicitTimezoneMinutes)
		if eerr != nil {
			return sequence.Empty, eerr
		}
		if eq {
			out = append(out, sequence.AtomicItem(atomic.IntegerFromInt64(int64(i+1))))
		}
	}
	return sequence.Many(out), nil
}

func fnHead(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	if args[0].IsEmpty() {
		return sequence.Empty, nil
	}
	return sequence.One(args[0].At(0)), nil
}

func fnTail(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	items, err := args[0].Items()
	if err != nil {
		return sequence.Empty, err
	}
	if len(items) <= 1 {
		return sequence.Empty, nil
	}
	return sequence.Many(items[1:]), nil
}
