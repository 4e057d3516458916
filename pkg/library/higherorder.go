package library

import (
	"xpath31/pkg/sequence"
	"xpath31/pkg/xdmerr"
)

// RegisterHigherOrder registers fn:for-each, fn:filter, fn:fold-left,
// fn:fold-right, and the "map" alias spec.md §4.6 lists alongside them
// (fn:for-each under a second name, a convenience some XPath hosts offer
// for callers used to calling it "map").
func RegisterHigherOrder(r *Registry) {
	r.Register(FnNamespace, "for-each", 2, "fn:for-each($seq as item()*, $f as function(item()) as item()*) as item()*", KindPlain, fnForEach)
	r.Register(FnNamespace, "map", 2, "fn:map($seq as item()*, $f as function(item()) as item()*) as item()*", KindPlain, fnForEach)
	r.Register(FnNamespace, "filter", 2, "fn:filter($seq as item()*, $f as function(item()) as xs:boolean) as item()*", KindPlain, fnFilter)
	r.Register(FnNamespace, "fold-left", 3, "fn:fold-left($seq as item()*, $zero as item()*, $f as function(item()*, item()) as item()*) as item()*", KindPlain, fnFoldLeft)
	r.Register(FnNamespace, "fold-right", 3, "fn:fold-right($seq as item()*, $zero as item()*, $f as function(item(), item()*) as item()*) as item()*", KindPlain, fnFoldRight)
}

func requireInvoke(env Env) *xdmerr.Error {
	if env.Invoke == nil {
		return xdmerr.AbsentContextf("higher-order call requires a function-invocation capability the caller did not supply")
	}
	return nil
}

func fnForEach(env Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	if err := requireInvoke(env); err != nil {
		return sequence.Empty, err
	}
	items, err := args[0].Items()
	if err != nil {
		return sequence.Empty, err
	}
	fnItem, ferr := requireFunctionItem(args, 1)
	if ferr != nil {
		return sequence.Empty, ferr
	}
	var parts []sequence.Sequence
	for _, it := range items {
		result, ierr := env.Invoke(fnItem, []sequence.Sequence{sequence.One(it)})
		if ierr != nil {
			return sequence.Empty, ierr
		}
		parts = append(parts, result)
	}
	return sequence.Concat(parts...)
}

func fnFilter(env Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	if err := requireInvoke(env); err != nil {
		return sequence.Empty, err
	}
	items, err := args[0].Items()
	if err != nil {
		return sequence.Empty, err
	}
	fnItem, ferr := requireFunctionItem(args, 1)
	if ferr != nil {
		return sequence.Empty, ferr
	}
	var kept []sequence.Item
	for _, it := range items {
		result, ierr := env.Invoke(fnItem, []sequence.Sequence{sequence.One(it)})
		if ierr != nil {
			return sequence.Empty, ierr
		}
		ok, eerr := result.EffectiveBooleanValue()
		if eerr != nil {
			return sequence.Empty, eerr
		}
		if ok {
			kept = append(kept, it)
		}
	}
	return sequence.Many(kept), nil
}

func fnFoldLeft(env Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	if err := requireInvoke(env); err != nil {
		return sequence.Empty, err
	}
	items, err := args[0].Items()
	if err != nil {
		return sequence.Empty, err
	}
	fnItem, ferr := requireFunctionItem(args, 2)
	if ferr != nil {
		return sequence.Empty, ferr
	}
	acc := args[1]
	for _, it := range items {
		result, ierr := env.Invoke(fnItem, []sequence.Sequence{acc, sequence.One(it)})
		if ierr != nil {
			return sequence.Empty, ierr
		}
		acc = result
	}
	return acc, nil
}

func fnFoldRight(env Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	if err := requireInvoke(env); err != nil {
		return sequence.Empty, err
	}
	items, err := args[0].Items()
	if err != nil {
		return sequence.Empty, err
	}
	fnItem, ferr := requireFunctionItem(args, 2)
	if ferr != nil {
		return sequence.Empty, ferr
	}
	acc := args[1]
	for i := len(items) - 1; i >= 0; i-- {
		result, ierr := env.Invoke(fnItem, []sequence.Sequence{sequence.One(items[i]), acc})
		if ierr != nil {
			return sequence.Empty, ierr
		}
		acc = result
	}
	return acc, nil
}

func requireFunctionItem(args []sequence.Sequence, i int) (sequence.Item, *xdmerr.Error) {
	if args[i].Len() != 1 {
		return sequence.Item{}, xdmerr.Typef("argument %d must be a single function item", i+1)
	}
	item := args[i].At(0)
	if item.Kind() != sequence.ItemFunction {
		return sequence.Item{}, xdmerr.Typef("argument %d must be a function item", i+1)
	}
	return item, nil
}
