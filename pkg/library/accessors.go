package library

import (
	"xpath31/pkg/atomic"
	"xpath31/pkg/sequence"
	"xpath31/pkg/xdmerr"
)

// RegisterAccessors registers fn:node-name, fn:string, and fn:data in
// both their one-argument and context-item (zero-argument-at-the-call-
// site) forms (spec.md §4.6).
func RegisterAccessors(r *Registry) {
	r.Register(FnNamespace, "node-name", 1, "fn:node-name($arg as item()?) as xs:string?", KindPlain, fnNodeName)
	r.Register(FnNamespace, "node-name", 0, "fn:node-name() as xs:string?", KindItemFirst, fnNodeName)

	r.Register(FnNamespace, "string", 1, "fn:string($arg as item()?) as xs:string", KindPlain, fnString)
	r.Register(FnNamespace, "string", 0, "fn:string() as xs:string", KindItemFirst, fnString)

	r.Register(FnNamespace, "data", 1, "fn:data($arg as item()*) as xs:anyAtomicType*", KindPlain, fnData)
	r.Register(FnNamespace, "data", 0, "fn:data() as xs:anyAtomicType*", KindItemFirst, fnData)

	r.Register(FnNamespace, "position", 0, "fn:position() as xs:integer", KindPosition, fnPosition)
	r.Register(FnNamespace, "last", 0, "fn:last() as xs:integer", KindSize, fnLast)
}

func fnPosition(env Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	return one(atomic.IntegerFromInt64(int64(env.Position)))
}

func fnLast(env Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	return one(atomic.IntegerFromInt64(int64(env.Size)))
}

func contextArgOrItem(env Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if !env.HasContextItem {
		return sequence.Empty, xdmerr.AbsentContextf("no context item for the implicit argument")
	}
	return sequence.One(env.ContextItem), nil
}

func fnNodeName(env Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	seq, err := contextArgOrItem(env, args)
	if err != nil {
		return sequence.Empty, err
	}
	if seq.IsEmpty() {
		return sequence.Empty, nil
	}
	item := seq.At(0)
	if item.Kind() != sequence.ItemNode {
		return sequence.Empty, xdmerr.Typef("fn:node-name requires a node argument")
	}
	values := item.Node().TypedValue()
	for _, v := range values {
		if v.Kind() == atomic.KindQName {
			return one(atomic.String(v.QNameOf().String()))
		}
	}
	return sequence.Empty, nil
}

func fnString(env Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	seq, err := contextArgOrItem(env, args)
	if err != nil {
		return sequence.Empty, err
	}
	if seq.IsEmpty() {
		return one(atomic.String(""))
	}
	item := seq.At(0)
	switch item.Kind() {
	case sequence.ItemNode:
		return one(atomic.String(item.Node().StringValue()))
	case sequence.ItemFunction:
		return sequence.Empty, xdmerr.Typef("fn:string is not defined for a function item")
	default:
		return one(atomic.String(item.Atomic().String()))
	}
}

func fnData(env Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	seq, err := contextArgOrItem(env, args)
	if err != nil {
		return sequence.Empty, err
	}
	return seq.Atomize()
}
