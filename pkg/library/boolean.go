package library

import (
	"xpath31/pkg/atomic"
	"xpath31/pkg/sequence"
	"xpath31/pkg/xdmerr"
)

// RegisterBoolean registers fn:true, fn:false, fn:not, and fn:boolean
// (spec.md §4.6).
func RegisterBoolean(r *Registry) {
	r.Register(FnNamespace, "true", 0, "fn:true() as xs:boolean", KindPlain, func(Env, []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
		return one(atomic.Boolean(true))
	})
	r.Register(FnNamespace, "false", 0, "fn:false() as xs:boolean", KindPlain, func(Env, []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
		return one(atomic.Boolean(false))
	})
	r.Register(FnNamespace, "not", 1, "fn:not($arg as item()*) as xs:boolean", KindPlain, fnNot)
	r.Register(FnNamespace, "boolean", 1, "fn:boolean($arg as item()*) as xs:boolean", KindPlain, fnBoolean)
}

func fnNot(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	ebv, err := args[0].EffectiveBooleanValue()
	if err != nil {
		return sequence.Empty, err
	}
	return one(atomic.Boolean(!ebv))
}

func fnBoolean(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	ebv, err := args[0].EffectiveBooleanValue()
	if err != nil {
		return sequence.Empty, err
	}
	return one(atomic.Boolean(ebv))
}
