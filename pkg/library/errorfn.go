package library

import (
	"fmt"

	"xpath31/pkg/atomic"
	"xpath31/pkg/sequence"
	"xpath31/pkg/xdmerr"
)

// RegisterErrorAndID registers fn:error and fn:generate-id (spec.md §4.6
// supplemented from xee-interpreter/src/library/id.rs and the standard
// fn:error family, which the distilled spec omitted).
func RegisterErrorAndID(r *Registry) {
	r.Register(FnNamespace, "error", 0, "fn:error() as none", KindPlain, fnError0)
	r.Register(FnNamespace, "error", 1, "fn:error($code as xs:string?) as none", KindPlain, fnError1)
	r.Register(FnNamespace, "error", 2, "fn:error($code as xs:string?, $description as xs:string) as none", KindPlain, fnError2)
	r.Register(FnNamespace, "generate-id", 1, "fn:generate-id($arg as node()?) as xs:string", KindPlain, fnGenerateID)
	r.Register(FnNamespace, "generate-id", 0, "fn:generate-id() as xs:string", KindItemFirst, fnGenerateID)
}

func fnError0(_ Env, _ []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	return sequence.Empty, xdmerr.Explicit("", "fn:error() called")
}

func fnError1(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	code, ok, err := optionalAtomic(args, 0)
	if err != nil {
		return sequence.Empty, err
	}
	if !ok {
		return sequence.Empty, xdmerr.Explicit("", "fn:error() called")
	}
	return sequence.Empty, xdmerr.Explicit(code.StringValue(), "fn:error() called")
}

func fnError2(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	code, ok, err := optionalAtomic(args, 0)
	if err != nil {
		return sequence.Empty, err
	}
	description, derr := requiredString(args, 1)
	if derr != nil {
		return sequence.Empty, derr
	}
	codeStr := ""
	if ok {
		codeStr = code.StringValue()
	}
	return sequence.Empty, xdmerr.Explicit(codeStr, description)
}

func fnGenerateID(env Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	seq, err := contextArgOrItem(env, args)
	if err != nil {
		return sequence.Empty, err
	}
	if seq.IsEmpty() {
		return one(atomic.String(""))
	}
	item := seq.At(0)
	if item.Kind() != sequence.ItemNode {
		return sequence.Empty, xdmerr.Typef("fn:generate-id requires a node argument")
	}
	docID, order := item.Node().DocumentOrderKey()
	return one(atomic.String(fmt.Sprintf("d%do%d", docID, order)))
}
