package library

import (
	"xpath31/pkg/atomic"
	"xpath31/pkg/sequence"
	"xpath31/pkg/xdmerr"
)

// optionalAtomic extracts the zero-or-one atomic value at args[i],
// atomizing nodes along the way (spec.md §5). ok is false for the empty
// sequence.
func optionalAtomic(args []sequence.Sequence, i int) (atomic.Atomic, bool, *xdmerr.Error) {
	seq, err := args[i].Atomize()
	if err != nil {
		return atomic.Atomic{}, false, err
	}
	if seq.IsEmpty() {
		return atomic.Atomic{}, false, nil
	}
	if seq.Len() > 1 {
		return atomic.Atomic{}, false, xdmerr.Typef("argument %d must be at most one item", i+1)
	}
	return seq.At(0).Atomic(), true, nil
}

// requiredAtomic extracts exactly one atomic value at args[i].
func requiredAtomic(args []sequence.Sequence, i int) (atomic.Atomic, *xdmerr.Error) {
	a, ok, err := optionalAtomic(args, i)
	if err != nil {
		return atomic.Atomic{}, err
	}
	if !ok {
		return atomic.Atomic{}, xdmerr.Typef("argument %d must not be an empty sequence", i+1)
	}
	return a, nil
}

// requiredString extracts a required string argument.
func requiredString(args []sequence.Sequence, i int) (string, *xdmerr.Error) {
	a, err := requiredAtomic(args, i)
	if err != nil {
		return "", err
	}
	return a.StringValue(), nil
}

// optionalStringOrContext resolves a KindItemFirst-style string argument:
// the string value of args[i] if present, or the context item's string
// value otherwise.
func optionalStringOrContext(env Env, args []sequence.Sequence, i int) (string, *xdmerr.Error) {
	if i < len(args) {
		a, ok, err := optionalAtomic(args, i)
		if err != nil {
			return "", err
		}
		if ok {
			return a.String(), nil
		}
		return "", nil
	}
	if !env.HasContextItem {
		return "", xdmerr.AbsentContextf("no context item for the implicit argument")
	}
	values, err := env.ContextItem.Atomize()
	if err != nil {
		return "", err
	}
	if len(values) == 0 {
		return "", nil
	}
	return values[0].String(), nil
}

// requiredInt extracts a required integer argument as a plain int.
func requiredInt(args []sequence.Sequence, i int) (int, *xdmerr.Error) {
	a, err := requiredAtomic(args, i)
	if err != nil {
		return 0, err
	}
	if !a.Kind().IsNumeric() {
		return 0, xdmerr.Typef("argument %d must be numeric", i+1)
	}
	iv, cerr := a.CastToInteger()
	if cerr != nil {
		return 0, cerr
	}
	return int(iv.IntegerValue().Int64()), nil
}

func one(a atomic.Atomic) (sequence.Sequence, *xdmerr.Error) {
	return sequence.OneAtomic(a), nil
}
