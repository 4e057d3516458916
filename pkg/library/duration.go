package library

import (
	"xpath31/pkg/atomic"
	"xpath31/pkg/sequence"
	"xpath31/pkg/xdmerr"
)

// RegisterDuration registers the duration component accessors (spec.md §3;
// xee-interpreter/src/library/datetime.rs supplements the distilled spec
// with these, which it implements but the distillation omitted).
func RegisterDuration(r *Registry) {
	r.Register(FnNamespace, "years-from-duration", 1, "fn:years-from-duration($arg as xs:duration?) as xs:integer?", KindPlain, durationField(func(d atomic.Duration) atomic.Atomic {
		return signedInteger(d.Negative, d.Months/12)
	}))
	r.Register(FnNamespace, "months-from-duration", 1, "fn:months-from-duration($arg as xs:duration?) as xs:integer?", KindPlain, durationField(func(d atomic.Duration) atomic.Atomic {
		return signedInteger(d.Negative, d.Months%12)
	}))
	r.Register(FnNamespace, "days-from-duration", 1, "fn:days-from-duration($arg as xs:duration?) as xs:integer?", KindPlain, durationField(func(d atomic.Duration) atomic.Atomic {
		return signedInteger(d.Negative, int(d.Seconds/86400))
	}))
	r.Register(FnNamespace, "hours-from-duration", 1, "fn:hours-from-duration($arg as xs:duration?) as xs:integer?", KindPlain, durationField(func(d atomic.Duration) atomic.Atomic {
		return signedInteger(d.Negative, int((d.Seconds%86400)/3600))
	}))
	r.Register(FnNamespace, "minutes-from-duration", 1, "fn:minutes-from-duration($arg as xs:duration?) as xs:integer?", KindPlain, durationField(func(d atomic.Duration) atomic.Atomic {
		return signedInteger(d.Negative, int((d.Seconds%3600)/60))
	}))
	r.Register(FnNamespace, "seconds-from-duration", 1, "fn:seconds-from-duration($arg as xs:duration?) as xs:decimal?", KindPlain, durationField(func(d atomic.Duration) atomic.Atomic {
		whole := d.Seconds % 60
		dec := decimalFromSeconds(whole, d.Nanosecond)
		if d.Negative {
			dec = dec.Neg()
		}
		return atomic.Decimal(dec)
	}))
}

// signedInteger applies a duration's overall sign to one of its
// always-non-negative component fields (spec.md §3: a duration's
// negativity is carried once, not per-field).
func signedInteger(negative bool, v int) atomic.Atomic {
	if negative {
		v = -v
	}
	return atomic.IntegerFromInt64(int64(v))
}

func durationField(extract func(atomic.Duration) atomic.Atomic) Callable {
	return func(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
		a, ok, err := optionalAtomic(args, 0)
		if err != nil || !ok {
			return sequence.Empty, err
		}
		if !a.Kind().IsDuration() {
			return sequence.Empty, xdmerr.Typef("argument must be a duration value")
		}
		return one(extract(a.DurationOf()))
	}
}
