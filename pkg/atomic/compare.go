package atomic

import (
	"bytes"
	"math/big"

	"xpath31/pkg/xdmerr"
)

// Collator abstracts string ordering for value/general comparisons; the
// default (codepoint) collation compares raw bytes, while pkg/collation
// supplies locale-aware collators implementing the same interface.
type Collator interface {
	Compare(a, b string) int
}

type codepointCollator struct{}

func (codepointCollator) Compare(a, b string) int { return bytes.Compare([]byte(a), []byte(b)) }

// DefaultCollator is the codepoint collation used when no explicit collation
// is supplied (spec.md §4.1).
var DefaultCollator Collator = codepointCollator{}

// coerceBinaryCompare implements cast_binary_compare (spec.md §4.1): like
// cast_binary_arithmetic, Untyped casts to xs:double when the other operand
// is numeric, but to xs:string otherwise, since general comparison against
// a string must not force a numeric parse.
func coerceBinaryCompare(a, b Atomic) (Atomic, Atomic, *xdmerr.Error) {
	if a.kind == KindUntyped {
		if b.kind.IsNumeric() {
			d, err := a.CastToDouble()
			if err != nil {
				return Atomic{}, Atomic{}, err
			}
			a = d
		} else {
			a = String(a.UntypedText())
		}
	}
	if b.kind == KindUntyped {
		if a.kind.IsNumeric() {
			d, err := b.CastToDouble()
			if err != nil {
				return Atomic{}, Atomic{}, err
			}
			b = d
		} else {
			b = String(b.UntypedText())
		}
	}
	if a.kind.IsNumeric() && b.kind.IsNumeric() {
		target := widerNumericKind(a.kind, b.kind)
		a2, err := promoteNumeric(a, target)
		if err != nil {
			return Atomic{}, Atomic{}, err
		}
		b2, err := promoteNumeric(b, target)
		if err != nil {
			return Atomic{}, Atomic{}, err
		}
		return a2, b2, nil
	}
	return a, b, nil
}

// isNaNOperand reports whether either operand of a coerced pair is a
// floating-point NaN, in which case every ordering predicate except Ne must
// resolve to false (IEEE 754; spec.md §7 "NaN is not an error; it is a
// value."), grounded on the original xee-interpreter's op_gt.rs, which
// dispatches straight to Rust's native f64/f32 PartialOrd and never errors
// on NaN.
func isNaNOperand(a, b Atomic) bool {
	return a.IsNaN() || b.IsNaN()
}

// compareOrdinal orders a coerced pair, returning -1, 0 or 1.
// implicitTZMinutes supplies the dynamic context's implicit timezone (spec.md
// §4.1, §9 Design Notes), used only when comparing an offset-naive temporal
// value against another temporal value.
func compareOrdinal(a, b Atomic, collator Collator, implicitTZMinutes int32) (int, *xdmerr.Error) {
	if collator == nil {
		collator = DefaultCollator
	}
	switch a.kind {
	case KindInteger:
		return a.IntegerValue().Cmp(b.IntegerValue()), nil
	case KindDecimal:
		return a.DecimalValue().Cmp(b.DecimalValue()), nil
	case KindFloat:
		x, y := a.FloatValue(), b.FloatValue()
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		}
		return 0, nil
	case KindDouble:
		x, y := a.DoubleValue(), b.DoubleValue()
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		}
		return 0, nil
	case KindString:
		return collator.Compare(a.StringValue(), b.StringValue()), nil
	case KindBoolean:
		x, y := a.BoolValue(), b.BoolValue()
		if x == y {
			return 0, nil
		}
		if !x && y {
			return -1, nil
		}
		return 1, nil
	case KindDate, KindTime, KindDateTime, KindDateTimeStamp:
		return compareTemporal(a.TemporalValue(), b.TemporalValue(), implicitTZMinutes), nil
	case KindDuration, KindYearMonthDuration, KindDayTimeDuration:
		na, nb := canonicalDurationNanos(a.DurationOf()), canonicalDurationNanos(b.DurationOf())
		return na.Cmp(nb), nil
	case KindQName:
		aq, bq := a.QNameOf(), b.QNameOf()
		if aq.Equal(bq) {
			return 0, nil
		}
		return 1, nil // QName has only equality, never ordering; non-zero means "not equal"
	}
	return 0, xdmerr.Typef("values of type %s are not comparable", a.kind)
}

func canonicalDurationNanos(d Duration) *big.Int {
	months := signedMonths(d)
	nanos := signedNanos(d)
	// Approximate months as 30 days each for ordering mixed-magnitude
	// durations, matching the XSD "indeterminate" comparison fallback used
	// only when both operands carry the same kind (so this path is taken
	// only between two YearMonthDurations or two DayTimeDurations in
	// practice, where one of the two terms below is always zero).
	const avgMonthNanos = int64(30) * 86400 * 1_000_000_000
	monthNanos := new(big.Int).Mul(big.NewInt(months), big.NewInt(avgMonthNanos))
	return monthNanos.Add(monthNanos, nanos)
}

// Eq, Ne, Lt, Le, Gt, Ge implement op:*-equal / op:*-less-than / etc,
// applying the arithmetic-or-compare coercion as appropriate and the
// inversion identity (a gt b == b lt a) for the derived operators.
// implicitTZMinutes is the dynamic context's implicit timezone, in minutes
// east of UTC, used when one operand is an offset-naive temporal value
// (spec.md §4.1, §9 Design Notes: "each is a value whose sole method takes
// two atomics plus a collation and a default timezone").
func (a Atomic) Eq(b Atomic, collator Collator, implicitTZMinutes int32) (bool, *xdmerr.Error) {
	x, y, err := coerceBinaryCompare(a, b)
	if err != nil {
		return false, err
	}
	if isNaNOperand(x, y) {
		return false, nil
	}
	if x.kind == KindQName {
		return x.QNameOf().Equal(y.QNameOf()), nil
	}
	c, cerr := compareOrdinal(x, y, collator, implicitTZMinutes)
	if cerr != nil {
		return false, cerr
	}
	return c == 0, nil
}

func (a Atomic) Ne(b Atomic, collator Collator, implicitTZMinutes int32) (bool, *xdmerr.Error) {
	eq, err := a.Eq(b, collator, implicitTZMinutes)
	if err != nil {
		return false, err
	}
	return !eq, nil
}

func (a Atomic) Lt(b Atomic, collator Collator, implicitTZMinutes int32) (bool, *xdmerr.Error) {
	x, y, err := coerceBinaryCompare(a, b)
	if err != nil {
		return false, err
	}
	if isNaNOperand(x, y) {
		return false, nil
	}
	c, cerr := compareOrdinal(x, y, collator, implicitTZMinutes)
	if cerr != nil {
		return false, cerr
	}
	return c < 0, nil
}

func (a Atomic) Le(b Atomic, collator Collator, implicitTZMinutes int32) (bool, *xdmerr.Error) {
	x, y, err := coerceBinaryCompare(a, b)
	if err != nil {
		return false, err
	}
	if isNaNOperand(x, y) {
		return false, nil
	}
	c, cerr := compareOrdinal(x, y, collator, implicitTZMinutes)
	if cerr != nil {
		return false, cerr
	}
	return c <= 0, nil
}

// Gt is defined via the inversion identity a gt b == b lt a (spec.md §4.1
// "comparison operators have an inverse"), grounded on the original
// xee-interpreter's op_gt.rs delegating to op_lt with swapped operands.
// The NaN guard inside Lt fires symmetrically regardless of which operand
// was originally a or b, so Gt/Ge need no NaN handling of their own.
func (a Atomic) Gt(b Atomic, collator Collator, implicitTZMinutes int32) (bool, *xdmerr.Error) {
	return b.Lt(a, collator, implicitTZMinutes)
}

func (a Atomic) Ge(b Atomic, collator Collator, implicitTZMinutes int32) (bool, *xdmerr.Error) {
	return b.Le(a, collator, implicitTZMinutes)
}

func compareTemporal(a, b Temporal, implicitTZMinutes int32) int {
	an := normalizedInstant(a, implicitTZMinutes)
	bn := normalizedInstant(b, implicitTZMinutes)
	return an.Cmp(bn)
}

// normalizedInstant converts a Temporal to a UTC-normalized total-nanosecond
// instant for ordering. A temporal value that carries its own offset (TZ.HasTZ)
// is normalized using that offset; an offset-naive value is normalized using
// implicitTZMinutes, the caller's dynamic-context implicit timezone (spec.md
// §4.1 "Temporal ordering uses a default implicit offset ... when one operand
// is offset-naive").
func normalizedInstant(t Temporal, implicitTZMinutes int32) *big.Int {
	days := daysFromCivil(t.Year, t.Month, t.Day)
	secs := days*86400 + int64(t.Hour)*3600 + int64(t.Minute)*60 + int64(t.Second)
	offsetMinutes := implicitTZMinutes
	if t.TZ.HasTZ {
		offsetMinutes = int32(t.TZ.Minutes)
	}
	secs -= int64(offsetMinutes) * 60
	nanos := new(big.Int).Mul(big.NewInt(secs), big.NewInt(1_000_000_000))
	return nanos.Add(nanos, big.NewInt(int64(t.Nanosecond)))
}
