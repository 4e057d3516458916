package library

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"

	"xpath31/pkg/atomic"
	"xpath31/pkg/sequence"
	"xpath31/pkg/xdmerr"
)

// RegisterNumeric registers the numeric and math built-ins (spec.md §4.6:
// abs, round, floor, ceiling, pi, exp, log, pow, sqrt).
func RegisterNumeric(r *Registry) {
	r.Register(FnNamespace, "abs", 1, "fn:abs($arg as xs:numeric?) as xs:numeric?", KindPlain, fnAbs)
	r.Register(FnNamespace, "round", 1, "fn:round($arg as xs:numeric?) as xs:numeric?", KindPlain, fnRound)
	r.Register(FnNamespace, "round", 2, "fn:round($arg as xs:numeric?, $precision as xs:integer) as xs:numeric?", KindPlain, fnRoundPrecision)
	r.Register(FnNamespace, "floor", 1, "fn:floor($arg as xs:numeric?) as xs:numeric?", KindPlain, fnFloor)
	r.Register(FnNamespace, "ceiling", 1, "fn:ceiling($arg as xs:numeric?) as xs:numeric?", KindPlain, fnCeiling)
	r.Register(FnNamespace, "pi", 0, "fn:pi() as xs:double", KindPlain, func(Env, []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
		return one(atomic.Double(math.Pi))
	})
	r.Register(FnNamespace, "exp", 1, "fn:exp($arg as xs:double?) as xs:double?", KindPlain, mathUnary(math.Exp))
	r.Register(FnNamespace, "log", 1, "fn:log($arg as xs:double?) as xs:double?", KindPlain, mathUnary(math.Log))
	r.Register(FnNamespace, "sqrt", 1, "fn:sqrt($arg as xs:double?) as xs:double?", KindPlain, mathUnary(math.Sqrt))
	r.Register(FnNamespace, "pow", 2, "fn:pow($x as xs:double?, $y as xs:numeric) as xs:double?", KindPlain, fnPow)
}

func fnAbs(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	a, ok, err := optionalAtomic(args, 0)
	if err != nil || !ok {
		return sequence.Empty, err
	}
	switch a.Kind() {
	case atomic.KindInteger:
		return one(atomic.Integer(new(big.Int).Abs(a.IntegerValue())))
	case atomic.KindDecimal:
		return one(atomic.Decimal(a.DecimalValue().Abs()))
	case atomic.KindFloat:
		return one(atomic.Float(float32(math.Abs(float64(a.FloatValue())))))
	case atomic.KindDouble:
		return one(atomic.Double(math.Abs(a.DoubleValue())))
	}
	return sequence.Empty, xdmerr.Typef("fn:abs requires a numeric argument")
}

func fnRound(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	return roundToPrecision(args, 0)
}

func fnRoundPrecision(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	precision, err := requiredInt(args, 1)
	if err != nil {
		return sequence.Empty, err
	}
	return roundToPrecision(args, precision)
}

// roundToPrecision implements fn:round's "round half to positive infinity"
// rule (XPath 3.1, distinct from banker's rounding).
func roundToPrecision(args []sequence.Sequence, precision int) (sequence.Sequence, *xdmerr.Error) {
	a, ok, err := optionalAtomic(args, 0)
	if err != nil || !ok {
		return sequence.Empty, err
	}
	switch a.Kind() {
	case atomic.KindInteger:
		if precision >= 0 {
			return one(a)
		}
		scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(-precision)), nil)
		half := new(big.Int).Div(scale, big.NewInt(2))
		v := a.IntegerValue()
		shifted := new(big.Int).Add(v, half)
		q := new(big.Int).Div(shifted, scale)
		return one(atomic.Integer(new(big.Int).Mul(q, scale)))
	case atomic.KindDecimal:
		// decimal.Round rounds half away from zero, matching fn:round's
		// "round half to positive infinity" rule for all but negative
		// half-way values, which round needs half *up* rather than away
		// from zero; decimal has no direct primitive for that, so route
		// negative values through the same half-up arithmetic fnRound
		// uses for float/double.
		d := a.DecimalValue()
		if d.Sign() >= 0 {
			return one(atomic.Decimal(d.Round(int32(precision))))
		}
		f, _ := d.Float64()
		rounded := roundHalfUp(f, precision)
		return one(atomic.Decimal(decimal.NewFromFloat(rounded)))
	case atomic.KindFloat:
		f := float64(a.FloatValue())
		return one(atomic.Float(float32(roundHalfUp(f, precision))))
	case atomic.KindDouble:
		return one(atomic.Double(roundHalfUp(a.DoubleValue(), precision)))
	}
	return sequence.Empty, xdmerr.Typef("fn:round requires a numeric argument")
}

func roundHalfUp(f float64, precision int) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	scale := math.Pow(10, float64(precision))
	return math.Floor(f*scale+0.5) / scale
}

func fnFloor(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	a, ok, err := optionalAtomic(args, 0)
	if err != nil || !ok {
		return sequence.Empty, err
	}
	switch a.Kind() {
	case atomic.KindInteger:
		return one(a)
	case atomic.KindDecimal:
		d := a.DecimalValue()
		f := d.Floor()
		return one(atomic.Decimal(f))
	case atomic.KindFloat:
		return one(atomic.Float(float32(math.Floor(float64(a.FloatValue())))))
	case atomic.KindDouble:
		return one(atomic.Double(math.Floor(a.DoubleValue())))
	}
	return sequence.Empty, xdmerr.Typef("fn:floor requires a numeric argument")
}

func fnCeiling(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	a, ok, err := optionalAtomic(args, 0)
	if err != nil || !ok {
		return sequence.Empty, err
	}
	switch a.Kind() {
	case atomic.KindInteger:
		return one(a)
	case atomic.KindDecimal:
		return one(atomic.Decimal(a.DecimalValue().Ceil()))
	case atomic.KindFloat:
		return one(atomic.Float(float32(math.Ceil(float64(a.FloatValue())))))
	case atomic.KindDouble:
		return one(atomic.Double(math.Ceil(a.DoubleValue())))
	}
	return sequence.Empty, xdmerr.Typef("fn:ceiling requires a numeric argument")
}

func mathUnary(f func(float64) float64) Callable {
	return func(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
		a, ok, err := optionalAtomic(args, 0)
		if err != nil || !ok {
			return sequence.Empty, err
		}
		d, derr := a.CastToDouble()
		if derr != nil {
			return sequence.Empty, derr
		}
		return one(atomic.Double(f(d.DoubleValue())))
	}
}

func fnPow(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	x, ok, err := optionalAtomic(args, 0)
	if err != nil || !ok {
		return sequence.Empty, err
	}
	y, err := requiredAtomic(args, 1)
	if err != nil {
		return sequence.Empty, err
	}
	xd, xerr := x.CastToDouble()
	if xerr != nil {
		return sequence.Empty, xerr
	}
	yd, yerr := y.CastToDouble()
	if yerr != nil {
		return sequence.Empty, yerr
	}
	return one(atomic.Double(math.Pow(xd.DoubleValue(), yd.DoubleValue())))
}
