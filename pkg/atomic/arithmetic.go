package atomic

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"

	"xpath31/pkg/xdmerr"
)

// coerceBinaryArithmetic implements cast_binary_arithmetic (spec.md §4.1):
// Untyped operands cast to xs:double; then both operands are promoted along
// the Integer < Decimal < Float < Double lattice to a common numeric kind.
// Non-numeric, non-temporal, non-duration pairs are a type error.
func coerceBinaryArithmetic(a, b Atomic) (Atomic, Atomic, *xdmerr.Error) {
	if a.kind == KindUntyped {
		d, err := a.CastToDouble()
		if err != nil {
			return Atomic{}, Atomic{}, err
		}
		a = d
	}
	if b.kind == KindUntyped {
		d, err := b.CastToDouble()
		if err != nil {
			return Atomic{}, Atomic{}, err
		}
		b = d
	}
	if a.kind.IsTemporal() || a.kind.IsDuration() || b.kind.IsTemporal() || b.kind.IsDuration() {
		return a, b, nil // temporal/duration arithmetic has its own dispatch, below
	}
	if !a.kind.IsNumeric() || !b.kind.IsNumeric() {
		return Atomic{}, Atomic{}, xdmerr.Typef("arithmetic requires numeric operands, got %s and %s", a.kind, b.kind)
	}
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

var numericRank = map[Kind]int{
	KindInteger: 0,
	KindDecimal: 1,
	KindFloat:   2,
	KindDouble:  3,
}

func widerNumericKind(a, b Kind) Kind {
	if numericRank[a] >= numericRank[b] {
		return a
	}
	return b
}

func promoteNumeric(a Atomic, target Kind) (Atomic, *xdmerr.Error) {
	if a.kind == target {
		return a, nil
	}
	switch target {
	case KindDecimal:
		return a.CastToDecimal()
	case KindFloat:
		return a.CastToFloat()
	case KindDouble:
		return a.CastToDouble()
	}
	return a, nil
}

// Add implements op:numeric-add (spec.md §4.1), dispatching to the
// temporal/duration variants where applicable.
func (a Atomic) Add(b Atomic) (Atomic, *xdmerr.Error) {
	if a.kind.IsDuration() && b.kind.IsDuration() {
		return addDurations(a, b)
	}
	if a.kind.IsTemporal() && b.kind.IsDuration() {
		return addTemporalDuration(a, b)
	}
	if a.kind.IsDuration() && b.kind.IsTemporal() {
		return addTemporalDuration(b, a)
	}
	x, y, err := coerceBinaryArithmetic(a, b)
	if err != nil {
		return Atomic{}, err
	}
	return numericBinary(x, y, "+",
		func(i, j *big.Int) *big.Int { return new(big.Int).Add(i, j) },
		func(i, j decimal.Decimal) decimal.Decimal { return i.Add(j) },
		func(i, j float32) float32 { return i + j },
		func(i, j float64) float64 { return i + j })
}

// Sub implements op:numeric-subtract and its temporal/duration variants.
func (a Atomic) Sub(b Atomic) (Atomic, *xdmerr.Error) {
	if a.kind.IsDuration() && b.kind.IsDuration() {
		negB, nerr := b.Negate()
		if nerr != nil {
			return Atomic{}, nerr
		}
		return addDurations(a, negB)
	}
	if a.kind.IsTemporal() && b.kind.IsDuration() {
		negB, nerr := b.Negate()
		if nerr != nil {
			return Atomic{}, nerr
		}
		return addTemporalDuration(a, negB)
	}
	if a.kind.IsTemporal() && b.kind == a.kind {
		return subtractTemporals(a, b)
	}
	x, y, err := coerceBinaryArithmetic(a, b)
	if err != nil {
		return Atomic{}, err
	}
	return numericBinary(x, y, "-",
		func(i, j *big.Int) *big.Int { return new(big.Int).Sub(i, j) },
		func(i, j decimal.Decimal) decimal.Decimal { return i.Sub(j) },
		func(i, j float32) float32 { return i - j },
		func(i, j float64) float64 { return i - j })
}

// Mul implements op:numeric-multiply, including Duration*number.
func (a Atomic) Mul(b Atomic) (Atomic, *xdmerr.Error) {
	if a.kind.IsDuration() && b.kind.IsNumeric() {
		return scaleDuration(a, b)
	}
	if b.kind.IsDuration() && a.kind.IsNumeric() {
		return scaleDuration(b, a)
	}
	x, y, err := coerceBinaryArithmetic(a, b)
	if err != nil {
		return Atomic{}, err
	}
	return numericBinary(x, y, "*",
		func(i, j *big.Int) *big.Int { return new(big.Int).Mul(i, j) },
		func(i, j decimal.Decimal) decimal.Decimal { return i.Mul(j) },
		func(i, j float32) float32 { return i * j },
		func(i, j float64) float64 { return i * j })
}

// Div implements op:numeric-divide. Integer/Integer division promotes to
// Decimal (XPath's "/" is never truncating, unlike "idiv").
func (a Atomic) Div(b Atomic) (Atomic, *xdmerr.Error) {
	if a.kind.IsDuration() && b.kind.IsNumeric() {
		return scaleDuration(a, reciprocalIfNonZero(b))
	}
	if a.kind.IsDuration() && b.kind == a.kind {
		return divideDurations(a, b)
	}
	x, y, err := coerceBinaryArithmetic(a, b)
	if err != nil {
		return Atomic{}, err
	}
	if x.kind == KindInteger {
		xd, _ := x.CastToDecimal()
		yd, _ := y.CastToDecimal()
		x, y = xd, yd
	}
	switch x.kind {
	case KindDecimal:
		yv := y.DecimalValue()
		if yv.IsZero() {
			return Atomic{}, xdmerr.DivisionByZero("decimal division")
		}
		return Decimal(x.DecimalValue().DivRound(yv, DecimalPrecision)), nil
	case KindFloat:
		return Float(x.FloatValue() / y.FloatValue()), nil
	case KindDouble:
		return Double(x.DoubleValue() / y.DoubleValue()), nil
	}
	return Atomic{}, xdmerr.Typef("unsupported division operand kind %s", x.kind)
}

func reciprocalIfNonZero(b Atomic) Atomic {
	switch b.kind {
	case KindInteger:
		d, _ := b.CastToDecimal()
		return Decimal(decimal.NewFromInt(1).Div(d.DecimalValue()))
	case KindDecimal:
		return Decimal(decimal.NewFromInt(1).Div(b.DecimalValue()))
	case KindFloat:
		return Float(1 / b.FloatValue())
	case KindDouble:
		return Double(1 / b.DoubleValue())
	}
	return b
}

// IDiv implements op:numeric-integer-divide: truncating integer division,
// requiring both operands be numeric and the divisor non-zero (FOAR0001).
func (a Atomic) IDiv(b Atomic) (Atomic, *xdmerr.Error) {
	x, y, err := coerceBinaryArithmetic(a, b)
	if err != nil {
		return Atomic{}, err
	}
	switch x.kind {
	case KindInteger:
		yv := y.IntegerValue()
		if yv.Sign() == 0 {
			return Atomic{}, xdmerr.DivisionByZero("integer division")
		}
		return Integer(new(big.Int).Quo(x.IntegerValue(), yv)), nil
	case KindDecimal:
		yv := y.DecimalValue()
		if yv.IsZero() {
			return Atomic{}, xdmerr.DivisionByZero("decimal division")
		}
		q := x.DecimalValue().Div(yv).Truncate(0)
		return Integer(q.BigInt()), nil
	case KindFloat, KindDouble:
		xf, yf := asFloat64(x), asFloat64(y)
		if yf == 0 {
			return Atomic{}, xdmerr.DivisionByZero("floating-point division")
		}
		if math.IsNaN(xf) || math.IsNaN(yf) || math.IsInf(xf, 0) {
			return Atomic{}, xdmerr.InvalidValuef("idiv operand is NaN or infinite")
		}
		return Integer(bigFromFloat(math.Trunc(xf / yf))), nil
	}
	return Atomic{}, xdmerr.Typef("unsupported idiv operand kind %s", x.kind)
}

// Mod implements op:numeric-mod, matching the IEEE remainder-with-truncating
// quotient semantics XPath specifies (not floored, not Euclidean).
func (a Atomic) Mod(b Atomic) (Atomic, *xdmerr.Error) {
	x, y, err := coerceBinaryArithmetic(a, b)
	if err != nil {
		return Atomic{}, err
	}
	switch x.kind {
	case KindInteger:
		yv := y.IntegerValue()
		if yv.Sign() == 0 {
			return Atomic{}, xdmerr.DivisionByZero("integer modulo")
		}
		return Integer(new(big.Int).Rem(x.IntegerValue(), yv)), nil
	case KindDecimal:
		yv := y.DecimalValue()
		if yv.IsZero() {
			return Atomic{}, xdmerr.DivisionByZero("decimal modulo")
		}
		q := x.DecimalValue().Div(yv).Truncate(0)
		r := x.DecimalValue().Sub(q.Mul(yv))
		return Decimal(r), nil
	case KindFloat:
		return Float(float32(math.Mod(float64(x.FloatValue()), float64(y.FloatValue())))), nil
	case KindDouble:
		return Double(math.Mod(x.DoubleValue(), y.DoubleValue())), nil
	}
	return Atomic{}, xdmerr.Typef("unsupported mod operand kind %s", x.kind)
}

// Negate implements op:numeric-unary-minus and its duration counterpart.
func (a Atomic) Negate() (Atomic, *xdmerr.Error) {
	switch a.kind {
	case KindInteger:
		return Integer(new(big.Int).Neg(a.IntegerValue())), nil
	case KindDecimal:
		return Decimal(a.DecimalValue().Neg()), nil
	case KindFloat:
		return Float(-a.FloatValue()), nil
	case KindDouble:
		return Double(-a.DoubleValue()), nil
	case KindDuration, KindYearMonthDuration, KindDayTimeDuration:
		d := a.DurationOf()
		d.Negative = !d.Negative
		return Atomic{kind: a.kind, data: d}, nil
	}
	return Atomic{}, xdmerr.Typef("cannot negate %s", a.kind)
}

func asFloat64(a Atomic) float64 {
	if a.kind == KindFloat {
		return float64(a.FloatValue())
	}
	return a.DoubleValue()
}

func numericBinary(
	x, y Atomic, op string,
	intOp func(*big.Int, *big.Int) *big.Int,
	decOp func(decimal.Decimal, decimal.Decimal) decimal.Decimal,
	floatOp func(float32, float32) float32,
	doubleOp func(float64, float64) float64,
) (Atomic, *xdmerr.Error) {
	switch x.kind {
	case KindInteger:
		return Integer(intOp(x.IntegerValue(), y.IntegerValue())), nil
	case KindDecimal:
		return Decimal(decOp(x.DecimalValue(), y.DecimalValue())), nil
	case KindFloat:
		return Float(floatOp(x.FloatValue(), y.FloatValue())), nil
	case KindDouble:
		return Double(doubleOp(x.DoubleValue(), y.DoubleValue())), nil
	}
	return Atomic{}, xdmerr.Typef("unsupported operand kind %s for %s", x.kind, op)
}
