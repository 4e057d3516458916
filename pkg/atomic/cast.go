package atomic

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"xpath31/pkg/xdmerr"
)

// CastToDouble implements cast_to_double (spec.md §4.1): every numeric kind
// converts directly; strings and untyped values are parsed; booleans map to
// 0.0/1.0; anything else is a type error.
func (a Atomic) CastToDouble() (Atomic, *xdmerr.Error) {
	switch a.kind {
	case KindDouble:
		return a, nil
	case KindFloat:
		return Double(float64(a.FloatValue())), nil
	case KindInteger:
		f, _ := new(big.Float).SetInt(a.IntegerValue()).Float64()
		return Double(f), nil
	case KindDecimal:
		f, _ := a.DecimalValue().Float64()
		return Double(f), nil
	case KindBoolean:
		if a.BoolValue() {
			return Double(1), nil
		}
		return Double(0), nil
	case KindString, KindUntyped:
		text := a.lexicalText()
		f, err := parseXSDouble(text)
		if err != nil {
			return Atomic{}, xdmerr.InvalidValuef("cannot cast %q to xs:double: %s", text, err)
		}
		return Double(f), nil
	}
	return Atomic{}, xdmerr.Typef("cannot cast %s to xs:double", a.kind)
}

// CastToFloat implements cast_to_float: same rules as double, narrowed to
// float32 with the usual overflow-to-infinity behavior.
func (a Atomic) CastToFloat() (Atomic, *xdmerr.Error) {
	d, err := a.CastToDouble()
	if err != nil {
		return Atomic{}, err
	}
	return Float(float32(d.DoubleValue())), nil
}

// CastToDecimal implements cast_to_decimal. NaN and infinities cannot be
// represented as a decimal and raise FOCA0002, per XSD.
func (a Atomic) CastToDecimal() (Atomic, *xdmerr.Error) {
	switch a.kind {
	case KindDecimal:
		return a, nil
	case KindInteger:
		return Decimal(decimal.NewFromBigInt(a.IntegerValue(), 0)), nil
	case KindFloat:
		f := a.FloatValue()
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return Atomic{}, xdmerr.OutOfRangef("cannot cast %v to xs:decimal", f)
		}
		return Decimal(decimal.NewFromFloat(float64(f))), nil
	case KindDouble:
		f := a.DoubleValue()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Atomic{}, xdmerr.OutOfRangef("cannot cast %v to xs:decimal", f)
		}
		return Decimal(decimal.NewFromFloat(f)), nil
	case KindBoolean:
		if a.BoolValue() {
			return Decimal(decimal.NewFromInt(1)), nil
		}
		return Decimal(decimal.NewFromInt(0)), nil
	case KindString, KindUntyped:
		text := strings.TrimSpace(a.lexicalText())
		d, derr := decimal.NewFromString(text)
		if derr != nil {
			return Atomic{}, xdmerr.InvalidValuef("cannot cast %q to xs:decimal: %s", text, derr)
		}
		return Decimal(d), nil
	}
	return Atomic{}, xdmerr.Typef("cannot cast %s to xs:decimal", a.kind)
}

// CastToInteger implements cast_to_integer for xs:integer (unbounded). A
// non-integral decimal raises FORG0001; a float or double is truncated
// toward zero, and only NaN or an infinity raises.
func (a Atomic) CastToInteger() (Atomic, *xdmerr.Error) {
	return a.CastToIntegerSubtype(IntegerSubtypePlain)
}

// CastToIntegerSubtype casts to a specific integer subtype, validating the
// subtype's range constraint (spec.md §4.1 "out-of-range integer subtype").
func (a Atomic) CastToIntegerSubtype(subtype IntegerSubtype) (Atomic, *xdmerr.Error) {
	var v *big.Int
	switch a.kind {
	case KindInteger:
		v = a.IntegerValue()
	case KindDecimal:
		d := a.DecimalValue()
		if !d.Equal(d.Truncate(0)) {
			return Atomic{}, xdmerr.InvalidValuef("cannot cast non-integral decimal %s to an integer type", d)
		}
		v = d.Truncate(0).BigInt()
	case KindFloat:
		f := float64(a.FloatValue())
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Atomic{}, xdmerr.InvalidValuef("cannot cast %v to an integer type", f)
		}
		v = bigFromFloat(math.Trunc(f))
	case KindDouble:
		f := a.DoubleValue()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Atomic{}, xdmerr.InvalidValuef("cannot cast %v to an integer type", f)
		}
		v = bigFromFloat(math.Trunc(f))
	case KindBoolean:
		if a.BoolValue() {
			v = big.NewInt(1)
		} else {
			v = big.NewInt(0)
		}
	case KindString, KindUntyped:
		text := strings.TrimSpace(a.lexicalText())
		var ok bool
		v, ok = new(big.Int).SetString(text, 10)
		if !ok {
			return Atomic{}, xdmerr.InvalidValuef("cannot cast %q to an integer type", text)
		}
	default:
		return Atomic{}, xdmerr.Typef("cannot cast %s to an integer type", a.kind)
	}
	if !subtype.InRange(v) {
		return Atomic{}, xdmerr.OutOfRangef("value %s out of range for %s", v, subtype)
	}
	return IntegerOf(v, subtype), nil
}

func bigFromFloat(f float64) *big.Int {
	bf := new(big.Float).SetFloat64(f)
	i, _ := bf.Int(nil)
	return i
}

// CastToString implements cast_to_string: the canonical lexical form for
// each kind (spec.md §8 invariant 8, round-trip with parsing).
func (a Atomic) CastToString() (Atomic, *xdmerr.Error) {
	return String(a.String()), nil
}

// CastToBoolean implements cast_to_boolean: numerics are nonzero/non-NaN,
// strings parse "true"/"false"/"1"/"0" (trimmed), booleans pass through.
func (a Atomic) CastToBoolean() (Atomic, *xdmerr.Error) {
	switch a.kind {
	case KindBoolean:
		return a, nil
	case KindInteger:
		return Boolean(a.IntegerValue().Sign() != 0), nil
	case KindDecimal:
		return Boolean(!a.DecimalValue().IsZero()), nil
	case KindFloat:
		f := a.FloatValue()
		return Boolean(f != 0 && !math.IsNaN(float64(f))), nil
	case KindDouble:
		f := a.DoubleValue()
		return Boolean(f != 0 && !math.IsNaN(f)), nil
	case KindString, KindUntyped:
		text := strings.TrimSpace(a.lexicalText())
		switch text {
		case "true", "1":
			return Boolean(true), nil
		case "false", "0":
			return Boolean(false), nil
		}
		return Atomic{}, xdmerr.InvalidValuef("cannot cast %q to xs:boolean", text)
	}
	return Atomic{}, xdmerr.Typef("cannot cast %s to xs:boolean", a.kind)
}

// lexicalText returns the raw text of a string or untyped atomic, panicking
// (a programmer error, not a user error) if called on anything else — every
// call site above guards on Kind first.
func (a Atomic) lexicalText() string {
	switch a.kind {
	case KindString:
		return a.StringValue()
	case KindUntyped:
		return a.UntypedText()
	}
	panic("atomic: lexicalText called on non-string kind " + a.kind.String())
}

// parseXSDouble parses the XSD double lexical space, including the special
// tokens INF, -INF and NaN that strconv.ParseFloat does not accept verbatim.
func parseXSDouble(text string) (float64, error) {
	t := strings.TrimSpace(text)
	switch t {
	case "INF", "+INF":
		return math.Inf(1), nil
	case "-INF":
		return math.Inf(-1), nil
	case "NaN":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(t, 64)
}

// CastToSchemaTypeOf casts a to the kind of `other`, used when a generic
// cast target is only known through a sibling value (spec.md §4.1).
func (a Atomic) CastToSchemaTypeOf(other Atomic) (Atomic, *xdmerr.Error) {
	switch other.Kind() {
	case KindInteger:
		return a.CastToIntegerSubtype(other.IntegerSubtypeOf())
	case KindDecimal:
		return a.CastToDecimal()
	case KindFloat:
		return a.CastToFloat()
	case KindDouble:
		return a.CastToDouble()
	case KindBoolean:
		return a.CastToBoolean()
	case KindString:
		return a.CastToString()
	}
	return Atomic{}, xdmerr.Typef("cast to %s is not supported via CastToSchemaTypeOf", other.Kind())
}
