package atomic

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Atomic is a single typed scalar value: one of the XPath 3.1 primitive
// types (spec.md §3). It is immutable once constructed; every operation
// that "changes" a value returns a new Atomic.
type Atomic struct {
	kind Kind
	data any
}

// Kind returns the value's primitive type tag.
func (a Atomic) Kind() Kind { return a.kind }

// --- Untyped ---------------------------------------------------------------

// Untyped constructs an untyped atomic value (e.g. from a schema-less
// document node's typed value).
func Untyped(text string) Atomic { return Atomic{kind: KindUntyped, data: text} }

// UntypedText returns the untyped value's raw lexical text.
func (a Atomic) UntypedText() string { return a.data.(string) }

// --- String ------------------------------------------------------------

type stringPayload struct {
	text    string
	subtype StringSubtype
}

// String constructs a plain xs:string value.
func String(text string) Atomic {
	return Atomic{kind: KindString, data: stringPayload{text: text, subtype: StringSubtypePlain}}
}

// StringOf constructs a string value of a specific schema subtype.
func StringOf(text string, subtype StringSubtype) Atomic {
	return Atomic{kind: KindString, data: stringPayload{text: text, subtype: subtype}}
}

// StringValue returns the string payload's text.
func (a Atomic) StringValue() string { return a.data.(stringPayload).text }

// StringSubtype returns the string payload's schema subtype.
func (a Atomic) StringSubtype() StringSubtype { return a.data.(stringPayload).subtype }

// --- Boolean -------------------------------------------------------------

// Boolean constructs an xs:boolean value.
func Boolean(b bool) Atomic { return Atomic{kind: KindBoolean, data: b} }

// BoolValue returns the underlying bool.
func (a Atomic) BoolValue() bool { return a.data.(bool) }

// --- Integer ---------------------------------------------------------------

type integerPayload struct {
	value   *big.Int
	subtype IntegerSubtype
}

// Integer constructs an xs:integer value with arbitrary precision.
func Integer(v *big.Int) Atomic {
	return Atomic{kind: KindInteger, data: integerPayload{value: v, subtype: IntegerSubtypePlain}}
}

// IntegerOf constructs an integer value of a specific schema subtype,
// without validating the range constraint; use CastToIntegerSubtype for a
// validating cast.
func IntegerOf(v *big.Int, subtype IntegerSubtype) Atomic {
	return Atomic{kind: KindInteger, data: integerPayload{value: v, subtype: subtype}}
}

// IntegerFromInt64 is a convenience constructor for small integer literals.
func IntegerFromInt64(v int64) Atomic { return Integer(big.NewInt(v)) }

// IntegerValue returns the underlying *big.Int.
func (a Atomic) IntegerValue() *big.Int { return a.data.(integerPayload).value }

// IntegerSubtypeOf returns the integer payload's schema subtype.
func (a Atomic) IntegerSubtypeOf() IntegerSubtype { return a.data.(integerPayload).subtype }

// --- Decimal ---------------------------------------------------------------

// DecimalPrecision is the maximum significant-digit precision for xs:decimal
// (spec.md §6).
const DecimalPrecision = 28

// Decimal constructs an xs:decimal value, truncated to DecimalPrecision
// significant digits if necessary.
func Decimal(d decimal.Decimal) Atomic {
	return Atomic{kind: KindDecimal, data: truncateDecimal(d)}
}

// DecimalValue returns the underlying decimal.Decimal.
func (a Atomic) DecimalValue() decimal.Decimal { return a.data.(decimal.Decimal) }

func truncateDecimal(d decimal.Decimal) decimal.Decimal {
	digits := d.NumDigits()
	if digits <= DecimalPrecision {
		return d
	}
	excess := int32(digits - DecimalPrecision)
	coef := d.Shift(-d.Exponent()).BigInt()
	pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(excess)), nil)
	return decimal.NewFromBigInt(new(big.Int).Quo(coef, pow), d.Exponent()+excess)
}

// --- Float / Double ----------------------------------------------------

// Float constructs an xs:float (32-bit IEEE 754) value.
func Float(f float32) Atomic { return Atomic{kind: KindFloat, data: f} }

// FloatValue returns the underlying float32.
func (a Atomic) FloatValue() float32 { return a.data.(float32) }

// Double constructs an xs:double (64-bit IEEE 754) value.
func Double(f float64) Atomic { return Atomic{kind: KindDouble, data: f} }

// DoubleValue returns the underlying float64.
func (a Atomic) DoubleValue() float64 { return a.data.(float64) }

// --- Temporal ------------------------------------------------------------

// Date constructs an xs:date value.
func Date(t Temporal) Atomic { return Atomic{kind: KindDate, data: t} }

// Time constructs an xs:time value.
func Time(t Temporal) Atomic { return Atomic{kind: KindTime, data: t} }

// DateTime constructs an xs:dateTime value.
func DateTime(t Temporal) Atomic { return Atomic{kind: KindDateTime, data: t} }

// DateTimeStamp constructs an xs:dateTimeStamp value. t.TZ.HasTZ must be
// true; callers should validate this (spec.md §3 invariant) before calling.
func DateTimeStamp(t Temporal) Atomic { return Atomic{kind: KindDateTimeStamp, data: t} }

// GYear, GYearMonth, GMonthDay, GMonth, GDay construct the gregorian
// fragment kinds.
func GYear(t Temporal) Atomic      { return Atomic{kind: KindGYear, data: t} }
func GYearMonth(t Temporal) Atomic { return Atomic{kind: KindGYearMonth, data: t} }
func GMonthDay(t Temporal) Atomic  { return Atomic{kind: KindGMonthDay, data: t} }
func GMonth(t Temporal) Atomic     { return Atomic{kind: KindGMonth, data: t} }
func GDay(t Temporal) Atomic       { return Atomic{kind: KindGDay, data: t} }

// TemporalValue returns the underlying Temporal for any temporal kind.
func (a Atomic) TemporalValue() Temporal { return a.data.(Temporal) }

// --- Duration ------------------------------------------------------------

// DurationValue constructs an xs:duration value.
func DurationValue(d Duration) Atomic { return Atomic{kind: KindDuration, data: d} }

// YearMonthDurationValue constructs an xs:yearMonthDuration value.
func YearMonthDurationValue(d Duration) Atomic { return Atomic{kind: KindYearMonthDuration, data: d} }

// DayTimeDurationValue constructs an xs:dayTimeDuration value.
func DayTimeDurationValue(d Duration) Atomic { return Atomic{kind: KindDayTimeDuration, data: d} }

// DurationOf returns the underlying Duration for any duration kind.
func (a Atomic) DurationOf() Duration { return a.data.(Duration) }

// --- Binary ------------------------------------------------------------

type binaryPayload struct {
	bytes    []byte
	encoding BinaryEncoding
}

// Binary constructs an xs:base64Binary or xs:hexBinary value.
func Binary(b []byte, enc BinaryEncoding) Atomic {
	return Atomic{kind: KindBinary, data: binaryPayload{bytes: b, encoding: enc}}
}

// BinaryValue returns the underlying bytes.
func (a Atomic) BinaryValue() []byte { return a.data.(binaryPayload).bytes }

// BinaryEncodingOf returns the binary payload's lexical encoding.
func (a Atomic) BinaryEncodingOf() BinaryEncoding { return a.data.(binaryPayload).encoding }

// --- QName ---------------------------------------------------------------

// QNameValue constructs an xs:QName value.
func QNameValue(q QName) Atomic { return Atomic{kind: KindQName, data: q} }

// QNameOf returns the underlying QName.
func (a Atomic) QNameOf() QName { return a.data.(QName) }

// IsNaN reports whether a is a float/double NaN. NaN equals nothing for
// value comparison, including itself (spec.md §3), but this predicate is
// used by map-key equality, which treats NaN as equal to itself.
func (a Atomic) IsNaN() bool {
	switch a.kind {
	case KindFloat:
		f := a.FloatValue()
		return f != f
	case KindDouble:
		f := a.DoubleValue()
		return f != f
	}
	return false
}
