// Package atomic implements the XDM atomic value model: a tagged union of
// the XPath 3.1 primitive types, their casts, and the pairwise coercion
// rules arithmetic and comparison operators dispatch on (spec.md §3, §4.1).
//
// The Atomic type follows the same shape as go-dws's bytecode.Value: a type
// tag plus an untyped payload, constructed and inspected through helper
// functions rather than exported fields, so new kinds can be added without
// breaking call sites.
package atomic

import "fmt"

// Kind tags the primitive type of an Atomic value.
type Kind byte

const (
	KindUntyped Kind = iota
	KindString
	KindBoolean
	KindInteger
	KindDecimal
	KindFloat
	KindDouble
	KindDate
	KindTime
	KindDateTime
	KindDateTimeStamp
	KindDuration
	KindYearMonthDuration
	KindDayTimeDuration
	KindGYear
	KindGYearMonth
	KindGMonthDay
	KindGMonth
	KindGDay
	KindBinary
	KindQName
)

var kindNames = [...]string{
	KindUntyped:           "untyped",
	KindString:            "string",
	KindBoolean:           "boolean",
	KindInteger:           "integer",
	KindDecimal:           "decimal",
	KindFloat:             "float",
	KindDouble:            "double",
	KindDate:              "date",
	KindTime:              "time",
	KindDateTime:          "dateTime",
	KindDateTimeStamp:     "dateTimeStamp",
	KindDuration:          "duration",
	KindYearMonthDuration: "yearMonthDuration",
	KindDayTimeDuration:   "dayTimeDuration",
	KindGYear:             "gYear",
	KindGYearMonth:        "gYearMonth",
	KindGMonthDay:         "gMonthDay",
	KindGMonth:            "gMonth",
	KindGDay:              "gDay",
	KindBinary:            "binary",
	KindQName:             "QName",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", byte(k))
}

// IsNumeric reports whether k is one of the four numeric primitives.
func (k Kind) IsNumeric() bool {
	switch k {
	case KindInteger, KindDecimal, KindFloat, KindDouble:
		return true
	}
	return false
}

// IsTemporal reports whether k carries calendar/clock information.
func (k Kind) IsTemporal() bool {
	switch k {
	case KindDate, KindTime, KindDateTime, KindDateTimeStamp,
		KindGYear, KindGYearMonth, KindGMonthDay, KindGMonth, KindGDay:
		return true
	}
	return false
}

// IsDuration reports whether k is one of the three duration kinds.
func (k Kind) IsDuration() bool {
	switch k {
	case KindDuration, KindYearMonthDuration, KindDayTimeDuration:
		return true
	}
	return false
}

// StringSubtype preserves the schema-declared string subtype across casts
// and re-casting, per spec.md §3: equality and ordering compare on the
// primitive value, not the subtype, but the subtype survives for reporting.
type StringSubtype byte

const (
	StringSubtypePlain StringSubtype = iota
	StringSubtypeNormalizedString
	StringSubtypeToken
	StringSubtypeLanguage
	StringSubtypeName
	StringSubtypeNCName
	StringSubtypeNMTOKEN
	StringSubtypeID
	StringSubtypeIDREF
	StringSubtypeENTITY
	StringSubtypeAnyURI
)

var stringSubtypeNames = [...]string{
	StringSubtypePlain:           "xs:string",
	StringSubtypeNormalizedString: "xs:normalizedString",
	StringSubtypeToken:           "xs:token",
	StringSubtypeLanguage:        "xs:language",
	StringSubtypeName:            "xs:Name",
	StringSubtypeNCName:          "xs:NCName",
	StringSubtypeNMTOKEN:         "xs:NMTOKEN",
	StringSubtypeID:              "xs:ID",
	StringSubtypeIDREF:           "xs:IDREF",
	StringSubtypeENTITY:          "xs:ENTITY",
	StringSubtypeAnyURI:          "xs:anyURI",
}

func (s StringSubtype) String() string {
	if int(s) < len(stringSubtypeNames) {
		return stringSubtypeNames[s]
	}
	return "xs:string"
}

// IntegerSubtype preserves the schema-declared integer subtype, validated on
// cast against its range constraint (spec.md §3).
type IntegerSubtype byte

const (
	IntegerSubtypePlain IntegerSubtype = iota // xs:integer, unbounded
	IntegerSubtypeNonNegative
	IntegerSubtypeNonPositive
	IntegerSubtypeNegative
	IntegerSubtypePositive
	IntegerSubtypeLong
	IntegerSubtypeInt
	IntegerSubtypeShort
	IntegerSubtypeByte
	IntegerSubtypeUnsignedLong
	IntegerSubtypeUnsignedInt
	IntegerSubtypeUnsignedShort
	IntegerSubtypeUnsignedByte
)

var integerSubtypeNames = [...]string{
	IntegerSubtypePlain:         "xs:integer",
	IntegerSubtypeNonNegative:   "xs:nonNegativeInteger",
	IntegerSubtypeNonPositive:   "xs:nonPositiveInteger",
	IntegerSubtypeNegative:      "xs:negativeInteger",
	IntegerSubtypePositive:      "xs:positiveInteger",
	IntegerSubtypeLong:          "xs:long",
	IntegerSubtypeInt:           "xs:int",
	IntegerSubtypeShort:         "xs:short",
	IntegerSubtypeByte:          "xs:byte",
	IntegerSubtypeUnsignedLong:  "xs:unsignedLong",
	IntegerSubtypeUnsignedInt:   "xs:unsignedInt",
	IntegerSubtypeUnsignedShort: "xs:unsignedShort",
	IntegerSubtypeUnsignedByte:  "xs:unsignedByte",
}

func (s IntegerSubtype) String() string {
	if int(s) < len(integerSubtypeNames) {
		return integerSubtypeNames[s]
	}
	return "xs:integer"
}

// BinaryEncoding distinguishes xs:base64Binary from xs:hexBinary lexical
// forms; both store raw bytes once parsed.
type BinaryEncoding byte

const (
	Base64 BinaryEncoding = iota
	Hex
)
