package interp

import (
	"xpath31/internal/bytecode"
	"xpath31/pkg/atomic"
	"xpath31/pkg/program"
	"xpath31/pkg/sequence"
	"xpath31/pkg/xdmerr"
)

// execCastLike handles the four SingleType/SequenceType operators
// (spec.md §4.1, §4.2 supplemented feature): "cast as", "castable as",
// "instance of", and "treat as". All four share one compiled shape (the
// operand, then a table-indexed program.CastType) and differ only in what
// they do with the dynamic-type check's result.
func (it *Interpreter) execCastLike(f *callFrame, op bytecode.OpCode, idx int) *xdmerr.Error {
	ct := f.fn.CastTypes[idx]
	v, err := it.pop()
	if err != nil {
		return err
	}
	switch op {
	case bytecode.OpCastAs:
		result, cerr := it.castSequence(v, ct)
		if cerr != nil {
			return cerr
		}
		it.push(result)
		return nil

	case bytecode.OpCastableAs:
		_, cerr := it.castSequence(v, ct)
		it.push(sequence.OneAtomic(atomic.Boolean(cerr == nil)))
		return nil

	case bytecode.OpInstanceOf:
		it.push(sequence.OneAtomic(atomic.Boolean(it.instanceOf(v, ct))))
		return nil

	case bytecode.OpTreatAs:
		if !it.instanceOf(v, ct) {
			return xdmerr.Typef("the dynamic type of the operand does not match the treat-as target type")
		}
		it.push(v)
		return nil
	}
	return it.runtimeErrorf("interp: unhandled cast-like opcode %v", op)
}

// castSequence implements "cast as": the SingleType grammar only ever
// names one atomic type, optionally suffixed "?", so the operand must
// atomize to zero or one value regardless of ct.Occurrence.
func (it *Interpreter) castSequence(v sequence.Sequence, ct program.CastType) (sequence.Sequence, *xdmerr.Error) {
	av, ok, aerr := it.singletonAtomic(v)
	if aerr != nil {
		return sequence.Empty, aerr
	}
	if !ok {
		if ct.Occurrence == program.OccurrenceZeroOrOne || ct.Occurrence == program.OccurrenceZeroOrMore {
			return sequence.Empty, nil
		}
		return sequence.Empty, xdmerr.Typef("cannot cast the empty sequence to %s", ct.AtomicKind)
	}
	casted, cerr := castAtomicByName(av, ct.AtomicKind)
	if cerr != nil {
		return sequence.Empty, cerr
	}
	return sequence.OneAtomic(casted), nil
}

// castAtomicByName dispatches a cast target name to the matching
// pkg/atomic.Atomic cast method. Every xs: string subtype collapses to
// CastToString (XPath's primitive-value equality/ordering never
// distinguishes them, spec.md §3), and temporal, duration, QName, and
// binary cast targets are not supported by this engine (documented in
// DESIGN.md): they report a type error rather than silently losing
// precision.
func castAtomicByName(a atomic.Atomic, name string) (atomic.Atomic, *xdmerr.Error) {
	switch name {
	case "xs:string", "xs:normalizedString", "xs:token", "xs:language",
		"xs:Name", "xs:NCName", "xs:NMTOKEN", "xs:ID", "xs:IDREF", "xs:ENTITY", "xs:anyURI":
		return a.CastToString()
	case "xs:boolean":
		return a.CastToBoolean()
	case "xs:double":
		return a.CastToDouble()
	case "xs:float":
		return a.CastToFloat()
	case "xs:decimal":
		return a.CastToDecimal()
	case "xs:integer":
		return a.CastToIntegerSubtype(atomic.IntegerSubtypePlain)
	case "xs:nonNegativeInteger":
		return a.CastToIntegerSubtype(atomic.IntegerSubtypeNonNegative)
	case "xs:nonPositiveInteger":
		return a.CastToIntegerSubtype(atomic.IntegerSubtypeNonPositive)
	case "xs:negativeInteger":
		return a.CastToIntegerSubtype(atomic.IntegerSubtypeNegative)
	case "xs:positiveInteger":
		return a.CastToIntegerSubtype(atomic.IntegerSubtypePositive)
	case "xs:long":
		return a.CastToIntegerSubtype(atomic.IntegerSubtypeLong)
	case "xs:int":
		return a.CastToIntegerSubtype(atomic.IntegerSubtypeInt)
	case "xs:short":
		return a.CastToIntegerSubtype(atomic.IntegerSubtypeShort)
	case "xs:byte":
		return a.CastToIntegerSubtype(atomic.IntegerSubtypeByte)
	case "xs:unsignedLong":
		return a.CastToIntegerSubtype(atomic.IntegerSubtypeUnsignedLong)
	case "xs:unsignedInt":
		return a.CastToIntegerSubtype(atomic.IntegerSubtypeUnsignedInt)
	case "xs:unsignedShort":
		return a.CastToIntegerSubtype(atomic.IntegerSubtypeUnsignedShort)
	case "xs:unsignedByte":
		return a.CastToIntegerSubtype(atomic.IntegerSubtypeUnsignedByte)
	case "xs:anyAtomicType", "xs:untypedAtomic":
		return a, nil
	}
	return atomic.Atomic{}, xdmerr.Typef("cast to %s is not supported by this engine", name)
}

// instanceOf implements "instance of"/"treat as"'s dynamic type check.
// Cardinality is always checked precisely; item-type checking is only
// precise for a single named atomic type (ct.IsSequenceOf false) — a
// sequence-of test (node()*, item()*, function(*)*, ...) only checks
// cardinality, per this engine's simplification recorded in DESIGN.md.
func (it *Interpreter) instanceOf(v sequence.Sequence, ct program.CastType) bool {
	n := v.Len()
	switch ct.Occurrence {
	case program.OccurrenceExactlyOne:
		if n != 1 {
			return false
		}
	case program.OccurrenceZeroOrOne:
		if n > 1 {
			return false
		}
	case program.OccurrenceOneOrMore:
		if n < 1 {
			return false
		}
	}
	if ct.IsSequenceOf || n == 0 {
		return true
	}
	items, err := v.Items()
	if err != nil {
		return false
	}
	for _, item := range items {
		if item.Kind() != sequence.ItemAtomic || !atomicKindMatches(item.Atomic(), ct.AtomicKind) {
			return false
		}
	}
	return true
}

// atomicKindMatches checks only the base primitive kind, not the precise
// schema subtype (e.g. xs:nonNegativeInteger and xs:integer are both
// satisfied by any integer value) — the same subtype-blind simplification
// castAtomicByName documents for casting.
func atomicKindMatches(a atomic.Atomic, name string) bool {
	switch name {
	case "xs:string", "xs:normalizedString", "xs:token", "xs:language",
		"xs:Name", "xs:NCName", "xs:NMTOKEN", "xs:ID", "xs:IDREF", "xs:ENTITY", "xs:anyURI":
		return a.Kind() == atomic.KindString
	case "xs:boolean":
		return a.Kind() == atomic.KindBoolean
	case "xs:double":
		return a.Kind() == atomic.KindDouble
	case "xs:float":
		return a.Kind() == atomic.KindFloat
	case "xs:decimal":
		return a.Kind() == atomic.KindDecimal
	case "xs:integer", "xs:nonNegativeInteger", "xs:nonPositiveInteger", "xs:negativeInteger", "xs:positiveInteger",
		"xs:long", "xs:int", "xs:short", "xs:byte",
		"xs:unsignedLong", "xs:unsignedInt", "xs:unsignedShort", "xs:unsignedByte":
		return a.Kind() == atomic.KindInteger
	case "xs:anyAtomicType":
		return true
	}
	return false
}
