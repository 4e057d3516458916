package atomic

import "math/big"

// integerRange describes the inclusive bound constraint for an integer
// subtype. A nil bound means unbounded on that side.
type integerRange struct {
	min, max *big.Int
}

func bigFromInt64(v int64) *big.Int { return big.NewInt(v) }

func bigFromUint64(v uint64) *big.Int { return new(big.Int).SetUint64(v) }

var integerRanges = map[IntegerSubtype]integerRange{
	IntegerSubtypePlain:         {nil, nil},
	IntegerSubtypeNonNegative:   {bigFromInt64(0), nil},
	IntegerSubtypeNonPositive:   {nil, bigFromInt64(0)},
	IntegerSubtypeNegative:      {nil, bigFromInt64(-1)},
	IntegerSubtypePositive:      {bigFromInt64(1), nil},
	IntegerSubtypeLong:          {bigFromInt64(-9223372036854775808), bigFromInt64(9223372036854775807)},
	IntegerSubtypeInt:           {bigFromInt64(-2147483648), bigFromInt64(2147483647)},
	IntegerSubtypeShort:         {bigFromInt64(-32768), bigFromInt64(32767)},
	IntegerSubtypeByte:          {bigFromInt64(-128), bigFromInt64(127)},
	IntegerSubtypeUnsignedLong:  {bigFromInt64(0), bigFromUint64(18446744073709551615)},
	IntegerSubtypeUnsignedInt:   {bigFromInt64(0), bigFromInt64(4294967295)},
	IntegerSubtypeUnsignedShort: {bigFromInt64(0), bigFromInt64(65535)},
	IntegerSubtypeUnsignedByte:  {bigFromInt64(0), bigFromInt64(255)},
}

// InRange reports whether v satisfies the subtype's range constraint.
func (s IntegerSubtype) InRange(v *big.Int) bool {
	r, ok := integerRanges[s]
	if !ok {
		return true
	}
	if r.min != nil && v.Cmp(r.min) < 0 {
		return false
	}
	if r.max != nil && v.Cmp(r.max) > 0 {
		return false
	}
	return true
}
