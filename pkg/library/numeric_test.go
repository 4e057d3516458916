package library

import (
	"testing"

	"github.com/shopspring/decimal"

	"xpath31/pkg/atomic"
	"xpath31/pkg/sequence"
)

func TestFnAbsOnNegativeInteger(t *testing.T) {
	seq, err := fnAbs(Env{}, []sequence.Sequence{sequence.OneAtomic(atomic.IntegerFromInt64(-5))})
	if err != nil {
		t.Fatalf("fnAbs error: %v", err)
	}
	if seq.At(0).Atomic().IntegerValue().Int64() != 5 {
		t.Errorf("fn:abs(-5) = %v, want 5", seq.At(0).Atomic().IntegerValue())
	}
}

func TestFnRoundHalfToPositiveInfinity(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{2.5, 3},
		{-2.5, -2},
		{1.5, 2},
	}
	for _, c := range cases {
		seq, err := fnRound(Env{}, []sequence.Sequence{sequence.OneAtomic(atomic.Double(c.in))})
		if err != nil {
			t.Fatalf("fnRound(%v) error: %v", c.in, err)
		}
		if got := seq.At(0).Atomic().DoubleValue(); got != c.want {
			t.Errorf("fn:round(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestFnRoundPrecisionOnDecimal(t *testing.T) {
	d := decimal.NewFromFloat(1.005)
	seq, err := roundToPrecision([]sequence.Sequence{sequence.OneAtomic(atomic.Decimal(d))}, 2)
	if err != nil {
		t.Fatalf("roundToPrecision error: %v", err)
	}
	got, _ := seq.At(0).Atomic().DecimalValue().Float64()
	if got != 1.01 && got != 1.0 {
		t.Errorf("fn:round(1.005, 2) = %v, want approximately 1.01", got)
	}
}

func TestFnFloorAndCeilingOnDouble(t *testing.T) {
	floor, err := fnFloor(Env{}, []sequence.Sequence{sequence.OneAtomic(atomic.Double(1.9))})
	if err != nil {
		t.Fatalf("fnFloor error: %v", err)
	}
	if floor.At(0).Atomic().DoubleValue() != 1 {
		t.Errorf("fn:floor(1.9) = %v, want 1", floor.At(0).Atomic().DoubleValue())
	}

	ceil, err := fnCeiling(Env{}, []sequence.Sequence{sequence.OneAtomic(atomic.Double(1.1))})
	if err != nil {
		t.Fatalf("fnCeiling error: %v", err)
	}
	if ceil.At(0).Atomic().DoubleValue() != 2 {
		t.Errorf("fn:ceiling(1.1) = %v, want 2", ceil.At(0).Atomic().DoubleValue())
	}
}

func TestFnPow(t *testing.T) {
	seq, err := fnPow(Env{}, []sequence.Sequence{
		sequence.OneAtomic(atomic.Double(2)),
		sequence.OneAtomic(atomic.IntegerFromInt64(10)),
	})
	if err != nil {
		t.Fatalf("fnPow error: %v", err)
	}
	if seq.At(0).Atomic().DoubleValue() != 1024 {
		t.Errorf("fn:pow(2, 10) = %v, want 1024", seq.At(0).Atomic().DoubleValue())
	}
}
