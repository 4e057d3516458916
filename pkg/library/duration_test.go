package library

import (
	"testing"

	"xpath31/pkg/atomic"
	"xpath31/pkg/sequence"
)

func TestDurationFieldAccessorsApplyOverallSign(t *testing.T) {
	// -P1Y2M3DT4H5M6S
	d := atomic.DurationValue(atomic.Duration{
		Negative: true,
		Months:   14,
		Seconds:  3*86400 + 4*3600 + 5*60 + 6,
	})
	seq := sequence.OneAtomic(d)

	years, err := durationField(func(d atomic.Duration) atomic.Atomic { return signedInteger(d.Negative, int(d.Months/12)) })(Env{}, []sequence.Sequence{seq})
	if err != nil || years.At(0).Atomic().IntegerValue().Int64() != -1 {
		t.Errorf("years-from-duration = %v, err %v, want -1", years, err)
	}

	months, err := durationField(func(d atomic.Duration) atomic.Atomic { return signedInteger(d.Negative, int(d.Months%12)) })(Env{}, []sequence.Sequence{seq})
	if err != nil || months.At(0).Atomic().IntegerValue().Int64() != -2 {
		t.Errorf("months-from-duration = %v, err %v, want -2", months, err)
	}

	days, err := durationField(func(d atomic.Duration) atomic.Atomic { return signedInteger(d.Negative, int(d.Seconds/86400)) })(Env{}, []sequence.Sequence{seq})
	if err != nil || days.At(0).Atomic().IntegerValue().Int64() != -3 {
		t.Errorf("days-from-duration = %v, err %v, want -3", days, err)
	}
}

func TestSecondsFromDurationReturnsDecimal(t *testing.T) {
	d := atomic.DayTimeDurationValue(atomic.Duration{Seconds: 90, Nanosecond: 500000000})
	out, err := durationField(func(d atomic.Duration) atomic.Atomic {
		whole := d.Seconds % 60
		return atomic.Decimal(decimalFromSeconds(whole, d.Nanosecond))
	})(Env{}, []sequence.Sequence{sequence.OneAtomic(d)})
	if err != nil {
		t.Fatalf("seconds-from-duration error: %v", err)
	}
	f, _ := out.At(0).Atomic().DecimalValue().Float64()
	if f != 30.5 {
		t.Errorf("seconds-from-duration = %v, want 30.5", f)
	}
}
