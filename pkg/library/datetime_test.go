package library

import (
	"testing"
	"time"

	"xpath31/pkg/atomic"
	"xpath31/pkg/sequence"
)

func TestTemporalFieldAccessorsOnDateTime(t *testing.T) {
	dt := atomic.DateTime(atomic.Temporal{Year: 2024, Month: 3, Day: 15, Hour: 9, Minute: 30, Second: 5})
	seq := sequence.OneAtomic(dt)

	year, err := temporalField(func(t atomic.Temporal) atomic.Atomic { return atomic.IntegerFromInt64(t.Year) })(Env{}, []sequence.Sequence{seq})
	if err != nil || year.At(0).Atomic().IntegerValue().Int64() != 2024 {
		t.Errorf("year accessor = %v, err %v, want 2024", year, err)
	}
}

func TestTimezoneFieldReportsMinutesEastAsDayTimeDuration(t *testing.T) {
	dt := atomic.DateTime(atomic.Temporal{Year: 2024, Month: 1, Day: 1, TZ: atomic.TZOffset{Minutes: 120, HasTZ: true}})
	seq := sequence.OneAtomic(dt)
	out, err := timezoneField(Env{}, []sequence.Sequence{seq})
	if err != nil {
		t.Fatalf("timezoneField error: %v", err)
	}
	d := out.At(0).Atomic().DurationOf()
	if d.Negative || d.Seconds != 7200 {
		t.Errorf("timezone-from-dateTime = %+v, want +7200s", d)
	}
}

func TestTimezoneFieldAbsentWhenNaive(t *testing.T) {
	dt := atomic.DateTime(atomic.Temporal{Year: 2024, Month: 1, Day: 1})
	out, err := timezoneField(Env{}, []sequence.Sequence{sequence.OneAtomic(dt)})
	if err != nil {
		t.Fatalf("timezoneField error: %v", err)
	}
	if !out.IsEmpty() {
		t.Error("timezone-from-dateTime on an offset-naive value should be empty")
	}
}

func TestFnCurrentDateTimeUsesStampedNowWhenSupplied(t *testing.T) {
	stamp := time.Date(2030, time.June, 1, 12, 0, 0, 0, time.UTC)
	env := Env{Now: stamp}
	out, err := fnCurrentDateTime(env, nil)
	if err != nil {
		t.Fatalf("fnCurrentDateTime error: %v", err)
	}
	temporal := out.At(0).Atomic().TemporalValue()
	if temporal.Year != 2030 || temporal.Month != 6 {
		t.Errorf("fn:current-dateTime() = %+v, want year 2030 month 6", temporal)
	}
}
