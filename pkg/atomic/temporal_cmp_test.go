package atomic

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestTemporalValueRoundTrips exercises every temporal constructor's
// extraction with go-cmp instead of a field-by-field comparison: Temporal
// and TZOffset are plain exported-field structs, the case go-cmp's
// default reflect-based diff (rather than a hand-written Equal method)
// fits best, and it gives a readable diff when a constructor forgets to
// carry a field through.
func TestTemporalValueRoundTrips(t *testing.T) {
	in := Temporal{
		Year: 2031, Month: 12, Day: 25,
		Hour: 13, Minute: 45, Second: 9, Nanosecond: 250000000,
		TZ: TZOffset{Minutes: -300, HasTZ: true},
	}

	tests := []struct {
		name string
		a    Atomic
	}{
		{"DateTime", DateTime(in)},
		{"DateTimeStamp", DateTimeStamp(in)},
		{"Date", Date(in)},
		{"Time", Time(in)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.TemporalValue()
			if diff := cmp.Diff(in, got); diff != "" {
				t.Errorf("TemporalValue() round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestEqUsesImplicitTimezoneForOffsetNaiveTemporal verifies spec.md §4.1's
// "Temporal ordering uses a default implicit offset ... when one operand is
// offset-naive": an offset-naive dateTime is normalized using the caller's
// implicit timezone, not treated as UTC regardless of context.
func TestEqUsesImplicitTimezoneForOffsetNaiveTemporal(t *testing.T) {
	naive := DateTime(Temporal{Year: 2031, Month: 1, Day: 1, Hour: 10, Minute: 0, Second: 0})
	aware := DateTime(Temporal{Year: 2031, Month: 1, Day: 1, Hour: 8, Minute: 0, Second: 0, TZ: TZOffset{Minutes: 0, HasTZ: true}})

	// 10:00 local under a +02:00 implicit timezone is the same instant as
	// 08:00Z.
	eq, err := naive.Eq(aware, nil, 120)
	if err != nil {
		t.Fatalf("Eq() error = %v", err)
	}
	if !eq {
		t.Error("10:00 with a +02:00 implicit timezone should equal 08:00Z")
	}

	// Under a UTC implicit timezone the same naive value is a different
	// instant from 08:00Z.
	eqUTC, err := naive.Eq(aware, nil, 0)
	if err != nil {
		t.Fatalf("Eq() error = %v", err)
	}
	if eqUTC {
		t.Error("10:00 treated as UTC should not equal 08:00Z")
	}
}

func TestDurationOfRoundTripsSignAndComponents(t *testing.T) {
	in := Duration{Negative: true, Months: 14, Seconds: 93784, Nanosecond: 500000000}
	got := YearMonthDurationValue(in).DurationOf()
	if diff := cmp.Diff(in, got); diff != "" {
		t.Errorf("DurationOf() round trip mismatch (-want +got):\n%s", diff)
	}
}
