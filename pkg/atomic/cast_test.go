package atomic

import (
	"testing"
)

func TestCastToDouble(t *testing.T) {
	tests := []struct {
		name    string
		a       Atomic
		want    float64
		wantErr bool
	}{
		{"integer", IntegerFromInt64(5), 5, false},
		{"string", String("3.25"), 3.25, false},
		{"untyped", Untyped("-2.5"), -2.5, false},
		{"boolean true", Boolean(true), 1, false},
		{"boolean false", Boolean(false), 0, false},
		{"bad string", String("not a number"), 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.a.CastToDouble()
			if (err != nil) != tt.wantErr {
				t.Fatalf("CastToDouble() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got.DoubleValue() != tt.want {
				t.Errorf("CastToDouble() = %v, want %v", got.DoubleValue(), tt.want)
			}
		})
	}
}

func TestCastToIntegerRejectsNonIntegralDecimal(t *testing.T) {
	a := String("3.5")
	dec, err := a.CastToDecimal()
	if err != nil {
		t.Fatalf("CastToDecimal() error = %v", err)
	}
	if _, err := dec.CastToInteger(); err == nil {
		t.Fatal("CastToInteger() on 3.5 should fail, got nil error")
	}
}

func TestCastToIntegerSubtypeRange(t *testing.T) {
	a := IntegerFromInt64(200)
	if _, err := a.CastToIntegerSubtype(IntegerSubtypeByte); err == nil {
		t.Fatal("casting 200 to xs:byte should fail (range [-128, 127])")
	}
	b := IntegerFromInt64(100)
	got, err := b.CastToIntegerSubtype(IntegerSubtypeByte)
	if err != nil {
		t.Fatalf("CastToIntegerSubtype() error = %v", err)
	}
	if got.IntegerSubtypeOf() != IntegerSubtypeByte {
		t.Errorf("IntegerSubtypeOf() = %v, want IntegerSubtypeByte", got.IntegerSubtypeOf())
	}
}

func TestCastToBoolean(t *testing.T) {
	tests := []struct {
		name    string
		a       Atomic
		want    bool
		wantErr bool
	}{
		{"string true", String("true"), true, false},
		{"string 1", String("1"), true, false},
		{"string false", String("false"), false, false},
		{"string garbage", String("yes"), false, true},
		{"nonzero integer", IntegerFromInt64(5), true, false},
		{"zero integer", IntegerFromInt64(0), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.a.CastToBoolean()
			if (err != nil) != tt.wantErr {
				t.Fatalf("CastToBoolean() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got.BoolValue() != tt.want {
				t.Errorf("CastToBoolean() = %v, want %v", got.BoolValue(), tt.want)
			}
		})
	}
}

func TestCastRoundTripStringToIntegerToString(t *testing.T) {
	a := String("12345")
	i, err := a.CastToInteger()
	if err != nil {
		t.Fatalf("CastToInteger() error = %v", err)
	}
	s, err := i.CastToString()
	if err != nil {
		t.Fatalf("CastToString() error = %v", err)
	}
	if s.StringValue() != "12345" {
		t.Errorf("round trip = %q, want %q", s.StringValue(), "12345")
	}
}
