package atomic

import "testing"

func TestAddPromotesToWiderKind(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Atomic
		wantKind Kind
	}{
		{"int+int", IntegerFromInt64(1), IntegerFromInt64(2), KindInteger},
		{"int+double", IntegerFromInt64(1), Double(2.5), KindDouble},
		{"decimal+double", mustDecimal(t, "1.5"), Double(2), KindDouble},
		{"float+double", Float(1), Double(2), KindDouble},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.a.Add(tt.b)
			if err != nil {
				t.Fatalf("Add() error = %v", err)
			}
			if got.Kind() != tt.wantKind {
				t.Errorf("Add() kind = %v, want %v", got.Kind(), tt.wantKind)
			}
		})
	}
}

func TestDivisionByZero(t *testing.T) {
	a := IntegerFromInt64(10)
	zero := IntegerFromInt64(0)

	if _, err := a.IDiv(zero); err == nil {
		t.Error("IDiv by zero should fail")
	} else if err.Code != "FOAR0001" {
		t.Errorf("IDiv by zero error code = %v, want FOAR0001", err.Code)
	}

	if _, err := a.Mod(zero); err == nil {
		t.Error("Mod by zero should fail")
	}

	// xs:double division by zero produces infinity, not an error.
	d, err := Double(1).Div(Double(0))
	if err != nil {
		t.Fatalf("double division by zero should not error, got %v", err)
	}
	if !isInf(d.DoubleValue()) {
		t.Errorf("1.0 div 0.0 = %v, want +Inf", d.DoubleValue())
	}
}

func isInf(f float64) bool { return f > 1e300 || f < -1e300 }

func TestIDivTruncates(t *testing.T) {
	got, err := IntegerFromInt64(7).IDiv(IntegerFromInt64(2))
	if err != nil {
		t.Fatalf("IDiv() error = %v", err)
	}
	if got.IntegerValue().Int64() != 3 {
		t.Errorf("7 idiv 2 = %v, want 3", got.IntegerValue())
	}

	neg, err := IntegerFromInt64(-7).IDiv(IntegerFromInt64(2))
	if err != nil {
		t.Fatalf("IDiv() error = %v", err)
	}
	if neg.IntegerValue().Int64() != -3 {
		t.Errorf("-7 idiv 2 = %v, want -3 (truncating toward zero)", neg.IntegerValue())
	}
}

func TestNegate(t *testing.T) {
	got, err := IntegerFromInt64(5).Negate()
	if err != nil {
		t.Fatalf("Negate() error = %v", err)
	}
	if got.IntegerValue().Int64() != -5 {
		t.Errorf("Negate(5) = %v, want -5", got.IntegerValue())
	}
}

func mustDecimal(t *testing.T, text string) Atomic {
	t.Helper()
	d, err := String(text).CastToDecimal()
	if err != nil {
		t.Fatalf("CastToDecimal(%q) error = %v", text, err)
	}
	return d
}
