package sequence

import (
	"testing"

	"xpath31/pkg/atomic"
)

func TestRangeLazyLen(t *testing.T) {
	s := Range(1, 5)
	if got := s.Len(); got != 5 {
		t.Fatalf("Len() = %d, want 5", got)
	}
	items, err := s.Items()
	if err != nil {
		t.Fatalf("Items() error = %v", err)
	}
	want := []int64{1, 2, 3, 4, 5}
	for i, it := range items {
		if it.Atomic().IntegerValue().Int64() != want[i] {
			t.Errorf("item %d = %v, want %v", i, it.Atomic().IntegerValue(), want[i])
		}
	}
}

func TestRangeEmptyWhenLoGreaterThanHi(t *testing.T) {
	s := Range(5, 1)
	if !s.IsEmpty() {
		t.Error("Range(5, 1) should be empty")
	}
}

func TestConcatFlattens(t *testing.T) {
	a := OneAtomic(atomic.IntegerFromInt64(1))
	b := Many([]Item{AtomicItem(atomic.IntegerFromInt64(2)), AtomicItem(atomic.IntegerFromInt64(3))})
	got, err := Concat(a, Empty, b)
	if err != nil {
		t.Fatalf("Concat() error = %v", err)
	}
	if got.Len() != 3 {
		t.Fatalf("Concat() length = %d, want 3", got.Len())
	}
}

func TestEffectiveBooleanValue(t *testing.T) {
	tests := []struct {
		name    string
		s       Sequence
		want    bool
		wantErr bool
	}{
		{"empty", Empty, false, false},
		{"true boolean", OneAtomic(atomic.Boolean(true)), true, false},
		{"nonempty string", OneAtomic(atomic.String("x")), true, false},
		{"empty string", OneAtomic(atomic.String("")), false, false},
		{"zero integer", OneAtomic(atomic.IntegerFromInt64(0)), false, false},
		{"nonzero integer", OneAtomic(atomic.IntegerFromInt64(3)), true, false},
		{"two atomics", Many([]Item{AtomicItem(atomic.IntegerFromInt64(1)), AtomicItem(atomic.IntegerFromInt64(2))}), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.s.EffectiveBooleanValue()
			if (err != nil) != tt.wantErr {
				t.Fatalf("EffectiveBooleanValue() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("EffectiveBooleanValue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeepEqual(t *testing.T) {
	a := Many([]Item{AtomicItem(atomic.IntegerFromInt64(1)), AtomicItem(atomic.String("x"))})
	b := Many([]Item{AtomicItem(atomic.IntegerFromInt64(1)), AtomicItem(atomic.String("x"))})
	eq, err := DeepEqual(a, b, nil)
	if err != nil {
		t.Fatalf("DeepEqual() error = %v", err)
	}
	if !eq {
		t.Error("identical sequences should be deep-equal")
	}

	c := Many([]Item{AtomicItem(atomic.IntegerFromInt64(1)), AtomicItem(atomic.String("y"))})
	eq, err = DeepEqual(a, c, nil)
	if err != nil {
		t.Fatalf("DeepEqual() error = %v", err)
	}
	if eq {
		t.Error("sequences differing in one item should not be deep-equal")
	}
}
