package library

import (
	"testing"

	"xpath31/pkg/atomic"
	"xpath31/pkg/sequence"
)

func ints(vs ...int64) sequence.Sequence {
	items := make([]sequence.Item, len(vs))
	for i, v := range vs {
		items[i] = sequence.AtomicItem(atomic.IntegerFromInt64(v))
	}
	return sequence.Many(items)
}

func TestFnCountEmptyExists(t *testing.T) {
	seq := ints(1, 2, 3)
	count, err := fnCount(Env{}, []sequence.Sequence{seq})
	if err != nil || count.At(0).Atomic().IntegerValue().Int64() != 3 {
		t.Errorf("fn:count = %v, err %v, want 3", count, err)
	}
	empty, _ := fnEmpty(Env{}, []sequence.Sequence{sequence.Empty})
	if !empty.At(0).Atomic().BoolValue() {
		t.Error("fn:empty(()) should be true")
	}
	exists, _ := fnExists(Env{}, []sequence.Sequence{seq})
	if !exists.At(0).Atomic().BoolValue() {
		t.Error("fn:exists((1,2,3)) should be true")
	}
}

func TestFnReverse(t *testing.T) {
	out, err := fnReverse(Env{}, []sequence.Sequence{ints(1, 2, 3)})
	if err != nil {
		t.Fatalf("fnReverse error: %v", err)
	}
	items, _ := out.Items()
	if items[0].Atomic().IntegerValue().Int64() != 3 || items[2].Atomic().IntegerValue().Int64() != 1 {
		t.Errorf("fn:reverse((1,2,3)) = %v, want (3,2,1)", items)
	}
}

func TestFnDistinctValuesRemovesDuplicates(t *testing.T) {
	seq := sequence.Many([]sequence.Item{
		sequence.AtomicItem(atomic.Double(1)),
		sequence.AtomicItem(atomic.Double(1)),
		sequence.AtomicItem(atomic.Double(2)),
	})
	out, err := fnDistinctValues(Env{}, []sequence.Sequence{seq})
	if err != nil {
		t.Fatalf("fnDistinctValues error: %v", err)
	}
	if out.Len() != 2 {
		t.Errorf("fn:distinct-values((1,1,2)) len = %d, want 2", out.Len())
	}
}

func TestFnSubsequenceWithAndWithoutLength(t *testing.T) {
	seq := ints(1, 2, 3, 4, 5)
	out, err := fnSubsequence(Env{}, []sequence.Sequence{seq, sequence.OneAtomic(atomic.IntegerFromInt64(2))})
	if err != nil {
		t.Fatalf("fnSubsequence error: %v", err)
	}
	if out.Len() != 4 {
		t.Errorf("fn:subsequence((1..5), 2) len = %d, want 4", out.Len())
	}

	out, err = fnSubsequence(Env{}, []sequence.Sequence{
		seq,
		sequence.OneAtomic(atomic.IntegerFromInt64(2)),
		sequence.OneAtomic(atomic.IntegerFromInt64(2)),
	})
	if err != nil {
		t.Fatalf("fnSubsequence error: %v", err)
	}
	items, _ := out.Items()
	if len(items) != 2 || items[0].Atomic().IntegerValue().Int64() != 2 {
		t.Errorf("fn:subsequence((1..5), 2, 2) = %v, want (2,3)", items)
	}
}

func TestFnIndexOf(t *testing.T) {
	out, err := fnIndexOf(Env{}, []sequence.Sequence{ints(10, 20, 20, 30), sequence.OneAtomic(atomic.IntegerFromInt64(20))})
	if err != nil {
		t.Fatalf("fnIndexOf error: %v", err)
	}
	items, _ := out.Items()
	if len(items) != 2 || items[0].Atomic().IntegerValue().Int64() != 2 || items[1].Atomic().IntegerValue().Int64() != 3 {
		t.Errorf("fn:index-of = %v, want (2,3)", items)
	}
}

func TestFnHeadAndTail(t *testing.T) {
	seq := ints(1, 2, 3)
	head, err := fnHead(Env{}, []sequence.Sequence{seq})
	if err != nil || head.At(0).Atomic().IntegerValue().Int64() != 1 {
		t.Errorf("fn:head = %v, err %v, want 1", head, err)
	}
	tail, err := fnTail(Env{}, []sequence.Sequence{seq})
	if err != nil || tail.Len() != 2 {
		t.Errorf("fn:tail len = %d, err %v, want 2", tail.Len(), err)
	}
}
