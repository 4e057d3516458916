package library

import (
	"testing"

	"xpath31/pkg/atomic"
	"xpath31/pkg/sequence"
	"xpath31/pkg/xdmerr"
	"xpath31/pkg/xdmfunc"
)

func TestMapGetPutSizeContainsRemove(t *testing.T) {
	m, err := xdmfunc.NewMap(
		[]atomic.Atomic{atomic.String("a"), atomic.String("b")},
		[]sequence.Sequence{sequence.OneAtomic(atomic.IntegerFromInt64(1)), sequence.OneAtomic(atomic.IntegerFromInt64(2))},
	)
	if err != nil {
		t.Fatalf("NewMap error: %v", err)
	}
	args := []sequence.Sequence{sequence.One(mapItem(m))}

	size, serr := mapSize(Env{}, args)
	if serr != nil || size.At(0).Atomic().IntegerValue().Int64() != 2 {
		t.Errorf("map:size = %v, err %v, want 2", size, serr)
	}

	get, gerr := mapGet(Env{}, append(args, sequence.OneAtomic(atomic.String("a"))))
	if gerr != nil || get.At(0).Atomic().IntegerValue().Int64() != 1 {
		t.Errorf("map:get(a) = %v, err %v, want 1", get, gerr)
	}

	contains, cerr := mapContains(Env{}, append(args, sequence.OneAtomic(atomic.String("missing"))))
	if cerr != nil || contains.At(0).Atomic().BoolValue() {
		t.Error("map:contains(missing) should be false")
	}

	put, perr := mapPut(Env{}, []sequence.Sequence{
		sequence.One(mapItem(m)),
		sequence.OneAtomic(atomic.String("c")),
		sequence.OneAtomic(atomic.IntegerFromInt64(3)),
	})
	if perr != nil {
		t.Fatalf("map:put error: %v", perr)
	}
	newSize, _ := mapSize(Env{}, []sequence.Sequence{put})
	if newSize.At(0).Atomic().IntegerValue().Int64() != 3 {
		t.Errorf("map:size after put = %v, want 3", newSize)
	}

	removed, rerr := mapRemove(Env{}, append(args, sequence.OneAtomic(atomic.String("a"))))
	if rerr != nil {
		t.Fatalf("map:remove error: %v", rerr)
	}
	removedSize, _ := mapSize(Env{}, []sequence.Sequence{removed})
	if removedSize.At(0).Atomic().IntegerValue().Int64() != 1 {
		t.Errorf("map:size after remove = %v, want 1", removedSize)
	}
}

func TestMapKeysPreservesInsertionOrder(t *testing.T) {
	m, err := xdmfunc.NewMap(
		[]atomic.Atomic{atomic.String("z"), atomic.String("a")},
		[]sequence.Sequence{sequence.OneAtomic(atomic.IntegerFromInt64(1)), sequence.OneAtomic(atomic.IntegerFromInt64(2))},
	)
	if err != nil {
		t.Fatalf("NewMap error: %v", err)
	}
	keys, kerr := mapKeys(Env{}, []sequence.Sequence{sequence.One(mapItem(m))})
	if kerr != nil {
		t.Fatalf("map:keys error: %v", kerr)
	}
	items, _ := keys.Items()
	if len(items) != 2 || items[0].Atomic().StringValue() != "z" {
		t.Errorf("map:keys = %v, want (z, a) in insertion order", items)
	}
}

func TestMapForEachVisitsEveryEntry(t *testing.T) {
	m, err := xdmfunc.NewMap(
		[]atomic.Atomic{atomic.String("a"), atomic.String("b")},
		[]sequence.Sequence{sequence.OneAtomic(atomic.IntegerFromInt64(1)), sequence.OneAtomic(atomic.IntegerFromInt64(2))},
	)
	if err != nil {
		t.Fatalf("NewMap error: %v", err)
	}
	visited := 0
	env := Env{Invoke: func(_ sequence.Item, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
		visited++
		return sequence.Empty, nil
	}}
	_, ferr := mapForEach(env, []sequence.Sequence{sequence.One(mapItem(m)), sequence.One(sequence.FunctionItem(stubCallable{arity: 2}))})
	if ferr != nil {
		t.Fatalf("map:for-each error: %v", ferr)
	}
	if visited != 2 {
		t.Errorf("map:for-each visited %d entries, want 2", visited)
	}
}

func TestArrayGetPutSizeAppend(t *testing.T) {
	a := xdmfunc.NewArray([]sequence.Sequence{
		sequence.OneAtomic(atomic.IntegerFromInt64(10)),
		sequence.OneAtomic(atomic.IntegerFromInt64(20)),
	})
	args := []sequence.Sequence{sequence.One(arrayItem(a))}

	size, serr := arraySize(Env{}, args)
	if serr != nil || size.At(0).Atomic().IntegerValue().Int64() != 2 {
		t.Errorf("array:size = %v, err %v, want 2", size, serr)
	}

	get, gerr := arrayGet(Env{}, append(args, sequence.OneAtomic(atomic.IntegerFromInt64(1))))
	if gerr != nil || get.At(0).Atomic().IntegerValue().Int64() != 10 {
		t.Errorf("array:get(1) = %v, err %v, want 10", get, gerr)
	}

	appended, aerr := arrayAppend(Env{}, []sequence.Sequence{
		sequence.One(arrayItem(a)),
		sequence.OneAtomic(atomic.IntegerFromInt64(30)),
	})
	if aerr != nil {
		t.Fatalf("array:append error: %v", aerr)
	}
	newSize, _ := arraySize(Env{}, []sequence.Sequence{appended})
	if newSize.At(0).Atomic().IntegerValue().Int64() != 3 {
		t.Errorf("array:size after append = %v, want 3", newSize)
	}
}

func TestArrayGetOutOfRange(t *testing.T) {
	a := xdmfunc.NewArray([]sequence.Sequence{sequence.OneAtomic(atomic.IntegerFromInt64(1))})
	_, err := arrayGet(Env{}, []sequence.Sequence{
		sequence.One(arrayItem(a)),
		sequence.OneAtomic(atomic.IntegerFromInt64(5)),
	})
	if err == nil {
		t.Fatal("array:get(5) on a 1-member array should error")
	}
}

func TestArrayJoinConcatenatesMembers(t *testing.T) {
	a1 := xdmfunc.NewArray([]sequence.Sequence{sequence.OneAtomic(atomic.IntegerFromInt64(1))})
	a2 := xdmfunc.NewArray([]sequence.Sequence{sequence.OneAtomic(atomic.IntegerFromInt64(2))})
	joined, err := arrayJoin(Env{}, []sequence.Sequence{sequence.Many([]sequence.Item{arrayItem(a1), arrayItem(a2)})})
	if err != nil {
		t.Fatalf("array:join error: %v", err)
	}
	size, _ := arraySize(Env{}, []sequence.Sequence{joined})
	if size.At(0).Atomic().IntegerValue().Int64() != 2 {
		t.Errorf("array:join size = %v, want 2", size)
	}
}
