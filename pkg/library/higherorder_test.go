package library

import (
	"testing"

	"xpath31/pkg/atomic"
	"xpath31/pkg/sequence"
	"xpath31/pkg/xdmerr"
)

type stubCallable struct{ arity int }

func (c stubCallable) Arity() int   { return c.arity }
func (c stubCallable) Name() string { return "stub" }

func doubleInvoke(_ sequence.Item, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	a, err := args[0].Atomize()
	if err != nil {
		return sequence.Empty, err
	}
	v := a.At(0).Atomic().IntegerValue().Int64()
	return sequence.OneAtomic(atomic.IntegerFromInt64(v * 2)), nil
}

func TestFnForEachAppliesFunctionToEveryItem(t *testing.T) {
	env := Env{Invoke: doubleInvoke}
	fnItem := sequence.FunctionItem(stubCallable{arity: 1})
	out, err := fnForEach(env, []sequence.Sequence{ints(1, 2, 3), sequence.One(fnItem)})
	if err != nil {
		t.Fatalf("fnForEach error: %v", err)
	}
	items, _ := out.Items()
	if len(items) != 3 || items[1].Atomic().IntegerValue().Int64() != 4 {
		t.Errorf("fn:for-each result = %v, want (2,4,6)", items)
	}
}

func TestFnFilterWithoutInvokeReportsAbsentContext(t *testing.T) {
	fnItem := sequence.FunctionItem(stubCallable{arity: 1})
	_, err := fnFilter(Env{}, []sequence.Sequence{ints(1, 2), sequence.One(fnItem)})
	if err == nil {
		t.Fatal("fnFilter without Invoke should error")
	}
}

func TestFnFoldLeftAccumulates(t *testing.T) {
	sumInvoke := func(_ sequence.Item, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
		acc, _ := args[0].Atomize()
		next, _ := args[1].Atomize()
		sum := acc.At(0).Atomic().IntegerValue().Int64() + next.At(0).Atomic().IntegerValue().Int64()
		return sequence.OneAtomic(atomic.IntegerFromInt64(sum)), nil
	}
	env := Env{Invoke: sumInvoke}
	fnItem := sequence.FunctionItem(stubCallable{arity: 2})
	out, err := fnFoldLeft(env, []sequence.Sequence{
		ints(1, 2, 3, 4),
		sequence.OneAtomic(atomic.IntegerFromInt64(0)),
		sequence.One(fnItem),
	})
	if err != nil {
		t.Fatalf("fnFoldLeft error: %v", err)
	}
	if out.At(0).Atomic().IntegerValue().Int64() != 10 {
		t.Errorf("fn:fold-left sum = %v, want 10", out.At(0).Atomic().IntegerValue())
	}
}

func TestFnFoldRightProcessesRightToLeft(t *testing.T) {
	var order []int64
	recordInvoke := func(_ sequence.Item, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
		item, _ := args[0].Atomize()
		order = append(order, item.At(0).Atomic().IntegerValue().Int64())
		return args[1], nil
	}
	env := Env{Invoke: recordInvoke}
	fnItem := sequence.FunctionItem(stubCallable{arity: 2})
	_, err := fnFoldRight(env, []sequence.Sequence{
		ints(1, 2, 3),
		sequence.Empty,
		sequence.One(fnItem),
	})
	if err != nil {
		t.Fatalf("fnFoldRight error: %v", err)
	}
	if len(order) != 3 || order[0] != 3 || order[2] != 1 {
		t.Errorf("fn:fold-right visited order = %v, want (3,2,1)", order)
	}
}
