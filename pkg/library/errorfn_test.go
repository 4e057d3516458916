package library

import (
	"testing"

	"xpath31/pkg/atomic"
	"xpath31/pkg/sequence"
	"xpath31/pkg/xdmerr"
)

func TestFnError1UsesSuppliedCode(t *testing.T) {
	_, err := fnError1(Env{}, []sequence.Sequence{sequence.OneAtomic(atomic.String("err:TOO-BIG"))})
	if err == nil {
		t.Fatal("fn:error($code) should always raise")
	}
	if err.Code != "err:TOO-BIG" {
		t.Errorf("error code = %q, want err:TOO-BIG", err.Code)
	}
}

func TestFnError2CarriesDescription(t *testing.T) {
	_, err := fnError2(Env{}, []sequence.Sequence{
		sequence.OneAtomic(atomic.String("err:BAD")),
		sequence.OneAtomic(atomic.String("something went wrong")),
	})
	if err == nil {
		t.Fatal("fn:error($code, $description) should always raise")
	}
	if err.Message != "something went wrong" {
		t.Errorf("error message = %q, want %q", err.Message, "something went wrong")
	}
}

func TestFnError0DefaultsToFOER0000(t *testing.T) {
	_, err := fnError0(Env{}, nil)
	if err == nil || err.Code != xdmerr.CodeFOER0000 {
		t.Errorf("fn:error() code = %v, want %s", err, xdmerr.CodeFOER0000)
	}
}

func TestFnGenerateIDIsStableForTheSameNode(t *testing.T) {
	node := fakeNode{docID: 1, order: 5}
	a, errA := fnGenerateID(Env{}, []sequence.Sequence{sequence.One(sequence.NodeItem(node))})
	b, errB := fnGenerateID(Env{}, []sequence.Sequence{sequence.One(sequence.NodeItem(node))})
	if errA != nil || errB != nil {
		t.Fatalf("fnGenerateID errors: %v, %v", errA, errB)
	}
	if a.At(0).Atomic().StringValue() != b.At(0).Atomic().StringValue() {
		t.Error("fn:generate-id should be stable for the same node")
	}
}

func TestFnGenerateIDOnEmptySequence(t *testing.T) {
	out, err := fnGenerateID(Env{}, []sequence.Sequence{sequence.Empty})
	if err != nil {
		t.Fatalf("fnGenerateID error: %v", err)
	}
	if out.At(0).Atomic().StringValue() != "" {
		t.Errorf("fn:generate-id(()) = %q, want empty string", out.At(0).Atomic().StringValue())
	}
}
