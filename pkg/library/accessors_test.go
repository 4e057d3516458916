package library

import (
	"testing"

	"xpath31/pkg/atomic"
	"xpath31/pkg/sequence"
)

type fakeNode struct {
	docID, order uint64
	typed        []atomic.Atomic
	str          string
}

func (n fakeNode) DocumentOrderKey() (uint64, uint64) { return n.docID, n.order }
func (n fakeNode) TypedValue() []atomic.Atomic        { return n.typed }
func (n fakeNode) StringValue() string                { return n.str }

func TestFnStringOnAtomicItem(t *testing.T) {
	seq, err := fnString(Env{}, []sequence.Sequence{sequence.OneAtomic(atomic.IntegerFromInt64(42))})
	if err != nil {
		t.Fatalf("fnString error: %v", err)
	}
	if seq.At(0).Atomic().StringValue() != "42" {
		t.Errorf("fn:string(42) = %q, want 42", seq.At(0).Atomic().StringValue())
	}
}

func TestFnStringOnEmptySequenceIsEmptyString(t *testing.T) {
	seq, err := fnString(Env{}, []sequence.Sequence{sequence.Empty})
	if err != nil {
		t.Fatalf("fnString error: %v", err)
	}
	if seq.At(0).Atomic().StringValue() != "" {
		t.Errorf("fn:string(()) = %q, want empty string", seq.At(0).Atomic().StringValue())
	}
}

func TestFnStringZeroArgUsesContextItem(t *testing.T) {
	env := Env{ContextItem: sequence.AtomicItem(atomic.String("ctx")), HasContextItem: true}
	seq, err := fnString(env, nil)
	if err != nil {
		t.Fatalf("fnString error: %v", err)
	}
	if seq.At(0).Atomic().StringValue() != "ctx" {
		t.Errorf("fn:string() = %q, want ctx", seq.At(0).Atomic().StringValue())
	}
}

func TestFnNodeNameExtractsQName(t *testing.T) {
	node := fakeNode{typed: []atomic.Atomic{atomic.QNameValue(atomic.QName{Local: "item"})}}
	seq, err := fnNodeName(Env{}, []sequence.Sequence{sequence.One(sequence.NodeItem(node))})
	if err != nil {
		t.Fatalf("fnNodeName error: %v", err)
	}
	if seq.At(0).Atomic().StringValue() != "item" {
		t.Errorf("fn:node-name = %q, want item", seq.At(0).Atomic().StringValue())
	}
}

func TestFnDataAtomizesNode(t *testing.T) {
	node := fakeNode{typed: []atomic.Atomic{atomic.IntegerFromInt64(1), atomic.IntegerFromInt64(2)}}
	seq, err := fnData(Env{}, []sequence.Sequence{sequence.One(sequence.NodeItem(node))})
	if err != nil {
		t.Fatalf("fnData error: %v", err)
	}
	if seq.Len() != 2 {
		t.Errorf("fn:data(node) len = %d, want 2", seq.Len())
	}
}
