package library

import (
	"testing"

	"xpath31/pkg/atomic"
	"xpath31/pkg/sequence"
)

func TestFnNotInvertsEffectiveBooleanValue(t *testing.T) {
	seq, err := fnNot(Env{}, []sequence.Sequence{sequence.OneAtomic(atomic.Boolean(true))})
	if err != nil {
		t.Fatalf("fnNot error: %v", err)
	}
	if seq.At(0).Atomic().BoolValue() {
		t.Error("fn:not(true()) should be false")
	}
}

func TestFnBooleanOnEmptySequence(t *testing.T) {
	seq, err := fnBoolean(Env{}, []sequence.Sequence{sequence.Empty})
	if err != nil {
		t.Fatalf("fnBoolean error: %v", err)
	}
	if seq.At(0).Atomic().BoolValue() {
		t.Error("fn:boolean(()) should be false")
	}
}

func TestFnBooleanOnNonEmptyString(t *testing.T) {
	seq, err := fnBoolean(Env{}, []sequence.Sequence{sequence.OneAtomic(atomic.String("x"))})
	if err != nil {
		t.Fatalf("fnBoolean error: %v", err)
	}
	if !seq.At(0).Atomic().BoolValue() {
		t.Error("fn:boolean('x') should be true")
	}
}
