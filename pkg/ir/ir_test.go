package ir

import (
	"testing"

	"xpath31/pkg/atomic"
	"xpath31/pkg/program"
	"xpath31/pkg/span"
)

func TestLiteralString(t *testing.T) {
	lit := NewLiteral(span.Span{}, atomic.IntegerFromInt64(42))
	if lit.String() != "42" {
		t.Errorf("String() = %q, want %q", lit.String(), "42")
	}
	if !lit.Span().IsZero() {
		t.Error("zero span should report IsZero() == true")
	}
}

func TestBinaryString(t *testing.T) {
	left := NewVarRef(span.Span{}, "x")
	right := NewLiteral(span.Span{}, atomic.IntegerFromInt64(1))
	bin := NewBinary(span.Span{}, OpPlus, left, right)
	want := "($x + 1)"
	if bin.String() != want {
		t.Errorf("String() = %q, want %q", bin.String(), want)
	}
}

func TestLetBody(t *testing.T) {
	let := NewLet(span.Span{}, []LetBinding{
		{Name: "x", Value: NewLiteral(span.Span{}, atomic.IntegerFromInt64(1))},
	}, NewVarRef(span.Span{}, "x"))
	want := "let $x := 1 return $x"
	if let.String() != want {
		t.Errorf("String() = %q, want %q", let.String(), want)
	}
}

func TestForRendersBindingAndBody(t *testing.T) {
	f := NewFor(span.Span{}, []ForBinding{
		{Name: "i", Source: NewRangeExpr(span.Span{}, NewLiteral(span.Span{}, atomic.IntegerFromInt64(1)), NewLiteral(span.Span{}, atomic.IntegerFromInt64(3)))},
	}, NewVarRef(span.Span{}, "i"))
	want := "for $i in 1 to 3 return $i"
	if f.String() != want {
		t.Errorf("String() = %q, want %q", f.String(), want)
	}
}

func TestPathExprRendersSteps(t *testing.T) {
	p := NewPathExpr(span.Span{}, nil, []Step{
		{Axis: program.StepChild, Test: NodeTest{Name: "a"}},
		{Axis: program.StepChild, Test: NodeTest{Name: "b"}},
	})
	want := "/a/b"
	if p.String() != want {
		t.Errorf("String() = %q, want %q", p.String(), want)
	}
}

func TestCallRendersArgs(t *testing.T) {
	c := NewCall(span.Span{}, "fn:concat", nil, []Expr{
		NewLiteral(span.Span{}, atomic.String("a")),
		NewLiteral(span.Span{}, atomic.String("b")),
	})
	want := `fn:concat("a", "b")`
	if c.String() != want {
		t.Errorf("String() = %q, want %q", c.String(), want)
	}
}

func TestCoreExprKindsRenderWithoutPanicking(t *testing.T) {
	sp := span.Span{}
	exprs := []Expr{
		NewLiteral(sp, atomic.IntegerFromInt64(1)),
		NewEmptySequence(sp),
		NewVarRef(sp, "x"),
		NewBinary(sp, OpPlus, NewVarRef(sp, "x"), NewVarRef(sp, "y")),
		NewNot(sp, NewVarRef(sp, "x")),
		NewNegate(sp, NewVarRef(sp, "x")),
		NewIf(sp, NewVarRef(sp, "x"), NewVarRef(sp, "y"), NewEmptySequence(sp)),
		NewContextItemExpr(sp),
	}
	for _, e := range exprs {
		if e.String() == "" {
			t.Errorf("%T.String() returned empty", e)
		}
	}
}
