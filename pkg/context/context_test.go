package context

import (
	"testing"

	"xpath31/pkg/atomic"
	"xpath31/pkg/collation"
	"xpath31/pkg/sequence"
)

func TestStaticContextBuilderResolvesNamespaceAndVariable(t *testing.T) {
	sc := NewStaticContextBuilder().
		Namespace("fn", "http://www.w3.org/2005/xpath-functions").
		Variable("greeting", VarDecl{
			DefaultValue: sequence.OneAtomic(atomic.String("hello")),
			HasDefault:   true,
		}).
		Build()

	uri, ok := sc.ResolvePrefix("fn")
	if !ok || uri != "http://www.w3.org/2005/xpath-functions" {
		t.Errorf("ResolvePrefix(fn) = (%q, %v)", uri, ok)
	}

	decl, ok := sc.ResolveVariable("greeting")
	if !ok || !decl.HasDefault {
		t.Fatal("ResolveVariable(greeting) should find a declaration with a default")
	}
	if decl.DefaultValue.At(0).Atomic().StringValue() != "hello" {
		t.Errorf("default value = %v, want hello", decl.DefaultValue.At(0).Atomic())
	}
}

func TestStaticContextDefaultCollationIsCodepoint(t *testing.T) {
	sc := NewStaticContextBuilder().Build()
	if sc.DefaultCollation() != collation.CodepointURI {
		t.Errorf("DefaultCollation() = %q, want codepoint URI", sc.DefaultCollation())
	}
	coll, err := sc.ResolveCollation("")
	if err != nil {
		t.Fatalf("ResolveCollation(\"\") error = %v", err)
	}
	if coll.URI() != collation.CodepointURI {
		t.Errorf("resolved collation URI = %q, want codepoint URI", coll.URI())
	}
}

func TestStaticContextResolveFunction(t *testing.T) {
	sc := NewStaticContextBuilder().Build()
	if _, ok := sc.ResolveFunction("http://example.com", "missing", 1); ok {
		t.Error("ResolveFunction should report not-found for an unregistered key")
	}
}

func TestDynamicContextBuilderRoundTrip(t *testing.T) {
	item := sequence.AtomicItem(atomic.IntegerFromInt64(7))
	dc := NewDynamicContextBuilder().
		ContextItem(item).
		Variable("x", sequence.OneAtomic(atomic.IntegerFromInt64(1))).
		ImplicitTimezone(60).
		Build()

	got, ok := dc.ContextItem()
	if !ok || got.Atomic().IntegerValue().Int64() != 7 {
		t.Errorf("ContextItem() = (%v, %v)", got, ok)
	}

	v, ok := dc.Variable("x")
	if !ok || v.At(0).Atomic().IntegerValue().Int64() != 1 {
		t.Errorf("Variable(x) = (%v, %v)", v, ok)
	}

	tz, ok := dc.ImplicitTimezone()
	if !ok || tz != 60 {
		t.Errorf("ImplicitTimezone() = (%d, %v), want (60, true)", tz, ok)
	}
}

func TestFocusTriple(t *testing.T) {
	seq := sequence.Many([]sequence.Item{
		sequence.AtomicItem(atomic.IntegerFromInt64(10)),
		sequence.AtomicItem(atomic.IntegerFromInt64(20)),
		sequence.AtomicItem(atomic.IntegerFromInt64(30)),
	})
	f := NewFocus(seq, 2)
	if f.Position != 2 || f.Size != 3 {
		t.Errorf("Focus = %+v, want Position=2 Size=3", f)
	}
	if f.Item.Atomic().IntegerValue().Int64() != 20 {
		t.Errorf("Focus.Item = %v, want 20", f.Item.Atomic())
	}
}
