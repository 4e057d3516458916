package library

import (
	"testing"

	"xpath31/pkg/atomic"
	"xpath31/pkg/sequence"
)

func TestFnConcat(t *testing.T) {
	seq, err := fnConcat(Env{}, []sequence.Sequence{
		sequence.OneAtomic(atomic.String("foo")),
		sequence.OneAtomic(atomic.String("bar")),
	})
	if err != nil {
		t.Fatalf("fnConcat error: %v", err)
	}
	if got := seq.At(0).Atomic().StringValue(); got != "foobar" {
		t.Errorf("fn:concat('foo','bar') = %q, want foobar", got)
	}
}

func TestFnSubstringWithAndWithoutLength(t *testing.T) {
	seq, err := fnSubstring(Env{}, []sequence.Sequence{
		sequence.OneAtomic(atomic.String("motorcycle")),
		sequence.OneAtomic(atomic.IntegerFromInt64(6)),
	})
	if err != nil {
		t.Fatalf("fnSubstring error: %v", err)
	}
	if got := seq.At(0).Atomic().StringValue(); got != "cycle" {
		t.Errorf("fn:substring('motorcycle', 6) = %q, want cycle", got)
	}

	seq, err = fnSubstring(Env{}, []sequence.Sequence{
		sequence.OneAtomic(atomic.String("motorcycle")),
		sequence.OneAtomic(atomic.IntegerFromInt64(1)),
		sequence.OneAtomic(atomic.IntegerFromInt64(5)),
	})
	if err != nil {
		t.Fatalf("fnSubstring error: %v", err)
	}
	if got := seq.At(0).Atomic().StringValue(); got != "motor" {
		t.Errorf("fn:substring('motorcycle', 1, 5) = %q, want motor", got)
	}
}

func TestFnStringLengthCountsRunes(t *testing.T) {
	seq, err := fnStringLength(Env{}, []sequence.Sequence{sequence.OneAtomic(atomic.String("héllo"))})
	if err != nil {
		t.Fatalf("fnStringLength error: %v", err)
	}
	if got := seq.At(0).Atomic().IntegerValue().Int64(); got != 5 {
		t.Errorf("fn:string-length('héllo') = %d, want 5", got)
	}
}

func TestFnNormalizeSpaceCollapsesWhitespace(t *testing.T) {
	seq, err := fnNormalizeSpace(Env{}, []sequence.Sequence{sequence.OneAtomic(atomic.String("  a  b \t c "))})
	if err != nil {
		t.Fatalf("fnNormalizeSpace error: %v", err)
	}
	if got := seq.At(0).Atomic().StringValue(); got != "a b c" {
		t.Errorf("fn:normalize-space = %q, want %q", got, "a b c")
	}
}

func TestFnContainsStartsWithEndsWith(t *testing.T) {
	a := sequence.OneAtomic(atomic.String("xpath31"))
	if result, _ := fnContains(Env{}, []sequence.Sequence{a, sequence.OneAtomic(atomic.String("path"))}); !result.At(0).Atomic().BoolValue() {
		t.Error("fn:contains('xpath31', 'path') should be true")
	}
	if result, _ := fnStartsWith(Env{}, []sequence.Sequence{a, sequence.OneAtomic(atomic.String("xpath"))}); !result.At(0).Atomic().BoolValue() {
		t.Error("fn:starts-with('xpath31', 'xpath') should be true")
	}
	if result, _ := fnEndsWith(Env{}, []sequence.Sequence{a, sequence.OneAtomic(atomic.String("31"))}); !result.At(0).Atomic().BoolValue() {
		t.Error("fn:ends-with('xpath31', '31') should be true")
	}
}

func TestFnStringJoin(t *testing.T) {
	seq := sequence.Many([]sequence.Item{
		sequence.AtomicItem(atomic.String("a")),
		sequence.AtomicItem(atomic.String("b")),
		sequence.AtomicItem(atomic.String("c")),
	})
	out, err := fnStringJoin(Env{}, []sequence.Sequence{seq, sequence.OneAtomic(atomic.String("-"))})
	if err != nil {
		t.Fatalf("fnStringJoin error: %v", err)
	}
	if got := out.At(0).Atomic().StringValue(); got != "a-b-c" {
		t.Errorf("fn:string-join = %q, want a-b-c", got)
	}
}

func TestFnTokenizeSplitsOnLiteralSeparator(t *testing.T) {
	out, err := fnTokenize(Env{}, []sequence.Sequence{
		sequence.OneAtomic(atomic.String("a,b,,c")),
		sequence.OneAtomic(atomic.String(",")),
	})
	if err != nil {
		t.Fatalf("fnTokenize error: %v", err)
	}
	if out.Len() != 4 {
		t.Errorf("fn:tokenize('a,b,,c', ',') len = %d, want 4", out.Len())
	}
}

func TestFnTranslateMapsAndDeletes(t *testing.T) {
	out, err := fnTranslate(Env{}, []sequence.Sequence{
		sequence.OneAtomic(atomic.String("abcdef")),
		sequence.OneAtomic(atomic.String("abc")),
		sequence.OneAtomic(atomic.String("AB")),
	})
	if err != nil {
		t.Fatalf("fnTranslate error: %v", err)
	}
	if got := out.At(0).Atomic().StringValue(); got != "ABdef" {
		t.Errorf("fn:translate('abcdef','abc','AB') = %q, want ABdef", got)
	}
}
