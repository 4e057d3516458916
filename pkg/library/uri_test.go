package library

import (
	"testing"

	"xpath31/pkg/atomic"
	"xpath31/pkg/sequence"
)

func TestFnEncodeForURIEscapesReservedCharacters(t *testing.T) {
	out, err := uriEscaper(isEncodeForURIUnreserved)(Env{}, []sequence.Sequence{sequence.OneAtomic(atomic.String("a b/c"))})
	if err != nil {
		t.Fatalf("fn:encode-for-uri error: %v", err)
	}
	if got := out.At(0).Atomic().StringValue(); got != "a%20b%2Fc" {
		t.Errorf("fn:encode-for-uri('a b/c') = %q, want a%%20b%%2Fc", got)
	}
}

func TestFnIriToUriPreservesSlashes(t *testing.T) {
	out, err := uriEscaper(isIRIUnreserved)(Env{}, []sequence.Sequence{sequence.OneAtomic(atomic.String("http://example.com/a b"))})
	if err != nil {
		t.Fatalf("fn:iri-to-uri error: %v", err)
	}
	if got := out.At(0).Atomic().StringValue(); got != "http://example.com/a%20b" {
		t.Errorf("fn:iri-to-uri(...) = %q, want slashes preserved and space escaped", got)
	}
}

func TestFnEscapeHtmlUriOnlyEscapesControls(t *testing.T) {
	out, err := uriEscaper(isNotControl)(Env{}, []sequence.Sequence{sequence.OneAtomic(atomic.String("a b<c>"))})
	if err != nil {
		t.Fatalf("fn:escape-html-uri error: %v", err)
	}
	if got := out.At(0).Atomic().StringValue(); got != "a b<c>" {
		t.Errorf("fn:escape-html-uri('a b<c>') = %q, want unchanged (no control chars)", got)
	}
}

func TestUriEscaperOnEmptySequenceReturnsEmptyString(t *testing.T) {
	out, err := uriEscaper(isEncodeForURIUnreserved)(Env{}, []sequence.Sequence{sequence.Empty})
	if err != nil {
		t.Fatalf("uriEscaper error: %v", err)
	}
	if out.At(0).Atomic().StringValue() != "" {
		t.Errorf("uriEscaper(()) = %q, want empty string", out.At(0).Atomic().StringValue())
	}
}
