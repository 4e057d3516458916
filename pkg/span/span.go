// Package span carries source positions through the compiler and interpreter
// so that runtime and compile-time errors can point back at the expression
// text that produced them.
package span

import "fmt"

// Position is a single point in source text.
type Position struct {
	Line   int // 1-based
	Column int // 1-based, in runes
	Offset int // 0-based byte offset
}

// String renders the position as "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a half-open source range [Start, End). The zero Span has no
// meaningful position and is used for synthesized instructions that have no
// direct source counterpart (e.g. implicit atomization).
type Span struct {
	Start Position
	End   Position
}

// IsZero reports whether the span carries no position information.
func (s Span) IsZero() bool {
	return s == Span{}
}

// String renders the span as "start-end".
func (s Span) String() string {
	if s.IsZero() {
		return "<unknown>"
	}
	if s.Start == s.End {
		return s.Start.String()
	}
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// Cover returns the smallest span containing both a and b. A zero span is
// treated as an identity element so callers can fold spans without special
// casing the first element.
func Cover(a, b Span) Span {
	if a.IsZero() {
		return b
	}
	if b.IsZero() {
		return a
	}
	start := a.Start
	if less(b.Start, start) {
		start = b.Start
	}
	end := a.End
	if less(end, b.End) {
		end = b.End
	}
	return Span{Start: start, End: end}
}

func less(a, b Position) bool {
	return a.Offset < b.Offset
}
