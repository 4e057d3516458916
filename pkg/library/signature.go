package library

import (
	"fmt"
	"regexp"
	"strings"

	"xpath31/pkg/program"
)

// paramRe matches one "$name as type" parameter clause in a W3C-style
// function signature. Parameters without an explicit "as" clause are not
// supported; every built-in in this registry declares one (spec.md §4.6
// "parsed from a W3C-style string").
var paramRe = regexp.MustCompile(`\$[A-Za-z0-9_-]+\s+as\s+([A-Za-z0-9:().*+_-]+)`)

// sigRe splits "name(params) as returnType" into its parameter list and
// return type clause. The parameter list runs to the last ")" followed by
// "as", so parenthesized parameter types such as item() or map(*) stay
// inside it.
var sigRe = regexp.MustCompile(`^[A-Za-z0-9:_-]+\((.*)\)\s*as\s+(.+)$`)

// ParseSignature parses one function signature string into its parameter
// and return sequence types, checked once at registry construction time
// rather than on every call (spec.md §4.6 "each function's signature
// string is parsed once at registry construction").
func ParseSignature(sig string) ([]program.CastType, program.CastType, error) {
	m := sigRe.FindStringSubmatch(strings.TrimSpace(sig))
	if m == nil {
		return nil, program.CastType{}, fmt.Errorf("signature %q does not match \"name(params) as type\"", sig)
	}
	paramsPart, returnPart := m[1], m[2]

	var params []program.CastType
	if strings.TrimSpace(paramsPart) != "" {
		for _, pm := range paramRe.FindAllStringSubmatch(paramsPart, -1) {
			params = append(params, parseSequenceType(pm[1]))
		}
	}
	ret := parseSequenceType(returnPart)
	return params, ret, nil
}

// parseSequenceType parses one occurrence-suffixed type token ("xs:double?",
// "item()*", "xs:string", "empty-sequence()") into a program.CastType.
func parseSequenceType(tok string) program.CastType {
	tok = strings.TrimSpace(tok)
	occ := program.OccurrenceExactlyOne
	switch {
	case strings.HasSuffix(tok, "?"):
		occ = program.OccurrenceZeroOrOne
		tok = tok[:len(tok)-1]
	case strings.HasSuffix(tok, "*"):
		occ = program.OccurrenceZeroOrMore
		tok = tok[:len(tok)-1]
	case strings.HasSuffix(tok, "+"):
		occ = program.OccurrenceOneOrMore
		tok = tok[:len(tok)-1]
	}
	isSeqOf := strings.HasSuffix(tok, "()") && tok != "empty-sequence()"
	return program.CastType{AtomicKind: tok, Occurrence: occ, IsSequenceOf: isSeqOf}
}
