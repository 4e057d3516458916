// Package collation resolves XPath collation URIs to string comparers. The
// default "codepoint" collation compares raw Unicode code points; any other
// URI is resolved to a locale via golang.org/x/text/language and compared
// with golang.org/x/text/collate, mirroring how go-dws's internal/units
// package wraps a stdlib concept (time.Duration) behind a small typed API
// rather than scattering raw comparisons through the interpreter.
package collation

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"xpath31/pkg/atomic"
	"xpath31/pkg/xdmerr"
)

// CodepointURI is the well-known identity collation every XPath processor
// must support (spec.md §4.1).
const CodepointURI = "http://www.w3.org/2005/xpath-functions/collation/codepoint"

// Collation compares and orders strings under some collation. It implements
// atomic.Collator so it can be passed directly to the value-comparison
// operators.
type Collation interface {
	atomic.Collator
	URI() string
}

type codepointCollation struct{}

func (codepointCollation) URI() string { return CodepointURI }

func (codepointCollation) Compare(a, b string) int { return strings.Compare(a, b) }

// Codepoint is the default collation.
var Codepoint Collation = codepointCollation{}

type localeCollation struct {
	uri string
	c   *collate.Collator
}

func (l *localeCollation) URI() string { return l.uri }

func (l *localeCollation) Compare(a, b string) int { return l.c.CompareString(a, b) }

// Resolve maps a collation URI to a Collation. The empty URI and exactly
// CodepointURI resolve to Codepoint; a bare BCP 47 language tag (e.g. "de", "sv") resolves to a
// golang.org/x/text/collate collator for that locale; anything else is an
// unsupported-collation error (FOCH0002 is not in this module's error
// surface, so this surfaces as InvalidArgumentf per spec.md §4.1's
// "unrecognized collation" case).
func Resolve(uri string) (Collation, *xdmerr.Error) {
	if uri == "" || uri == CodepointURI {
		return Codepoint, nil
	}
	tag, err := language.Parse(uri)
	if err != nil {
		return nil, xdmerr.InvalidArgumentf("unsupported collation %q: %s", uri, err)
	}
	return &localeCollation{uri: uri, c: collate.New(tag)}, nil
}
