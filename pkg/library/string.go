package library

import (
	"strings"

	"xpath31/pkg/atomic"
	"xpath31/pkg/sequence"
	"xpath31/pkg/xdmerr"
)

// RegisterString registers the string built-ins (spec.md §4.6: concat,
// compare, substring, string-length, ...).
func RegisterString(r *Registry) {
	r.Register(FnNamespace, "concat", 2, "fn:concat($a1 as xs:anyAtomicType?, $a2 as xs:anyAtomicType?) as xs:string", KindPlain, fnConcat)
	r.Register(FnNamespace, "compare", 2, "fn:compare($a as xs:string?, $b as xs:string?) as xs:integer?", KindCollation, fnCompare)
	r.Register(FnNamespace, "compare", 3, "fn:compare($a as xs:string?, $b as xs:string?, $collation as xs:string) as xs:integer?", KindPlain, fnCompare)
	r.Register(FnNamespace, "substring", 2, "fn:substring($s as xs:string?, $start as xs:double) as xs:string", KindPlain, fnSubstring)
	r.Register(FnNamespace, "substring", 3, "fn:substring($s as xs:string?, $start as xs:double, $len as xs:double) as xs:string", KindPlain, fnSubstring)
	r.Register(FnNamespace, "string-length", 1, "fn:string-length($arg as xs:string?) as xs:integer", KindPlain, fnStringLength)
	r.Register(FnNamespace, "string-length", 0, "fn:string-length() as xs:integer", KindItemFirst, fnStringLength)
	r.Register(FnNamespace, "upper-case", 1, "fn:upper-case($arg as xs:string?) as xs:string", KindPlain, fnCaseFn(strings.ToUpper))
	r.Register(FnNamespace, "lower-case", 1, "fn:lower-case($arg as xs:string?) as xs:string", KindPlain, fnCaseFn(strings.ToLower))
	r.Register(FnNamespace, "normalize-space", 1, "fn:normalize-space($arg as xs:string?) as xs:string", KindPlain, fnNormalizeSpace)
	r.Register(FnNamespace, "normalize-space", 0, "fn:normalize-space() as xs:string", KindItemFirst, fnNormalizeSpace)
	r.Register(FnNamespace, "contains", 2, "fn:contains($a as xs:string?, $b as xs:string?) as xs:boolean", KindCollation, fnContains)
	r.Register(FnNamespace, "starts-with", 2, "fn:starts-with($a as xs:string?, $b as xs:string?) as xs:boolean", KindCollation, fnStartsWith)
	r.Register(FnNamespace, "ends-with", 2, "fn:ends-with($a as xs:string?, $b as xs:string?) as xs:boolean", KindCollation, fnEndsWith)
	r.Register(FnNamespace, "string-join", 2, "fn:string-join($args as xs:string*, $sep as xs:string) as xs:string", KindPlain, fnStringJoin)
	r.Register(FnNamespace, "string-join", 1, "fn:string-join($args as xs:string*) as xs:string", KindPlain, fnStringJoin)
	r.Register(FnNamespace, "tokenize", 2, "fn:tokenize($arg as xs:string?, $pattern as xs:string) as xs:string*", KindPlain, fnTokenize)
	r.Register(FnNamespace, "translate", 3, "fn:translate($arg as xs:string?, $map as xs:string, $trans as xs:string) as xs:string", KindPlain, fnTranslate)
}

func fnConcat(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	var b strings.Builder
	for i := range args {
		a, ok, err := optionalAtomic(args, i)
		if err != nil {
			return sequence.Empty, err
		}
		if ok {
			b.WriteString(a.String())
		}
	}
	return one(atomic.String(b.String()))
}

func fnCompare(env Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	a, aok, err := optionalAtomic(args, 0)
	if err != nil {
		return sequence.Empty, err
	}
	b, bok, err := optionalAtomic(args, 1)
	if err != nil {
		return sequence.Empty, err
	}
	if !aok || !bok {
		return sequence.Empty, nil
	}
	collator := env.Collation
	if collator == nil {
		collator = atomic.DefaultCollator
	}
	c := collator.Compare(a.StringValue(), b.StringValue())
	return one(atomic.IntegerFromInt64(int64(c)))
}

func fnSubstring(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	s, ok, err := optionalAtomic(args, 0)
	if err != nil {
		return sequence.Empty, err
	}
	if !ok {
		return one(atomic.String(""))
	}
	runes := []rune(s.StringValue())
	startArg, serr := requiredAtomic(args, 1)
	if serr != nil {
		return sequence.Empty, serr
	}
	startD, derr := startArg.CastToDouble()
	if derr != nil {
		return sequence.Empty, derr
	}
	start := roundHalfUp(startD.DoubleValue(), 0)

	length := float64(len(runes)) - start + 1
	if len(args) > 2 {
		lenArg, lerr := requiredAtomic(args, 2)
		if lerr != nil {
			return sequence.Empty, lerr
		}
		lenD, lderr := lenArg.CastToDouble()
		if lderr != nil {
			return sequence.Empty, lderr
		}
		length = roundHalfUp(lenD.DoubleValue(), 0)
	}

	lo := int(start)
	hi := lo + int(length)
	if lo < 1 {
		lo = 1
	}
	if hi > len(runes)+1 {
		hi = len(runes) + 1
	}
	if hi <= lo {
		return one(atomic.String(""))
	}
	return one(atomic.String(string(runes[lo-1 : hi-1])))
}

func fnStringLength(env Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	s, err := optionalStringOrContext(env, args, 0)
	if err != nil {
		return sequence.Empty, err
	}
	return one(atomic.IntegerFromInt64(int64(len([]rune(s)))))
}

func fnCaseFn(transform func(string) string) Callable {
	return func(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
		a, ok, err := optionalAtomic(args, 0)
		if err != nil {
			return sequence.Empty, err
		}
		if !ok {
			return one(atomic.String(""))
		}
		return one(atomic.String(transform(a.StringValue())))
	}
}

func fnNormalizeSpace(env Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	s, err := optionalStringOrContext(env, args, 0)
	if err != nil {
		return sequence.Empty, err
	}
	return one(atomic.String(strings.Join(strings.Fields(s), " ")))
}

func fnContains(env Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	return stringPredicate(env, args, strings.Contains)
}

func fnStartsWith(env Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	return stringPredicate(env, args, strings.HasPrefix)
}

func fnEndsWith(env Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	return stringPredicate(env, args, strings.HasSuffix)
}

func stringPredicate(_ Env, args []sequence.Sequence, pred func(s, substr string) bool) (sequence.Sequence, *xdmerr.Error) {
	a, _, err := optionalAtomic(args, 0)
	if err != nil {
		return sequence.Empty, err
	}
	b, ok, berr := optionalAtomic(args, 1)
	if berr != nil {
		return sequence.Empty, berr
	}
	if !ok {
		return one(atomic.Boolean(true))
	}
	return one(atomic.Boolean(pred(a.StringValue(), b.StringValue())))
}

func fnStringJoin(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	items, err := args[0].Items()
	if err != nil {
		return sequence.Empty, err
	}
	sep := ""
	if len(args) > 1 {
		sep, err = requiredString(args, 1)
		if err != nil {
			return sequence.Empty, err
		}
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it.Atomic().String()
	}
	return one(atomic.String(strings.Join(parts, sep)))
}

func fnTokenize(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	s, ok, err := optionalAtomic(args, 0)
	if err != nil {
		return sequence.Empty, err
	}
	if !ok {
		return sequence.Empty, nil
	}
	pattern, perr := requiredString(args, 1)
	if perr != nil {
		return sequence.Empty, perr
	}
	// A representative subset: only a literal-string separator is
	// supported, not the full XPath regular-expression dialect (out of
	// scope per spec.md §1 Non-goals' schema/validation boundary).
	parts := strings.Split(s.StringValue(), pattern)
	items := make([]sequence.Item, len(parts))
	for i, p := range parts {
		items[i] = sequence.AtomicItem(atomic.String(p))
	}
	return sequence.Many(items), nil
}

func fnTranslate(_ Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error) {
	s, ok, err := optionalAtomic(args, 0)
	if err != nil {
		return sequence.Empty, err
	}
	if !ok {
		return one(atomic.String(""))
	}
	mapStr, merr := requiredString(args, 1)
	if merr != nil {
		return sequence.Empty, merr
	}
	transStr, terr := requiredString(args, 2)
	if terr != nil {
		return sequence.Empty, terr
	}
	mapRunes := []rune(mapStr)
	transRunes := []rune(transStr)
	var b strings.Builder
	for _, r := range s.StringValue() {
		idx := -1
		for i, m := range mapRunes {
			if m == r {
				idx = i
				break
			}
		}
		switch {
		case idx == -1:
			b.WriteRune(r)
		case idx < len(transRunes):
			b.WriteRune(transRunes[idx])
		}
	}
	return one(atomic.String(b.String()))
}
