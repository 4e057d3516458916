// Package library is the built-in function registry (spec.md §4.6):
// static descriptors name, typecheck, and dispatch every fn:/map:/array:
// function the compiler can resolve a call against. The registry pattern
// (a name-keyed map behind a small mutex, grouped registration functions
// per category, looked up by the caller rather than switched on inline)
// is grounded directly on go-dws's internal/interp/builtins.Registry,
// generalized from DWScript's flat case-insensitive name space to
// XPath's (namespace, local-name, arity) resolution key (spec.md §4.6,
// §4.7 "resolve function by (namespace, local, arity)").
package library

import (
	"sync"
	"time"

	"xpath31/pkg/atomic"
	"xpath31/pkg/program"
	"xpath31/pkg/sequence"
	"xpath31/pkg/xdmerr"
)

// Kind hints how the compiler should bind a call site with one fewer
// argument than the function's declared arity (spec.md §4.6).
type Kind byte

const (
	KindPlain            Kind = iota
	KindItemFirst              // context item injected as the first argument
	KindItemLast               // context item injected as the last argument
	KindItemLastOptional       // like ItemLast, but the call is also valid with it present
	KindPosition               // receives the dynamic context position
	KindSize                   // receives the dynamic context size
	KindCollation              // receives the default collation when omitted
)

// Env carries the context-sensitive values a library function may need:
// the ambient focus (context item/position/size) and the in-scope
// default collation. Every Callable receives one, even when it ignores
// it, so the registry's call signature never has to vary by Kind — the
// interpreter (not this package) is responsible for populating Env from
// its live Focus before invoking a KindItemFirst/Position/Size/Collation
// function called with one fewer argument than its declared arity.
type Env struct {
	ContextItem    sequence.Item
	HasContextItem bool
	Position       int
	Size           int
	Collation      atomic.Collator

	// Invoke calls a dynamic function item with the given arguments. It is
	// supplied by the interpreter (the only layer that can run bytecode),
	// letting the higher-order built-ins (fn:for-each, fn:filter, ...) stay
	// in this package without internal/compiler or internal/interp ever
	// needing to import library for anything but Lookup/Register.
	Invoke func(fn sequence.Item, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error)

	// Now is the implementation-defined current dateTime (spec.md §4.7):
	// fn:current-date/-dateTime/-time must return the same instant for
	// every call within one evaluation, so the interpreter stamps this
	// once per DynamicContext rather than each fn:current-* call reading
	// the system clock. The zero value means "no stamp supplied"; the
	// current-* functions fall back to time.Now() so this package's own
	// tests don't need to thread a fake clock through Env.
	Now time.Time

	// ImplicitTimezoneMinutes is the dynamic context's implicit timezone, in
	// minutes east of UTC, that built-ins use to normalize offset-naive
	// temporal comparisons (spec.md §4.1, §9 Design Notes).
	ImplicitTimezoneMinutes int32
}

// Callable is a built-in function's implementation.
type Callable func(env Env, args []sequence.Sequence) (sequence.Sequence, *xdmerr.Error)

// Key identifies one registered function overload.
type Key struct {
	Namespace string
	Local     string
	Arity     int
}

// Descriptor is one registered function overload's static metadata
// (spec.md §4.6): its resolution key, signature (parsed once at
// registration), context-binding hint, and implementation.
type Descriptor struct {
	Key        Key
	Signature  string
	ParamTypes []program.CastType
	ReturnType program.CastType
	FuncKind   Kind
	Fn         Callable
}

// Registry holds every registered function overload, keyed by its full
// resolution triple, matching go-dws's builtins.Registry shape (a plain
// map behind an RWMutex, grouped Register* population functions).
type Registry struct {
	mu    sync.RWMutex
	funcs map[Key]*Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: map[Key]*Descriptor{}}
}

// Register parses sig once and adds the descriptor, panicking on a
// malformed signature string — malformed built-in signatures are a
// programming error in this package, not a runtime condition (mirrors
// go-dws's RegisterAll, which panics on setup misconfiguration rather
// than propagating an error from package init).
func (r *Registry) Register(ns, local string, arity int, sig string, kind Kind, fn Callable) {
	params, ret, err := ParseSignature(sig)
	if err != nil {
		panic("library: malformed signature for " + ns + ":" + local + ": " + err.Error())
	}
	key := Key{Namespace: ns, Local: local, Arity: arity}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[key] = &Descriptor{
		Key:        key,
		Signature:  sig,
		ParamTypes: params,
		ReturnType: ret,
		FuncKind:   kind,
		Fn:         fn,
	}
}

// Lookup resolves a function by its full (namespace, local, arity) key.
func (r *Registry) Lookup(ns, local string, arity int) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.funcs[Key{Namespace: ns, Local: local, Arity: arity}]
	return d, ok
}

// Arities returns every arity registered for (ns, local), ascending,
// letting the compiler find a context-injected match when a call site
// supplies one fewer argument than any registered overload.
func (r *Registry) Arities(ns, local string) []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []int
	for k := range r.funcs {
		if k.Namespace == ns && k.Local == local {
			out = append(out, k.Arity)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// FnNamespace is the standard XPath function namespace URI.
const FnNamespace = "http://www.w3.org/2005/xpath-functions"

// MapNamespace is the XDM map function namespace URI.
const MapNamespace = "http://www.w3.org/2005/xpath-functions/map"

// ArrayNamespace is the XDM array function namespace URI.
const ArrayNamespace = "http://www.w3.org/2005/xpath-functions/array"

// DefaultRegistry is populated with every group this package implements.
var DefaultRegistry = buildDefaultRegistry()

func buildDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterAccessors(r)
	RegisterBoolean(r)
	RegisterNumeric(r)
	RegisterString(r)
	RegisterSequenceOps(r)
	RegisterHigherOrder(r)
	RegisterMapFunctions(r)
	RegisterArrayFunctions(r)
	RegisterDateTime(r)
	RegisterDuration(r)
	RegisterURI(r)
	RegisterErrorAndID(r)
	return r
}
