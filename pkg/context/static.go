// Package context builds the static and dynamic contexts the compiler and
// interpreter consume (spec.md §4.7), modeled on go-dws's
// internal/interp/runtime.Environment for the name-to-binding lookup shape,
// generalized to XPath's namespace/collation/function-resolution surface
// and to the StaticContext/DynamicContext split XPath's spec draws between
// compile-time and run-time state.
package context

import (
	"fmt"

	"xpath31/pkg/atomic"
	"xpath31/pkg/collation"
	"xpath31/pkg/program"
	"xpath31/pkg/sequence"
)

// VarDecl is a static variable declaration: a name plus an optional
// default value (an already-evaluated sequence), per SPEC_FULL.md's supplement
// from xee-interpreter's declaration/decl.rs ("declarations carry an
// optional default value").
type VarDecl struct {
	Name         string
	DefaultValue sequence.Sequence
	HasDefault   bool
}

// FuncKey identifies a statically registered function by its resolution
// triple (spec.md §4.6).
type FuncKey struct {
	Namespace string
	Local     string
	Arity     int
}

// FuncDecl pairs a function's resolution key with its compiled body, for
// functions declared directly in the static context (as opposed to the
// pkg/library registry, which StaticContext also consults).
type FuncDecl struct {
	Key  FuncKey
	Body *program.InlineFunction
}

// StaticContext is the compiler's view of everything resolvable without a
// dynamic context: namespace prefixes, declared variables and functions,
// the default collation, the implicit timezone, and the default element/
// function namespaces (spec.md §4.7).
type StaticContext struct {
	namespaces            map[string]string // prefix -> namespace URI
	variables             map[string]VarDecl
	functions             map[FuncKey]FuncDecl
	defaultCollation      string
	implicitTimezone      atomic.Duration
	hasImplicitTimezone   bool
	defaultElementNS      string
	defaultFunctionNS     string
}

// StaticContextBuilder accumulates the inputs StaticContext is built from,
// mirroring the builder shape spec.md §4.7 specifies ("produced by a
// builder that consumes...").
type StaticContextBuilder struct {
	ctx StaticContext
}

// NewStaticContextBuilder starts from an empty context with the codepoint
// collation as the default (spec.md §4.1).
func NewStaticContextBuilder() *StaticContextBuilder {
	return &StaticContextBuilder{ctx: StaticContext{
		namespaces:       map[string]string{},
		variables:        map[string]VarDecl{},
		functions:        map[FuncKey]FuncDecl{},
		defaultCollation: collation.CodepointURI,
	}}
}

// Namespace registers a prefix-to-URI binding.
func (b *StaticContextBuilder) Namespace(prefix, uri string) *StaticContextBuilder {
	b.ctx.namespaces[prefix] = uri
	return b
}

// Variable declares a variable name, optionally with a default value.
func (b *StaticContextBuilder) Variable(name string, def VarDecl) *StaticContextBuilder {
	def.Name = name
	b.ctx.variables[name] = def
	return b
}

// Function registers a statically declared function body.
func (b *StaticContextBuilder) Function(key FuncKey, fn *program.InlineFunction) *StaticContextBuilder {
	b.ctx.functions[key] = FuncDecl{Key: key, Body: fn}
	return b
}

// DefaultCollation sets the default collation URI.
func (b *StaticContextBuilder) DefaultCollation(uri string) *StaticContextBuilder {
	b.ctx.defaultCollation = uri
	return b
}

// ImplicitTimezone sets the implicit timezone used when a datetime value
// has none of its own.
func (b *StaticContextBuilder) ImplicitTimezone(d atomic.Duration) *StaticContextBuilder {
	b.ctx.implicitTimezone = d
	b.ctx.hasImplicitTimezone = true
	return b
}

// DefaultElementNamespace sets the namespace unprefixed element/type names
// resolve against.
func (b *StaticContextBuilder) DefaultElementNamespace(uri string) *StaticContextBuilder {
	b.ctx.defaultElementNS = uri
	return b
}

// DefaultFunctionNamespace sets the namespace unprefixed function calls
// resolve against.
func (b *StaticContextBuilder) DefaultFunctionNamespace(uri string) *StaticContextBuilder {
	b.ctx.defaultFunctionNS = uri
	return b
}

// Build finalizes the StaticContext.
func (b *StaticContextBuilder) Build() *StaticContext {
	ctx := b.ctx
	return &ctx
}

// ResolvePrefix looks up a namespace prefix.
func (c *StaticContext) ResolvePrefix(prefix string) (string, bool) {
	uri, ok := c.namespaces[prefix]
	return uri, ok
}

// ResolveVariable looks up a declared variable by name.
func (c *StaticContext) ResolveVariable(name string) (VarDecl, bool) {
	decl, ok := c.variables[name]
	return decl, ok
}

// ResolveFunction looks up a statically declared function by its full key.
func (c *StaticContext) ResolveFunction(ns, local string, arity int) (FuncDecl, bool) {
	decl, ok := c.functions[FuncKey{Namespace: ns, Local: local, Arity: arity}]
	return decl, ok
}

// ResolveCollation resolves a collation URI ("" resolves to the default).
func (c *StaticContext) ResolveCollation(uri string) (collation.Collation, error) {
	if uri == "" {
		uri = c.defaultCollation
	}
	coll, xerr := collation.Resolve(uri)
	if xerr != nil {
		return nil, fmt.Errorf("%s: %s", xerr.Code, xerr.Message)
	}
	return coll, nil
}

// ResolveCastTarget resolves an atomic type name ("xs:integer", ...)
// against the in-scope namespaces, returning the canonical name the
// compiler embeds into a program.CastType.
func (c *StaticContext) ResolveCastTarget(qname string) (string, bool) {
	// Atomic type names live in the built-in xs: namespace; this engine
	// does not support schema-defined atomic types (spec.md §1 Non-goal:
	// schema-aware typing), so resolution is a pass-through validity
	// check rather than a namespace lookup.
	if qname == "" {
		return "", false
	}
	return qname, true
}

// DefaultCollation returns the default collation URI.
func (c *StaticContext) DefaultCollation() string { return c.defaultCollation }

// ImplicitTimezone returns the statically configured implicit timezone,
// if any.
func (c *StaticContext) ImplicitTimezone() (atomic.Duration, bool) {
	return c.implicitTimezone, c.hasImplicitTimezone
}

// DefaultElementNamespace returns the default element/type namespace.
func (c *StaticContext) DefaultElementNamespace() string { return c.defaultElementNS }

// DefaultFunctionNamespace returns the default function namespace.
func (c *StaticContext) DefaultFunctionNamespace() string { return c.defaultFunctionNS }
