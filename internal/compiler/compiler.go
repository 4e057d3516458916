// Package compiler lowers pkg/ir expression trees into a pkg/program
// Program of bytecode chunks (spec.md §4.5). Its structure is grounded
// directly on go-dws's internal/bytecode.Compiler: one Compiler value per
// function body (the top-level expression counts as one), a stack of
// lexically-scoped locals tracked by depth, upvalues resolved lazily by
// walking the enclosing-compiler chain, and a shared root holding the
// global variable table and the flat function list every nested compiler
// appends into — the same separation go-dws draws between a compiler's
// own per-function state (locals, scope depth, loop stack) and the state
// shared across an entire compilation (globals, the function table).
//
// The interpreter's value stack holds sequence.Sequence values rather
// than bare Items: every XPath sub-expression denotes a (possibly empty)
// sequence, so representing the stack that way lets every binary
// operator do its single-item unwrap once, at the operator, instead of
// threading a parallel "is this one item or a sequence" distinction
// through the whole instruction set.
package compiler

import (
	"strings"

	"xpath31/internal/bytecode"
	"xpath31/pkg/context"
	"xpath31/pkg/ir"
	"xpath31/pkg/library"
	"xpath31/pkg/program"
	"xpath31/pkg/span"
	"xpath31/pkg/xdmerr"
)

// local is one in-scope let/for/quantified/parameter binding.
type local struct {
	name  string
	depth int
	slot  uint16
}

// upvalueRef is one free variable a function closes over, resolved at
// compile time against the enclosing compiler chain (mirrors go-dws's
// Compiler.upvalues).
type upvalueRef struct {
	name    string
	index   uint16
	isLocal bool
}

// rootState is shared by every Compiler in one compilation: the static
// context and registry calls resolve against, the flat function table
// every nested function appends itself to, and the name-to-slot table for
// global (context-declared or enclosing-scope-free) variables.
type rootState struct {
	staticCtx   *context.StaticContext
	registry    *library.Registry
	functions   []*program.InlineFunction
	globalIdx   map[string]uint16
	globalNames []string

	// declFuncIdx memoizes which Functions table index a StaticContext
	// FuncDecl was placed at, so calling the same declared function twice
	// doesn't duplicate its InlineFunction in the table.
	declFuncIdx map[*program.InlineFunction]int
}

func (r *rootState) globalSlot(name string) uint16 {
	if idx, ok := r.globalIdx[name]; ok {
		return idx
	}
	idx := uint16(len(r.globalNames))
	r.globalIdx[name] = idx
	r.globalNames = append(r.globalNames, name)
	return idx
}

func (r *rootState) addFunction(fn *program.InlineFunction) int {
	r.functions = append(r.functions, fn)
	return len(r.functions) - 1
}

// programFunctionIndex returns fn's slot in the flat function table,
// placing it on first use so a statically declared function called from
// several sites compiles into the table only once.
func (r *rootState) programFunctionIndex(fn *program.InlineFunction) int {
	if idx, ok := r.declFuncIdx[fn]; ok {
		return idx
	}
	idx := r.addFunction(fn)
	r.declFuncIdx[fn] = idx
	return idx
}

// Compiler compiles one function body (an inline-function-expression or
// the top-level expression) into a bytecode.Chunk.
type Compiler struct {
	root      *rootState
	enclosing *Compiler

	chunk      *bytecode.Chunk
	locals     []local
	scopeDepth int
	nextSlot   uint16
	maxSlot    uint16
	upvalues   []upvalueRef

	steps       []program.Step
	castTypes   []program.CastType
	callTargets []program.CallTarget

	name       string
	paramNames []string
}

// Compile lowers expr into a runnable Program, resolving free functions
// against registry and static against staticCtx (spec.md §4.5, §4.7).
// Compile errors abort without producing a Program (a partially compiled
// Program is never returned, matching go-dws's Compile returning (nil,
// err) on any failure).
func Compile(expr ir.Expr, staticCtx *context.StaticContext, registry *library.Registry) (*program.Program, *xdmerr.Error) {
	root := &rootState{
		staticCtx:   staticCtx,
		registry:    registry,
		globalIdx:   map[string]uint16{},
		declFuncIdx: map[*program.InlineFunction]int{},
	}
	c := newCompiler(root, nil, "", nil)
	if err := c.compileExpr(expr); err != nil {
		return nil, err
	}
	c.chunk.Emit(bytecode.MakeSimple(bytecode.OpReturn), expr.Span())
	root.addFunction(c.finish())

	return &program.Program{
		Functions: root.functions,
		Globals:   root.globalNames,
	}, nil
}

func newCompiler(root *rootState, enclosing *Compiler, name string, params []ir.Param) *Compiler {
	c := &Compiler{
		root:      root,
		enclosing: enclosing,
		chunk:     bytecode.NewChunk(),
		name:      name,
	}
	for _, p := range params {
		// Parameters occupy the first slots of the function's frame, in
		// declared order, pushed by the caller before OpCall transfers
		// control (spec.md §4.5 "left-to-right argument push").
		slot := c.nextSlot
		c.nextSlot++
		c.maxSlot = c.nextSlot
		c.locals = append(c.locals, local{name: p.Name, depth: 0, slot: slot})
		c.paramNames = append(c.paramNames, p.Name)
	}
	return c
}

func (c *Compiler) finish() *program.InlineFunction {
	closureNames := make([]string, len(c.upvalues))
	upvalueDefs := make([]program.UpvalueDef, len(c.upvalues))
	for i, uv := range c.upvalues {
		closureNames[i] = uv.name
		upvalueDefs[i] = program.UpvalueDef{IsLocal: uv.isLocal, Index: int(uv.index)}
	}
	return &program.InlineFunction{
		Name:         c.name,
		ParamNames:   c.paramNames,
		Chunk:        c.chunk,
		Steps:        c.steps,
		CastTypes:    c.castTypes,
		CallTargets:  c.callTargets,
		ClosureNames: closureNames,
		Upvalues:     upvalueDefs,
		LocalCount:   int(c.maxSlot),
	}
}

func (c *Compiler) beginScope() { c.scopeDepth++ }

// endScope pops every local declared at the current depth, freeing their
// slots for reuse by a sibling scope (matches go-dws's Compiler.endScope;
// unlike DWScript's statement blocks, XPath's binding forms are all
// expressions, so every beginScope/endScope pair brackets exactly one
// sub-expression's evaluation).
func (c *Compiler) endScope() {
	if c.scopeDepth == 0 {
		return
	}
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth == c.scopeDepth {
		c.locals = c.locals[:len(c.locals)-1]
		c.nextSlot--
	}
	c.scopeDepth--
}

func (c *Compiler) declareLocal(name string) uint16 {
	slot := c.nextSlot
	c.nextSlot++
	if c.nextSlot > c.maxSlot {
		c.maxSlot = c.nextSlot
	}
	c.locals = append(c.locals, local{name: name, depth: c.scopeDepth, slot: slot})
	return slot
}

func (c *Compiler) resolveLocal(name string) (local, bool) {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			return c.locals[i], true
		}
	}
	return local{}, false
}

// resolveUpvalue finds name in an enclosing compiler's locals or upvalues
// and records the capture, walking outward exactly as go-dws's
// Compiler.resolveUpvalue does; XPath names are case-sensitive (unlike
// DWScript's case-insensitive identifiers), so comparison is exact.
func (c *Compiler) resolveUpvalue(name string) (uint16, bool) {
	if c.enclosing == nil {
		return 0, false
	}
	if outer, ok := c.enclosing.resolveLocal(name); ok {
		return c.addUpvalue(name, outer.slot, true)
	}
	if idx, ok := c.enclosing.resolveUpvalue(name); ok {
		return c.addUpvalue(name, idx, false)
	}
	return 0, false
}

func (c *Compiler) addUpvalue(name string, index uint16, isLocal bool) (uint16, bool) {
	for i, uv := range c.upvalues {
		if uv.index == index && uv.isLocal == isLocal {
			return uint16(i), true
		}
	}
	c.upvalues = append(c.upvalues, upvalueRef{name: name, index: index, isLocal: isLocal})
	return uint16(len(c.upvalues) - 1), true
}

func (c *Compiler) addStep(s program.Step) uint16 {
	c.steps = append(c.steps, s)
	return uint16(len(c.steps) - 1)
}

func (c *Compiler) addCastType(t program.CastType) uint16 {
	c.castTypes = append(c.castTypes, t)
	return uint16(len(c.castTypes) - 1)
}

func (c *Compiler) addCallTarget(t program.CallTarget) uint16 {
	c.callTargets = append(c.callTargets, t)
	return uint16(len(c.callTargets) - 1)
}

// splitQName resolves a Call/VarRef's possibly-prefixed name against the
// in-scope namespace bindings, defaulting an unprefixed function name to
// the static context's default function namespace (spec.md §4.7).
func splitQName(name string, sc *context.StaticContext) (ns, localName string) {
	prefix, localName, hasPrefix := strings.Cut(name, ":")
	if !hasPrefix {
		return sc.DefaultFunctionNamespace(), name
	}
	switch prefix {
	case "fn":
		return library.FnNamespace, localName
	case "map":
		return library.MapNamespace, localName
	case "array":
		return library.ArrayNamespace, localName
	}
	if uri, ok := sc.ResolvePrefix(prefix); ok {
		return uri, localName
	}
	return prefix, localName
}

func compileErrorf(sp span.Span, format string, args ...any) *xdmerr.Error {
	return xdmerr.Compilef(sp, format, args...)
}
