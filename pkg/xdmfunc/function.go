package xdmfunc

import "xpath31/pkg/program"

// FunctionKind tags which of the three function-item varieties a Function
// value holds (spec.md §5): a reference to a statically-known library
// function, a compiled inline function (an XPath inline function
// expression), or one of the map/array item kinds, which are function
// items too (map:get / array:get are their "call").
type FunctionKind byte

const (
	FunctionStatic FunctionKind = iota
	FunctionInline
	FunctionMap
	FunctionArray
)

// Function is the runtime representation of any XPath function item.
// Static functions carry only a name/arity (the interpreter resolves the
// callable from pkg/library); inline functions carry a compiled
// program.InlineFunction plus the closure capturing its defining scope;
// map and array function items carry the underlying Map/Array.
type Function struct {
	kind    FunctionKind
	name    string
	arity   int
	inline  *program.InlineFunction
	closure *Closure
	mapVal  *Map
	arrVal  *Array
}

// Closure pairs a compiled inline function with the upvalues it captured
// at the point it was constructed (spec.md §5 "inline functions are
// closures over their defining scope"), mirroring go-dws's
// bytecode.Closure/Upvalue pair.
type Closure struct {
	Function *program.InlineFunction
	Upvalues []*Upvalue
}

// Upvalue is a captured variable binding, open (still referencing a live
// interpreter stack slot) or closed (copied out once that frame returns).
// The location is represented as a pointer to whatever the interpreter
// uses as its stack slot type; internal/interp supplies the concrete type
// via a type parameter substitute (an any-typed getter/setter pair) so
// this package does not need to import internal/interp.
type Upvalue struct {
	get func() any
	set func(any)
}

// NewUpvalue wraps a live get/set pair (typically closing over a specific
// stack slot in the current frame) as an open upvalue.
func NewUpvalue(get func() any, set func(any)) *Upvalue {
	return &Upvalue{get: get, set: set}
}

// Get returns the upvalue's current value.
func (u *Upvalue) Get() any { return u.get() }

// Set stores a new value into the upvalue.
func (u *Upvalue) Set(v any) { u.set(v) }

// StaticFunction constructs a function item referring to a library
// function by qualified name and arity.
func StaticFunction(name string, arity int) Function {
	return Function{kind: FunctionStatic, name: name, arity: arity}
}

// InlineFunctionValue constructs a function item wrapping a compiled
// inline function and the closure it captured.
func InlineFunctionValue(fn *program.InlineFunction, cl *Closure) Function {
	return Function{kind: FunctionInline, name: fn.Name, arity: len(fn.ParamNames), inline: fn, closure: cl}
}

// MapFunction constructs the function-item view of a Map (map:get is
// callable as map(K)).
func MapFunction(m Map) Function {
	return Function{kind: FunctionMap, name: "", arity: 1, mapVal: &m}
}

// ArrayFunction constructs the function-item view of an Array.
func ArrayFunction(a Array) Function {
	return Function{kind: FunctionArray, name: "", arity: 1, arrVal: &a}
}

// Kind reports which function-item variety this is.
func (f Function) Kind() FunctionKind { return f.kind }

// Arity implements sequence.Callable.
func (f Function) Arity() int { return f.arity }

// Name implements sequence.Callable; map and array function items report
// "map" / "array" as their synthetic name for diagnostics.
func (f Function) Name() string {
	switch f.kind {
	case FunctionMap:
		return "map"
	case FunctionArray:
		return "array"
	}
	return f.name
}

// Inline returns the wrapped inline function and closure; valid only when
// Kind() == FunctionInline.
func (f Function) Inline() (*program.InlineFunction, *Closure) { return f.inline, f.closure }

// AsMap returns the wrapped Map; valid only when Kind() == FunctionMap.
func (f Function) AsMap() Map { return *f.mapVal }

// AsArray returns the wrapped Array; valid only when Kind() == FunctionArray.
func (f Function) AsArray() Array { return *f.arrVal }
