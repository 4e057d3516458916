package context

import (
	"xpath31/pkg/sequence"
	"xpath31/pkg/xot"
)

// DynamicContext is the interpreter's view of the run-time inputs that a
// StaticContext doesn't fix ahead of time: the initial context item,
// variable bindings, the document collection, and an implicit timezone
// override (spec.md §4.7). It is deliberately cheap to construct — "no
// program holds a reference to a dynamic context" — so DynamicContext
// holds no back-reference to the Program it will evaluate.
type DynamicContext struct {
	contextItem    sequence.Item
	hasContextItem bool
	variables      map[string]sequence.Sequence
	documents      map[uint64]xot.Document
	timezone       int32 // minutes east of UTC
	hasTimezone    bool
}

// DynamicContextBuilder accumulates the inputs to build a DynamicContext.
type DynamicContextBuilder struct {
	ctx DynamicContext
}

// NewDynamicContextBuilder starts from an empty context.
func NewDynamicContextBuilder() *DynamicContextBuilder {
	return &DynamicContextBuilder{ctx: DynamicContext{
		variables: map[string]sequence.Sequence{},
		documents: map[uint64]xot.Document{},
	}}
}

// ContextItem sets the initial context item.
func (b *DynamicContextBuilder) ContextItem(item sequence.Item) *DynamicContextBuilder {
	b.ctx.contextItem = item
	b.ctx.hasContextItem = true
	return b
}

// Variable binds a name to a sequence value.
func (b *DynamicContextBuilder) Variable(name string, val sequence.Sequence) *DynamicContextBuilder {
	b.ctx.variables[name] = val
	return b
}

// Document registers a document in the context's document collection,
// keyed by its ID; no built-in function reads this collection.
func (b *DynamicContextBuilder) Document(doc xot.Document) *DynamicContextBuilder {
	b.ctx.documents[doc.ID()] = doc
	return b
}

// ImplicitTimezone overrides the static context's implicit timezone
// (minutes east of UTC).
func (b *DynamicContextBuilder) ImplicitTimezone(minutesEastOfUTC int32) *DynamicContextBuilder {
	b.ctx.timezone = minutesEastOfUTC
	b.ctx.hasTimezone = true
	return b
}

// Build finalizes the DynamicContext.
func (b *DynamicContextBuilder) Build() *DynamicContext {
	ctx := b.ctx
	return &ctx
}

// ContextItem returns the initial context item, if one was set.
func (c *DynamicContext) ContextItem() (sequence.Item, bool) {
	return c.contextItem, c.hasContextItem
}

// Variable looks up a bound variable by name.
func (c *DynamicContext) Variable(name string) (sequence.Sequence, bool) {
	v, ok := c.variables[name]
	return v, ok
}

// Document looks up a document by its stable ID.
func (c *DynamicContext) Document(id uint64) (xot.Document, bool) {
	doc, ok := c.documents[id]
	return doc, ok
}

// ImplicitTimezone returns the dynamic timezone override, if any.
func (c *DynamicContext) ImplicitTimezone() (int32, bool) {
	return c.timezone, c.hasTimezone
}
