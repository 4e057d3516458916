package bytecode

import (
	"xpath31/pkg/atomic"
	"xpath31/pkg/span"
)

// Chunk is a compiled instruction sequence plus its constant pool and
// per-instruction source spans, the basic compilation unit (one per
// InlineFunction, spec.md §4.5), mirroring go-dws's bytecode.Chunk
// (Code/Constants/Lines) with spans in place of line numbers since this
// engine's diagnostics need a full start/end range, not just a line.
type Chunk struct {
	Code      []Instruction
	Constants []atomic.Atomic
	Spans     []span.Span // Spans[i] is the span of Code[i]; same length as Code
}

// NewChunk creates an empty chunk.
func NewChunk() *Chunk {
	return &Chunk{
		Code:      make([]Instruction, 0, 16),
		Constants: make([]atomic.Atomic, 0, 8),
		Spans:     make([]span.Span, 0, 16),
	}
}

// Emit appends an instruction with its source span and returns its index.
func (c *Chunk) Emit(in Instruction, sp span.Span) int {
	idx := len(c.Code)
	c.Code = append(c.Code, in)
	c.Spans = append(c.Spans, sp)
	return idx
}

// AddConstant interns a constant value, deduplicating simple (non-binary)
// atomics the same way go-dws's Chunk.AddConstant does, and returns its
// pool index.
func (c *Chunk) AddConstant(a atomic.Atomic) uint16 {
	for i, existing := range c.Constants {
		if constantsEqual(existing, a) {
			return uint16(i)
		}
	}
	c.Constants = append(c.Constants, a)
	return uint16(len(c.Constants) - 1)
}

func constantsEqual(a, b atomic.Atomic) bool {
	if a.Kind() != b.Kind() || a.Kind() == atomic.KindBinary {
		return false
	}
	return a.String() == b.String()
}

// PatchJump rewrites the operand of the jump instruction at index
// jumpIdx so it branches to the chunk's current end (the instruction
// about to be emitted), matching go-dws's Chunk.PatchJump backward-patch
// pattern used for forward jumps (if/else branches, iterator exhaustion,
// quantified early escapes).
func (c *Chunk) PatchJump(jumpIdx int) {
	offset := len(c.Code) - jumpIdx - 1
	c.Code[jumpIdx].Operand = uint16(int16(offset))
}

// EmitLoop emits a backward OpLoop branching to loopStart.
func (c *Chunk) EmitLoop(loopStart int, sp span.Span) {
	offset := loopStart - len(c.Code) - 1
	c.Emit(Make(OpLoop, uint16(int16(offset))), sp)
}

// SpanAt returns the span recorded for instruction ip, or a zero span if
// out of range.
func (c *Chunk) SpanAt(ip int) span.Span {
	if ip < 0 || ip >= len(c.Spans) {
		return span.Span{}
	}
	return c.Spans[ip]
}
