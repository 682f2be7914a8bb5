// Package bytecode defines the compiled-code container a script function
// carries as its opaque Code payload (§3 Script: "constant pools,
// pattern-pool, template-pool, function-descriptor array, byte-code
// buffer, and a source-location table"). Opcode *semantics* are explicitly
// out of scope (spec §1 Non-goals: "no bytecode opcode semantics") — the
// external compiler (not part of this repository) is the thing that would
// normally emit a Chunk; internal/interp supplies a minimal reference
// implementation of the small, documented subset of opcodes below, just
// enough to exercise script-function calls, closures and error
// propagation end to end in this repo's own tests. Grounded on the
// teacher's internal/bytecode (chunk.go/opcodes.go), trimmed from its
// ~70-opcode instruction set to the three dozen operations the reference
// interpreter actually runs, and switched from interface{} constants to
// value.Value so the pool shares GC roots with everything else.
package bytecode

import "github.com/gongke-cn/ox/internal/value"

// Chunk is one compiled function body: a flat byte-code buffer, its
// constant pool, and a parallel per-instruction source line table used for
// stack-dump rendering (§4.8/§7). File name and function name come from
// the owning loader.Script / function.Function instead of being repeated
// per instruction, unlike the teacher's DebugInfo.
type Chunk struct {
	Code      []byte
	Constants []value.Value
	Lines     []int // Lines[ip] is the source line of the opcode at offset ip
}

// NewChunk returns an empty Chunk.
func NewChunk() *Chunk {
	return &Chunk{}
}

// WriteOp appends op at the current line, padding Lines to stay parallel
// with Code, and returns its offset.
func (c *Chunk) WriteOp(op OpCode, line int) int {
	return c.WriteByte(byte(op), line)
}

// WriteByte appends a raw byte (an opcode or an operand byte) and returns
// its offset.
func (c *Chunk) WriteByte(b byte, line int) int {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
	return len(c.Code) - 1
}

// WriteU16 appends a big-endian two-byte operand (jump targets, constant
// or local-slot indices beyond 255) and returns the offset of its first
// byte.
func (c *Chunk) WriteU16(n uint16, line int) int {
	off := c.WriteByte(byte(n>>8), line)
	c.WriteByte(byte(n), line)
	return off
}

// PatchU16 overwrites the two bytes at off with n — used to back-patch a
// forward jump once its target offset is known.
func (c *Chunk) PatchU16(off int, n uint16) {
	c.Code[off] = byte(n >> 8)
	c.Code[off+1] = byte(n)
}

// ReadU16 reads the big-endian operand at off.
func (c *Chunk) ReadU16(off int) uint16 {
	return uint16(c.Code[off])<<8 | uint16(c.Code[off+1])
}

// AddConstant interns v in the constant pool, returning its index.
func (c *Chunk) AddConstant(v value.Value) int {
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

// LineAt returns the source line recorded for instruction offset ip, or 0
// if ip is out of range.
func (c *Chunk) LineAt(ip int) int {
	if ip < 0 || ip >= len(c.Lines) {
		return 0
	}
	return c.Lines[ip]
}
