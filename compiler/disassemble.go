package compiler

import (
	"fmt"
	"io"
)

// Disassemble writes a human-readable listing of the whole chunk under
// the given header.
func (c *Chunk) Disassemble(name string, w io.Writer) {
	fmt.Fprintf(w, "== %s ==\n", name)
	for offset := 0; offset < len(c.Code); {
		offset = c.DisassembleInstruction(w, offset)
	}
}

// DisassembleInstruction prints the instruction at offset and returns
// the offset of the next one. The line column prints a continuation
// marker when the instruction shares its source line with the previous
// byte.
func (c *Chunk) DisassembleInstruction(w io.Writer, offset int) int {
	fmt.Fprintf(w, "%04d ", offset)
	if offset > 0 && c.Lines[offset] == c.Lines[offset-1] {
		fmt.Fprint(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", c.Lines[offset])
	}

	op := Opcode(c.Code[offset])
	def, err := Lookup(op)
	if err != nil {
		fmt.Fprintf(w, "UNKNOWN OPCODE %d\n", c.Code[offset])
		return offset + 1
	}

	if op == OpConstant {
		index := c.Code[offset+1]
		fmt.Fprintf(w, "%-16s %4d '%s'\n", def.Name, index, c.Constants[index])
		return offset + 2
	}

	fmt.Fprintf(w, "%s\n", def.Name)
	return offset + 1
}
