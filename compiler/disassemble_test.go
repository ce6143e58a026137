package compiler

import (
	"bytes"
	"strings"
	"testing"

	"ember/value"
)

func TestDisassembleChunk(t *testing.T) {
	chunk := NewChunk()
	index := chunk.AddConstant(value.NewNumber(1.2))
	chunk.Write(byte(OpConstant), 123)
	chunk.Write(byte(index), 123)
	chunk.Write(byte(OpNegate), 123)
	chunk.Write(byte(OpReturn), 124)

	var out bytes.Buffer
	chunk.Disassemble("test chunk", &out)

	expected := strings.Join([]string{
		"== test chunk ==",
		"0000  123 OP_CONSTANT         0 '1.2'",
		"0002    | OP_NEGATE",
		"0003  124 OP_RETURN",
		"",
	}, "\n")
	if out.String() != expected {
		t.Errorf("listing mismatch:\ngot:\n%s\nwant:\n%s", out.String(), expected)
	}
}

func TestDisassembleInstructionOffsets(t *testing.T) {
	chunk := NewChunk()
	chunk.AddConstant(value.NewNumber(7))
	chunk.Write(byte(OpConstant), 1)
	chunk.Write(0, 1)
	chunk.Write(byte(OpAdd), 1)

	var out bytes.Buffer
	next := chunk.DisassembleInstruction(&out, 0)
	if next != 2 {
		t.Errorf("CONSTANT advanced to offset %d, want 2", next)
	}
	next = chunk.DisassembleInstruction(&out, 2)
	if next != 3 {
		t.Errorf("simple instruction advanced to offset %d, want 3", next)
	}
}

func TestDisassembleUnknownOpcode(t *testing.T) {
	chunk := NewChunk()
	chunk.Write(0xFF, 1)

	var out bytes.Buffer
	next := chunk.DisassembleInstruction(&out, 0)
	if next != 1 {
		t.Errorf("unknown byte advanced to offset %d, want 1", next)
	}
	if !strings.Contains(out.String(), "UNKNOWN OPCODE 255") {
		t.Errorf("listing does not flag the unknown byte: %q", out.String())
	}
}

// The instruction count of a straight-line listing matches the number of
// instructions the VM will execute to completion.
func TestDisassembleCountsInstructions(t *testing.T) {
	c, _, err := compileSource(t, "1 + 2 * 3")
	if err != nil {
		t.Fatalf("compilation failed: %v", err)
	}
	chunk := c.Script()

	count := 0
	var out bytes.Buffer
	for offset := 0; offset < len(chunk.Code); {
		offset = chunk.DisassembleInstruction(&out, offset)
		count++
	}
	// CONSTANT x3, MUL, ADD, RETURN
	if count != 6 {
		t.Errorf("counted %d instructions, want 6", count)
	}
}
