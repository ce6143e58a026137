package compiler

import (
	"testing"

	"ember/value"
)

func TestWriteKeepsCodeAndLinesParallel(t *testing.T) {
	chunk := NewChunk()
	writes := []struct {
		b    byte
		line uint32
	}{
		{byte(OpConstant), 1},
		{0, 1},
		{byte(OpNegate), 2},
		{byte(OpReturn), 3},
	}
	for _, w := range writes {
		chunk.Write(w.b, w.line)
		if len(chunk.Code) != len(chunk.Lines) {
			t.Fatalf("code and line table diverged: %d vs %d", len(chunk.Code), len(chunk.Lines))
		}
	}

	expectedLines := []uint32{1, 1, 2, 3}
	for i, line := range expectedLines {
		if chunk.Lines[i] != line {
			t.Errorf("line %d recorded as %d, want %d", i, chunk.Lines[i], line)
		}
	}
}

func TestAddConstantReturnsSequentialIndexes(t *testing.T) {
	chunk := NewChunk()
	for i := 0; i < 5; i++ {
		index := chunk.AddConstant(value.NewNumber(float32(i)))
		if index != i {
			t.Errorf("constant added at index %d, want %d", index, i)
		}
	}
	if len(chunk.Constants) != 5 {
		t.Errorf("pool holds %d constants, want 5", len(chunk.Constants))
	}
}

func TestPrecedenceHigher(t *testing.T) {
	all := []Precedence{
		PrecNone, PrecAssignment, PrecOr, PrecAnd, PrecEquality,
		PrecComparison, PrecTerm, PrecFactor, PrecUnary, PrecCall, PrecPrimary,
	}
	for _, p := range all {
		if p.Higher() < p {
			t.Errorf("Higher(%d) = %d went down", p, p.Higher())
		}
	}
	if PrecPrimary.Higher() != PrecPrimary {
		t.Errorf("Higher must be idempotent at the top level")
	}
	if PrecTerm.Higher() != PrecFactor {
		t.Errorf("factor binds one level above term")
	}
}
