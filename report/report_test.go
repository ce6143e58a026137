package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"ember/pos"
)

func spanAt(line, startCol, endCol uint32) pos.Span {
	return pos.Span{
		Start: pos.Position{Line: line, Column: startCol},
		End:   pos.Position{Line: line, Column: endCol},
	}
}

func TestReporterAccumulatesInOrder(t *testing.T) {
	r := New()
	assert.False(t, r.HasError())

	r.Error("first", spanAt(1, 1, 2))
	r.Warn("second", spanAt(2, 1, 2))

	diags := r.Diagnostics()
	assert.Len(t, diags, 2)
	assert.Equal(t, "first", diags[0].Msg)
	assert.Equal(t, Error, diags[0].Level)
	assert.Equal(t, "second", diags[1].Msg)
	assert.Equal(t, Warn, diags[1].Level)
}

func TestHasErrorCountsAnyDiagnostic(t *testing.T) {
	r := New()
	r.Warn("just a warning", spanAt(1, 1, 2))
	assert.True(t, r.HasError())
}

func TestEndSpanRoundTrips(t *testing.T) {
	r := New()
	end := spanAt(3, 9, 9)
	r.SetEnd(end)
	assert.Equal(t, end, r.End())
}

func TestEmitRendersLevelAndMessage(t *testing.T) {
	r := New()
	r.Error("boom", spanAt(1, 1, 2))

	var out bytes.Buffer
	r.Emit("1 + 2", &out)

	assert.Contains(t, out.String(), "error: boom")
	assert.Contains(t, out.String(), "1 + 2")
}

func TestEmitUnderlinesTheSpan(t *testing.T) {
	r := New()
	// point at `+` in `1 + 2`
	r.Error("bad operator", spanAt(1, 3, 4))

	var out bytes.Buffer
	r.Emit("1 + 2", &out)

	lines := strings.Split(out.String(), "\n")
	assert.Equal(t, "error: bad operator", lines[0])
	assert.Equal(t, "   1 | 1 + 2", lines[1])
	assert.Equal(t, "     |   ^", lines[2])
}

func TestEmitLimitsContext(t *testing.T) {
	source := strings.Join([]string{
		"line one", "line two", "line three", "line four", "line five",
		"line six", "line seven", "line eight", "line nine", "line ten",
	}, "\n")

	r := New()
	r.Error("midway", spanAt(6, 1, 5))

	var out bytes.Buffer
	r.Emit(source, &out)
	text := out.String()

	// four lines before, three after
	assert.NotContains(t, text, "line one")
	assert.Contains(t, text, "line two")
	assert.Contains(t, text, "line nine")
	assert.NotContains(t, text, "line ten")
}

func TestEmitWarningLevel(t *testing.T) {
	r := New()
	r.Warn("careful", spanAt(1, 1, 2))

	var out bytes.Buffer
	r.Emit("x", &out)
	assert.True(t, strings.HasPrefix(out.String(), "warning: careful"))
}
