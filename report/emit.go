package report

import (
	"fmt"
	"io"
	"strings"
)

const (
	contextBefore = 4
	contextAfter  = 3
)

// Emit renders every recorded diagnostic against the source it was
// produced from. Each diagnostic prints as `<level>: <message>`, up to
// four preceding source lines, the offending line with carets under the
// span, and up to three trailing lines.
func (r *Reporter) Emit(source string, w io.Writer) {
	lines := strings.Split(source, "\n")
	for _, d := range r.diagnostics {
		fmt.Fprintf(w, "%s: %s\n", d.Level, d.Msg)
		renderContext(w, lines, d)
	}
}

func renderContext(w io.Writer, lines []string, d Diagnostic) {
	// Diagnostic lines are 1-based; clamp so a span past the final
	// newline still points at the last line.
	target := int(d.Span.Start.Line) - 1
	if target >= len(lines) {
		target = len(lines) - 1
	}
	if target < 0 {
		return
	}

	first := target - contextBefore
	if first < 0 {
		first = 0
	}
	last := target + contextAfter
	if last >= len(lines) {
		last = len(lines) - 1
	}

	for i := first; i <= last; i++ {
		fmt.Fprintf(w, "%4d | %s\n", i+1, lines[i])
		if i == target {
			fmt.Fprintf(w, "     | %s\n", carets(lines[i], d))
		}
	}
}

// carets builds the marker row that underlines the diagnostic span.
func carets(line string, d Diagnostic) string {
	start := int(d.Span.Start.Column) - 1
	width := int(d.Span.End.Column) - int(d.Span.Start.Column)
	if d.Span.End.Line != d.Span.Start.Line {
		// Multi-line span: underline from the start column to the end
		// of the first line.
		width = len([]rune(line)) - start
	}
	if start < 0 {
		start = 0
	}
	if start > len([]rune(line)) {
		start = len([]rune(line))
	}
	if width < 1 {
		width = 1
	}
	return strings.Repeat(" ", start) + strings.Repeat("^", width)
}
