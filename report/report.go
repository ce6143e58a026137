// Package report collects diagnostics produced by the lexer and compiler.
// The reporter is shared by pointer between both and accumulates
// diagnostics in insertion order; it never drops or reorders them.
package report

import (
	"ember/pos"
)

// Level classifies a diagnostic.
type Level int

const (
	Warn Level = iota
	Error
)

func (l Level) String() string {
	switch l {
	case Warn:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is a single message attributed to a region of source text.
type Diagnostic struct {
	Msg   string
	Span  pos.Span
	Level Level
}

// Reporter is an append-only diagnostic sink. It also records the
// end-of-input span so errors at EOF can be attributed to a real
// location.
type Reporter struct {
	diagnostics []Diagnostic
	end         pos.Span
}

// New creates an empty Reporter.
func New() *Reporter {
	return &Reporter{}
}

// Error appends an error-level diagnostic.
func (r *Reporter) Error(msg string, span pos.Span) {
	r.diagnostics = append(r.diagnostics, Diagnostic{Msg: msg, Span: span, Level: Error})
}

// Warn appends a warning-level diagnostic.
func (r *Reporter) Warn(msg string, span pos.Span) {
	r.diagnostics = append(r.diagnostics, Diagnostic{Msg: msg, Span: span, Level: Warn})
}

// HasError reports whether any diagnostic has been recorded.
func (r *Reporter) HasError() bool {
	return len(r.diagnostics) > 0
}

// Diagnostics returns the recorded diagnostics in insertion order.
func (r *Reporter) Diagnostics() []Diagnostic {
	return r.diagnostics
}

// SetEnd records the end-of-input span. The lexer calls this once it has
// consumed the whole source.
func (r *Reporter) SetEnd(span pos.Span) {
	r.end = span
}

// End returns the end-of-input span recorded by SetEnd.
func (r *Reporter) End() pos.Span {
	return r.end
}
