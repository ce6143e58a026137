// Package lexer turns Ember source text into a stream of spanned tokens.
// Scanning never aborts on the first problem; diagnostics accumulate on
// the shared reporter and the caller decides what to do with the partial
// token stream.
package lexer

import (
	"fmt"
	"strconv"
	"strings"

	"ember/pos"
	"ember/report"
	"ember/token"
)

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

// Lexer scans one source string. It owns a position-tracking character
// scanner with two characters of lookahead and appends every token it
// recognizes to an internal slice.
type Lexer struct {
	chars    *pos.Scanner
	reporter *report.Reporter
	tokens   []pos.Spanned[token.Token]
}

// New creates a Lexer over the given source. Diagnostics are recorded on
// the provided reporter, which the caller shares with the compiler.
func New(input string, reporter *report.Reporter) *Lexer {
	return &Lexer{
		chars:    pos.NewScanner(input),
		reporter: reporter,
	}
}

// Scan tokenizes the whole input. The returned stream has comment tokens
// filtered out and is terminated by an EOF token spanning the input end;
// the reporter's end span is set to the same location. Scan returns a
// non-nil error if any diagnostic was recorded, but the token stream is
// still returned for inspection.
func (l *Lexer) Scan() ([]pos.Spanned[token.Token], error) {
	for {
		start, ch, ok := l.chars.Next()
		if !ok {
			break
		}
		l.scan(start, ch)
	}

	filtered := l.tokens[:0]
	for _, tok := range l.tokens {
		if tok.Value.Kind != token.Comment {
			filtered = append(filtered, tok)
		}
	}
	l.tokens = filtered

	end := l.chars.Pos()
	endSpan := pos.Span{Start: end, End: end}
	l.reporter.SetEnd(endSpan)
	l.tokens = append(l.tokens, pos.NewSpanned(token.New(token.EOF), endSpan))

	if l.reporter.HasError() {
		return l.tokens, fmt.Errorf("scanning failed with %d diagnostics", len(l.reporter.Diagnostics()))
	}
	return l.tokens, nil
}

// scan handles one character that has already been consumed at position
// start.
func (l *Lexer) scan(start pos.Position, ch rune) {
	switch ch {
	case ' ', '\r', '\t', '\n':
		// whitespace; newlines are accounted for by pos.Position
	case '(':
		l.add(token.New(token.LParen), start)
	case ')':
		l.add(token.New(token.RParen), start)
	case '{':
		l.add(token.New(token.LBrace), start)
	case '}':
		l.add(token.New(token.RBrace), start)
	case ',':
		l.add(token.New(token.Comma), start)
	case '.':
		l.add(token.New(token.Dot), start)
	case ';':
		l.add(token.New(token.Semicolon), start)
	case '+':
		l.add(token.New(token.Plus), start)
	case '-':
		l.add(token.New(token.Minus), start)
	case '*':
		l.add(token.New(token.Star), start)
	case '/':
		if l.match('/') {
			l.lineComment()
		} else if l.match('*') {
			l.blockComment(start)
		} else {
			l.add(token.New(token.Slash), start)
		}
	case '!':
		l.addTwoChar(start, '=', token.BangEqual, token.Bang)
	case '=':
		l.addTwoChar(start, '=', token.EqualEqual, token.Equal)
	case '<':
		l.addTwoChar(start, '=', token.LessEqual, token.Less)
	case '>':
		l.addTwoChar(start, '=', token.GreaterEqual, token.Greater)
	case '"':
		l.string(start)
	default:
		if isDigit(ch) {
			l.number(start, ch)
		} else if isLetter(ch) {
			l.identifier(start, ch)
		} else {
			l.reporter.Error(fmt.Sprintf("Unexpected character `%c`", ch), l.spanFrom(start))
		}
	}
}

// spanFrom closes a span opened at start at the scanner's current
// position.
func (l *Lexer) spanFrom(start pos.Position) pos.Span {
	return pos.Span{Start: start, End: l.chars.Pos()}
}

func (l *Lexer) add(tok token.Token, start pos.Position) {
	l.tokens = append(l.tokens, pos.NewSpanned(tok, l.spanFrom(start)))
}

// addTwoChar emits twoChar when the lookahead matches expected,
// otherwise oneChar. Two-character operators win greedily over their
// one-character prefixes.
func (l *Lexer) addTwoChar(start pos.Position, expected rune, twoChar, oneChar token.Kind) {
	if l.match(expected) {
		l.add(token.New(twoChar), start)
		return
	}
	l.add(token.New(oneChar), start)
}

// match consumes the next character only if it equals expected.
func (l *Lexer) match(expected rune) bool {
	next, ok := l.chars.Peek()
	if !ok || next != expected {
		return false
	}
	l.chars.Next()
	return true
}

// lineComment consumes to the end of the line. The newline itself is
// left for the main loop.
func (l *Lexer) lineComment() {
	for {
		next, ok := l.chars.Peek()
		if !ok || next == '\n' {
			return
		}
		l.chars.Next()
	}
}

// blockComment consumes a `/* ... */` comment. A missing terminator is
// reported at the comment's opening span and scanning resumes at the end
// of the input.
func (l *Lexer) blockComment(start pos.Position) {
	opening := l.spanFrom(start)
	for {
		_, ch, ok := l.chars.Next()
		if !ok {
			l.reporter.Error("Unclosed block comment", opening)
			return
		}
		if ch == '*' {
			if l.match('/') {
				return
			}
		}
	}
}

// string scans a string literal whose opening quote sits at start. The
// content is accumulated character by character until the matching
// quote; an unterminated string is reported at the opening span and the
// token is discarded.
func (l *Lexer) string(start pos.Position) {
	opening := l.spanFrom(start)
	var content strings.Builder
	for {
		_, ch, ok := l.chars.Next()
		if !ok {
			l.reporter.Error("Unclosed string", opening)
			return
		}
		if ch == '"' {
			l.add(token.NewString(content.String()), start)
			return
		}
		content.WriteRune(ch)
	}
}

// number scans a number literal: one or more digits, optionally a dot
// followed by one or more digits. A letter immediately after the digits
// discards the token and reports the stray character at the number's
// start position.
func (l *Lexer) number(start pos.Position, first rune) {
	var text strings.Builder
	text.WriteRune(first)

	l.digits(&text)
	if next, ok := l.chars.Peek(); ok && next == '.' {
		if after, ok := l.chars.PeekNext(); ok && isDigit(after) {
			l.chars.Next()
			text.WriteRune('.')
			l.digits(&text)
		}
	}

	if next, ok := l.chars.Peek(); ok && isLetter(next) {
		l.reporter.Error(fmt.Sprintf("Unexpected character `%c`", next), l.spanFrom(start))
		// Discard the malformed token along with its trailing letters.
		for {
			next, ok := l.chars.Peek()
			if !ok || !isLetter(next) && !isDigit(next) {
				return
			}
			l.chars.Next()
		}
	}

	number, err := strconv.ParseFloat(text.String(), 32)
	if err != nil {
		l.reporter.Error(fmt.Sprintf("Invalid number `%s`", text.String()), l.spanFrom(start))
		return
	}
	l.add(token.NewNumber(float32(number)), start)
}

func (l *Lexer) digits(text *strings.Builder) {
	for {
		next, ok := l.chars.Peek()
		if !ok || !isDigit(next) {
			return
		}
		l.chars.Next()
		text.WriteRune(next)
	}
}

// identifier scans an identifier or keyword starting with first.
func (l *Lexer) identifier(start pos.Position, first rune) {
	var text strings.Builder
	text.WriteRune(first)
	for {
		next, ok := l.chars.Peek()
		if !ok || !isLetter(next) && !isDigit(next) {
			break
		}
		l.chars.Next()
		text.WriteRune(next)
	}

	name := text.String()
	if kind, ok := token.Keywords[name]; ok {
		l.add(token.New(kind), start)
		return
	}
	l.add(token.NewIdent(name), start)
}
