// Package compiler contains Ember's single-pass bytecode compiler. A
// Pratt parser walks the token stream with one token of lookahead and
// emits instructions directly into a chunk; no syntax tree is built.
// Each token's coarse rule maps to a prefix and an infix parselet with a
// precedence, and the expression loop keeps folding infix operators
// while the lookahead binds at least as tightly as the caller demands.
package compiler

import (
	"fmt"
	"math"

	"ember/pos"
	"ember/report"
	"ember/token"
	"ember/value"
)

type parseFunc func(*Compiler) error

// parseRule wires a rule token to its parselets. prefix handles the
// token when it begins an expression, infix when it continues one;
// precedence is the binding strength of the infix form.
type parseRule struct {
	prefix     parseFunc
	infix      parseFunc
	precedence Precedence
}

// Compiler consumes a token stream left to right and emits bytecode.
// String literals allocate heap objects that prepend to the objects
// list; ownership of that list moves to the VM via TakeObjects.
type Compiler struct {
	reporter *report.Reporter

	// current is the token under consideration; tokens holds the unread
	// remainder.
	current pos.Spanned[token.Token]
	tokens  []pos.Spanned[token.Token]
	done    bool

	chunk  *Chunk
	chunks []*Chunk

	// line and span track the most recently consumed token. Every
	// emitted byte records line; span attributes emission errors.
	line uint32
	span pos.Span

	rules   map[token.Rule]parseRule
	objects value.Object
}

// New creates a compiler over an EOF-terminated token stream. The
// parselet tables are fixed at construction.
func New(tokens []pos.Spanned[token.Token], reporter *report.Reporter) *Compiler {
	c := &Compiler{
		reporter: reporter,
		chunk:    NewChunk(),
		rules: map[token.Rule]parseRule{
			token.RuleLiteral:    {prefix: (*Compiler).literal},
			token.RuleMinus:      {prefix: (*Compiler).unary, infix: (*Compiler).binary, precedence: PrecTerm},
			token.RuleBang:       {prefix: (*Compiler).unary},
			token.RuleLParen:     {prefix: (*Compiler).grouping},
			token.RulePlus:       {infix: (*Compiler).binary, precedence: PrecTerm},
			token.RuleSlash:      {infix: (*Compiler).binary, precedence: PrecFactor},
			token.RuleStar:       {infix: (*Compiler).binary, precedence: PrecFactor},
			token.RuleComparison: {infix: (*Compiler).binary, precedence: PrecComparison},
			token.RuleEquality:   {infix: (*Compiler).binary, precedence: PrecEquality},
		},
	}

	if len(tokens) > 0 {
		c.current = tokens[0]
		c.tokens = tokens[1:]
	} else {
		c.current = pos.NewSpanned(token.New(token.EOF), reporter.End())
	}
	return c
}

// Compile parses one expression, requires EOF, and finalizes the chunk.
// It returns ErrCompile if any diagnostic was recorded; the partial
// state remains inspectable either way.
func (c *Compiler) Compile() error {
	if err := c.expression(PrecAssignment); err != nil {
		return err
	}
	if err := c.expect(token.EOF, "Expected EOF"); err != nil {
		return err
	}
	c.endChunk()

	if c.reporter.HasError() {
		return ErrCompile
	}
	return nil
}

// Chunk returns the chunk currently being written. After a successful
// Compile this is a fresh empty chunk; the finalized one lives in
// Chunks.
func (c *Compiler) Chunk() *Chunk {
	return c.chunk
}

// Chunks returns the finalized chunks in compilation order.
func (c *Compiler) Chunks() []*Chunk {
	return c.chunks
}

// Script returns the first finalized chunk, the one Compile produces for
// a whole program.
func (c *Compiler) Script() *Chunk {
	return c.chunks[0]
}

// TakeObjects moves the heap-object list head out of the compiler. The
// compiler's head is reset so it cannot allocate further objects tied to
// a list it no longer owns.
func (c *Compiler) TakeObjects() value.Object {
	head := c.objects
	c.objects = nil
	return head
}

// endChunk terminates the current chunk with RETURN, moves it into the
// finalized list and installs a fresh chunk as current.
func (c *Compiler) endChunk() {
	c.emitByte(byte(OpReturn))
	c.chunks = append(c.chunks, c.chunk)
	c.chunk = NewChunk()
}

// advance consumes the current token and returns it, recording its line
// for subsequent emission. Advancing past the end of the stream reports
// an unexpected EOF at the reporter's end span.
func (c *Compiler) advance() (pos.Spanned[token.Token], error) {
	if c.done {
		c.reporter.Error("Unexpected EOF", c.reporter.End())
		return pos.Spanned[token.Token]{}, ErrCompile
	}

	tok := c.current
	c.line = tok.Span.Start.Line
	c.span = tok.Span

	if len(c.tokens) > 0 {
		c.current = c.tokens[0]
		c.tokens = c.tokens[1:]
	} else {
		c.done = true
		c.current = pos.NewSpanned(token.New(token.EOF), c.reporter.End())
	}
	return tok, nil
}

// expect consumes the current token when it has the wanted kind, and
// reports msg against it otherwise.
func (c *Compiler) expect(kind token.Kind, msg string) error {
	if c.current.Value.Kind != kind {
		c.reporter.Error(msg, c.current.Span)
		return ErrCompile
	}
	_, err := c.advance()
	return err
}

func (c *Compiler) emitByte(b byte) {
	c.chunk.Write(b, c.line)
}

func (c *Compiler) emitBytes(b1, b2 byte) {
	c.emitByte(b1)
	c.emitByte(b2)
}

// emitConstant adds v to the constant pool and emits CONSTANT with its
// index.
func (c *Compiler) emitConstant(v value.Value) error {
	index, err := c.makeConstant(v)
	if err != nil {
		return err
	}
	c.emitBytes(byte(OpConstant), index)
	return nil
}

// makeConstant adds v to the pool and returns its index as a byte. The
// pool is capped at one byte of index space; the overflowing constant is
// reported against the most recently consumed token and never added.
func (c *Compiler) makeConstant(v value.Value) (byte, error) {
	if len(c.chunk.Constants) > math.MaxUint8 {
		c.reporter.Error("Too many constants in one chunk", c.span)
		return 0, ErrCompile
	}
	index := c.chunk.AddConstant(v)
	return byte(index), nil
}

// ========== parsing ==========

// expression compiles one expression whose operators bind at least as
// tightly as min. The prefix parselet of the current token compiles the
// first operand; infix parselets then fold operators while the lookahead
// qualifies.
func (c *Compiler) expression(min Precedence) error {
	rule := c.rules[c.current.Value.Rule()]
	if rule.prefix == nil {
		c.reporter.Error(fmt.Sprintf("Expected an expression instead found `%s`", c.current.Value), c.current.Span)
		return ErrCompile
	}
	if err := rule.prefix(c); err != nil {
		return err
	}

	for {
		next := c.rules[c.current.Value.Rule()]
		if next.infix == nil || next.precedence < min {
			return nil
		}
		if err := next.infix(c); err != nil {
			return err
		}
	}
}

// literal compiles number, string, nil, true and false literals. String
// literals allocate a heap object that prepends to the compiler's object
// list.
func (c *Compiler) literal() error {
	tok, err := c.advance()
	if err != nil {
		return err
	}

	switch tok.Value.Kind {
	case token.Number:
		return c.emitConstant(value.NewNumber(tok.Value.Number))
	case token.String:
		str := value.NewStringObject(tok.Value.Text, c.objects)
		c.objects = str
		return c.emitConstant(value.NewObject(str))
	case token.Nil:
		c.emitByte(byte(OpNil))
	case token.True:
		c.emitByte(byte(OpTrue))
	case token.False:
		c.emitByte(byte(OpFalse))
	default:
		c.reporter.Error("Expected a literal", tok.Span)
		return ErrCompile
	}
	return nil
}

// unary compiles `-` and `!` in prefix position. The operand is parsed
// at unary precedence so `--1` nests and `-1 + 2` does not swallow the
// addition.
func (c *Compiler) unary() error {
	op, err := c.advance()
	if err != nil {
		return err
	}
	if err := c.expression(PrecUnary); err != nil {
		return err
	}

	switch op.Value.Kind {
	case token.Minus:
		c.emitByte(byte(OpNegate))
	case token.Bang:
		c.emitByte(byte(OpNot))
	}
	return nil
}

// grouping compiles a parenthesized expression and insists on the
// closing parenthesis.
func (c *Compiler) grouping() error {
	if _, err := c.advance(); err != nil {
		return err
	}
	if err := c.expression(PrecAssignment); err != nil {
		return err
	}
	return c.expect(token.RParen, "Expected ')'")
}

// binary compiles an infix operator. The right operand parses one level
// tighter than the operator itself, which is what makes the grammar
// left-associative. `!=`, `<=` and `>=` lower to the complementary
// comparison followed by NOT.
func (c *Compiler) binary() error {
	op, err := c.advance()
	if err != nil {
		return err
	}
	rule := c.rules[op.Value.Rule()]
	if err := c.expression(rule.precedence.Higher()); err != nil {
		return err
	}

	switch op.Value.Kind {
	case token.Plus:
		c.emitByte(byte(OpAdd))
	case token.Minus:
		c.emitByte(byte(OpSub))
	case token.Star:
		c.emitByte(byte(OpMul))
	case token.Slash:
		c.emitByte(byte(OpDiv))
	case token.Less:
		c.emitByte(byte(OpLess))
	case token.Greater:
		c.emitByte(byte(OpGreater))
	case token.Equal, token.EqualEqual:
		c.emitByte(byte(OpEqual))
	case token.BangEqual:
		c.emitBytes(byte(OpEqual), byte(OpNot))
	case token.LessEqual:
		c.emitBytes(byte(OpGreater), byte(OpNot))
	case token.GreaterEqual:
		c.emitBytes(byte(OpLess), byte(OpNot))
	}
	return nil
}
