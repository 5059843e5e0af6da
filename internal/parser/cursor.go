package parser

import (
	"strings"
	"unicode/utf8"

	"martianoff/enumdispatch/dispatcherr"
)

// cursor walks a token slice produced by Tokenize.
type cursor struct {
	src    []rune
	tokens []Token
	pos    int
	base   dispatcherr.Position
}

func newCursor(text string, base dispatcherr.Position) (*cursor, error) {
	tokens, err := Tokenize(text, base)
	if err != nil {
		return nil, err
	}
	return &cursor{src: []rune(text), tokens: tokens, base: base}, nil
}

// sourceText returns the source from the start of first to the end of last.
func (c *cursor) sourceText(first, last Token) string {
	return string(c.src[first.Offset : last.Offset+utf8.RuneCountInString(last.Text)])
}

// peek returns the next token without consuming it.
func (c *cursor) peek() Token {
	return c.peekN(1)
}

// peekN returns the token k positions ahead (k >= 1). Past the end it
// returns the trailing EOF token.
func (c *cursor) peekN(k int) Token {
	i := c.pos + k - 1
	if i >= len(c.tokens) {
		return c.tokens[len(c.tokens)-1]
	}
	return c.tokens[i]
}

func (c *cursor) next() Token {
	tok := c.peek()
	if tok.Kind != TokenEOF {
		c.pos++
	}
	return tok
}

func (c *cursor) isEmpty() bool {
	return c.peek().Kind == TokenEOF
}

// eat consumes the next token if it has the given kind.
func (c *cursor) eat(kind TokenKind) bool {
	if c.peek().Kind == kind {
		c.next()
		return true
	}
	return false
}

// eatKeyword consumes the next token if it is the identifier kw.
func (c *cursor) eatKeyword(kw string) bool {
	if c.peek().IsKeyword(kw) {
		c.next()
		return true
	}
	return false
}

func (c *cursor) position(tok Token) dispatcherr.Position {
	return c.base.Advance(tok.Line, tok.Column)
}

func (c *cursor) errorAt(tok Token, msg string) error {
	return dispatcherr.NewGrammarError(c.position(tok), msg)
}

// expect consumes a token of the given kind or fails at the next token.
func (c *cursor) expect(kind TokenKind) (Token, error) {
	if c.peek().Kind != kind {
		return Token{}, c.errorAt(c.peek(), "expected "+kind.String()+", found "+c.peek().describe())
	}
	return c.next(), nil
}

// expectKeyword consumes the identifier kw or fails at the next token.
func (c *cursor) expectKeyword(kw string) (Token, error) {
	if !c.peek().IsKeyword(kw) {
		return Token{}, c.errorAt(c.peek(), "expected `"+kw+"`, found "+c.peek().describe())
	}
	return c.next(), nil
}

// expectIdent consumes a non-keyword identifier.
func (c *cursor) expectIdent() (Token, error) {
	if !isPlainIdent(c.peek()) {
		return Token{}, c.errorAt(c.peek(), "expected identifier, found "+c.peek().describe())
	}
	return c.next(), nil
}

// expectEnd fails unless every token has been consumed.
func (c *cursor) expectEnd() error {
	if !c.isEmpty() {
		return c.errorAt(c.peek(), "unexpected token "+c.peek().describe())
	}
	return nil
}

// lookahead inspects the next token against a set of alternatives and
// remembers every alternative it was asked about, so a miss can be reported
// as a single "expected one of" error.
type lookahead struct {
	c        *cursor
	tok      Token
	expected []string
}

func (c *cursor) lookahead() *lookahead {
	return &lookahead{c: c, tok: c.peek()}
}

func (l *lookahead) keyword(kw string) bool {
	if l.tok.IsKeyword(kw) {
		return true
	}
	l.expected = append(l.expected, "`"+kw+"`")
	return false
}

func (l *lookahead) kind(kind TokenKind) bool {
	if l.tok.Kind == kind {
		return true
	}
	l.expected = append(l.expected, kind.String())
	return false
}

func (l *lookahead) error() error {
	var msg string
	switch len(l.expected) {
	case 0:
		msg = "unexpected token " + l.tok.describe()
	case 1:
		msg = "expected " + l.expected[0]
	default:
		msg = "expected one of " + strings.Join(l.expected, ", ")
	}
	if l.tok.Kind == TokenEOF {
		msg = "unexpected end of input, " + msg
	}
	return l.c.errorAt(l.tok, msg)
}
