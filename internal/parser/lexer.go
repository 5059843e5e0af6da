package parser

import (
	"unicode"

	"martianoff/enumdispatch/dispatcherr"

	"github.com/antlr4-go/antlr/v4"
)

const eof rune = -1

// lexer turns an attribute body into tokens. It reads characters through an
// ANTLR character stream and tracks line and column itself.
type lexer struct {
	input  *antlr.InputStream
	base   dispatcherr.Position
	line   int
	column int
}

func newLexer(text string, base dispatcherr.Position) *lexer {
	return &lexer{
		input:  antlr.NewInputStream(text),
		base:   base,
		line:   1,
		column: 1,
	}
}

// Tokenize splits an attribute body into tokens, terminated by a TokenEOF.
// base is the position of the first character of text.
func Tokenize(text string, base dispatcherr.Position) ([]Token, error) {
	l := newLexer(text, base)
	var tokens []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens, nil
		}
	}
}

func (l *lexer) peek(offset int) rune {
	c := l.input.LA(offset)
	if c == antlr.TokenEOF {
		return eof
	}
	return rune(c)
}

func (l *lexer) advance() {
	c := l.peek(1)
	if c == eof {
		return
	}
	if c == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.input.Consume()
}

func (l *lexer) errorf(line, column int, format string, args ...any) error {
	return dispatcherr.NewGrammarErrorf(l.base.Advance(line, column), format, args...)
}

func (l *lexer) skipTrivia() error {
	for {
		c := l.peek(1)
		switch {
		case c == eof:
			return nil
		case unicode.IsSpace(c):
			l.advance()
		case c == '/' && l.peek(2) == '/':
			for c := l.peek(1); c != eof && c != '\n'; c = l.peek(1) {
				l.advance()
			}
		case c == '/' && l.peek(2) == '*':
			line, column := l.line, l.column
			l.advance()
			l.advance()
			for {
				if l.peek(1) == eof {
					return l.errorf(line, column, "unterminated block comment")
				}
				if l.peek(1) == '*' && l.peek(2) == '/' {
					l.advance()
					l.advance()
					break
				}
				l.advance()
			}
		default:
			return nil
		}
	}
}

var punctuation = map[rune]TokenKind{
	',': TokenComma,
	';': TokenSemi,
	'(': TokenLParen,
	')': TokenRParen,
	'<': TokenLAngle,
	'>': TokenRAngle,
	'[': TokenLBracket,
	']': TokenRBracket,
	'{': TokenLBrace,
	'}': TokenRBrace,
	'&': TokenAmp,
	'*': TokenStar,
	'=': TokenEq,
	'+': TokenPlus,
	'!': TokenBang,
	'?': TokenQuestion,
}

// operators only appear inside const expressions, which are kept as text.
var operators = map[rune]bool{
	'/': true, '%': true, '^': true, '|': true, '~': true,
}

func (l *lexer) next() (Token, error) {
	if err := l.skipTrivia(); err != nil {
		return Token{}, err
	}

	line, column := l.line, l.column
	start := l.input.Index()
	emit := func(kind TokenKind) Token {
		return Token{
			Kind:   kind,
			Text:   l.input.GetText(start, l.input.Index()-1),
			Offset: start,
			Line:   line,
			Column: column,
		}
	}

	c := l.peek(1)
	switch {
	case c == eof:
		return Token{Kind: TokenEOF, Offset: start, Line: line, Column: column}, nil

	case c == ':':
		l.advance()
		if l.peek(1) == ':' {
			l.advance()
			return emit(TokenColonColon), nil
		}
		return emit(TokenColon), nil

	case c == '-':
		l.advance()
		if l.peek(1) != '>' {
			return emit(TokenPunct), nil
		}
		l.advance()
		return emit(TokenArrow), nil

	case c == '.':
		for n := 0; n < 3 && l.peek(1) == '.'; n++ {
			l.advance()
		}
		return emit(TokenPunct), nil

	case c == '"':
		l.advance()
		for {
			switch l.peek(1) {
			case eof:
				return Token{}, l.errorf(line, column, "unterminated string literal")
			case '\\':
				l.advance()
				l.advance()
			case '"':
				l.advance()
				return emit(TokenLiteral), nil
			default:
				l.advance()
			}
		}

	case operators[c]:
		l.advance()
		return emit(TokenPunct), nil

	case c == '\'':
		l.advance()
		if !isIdentStart(l.peek(1)) {
			return Token{}, l.errorf(line, column, "expected a lifetime name after `'`")
		}
		for isIdentContinue(l.peek(1)) {
			l.advance()
		}
		if l.peek(1) == '\'' {
			return Token{}, l.errorf(line, column, "character literals are not allowed here")
		}
		return emit(TokenLifetime), nil

	case c >= '0' && c <= '9':
		for isIdentContinue(l.peek(1)) {
			l.advance()
		}
		return emit(TokenInteger), nil

	case c == 'r' && l.peek(2) == '#' && isIdentStart(l.peek(3)):
		l.advance()
		l.advance()
		for isIdentContinue(l.peek(1)) {
			l.advance()
		}
		return emit(TokenIdent), nil

	case isIdentStart(c):
		for isIdentContinue(l.peek(1)) {
			l.advance()
		}
		tok := emit(TokenIdent)
		if tok.Text == "_" {
			tok.Kind = TokenUnderscore
		}
		return tok, nil
	}

	if kind, ok := punctuation[c]; ok {
		l.advance()
		return emit(kind), nil
	}
	return Token{}, l.errorf(line, column, "unexpected character %q", c)
}

func isIdentStart(c rune) bool {
	return c == '_' || unicode.IsLetter(c)
}

func isIdentContinue(c rune) bool {
	return c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c)
}
