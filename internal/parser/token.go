package parser

import (
	"fmt"
)

// TokenKind identifies the lexical class of a token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenIdent
	TokenLifetime
	TokenInteger
	TokenColonColon
	TokenColon
	TokenComma
	TokenSemi
	TokenLParen
	TokenRParen
	TokenLAngle
	TokenRAngle
	TokenLBracket
	TokenRBracket
	TokenAmp
	TokenStar
	TokenArrow
	TokenEq
	TokenPlus
	TokenBang
	TokenQuestion
	TokenUnderscore
	TokenLBrace
	TokenRBrace
	TokenLiteral
	TokenPunct
)

var tokenNames = map[TokenKind]string{
	TokenEOF:        "end of input",
	TokenIdent:      "identifier",
	TokenLifetime:   "lifetime",
	TokenInteger:    "integer literal",
	TokenColonColon: "`::`",
	TokenColon:      "`:`",
	TokenComma:      "`,`",
	TokenSemi:       "`;`",
	TokenLParen:     "`(`",
	TokenRParen:     "`)`",
	TokenLAngle:     "`<`",
	TokenRAngle:     "`>`",
	TokenLBracket:   "`[`",
	TokenRBracket:   "`]`",
	TokenAmp:        "`&`",
	TokenStar:       "`*`",
	TokenArrow:      "`->`",
	TokenEq:         "`=`",
	TokenPlus:       "`+`",
	TokenBang:       "`!`",
	TokenQuestion:   "`?`",
	TokenUnderscore: "`_`",
	TokenLBrace:     "`{`",
	TokenRBrace:     "`}`",
	TokenLiteral:    "string literal",
	TokenPunct:      "operator",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is a lexical token of an attribute body. Line and Column are 1-based
// and relative to the start of the body; Offset is the 0-based rune offset.
type Token struct {
	Kind   TokenKind
	Text   string
	Offset int
	Line   int
	Column int
}

// IsKeyword reports whether the token is the identifier kw.
func (t Token) IsKeyword(kw string) bool {
	return t.Kind == TokenIdent && t.Text == kw
}

// describe renders the token for error messages.
func (t Token) describe() string {
	switch t.Kind {
	case TokenEOF:
		return "end of input"
	case TokenIdent, TokenLifetime, TokenInteger, TokenLiteral, TokenPunct:
		return "`" + t.Text + "`"
	}
	return t.Kind.String()
}

// strictKeywords cannot be used as plain identifiers.
var strictKeywords = map[string]bool{
	"as": true, "break": true, "const": true, "continue": true, "crate": true,
	"dyn": true, "else": true, "enum": true, "extern": true, "false": true,
	"fn": true, "for": true, "if": true, "impl": true, "in": true,
	"let": true, "loop": true, "match": true, "mod": true, "move": true,
	"mut": true, "pub": true, "ref": true, "return": true, "self": true,
	"Self": true, "static": true, "struct": true, "super": true, "trait": true,
	"true": true, "type": true, "unsafe": true, "use": true, "where": true,
	"while": true, "async": true, "await": true,
}

// pathKeywords may start or appear in a path even though they are keywords.
var pathKeywords = map[string]bool{
	"crate": true, "self": true, "Self": true, "super": true,
}

func isPlainIdent(t Token) bool {
	return t.Kind == TokenIdent && !strictKeywords[t.Text]
}

func isPathSegment(t Token) bool {
	return t.Kind == TokenIdent && (!strictKeywords[t.Text] || pathKeywords[t.Text])
}
