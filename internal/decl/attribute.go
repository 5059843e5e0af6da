package decl

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ParseAttribute splits an attribute written in Rust syntax, such as
// `function(fn test(&self))` or `#[enum_dispatch(from)]`, into its path and
// body. The returned column is the 1-based rune offset of the body in s.
func ParseAttribute(s string) (path, body string, column int, err error) {
	start := len(s) - len(strings.TrimLeft(s, " \t\r\n"))
	end := len(strings.TrimRight(s, " \t\r\n"))
	if start >= end {
		return "", "", 0, fmt.Errorf("empty attribute")
	}

	if strings.HasPrefix(s[start:end], "#[") {
		if s[end-1] != ']' {
			return "", "", 0, fmt.Errorf("attribute %q: missing closing `]`", s)
		}
		start += 2
		end--
	}

	i := start
	for i < end && isPathChar(s[i]) {
		i++
	}
	path = s[start:i]
	if path == "" {
		return "", "", 0, fmt.Errorf("attribute %q: expected an attribute path", s)
	}
	for i < end && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	if i >= end || s[i] != '(' {
		return "", "", 0, fmt.Errorf("attribute %q: expected `(` after `%s`", s, path)
	}
	// The body must end with the parenthesis closing the one after the path.
	last := closingParen(s[:end], i)
	if last != end-1 {
		return "", "", 0, fmt.Errorf("attribute %q: expected `)` at the end", s)
	}

	bodyStart := i + 1
	return path, s[bodyStart:last], utf8.RuneCountInString(s[:bodyStart]) + 1, nil
}

func isPathChar(c byte) bool {
	return c == '_' || c == ':' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// closingParen returns the index of the `)` matching the `(` at s[open], or
// -1 when it is never closed.
func closingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
