package parser

import (
	"martianoff/enumdispatch/dispatcherr"
)

// fnParam is one entry of a parameter list before the receiver is split off.
type fnParam struct {
	receiver *Receiver
	param    Param
	tok      Token
}

// ParseFunctionAttribute parses the body of a function attribute, e.g.
// `fn area(&self, scale: f64) -> f64`. The first parameter must be a
// receiver; it is removed from Params and kept in Receiver.
func ParseFunctionAttribute(text string, pos dispatcherr.Position) (*FunctionAttribute, error) {
	c, err := newCursor(text, pos)
	if err != nil {
		return nil, err
	}

	fnTok, err := c.expectKeyword("fn")
	if err != nil {
		return nil, err
	}
	name, err := c.expectIdent()
	if err != nil {
		return nil, err
	}
	open, err := c.expect(TokenLParen)
	if err != nil {
		return nil, err
	}

	var entries []fnParam
	for !c.eat(TokenRParen) {
		entry, err := c.parseFnParam()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
		if c.eat(TokenRParen) {
			break
		}
		if _, err := c.expect(TokenComma); err != nil {
			return nil, err
		}
	}

	if len(entries) == 0 {
		return nil, dispatcherr.NewReceiverError(c.position(open), "expected a receiver parameter")
	}
	if entries[0].receiver == nil {
		return nil, dispatcherr.NewReceiverError(c.position(entries[0].tok), "expected a receiver parameter")
	}

	fn := &FunctionAttribute{
		Name:     name.Text,
		Receiver: *entries[0].receiver,
		Pos:      c.position(fnTok),
	}
	for _, entry := range entries[1:] {
		if entry.receiver != nil {
			return nil, c.errorAt(entry.tok, "the receiver must be the first parameter")
		}
		fn.Params = append(fn.Params, entry.param)
	}

	if c.eat(TokenArrow) {
		ret, err := c.parseType()
		if err != nil {
			return nil, err
		}
		fn.Return = ret
	}
	if err := c.expectEnd(); err != nil {
		return nil, err
	}
	return fn, nil
}

func (c *cursor) parseFnParam() (fnParam, error) {
	start := c.peek()
	entry := fnParam{tok: start}

	if recv, ok := c.parseSelfReceiver(); ok {
		if c.eat(TokenColon) {
			t, err := c.parseType()
			if err != nil {
				return fnParam{}, err
			}
			typed := receiverFromType(t)
			if typed == nil {
				typed = &Receiver{Kind: ReceiverValue, Typed: t}
			}
			typed.Mutable = recv.Mutable && typed.Kind == ReceiverValue
			recv = typed
		}
		entry.receiver = recv
		return entry, nil
	}

	switch {
	case start.IsKeyword("mut") && isPlainIdent(c.peekN(2)) && c.peekN(3).Kind == TokenColon:
		c.next()
		entry.param.Name = c.next().Text
		c.next()
	case isPlainIdent(start) && c.peekN(2).Kind == TokenColon:
		entry.param.Name = c.next().Text
		c.next()
	case start.Kind == TokenUnderscore && c.peekN(2).Kind == TokenColon:
		c.next()
		c.next()
	case start.Kind == TokenLParen && c.patternFollowedByColon():
		c.skipBalanced()
		c.next()
	}

	t, err := c.parseType()
	if err != nil {
		return fnParam{}, err
	}
	if recv := receiverFromType(t); recv != nil {
		entry.receiver = recv
		return entry, nil
	}
	entry.param.Type = t
	entry.param.Pos = c.position(start)
	return entry, nil
}

// parseSelfReceiver consumes one of `self`, `mut self`, `&self`,
// `&mut self`, `&'a self` and `&'a mut self`.
func (c *cursor) parseSelfReceiver() (*Receiver, bool) {
	switch {
	case c.peek().IsKeyword("self"):
		c.next()
		return &Receiver{Kind: ReceiverValue}, true
	case c.peek().IsKeyword("mut") && c.peekN(2).IsKeyword("self"):
		c.next()
		c.next()
		return &Receiver{Kind: ReceiverValue, Mutable: true}, true
	case c.peek().Kind != TokenAmp:
		return nil, false
	}

	i := 2
	var lifetime string
	if tok := c.peekN(i); tok.Kind == TokenLifetime {
		lifetime = tok.Text
		i++
	}
	kind := ReceiverRef
	if c.peekN(i).IsKeyword("mut") {
		kind = ReceiverRefMut
		i++
	}
	if !c.peekN(i).IsKeyword("self") {
		return nil, false
	}
	for ; i > 0; i-- {
		c.next()
	}
	return &Receiver{Kind: kind, Lifetime: lifetime}, true
}

// receiverFromType recognizes the types `Self`, `&Self` and `&mut Self`.
func receiverFromType(t Type) *Receiver {
	if IsSelfType(t) {
		return &Receiver{Kind: ReceiverValue}
	}
	ref, ok := t.(*RefType)
	if !ok || !IsSelfType(ref.Elem) {
		return nil
	}
	if ref.Mutable {
		return &Receiver{Kind: ReceiverRefMut, Lifetime: ref.Lifetime}
	}
	return &Receiver{Kind: ReceiverRef, Lifetime: ref.Lifetime}
}

// patternFollowedByColon reports whether the parenthesized group at the
// cursor is a tuple pattern, i.e. it is followed by `:`.
func (c *cursor) patternFollowedByColon() bool {
	depth := 0
	for i := c.pos; i < len(c.tokens); i++ {
		switch c.tokens[i].Kind {
		case TokenLParen:
			depth++
		case TokenRParen:
			depth--
			if depth == 0 {
				return i+1 < len(c.tokens) && c.tokens[i+1].Kind == TokenColon
			}
		case TokenEOF:
			return false
		}
	}
	return false
}

// skipBalanced consumes a parenthesized group.
func (c *cursor) skipBalanced() {
	depth := 0
	for !c.isEmpty() {
		switch c.next().Kind {
		case TokenLParen:
			depth++
		case TokenRParen:
			depth--
			if depth == 0 {
				return
			}
		}
	}
}
