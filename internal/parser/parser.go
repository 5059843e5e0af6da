// Package parser implements the attribute grammars of enum_dispatch: the
// container grammar naming the target trait, the variant grammar carrying
// per-variant flags, and the function grammar describing a trait function to
// forward. All of them share a Rust type-reference grammar.
//
// Each grammar is a small recursive-descent parser that decides between
// alternatives with one token of lookahead. Positions in errors are absolute:
// callers pass the position of the first character of the attribute body.
package parser

import (
	"martianoff/enumdispatch/dispatcherr"
)

// ParseType parses text as exactly one type reference.
func ParseType(text string, pos dispatcherr.Position) (Type, error) {
	c, err := newCursor(text, pos)
	if err != nil {
		return nil, err
	}
	t, err := c.parseType()
	if err != nil {
		return nil, err
	}
	if err := c.expectEnd(); err != nil {
		return nil, err
	}
	return t, nil
}

// ParseContainerAttribute parses the body of the container attribute,
// e.g. `TestTrait` in `#[enum_dispatch(TestTrait)]`.
func ParseContainerAttribute(text string, pos dispatcherr.Position) (*ContainerAttribute, error) {
	c, err := newCursor(text, pos)
	if err != nil {
		return nil, err
	}
	if c.isEmpty() {
		return nil, c.errorAt(c.peek(), "expected a trait type")
	}
	start := c.peek()
	trait, err := c.parseType()
	if err != nil {
		return nil, err
	}
	if err := c.expectEnd(); err != nil {
		return nil, err
	}
	return &ContainerAttribute{Trait: trait, Pos: c.position(start)}, nil
}

// ParseVariantAttribute parses the body of a variant attribute, e.g.
// `from, modifier = deref`. Empty text yields the defaults.
func ParseVariantAttribute(text string, pos dispatcherr.Position) (*VariantAttribute, error) {
	c, err := newCursor(text, pos)
	if err != nil {
		return nil, err
	}

	attr := &VariantAttribute{}
	var seenFrom, seenModifier bool
	for !c.isEmpty() {
		tok := c.peek()
		la := c.lookahead()
		switch {
		case la.keyword("from"):
			c.next()
			if seenFrom {
				return nil, c.errorAt(tok, "duplicate `from`")
			}
			seenFrom = true
			attr.From = true
		case la.keyword("modifier"):
			c.next()
			if seenModifier {
				return nil, c.errorAt(tok, "duplicate `modifier`")
			}
			seenModifier = true
			if _, err := c.expect(TokenEq); err != nil {
				return nil, err
			}
			m, err := c.parseModifier()
			if err != nil {
				return nil, err
			}
			attr.Modifier = m
		default:
			return nil, la.error()
		}

		if c.isEmpty() {
			break
		}
		if _, err := c.expect(TokenComma); err != nil {
			return nil, err
		}
	}
	return attr, nil
}

func (c *cursor) parseModifier() (Modifier, error) {
	switch la := c.lookahead(); {
	case la.keyword("as_ref"):
		c.next()
		return ModifierAsRef, nil
	case la.keyword("deref"):
		c.next()
		return ModifierDeref, nil
	default:
		return ModifierNone, la.error()
	}
}
