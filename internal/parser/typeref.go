package parser

// parseType parses a single type reference at the cursor.
func (c *cursor) parseType() (Type, error) {
	tok := c.peek()
	switch tok.Kind {
	case TokenLParen:
		return c.parseTupleOrParen()
	case TokenLBracket:
		return c.parseSliceOrArray()
	case TokenAmp:
		return c.parseReference()
	case TokenStar:
		return c.parsePointer()
	case TokenLAngle:
		return c.parseQualifiedPath()
	case TokenBang:
		c.next()
		return NeverType{}, nil
	case TokenUnderscore:
		c.next()
		return InferType{}, nil
	case TokenColonColon:
		return c.parsePath()
	case TokenIdent:
		switch {
		case tok.IsKeyword("dyn"), tok.IsKeyword("impl"):
			return c.parseTraitObject()
		case tok.IsKeyword("for"):
			lifetimes, err := c.parseForLifetimes()
			if err != nil {
				return nil, err
			}
			return c.parseFnPtr(lifetimes)
		case tok.IsKeyword("fn"), tok.IsKeyword("unsafe"), tok.IsKeyword("extern"):
			return c.parseFnPtr(nil)
		case isPathSegment(tok):
			return c.parsePath()
		}
	}
	if tok.Kind == TokenEOF {
		return nil, c.errorAt(tok, "unexpected end of input, expected a type")
	}
	return nil, c.errorAt(tok, "expected a type, found "+tok.describe())
}

func (c *cursor) parseTupleOrParen() (Type, error) {
	if _, err := c.expect(TokenLParen); err != nil {
		return nil, err
	}
	if c.eat(TokenRParen) {
		return &TupleType{}, nil
	}
	first, err := c.parseType()
	if err != nil {
		return nil, err
	}
	if c.eat(TokenRParen) {
		return &ParenType{Elem: first}, nil
	}
	if _, err := c.expect(TokenComma); err != nil {
		return nil, err
	}
	elems := []Type{first}
	for !c.eat(TokenRParen) {
		elem, err := c.parseType()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
		if c.eat(TokenRParen) {
			break
		}
		if _, err := c.expect(TokenComma); err != nil {
			return nil, err
		}
	}
	return &TupleType{Elems: elems}, nil
}

func (c *cursor) parseSliceOrArray() (Type, error) {
	if _, err := c.expect(TokenLBracket); err != nil {
		return nil, err
	}
	elem, err := c.parseType()
	if err != nil {
		return nil, err
	}
	if c.eat(TokenRBracket) {
		return &SliceType{Elem: elem}, nil
	}
	if _, err := c.expect(TokenSemi); err != nil {
		return nil, err
	}

	if tok := c.peek(); tok.Kind == TokenRBracket {
		return nil, c.errorAt(tok, "expected an array length, found "+tok.describe())
	}
	length, err := c.parseConstExpr(TokenRBracket)
	if err != nil {
		return nil, err
	}
	if _, err := c.expect(TokenRBracket); err != nil {
		return nil, err
	}
	return &ArrayType{Elem: elem, Len: length}, nil
}

// parseConstExpr consumes the tokens of a const expression up to the
// unnested closing delimiter end, which is left in place. The expression is
// returned as written.
func (c *cursor) parseConstExpr(end TokenKind) (string, error) {
	first := c.peek()
	var last Token
	depth := 0
	for {
		tok := c.peek()
		switch tok.Kind {
		case TokenEOF:
			return "", c.errorAt(tok, "unexpected end of input, expected "+end.String())
		case TokenLParen, TokenLBracket, TokenLBrace:
			depth++
		case TokenRParen, TokenRBracket, TokenRBrace:
			if depth == 0 {
				if tok.Kind != end {
					return "", c.errorAt(tok, "expected "+end.String()+", found "+tok.describe())
				}
				if tok == first {
					return "", nil
				}
				return c.sourceText(first, last), nil
			}
			depth--
		}
		last = c.next()
	}
}

// parseConstBlock parses a braced const argument such as `{ N + 1 }`.
func (c *cursor) parseConstBlock() (string, error) {
	open, err := c.expect(TokenLBrace)
	if err != nil {
		return "", err
	}
	if _, err := c.parseConstExpr(TokenRBrace); err != nil {
		return "", err
	}
	closing, err := c.expect(TokenRBrace)
	if err != nil {
		return "", err
	}
	return c.sourceText(open, closing), nil
}

func (c *cursor) parseReference() (Type, error) {
	if _, err := c.expect(TokenAmp); err != nil {
		return nil, err
	}
	ref := &RefType{}
	if c.peek().Kind == TokenLifetime {
		ref.Lifetime = c.next().Text
	}
	ref.Mutable = c.eatKeyword("mut")
	elem, err := c.parseType()
	if err != nil {
		return nil, err
	}
	ref.Elem = elem
	return ref, nil
}

func (c *cursor) parsePointer() (Type, error) {
	if _, err := c.expect(TokenStar); err != nil {
		return nil, err
	}
	ptr := &PtrType{}
	switch la := c.lookahead(); {
	case la.keyword("const"):
		c.next()
	case la.keyword("mut"):
		c.next()
		ptr.Mutable = true
	default:
		return nil, la.error()
	}
	elem, err := c.parseType()
	if err != nil {
		return nil, err
	}
	ptr.Elem = elem
	return ptr, nil
}

// parseQualifiedPath parses `<T as Trait>::Name` and `<T>::Name`.
func (c *cursor) parseQualifiedPath() (Type, error) {
	if _, err := c.expect(TokenLAngle); err != nil {
		return nil, err
	}
	self, err := c.parseType()
	if err != nil {
		return nil, err
	}
	q := &QualifiedPathType{Self: self}
	if c.eatKeyword("as") {
		trait, err := c.parsePath()
		if err != nil {
			return nil, err
		}
		q.Trait = trait
	}
	if _, err := c.expect(TokenRAngle); err != nil {
		return nil, err
	}
	if _, err := c.expect(TokenColonColon); err != nil {
		return nil, err
	}
	segments, err := c.parsePathSegments()
	if err != nil {
		return nil, err
	}
	q.Segments = segments
	return q, nil
}

func (c *cursor) parseTraitObject() (Type, error) {
	obj := &TraitObjectType{}
	if c.eatKeyword("impl") {
		obj.Impl = true
	} else if _, err := c.expectKeyword("dyn"); err != nil {
		return nil, err
	}
	for {
		bound, err := c.parseBound()
		if err != nil {
			return nil, err
		}
		obj.Bounds = append(obj.Bounds, bound)
		if !c.eat(TokenPlus) {
			return obj, nil
		}
	}
}

func (c *cursor) parseBound() (Bound, error) {
	if c.peek().Kind == TokenLifetime {
		return Bound{Lifetime: c.next().Text}, nil
	}
	bound := Bound{Maybe: c.eat(TokenQuestion)}
	if c.peek().IsKeyword("for") {
		lifetimes, err := c.parseForLifetimes()
		if err != nil {
			return Bound{}, err
		}
		bound.For = lifetimes
	}
	path, err := c.parsePath()
	if err != nil {
		return Bound{}, err
	}
	bound.Trait = path
	return bound, nil
}

// parseForLifetimes parses a higher-ranked binder `for<'a, 'b>`.
func (c *cursor) parseForLifetimes() ([]string, error) {
	if _, err := c.expectKeyword("for"); err != nil {
		return nil, err
	}
	if _, err := c.expect(TokenLAngle); err != nil {
		return nil, err
	}
	var lifetimes []string
	for !c.eat(TokenRAngle) {
		tok, err := c.expect(TokenLifetime)
		if err != nil {
			return nil, err
		}
		lifetimes = append(lifetimes, tok.Text)
		if c.eat(TokenRAngle) {
			break
		}
		if _, err := c.expect(TokenComma); err != nil {
			return nil, err
		}
	}
	return lifetimes, nil
}

func (c *cursor) parseFnPtr(lifetimes []string) (Type, error) {
	fn := &FnPtrType{For: lifetimes, Unsafe: c.eatKeyword("unsafe")}
	if c.eatKeyword("extern") {
		fn.Extern = true
		if c.peek().Kind == TokenLiteral {
			fn.ABI = c.next().Text
		}
	}
	if _, err := c.expectKeyword("fn"); err != nil {
		return nil, err
	}
	if err := c.parseFnPtrInputs(fn); err != nil {
		return nil, err
	}
	if c.eat(TokenArrow) {
		out, err := c.parseType()
		if err != nil {
			return nil, err
		}
		fn.Output = out
	}
	return fn, nil
}

// parseFnPtrInputs parses `(a: A, B, ...)`.
func (c *cursor) parseFnPtrInputs(fn *FnPtrType) error {
	if _, err := c.expect(TokenLParen); err != nil {
		return err
	}
	for !c.eat(TokenRParen) {
		if tok := c.peek(); tok.Kind == TokenPunct && tok.Text == "..." {
			c.next()
			fn.Variadic = true
			c.eat(TokenComma)
			_, err := c.expect(TokenRParen)
			return err
		}

		var input FnInput
		if tok := c.peek(); (isPlainIdent(tok) || tok.Kind == TokenUnderscore) && c.peekN(2).Kind == TokenColon {
			input.Name = c.next().Text
			c.next()
		}
		t, err := c.parseType()
		if err != nil {
			return err
		}
		input.Type = t
		fn.Inputs = append(fn.Inputs, input)
		if c.eat(TokenRParen) {
			break
		}
		if _, err := c.expect(TokenComma); err != nil {
			return err
		}
	}
	return nil
}

// parseParenTypes parses `( T, U, )`.
func (c *cursor) parseParenTypes() ([]Type, error) {
	if _, err := c.expect(TokenLParen); err != nil {
		return nil, err
	}
	var types []Type
	for !c.eat(TokenRParen) {
		t, err := c.parseType()
		if err != nil {
			return nil, err
		}
		types = append(types, t)
		if c.eat(TokenRParen) {
			break
		}
		if _, err := c.expect(TokenComma); err != nil {
			return nil, err
		}
	}
	return types, nil
}

func (c *cursor) parsePath() (*PathType, error) {
	path := &PathType{Global: c.eat(TokenColonColon)}
	segments, err := c.parsePathSegments()
	if err != nil {
		return nil, err
	}
	path.Segments = segments
	return path, nil
}

func (c *cursor) parsePathSegments() ([]PathSegment, error) {
	var segments []PathSegment
	for {
		tok := c.peek()
		if !isPathSegment(tok) {
			if tok.Kind == TokenEOF {
				return nil, c.errorAt(tok, "unexpected end of input, expected a path segment")
			}
			return nil, c.errorAt(tok, "expected a path segment, found "+tok.describe())
		}
		c.next()
		seg := PathSegment{Ident: tok.Text}

		// Turbofish is accepted in type position and normalized away.
		if c.peek().Kind == TokenColonColon && c.peekN(2).Kind == TokenLAngle {
			c.next()
		}
		switch c.peek().Kind {
		case TokenLAngle:
			args, err := c.parseAngleArgs()
			if err != nil {
				return nil, err
			}
			seg.Args = args
		case TokenLParen:
			args, err := c.parseParenArgs()
			if err != nil {
				return nil, err
			}
			seg.Args = args
		}
		segments = append(segments, seg)

		if !c.eat(TokenColonColon) {
			return segments, nil
		}
	}
}

func (c *cursor) parseAngleArgs() (*GenericArgs, error) {
	if _, err := c.expect(TokenLAngle); err != nil {
		return nil, err
	}
	args := &GenericArgs{}
	for !c.eat(TokenRAngle) {
		arg, err := c.parseGenericArg()
		if err != nil {
			return nil, err
		}
		args.Args = append(args.Args, arg)
		if c.eat(TokenRAngle) {
			break
		}
		if _, err := c.expect(TokenComma); err != nil {
			return nil, err
		}
	}
	return args, nil
}

func (c *cursor) parseGenericArg() (GenericArg, error) {
	tok := c.peek()
	switch {
	case tok.Kind == TokenLifetime:
		c.next()
		return GenericArg{Lifetime: tok.Text}, nil
	case tok.Kind == TokenInteger, tok.Kind == TokenLiteral, tok.IsKeyword("true"), tok.IsKeyword("false"):
		c.next()
		return GenericArg{Const: tok.Text}, nil
	case tok.Kind == TokenPunct && tok.Text == "-" && c.peekN(2).Kind == TokenInteger:
		c.next()
		return GenericArg{Const: "-" + c.next().Text}, nil
	case tok.Kind == TokenLBrace:
		block, err := c.parseConstBlock()
		if err != nil {
			return GenericArg{}, err
		}
		return GenericArg{Const: block}, nil
	case isPlainIdent(tok) && c.peekN(2).Kind == TokenEq:
		c.next()
		c.next()
		t, err := c.parseType()
		if err != nil {
			return GenericArg{}, err
		}
		return GenericArg{Binding: tok.Text, Type: t}, nil
	}
	t, err := c.parseType()
	if err != nil {
		return GenericArg{}, err
	}
	return GenericArg{Type: t}, nil
}

func (c *cursor) parseParenArgs() (*GenericArgs, error) {
	inputs, err := c.parseParenTypes()
	if err != nil {
		return nil, err
	}
	args := &GenericArgs{Paren: true, Inputs: inputs}
	if c.eat(TokenArrow) {
		out, err := c.parseType()
		if err != nil {
			return nil, err
		}
		args.Output = out
	}
	return args, nil
}
