// Package dispatcherr defines the errors reported while expanding an
// enum_dispatch declaration. Every error points back at the declaration,
// variant or attribute token that caused it.
package dispatcherr

import (
	"fmt"
)

// ErrorType defines the category of the error.
type ErrorType string

const (
	TypeGrammar          ErrorType = "GrammarError"
	TypeShape            ErrorType = "ShapeError"
	TypeMissingAttribute ErrorType = "MissingAttributeError"
	TypeReceiver         ErrorType = "ReceiverError"
)

// Position is a location in the declaration source. Line and Column are
// 1-based; a zero Line means the location is unknown.
type Position struct {
	File   string
	Line   int
	Column int
}

// IsValid reports whether the position carries a line number.
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	switch {
	case !p.IsValid() && p.File == "":
		return ""
	case !p.IsValid():
		return p.File
	case p.File == "":
		return fmt.Sprintf("line %d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Advance returns the absolute position of a location given relative to p.
// line and column are 1-based; a location on the first line is offset by
// p's column, later lines keep their own column.
func (p Position) Advance(line, column int) Position {
	if !p.IsValid() {
		return Position{File: p.File, Line: line, Column: column}
	}
	if line <= 1 {
		return Position{File: p.File, Line: p.Line, Column: p.Column + column - 1}
	}
	return Position{File: p.File, Line: p.Line + line - 1, Column: column}
}

// DispatchError is the interface for all expansion errors.
type DispatchError interface {
	error
	Type() ErrorType
	Pos() Position
}

// BaseError provides common fields for expansion errors.
type BaseError struct {
	Msg      string
	ErrType  ErrorType
	Position Position
}

func (e *BaseError) Error() string {
	if loc := e.Position.String(); loc != "" {
		return fmt.Sprintf("[%s] %s %s", e.ErrType, loc, e.Msg)
	}
	return fmt.Sprintf("[%s] %s", e.ErrType, e.Msg)
}

func (e *BaseError) Type() ErrorType {
	return e.ErrType
}

func (e *BaseError) Pos() Position {
	return e.Position
}

// GrammarError reports malformed attribute text: an unexpected token, a
// missing required token or an unrecognized keyword.
type GrammarError struct {
	BaseError
}

// ShapeError reports a declaration that is not an enum, or a variant that
// does not wrap exactly one unnamed payload field.
type ShapeError struct {
	BaseError
}

// MissingAttributeError reports an enum without the container attribute
// naming the target trait.
type MissingAttributeError struct {
	BaseError
}

// ReceiverError reports a function signature whose first parameter is not
// a receiver.
type ReceiverError struct {
	BaseError
}

// NewGrammarError creates a new GrammarError.
func NewGrammarError(pos Position, msg string) *GrammarError {
	return &GrammarError{BaseError{Msg: msg, ErrType: TypeGrammar, Position: pos}}
}

// NewGrammarErrorf creates a new GrammarError with a formatted message.
func NewGrammarErrorf(pos Position, format string, args ...any) *GrammarError {
	return NewGrammarError(pos, fmt.Sprintf(format, args...))
}

// NewShapeError creates a new ShapeError.
func NewShapeError(pos Position, msg string) *ShapeError {
	return &ShapeError{BaseError{Msg: msg, ErrType: TypeShape, Position: pos}}
}

// NewMissingAttributeError creates a new MissingAttributeError.
func NewMissingAttributeError(pos Position, msg string) *MissingAttributeError {
	return &MissingAttributeError{BaseError{Msg: msg, ErrType: TypeMissingAttribute, Position: pos}}
}

// NewReceiverError creates a new ReceiverError.
func NewReceiverError(pos Position, msg string) *ReceiverError {
	return &ReceiverError{BaseError{Msg: msg, ErrType: TypeReceiver, Position: pos}}
}
