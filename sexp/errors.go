package sexp

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// ErrorKind classifies parse failures.
type ErrorKind int

const (
	// InvalidStart means the parser expected a '(' at the top level.
	InvalidStart ErrorKind = iota
	// InvalidToken means the parser hit an unexpected token or ran out of
	// tokens mid-form.
	InvalidToken
	// CorruptData means a scalar was built from text that can never appear
	// in serialized output (currently: a symbol containing a space).
	CorruptData
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidStart:
		return "invalid start"
	case InvalidToken:
		return "invalid token"
	case CorruptData:
		return "corrupt data"
	default:
		return "unknown"
	}
}

// ParseError is returned by the tokenizer-facing entry points. Pos is the
// zero value when the failure is not tied to a token (e.g. exhausted input).
type ParseError struct {
	Kind    ErrorKind
	Context string
	Pos     lexer.Position
}

func (e *ParseError) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("sexp: %s: %s at %s", e.Kind, e.Context, e.Pos)
	}
	return fmt.Sprintf("sexp: %s: %s", e.Kind, e.Context)
}

func invalidStart(ctx string, pos lexer.Position) *ParseError {
	return &ParseError{Kind: InvalidStart, Context: ctx, Pos: pos}
}

func invalidToken(ctx string, pos lexer.Position) *ParseError {
	return &ParseError{Kind: InvalidToken, Context: ctx, Pos: pos}
}
