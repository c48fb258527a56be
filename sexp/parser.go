package sexp

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Parser turns token streams into Expr trees.
//
// The zero value is not useful; construct with NewParser. The one knob is
// numeric interpretation: with read-number on (the default), atom tokens
// that parse as signed 64-bit integers become number scalars, otherwise
// they stay symbols.
type Parser struct {
	readNumber bool
}

// NewParser returns a parser with read-number enabled.
func NewParser() *Parser {
	return &Parser{readNumber: true}
}

// ConfigReadNumber sets numeric interpretation and returns the parser for
// chaining.
func (p *Parser) ConfigReadNumber(v bool) *Parser {
	p.readNumber = v
	return p
}

// ParseRoot consumes every top-level form in the stream. Each form must
// begin with '('; whitespace between forms is skipped.
func (p *Parser) ParseRoot(r io.Reader) ([]Expr, error) {
	ts := &tokenStream{toks: Tokenize(r)}
	var res []Expr
	for {
		t, ok := ts.peek()
		if !ok {
			return res, nil
		}
		switch t.Type {
		case TokenLParen:
			e, err := p.readList(ts)
			if err != nil {
				return nil, err
			}
			res = append(res, e)
		case TokenSpace, TokenNewline:
			ts.next()
		default:
			return nil, invalidStart("expected ( at top level, got "+strconv.Quote(t.Value), t.Pos)
		}
	}
}

// ParseRootOne is ParseRoot but returns after the first form; remaining
// tokens are ignored.
func (p *Parser) ParseRootOne(r io.Reader) (Expr, error) {
	ts := &tokenStream{toks: Tokenize(r)}
	for {
		t, ok := ts.peek()
		if !ok {
			return nil, invalidToken("ran out of tokens before a form", lexer.Position{})
		}
		switch t.Type {
		case TokenLParen:
			return p.readList(ts)
		case TokenSpace, TokenNewline:
			ts.next()
		default:
			return nil, invalidStart("expected ( at top level, got "+strconv.Quote(t.Value), t.Pos)
		}
	}
}

// ParseExpr reads exactly one form of any kind — list, quote, string,
// keyword, or atom — skipping leading whitespace. Unlike ParseRoot it
// accepts quoted forms at the top, which is what the data layer needs to
// read list and map literals.
func (p *Parser) ParseExpr(r io.Reader) (Expr, error) {
	ts := &tokenStream{toks: Tokenize(r)}
	ts.skipWhitespace()
	if _, ok := ts.peek(); !ok {
		return nil, invalidToken("empty input", lexer.Position{})
	}
	return p.readForm(ts)
}

// ParseExprString is ParseExpr over a string.
func (p *Parser) ParseExprString(s string) (Expr, error) {
	return p.ParseExpr(strings.NewReader(s))
}

// readForm dispatches on the next token to the matching reader.
func (p *Parser) readForm(ts *tokenStream) (Expr, error) {
	t, ok := ts.peek()
	if !ok {
		return nil, invalidToken("no token to read", lexer.Position{})
	}
	switch t.Type {
	case TokenLParen:
		return p.readList(ts)
	case TokenQuote:
		return p.readQuote(ts)
	case TokenDoubleQuote:
		return p.readString(ts)
	case TokenColon:
		return p.readKeyword(ts)
	case TokenRParen:
		return nil, invalidToken(") outside a list", t.Pos)
	default:
		return p.readAtom(ts)
	}
}

// readList consumes from '(' to the matching ')', skipping whitespace
// between elements.
func (p *Parser) readList(ts *tokenStream) (Expr, error) {
	ts.next() // consume (
	var elems []Expr
	for {
		t, ok := ts.peek()
		if !ok {
			return nil, invalidToken("tokens ran out inside a list", lexer.Position{})
		}
		switch t.Type {
		case TokenRParen:
			ts.next()
			return &List{Elems: elems}, nil
		case TokenSpace, TokenNewline:
			ts.next()
		default:
			e, err := p.readForm(ts)
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
	}
}

func (p *Parser) readQuote(ts *tokenStream) (Expr, error) {
	qt, _ := ts.next() // consume '
	if _, ok := ts.peek(); !ok {
		return nil, invalidToken("nothing to quote", qt.Pos)
	}
	inner, err := p.readForm(ts)
	if err != nil {
		return nil, err
	}
	return &Quote{Inner: inner}, nil
}

// readString consumes from the opening '"' to the first unescaped '"'. The
// tokenizer split the contents at delimiters; this reassembles them. A
// backslash token passes the following token through verbatim.
func (p *Parser) readString(ts *tokenStream) (Expr, error) {
	ts.next() // consume "
	var (
		sb     strings.Builder
		escape bool
	)
	for {
		t, ok := ts.next()
		if !ok {
			return nil, invalidToken("tokens ran out inside a string", lexer.Position{})
		}
		if escape {
			sb.WriteString(t.Value)
			escape = false
			continue
		}
		switch {
		case t.Type == TokenText && t.Value == `\`:
			escape = true
		case t.Type == TokenDoubleQuote:
			return &Atom{Value: StringValue(sb.String())}, nil
		default:
			sb.WriteString(t.Value)
		}
	}
}

// readKeyword consumes ':' and takes the next token as the keyword text.
func (p *Parser) readKeyword(ts *tokenStream) (Expr, error) {
	ct, _ := ts.next() // consume :
	t, ok := ts.next()
	if !ok {
		return nil, invalidToken("tokens ran out after :", ct.Pos)
	}
	return &Atom{Value: KeywordValue(t.Value)}, nil
}

func (p *Parser) readAtom(ts *tokenStream) (Expr, error) {
	t, ok := ts.next()
	if !ok {
		return nil, invalidToken("no atom token", lexer.Position{})
	}
	if p.readNumber {
		if n, err := strconv.ParseInt(t.Value, 10, 64); err == nil {
			return &Atom{Value: NumberValue(n)}, nil
		}
	}
	return &Atom{Value: SymbolValue(t.Value)}, nil
}

// tokenStream is a cursor over a tokenized input.
type tokenStream struct {
	toks []lexer.Token
	pos  int
}

func (s *tokenStream) peek() (lexer.Token, bool) {
	if s.pos >= len(s.toks) {
		return lexer.Token{}, false
	}
	return s.toks[s.pos], true
}

func (s *tokenStream) next() (lexer.Token, bool) {
	t, ok := s.peek()
	if ok {
		s.pos++
	}
	return t, ok
}

func (s *tokenStream) skipWhitespace() {
	for {
		t, ok := s.peek()
		if !ok || (t.Type != TokenSpace && t.Type != TokenNewline) {
			return
		}
		s.pos++
	}
}
