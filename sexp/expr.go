// Package sexp tokenizes and parses the S-expression surface syntax used by
// lisp-rpc for both on-the-wire data and IDL spec files.
//
// The tokenizer keeps delimiters as individual tokens (runs of spaces are
// collapsed to one), so joining a token stream back together reproduces the
// input. The parser builds an Expr tree from that stream; quoting is
// preserved as an explicit node because the data layer needs it to tell list
// and map literals apart from record invocations.
package sexp

import (
	"strconv"
	"strings"
)

// ValueKind tags the scalar variants a TypeValue can hold.
type ValueKind int

const (
	KindSymbol ValueKind = iota
	KindString
	KindKeyword
	KindNumber
)

func (k ValueKind) String() string {
	switch k {
	case KindSymbol:
		return "symbol"
	case KindString:
		return "string"
	case KindKeyword:
		return "keyword"
	case KindNumber:
		return "number"
	default:
		return "unknown"
	}
}

// TypeValue is one scalar: a symbol, string, keyword, or signed 64-bit
// number. Text carries the payload for all kinds except KindNumber.
type TypeValue struct {
	Kind ValueKind
	Text string
	Num  int64
}

// String renders the scalar in wire form: strings quoted, keywords with a
// leading ':', numbers in decimal, symbols bare.
func (v TypeValue) String() string {
	switch v.Kind {
	case KindString:
		return "\"" + v.Text + "\""
	case KindKeyword:
		return ":" + v.Text
	case KindNumber:
		return strconv.FormatInt(v.Num, 10)
	default:
		return v.Text
	}
}

// SymbolValue makes a symbol scalar without validation. Use MakeSymbol when
// the text comes from outside the tokenizer.
func SymbolValue(s string) TypeValue { return TypeValue{Kind: KindSymbol, Text: s} }

// StringValue makes a string scalar.
func StringValue(s string) TypeValue { return TypeValue{Kind: KindString, Text: s} }

// KeywordValue makes a keyword scalar (text without the leading ':').
func KeywordValue(s string) TypeValue { return TypeValue{Kind: KindKeyword, Text: s} }

// NumberValue makes a number scalar.
func NumberValue(n int64) TypeValue { return TypeValue{Kind: KindNumber, Num: n} }

// MakeSymbol validates that s can serialize back as a single symbol token.
// A symbol containing a space would split on re-read, so it is rejected
// with a CorruptData error.
func MakeSymbol(s string) (TypeValue, error) {
	if strings.Contains(s, " ") {
		return TypeValue{}, &ParseError{Kind: CorruptData, Context: "cannot make symbol from " + strconv.Quote(s)}
	}
	return SymbolValue(s), nil
}

// Expr is a node in the parsed syntax tree: *Atom, *List, or *Quote.
type Expr interface {
	// Tokens renders the subtree back to source text. Whitespace between
	// list elements is normalized to a single space.
	Tokens() string

	exprNode()
}

// Atom is a leaf carrying exactly one scalar.
type Atom struct {
	Value TypeValue
}

func (a *Atom) exprNode()      {}
func (a *Atom) Tokens() string { return a.Value.String() }

// SymbolAtom wraps a symbol scalar in an atom node.
func SymbolAtom(s string) *Atom { return &Atom{Value: SymbolValue(s)} }

// StringAtom wraps a string scalar in an atom node.
func StringAtom(s string) *Atom { return &Atom{Value: StringValue(s)} }

// KeywordAtom wraps a keyword scalar in an atom node.
func KeywordAtom(s string) *Atom { return &Atom{Value: KeywordValue(s)} }

// NumberAtom wraps a number scalar in an atom node.
func NumberAtom(n int64) *Atom { return &Atom{Value: NumberValue(n)} }

// List is a parenthesised form.
type List struct {
	Elems []Expr
}

func (l *List) exprNode() {}

func (l *List) Tokens() string {
	parts := make([]string, len(l.Elems))
	for i, e := range l.Elems {
		parts[i] = e.Tokens()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Nth returns the i-th element, or nil when out of range.
func (l *List) Nth(i int) Expr {
	if i < 0 || i >= len(l.Elems) {
		return nil
	}
	return l.Elems[i]
}

// Quote marks a single quoted subform.
type Quote struct {
	Inner Expr
}

func (q *Quote) exprNode()      {}
func (q *Quote) Tokens() string { return "'" + q.Inner.Tokens() }
