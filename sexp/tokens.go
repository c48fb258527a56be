package sexp

import (
	"io"
	"log"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
)

// Token types emitted by the tokenizer. Delimiters get their own type so the
// parser can dispatch without re-inspecting token text.
const (
	TokenLParen lexer.TokenType = lexer.EOF - 1 - iota
	TokenRParen
	TokenQuote
	TokenDoubleQuote
	TokenColon
	TokenSpace
	TokenNewline
	TokenText
)

var tokenSymbols = map[string]lexer.TokenType{
	"EOF":         lexer.EOF,
	"LParen":      TokenLParen,
	"RParen":      TokenRParen,
	"Quote":       TokenQuote,
	"DoubleQuote": TokenDoubleQuote,
	"Colon":       TokenColon,
	"Space":       TokenSpace,
	"Newline":     TokenNewline,
	"Text":        TokenText,
}

func delimType(c byte) (lexer.TokenType, bool) {
	switch c {
	case '(':
		return TokenLParen, true
	case ')':
		return TokenRParen, true
	case '\'':
		return TokenQuote, true
	case '"':
		return TokenDoubleQuote, true
	case ':':
		return TokenColon, true
	case ' ':
		return TokenSpace, true
	case '\n':
		return TokenNewline, true
	}
	return 0, false
}

// Tokenize splits the byte stream into delimiter tokens and maximal text
// runs. Consecutive spaces collapse into one space token; everything else is
// preserved, so joining the token values reproduces the input. String
// contents are not reassembled here — the parser's string reader does that.
// Read errors and invalid UTF-8 runs are logged and skipped.
func Tokenize(r io.Reader) []lexer.Token {
	return tokenize("", r)
}

func tokenize(filename string, r io.Reader) []lexer.Token {
	src, err := io.ReadAll(r)
	if err != nil {
		log.Printf("sexp: read error during tokenize: %v", err)
	}

	pos := lexer.Position{Filename: filename, Line: 1, Column: 1}
	var (
		toks  []lexer.Token
		cache []byte
		start lexer.Position
	)

	flush := func() {
		if len(cache) == 0 {
			return
		}
		if utf8.Valid(cache) {
			toks = append(toks, lexer.Token{Type: TokenText, Value: string(cache), Pos: start})
		} else {
			log.Printf("sexp: skipping invalid utf-8 run at %s", start)
		}
		cache = cache[:0]
	}

	for _, c := range src {
		if ty, ok := delimType(c); ok {
			flush()
			// collapse runs of spaces into one token
			if ty == TokenSpace && len(toks) > 0 && toks[len(toks)-1].Type == TokenSpace {
				advance(&pos, c)
				continue
			}
			toks = append(toks, lexer.Token{Type: ty, Value: string(c), Pos: pos})
		} else {
			if len(cache) == 0 {
				start = pos
			}
			cache = append(cache, c)
		}
		advance(&pos, c)
	}
	flush()

	return toks
}

func advance(pos *lexer.Position, c byte) {
	pos.Offset++
	if c == '\n' {
		pos.Line++
		pos.Column = 1
	} else {
		pos.Column++
	}
}

// Definition exposes the tokenizer as a participle lexer definition, so the
// token stream interoperates with participle tooling (positions, errors).
type Definition struct{}

var _ lexer.Definition = Definition{}

func (Definition) Symbols() map[string]lexer.TokenType { return tokenSymbols }

func (Definition) Lex(filename string, r io.Reader) (lexer.Lexer, error) {
	return &tokenLexer{toks: tokenize(filename, r)}, nil
}

type tokenLexer struct {
	toks   []lexer.Token
	cursor int
}

func (l *tokenLexer) Next() (lexer.Token, error) {
	if l.cursor >= len(l.toks) {
		var pos lexer.Position
		if n := len(l.toks); n > 0 {
			last := l.toks[n-1]
			pos = last.Pos
			pos.Offset += len(last.Value)
			pos.Column += len(last.Value)
		}
		return lexer.Token{Type: lexer.EOF, Pos: pos}, nil
	}
	t := l.toks[l.cursor]
	l.cursor++
	return t, nil
}
