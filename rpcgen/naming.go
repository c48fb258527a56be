// Package rpcgen decodes lisp-rpc IDL declarations and generates message
// struct source code from them.
//
// A spec file holds three kinds of top-level declarations — def-rpc-package,
// def-msg, and def-rpc. Messages and rpcs lower to ordered GeneratedStruct
// sequences (anonymous inline records become named auxiliary structs) which
// render through stem-named templates into the target package's sources.
package rpcgen

import (
	"strings"
	"unicode"
)

// KebabToPascal transforms a kebab-case name into PascalCase: split on '-',
// uppercase the first rune of each segment, concatenate.
func KebabToPascal(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(name, "-") {
		if part == "" {
			continue
		}
		runes := []rune(part)
		b.WriteRune(unicode.ToUpper(runes[0]))
		b.WriteString(string(runes[1:]))
	}
	return b.String()
}

// KebabToSnake transforms a kebab-case name into snake_case.
func KebabToSnake(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// TypeTranslate maps an IDL type symbol to the target type name: pascal-case
// it, then map the number scalar onto the target integer.
func TypeTranslate(sym string) string {
	s := KebabToPascal(sym)
	if s == "Number" {
		return "i64"
	}
	return s
}
