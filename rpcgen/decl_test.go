package rpcgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccqpein/lisp-rpc/sexp"
)

func parseOne(t *testing.T, source string) sexp.Expr {
	t.Helper()
	e, err := sexp.NewParser().ParseExprString(source)
	require.NoError(t, err)
	return e
}

func TestParseDefMsg(t *testing.T) {
	dm, err := DefMsgFromString(`(def-msg language-perfer :lang 'string)`, nil)
	require.NoError(t, err)
	assert.Equal(t, "language-perfer", dm.SymbolName())
	assert.Equal(t, []sexp.Expr{
		sexp.KeywordAtom("lang"),
		&sexp.Quote{Inner: sexp.SymbolAtom("string")},
	}, dm.restExpr)
	assert.Equal(t, RPCTypeData, dm.msgType)

	// trailing garbage after the first form is ignored
	dm, err = DefMsgFromString(`  (def-msg language-perfer :lang 'string) (additional)`, nil)
	require.NoError(t, err)
	assert.Equal(t, "language-perfer", dm.SymbolName())

	// multiple keyword pairs
	dm, err = DefMsgFromString(`(def-msg language-perfer :lang 'string :version 'number)`, nil)
	require.NoError(t, err)
	assert.Len(t, dm.restExpr, 4)
}

func TestParseDefMsgErrors(t *testing.T) {
	cases := []string{
		`(def-msg)`,                     // missing name
		`(def-msg "name" :a 'string)`,   // name not a symbol
		`(def-msg m :a)`,                // dangling keyword
		`(def-msg m sym 'string)`,       // non-keyword key position
		`(def-other m :a 'string)`,      // wrong head
	}
	for _, source := range cases {
		_, err := DefMsgFromString(source, nil)
		require.Error(t, err, source)

		var se *SpecError
		require.ErrorAs(t, err, &se, source)
		assert.Equal(t, InvalidInput, se.Kind, source)
	}
}

func TestParseDefRpc(t *testing.T) {
	dr, err := DefRpcFromString(
		"(def-rpc get-book\n '(:title 'string :version 'string :lang 'language-perfer)\n 'book-info)", nil)
	require.NoError(t, err)

	assert.Equal(t, "get-book", dr.SymbolName())
	assert.Equal(t, []sexp.Expr{
		sexp.KeywordAtom("title"), &sexp.Quote{Inner: sexp.SymbolAtom("string")},
		sexp.KeywordAtom("version"), &sexp.Quote{Inner: sexp.SymbolAtom("string")},
		sexp.KeywordAtom("lang"), &sexp.Quote{Inner: sexp.SymbolAtom("language-perfer")},
	}, dr.args)

	ret, ok := dr.ReturnType()
	require.True(t, ok)
	assert.Equal(t, "book-info", ret)

	// nested anonymous map stays raw in the args
	dr, err = DefRpcFromString(
		"(def-rpc get-book\n '(:title 'string :lang '(:lang 'string :encoding 'number))\n 'book-info)", nil)
	require.NoError(t, err)
	assert.Len(t, dr.args, 4)

	// bare (unquoted) argument list is tolerated
	dr, err = DefRpcFromString(`(def-rpc get-book (:title 'string) 'book-info)`, nil)
	require.NoError(t, err)
	assert.Len(t, dr.args, 2)

	// return type is optional
	dr, err = DefRpcFromString(`(def-rpc ping '(:seq 'number))`, nil)
	require.NoError(t, err)
	_, ok = dr.ReturnType()
	assert.False(t, ok)
}

func TestParseDefRpcErrors(t *testing.T) {
	cases := []string{
		`(def-rpc)`,                          // nothing
		`(def-rpc only-name)`,                // missing args
		`(def-rpc r 'sym)`,                   // args not a list
		`(def-rpc r '(:a 'x) book-info)`,     // return not quoted
		`(def-rpc r '(:a 'x) '"s")`,          // return not a symbol
		`(def-rpc r '(:a 'x) 'ret 'extra)`,   // trailing argument
	}
	for _, source := range cases {
		_, err := DefRpcFromString(source, nil)
		require.Error(t, err, source)

		var se *SpecError
		require.ErrorAs(t, err, &se, source)
		assert.Equal(t, InvalidInput, se.Kind, source)
	}
}

func TestParseDefPkg(t *testing.T) {
	p, err := DefPkgFromExpr(parseOne(t, `(def-rpc-package demo)`))
	require.NoError(t, err)
	assert.Equal(t, "demo", p.PkgName())
	assert.Equal(t, "demo", p.SymbolName())

	for _, source := range []string{
		`(def-rpc-package)`,
		`(def-rpc-package a b)`,
		`(def-rpc-package "demo")`,
	} {
		_, err := DefPkgFromExpr(parseOne(t, source))
		require.Error(t, err, source)
	}
}

func TestDeclFromExpr(t *testing.T) {
	d, err := DeclFromExpr(parseOne(t, `(def-rpc-package demo)`))
	require.NoError(t, err)
	assert.IsType(t, &DefPkg{}, d)

	d, err = DeclFromExpr(parseOne(t, `(def-msg m :a 'string)`))
	require.NoError(t, err)
	assert.IsType(t, &DefMsg{}, d)

	d, err = DeclFromExpr(parseOne(t, `(def-rpc r '(:a 'string))`))
	require.NoError(t, err)
	assert.IsType(t, &DefRpc{}, d)

	_, err = DeclFromExpr(parseOne(t, `(something-else a)`))
	require.Error(t, err)
	var se *SpecError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, InvalidInput, se.Kind)
}

func TestDeQuoted(t *testing.T) {
	e := parseOne(t, `''(a)`)
	stripped := deQuoted(e)
	assert.IsType(t, &sexp.List{}, stripped)

	plain := parseOne(t, `(a)`)
	assert.Equal(t, plain, deQuoted(plain))
}
