package rpcdata

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccqpein/lisp-rpc/sexp"
)

func TestReadDataFromString(t *testing.T) {
	d, err := FromRootString(`(get-book :title "hello world" :version "1984")`, nil)
	require.NoError(t, err)

	assert.Equal(t, "get-book", d.Name())

	title, ok := d.Get("title")
	require.True(t, ok)
	assert.Equal(t, &Value{V: sexp.StringValue("hello world")}, title)

	// with read-number on, digits become numbers
	d, err = FromRootString(`(get-book :title "hello world" :version 1984)`, sexp.NewParser().ConfigReadNumber(true))
	require.NoError(t, err)
	version, ok := d.Get("version")
	require.True(t, ok)
	assert.Equal(t, &Value{V: sexp.NumberValue(1984)}, version)

	_, err = FromRootString(`(rpc-call :version 1 :aa 2)`, nil)
	assert.NoError(t, err)
}

func TestReadNestedData(t *testing.T) {
	d, err := FromString(`(get-book :title "hello world" :version "1984" :lang '(:lang "english" :encoding 77))`, nil)
	require.NoError(t, err)
	require.IsType(t, &Record{}, d)

	title, ok := d.Get("title")
	require.True(t, ok)
	assert.Equal(t, &Value{V: sexp.StringValue("hello world")}, title)

	lang, ok := d.Get("lang")
	require.True(t, ok)
	m, ok := lang.(*Map)
	require.True(t, ok, "lang has to be a map, got %T", lang)

	enc, ok := m.Get("encoding")
	require.True(t, ok)
	assert.Equal(t, &Value{V: sexp.NumberValue(77)}, enc)

	// nested bare list is a nested record
	d, err = FromString(`(book-info :id "123" :lang (language-perfer :lang "english"))`, nil)
	require.NoError(t, err)

	lang, ok = d.Get("lang")
	require.True(t, ok)
	nested, ok := lang.(*Record)
	require.True(t, ok)
	assert.Equal(t, "language-perfer", nested.Name())
	inner, ok := nested.Get("lang")
	require.True(t, ok)
	assert.Equal(t, &Value{V: sexp.StringValue("english")}, inner)
}

func TestRoundTrip(t *testing.T) {
	cases := []string{
		`(get-book :title "hello world" :version "1984")`,
		`(get-book :title "hello world" :version '(1 2 3 4) :map '(:a 2 :r 4))`,
		`(response :args '(1 2) :result 3)`,
		`(m :empty '() :inner (sub :a 1))`,
	}
	for _, s := range cases {
		d, err := FromString(s, nil)
		require.NoError(t, err, s)
		assert.Equal(t, s, d.String())

		// parsing the rendering again yields an equal value
		d2, err := FromString(d.String(), nil)
		require.NoError(t, err)
		assert.Equal(t, d.String(), d2.String())
	}
}

func TestRecordReconstruct(t *testing.T) {
	d, err := FromRootString(`(get-book :title "hello world" :version '(1 2 3 4))`, nil)
	require.NoError(t, err)

	rebuilt, err := NewRecord(d.Name(), d.Fields())
	require.NoError(t, err)
	assert.Equal(t, d.String(), rebuilt.String())
}

func TestRecordGetFirstMatch(t *testing.T) {
	d, err := FromRootString(`(m :a 1 :a 2 :b 3)`, nil)
	require.NoError(t, err)

	v, ok := d.Get("a")
	require.True(t, ok)
	assert.Equal(t, &Value{V: sexp.NumberValue(1)}, v)

	_, ok = d.Get("missing")
	assert.False(t, ok)
}

func TestMapKeyOrder(t *testing.T) {
	// serialization follows source key order, not table order
	s := `'(:z 1 :m 2 :a 3 :q 4 :b 5)`
	d, err := FromString(s, nil)
	require.NoError(t, err)

	m, ok := d.(*Map)
	require.True(t, ok)
	assert.Equal(t, []string{"z", "m", "a", "q", "b"}, m.Keys())
	assert.Equal(t, s, d.String())
}

func TestMakeMapData(t *testing.T) {
	d, err := FromString(`'(:title 'string :version 'string :lang 'language-perfer)`, nil)
	require.NoError(t, err)
	require.IsType(t, &Map{}, d)

	v, ok := d.Get("version")
	require.True(t, ok)
	assert.Equal(t, &Value{V: sexp.SymbolValue("string")}, v)

	v, ok = d.Get("lang")
	require.True(t, ok)
	assert.Equal(t, &Value{V: sexp.SymbolValue("language-perfer")}, v)

	// nested quoted map inside a map
	d, err = FromString(`'(:title 'string :lang '(:lang 'string :encoding 'number))`, nil)
	require.NoError(t, err)
	lang, ok := d.Get("lang")
	require.True(t, ok)
	require.IsType(t, &Map{}, lang)
}

func TestListData(t *testing.T) {
	d, err := FromString(`'(1 2 3 4 "d")`, nil)
	require.NoError(t, err)

	l, ok := d.(*List)
	require.True(t, ok)
	assert.Len(t, l.Elems(), 5)
	assert.Equal(t, `'(1 2 3 4 "d")`, l.String())

	_, ok = l.Get("anything")
	assert.False(t, ok)
}

func TestFromExprErrors(t *testing.T) {
	p := sexp.NewParser()

	for _, s := range []string{
		"sym",          // bare symbol is not data
		"()",           // empty record form
		"(a :k)",       // even-length record form
		`(:k :r 2)`,    // record head is not a symbol
		"(a :k 1 b 2)", // non-keyword key position
		"''x",          // double quote has no data meaning
	} {
		e, err := p.ParseExprString(s)
		require.NoError(t, err, s)
		_, err = FromExpr(e)
		require.Error(t, err, s)

		var de *DataError
		require.ErrorAs(t, err, &de, s)
		assert.Equal(t, InvalidInput, de.Kind, s)
	}
}

func TestFromRootStringRejectsNonRecord(t *testing.T) {
	_, err := FromRootString(`'(1 2 3)`, nil)
	require.Error(t, err)

	var de *DataError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, InvalidInput, de.Kind)
}

func TestNewData(t *testing.T) {
	// a name with a space can never re-parse as one symbol
	_, err := New("rpc call", KV{Key: "version", Value: Num(1)})
	require.Error(t, err)
	var de *DataError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CorruptData, de.Kind)

	d, err := New("rpc-call", KV{Key: "version", Value: Num(1)})
	require.NoError(t, err)
	assert.Equal(t, "(rpc-call :version 1)", d.String())

	// every native signed width converts by sign extension
	d, err = New("widths",
		KV{Key: "a", Value: Num(int8(-1))},
		KV{Key: "b", Value: Num(int16(-2))},
		KV{Key: "c", Value: Num(int32(-3))},
		KV{Key: "d", Value: Num(int64(-4))},
		KV{Key: "e", Value: Str("s")},
	)
	require.NoError(t, err)
	assert.Equal(t, `(widths :a -1 :b -2 :c -3 :d -4 :e "s")`, d.String())

	// empty record keeps the original trailing-space rendering
	d, err = New("a-b")
	require.NoError(t, err)
	assert.Equal(t, "(a-b )", d.String())
}

func TestPlainModeExchange(t *testing.T) {
	// client builds a request programmatically
	req, err := New("rpc-call", KV{Key: "version", Value: Num(1)}, KV{Key: "aa", Value: Num(2)})
	require.NoError(t, err)
	raw := req.String()

	// server parses it back and reads the arguments
	got, err := FromRootString(raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "rpc-call", got.Name())

	version, ok := got.Get("version")
	require.True(t, ok)
	vv := version.(*Value)
	aa, ok := got.Get("aa")
	require.True(t, ok)
	av := aa.(*Value)

	resp, err := FromRootString(
		"(response :args '(1 2) :result "+(&Value{V: sexp.NumberValue(vv.V.Num + av.V.Num)}).String()+")", nil)
	require.NoError(t, err)

	result, ok := resp.Get("result")
	require.True(t, ok)
	assert.Equal(t, &Value{V: sexp.NumberValue(3)}, result)
}

func TestDataErrorMessage(t *testing.T) {
	err := invalidInput("bad shape %d", 7)
	assert.Contains(t, err.Error(), "invalid input")
	assert.Contains(t, err.Error(), "bad shape 7")
	assert.True(t, errors.As(error(err), new(*DataError)))
}
