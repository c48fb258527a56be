// Package rpcdata interprets parsed S-expressions as typed RPC payloads.
//
// A payload is one of four shapes: a named record like
// (get-book :title "x"), a quoted list like '(1 2 3), a quoted keyword map
// like '(:a 1 :b 2), or a bare scalar value. Records and maps support keyed
// access; every shape serializes back to wire text, with the whitespace
// between elements normalized to single spaces.
package rpcdata

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ccqpein/lisp-rpc/sexp"
)

// ErrorKind classifies Data-layer failures.
type ErrorKind int

const (
	// InvalidInput means an Expr had the wrong structural shape for the
	// requested interpretation.
	InvalidInput ErrorKind = iota
	// CorruptData means a value was built that could not survive a
	// serialization round trip.
	CorruptData
)

func (k ErrorKind) String() string {
	if k == CorruptData {
		return "corrupt data"
	}
	return "invalid input"
}

// DataError reports a failed Data construction or access.
type DataError struct {
	Kind ErrorKind
	Msg  string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("rpcdata: %s: %s", e.Kind, e.Msg)
}

func invalidInput(format string, args ...any) *DataError {
	return &DataError{Kind: InvalidInput, Msg: fmt.Sprintf(format, args...)}
}

// Data is one RPC payload value: *Record, *List, *Map, or *Value.
type Data interface {
	// String renders the value in wire form; parsing the result yields a
	// structurally equal value.
	String() string

	// Get returns the value for a keyword key. It reports false on List
	// and Value, and on a missing key.
	Get(key string) (Data, bool)

	dataNode()
}

// FromExpr interprets a parsed Expr as a Data value.
//
// A bare list is a record; a quoted list is a map when its first element is
// a keyword and a list otherwise; a quoted atom and any non-symbol scalar
// are values. A bare symbol is not serializable data.
func FromExpr(e sexp.Expr) (Data, error) {
	switch e := e.(type) {
	case *sexp.List:
		return RecordFromExpr(e)
	case *sexp.Quote:
		switch inner := e.Inner.(type) {
		case *sexp.List:
			if len(inner.Elems) > 0 {
				if a, ok := inner.Elems[0].(*sexp.Atom); ok && a.Value.Kind == sexp.KindKeyword {
					return MapFromExpr(e)
				}
			}
			return ListFromExpr(e)
		case *sexp.Atom:
			return &Value{V: inner.Value}, nil
		default:
			return nil, invalidInput("cannot interpret %s as data", e.Tokens())
		}
	case *sexp.Atom:
		if e.Value.Kind == sexp.KindSymbol {
			return nil, invalidInput("bare symbol %s is not data", e.Value.Text)
		}
		return &Value{V: e.Value}, nil
	default:
		return nil, invalidInput("cannot interpret expr as data")
	}
}

// FromString parses one form of any shape and interprets it as Data. A nil
// parser means defaults (read-number on).
func FromString(s string, p *sexp.Parser) (Data, error) {
	if p == nil {
		p = sexp.NewParser()
	}
	e, err := p.ParseExprString(s)
	if err != nil {
		return nil, err
	}
	return FromExpr(e)
}

// FromRootString parses one top-level form and requires it to be a record,
// the only shape valid at the root of an RPC message.
func FromRootString(s string, p *sexp.Parser) (*Record, error) {
	d, err := FromString(s, p)
	if err != nil {
		return nil, err
	}
	r, ok := d.(*Record)
	if !ok {
		return nil, invalidInput("root data has to be a record, got %s", d.String())
	}
	return r, nil
}

// KV is one keyword-value pair for programmatic record construction.
type KV struct {
	Key   string
	Value Data
}

// Num converts a native signed integer into a number value, sign-extending
// to 64 bits.
func Num[T ~int | ~int8 | ~int16 | ~int32 | ~int64](v T) Data {
	return &Value{V: sexp.NumberValue(int64(v))}
}

// Str converts a native string into a string value.
func Str(s string) Data {
	return &Value{V: sexp.StringValue(s)}
}

// New builds a root record from a name and ordered key-value pairs. The
// name must serialize as a single symbol; a name with a space fails with
// CorruptData.
func New(name string, kvs ...KV) (Data, error) {
	fields := make([]Field, len(kvs))
	for i, kv := range kvs {
		fields[i] = Field{Key: sexp.KeywordAtom(kv.Key), Value: kv.Value}
	}
	return NewRecord(name, fields)
}

// Field is one ordered record entry. Key is always a keyword atom.
type Field struct {
	Key   *sexp.Atom
	Value Data
}

// Record is the named keyword-pair shape (name :k1 v1 :k2 v2 ...). Field
// order is preserved for serialization; keyed access lazily builds an index
// on first use.
type Record struct {
	name   string
	fields []Field

	once  sync.Once
	index map[string]Data
}

func (r *Record) dataNode() {}

// RecordFromExpr builds a record from a bare list form. The list must be
// odd-length with a leading symbol and alternating keyword keys.
func RecordFromExpr(e sexp.Expr) (*Record, error) {
	l, ok := e.(*sexp.List)
	if !ok {
		return nil, invalidInput("record has to come from a list form")
	}
	if len(l.Elems) == 0 {
		return nil, invalidInput("empty record form")
	}
	if len(l.Elems)%2 != 1 {
		return nil, invalidInput("record form has to have odd length, got %d", len(l.Elems))
	}

	head, ok := l.Elems[0].(*sexp.Atom)
	if !ok || head.Value.Kind != sexp.KindSymbol {
		return nil, invalidInput("record's first element has to be a symbol")
	}

	fields := make([]Field, 0, len(l.Elems)/2)
	for i := 1; i < len(l.Elems); i += 2 {
		k, ok := l.Elems[i].(*sexp.Atom)
		if !ok || k.Value.Kind != sexp.KindKeyword {
			return nil, invalidInput("record arguments have to be keyword-value pairs")
		}
		v, err := FromExpr(l.Elems[i+1])
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Key: k, Value: v})
	}

	return &Record{name: head.Value.Text, fields: fields}, nil
}

// NewRecord builds a record programmatically. The name is validated as a
// symbol; every field key must be a keyword atom.
func NewRecord(name string, fields []Field) (*Record, error) {
	if _, err := sexp.MakeSymbol(name); err != nil {
		return nil, &DataError{Kind: CorruptData, Msg: err.Error()}
	}
	for _, f := range fields {
		if f.Key == nil || f.Key.Value.Kind != sexp.KindKeyword {
			return nil, invalidInput("record field keys have to be keywords")
		}
	}
	return &Record{name: name, fields: fields}, nil
}

// Name returns the record's leading symbol.
func (r *Record) Name() string { return r.name }

// Fields returns the ordered field sequence.
func (r *Record) Fields() []Field { return r.fields }

// Get returns the first value whose key matches. The first call builds the
// index; the record must not be queried concurrently with construction.
func (r *Record) Get(key string) (Data, bool) {
	r.once.Do(func() {
		r.index = make(map[string]Data, len(r.fields))
		for _, f := range r.fields {
			k := f.Key.Value.Text
			if _, dup := r.index[k]; !dup {
				r.index[k] = f.Value
			}
		}
	})
	v, ok := r.index[key]
	return v, ok
}

func (r *Record) String() string {
	parts := make([]string, 0, len(r.fields)*2)
	for _, f := range r.fields {
		parts = append(parts, f.Key.Tokens(), f.Value.String())
	}
	return fmt.Sprintf("(%s %s)", r.name, strings.Join(parts, " "))
}

// List is the quoted sequence shape '(v1 v2 ...).
type List struct {
	elems []Data
}

func (l *List) dataNode() {}

// ListFromExpr builds a list from a quoted list form.
func ListFromExpr(e sexp.Expr) (*List, error) {
	q, ok := e.(*sexp.Quote)
	if !ok {
		return nil, invalidInput("list data has to be quoted")
	}
	inner, ok := q.Inner.(*sexp.List)
	if !ok {
		return nil, invalidInput("list data has to quote a list form")
	}
	elems := make([]Data, 0, len(inner.Elems))
	for _, e := range inner.Elems {
		d, err := FromExpr(e)
		if err != nil {
			return nil, err
		}
		elems = append(elems, d)
	}
	return &List{elems: elems}, nil
}

// NewList builds a list from values.
func NewList(elems ...Data) *List { return &List{elems: elems} }

// Elems returns the ordered elements.
func (l *List) Elems() []Data { return l.elems }

func (l *List) Get(string) (Data, bool) { return nil, false }

func (l *List) String() string {
	parts := make([]string, len(l.elems))
	for i, d := range l.elems {
		parts[i] = d.String()
	}
	return "'(" + strings.Join(parts, " ") + ")"
}

// Map is the quoted keyword-pair shape '(:k1 v1 :k2 v2 ...). Keys keep
// their insertion order for serialization; the table backs keyed access.
type Map struct {
	keys  []string
	table map[string]Data
}

func (m *Map) dataNode() {}

// MapFromExpr builds a map from a quoted keyword-pair form.
func MapFromExpr(e sexp.Expr) (*Map, error) {
	q, ok := e.(*sexp.Quote)
	if !ok {
		return nil, invalidInput("map data has to be quoted like '(:a 1 :b 2)")
	}
	inner, ok := q.Inner.(*sexp.List)
	if !ok {
		return nil, invalidInput("map data has to quote a list form")
	}
	if len(inner.Elems)%2 != 0 {
		return nil, invalidInput("map data has to be keyword-value pairs")
	}

	m := &Map{table: make(map[string]Data, len(inner.Elems)/2)}
	for i := 0; i < len(inner.Elems); i += 2 {
		k, ok := inner.Elems[i].(*sexp.Atom)
		if !ok || k.Value.Kind != sexp.KindKeyword {
			return nil, invalidInput("map data has to be keyword pairs like '(:a 1 :b 2)")
		}
		v, err := FromExpr(inner.Elems[i+1])
		if err != nil {
			return nil, err
		}
		m.keys = append(m.keys, k.Value.Text)
		m.table[k.Value.Text] = v
	}
	return m, nil
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string { return m.keys }

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.keys) }

func (m *Map) Get(key string) (Data, bool) {
	v, ok := m.table[key]
	return v, ok
}

// String renders entries in key insertion order, not table order.
func (m *Map) String() string {
	parts := make([]string, 0, len(m.keys)*2)
	for _, k := range m.keys {
		parts = append(parts, ":"+k, m.table[k].String())
	}
	return "'(" + strings.Join(parts, " ") + ")"
}

// Value is a bare scalar payload.
type Value struct {
	V sexp.TypeValue
}

func (v *Value) dataNode() {}

func (v *Value) Get(string) (Data, bool) { return nil, false }

func (v *Value) String() string { return v.V.String() }
