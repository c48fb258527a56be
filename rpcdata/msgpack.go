package rpcdata

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/ccqpein/lisp-rpc/sexp"
)

// Binary codec for Data values, for carrying payloads over transports that
// want a compact framing instead of wire text. Each value encodes as a
// small tagged array; field and key order survive the round trip.

const (
	binRecord int8 = iota
	binList
	binMap
	binValue
)

// Marshal encodes a Data value as MessagePack.
func Marshal(d Data) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := encodeData(enc, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a Data value produced by Marshal.
func Unmarshal(b []byte) (Data, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	return decodeData(dec)
}

func encodeData(enc *msgpack.Encoder, d Data) error {
	switch d := d.(type) {
	case *Record:
		if err := enc.EncodeArrayLen(3); err != nil {
			return err
		}
		if err := enc.EncodeInt(int64(binRecord)); err != nil {
			return err
		}
		if err := enc.EncodeString(d.name); err != nil {
			return err
		}
		if err := enc.EncodeArrayLen(len(d.fields) * 2); err != nil {
			return err
		}
		for _, f := range d.fields {
			if err := enc.EncodeString(f.Key.Value.Text); err != nil {
				return err
			}
			if err := encodeData(enc, f.Value); err != nil {
				return err
			}
		}
		return nil

	case *List:
		if err := enc.EncodeArrayLen(2); err != nil {
			return err
		}
		if err := enc.EncodeInt(int64(binList)); err != nil {
			return err
		}
		if err := enc.EncodeArrayLen(len(d.elems)); err != nil {
			return err
		}
		for _, e := range d.elems {
			if err := encodeData(enc, e); err != nil {
				return err
			}
		}
		return nil

	case *Map:
		if err := enc.EncodeArrayLen(2); err != nil {
			return err
		}
		if err := enc.EncodeInt(int64(binMap)); err != nil {
			return err
		}
		if err := enc.EncodeArrayLen(len(d.keys) * 2); err != nil {
			return err
		}
		for _, k := range d.keys {
			if err := enc.EncodeString(k); err != nil {
				return err
			}
			if err := encodeData(enc, d.table[k]); err != nil {
				return err
			}
		}
		return nil

	case *Value:
		if err := enc.EncodeArrayLen(3); err != nil {
			return err
		}
		if err := enc.EncodeInt(int64(binValue)); err != nil {
			return err
		}
		if err := enc.EncodeInt(int64(d.V.Kind)); err != nil {
			return err
		}
		if d.V.Kind == sexp.KindNumber {
			return enc.EncodeInt(d.V.Num)
		}
		return enc.EncodeString(d.V.Text)

	default:
		return invalidInput("cannot encode %T", d)
	}
}

func decodeData(dec *msgpack.Decoder) (Data, error) {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, decodeErr(err)
	}
	tag, err := dec.DecodeInt64()
	if err != nil {
		return nil, decodeErr(err)
	}

	switch int8(tag) {
	case binRecord:
		if n != 3 {
			return nil, invalidInput("record frame has to have 3 elements, got %d", n)
		}
		name, err := dec.DecodeString()
		if err != nil {
			return nil, decodeErr(err)
		}
		fn, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, decodeErr(err)
		}
		if fn%2 != 0 {
			return nil, invalidInput("record frame fields have to be pairs")
		}
		fields := make([]Field, 0, fn/2)
		for i := 0; i < fn; i += 2 {
			k, err := dec.DecodeString()
			if err != nil {
				return nil, decodeErr(err)
			}
			v, err := decodeData(dec)
			if err != nil {
				return nil, err
			}
			fields = append(fields, Field{Key: sexp.KeywordAtom(k), Value: v})
		}
		return NewRecord(name, fields)

	case binList:
		if n != 2 {
			return nil, invalidInput("list frame has to have 2 elements, got %d", n)
		}
		en, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, decodeErr(err)
		}
		elems := make([]Data, 0, en)
		for i := 0; i < en; i++ {
			e, err := decodeData(dec)
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		return &List{elems: elems}, nil

	case binMap:
		if n != 2 {
			return nil, invalidInput("map frame has to have 2 elements, got %d", n)
		}
		en, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, decodeErr(err)
		}
		if en%2 != 0 {
			return nil, invalidInput("map frame has to be pairs")
		}
		m := &Map{table: make(map[string]Data, en/2)}
		for i := 0; i < en; i += 2 {
			k, err := dec.DecodeString()
			if err != nil {
				return nil, decodeErr(err)
			}
			v, err := decodeData(dec)
			if err != nil {
				return nil, err
			}
			m.keys = append(m.keys, k)
			m.table[k] = v
		}
		return m, nil

	case binValue:
		if n != 3 {
			return nil, invalidInput("value frame has to have 3 elements, got %d", n)
		}
		kind, err := dec.DecodeInt64()
		if err != nil {
			return nil, decodeErr(err)
		}
		switch sexp.ValueKind(kind) {
		case sexp.KindNumber:
			num, err := dec.DecodeInt64()
			if err != nil {
				return nil, decodeErr(err)
			}
			return &Value{V: sexp.NumberValue(num)}, nil
		case sexp.KindSymbol, sexp.KindString, sexp.KindKeyword:
			text, err := dec.DecodeString()
			if err != nil {
				return nil, decodeErr(err)
			}
			return &Value{V: sexp.TypeValue{Kind: sexp.ValueKind(kind), Text: text}}, nil
		default:
			return nil, invalidInput("unknown value kind %d", kind)
		}

	default:
		return nil, invalidInput("unknown frame tag %d", tag)
	}
}

func decodeErr(err error) *DataError {
	return &DataError{Kind: InvalidInput, Msg: fmt.Sprintf("failed to decode msgpack data: %s", err)}
}
