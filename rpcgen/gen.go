package rpcgen

import (
	"github.com/ccqpein/lisp-rpc/sexp"
)

// RPCDataType tags which wire shape a generated struct serializes to, which
// in turn selects the rendering variant.
type RPCDataType int

const (
	// RPCTypeData is the named record shape (name :k v ...).
	RPCTypeData RPCDataType = iota
	// RPCTypeMap is the quoted keyword-pair shape '(:k v ...).
	RPCTypeMap
	// RPCTypeList is the quoted sequence shape '(v v ...).
	RPCTypeList
)

func (t RPCDataType) String() string {
	switch t {
	case RPCTypeMap:
		return "map"
	case RPCTypeList:
		return "list"
	default:
		return "data"
	}
}

// GeneratedField is one field of a generated struct. Name is the snake_case
// target field name; KeyName preserves the original kebab keyword for
// re-emission inside serialization format strings.
type GeneratedField struct {
	Name      string
	FieldType string
	Comment   string

	KeyName string
}

// NewGeneratedField translates an IDL keyword and type symbol into a field.
func NewGeneratedField(keyName, fieldType, comment string) GeneratedField {
	return GeneratedField{
		Name:      KebabToSnake(keyName),
		FieldType: TypeTranslate(fieldType),
		Comment:   comment,
		KeyName:   keyName,
	}
}

// GeneratedStruct is the template-ready description of one emitted record
// type: the middle layer between the IDL declarations and the renderer.
type GeneratedStruct struct {
	Name          string
	DerivedTraits []string
	Fields        []GeneratedField
	Comment       string

	// DataName preserves the original kebab declaration name for the
	// record serialization format.
	DataName string

	RPCType RPCDataType
}

// NewGeneratedStruct builds a struct description from the original kebab
// declaration name.
func NewGeneratedStruct(dataName string, derived []string, fields []GeneratedField, comment string, ty RPCDataType) GeneratedStruct {
	return GeneratedStruct{
		Name:          KebabToPascal(dataName),
		DerivedTraits: derived,
		Fields:        fields,
		Comment:       comment,
		DataName:      dataName,
		RPCType:       ty,
	}
}

// structContext is the template-variable contract for def_struct and
// rpc_impl: Name, Fields, Ty in {data, map, list}, and DataName set only
// for the data shape.
type structContext struct {
	Name          string
	Fields        []GeneratedField
	Ty            string
	DataName      string
	DerivedTraits []string
	Comment       string
}

func (s GeneratedStruct) context() structContext {
	ctx := structContext{
		Name:          s.Name,
		Fields:        s.Fields,
		Ty:            s.RPCType.String(),
		DerivedTraits: s.DerivedTraits,
		Comment:       s.Comment,
	}
	if s.RPCType == RPCTypeData {
		ctx.DataName = s.DataName
	}
	return ctx
}

// lowerFields walks keyword/type pairs and produces the fields of the owner
// struct plus, for every anonymous nested form, the auxiliary structs it
// desugars to. Auxiliary structs come back in dependency order and must be
// emitted before the owner.
func lowerFields(owner string, pairs []sexp.Expr) ([]GeneratedStruct, []GeneratedField, error) {
	if len(pairs)%2 != 0 {
		return nil, nil, invalidInputf("%s: arguments have to be keyword-value pairs", owner)
	}

	var (
		aux    []GeneratedStruct
		fields []GeneratedField
	)
	for i := 0; i < len(pairs); i += 2 {
		k, ok := pairs[i].(*sexp.Atom)
		if !ok || k.Value.Kind != sexp.KindKeyword {
			return nil, nil, invalidInputf("%s: arguments have to be keyword-value pairs", owner)
		}
		field := k.Value.Text

		switch v := pairs[i+1].(type) {
		case *sexp.Quote:
			switch inner := v.Inner.(type) {
			case *sexp.Atom:
				if inner.Value.Kind != sexp.KindSymbol {
					return nil, nil, invalidInputf("%s: field %s type has to be a quoted symbol", owner, field)
				}
				fields = append(fields, NewGeneratedField(field, inner.Value.Text, ""))
			case *sexp.List:
				sub, gf, err := lowerInline(owner, field, inner.Elems)
				if err != nil {
					return nil, nil, err
				}
				aux = append(aux, sub...)
				fields = append(fields, gf)
			default:
				return nil, nil, invalidInputf("%s: field %s has an unreadable type form", owner, field)
			}
		case *sexp.List:
			sub, gf, err := lowerInline(owner, field, v.Elems)
			if err != nil {
				return nil, nil, err
			}
			aux = append(aux, sub...)
			fields = append(fields, gf)
		default:
			return nil, nil, invalidInputf("%s: field %s has an unreadable type form", owner, field)
		}
	}
	return aux, fields, nil
}

// lowerInline desugars one anonymous nested form. A keyword-led form becomes
// an auxiliary map-typed struct named owner-field; a (list 'T) form becomes
// a sequence field with no auxiliary struct.
func lowerInline(owner, field string, inner []sexp.Expr) ([]GeneratedStruct, GeneratedField, error) {
	if len(inner) < 2 {
		return nil, GeneratedField{}, invalidInputf("%s: anonymous type of field %s needs at least one pair", owner, field)
	}

	first, ok := inner[0].(*sexp.Atom)
	if !ok {
		return nil, GeneratedField{}, invalidInputf("%s: anonymous type of field %s can only be a map or list", owner, field)
	}

	switch {
	case first.Value.Kind == sexp.KindKeyword:
		name := owner + "-" + field
		sub, err := NewDefMsg(name, inner, RPCTypeMap)
		if err != nil {
			return nil, GeneratedField{}, err
		}
		structs, err := sub.CreateGenStructs()
		if err != nil {
			return nil, GeneratedField{}, err
		}
		return structs, NewGeneratedField(field, name, ""), nil

	case first.Value.Kind == sexp.KindSymbol && first.Value.Text == "list":
		q, ok := inner[1].(*sexp.Quote)
		if !ok {
			return nil, GeneratedField{}, invalidInputf("%s: list type of field %s has to name a quoted element type", owner, field)
		}
		elem, ok := q.Inner.(*sexp.Atom)
		if !ok || elem.Value.Kind != sexp.KindSymbol {
			return nil, GeneratedField{}, invalidInputf("%s: list type of field %s has to name a quoted element type", owner, field)
		}
		return nil, NewGeneratedField(field, "Vec<"+TypeTranslate(elem.Value.Text)+">", ""), nil

	default:
		return nil, GeneratedField{}, invalidInputf("%s: anonymous type of field %s can only be a map or list", owner, field)
	}
}
