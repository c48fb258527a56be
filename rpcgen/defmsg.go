package rpcgen

import (
	"strings"

	"github.com/ccqpein/lisp-rpc/sexp"
)

// DefMsg is the (def-msg name :k1 t1 :k2 t2 ...) declaration. Anonymous
// nested definitions reuse DefMsg with the map shape, so the type also
// carries which wire shape it serializes to.
type DefMsg struct {
	msgName string

	// the keyword and type-form pairs, kept raw for lowering
	restExpr []sexp.Expr

	msgType RPCDataType
}

// IsDefMsgExpr reports whether the form's head is def-msg.
func IsDefMsgExpr(e sexp.Expr) bool {
	head, ok := headSymbol(e)
	return ok && head == "def-msg"
}

// NewDefMsg builds a message declaration from already-split parts. The rest
// must be keyword-led pairs.
func NewDefMsg(name string, rest []sexp.Expr, ty RPCDataType) (*DefMsg, error) {
	if len(rest)%2 != 0 {
		return nil, invalidInputf("%s: message arguments should be keyword-value pairs", name)
	}
	for i := 0; i < len(rest); i += 2 {
		k, ok := rest[i].(*sexp.Atom)
		if !ok || k.Value.Kind != sexp.KindKeyword {
			return nil, invalidInputf("%s: message arguments should be keyword-value pairs", name)
		}
	}
	return &DefMsg{msgName: name, restExpr: rest, msgType: ty}, nil
}

// DefMsgFromExpr decodes a (def-msg name :k t ...) form.
func DefMsgFromExpr(e sexp.Expr) (*DefMsg, error) {
	if !IsDefMsgExpr(e) {
		return nil, invalidInputf("the first symbol should be def-msg")
	}
	rest := restOf(e)
	if len(rest) == 0 {
		return nil, invalidInputf("def-msg needs a name")
	}
	name, ok := rest[0].(*sexp.Atom)
	if !ok || name.Value.Kind != sexp.KindSymbol {
		return nil, invalidInputf("message name should be a symbol")
	}
	return NewDefMsg(name.Value.Text, rest[1:], RPCTypeData)
}

// DefMsgFromString decodes the first top-level form of source text. A nil
// parser means defaults.
func DefMsgFromString(source string, p *sexp.Parser) (*DefMsg, error) {
	if p == nil {
		p = sexp.NewParser()
	}
	e, err := p.ParseRootOne(strings.NewReader(source))
	if err != nil {
		return nil, err
	}
	return DefMsgFromExpr(e)
}

func (m *DefMsg) SymbolName() string { return m.msgName }

// CreateGenStructs lowers the declaration to struct descriptions in
// dependency order: auxiliary structs for anonymous nested types first, the
// message struct itself last.
func (m *DefMsg) CreateGenStructs() ([]GeneratedStruct, error) {
	aux, fields, err := lowerFields(m.msgName, m.restExpr)
	if err != nil {
		return nil, err
	}
	return append(aux, NewGeneratedStruct(m.msgName, nil, fields, "", m.msgType)), nil
}

// GenCode renders every lowered struct through def_struct and rpc_impl,
// blank-line separated.
func (m *DefMsg) GenCode(t *Templates) (string, error) {
	structs, err := m.CreateGenStructs()
	if err != nil {
		return "", err
	}
	return renderStructs(t, structs)
}
