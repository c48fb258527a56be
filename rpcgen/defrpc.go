package rpcgen

import (
	"strings"

	"github.com/ccqpein/lisp-rpc/sexp"
)

// DefRpc is the (def-rpc name '(:k t ...) 'return?) declaration: a named
// call with a keyword-pair argument list and an optional return type.
type DefRpc struct {
	rpcName string

	// the keyword and type-form pairs of the request body
	args []sexp.Expr

	// empty when the rpc declares no return type
	returnValue string
}

// IsDefRpcExpr reports whether the form's head is def-rpc.
func IsDefRpcExpr(e sexp.Expr) bool {
	head, ok := headSymbol(e)
	return ok && head == "def-rpc"
}

// DefRpcFromExpr decodes a (def-rpc name '(args) 'return?) form. The
// argument list may be quoted any number of times or not at all; the return
// type, when present, must be a quoted symbol.
func DefRpcFromExpr(e sexp.Expr) (*DefRpc, error) {
	if !IsDefRpcExpr(e) {
		return nil, invalidInputf("the first symbol should be def-rpc")
	}
	rest := restOf(e)
	if len(rest) < 2 {
		return nil, invalidInputf("def-rpc needs a name and an argument list")
	}
	if len(rest) > 3 {
		return nil, invalidInputf("def-rpc takes at most a name, arguments, and a return type")
	}

	name, ok := rest[0].(*sexp.Atom)
	if !ok || name.Value.Kind != sexp.KindSymbol {
		return nil, invalidInputf("rpc name should be a symbol")
	}

	argList, ok := deQuoted(rest[1]).(*sexp.List)
	if !ok {
		return nil, invalidInputf("%s: second argument has to be a list of keyword-value pairs", name.Value.Text)
	}

	var returnValue string
	if len(rest) == 3 {
		q, ok := rest[2].(*sexp.Quote)
		if !ok {
			return nil, invalidInputf("%s: return type has to be quoted", name.Value.Text)
		}
		ret, ok := q.Inner.(*sexp.Atom)
		if !ok || ret.Value.Kind != sexp.KindSymbol {
			return nil, invalidInputf("%s: return type has to be a quoted symbol", name.Value.Text)
		}
		returnValue = ret.Value.Text
	}

	return &DefRpc{
		rpcName:     name.Value.Text,
		args:        argList.Elems,
		returnValue: returnValue,
	}, nil
}

// DefRpcFromString decodes the first top-level form of source text. A nil
// parser means defaults.
func DefRpcFromString(source string, p *sexp.Parser) (*DefRpc, error) {
	if p == nil {
		p = sexp.NewParser()
	}
	e, err := p.ParseRootOne(strings.NewReader(source))
	if err != nil {
		return nil, err
	}
	return DefRpcFromExpr(e)
}

func (r *DefRpc) SymbolName() string { return r.rpcName }

// ReturnType returns the declared return type symbol, if any.
func (r *DefRpc) ReturnType() (string, bool) {
	return r.returnValue, r.returnValue != ""
}

// CreateGenStructs lowers the declaration like a message: auxiliary structs
// for anonymous argument types first, the request struct last.
func (r *DefRpc) CreateGenStructs() ([]GeneratedStruct, error) {
	aux, fields, err := lowerFields(r.rpcName, r.args)
	if err != nil {
		return nil, err
	}
	return append(aux, NewGeneratedStruct(r.rpcName, nil, fields, "", RPCTypeData)), nil
}

// GenCode renders every lowered struct through def_struct and rpc_impl,
// blank-line separated.
func (r *DefRpc) GenCode(t *Templates) (string, error) {
	structs, err := r.CreateGenStructs()
	if err != nil {
		return "", err
	}
	return renderStructs(t, structs)
}

// deQuoted strips every quote layer off a form.
func deQuoted(e sexp.Expr) sexp.Expr {
	for {
		q, ok := e.(*sexp.Quote)
		if !ok {
			return e
		}
		e = q.Inner
	}
}
