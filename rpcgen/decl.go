package rpcgen

import (
	"fmt"

	"github.com/ccqpein/lisp-rpc/sexp"
)

// ErrorKind classifies declaration-level failures.
type ErrorKind int

const (
	// InvalidInput means a declaration had the wrong structural shape.
	InvalidInput ErrorKind = iota
	// DuplicateSymbol means a spec file declared the same symbol twice.
	DuplicateSymbol
)

func (k ErrorKind) String() string {
	if k == DuplicateSymbol {
		return "duplicate symbol"
	}
	return "invalid input"
}

// SpecError reports a failed declaration decode or spec-file collation.
type SpecError struct {
	Kind ErrorKind
	Msg  string
}

func (e *SpecError) Error() string {
	return fmt.Sprintf("rpcgen: %s: %s", e.Kind, e.Msg)
}

func invalidInputf(format string, args ...any) *SpecError {
	return &SpecError{Kind: InvalidInput, Msg: fmt.Sprintf(format, args...)}
}

// Decl is one top-level IDL declaration: *DefPkg, *DefMsg, or *DefRpc.
type Decl interface {
	// SymbolName is the declared name, used for spec-file uniqueness.
	SymbolName() string

	// GenCode renders the declaration through the template set.
	GenCode(t *Templates) (string, error)
}

// DeclFromExpr decodes a top-level form by its head symbol.
func DeclFromExpr(e sexp.Expr) (Decl, error) {
	switch {
	case IsDefPkgExpr(e):
		return DefPkgFromExpr(e)
	case IsDefMsgExpr(e):
		return DefMsgFromExpr(e)
	case IsDefRpcExpr(e):
		return DefRpcFromExpr(e)
	default:
		return nil, invalidInputf("unknown declaration %s", e.Tokens())
	}
}

// headSymbol returns the leading symbol of a list form, if any.
func headSymbol(e sexp.Expr) (string, bool) {
	l, ok := e.(*sexp.List)
	if !ok || len(l.Elems) == 0 {
		return "", false
	}
	a, ok := l.Elems[0].(*sexp.Atom)
	if !ok || a.Value.Kind != sexp.KindSymbol {
		return "", false
	}
	return a.Value.Text, true
}

// restOf returns the elements after the head of a list form.
func restOf(e sexp.Expr) []sexp.Expr {
	return e.(*sexp.List).Elems[1:]
}
