package rpcgen

import "github.com/ccqpein/lisp-rpc/sexp"

// DefPkg is the (def-rpc-package name) declaration. It names the generated
// package and routes to the manifest sink instead of the library source.
type DefPkg struct {
	pkgName string
}

// IsDefPkgExpr reports whether the form's head is def-rpc-package.
func IsDefPkgExpr(e sexp.Expr) bool {
	head, ok := headSymbol(e)
	return ok && head == "def-rpc-package"
}

// DefPkgFromExpr decodes (def-rpc-package name); the one argument must be a
// symbol.
func DefPkgFromExpr(e sexp.Expr) (*DefPkg, error) {
	if !IsDefPkgExpr(e) {
		return nil, invalidInputf("the first symbol should be def-rpc-package")
	}
	rest := restOf(e)
	if len(rest) != 1 {
		return nil, invalidInputf("def-rpc-package takes exactly one name, got %d arguments", len(rest))
	}
	name, ok := rest[0].(*sexp.Atom)
	if !ok || name.Value.Kind != sexp.KindSymbol {
		return nil, invalidInputf("package name should be a symbol")
	}
	return &DefPkg{pkgName: name.Value.Text}, nil
}

func (p *DefPkg) SymbolName() string { return p.pkgName }

// PkgName returns the declared package name.
func (p *DefPkg) PkgName() string { return p.pkgName }

// GenCode renders the package manifest.
func (p *DefPkg) GenCode(t *Templates) (string, error) {
	return t.Render("Cargo.toml", pkgContext{PackageName: p.pkgName})
}

// pkgContext is the template-variable contract for Cargo.toml.
type pkgContext struct {
	PackageName string
}
