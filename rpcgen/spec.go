package rpcgen

import (
	"fmt"
	"io"
	"os"

	"github.com/ccqpein/lisp-rpc/sexp"
)

// SpecFile is an ordered collection of IDL declarations with a symbol
// uniqueness guard. Declarations keep their source order; output is emitted
// in the same order.
type SpecFile struct {
	decls   []Decl
	symbols map[string]struct{}
}

// NewSpecFile returns an empty spec file.
func NewSpecFile() *SpecFile {
	return &SpecFile{symbols: make(map[string]struct{})}
}

// RecordOne appends a declaration. A second declaration with an existing
// symbol name is a fatal error for the whole file.
func (f *SpecFile) RecordOne(d Decl) error {
	name := d.SymbolName()
	if _, ok := f.symbols[name]; ok {
		return &SpecError{Kind: DuplicateSymbol, Msg: fmt.Sprintf("symbol %q already exists", name)}
	}
	f.symbols[name] = struct{}{}
	f.decls = append(f.decls, d)
	return nil
}

// Decls returns the declarations in source order.
func (f *SpecFile) Decls() []Decl { return f.decls }

// ParseSpec reads every top-level form from the stream and collates the
// declarations. The first decode or collation failure aborts the file.
func ParseSpec(r io.Reader) (*SpecFile, error) {
	exprs, err := sexp.NewParser().ParseRoot(r)
	if err != nil {
		return nil, err
	}

	f := NewSpecFile()
	for _, e := range exprs {
		d, err := DeclFromExpr(e)
		if err != nil {
			return nil, err
		}
		if err := f.RecordOne(d); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// ParseSpecFile reads a spec from the given path and parses it.
func ParseSpecFile(path string) (*SpecFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read spec: %w", err)
	}
	defer file.Close()
	return ParseSpec(file)
}
