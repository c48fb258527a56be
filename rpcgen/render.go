package rpcgen

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var builtinTemplates embed.FS

// Templates is a set of named templates. Names are file stems: the template
// in def_struct.tmpl renders as "def_struct". The renderer expects
// def_struct, rpc_impl, and Cargo.toml.
type Templates struct {
	set *template.Template
}

// DefaultTemplates returns the built-in Rust-target template set.
func DefaultTemplates() *Templates {
	t, err := loadFS(builtinTemplates, "templates")
	if err != nil {
		panic(fmt.Sprintf("rpcgen: builtin templates: %v", err))
	}
	return t
}

// LoadTemplates reads every file in dir as a template named by its stem
// (file name with the last extension removed).
func LoadTemplates(dir string) (*Templates, error) {
	return loadFS(os.DirFS(dir), ".")
}

func loadFS(fsys fs.FS, root string) (*Templates, error) {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}

	set := template.New("lisp-rpc")
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		b, err := fs.ReadFile(fsys, path.Join(root, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", e.Name(), err)
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if _, err := set.New(name).Parse(string(b)); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", e.Name(), err)
		}
	}
	return &Templates{set: set}, nil
}

// Render executes the named template on a fresh context. Trailing newlines
// from template files are trimmed so callers control separation.
func (t *Templates) Render(name string, data any) (string, error) {
	tmpl := t.set.Lookup(name)
	if tmpl == nil {
		return "", invalidInputf("template %q not found", name)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

// renderStructs renders def_struct then rpc_impl for each struct,
// blank-line separated.
func renderStructs(t *Templates, structs []GeneratedStruct) (string, error) {
	var bucket []string
	for _, s := range structs {
		ctx := s.context()
		def, err := t.Render("def_struct", ctx)
		if err != nil {
			return "", err
		}
		impl, err := t.Render("rpc_impl", ctx)
		if err != nil {
			return "", err
		}
		bucket = append(bucket, def, impl)
	}
	return strings.Join(bucket, "\n\n"), nil
}

// Config holds the generator settings.
type Config struct {
	// TemplateDir overrides the built-in templates; empty means built-in.
	TemplateDir string
	// OutDir is where generated packages are created. Empty means the
	// current directory.
	OutDir string
}

// Generator routes rendered declarations into package directories: for each
// def-rpc-package a directory <out>/<pkg>/ with Cargo.toml and src/lib.rs,
// with message and rpc declarations appended to src/lib.rs in source order.
type Generator struct {
	templates *Templates
	outDir    string
}

// NewGenerator builds a generator from config.
func NewGenerator(cfg Config) (*Generator, error) {
	t := DefaultTemplates()
	if cfg.TemplateDir != "" {
		var err error
		t, err = LoadTemplates(cfg.TemplateDir)
		if err != nil {
			return nil, err
		}
	}
	out := cfg.OutDir
	if out == "" {
		out = "."
	}
	return &Generator{templates: t, outDir: out}, nil
}

// Templates returns the active template set.
func (g *Generator) Templates() *Templates { return g.templates }

// Generate renders a spec file to disk. The first failure aborts; files
// already written stay on disk (append-open semantics).
func (g *Generator) Generate(spec *SpecFile) error {
	var lib *os.File
	defer func() {
		if lib != nil {
			lib.Close()
		}
	}()

	for _, d := range spec.Decls() {
		switch d := d.(type) {
		case *DefPkg:
			manifest, err := d.GenCode(g.templates)
			if err != nil {
				return err
			}
			dir := filepath.Join(g.outDir, d.PkgName())
			if err := os.MkdirAll(filepath.Join(dir, "src"), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte(manifest+"\n"), 0o644); err != nil {
				return err
			}
			if lib != nil {
				lib.Close()
			}
			lib, err = os.OpenFile(filepath.Join(dir, "src", "lib.rs"),
				os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
			if err != nil {
				return err
			}

		default:
			if lib == nil {
				return invalidInputf("declaration %q before any def-rpc-package", d.SymbolName())
			}
			code, err := d.GenCode(g.templates)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(lib, "%s\n", code); err != nil {
				return err
			}
		}
	}
	return nil
}
