// lisprpcgen generates RPC message bindings from lisp-rpc spec files.
//
// Usage:
//
//	lisprpcgen -spec api.lisp [-out ./gen] [-templates ./templates]
//
// The spec file holds def-rpc-package, def-msg, and def-rpc declarations.
// For each package declaration, lisprpcgen creates <out>/<pkg>/ with a
// Cargo.toml and a src/lib.rs holding the generated structs in source order.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ccqpein/lisp-rpc/rpcgen"
)

const version = "0.2.0"

func main() {
	specFile := flag.String("spec", "", "Path to lisp-rpc spec file (required)")
	outDir := flag.String("out", ".", "Output directory for generated packages")
	templateDir := flag.String("templates", "", "Template directory (default: built-in templates)")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("lisprpcgen %s\n", version)
		os.Exit(0)
	}

	if *specFile == "" {
		fmt.Fprintln(os.Stderr, "error: -spec flag is required")
		flag.Usage()
		os.Exit(1)
	}

	spec, err := rpcgen.ParseSpecFile(*specFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	gen, err := rpcgen.NewGenerator(rpcgen.Config{
		TemplateDir: *templateDir,
		OutDir:      *outDir,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := gen.Generate(spec); err != nil {
		fmt.Fprintf(os.Stderr, "error generating: %v\n", err)
		os.Exit(1)
	}
}
