// Package lisprpc is an S-expression IDL for RPC, with a parser for the
// wire format and a code generator for typed message structs.
//
// Wire data looks like (get-book :title "hello" :lang '(:lang "english"))
// and spec files declare packages, messages, and rpcs with def-rpc-package,
// def-msg, and def-rpc forms.
//
// The module is organized into three packages plus a command:
//
//   - [github.com/ccqpein/lisp-rpc/sexp] — tokenizer, parser, and Expr tree
//   - [github.com/ccqpein/lisp-rpc/rpcdata] — typed Data payloads with
//     round-trip serialization and keyed access
//   - [github.com/ccqpein/lisp-rpc/rpcgen] — IDL declarations, struct
//     lowering, and template-driven code emission
//   - cmd/lisprpcgen — the generator CLI
package lisprpc
